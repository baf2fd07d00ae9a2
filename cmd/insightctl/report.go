package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report <doc-id>",
	Short: "Write the PDF report of one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

var reportOutput string

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "out", "o", "", "Output path (defaults to the report's download filename)")

	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	svc, closeFn, err := openReadOnlyService()
	if err != nil {
		return err
	}
	defer closeFn()

	rpt, err := svc.BuildReport(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	out := reportOutput
	if out == "" {
		out = rpt.Filename
	}
	if err := os.WriteFile(out, rpt.Data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(rpt.Data))
	return nil
}
