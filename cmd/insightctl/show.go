package main

import (
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <doc-id>",
	Short: "Print the stored insights of one document",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, closeFn, err := openReadOnlyService()
	if err != nil {
		return err
	}
	defer closeFn()

	rec, err := svc.GetInsight(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return printJSON(cmd, rec)
}
