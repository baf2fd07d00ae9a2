package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/BerylCAtieno/resume-insights-api/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored insights",
	RunE:  runList,
}

var (
	listQuery string
	listSort  string
	listJSON  bool
)

func init() {
	listCmd.Flags().StringVarP(&listQuery, "query", "q", "", "Case-insensitive text to match in filenames and insights")
	listCmd.Flags().StringVar(&listSort, "sort", "desc", "Sort by upload time: asc or desc")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Print records as JSON")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, closeFn, err := openReadOnlyService()
	if err != nil {
		return err
	}
	defer closeFn()

	recs, err := svc.ListInsights(cmd.Context(), models.ListQuery{
		Search: listQuery,
		Sort:   models.ParseSortOrder(listSort),
	})
	if err != nil {
		return err
	}

	if listJSON {
		return printJSON(cmd, recs)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DOC ID\tFILENAME\tKIND\tUPLOADED")
	for _, rec := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.ID, rec.Filename, rec.Insights.Kind, rec.UploadTime.Format("2006-01-02 15:04:05"))
	}
	return tw.Flush()
}
