package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"resumelens/resume-analyzer/internal/models"
	"resumelens/resume-analyzer/internal/repositories"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List the most recent analyses",
	RunE:  runHistory,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", repositories.DefaultHistoryLimit, "Number of records to show (max 10)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	rt, err := loadDeps()
	if err != nil {
		return err
	}

	items, err := rt.historyRepo.Recent(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	return printHistory(cmd, items)
}

func printHistory(cmd *cobra.Command, items []models.HistoryItem) error {
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No analyses recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIMESTAMP\tSCORE\tNAME\tFILE")
	for _, item := range items {
		var name string
		if item.Analysis != nil {
			name = item.Analysis.PersonalInfo.Name
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			item.ID, item.Timestamp.Local().Format("2006-01-02 15:04:05"), item.Score, name, item.Filename)
	}
	return w.Flush()
}
