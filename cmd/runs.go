package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/pisaph/pisaph/internal/store"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect recorded evaluation runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent evaluation runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		deps, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer deps.Close()

		runs, err := deps.store.RunRepo().ListRuns(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query runs: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(runs) == 0 {
			fmt.Fprintln(out, "No evaluation runs recorded yet.")
			return nil
		}

		fmt.Fprintf(out, "%-8s  %-19s  %-20s  %7s  %6s  %6s  %6s\n",
			"ID", "Timestamp", "Model", "Records", "Acc", "F1", "AUC")
		fmt.Fprintln(out, strings.Repeat("─", 86))
		for _, r := range runs {
			auc := "n/a"
			if !math.IsNaN(r.ROCAUC) {
				auc = fmt.Sprintf("%.3f", r.ROCAUC)
			}
			fmt.Fprintf(out, "%-8s  %-19s  %-20s  %7d  %6.3f  %6.3f  %6s\n",
				truncate(r.ID, 8),
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				truncate(r.ModelName, 20),
				r.Records, r.Accuracy, r.F1, auc)
		}
		return nil
	},
}

func init() {
	runsListCmd.Flags().IntP("limit", "n", 20, "Number of runs to show")
	runsCmd.AddCommand(runsListCmd)
}
