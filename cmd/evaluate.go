package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Evaluate the model on the holdout set and record the run",
	RunE: func(cmd *cobra.Command, args []string) error {
		top, _ := cmd.Flags().GetInt("top")

		deps, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer deps.Close()

		svc := deps.evaluation()
		res, err := svc.Run(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		printResult(out, res)

		if top > 0 {
			ranked, err := svc.Importance()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "feature importance unavailable: %v\n", err)
				return nil
			}
			fmt.Fprintln(out)
			printImportance(out, evaluation.Top(ranked, top))
		}
		return nil
	},
}

func printResult(w io.Writer, res evaluation.Result) {
	fmt.Fprintf(w, "Model:     %s\n", res.Model)
	fmt.Fprintf(w, "Records:   %s\n", humanize.Comma(int64(res.N)))
	fmt.Fprintln(w, strings.Repeat("─", 32))
	fmt.Fprintf(w, "%-10s %8.4f\n", "Accuracy", res.Accuracy)
	fmt.Fprintf(w, "%-10s %8.4f\n", "Precision", res.Precision)
	fmt.Fprintf(w, "%-10s %8.4f\n", "Recall", res.Recall)
	fmt.Fprintf(w, "%-10s %8.4f\n", "F1", res.F1)
	if res.HasAUC() {
		fmt.Fprintf(w, "%-10s %8.4f\n", "ROC-AUC", res.ROCAUC)
	} else {
		fmt.Fprintf(w, "%-10s %8s\n", "ROC-AUC", "n/a")
	}
	fmt.Fprintln(w, strings.Repeat("─", 32))
	c := res.Confusion
	fmt.Fprintf(w, "TP %d  FP %d  TN %d  FN %d\n", c.TP, c.FP, c.TN, c.FN)
}

func printImportance(w io.Writer, ranked []evaluation.FeatureImportance) {
	fmt.Fprintf(w, "%-24s  %7s  %s\n", "Feature", "Share", "Effect")
	fmt.Fprintln(w, strings.Repeat("─", 44))
	for _, fi := range ranked {
		effect := ""
		switch {
		case fi.Sign > 0:
			effect = "raises risk"
		case fi.Sign < 0:
			effect = "lowers risk"
		}
		fmt.Fprintf(w, "%-24s  %6.1f%%  %s\n", truncate(fi.Feature, 24), fi.Share*100, effect)
	}
}

func init() {
	evaluateCmd.Flags().Int("top", 5, "Number of top features to list (0 to skip)")
}
