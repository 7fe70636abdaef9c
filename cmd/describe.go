package cmd

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pisaph/pisaph/internal/holdout"
	"github.com/spf13/cobra"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Summarize the holdout data set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		t, err := holdout.Load(cfg.Holdout)
		if err != nil {
			return err
		}
		s, err := holdout.Describe(t)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Holdout:     %s\n", cfg.Holdout)
		fmt.Fprintf(out, "Rows:        %s\n", humanize.Comma(int64(s.Rows)))
		fmt.Fprintf(out, "Repeaters:   %s (%.1f%%)\n", humanize.Comma(int64(s.Positives)), s.Rate*100)
		fmt.Fprintln(out)
		fmt.Fprintf(out, "%-24s  %10s  %10s  %10s  %10s  %10s\n",
			"Column", "Mean", "Median", "StdDev", "Min", "Max")
		fmt.Fprintln(out, strings.Repeat("─", 84))
		for _, c := range s.Columns {
			fmt.Fprintf(out, "%-24s  %10.3f  %10.3f  %10.3f  %10.3f  %10.3f\n",
				truncate(c.Name, 24), c.Mean, c.Median, c.StdDev, c.Min, c.Max)
		}
		return nil
	},
}
