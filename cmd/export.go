package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/pisaph/pisaph/internal/report"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export predictions or charts for the holdout set",
}

var exportPredictionsCmd = &cobra.Command{
	Use:   "predictions",
	Short: "Write per-record predictions as CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		h, err := openHandle(cmd)
		if err != nil {
			return err
		}
		scores, err := h.Score()
		if err != nil {
			return err
		}
		return writeOutput(cmd, path, func(w io.Writer) error {
			return report.WritePredictions(w, scores)
		})
	},
}

var exportROCCmd = &cobra.Command{
	Use:   "roc",
	Short: "Render the ROC curve as PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		h, err := openHandle(cmd)
		if err != nil {
			return err
		}
		points, err := h.ROC()
		if err != nil {
			return err
		}
		return writeOutput(cmd, path, func(w io.Writer) error {
			return report.WriteROCChart(w, points, evaluation.AUC(points))
		})
	},
}

func openHandle(cmd *cobra.Command) (*evaluation.Handle, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return evaluation.Open(cmd.Context(), cfg.Model, cfg.Holdout)
}

// writeOutput writes to path, or to stdout when path is "-". A failed
// write removes the partial file.
func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}

func init() {
	exportPredictionsCmd.Flags().StringP("out", "o", "-", "Output file (- for stdout)")
	exportROCCmd.Flags().StringP("out", "o", "roc.png", "Output PNG file")

	exportCmd.AddCommand(exportPredictionsCmd)
	exportCmd.AddCommand(exportROCCmd)
}
