package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pisaph/pisaph/internal/model"
	"github.com/spf13/cobra"
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the repetition probability for one student",
	Long: `Estimate the repetition probability for one student.

Every field of the model's encoding contract must be given with --set.
Categorical fields take one of their labels; run with --fields to list them.`,
	Example: `  pisaph predict --set ESCS=-1.2 --set FEMALE=Female`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sets, _ := cmd.Flags().GetStringArray("set")
		listFields, _ := cmd.Flags().GetBool("fields")

		deps, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer deps.Close()

		svc := deps.evaluation()
		out := cmd.OutOrStdout()

		if listFields {
			contract, err := svc.Contract()
			if err != nil {
				return err
			}
			printContract(cmd, contract)
			return nil
		}

		input, err := parseAssignments(sets)
		if err != nil {
			return err
		}
		est, err := svc.Estimate(cmd.Context(), input)
		if err != nil {
			var encErr *model.EncodingError
			if errors.As(err, &encErr) {
				return fmt.Errorf("invalid input: %w", err)
			}
			return err
		}

		verdict := "not likely to repeat"
		if est.Label == 1 {
			verdict = "likely to repeat"
		}
		fmt.Fprintf(out, "Probability: %.1f%%\n", est.Probability*100)
		fmt.Fprintf(out, "Prediction:  %s (threshold %.2f)\n", verdict, est.Threshold)
		return nil
	},
}

// parseAssignments turns FIELD=VALUE pairs into form input.
func parseAssignments(sets []string) (map[string]string, error) {
	input := make(map[string]string, len(sets))
	for _, s := range sets {
		name, value, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --set %q: want FIELD=VALUE", s)
		}
		if _, dup := input[name]; dup {
			return nil, fmt.Errorf("field %s set more than once", name)
		}
		input[name] = strings.TrimSpace(value)
	}
	return input, nil
}

func printContract(cmd *cobra.Command, c model.Contract) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Contract %s\n", c.Version)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, f := range c.Fields {
		var detail string
		switch f.Kind {
		case model.FieldCategorical:
			detail = strings.Join(f.LevelLabels(), " | ")
		default:
			detail = "number"
			if f.Min != nil && f.Max != nil {
				detail = fmt.Sprintf("number in [%g, %g]", *f.Min, *f.Max)
			}
		}
		fmt.Fprintf(out, "%-16s  %-28s  %s\n", f.Name, truncate(f.DisplayLabel(), 28), detail)
	}
}

func init() {
	predictCmd.Flags().StringArray("set", nil, "Field value as FIELD=VALUE (repeatable)")
	predictCmd.Flags().Bool("fields", false, "List the model's input fields and exit")
}
