package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/spf13/cobra"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Browse the dashboard content",
}

var sectionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all sections in display order",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromFlags(cmd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-20s  %-24s  %s\n", "Key", "Title", "Subtitle")
		fmt.Fprintln(out, strings.Repeat("─", 90))
		for _, e := range cat.Sections() {
			fmt.Fprintf(out, "%-20s  %-24s  %s\n", e.Key, truncate(e.Title, 24), cat.Expand(e.Subtitle))
		}
		return nil
	},
}

var sectionsShowCmd = &cobra.Command{
	Use:   "show <key>",
	Short: "Print one section as plain text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalogFromFlags(cmd)
		if err != nil {
			return err
		}
		e, err := cat.Lookup(catalog.Key(args[0]))
		if err != nil {
			var unknown *catalog.UnknownSectionError
			if errors.As(err, &unknown) {
				return fmt.Errorf("%w (run 'pisaph sections list' for valid keys)", err)
			}
			return err
		}
		writeSection(cmd.OutOrStdout(), cat, e)
		return nil
	},
}

func catalogFromFlags(cmd *cobra.Command) (*catalog.Catalog, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return loadCatalog(cfg)
}

func writeSection(w io.Writer, cat *catalog.Catalog, e catalog.Entry) {
	fmt.Fprintln(w, strings.TrimSpace(e.Icon+" "+e.Title))
	if e.Subtitle != "" {
		fmt.Fprintln(w, cat.Expand(e.Subtitle))
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for _, c := range cat.Cards(e) {
		line := fmt.Sprintf("%-28s %s", c.Label, c.Value)
		if c.Delta != "" {
			line += "  (" + c.Delta + ")"
		}
		fmt.Fprintln(w, line)
	}
	for _, p := range e.Body {
		fmt.Fprintf(w, "\n%s\n", cat.Expand(p))
	}
	if len(e.Findings) > 0 {
		fmt.Fprintln(w, "\nKey findings")
		for _, f := range e.Findings {
			fmt.Fprintf(w, "  %s: %s\n", f.Title, cat.Expand(f.Content))
		}
	}
	for _, c := range e.Categories {
		fmt.Fprintf(w, "\n%s\n", c.Title)
		for _, item := range c.Items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
	if len(e.Breakdown) > 0 {
		fmt.Fprintln(w)
		for _, r := range e.Breakdown {
			fmt.Fprintf(w, "  %-32s %8s  %s\n", r.Label, cat.FormatFact(r.Fact), cat.Expand(r.Note))
		}
	}
	for _, t := range e.Themes {
		fmt.Fprintf(w, "\n%s\n", t.Title)
		for _, p := range t.Points {
			fmt.Fprintf(w, "  - %s\n", cat.Expand(p))
		}
	}
	if len(e.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations")
		for i, r := range e.Recommendations {
			fmt.Fprintf(w, "  %d. %s (%s)\n     %s\n", i+1, r.Title, r.Audience, cat.Expand(r.Rationale))
		}
	}
	for _, a := range e.Assets {
		fmt.Fprintf(w, "\n[%s] %s\n", a.Title, a.Source)
	}
}

func init() {
	sectionsCmd.AddCommand(sectionsListCmd)
	sectionsCmd.AddCommand(sectionsShowCmd)
}
