package advisor

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

const systemPrompt = `You advise Philippine education officials on reducing grade repetition among 15-year-old students. You are given the results of a classifier trained on PISA 2022 data for the Philippines. Recommendations must be practical for public schools and must follow from the evidence given.`

func buildUserMessage(input Input) string {
	var b strings.Builder

	r := input.Result
	fmt.Fprintf(&b, "Model: %s\n", r.Model)
	fmt.Fprintf(&b, "Holdout records: %d\n", r.N)
	fmt.Fprintf(&b, "Accuracy: %.3f  Precision: %.3f  Recall: %.3f  F1: %.3f\n", r.Accuracy, r.Precision, r.Recall, r.F1)
	if r.HasAUC() {
		fmt.Fprintf(&b, "ROC-AUC: %.3f\n", r.ROCAUC)
	}

	b.WriteString("\nStrongest risk factors:\n")
	if len(input.Top) == 0 {
		b.WriteString("None available\n")
	}
	for i, f := range input.Top {
		direction := ""
		switch {
		case f.Sign > 0:
			direction = ", raises risk"
		case f.Sign < 0:
			direction = ", lowers risk"
		}
		fmt.Fprintf(&b, "%d. %s (share %.1f%%%s)\n", i+1, f.Feature, f.Share*100, direction)
	}

	if len(input.Profile) > 0 {
		b.WriteString("\nStudent profile:\n")
		for _, k := range slices.Sorted(maps.Keys(input.Profile)) {
			fmt.Fprintf(&b, "- %s: %s\n", k, input.Profile[k])
		}
	}
	if e := input.Estimate; e != nil {
		fmt.Fprintf(&b, "Estimated repetition probability: %.1f%% (threshold %.2f)\n", e.Probability*100, e.Threshold)
	}

	b.WriteString(`
Instructions:
1. Summarise what the results say about who is at risk in 2-4 sentences.
2. Give 3-5 recommendations. Each names one risk factor from the list above in its rationale.
3. If a student profile is given, tailor the recommendations to that student.
4. Use plain text. No markdown.`)

	return b.String()
}
