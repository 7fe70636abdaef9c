package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// validate checks that every section key appears exactly once, that no
// unknown key is present, and that every fact reference resolves.
func validate(doc document) error {
	var errs []string

	for name, f := range doc.Facts {
		switch f.Unit {
		case UnitCount, UnitPercent:
		default:
			errs = append(errs, fmt.Sprintf("fact %q: unknown unit %q", name, f.Unit))
		}
	}

	seen := make(map[Key]bool, len(doc.Sections))
	for i, e := range doc.Sections {
		switch {
		case e.Key == "":
			errs = append(errs, fmt.Sprintf("section %d has no key", i))
			continue
		case !IsKnown(e.Key):
			errs = append(errs, fmt.Sprintf("unknown section key %q", e.Key))
		case seen[e.Key]:
			errs = append(errs, fmt.Sprintf("duplicate section key %q", e.Key))
		}
		seen[e.Key] = true

		if e.Title == "" {
			errs = append(errs, fmt.Sprintf("section %q has no title", e.Key))
		}
		for _, m := range e.Metrics {
			if _, ok := doc.Facts[m.Fact]; !ok {
				errs = append(errs, fmt.Sprintf("section %q: metric references unknown fact %q", e.Key, m.Fact))
			}
			if m.DeltaFact != "" {
				if _, ok := doc.Facts[m.DeltaFact]; !ok {
					errs = append(errs, fmt.Sprintf("section %q: metric delta references unknown fact %q", e.Key, m.DeltaFact))
				}
			}
		}
		for _, text := range e.texts() {
			for _, ref := range factRefs(text) {
				if _, ok := doc.Facts[ref]; !ok {
					errs = append(errs, fmt.Sprintf("section %q: text references unknown fact %q", e.Key, ref))
				}
			}
		}
		for _, b := range e.Breakdown {
			if _, ok := doc.Facts[b.Fact]; !ok {
				errs = append(errs, fmt.Sprintf("section %q: breakdown references unknown fact %q", e.Key, b.Fact))
			}
		}
	}

	for _, k := range AllKeys() {
		if !seen[k] {
			errs = append(errs, fmt.Sprintf("missing section %q", k))
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid catalog:\n  " + strings.Join(errs, "\n  "))
	}
	return nil
}
