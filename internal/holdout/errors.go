package holdout

import "fmt"

// DataLoadError reports a holdout file that is missing or cannot be parsed.
// Line is the 1-based file line, or 0 when the failure is not tied to a row.
type DataLoadError struct {
	Path string
	Line int
	Err  error
}

func (e *DataLoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("load holdout %s: line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("load holdout %s: %v", e.Path, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// SchemaError reports a required column absent from the holdout header.
type SchemaError struct {
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("holdout %s: missing required column %q", e.Path, e.Column)
}
