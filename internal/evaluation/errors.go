package evaluation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRecords is returned when evaluation is asked to score an empty set.
var ErrNoRecords = errors.New("evaluation: no records")

// SchemaMismatchError reports a record whose feature columns differ from
// the model's expected features.
type SchemaMismatchError struct {
	Record  int // index of the first mismatching record
	Missing []string
	Extra   []string
}

func (e *SchemaMismatchError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		parts = append(parts, "extra columns: "+strings.Join(e.Extra, ", "))
	}
	return fmt.Sprintf("schema mismatch at record %d: %s", e.Record, strings.Join(parts, "; "))
}
