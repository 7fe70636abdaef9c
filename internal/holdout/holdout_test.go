package holdout

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holdout.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCSV(t, "ESCS,FEMALE,REPEAT\n-0.5,1,1\n1.25,0,0\n0,1,0\n")

	tbl, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, tbl.Path)
	assert.Equal(t, []string{"ESCS", "FEMALE"}, tbl.Columns)
	require.Len(t, tbl.Records, 3)
	assert.Equal(t, Record{Features: map[string]float64{"ESCS": -0.5, "FEMALE": 1}, Label: 1}, tbl.Records[0])
	assert.Equal(t, []int{1, 0, 0}, tbl.Labels())
	assert.Equal(t, 1, tbl.Positives())
	assert.Equal(t, []float64{-0.5, 1.25, 0}, tbl.Column("ESCS"))
	assert.Nil(t, tbl.Column("REPEAT"))
}

func TestLoad_LabelColumnAnywhere(t *testing.T) {
	tbl, err := Read(strings.NewReader("REPEAT,A\n1,2\n"), "mem")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, tbl.Columns)
	assert.Equal(t, 1, tbl.Records[0].Label)
}

func TestLoad_MissingLabelColumn(t *testing.T) {
	path := writeCSV(t, "ESCS,FEMALE\n1,0\n")

	_, err := Load(path)

	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr), "expected *SchemaError, got %T (%v)", err, err)
	assert.Equal(t, "REPEAT", schemaErr.Column)
	assert.Contains(t, err.Error(), "REPEAT")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.csv"))

	var loadErr *DataLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoad_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
	}{
		{"empty file", "", 0},
		{"header only", "A,REPEAT\n", 0},
		{"short row", "A,B,REPEAT\n1,2,0\n3,1\n", 3},
		{"non-numeric feature", "A,REPEAT\nx,0\n", 2},
		{"blank feature", "A,REPEAT\n ,0\n", 2},
		{"label not binary", "A,REPEAT\n1,2\n", 2},
		{"blank label", "A,REPEAT\n1,\n", 2},
		{"duplicate column", "A,A,REPEAT\n1,1,0\n", 1},
		{"NaN feature", "A,REPEAT\n1,0\nNaN,1\n", 3},
		{"infinite feature", "A,REPEAT\n+Inf,0\n", 2},
		{"negative infinity", "A,REPEAT\n1,1\n2,0\n-inf,0\n", 4},
		{"unterminated quote", "A,REPEAT\n\"1,0\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.body), "bad.csv")

			var loadErr *DataLoadError
			require.True(t, errors.As(err, &loadErr), "expected *DataLoadError, got %T (%v)", err, err)
			assert.Equal(t, "bad.csv", loadErr.Path)
			if tt.line > 0 {
				assert.Equal(t, tt.line, loadErr.Line)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tbl, err := Read(strings.NewReader("A,REPEAT\n1,1\n2,0\n3,0\n4,1\n"), "mem")
	require.NoError(t, err)

	s, err := Describe(tbl)
	require.NoError(t, err)

	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 2, s.Positives)
	assert.InDelta(t, 0.5, s.Rate, 1e-12)
	require.Len(t, s.Columns, 1)
	c := s.Columns[0]
	assert.Equal(t, "A", c.Name)
	assert.InDelta(t, 2.5, c.Mean, 1e-12)
	assert.InDelta(t, 2.5, c.Median, 1e-12)
	assert.InDelta(t, 1.118033988, c.StdDev, 1e-6)
	assert.Equal(t, 1.0, c.Min)
	assert.Equal(t, 4.0, c.Max)
}

func TestLoad_NonFiniteNamesColumn(t *testing.T) {
	_, err := Read(strings.NewReader("ESCS,FEMALE,REPEAT\nNaN,1,1\n"), "mem")

	var loadErr *DataLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "ESCS")
}
