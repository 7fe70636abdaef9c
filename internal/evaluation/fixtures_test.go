package evaluation

import (
	"os"
	"path/filepath"
	"testing"
)

const testArtifact = `{
  "kind": "logistic",
  "name": "repeat-lr",
  "features": ["ESCS", "FEMALE"],
  "logistic": {"intercept": 0.0, "coefficients": {"ESCS": -2.0, "FEMALE": 0.5}},
  "contract": {
    "version": "v1.0.0",
    "fields": [
      {"name": "ESCS", "kind": "numeric", "min": -5, "max": 5},
      {"name": "FEMALE", "kind": "categorical", "levels": [{"label": "Male", "code": 0}, {"label": "Female", "code": 1}]}
    ]
  }
}`

const testHoldout = "ESCS,FEMALE,REPEAT\n-2,1,1\n-1,0,1\n1,1,0\n2,0,0\n"

// writeFixtures writes the test artifact and holdout file and returns
// their paths.
func writeFixtures(t *testing.T) (modelPath, holdoutPath string) {
	t.Helper()
	dir := t.TempDir()
	modelPath = filepath.Join(dir, "model.json")
	holdoutPath = filepath.Join(dir, "holdout.csv")
	if err := os.WriteFile(modelPath, []byte(testArtifact), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(holdoutPath, []byte(testHoldout), 0o644); err != nil {
		t.Fatal(err)
	}
	return modelPath, holdoutPath
}
