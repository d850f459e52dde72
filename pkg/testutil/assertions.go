package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// AssertValidBoard verifies b passes model validation.
func AssertValidBoard(t testing.TB, b model.Board) {
	t.Helper()
	if err := b.Validate(); err != nil {
		t.Errorf("invalid board: %v\n%s", err, Describe(b))
	}
}

// AssertTaskCount verifies the number of tasks across all columns.
func AssertTaskCount(t testing.TB, b model.Board, expected int) {
	t.Helper()
	if got := b.TaskCount(); got != expected {
		t.Errorf("expected %d tasks, got %d\n%s", expected, got, Describe(b))
	}
}

// AssertColumnIDs verifies the column order.
func AssertColumnIDs(t testing.TB, b model.Board, want ...string) {
	t.Helper()
	assertIDs(t, "columns", ColumnIDs(b), want)
}

// AssertTaskIDs verifies the task order within one column.
func AssertTaskIDs(t testing.TB, b model.Board, columnID string, want ...string) {
	t.Helper()
	assertIDs(t, "column "+columnID, TaskIDs(b, columnID), want)
}

func assertIDs(t testing.TB, what string, got, want []string) {
	t.Helper()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("%s = %v, want %v", what, got, want)
	}
}

// AssertSelectionValid verifies every selected pair exists in b and no pair
// appears twice.
func AssertSelectionValid(t testing.TB, b model.Board, sel model.Selection) {
	t.Helper()
	seen := make(map[model.SelectionRef]bool, len(sel))
	for _, ref := range sel {
		if seen[ref] {
			t.Errorf("duplicate selection entry %+v", ref)
		}
		seen[ref] = true
		c, ok := b.Column(ref.ColumnID)
		if !ok || c.TaskIndex(ref.TaskID) < 0 {
			t.Errorf("selection entry %+v does not exist on the board", ref)
		}
	}
}

// AssertJSONEqual compares two values by their JSON encoding.
func AssertJSONEqual(t testing.TB, expected, actual any) {
	t.Helper()
	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		t.Fatalf("failed to marshal expected: %v", err)
	}
	actualJSON, err := json.Marshal(actual)
	if err != nil {
		t.Fatalf("failed to marshal actual: %v", err)
	}
	if string(expectedJSON) != string(actualJSON) {
		t.Errorf("JSON mismatch:\nexpected: %s\nactual:   %s", expectedJSON, actualJSON)
	}
}

// ColumnIDs returns the column ids of b in order.
func ColumnIDs(b model.Board) []string {
	out := make([]string, len(b))
	for i, c := range b {
		out[i] = c.ID
	}
	return out
}

// TaskIDs returns the task ids of one column in order, or nil when the
// column does not exist.
func TaskIDs(b model.Board, columnID string) []string {
	c, ok := b.Column(columnID)
	if !ok {
		return nil
	}
	out := make([]string, len(c.Tasks))
	for i, task := range c.Tasks {
		out[i] = task.ID
	}
	return out
}

// Golden file helpers

// GoldenFile handles golden file comparisons.
type GoldenFile struct {
	t      testing.TB
	dir    string
	name   string
	update bool
}

// NewGoldenFile creates a golden file helper.
// If DRAGTODO_UPDATE_GOLDEN is set, golden files are rewritten.
func NewGoldenFile(t testing.TB, dir, name string) *GoldenFile {
	t.Helper()
	return &GoldenFile{
		t:      t,
		dir:    dir,
		name:   name,
		update: os.Getenv("DRAGTODO_UPDATE_GOLDEN") != "",
	}
}

// Path returns the full path to the golden file.
func (g *GoldenFile) Path() string {
	return filepath.Join(g.dir, g.name)
}

// Assert compares actual content against the golden file.
func (g *GoldenFile) Assert(actual string) {
	g.t.Helper()
	path := g.Path()

	if g.update {
		if err := os.MkdirAll(g.dir, 0o755); err != nil {
			g.t.Fatalf("failed to create golden dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(actual), 0o644); err != nil {
			g.t.Fatalf("failed to write golden file: %v", err)
		}
		g.t.Logf("updated golden file: %s", path)
		return
	}

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			g.t.Fatalf("golden file does not exist: %s\nRun with DRAGTODO_UPDATE_GOLDEN=1 to create it", path)
		}
		g.t.Fatalf("failed to read golden file: %v", err)
	}
	if string(expected) == actual {
		return
	}

	expectedLines := strings.Split(string(expected), "\n")
	actualLines := strings.Split(actual, "\n")
	for i := 0; i < len(expectedLines) || i < len(actualLines); i++ {
		var expLine, actLine string
		if i < len(expectedLines) {
			expLine = expectedLines[i]
		}
		if i < len(actualLines) {
			actLine = actualLines[i]
		}
		if expLine != actLine {
			g.t.Errorf("golden file %s mismatch at line %d:\nexpected: %q\nactual:   %q", g.name, i+1, expLine, actLine)
			return
		}
	}
	g.t.Errorf("golden file %s mismatch (length differs)", g.name)
}
