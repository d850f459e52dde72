package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/config"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/debug"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/store"
)

// isolate points the XDG dirs at a temp dir so the user's config and data
// never leak into a test.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func runCLI(t *testing.T, tty bool, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr, tty)
	return code, stdout.String(), stderr.String()
}

func seedFileBoard(t *testing.T, dir string) {
	t.Helper()
	kv, err := store.NewFileKV(dir)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	defer kv.Close()
	b := model.Board{
		{ID: "c1", Title: "Backlog", Tasks: []model.Task{
			{ID: "t1", Description: "plan release"},
			{ID: "t2", Description: "tag v1", IsCompleted: true},
		}},
		{ID: "c2", Title: "Shipped", Tasks: []model.Task{}},
	}
	if err := store.SaveBoard(context.Background(), kv, b); err != nil {
		t.Fatalf("SaveBoard: %v", err)
	}
}

func TestParseFlags(t *testing.T) {
	var stderr bytes.Buffer
	o, err := parseFlags([]string{
		"--backend", "SQLite",
		"--path", "/tmp/x.db",
		"--export", "a.svg,b.png",
		"--export", "c.png",
		"--dump", "-",
		"--ephemeral",
	}, &stderr)
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if o.backend != "SQLite" || o.path != "/tmp/x.db" || o.dump != "-" || !o.ephemeral {
		t.Errorf("unexpected options: %+v", o)
	}
	want := []string{"a.svg", "b.png", "c.png"}
	if strings.Join(o.exports, " ") != strings.Join(want, " ") {
		t.Errorf("exports = %v, want %v", o.exports, want)
	}

	if _, err := parseFlags([]string{"extra"}, &stderr); err == nil {
		t.Error("positional arguments should be rejected")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("storage:\n  backend: sqlite\n  path: /data/board.db\nui:\n  mouse: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(options{configPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Storage.Backend != config.BackendSQLite || cfg.Storage.Path != "/data/board.db" || cfg.UI.Mouse {
		t.Errorf("config file not applied: %+v", cfg)
	}

	cfg, err = loadConfig(options{configPath: path, backend: "FILE", path: dir})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Storage.Backend != config.BackendFile || cfg.Storage.Path != dir {
		t.Errorf("flags should override config: %+v", cfg.Storage)
	}

	cfg, err = loadConfig(options{configPath: path, ephemeral: true})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Storage.Backend != config.BackendMemory {
		t.Errorf("--ephemeral should select memory, got %q", cfg.Storage.Backend)
	}

	if _, err := loadConfig(options{configPath: path, backend: "redis"}); err == nil {
		t.Error("unknown backend should fail validation")
	}
}

func TestRunVersionAndHelp(t *testing.T) {
	code, out, _ := runCLI(t, false, "--version")
	if code != 0 || !strings.HasPrefix(out, "dragtodo ") {
		t.Errorf("--version: code=%d out=%q", code, out)
	}

	code, _, errOut := runCLI(t, false, "--help")
	if code != 0 || !strings.Contains(errOut, "Usage: dragtodo") {
		t.Errorf("--help: code=%d stderr=%q", code, errOut)
	}

	code, _, _ = runCLI(t, false, "--no-such-flag")
	if code != 2 {
		t.Errorf("bad flag exit code = %d, want 2", code)
	}
}

func TestRunEphemeralDump(t *testing.T) {
	isolate(t)
	code, out, errOut := runCLI(t, false, "--ephemeral", "--dump", "-", "--title", "Today")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, want := range []string{"# Today", "## To Do (0/0)", "## In Progress (0/0)", "## Done (0/0)", "_No tasks._"} {
		if !strings.Contains(out, want) {
			t.Errorf("dump missing %q:\n%s", want, out)
		}
	}
}

func TestRunFileBackendOutputs(t *testing.T) {
	dir := isolate(t)
	data := filepath.Join(dir, "boards")
	seedFileBoard(t, data)

	md := filepath.Join(dir, "out", "board.md")
	if err := os.MkdirAll(filepath.Dir(md), 0o755); err != nil {
		t.Fatal(err)
	}
	svgPath := filepath.Join(dir, "out", "board.svg")
	pngPath := filepath.Join(dir, "out", "board.png")

	code, out, errOut := runCLI(t, false,
		"--backend", "file", "--path", data,
		"--dump", md, "--export", svgPath+","+pngPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	for _, p := range []string{md, svgPath, pngPath} {
		if !strings.Contains(out, "Wrote "+p) {
			t.Errorf("stdout should report %s:\n%s", p, out)
		}
		if info, err := os.Stat(p); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}

	got, err := os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"## Backlog (1/2)", "- [ ] plan release", "- [x] tag v1", "## Shipped (0/0)"} {
		if !strings.Contains(string(got), want) {
			t.Errorf("markdown missing %q:\n%s", want, got)
		}
	}
}

func TestRunSQLiteBackend(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "board.db")
	code, out, errOut := runCLI(t, false, "--backend", "sqlite", "--path", db, "--dump", "-")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "## To Do") {
		t.Errorf("expected default board, got:\n%s", out)
	}
	if _, err := os.Stat(db); err != nil {
		t.Errorf("database should be created: %v", err)
	}
}

func TestRunPipedPrintsMarkdown(t *testing.T) {
	isolate(t)
	code, out, errOut := runCLI(t, false, "--ephemeral")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.HasPrefix(out, "# Board") {
		t.Errorf("non-interactive run should print the board, got:\n%s", out)
	}
}

func TestRunErrors(t *testing.T) {
	dir := isolate(t)

	code, _, errOut := runCLI(t, false, "--backend", "redis", "--dump", "-")
	if code != 1 || !strings.Contains(errOut, "unknown backend") {
		t.Errorf("bad backend: code=%d stderr=%q", code, errOut)
	}

	code, _, errOut = runCLI(t, false, "--ephemeral", "--export", filepath.Join(dir, "board.gif"))
	if code != 1 || !strings.Contains(errOut, "unsupported format") {
		t.Errorf("bad export format: code=%d stderr=%q", code, errOut)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("storage: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, errOut = runCLI(t, false, "--config", bad, "--dump", "-")
	if code != 1 || !strings.Contains(errOut, "parsing config") {
		t.Errorf("bad config: code=%d stderr=%q", code, errOut)
	}
}

func TestStartWatcherNeedsFileBackend(t *testing.T) {
	if w := startWatcher(store.NewMemoryKV(), config.DefaultConfig().Watch); w != nil {
		w.Stop()
		t.Error("memory backend has no file to watch")
	}

	kv, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	w := startWatcher(kv, config.WatchConfig{Enabled: true, PollInterval: 50 * time.Millisecond})
	if w == nil {
		t.Fatal("file backend should be watched")
	}
	defer w.Stop()
	if w.Path() != kv.PathFor(store.BoardKey) {
		t.Errorf("watching %s, want %s", w.Path(), kv.PathFor(store.BoardKey))
	}
}

func TestRunDebugLogRecordsTimings(t *testing.T) {
	dir := isolate(t)
	t.Cleanup(func() {
		debug.SetOutput(io.Discard, "error")
		debug.SetEnabled(false)
	})
	logPath := filepath.Join(dir, "debug.log")

	code, _, errOut := runCLI(t, false, "--ephemeral", "--dump", "-", "--debug-log", logPath)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("reading debug log: %v", err)
	}
	if !strings.Contains(string(data), "timing") || !strings.Contains(string(data), "load_board") {
		t.Errorf("debug log should contain load timings:\n%s", data)
	}
}

func writeHooks(t *testing.T, dir, content string) {
	t.Helper()
	cfgDir := filepath.Join(dir, "config", "dragtodo")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "hooks.yaml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestRunExportHooks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands use sh")
	}
	dir := isolate(t)
	writeHooks(t, dir, `
hooks:
  post-export:
    - name: stamp
      command: echo "$DRAGTODO_EXPORT_FORMAT $DRAGTODO_COLUMN_COUNT $DRAGTODO_TASK_COUNT" > "$DRAGTODO_EXPORT_PATH.hook"
`)
	md := filepath.Join(dir, "board.md")

	code, _, errOut := runCLI(t, false, "--ephemeral", "--dump", md)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	data, err := os.ReadFile(md + ".hook")
	if err != nil {
		t.Fatalf("post-export hook did not run: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "markdown 3 0" {
		t.Errorf("hook saw %q", got)
	}
	if !strings.Contains(errOut, "1 succeeded") {
		t.Errorf("stderr should carry the hook summary: %q", errOut)
	}

	if err := os.Remove(md + ".hook"); err != nil {
		t.Fatal(err)
	}
	code, _, errOut = runCLI(t, false, "--ephemeral", "--dump", md, "--no-hooks")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if _, err := os.Stat(md + ".hook"); !os.IsNotExist(err) {
		t.Errorf("--no-hooks should skip hooks, stat err = %v", err)
	}
}

func TestRunPreExportHookAborts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands use sh")
	}
	dir := isolate(t)
	writeHooks(t, dir, `
hooks:
  pre-export:
    - name: gate
      command: exit 4
`)
	md := filepath.Join(dir, "board.md")
	svg := filepath.Join(dir, "board.svg")

	code, _, errOut := runCLI(t, false, "--ephemeral", "--dump", md, "--export", svg)
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, `pre-export hook "gate" failed`) {
		t.Errorf("stderr = %q", errOut)
	}
	for _, p := range []string{md, svg} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Errorf("%s should not be written when a pre-export hook fails", p)
		}
	}
}

func TestOutputTargets(t *testing.T) {
	got, err := outputTargets(options{dump: "-", exports: pathList{"a.SVG", "b.png", "board"}})
	if err != nil {
		t.Fatal(err)
	}
	want := []outputTarget{{"-", "markdown"}, {"a.SVG", "svg"}, {"b.png", "png"}, {"board.svg", "svg"}}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("target %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if _, err := outputTargets(options{exports: pathList{"board.gif"}}); err == nil {
		t.Error("expected an error for an unsupported export format")
	}
}

func TestRunExportWithoutExtension(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("hook commands use sh")
	}
	dir := isolate(t)
	writeHooks(t, dir, `
hooks:
  post-export:
    - name: stamp
      command: echo "$DRAGTODO_EXPORT_FORMAT" > "$DRAGTODO_EXPORT_PATH.hook"
`)
	base := filepath.Join(dir, "board")

	code, out, errOut := runCLI(t, false, "--ephemeral", "--export", base)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, errOut)
	}
	if !strings.Contains(out, "Wrote "+base+".svg") {
		t.Errorf("stdout should name the written file: %q", out)
	}
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Fatalf("expected %s.svg: %v", base, err)
	}
	data, err := os.ReadFile(base + ".svg.hook")
	if err != nil {
		t.Fatalf("hook should see the written path: %v", err)
	}
	if got := strings.TrimSpace(string(data)); got != "svg" {
		t.Errorf("hook saw format %q", got)
	}
}
