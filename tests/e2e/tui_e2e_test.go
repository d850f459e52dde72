package main_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestTUILaunchesAndExits launches the TUI briefly to ensure it initializes and exits cleanly.
// We rely on DRAGTODO_TUI_AUTOCLOSE_MS to avoid hanging in CI.
func TestTUILaunchesAndExits(t *testing.T) {
	skipIfNoScript(t)
	bin := buildDragtodoBinary(t)

	root := t.TempDir()
	boards := filepath.Join(root, "boards")
	boardPath := writeBoardFile(t, boards, sampleBoard)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, bin, "--backend", "file", "--path", boards)
	cmd.Dir = root
	cmd.Env = append(isolatedEnv(root),
		"TERM=xterm-256color",
		"DRAGTODO_TUI_AUTOCLOSE_MS=1500",
	)

	ensureCmdStdinCloses(t, ctx, cmd, 3*time.Second)
	out, err := runCmdToFile(t, cmd)
	if ctx.Err() == context.DeadlineExceeded {
		t.Skipf("skipping TUI run: timed out (likely TTY/OS mismatch); output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("TUI run failed: %v\n%s", err, out)
	}

	// Nothing was dispatched, so the board file must be untouched.
	data, err := os.ReadFile(boardPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sampleBoard {
		t.Errorf("board file changed without any edits:\n%s", data)
	}
}

// TestTUIExternalWritesWhileRunning rewrites the board file while the TUI
// runs with the watcher on. This is a smoke test for deadlocks and panics in
// the reload path.
func TestTUIExternalWritesWhileRunning(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping rapid-write TUI test in short mode")
	}
	skipIfNoScript(t)
	bin := buildDragtodoBinary(t)

	root := t.TempDir()
	boards := filepath.Join(root, "boards")
	boardPath := writeBoardFile(t, boards, sampleBoard)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, bin, "--backend", "file", "--path", boards)
	cmd.Dir = root
	cmd.Env = append(isolatedEnv(root),
		"TERM=xterm-256color",
		"DRAGTODO_TUI_AUTOCLOSE_MS=3000",
	)
	ensureCmdStdinCloses(t, ctx, cmd, 5*time.Second)

	done := make(chan struct{})
	go func() {
		defer close(done)
		variants := []string{
			sampleBoard,
			`[{"id": "c1", "title": "Backlog", "todos": []}]`,
		}
		for i := 0; i < 20; i++ {
			select {
			case <-ctx.Done():
				return
			case <-time.After(50 * time.Millisecond):
			}
			_ = os.WriteFile(boardPath, []byte(variants[i%2]), 0o644)
		}
	}()

	out, err := runCmdToFile(t, cmd)
	<-done
	if ctx.Err() == context.DeadlineExceeded {
		t.Skipf("skipping rapid-write TUI test: timed out; output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("TUI run failed under external writes: %v\n%s", err, out)
	}
}

func TestTUIEphemeral(t *testing.T) {
	skipIfNoScript(t)
	bin := buildDragtodoBinary(t)
	root := t.TempDir()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := scriptTUICommand(ctx, bin, "--ephemeral")
	cmd.Dir = root
	cmd.Env = append(isolatedEnv(root),
		"TERM=xterm-256color",
		"DRAGTODO_TUI_AUTOCLOSE_MS=1000",
	)
	ensureCmdStdinCloses(t, ctx, cmd, 2*time.Second)
	out, err := runCmdToFile(t, cmd)
	if ctx.Err() == context.DeadlineExceeded {
		t.Skipf("skipping TUI run: timed out; output:\n%s", out)
	}
	if err != nil {
		t.Fatalf("TUI run failed: %v\n%s", err, out)
	}
	if _, err := os.Stat(filepath.Join(root, "data")); err == nil {
		entries, _ := os.ReadDir(filepath.Join(root, "data", "dragtodo"))
		if len(entries) > 0 {
			t.Errorf("ephemeral run wrote to the data dir: %v", entries)
		}
	}
}
