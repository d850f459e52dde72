package board_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/board"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/ids"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/store"
)

// countingKV counts writes to the wrapped store.
type countingKV struct {
	store.KV
	sets atomic.Int32
	fail bool
}

func (c *countingKV) Set(ctx context.Context, key string, value []byte) error {
	c.sets.Add(1)
	if c.fail {
		return errors.New("read-only filesystem")
	}
	return c.KV.Set(ctx, key, value)
}

func TestManager_LoadsDefaultWhenEmpty(t *testing.T) {
	m := board.NewManager(context.Background(), board.Options{Store: store.NewMemoryKV(), IDs: ids.NewSequence("c")})
	s := m.State()
	if len(s.Board) != 3 || s.Board[0].ID != "c-1" {
		t.Fatalf("expected default board, got %+v", s.Board)
	}
}

func TestManager_LoadsStoredBoard(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	if err := store.SaveBoard(ctx, kv, model.Board{{ID: "x", Title: "Mine", Tasks: []model.Task{}}}); err != nil {
		t.Fatal(err)
	}

	m := board.NewManager(ctx, board.Options{Store: kv})
	if got := m.State().Board; len(got) != 1 || got[0].Title != "Mine" {
		t.Errorf("board = %+v", got)
	}
}

func TestManager_CorruptBlobLogsAndFallsBack(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	if err := kv.Set(ctx, store.BoardKey, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	m := board.NewManager(ctx, board.Options{Store: kv, Logger: logger})
	if len(m.State().Board) != 3 {
		t.Errorf("expected default board, got %+v", m.State().Board)
	}
	if !strings.Contains(buf.String(), "using default board") {
		t.Errorf("expected a warning in the log, got %q", buf.String())
	}
}

func TestManager_PersistsOnlyBoardChanges(t *testing.T) {
	ctx := context.Background()
	kv := &countingKV{KV: store.NewMemoryKV()}
	m := board.NewManager(ctx, board.Options{Store: kv, IDs: ids.NewSequence("id")})
	col := m.State().Board[0].ID

	m.Dispatch(board.AddTodo{Description: "persist me", ColumnID: col})
	if n := kv.sets.Load(); n != 1 {
		t.Fatalf("expected 1 write after AddTodo, got %d", n)
	}

	m.Dispatch(board.SelectAllTodos{})
	m.Dispatch(board.ToggleFilter{})
	m.Dispatch(board.SetSearch{Text: "x"})
	m.Dispatch(board.AddTodo{Description: "ghost", ColumnID: "nope"})
	if n := kv.sets.Load(); n != 1 {
		t.Errorf("selection, filter and no-op actions should not write, got %d writes", n)
	}

	loaded, err := store.LoadBoard(ctx, kv, nil)
	if err != nil {
		t.Fatal(err)
	}
	if loaded[0].Tasks[0].Description != "persist me" {
		t.Errorf("stored board = %+v", loaded)
	}
}

func TestManager_WriteErrorIsLoggedNotFatal(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	kv := &countingKV{KV: store.NewMemoryKV(), fail: true}
	m := board.NewManager(context.Background(), board.Options{Store: kv, Logger: logger})

	s := m.Dispatch(board.AddColumn{Title: "Later"})
	if len(s.Board) != 4 {
		t.Fatalf("state should advance despite the write failure, got %d columns", len(s.Board))
	}
	if !strings.Contains(buf.String(), "read-only filesystem") {
		t.Errorf("write failure not logged: %q", buf.String())
	}
}

func TestManager_DebouncedWrites(t *testing.T) {
	kv := &countingKV{KV: store.NewMemoryKV()}
	var saved atomic.Int32
	m := board.NewManager(context.Background(), board.Options{
		Store:    kv,
		Debounce: time.Hour,
		OnSaved:  func() { saved.Add(1) },
	})
	col := m.State().Board[0].ID

	for i := 0; i < 5; i++ {
		m.Dispatch(board.AddTodo{Description: "burst", ColumnID: col})
	}
	if n := kv.sets.Load(); n != 0 {
		t.Fatalf("debounced writes happened early: %d", n)
	}

	m.Flush()
	if n := kv.sets.Load(); n != 1 {
		t.Fatalf("expected one coalesced write, got %d", n)
	}
	if saved.Load() != 1 {
		t.Errorf("OnSaved called %d times", saved.Load())
	}

	loaded, _ := store.LoadBoard(context.Background(), kv, nil)
	if len(loaded[0].Tasks) != 5 {
		t.Errorf("flushed board has %d tasks, want 5", len(loaded[0].Tasks))
	}
}

func TestManager_ReloadKeepsPendingWrite(t *testing.T) {
	ctx := context.Background()
	kv, err := store.NewFileKV(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	m := board.NewManager(ctx, board.Options{Store: kv, IDs: ids.NewSequence("c"), Debounce: time.Hour})
	col := m.State().Board[0].ID
	m.Dispatch(board.AddColumn{Title: "Later"})
	m.Flush()

	m.Dispatch(board.AddTodo{Description: "unsaved edit", ColumnID: col})
	if err := m.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	m.Flush()

	if got := m.State().Board.TaskCount(); got != 1 {
		t.Errorf("in memory tasks = %d, want 1", got)
	}
	stored, err := store.LoadBoard(ctx, kv, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := stored.TaskCount(); got != 1 {
		t.Errorf("on disk tasks = %d, want 1", got)
	}
	if len(stored) != 4 {
		t.Errorf("on disk columns = %d, want 4", len(stored))
	}
}

func TestManager_Reload(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryKV()
	m := board.NewManager(ctx, board.Options{Store: kv, IDs: ids.NewSequence("c")})
	m.Dispatch(board.SetSearch{Text: "keep"})

	external := model.Board{{ID: "ext", Title: "From elsewhere", Tasks: []model.Task{}}}
	if err := store.SaveBoard(ctx, kv, external); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(ctx); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	s := m.State()
	if len(s.Board) != 1 || s.Board[0].ID != "ext" {
		t.Errorf("board after reload = %+v", s.Board)
	}
	if s.Filter.SearchText != "keep" {
		t.Error("reload should keep the filter")
	}

	if err := kv.Set(ctx, store.BoardKey, []byte("garbage")); err != nil {
		t.Fatal(err)
	}
	if err := m.Reload(ctx); err == nil {
		t.Error("expected error reloading a corrupt board")
	}
	if m.State().Board[0].ID != "ext" {
		t.Error("corrupt reload must keep the current board")
	}
}
