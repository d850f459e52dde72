package board

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/debug"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/ids"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/metrics"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/store"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/watcher"
)

// Options configures a Manager.
type Options struct {
	// Store persists the board. Nil keeps everything in memory.
	Store store.KV
	// IDs generates task and column ids. Nil means random UUIDs.
	IDs ids.Generator
	// Logger receives load and save failures. Nil means debug.Logger().
	Logger *log.Logger
	// Debounce delays writes until changes have been quiet this long.
	// Zero writes after every change.
	Debounce time.Duration
	// OnSaved runs after every successful write.
	OnSaved func()
}

// Manager owns the current State. It applies actions and writes the board
// back to the store when it changed.
// It is safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	state State

	kv       store.KV
	gen      ids.Generator
	logger   *log.Logger
	debounce *watcher.Debouncer
	onSaved  func()
	saveMu   sync.Mutex
}

// NewManager loads the board from opts.Store and returns a manager over it.
// A missing or unreadable board is replaced by the default board; the
// reason is logged and never surfaced.
func NewManager(ctx context.Context, opts Options) *Manager {
	m := &Manager{
		kv:      opts.Store,
		gen:     opts.IDs,
		logger:  opts.Logger,
		onSaved: opts.OnSaved,
	}
	if m.gen == nil {
		m.gen = ids.UUID{}
	}
	if m.logger == nil {
		m.logger = debug.Logger()
	}
	if opts.Debounce > 0 && m.kv != nil {
		m.debounce = watcher.NewDebouncer(opts.Debounce)
	}

	if m.kv == nil {
		m.state = NewState(DefaultBoard(m.gen))
		return m
	}
	start := time.Now()
	b, err := store.LoadBoard(ctx, m.kv, m.gen)
	if err != nil {
		m.logger.Warn("using default board", "err", err)
	}
	metrics.LoadBoard.Record(time.Since(start))
	debug.LogTiming("load board", time.Since(start))
	m.state = NewState(b)
	return m
}

// State returns the current state. The value is immutable; later dispatches
// produce new states and never modify it.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Dispatch applies a and returns the resulting state. A nil action is a
// no-op.
func (m *Manager) Dispatch(a Action) State {
	defer metrics.Timer(metrics.Dispatch)()
	m.mu.Lock()
	next, changed := reduce(m.state, a, m.gen)
	m.state = next
	m.mu.Unlock()

	if a != nil {
		m.logger.Debug("dispatch", "action", fmt.Sprintf("%T", a), "changed", changed)
	}
	if changed {
		m.persist()
	}
	return next
}

// Reload re-reads the board from the store and swaps it in. It is used
// when another process has edited the stored board. A pending debounced
// write is flushed first, so local changes the store has not seen yet win
// over the stored board. A board that fails to load is not swapped in.
func (m *Manager) Reload(ctx context.Context) error {
	if m.kv == nil {
		return nil
	}
	m.Flush()
	data, err := m.kv.Get(ctx, store.BoardKey)
	if err != nil {
		return fmt.Errorf("reload board: %w", err)
	}
	b, err := store.DecodeBoard(data)
	if err != nil {
		return fmt.Errorf("reload board: %w", err)
	}
	m.Dispatch(Replace{Board: b})
	return nil
}

// Flush writes any pending debounced change now.
func (m *Manager) Flush() {
	if m.debounce != nil {
		m.debounce.Flush()
	}
}

func (m *Manager) persist() {
	if m.kv == nil {
		return
	}
	if m.debounce != nil {
		m.debounce.Trigger(m.save)
		return
	}
	m.save()
}

// save writes the latest board, not the one current when the write was
// scheduled.
func (m *Manager) save() {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	b := m.State().Board
	start := time.Now()
	if err := store.SaveBoard(context.Background(), m.kv, b); err != nil {
		m.logger.Error("save board", "err", err)
		return
	}
	metrics.SaveBoard.Record(time.Since(start))
	debug.LogTiming("save board", time.Since(start))
	if m.onSaved != nil {
		m.onSaved()
	}
}
