// Package testutil provides board fixtures and assertions for tests.
// All generators produce deterministic output for reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/model"
)

// GeneratorConfig controls board generation.
type GeneratorConfig struct {
	Seed           int64   // Random seed for determinism (0 = use current time)
	IDPrefix       string  // Prefix for ids (default: "T")
	Columns        int     // Number of columns (default: 3)
	MaxTasks       int     // Upper bound of tasks per column (default: 5)
	CompletedRatio float64 // Share of tasks marked completed, 0..1
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:           42,
		IDPrefix:       "T",
		Columns:        3,
		MaxTasks:       5,
		CompletedRatio: 0.3,
	}
}

// Generator creates board fixtures.
type Generator struct {
	cfg  GeneratorConfig
	rng  *rand.Rand
	next int
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = "T"
	}
	if cfg.Columns <= 0 {
		cfg.Columns = 3
	}
	if cfg.MaxTasks < 0 {
		cfg.MaxTasks = 0
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// NewID returns the next fixture id: "<prefix>-1", "<prefix>-2", ...
// It has the signature of ids.Generator.NewID.
func (g *Generator) NewID() string {
	g.next++
	return fmt.Sprintf("%s-%d", g.cfg.IDPrefix, g.next)
}

var (
	verbs   = []string{"write", "review", "fix", "ship", "plan", "test", "document", "refactor", "buy", "call"}
	objects = []string{"release notes", "login page", "milk", "the dentist", "sprint board", "flaky test", "invoice", "README", "backups", "CI pipeline"}
)

func (g *Generator) description() string {
	return verbs[g.rng.Intn(len(verbs))] + " " + objects[g.rng.Intn(len(objects))]
}

func (g *Generator) task() model.Task {
	return model.Task{
		ID:          g.NewID(),
		Description: g.description(),
		IsCompleted: g.rng.Float64() < g.cfg.CompletedRatio,
	}
}

// Board returns cfg.Columns columns, each holding 0..MaxTasks tasks.
func (g *Generator) Board() model.Board {
	b := make(model.Board, g.cfg.Columns)
	for i := range b {
		n := 0
		if g.cfg.MaxTasks > 0 {
			n = g.rng.Intn(g.cfg.MaxTasks + 1)
		}
		b[i] = g.Column(fmt.Sprintf("Column %d", i+1), n)
	}
	return b
}

// Column returns one column with n generated tasks.
func (g *Generator) Column(title string, n int) model.Column {
	c := model.Column{ID: g.NewID(), Title: title, Tasks: make([]model.Task, 0, n)}
	for range n {
		c.Tasks = append(c.Tasks, g.task())
	}
	return c
}

// Empty returns n columns with no tasks.
func (g *Generator) Empty(n int) model.Board {
	b := make(model.Board, n)
	for i := range b {
		b[i] = g.Column(fmt.Sprintf("Column %d", i+1), 0)
	}
	return b
}

// Tall returns a single column holding n tasks, for scrolling tests.
func (g *Generator) Tall(n int) model.Board {
	return model.Board{g.Column("Backlog", n)}
}

// Selection picks up to n distinct (task, column) pairs from b.
func (g *Generator) Selection(b model.Board, n int) model.Selection {
	var all model.Selection
	for _, c := range b {
		for _, t := range c.Tasks {
			all = append(all, model.SelectionRef{TaskID: t.ID, ColumnID: c.ID})
		}
	}
	g.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	if n > len(all) {
		n = len(all)
	}
	return append(model.Selection{}, all[:n]...)
}

// Describe renders b as one line per column, e.g. "To Do: t1 t2*" where a
// star marks completed tasks. Handy in failure messages.
func Describe(b model.Board) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(c.Title + ":")
		for _, t := range c.Tasks {
			sb.WriteString(" " + t.ID)
			if t.IsCompleted {
				sb.WriteString("*")
			}
		}
	}
	return sb.String()
}
