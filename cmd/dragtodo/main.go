package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/board"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/config"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/debug"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/export"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/hooks"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/metrics"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/store"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/ui"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/version"
	"github.com/Rostyslav-Tupis/DragbleTodo-ReMac/pkg/watcher"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, isTerminal()))
}

type options struct {
	configPath string
	backend    string
	path       string
	exports    pathList
	dump       string
	title      string
	debugLog   string
	logLevel   string
	ephemeral  bool
	noHooks    bool
	version    bool
}

// pathList is a repeatable, comma-separated flag.
type pathList []string

func (p *pathList) String() string { return strings.Join(*p, ",") }

func (p *pathList) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*p = append(*p, part)
		}
	}
	return nil
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("dragtodo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configPath, "config", "", "Path to config.yaml (default: XDG config dir)")
	fs.StringVar(&o.backend, "backend", "", "Storage backend: file, sqlite or memory (overrides config)")
	fs.StringVar(&o.path, "path", "", "Storage directory (file) or database file (sqlite)")
	fs.Var(&o.exports, "export", "Write an SVG or PNG snapshot of the board and exit (repeatable, comma-separated)")
	fs.StringVar(&o.dump, "dump", "", "Write the board as a Markdown checklist to a file, or - for stdout, and exit")
	fs.StringVar(&o.title, "title", "", "Title for --export and --dump output")
	fs.StringVar(&o.debugLog, "debug-log", "", "Write debug logs to file")
	fs.StringVar(&o.logLevel, "log-level", "debug", "Debug log level: debug, info, warn, error")
	fs.BoolVar(&o.ephemeral, "ephemeral", false, "Keep the board in memory only")
	fs.BoolVar(&o.noHooks, "no-hooks", false, "Skip export hooks from hooks.yaml")
	fs.BoolVar(&o.version, "version", false, "Show version")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: dragtodo [options]")
		fmt.Fprintln(stderr, "\nA kanban to-do board for the terminal.")
		fmt.Fprintln(stderr)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return o, nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(o options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if o.backend != "" {
		cfg.Storage.Backend = strings.ToLower(o.backend)
	}
	if o.path != "" {
		cfg.Storage.Path = o.path
	}
	if o.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, tty bool) int {
	o, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if o.version {
		fmt.Fprintf(stdout, "dragtodo %s\n", version.String())
		return 0
	}

	if o.debugLog != "" {
		f, err := os.OpenFile(o.debugLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(stderr, "Error: opening debug log: %v\n", err)
			return 1
		}
		defer f.Close()
		debug.SetOutput(f, o.logLevel)
		defer logTimings()
	}

	cfg, err := loadConfig(o)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	kv, err := store.Open(cfg.Storage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: opening %s store: %v\n", cfg.Storage.Backend, err)
		return 1
	}
	defer kv.Close()

	batch := len(o.exports) > 0 || o.dump != ""
	interactive := !batch && tty

	var w *watcher.Watcher
	if interactive && cfg.Watch.Enabled {
		w = startWatcher(kv, cfg.Watch)
		if w != nil {
			defer w.Stop()
		}
	}

	opts := board.Options{Store: kv, Debounce: cfg.Storage.WriteDebounce}
	if w != nil {
		opts.OnSaved = w.Acknowledge
	}
	mgr := board.NewManager(ctx, opts)
	defer mgr.Flush()

	switch {
	case batch:
		if err := writeOutputs(ctx, o, mgr.State(), stdout, stderr); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	case !interactive:
		// Piped output gets the checklist instead of a TUI.
		s := mgr.State()
		fmt.Fprint(stdout, export.Markdown(s.View(), export.MarkdownOptions{Title: o.title, Filter: s.Filter}))
		return 0
	}

	m := ui.NewModel(ctx, mgr, cfg.UI, w)
	if err := runTUIProgram(m, cfg.UI); err != nil {
		fmt.Fprintf(stderr, "Error running dragtodo: %v\n", err)
		return 1
	}
	return 0
}

// startWatcher watches the board file of a file-backed store. It returns
// nil for other backends or when watching cannot start.
func startWatcher(kv store.KV, cfg config.WatchConfig) *watcher.Watcher {
	loc, ok := kv.(store.Locator)
	if !ok {
		return nil
	}
	var opts []watcher.Option
	if cfg.PollInterval > 0 {
		opts = append(opts, watcher.WithPollInterval(cfg.PollInterval))
	}
	opts = append(opts, watcher.WithOnError(func(err error) {
		debug.Logger().Warn("board watcher", "err", err)
	}))
	w, err := watcher.New(loc.PathFor(store.BoardKey), opts...)
	if err != nil {
		debug.Logger().Warn("board watcher", "err", err)
		return nil
	}
	if err := w.Start(); err != nil {
		debug.Logger().Warn("board watcher", "path", w.Path(), "err", err)
		return nil
	}
	debug.Log("watching %s (polling=%v)", w.Path(), w.IsPolling())
	return w
}

// writeOutputs renders the non-interactive outputs requested by flags.
// Pre-export hooks run for every output before anything is written; a
// failing one aborts the batch. Post-export hooks run once all outputs exist.
func writeOutputs(ctx context.Context, o options, s board.State, stdout, stderr io.Writer) error {
	view := s.View()
	now := time.Now()

	targets, err := outputTargets(o)
	if err != nil {
		return err
	}
	var snapshots []string
	for _, out := range targets {
		if out.format != "markdown" {
			snapshots = append(snapshots, out.path)
		}
	}

	var execs []*hooks.Executor
	for _, out := range targets {
		exec, err := hooks.RunHooks(config.ConfigDir(), hooks.ExportContext{
			ExportPath:   out.path,
			ExportFormat: out.format,
			TaskCount:    view.TaskCount(),
			ColumnCount:  len(view),
			Timestamp:    now,
		}, o.noHooks)
		if err != nil {
			return fmt.Errorf("loading hooks: %w", err)
		}
		if exec == nil {
			break
		}
		execs = append(execs, exec)
		if err := exec.RunPreExport(ctx); err != nil {
			fmt.Fprintln(stderr, exec.Summary())
			return err
		}
	}

	if o.dump != "" {
		mo := export.MarkdownOptions{Title: o.title, Filter: s.Filter}
		if o.dump == "-" {
			if _, err := io.WriteString(stdout, export.Markdown(view, mo)); err != nil {
				return err
			}
		} else {
			if err := export.SaveMarkdown(o.dump, view, mo); err != nil {
				return fmt.Errorf("writing %s: %w", o.dump, err)
			}
			fmt.Fprintf(stdout, "Wrote %s\n", o.dump)
		}
	}
	if len(snapshots) > 0 {
		err := export.SaveSnapshots(ctx, snapshots, export.SnapshotOptions{
			Title:     o.title,
			View:      view,
			Selection: s.Selection,
		})
		if err != nil {
			return err
		}
		for _, p := range snapshots {
			fmt.Fprintf(stdout, "Wrote %s\n", p)
		}
	}

	var errs []error
	for _, exec := range execs {
		if err := exec.RunPostExport(ctx); err != nil {
			errs = append(errs, err)
		}
		if summary := exec.Summary(); summary != "" {
			fmt.Fprintln(stderr, summary)
		}
	}
	return errors.Join(errs...)
}

type outputTarget struct {
	path   string
	format string
}

// outputTargets lists the files writeOutputs produces, with snapshot paths
// resolved the way the exporter writes them.
func outputTargets(o options) ([]outputTarget, error) {
	var out []outputTarget
	if o.dump != "" {
		out = append(out, outputTarget{path: o.dump, format: "markdown"})
	}
	for _, p := range o.exports {
		path, format, err := export.ResolveSnapshotPath(p)
		if err != nil {
			return nil, fmt.Errorf("--export %s: %w", p, err)
		}
		out = append(out, outputTarget{path: path, format: format})
	}
	return out, nil
}

// logTimings writes the collected timing stats to the debug log.
func logTimings() {
	for _, s := range metrics.AllTimingStats() {
		debug.Logger().Info("timing", "name", s.Name, "count", s.Count,
			"avg_ms", s.AvgMs, "max_ms", s.MaxMs, "total_ms", s.TotalMs)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func runTUIProgram(m ui.Model, cfg config.UIConfig) error {
	opts := append(ui.ProgramOptions(cfg), tea.WithoutSignalHandler())
	p := tea.NewProgram(m, opts...)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set DRAGTODO_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("DRAGTODO_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
