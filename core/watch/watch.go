// Package watch reruns generation when schema files change.
//
// Events are debounced and every run happens on the watcher goroutine, so runs never
// overlap; changes made during a run are picked up by the next one.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// RunFunc performs one generation run.
type RunFunc func(ctx context.Context) error

// Config configures a Watcher.
type Config struct {
	// Dir is the schema root; it is watched recursively.
	Dir string

	// Debounce is the quiet period after the last event before a run starts.
	Debounce time.Duration

	// Run is called once at start (unless SkipInitial is set) and after every change.
	Run RunFunc

	// SkipInitial suppresses the run at start.
	SkipInitial bool

	// Match reports whether a changed file is relevant. Default: *.proto files.
	Match func(path string) bool

	Logger zerolog.Logger
}

// Watcher watches a schema tree.
type Watcher struct {
	cfg     Config
	fsw     *fsnotify.Watcher
	trigger chan string
	runs    atomic.Int64
}

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

// New creates a watcher on cfg.Dir and its subdirectories.
func New(cfg Config) (*Watcher, error) {
	if cfg.Run == nil {
		return nil, errors.New("watch: run function is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Match == nil {
		cfg.Match = IsSchemaFile
	}

	info, err := os.Stat(cfg.Dir)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", cfg.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", cfg.Dir)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		cfg:     cfg,
		fsw:     fsw,
		trigger: make(chan string, 1),
	}
	if err := w.addTree(cfg.Dir); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// IsSchemaFile reports whether path is an IDL file.
func IsSchemaFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".proto")
}

// Trigger requests a run as if a schema file changed. It never blocks; requests made while
// one is pending are coalesced.
func (w *Watcher) Trigger(reason string) {
	select {
	case w.trigger <- reason:
	default:
	}
}

// Runs returns how many runs have completed.
func (w *Watcher) Runs() int {
	return int(w.runs.Load())
}

// Run blocks until ctx is done. Failed runs are logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	logger := w.cfg.Logger.With().Str("dir", w.cfg.Dir).Logger()
	logger.Info().Dur("debounce", w.cfg.Debounce).Msg("Watching schema files")

	if !w.cfg.SkipInitial {
		w.run(ctx, logger, "start")
	}

	timer := time.NewTimer(w.cfg.Debounce)
	timer.Stop()
	defer timer.Stop()

	var pending []string
	schedule := func(reason string) {
		pending = append(pending, reason)
		timer.Reset(w.cfg.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Watcher stopped")
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						logger.Warn().Err(err).Str("path", event.Name).Msg("Cannot watch new directory")
					}
					continue
				}
			}
			if !w.cfg.Match(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("Schema file changed")
			schedule(event.Name)

		case reason := <-w.trigger:
			schedule(reason)

		case <-timer.C:
			reason := strings.Join(unique(pending), ", ")
			pending = pending[:0]
			w.run(ctx, logger, reason)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("Schema watcher error")
		}
	}
}

func (w *Watcher) run(ctx context.Context, logger zerolog.Logger, reason string) {
	start := time.Now()
	err := w.cfg.Run(ctx)
	w.runs.Add(1)
	if err != nil {
		logger.Error().Err(err).Str("reason", reason).Msg("Generation failed, waiting for changes")
		return
	}
	logger.Info().
		Str("reason", reason).
		Dur("took", time.Since(start)).
		Msg("Regenerated")
}

// addTree adds dir and every directory below it.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
