package config

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// reloadDelay coalesces the burst of events an editor produces for one save.
const reloadDelay = 50 * time.Millisecond

// Holder keeps the current configuration of a long-running command and reloads it when the
// file changes or the process receives SIGHUP. Readers never block.
type Holder struct {
	current atomic.Pointer[Config]
	path    string
	logger  zerolog.Logger

	mu        sync.Mutex // guards listeners and reload
	listeners []func(*Config)

	watcher  *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
}

// NewHolder loads path and returns a holder for it.
func NewHolder(path string, logger zerolog.Logger) (*Holder, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	cfg, err := Load(abs)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	h := &Holder{path: abs, logger: logger.With().Str("config", abs).Logger(), done: make(chan struct{})}
	h.current.Store(cfg)
	return h, nil
}

// Get returns the current configuration. The returned value must not be modified.
func (h *Holder) Get() *Config {
	return h.current.Load()
}

// Path returns the absolute config file path.
func (h *Holder) Path() string {
	return h.path
}

// OnChange registers fn to run after every successful reload.
func (h *Holder) OnChange(fn func(*Config)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Reload reads the file again. An invalid file leaves the current configuration in place.
func (h *Holder) Reload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	next, err := Load(h.path)
	if err != nil {
		h.logger.Error().Err(err).Msg("Config reload failed, keeping current config")
		return fmt.Errorf("reload config: %w", err)
	}

	prev := h.current.Swap(next)
	for _, change := range diff(prev, next) {
		h.logger.Info().Str("key", change.key).Str("old", change.old).Str("new", change.new).Msg("Config changed")
	}
	if prev.Schema.Dir != next.Schema.Dir {
		h.logger.Warn().Msg("schema.dir changed; restart watch to follow the new directory")
	}

	for _, fn := range h.listeners {
		fn(next)
	}
	return nil
}

// WatchFile reloads the configuration after the file is written or replaced. The parent
// directory is watched so atomic saves (write temp, rename) are seen.
func (h *Holder) WatchFile() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(h.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(h.path), err)
	}
	h.watcher = w

	go h.watch(w)
	h.logger.Debug().Msg("Watching config file")
	return nil
}

// WatchSignals reloads the configuration on SIGHUP until Stop.
func (h *Holder) WatchSignals() {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)

	go func() {
		defer signal.Stop(hup)
		for {
			select {
			case <-hup:
				_ = h.Reload()
			case <-h.done:
				return
			}
		}
	}()
}

// Stop ends file and signal watching. It may be called more than once.
func (h *Holder) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		if h.watcher != nil {
			h.watcher.Close()
		}
	})
}

func (h *Holder) watch(w *fsnotify.Watcher) {
	name := filepath.Base(h.path)
	var pending *time.Timer
	defer func() {
		if pending != nil {
			pending.Stop()
		}
	}()

	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(reloadDelay, func() {
				select {
				case <-h.done:
				default:
					_ = h.Reload()
				}
			})

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			h.logger.Warn().Err(err).Msg("Config watcher error")

		case <-h.done:
			return
		}
	}
}

type change struct {
	key, old, new string
}

// diff lists the settings a reload changed that matter to a running watch.
func diff(prev, next *Config) []change {
	var out []change
	add := func(key, old, new string) {
		if old != new {
			out = append(out, change{key, old, new})
		}
	}
	add("schema.dir", prev.Schema.Dir, next.Schema.Dir)
	add("output.client_root", prev.Output.ClientRoot, next.Output.ClientRoot)
	add("output.server_root", prev.Output.ServerRoot, next.Output.ServerRoot)
	add("output.format", prev.Output.Format, next.Output.Format)
	add("openapi.title", prev.OpenAPI.Title, next.OpenAPI.Title)
	add("openapi.version", prev.OpenAPI.Version, next.OpenAPI.Version)
	add("logging.level", prev.Logging.Level, next.Logging.Level)
	if prev.Imports != next.Imports {
		out = append(out, change{key: "imports"})
	}
	return out
}
