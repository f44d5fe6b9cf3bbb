package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Loader reads a generator YAML file and watches it for changes.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *GeneratorConfig
	onChange []func(*GeneratorConfig)
	watcher  *fsnotify.Watcher
}

// NewLoader creates a Loader and performs the initial load.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path}
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.current = cfg
	return l, nil
}

// Path returns the watched file.
func (l *Loader) Path() string { return l.path }

// Config returns the current (latest) configuration.
func (l *Loader) Config() *GeneratorConfig {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked whenever the config reloads.
func (l *Loader) OnChange(fn func(*GeneratorConfig)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.onChange = append(l.onChange, fn)
}

// Watch starts a background goroutine that hot-reloads the config on file changes.
// Call the returned stop function to clean up.
func (l *Loader) Watch() (stop func(), err error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config watcher: %w", err)
	}
	if err := w.Add(l.path); err != nil {
		w.Close()
		return nil, fmt.Errorf("config watcher add %s: %w", l.path, err)
	}
	l.watcher = w

	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					if _, err := l.Reload(); err != nil {
						slog.Warn("config reload rejected, keeping previous", "path", l.path, "err", err)
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				slog.Warn("config watcher error", "path", l.path, "err", err)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() { once.Do(func() { close(done) }) }, nil
}

// Reload forces an immediate re-read of the config file. An invalid file or
// one that names a different service leaves the current config in place.
func (l *Loader) Reload() (*GeneratorConfig, error) {
	cfg, err := l.load()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	if l.current != nil && cfg.Service != l.current.Service {
		prev := l.current.Service
		l.mu.Unlock()
		return nil, fmt.Errorf("reload %s: service changed from %q to %q", l.path, prev, cfg.Service)
	}
	l.current = cfg
	callbacks := make([]func(*GeneratorConfig), len(l.onChange))
	copy(callbacks, l.onChange)
	l.mu.Unlock()
	for _, fn := range callbacks {
		fn(cfg)
	}
	return cfg, nil
}

func (l *Loader) load() (*GeneratorConfig, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", l.path, err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies the service defaults and validates the result.
func Parse(data []byte) (*GeneratorConfig, error) {
	var cfg GeneratorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
