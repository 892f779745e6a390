package preset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// Load reads a preset file, dispatching on extension. TOML is the native
// format; JSON (schema-checked) and YAML are accepted for import. Values
// absent from the file keep their defaults.
func Load(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}

	p := Default()
	switch ext := filepath.Ext(path); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), p); err != nil {
			return nil, fmt.Errorf("preset: decode TOML %s: %w", path, err)
		}
	case ".json":
		if err := validateJSON(data); err != nil {
			return nil, fmt.Errorf("%w (%s)", err, path)
		}
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("preset: decode JSON %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("preset: decode YAML %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("preset: unsupported extension %q (want .toml, .json, .yaml)", ext)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Save writes a preset as TOML.
func Save(p *Preset, path string) error {
	if err := p.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(p); err != nil {
		return fmt.Errorf("preset: encode %s: %w", p.Name, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("preset: create directory: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Resolve returns the named built-in, or loads the argument as a file path
// when it names no built-in.
func Resolve(nameOrPath string) (*Preset, error) {
	if p, err := Builtin(nameOrPath); err == nil {
		return p, nil
	}
	return Load(nameOrPath)
}

// debounceDelay coalesces editor write bursts into one reload.
const debounceDelay = 100 * time.Millisecond

// Loader loads one preset file and hot-reloads it on change.
type Loader struct {
	path     string
	mu       sync.RWMutex
	current  *Preset
	watcher  *fsnotify.Watcher
	onChange []func(*Preset)
	errChan  chan error
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewLoader creates a loader for the preset at path.
func NewLoader(path string) *Loader {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loader{
		path:    path,
		errChan: make(chan error, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Load reads, validates and caches the preset.
func (l *Loader) Load() (*Preset, error) {
	p, err := Load(l.path)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.current = p
	l.mu.Unlock()
	return p, nil
}

// Preset returns the last successfully loaded preset.
func (l *Loader) Preset() *Preset {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// OnChange registers a callback invoked after each successful hot reload.
// Register before calling Watch.
func (l *Loader) OnChange(cb func(*Preset)) {
	l.onChange = append(l.onChange, cb)
}

// Errors reports reload failures. A failed reload keeps the previous preset.
func (l *Loader) Errors() <-chan error {
	return l.errChan
}

// Watch starts watching the preset file for changes. The containing
// directory is watched so atomic rename-based saves are seen too.
func (l *Loader) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("preset: create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("preset: watch directory: %w", err)
	}
	l.watcher = watcher

	go l.watchLoop()
	return nil
}

func (l *Loader) watchLoop() {
	var debounce *time.Timer

	for {
		select {
		case <-l.ctx.Done():
			return

		case event, ok := <-l.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != filepath.Base(l.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, l.reload)

		case err, ok := <-l.watcher.Errors:
			if !ok {
				return
			}
			select {
			case l.errChan <- err:
			default:
			}
		}
	}
}

func (l *Loader) reload() {
	p, err := Load(l.path)
	if err != nil {
		select {
		case l.errChan <- err:
		default:
		}
		return
	}

	l.mu.Lock()
	l.current = p
	l.mu.Unlock()

	for _, cb := range l.onChange {
		cb(p)
	}
}

// Close stops watching and releases resources.
func (l *Loader) Close() error {
	l.cancel()
	if l.watcher != nil {
		return l.watcher.Close()
	}
	return nil
}
