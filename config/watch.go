package config

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/gogpu/aurora"
)

// DefaultDebounce is how long Watch waits after the last event before
// reloading. Editors often write a file in several steps.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a configuration file whenever it changes.
type Watcher struct {
	// Path is the file to follow.
	Path string

	// Debounce collapses bursts of events. Zero means DefaultDebounce.
	Debounce time.Duration

	// OnChange receives every successfully parsed version of the file.
	OnChange func(*File)

	// OnError receives load errors. Nil logs them as warnings.
	OnError func(error)

	// ready, if set, is closed once the watch is established.
	ready chan struct{}
}

// Watch follows path and calls fn with each new version of it until ctx
// is done.
func Watch(ctx context.Context, path string, fn func(*File)) error {
	w := &Watcher{Path: path, OnChange: fn}
	return w.Run(ctx)
}

// Run blocks until ctx is done or the watch fails. The parent directory is
// watched rather than the file, so rename-on-save and delete-then-create
// are both seen.
func (w *Watcher) Run(ctx context.Context) error {
	if w.OnChange == nil {
		return errors.New("config: watcher has no OnChange")
	}
	path, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("config: watch %s: %w", filepath.Dir(path), err)
	}
	if w.ready != nil {
		close(w.ready)
	}
	log := aurora.Logger()
	log.Debug("config: watching", "path", path)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("config: event", "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("config: watcher error", "error", err)

		case <-timer.C:
			f, err := Load(path)
			if err != nil {
				w.reportError(err)
				continue
			}
			w.OnChange(f)
		}
	}
}

func (w *Watcher) reportError(err error) {
	if w.OnError != nil {
		w.OnError(err)
		return
	}
	aurora.Logger().Warn("config: reload failed", "error", err)
}

// Apply returns an OnChange function that pushes every version of the
// file into widget.
func Apply(widget *aurora.Widget) func(*File) {
	return func(f *File) {
		widget.SetOptions(f.Options()...)
	}
}
