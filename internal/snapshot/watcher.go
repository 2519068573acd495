package snapshot

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/achyuthrachur/KYC-Analysis-Dashboard/internal/models"
)

// debounceWindow coalesces the burst of filesystem events a single snapshot
// rewrite produces into one reload.
const debounceWindow = 250 * time.Millisecond

// Watcher reloads the snapshot when the file changes on disk and notifies
// subscribers. The reload goes through the Loader, so readers only ever see
// a fully-normalized Snapshot swapped in as one value.
type Watcher struct {
	loader   *Loader
	path     string
	onReload func(*models.Snapshot)
	log      *zap.Logger

	fw   *fsnotify.Watcher
	done chan struct{}
}

// NewWatcher watches the snapshot file at path. onReload is called with the
// fresh snapshot after every successful reload.
func NewWatcher(loader *Loader, path string, onReload func(*models.Snapshot), log *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	// Watch the directory, not the file: editors and the extractor replace
	// the file, which would drop a direct watch.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching snapshot directory: %w", err)
	}

	w := &Watcher{
		loader:   loader,
		path:     path,
		onReload: onReload,
		log:      log,
		fw:       fw,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				timer.Reset(debounceWindow)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			w.reload()

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warn("snapshot watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	w.loader.Invalidate(w.path)
	snap, err := w.loader.Load(w.path)
	if err != nil {
		w.log.Error("snapshot reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.log.Info("snapshot reloaded", zap.String("path", w.path), zap.Int("records", len(snap.Records)))
	if w.onReload != nil {
		w.onReload(snap)
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fw.Close()
}
