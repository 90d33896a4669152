// Package watch reloads the view when the repository changes on disk.
package watch

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gitlanes/internal/debounce"
)

// DefaultDelay groups the bursts of writes a single git command produces.
const DefaultDelay = 350 * time.Millisecond

// Watcher calls a reload function once the repository has been quiet for
// the debounce delay.
type Watcher struct {
	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	debounce *debounce.Debouncer
	closed   bool
	done     chan struct{}
	log      *slog.Logger
}

// New watches paths and calls reload after changes settle.
func New(paths iter.Seq[string], delay time.Duration, reload func(), log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for path := range paths {
		log.Debug("adding path to FS watcher", slog.String("path", path))
		if err := fsw.Add(path); err != nil {
			err := errors.Join(err, fsw.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce.New(delay, reload),
		done:     make(chan struct{}),
		log:      log,
	}
	go w.loop()
	return w, nil
}

// Close stops watching and drops a pending reload.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	w.debounce.Stop()
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !relevant(ev) {
				continue
			}
			w.log.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.schedule()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.log.Debug("auto reload scheduled")
	w.debounce.Trigger()
}

func relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !shouldIgnorePath(ev.Name)
}

// Paths returns what to watch for a repository: the git directory, plus
// the refs directories below it since fsnotify does not recurse.
func Paths(root, gitDir string) iter.Seq[string] {
	unique := map[string]struct{}{}
	add := func(p string) {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			unique[p] = struct{}{}
		}
	}
	if gitDir == "" && root != "" {
		gitDir = filepath.Join(root, ".git")
	}
	if gitDir != "" {
		add(gitDir)
		for _, sub := range []string{"refs", "refs/heads", "refs/tags", "refs/remotes", "logs", "logs/refs"} {
			add(filepath.Join(gitDir, filepath.FromSlash(sub)))
		}
	}
	if len(unique) == 0 && root != "" {
		add(root)
	}
	return maps.Keys(unique)
}

func shouldIgnorePath(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".lock" || ext == ".ipc"
}
