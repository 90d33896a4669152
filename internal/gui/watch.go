package gui

import (
	"fmt"
	"log/slog"

	"github.com/thiagokokada/gitlanes/internal/watch"

	. "modernc.org/tk9.0"
)

// enableAutoReload reloads the session whenever the repository's refs or
// logs change on disk.
func (a *Controller) enableAutoReload() error {
	a.state.watch.mu.Lock()
	defer a.state.watch.mu.Unlock()
	if a.state.watch.enabled || a.svc == nil {
		return nil
	}
	w, err := watch.New(watch.Paths(a.svc.RepoPath(), a.svc.GitDir()), watch.DefaultDelay, func() {
		slog.Debug("auto reload triggered")
		PostEvent(a.reloadAsync, false)
	}, a.log)
	if err != nil {
		return fmt.Errorf("auto reload: %w", err)
	}
	a.state.watch.watcher = w
	a.state.watch.enabled = true
	return nil
}

func (a *Controller) disableAutoReload() {
	a.state.watch.mu.Lock()
	defer a.state.watch.mu.Unlock()
	if a.state.watch.watcher != nil {
		if err := a.state.watch.watcher.Close(); err != nil {
			slog.Error("watcher close", slog.Any("error", err))
		}
		a.state.watch.watcher = nil
	}
	a.state.watch.enabled = false
}

func (a *Controller) autoReloadEnabled() bool {
	a.state.watch.mu.Lock()
	defer a.state.watch.mu.Unlock()
	return a.state.watch.enabled
}

func (a *Controller) updateReloadButtonLabel() {
	if a.ui.reloadButton == nil {
		return
	}
	a.ui.reloadButton.Configure(Txt(reloadButtonLabel(a.cfg.autoReload, a.autoReloadEnabled())))
}

func reloadButtonLabel(configured, enabled bool) string {
	if !configured {
		return "Reload"
	}
	state := "Off"
	if enabled {
		state = "On"
	}
	return fmt.Sprintf("Reload (Auto %s)", state)
}

func (a *Controller) onReloadButton() {
	if a.cfg.autoReload {
		if a.autoReloadEnabled() {
			a.disableAutoReload()
		} else if err := a.enableAutoReload(); err != nil {
			slog.Error("auto reload enable failed", slog.Any("error", err))
		}
		a.updateReloadButtonLabel()
	}
	a.reloadAsync()
}
