package gui

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/thiagokokada/gitlanes/internal/config"
	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/session"
	"github.com/thiagokokada/gitlanes/internal/watch"

	. "modernc.org/tk9.0"
)

type Controller struct {
	svc     *git.Service
	session *session.Session
	log     *slog.Logger

	cfg     controllerConfig
	repo    controllerRepo
	palette colorPalette
	ui      appWidgets

	state controllerState
}

type controllerConfig struct {
	settings   config.Config
	configPath string
	glob       string
	dark       bool
	autoReload bool
}

type controllerRepo struct {
	path string
	name string
}

type appWidgets struct {
	status       *TLabelWidget
	repoLabel    *TLabelWidget
	reloadButton *TButtonWidget
	sideList     *TTreeviewWidget
	sideMenu     *MenuWidget
	canvas       *CanvasWidget
	detail       *TextWidget
	recentMenu   *MenuWidget
	shortcuts    *ToplevelWidget
}

type controllerState struct {
	canvas    canvasState
	side      sideState
	selection selectionState
	watch     autoReloadState
}

type canvasState struct {
	redrawPending atomic.Bool
	width         float64
	height        float64
}

type sideState struct {
	// rows maps side list item ids to reference names.
	rows    map[string]string
	menuRef string
}

type autoReloadState struct {
	mu      sync.Mutex
	enabled bool
	watcher *watch.Watcher
}
