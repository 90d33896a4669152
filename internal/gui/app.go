// Package gui shows the laid out commit graph of a repository in a Tk window.
package gui

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thiagokokada/gitlanes/internal/config"
	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/graph"
	"github.com/thiagokokada/gitlanes/internal/session"

	. "modernc.org/tk9.0"
)

//go:embed assets/appicon.svg
var appIconSVG string

// RunConfig describes the parameters that control the GUI runtime.
type RunConfig struct {
	RepoPath   string
	Config     config.Config
	ConfigPath string
	Glob       string
	AutoReload bool
	Logger     *slog.Logger
}

func Run(cfg RunConfig) error {
	if err := InitializeExtension("eval"); err != nil && err != AlreadyInitialized {
		return fmt.Errorf("init eval extension: %v", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	dark := cfg.Config.Dark()
	app := &Controller{
		log: log,
		cfg: controllerConfig{
			settings:   cfg.Config,
			configPath: cfg.ConfigPath,
			glob:       cfg.Glob,
			dark:       dark,
			autoReload: cfg.AutoReload,
		},
		palette: paletteFor(dark),
	}
	return app.run(cfg.RepoPath)
}

func (a *Controller) run(repoPath string) error {
	defer a.shutdown()
	a.palette.activate()
	applyAppIcon()
	a.initMenubar()
	a.buildUI()
	if repoPath != "" {
		if err := a.openRepository(repoPath); err != nil {
			return err
		}
	}
	App.SetResizable(true, true)
	App.Center().Wait()
	return nil
}

func applyAppIcon() {
	if strings.TrimSpace(appIconSVG) == "" {
		return
	}
	if img := NewPhoto(Data(appIconSVG)); img != nil {
		App.IconPhoto(img)
	}
}

// openRepository replaces the session with one for path and starts loading
// it.
func (a *Controller) openRepository(path string) error {
	svc, err := git.Open(path)
	if err != nil {
		return err
	}
	a.closeRepository()

	settings := a.cfg.settings
	a.svc = svc
	a.session = session.New(svc, session.Options{
		Glob:             a.cfg.glob,
		Tick:             settings.Layout.Tick.Duration,
		PlacementTimeout: settings.Layout.PlacementTimeout.Duration,
		Geometry:         settings.Geometry(),
		Palette:          settings.Palette(a.cfg.dark),
		StashName:        settings.UI.StashDisplayName,
		Logger:           a.log,
	})
	a.session.OnLoad(a.attachGeneration)
	a.repo = controllerRepo{path: svc.RepoPath(), name: svc.Name()}
	a.rememberRecent(a.repo.path)
	a.updateRepoLabel()
	if a.cfg.autoReload {
		if err := a.enableAutoReload(); err != nil {
			slog.Error("auto reload disabled", slog.Any("error", err))
		}
	}
	a.updateReloadButtonLabel()
	a.reloadAsync()
	return nil
}

// closeRepository discards the session and empties the window.
func (a *Controller) closeRepository() {
	a.disableAutoReload()
	if a.session != nil {
		a.session.Clear()
	}
	a.session = nil
	a.svc = nil
	a.repo = controllerRepo{}
	a.state.selection.clear()
	a.updateRepoLabel()
	a.updateReloadButtonLabel()
	a.refreshSideList()
	a.clearDetailText(detailPlaceholder)
	a.setStatus("")
	a.redraw()
}

// attachGeneration hooks a new generation's layout progress to the canvas.
// It runs before any commit is queued.
func (a *Controller) attachGeneration(gen *session.Generation) {
	gen.Store.OnPlaced(func(*graph.Node) { a.scheduleRedraw() })
	gen.Store.OnWiden(func(_, _ float64) { a.scheduleRedraw() })
	go func() {
		<-gen.Resolved()
		PostEvent(func() {
			if a.current() != gen {
				return
			}
			a.refreshSideList()
			a.scheduleRedraw()
			a.restoreSelection(gen)
		}, false)
	}()
}

func (a *Controller) reloadAsync() {
	sess := a.session
	if sess == nil {
		return
	}
	a.setStatus("Loading commits...")
	go func() {
		_, err := sess.Reload(context.Background())
		PostEvent(func() {
			if err != nil {
				slog.Error("failed to load repository", slog.Any("error", err))
				a.setStatus(fmt.Sprintf("Failed to load repository: %v", err))
				return
			}
			a.refreshSideList()
			a.scheduleRedraw()
		}, false)
	}()
}

// selectRow highlights the commit in row and shows its details.
func (a *Controller) selectRow(gen *session.Generation, row int) {
	commits := gen.Store.Commits()
	if row < 0 || row >= len(commits) {
		return
	}
	n := commits[row]
	if !a.state.selection.set(n) {
		return
	}
	a.writeDetailText(commitDetails(n, gen.Registry.ForCommit(n.ID)))
	a.seeRow(row, gen.Store.Geometry().RowHeight)
	a.scheduleRedraw()
}

// restoreSelection re-selects the previously selected commit after a reload.
func (a *Controller) restoreSelection(gen *session.Generation) {
	row := a.state.selection.row(gen.Store.Commits())
	if row < 0 {
		if a.state.selection.commitID() != "" {
			a.state.selection.clear()
			a.clearDetailText(detailPlaceholder)
		}
		return
	}
	a.selectRow(gen, row)
}

func (a *Controller) moveSelection(delta int) {
	gen := a.current()
	if gen == nil {
		return
	}
	commits := gen.Store.Commits()
	if len(commits) == 0 {
		return
	}
	row := a.state.selection.row(commits) + delta
	a.selectRow(gen, min(max(row, 0), len(commits)-1))
}

func (a *Controller) selectFirst() {
	if gen := a.current(); gen != nil {
		a.selectRow(gen, 0)
	}
}

func (a *Controller) selectLast() {
	if gen := a.current(); gen != nil {
		a.selectRow(gen, gen.Store.Len()-1)
	}
}

func (a *Controller) updateStatus(gen *session.Generation) {
	commits := gen.Store.Len()
	placed := commits - gen.Store.Pending()
	msg := statusSummary(a.repo.name, commits, placed, gen.Registry.Len(), len(gen.Unplaced()))
	if err := gen.Store.Err(); err != nil {
		msg = fmt.Sprintf("%s: layout stopped: %v", a.repo.name, err)
	}
	a.setStatus(msg)
}

func (a *Controller) rememberRecent(path string) {
	a.cfg.settings.AddRecent(path)
	a.refreshRecentMenu()
	if a.cfg.configPath == "" {
		return
	}
	if err := config.Save(a.cfg.configPath, a.cfg.settings); err != nil {
		slog.Error("save recent repositories", slog.Any("error", err))
	}
}

func (a *Controller) shutdown() {
	a.disableAutoReload()
	if a.session != nil {
		a.session.Clear()
	}
}
