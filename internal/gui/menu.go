package gui

import (
	"fmt"
	"strings"

	"github.com/thiagokokada/gitlanes/internal/buildinfo"

	. "modernc.org/tk9.0"
)

func (a *Controller) initMenubar() {
	menubar := Menu(Tearoff(false))

	fileMenu := menubar.Menu(Tearoff(false))
	fileMenu.AddCommand(Lbl("Open Repository..."), Command(a.promptRepositorySwitch))
	a.ui.recentMenu = fileMenu.Menu(Tearoff(false))
	fileMenu.AddCascade(Lbl("Open Recent"), Mnu(a.ui.recentMenu))
	fileMenu.AddCommand(Lbl("Reload"), Command(a.reloadAsync))
	fileMenu.AddCommand(Lbl("Close Repository"), Command(a.closeRepository))
	fileMenu.AddSeparator()
	fileMenu.AddCommand(Lbl("Quit"), Command(func() { Destroy(App) }))
	menubar.AddCascade(Lbl("File"), Mnu(fileMenu))

	helpMenu := menubar.Menu(Tearoff(false))
	helpMenu.AddCommand(Lbl("Keyboard Shortcuts"), Command(a.showShortcutsDialog))
	helpMenu.AddCommand(Lbl("About gitlanes"), Command(a.showAboutDialog))
	menubar.AddCascade(Lbl("Help"), Mnu(helpMenu))

	App.Configure(Mnu(menubar))
	a.refreshRecentMenu()
}

func (a *Controller) refreshRecentMenu() {
	menu := a.ui.recentMenu
	if menu == nil {
		return
	}
	tkEvalOrEmpty("%s delete 0 end", menu)
	recents := a.cfg.settings.UI.Recents
	if len(recents) == 0 {
		menu.AddCommand(Lbl("(none)"), State("disabled"))
		return
	}
	for _, path := range recents {
		menu.AddCommand(Lbl(path), Command(func() { a.switchRepository(path) }))
	}
}

func (a *Controller) promptRepositorySwitch() {
	dir := strings.TrimSpace(ChooseDirectory(
		Parent(App),
		Title("Select Git repository"),
		Initialdir(a.repo.path),
		Mustexist(true),
	))
	if dir == "" || dir == a.repo.path {
		return
	}
	a.switchRepository(dir)
}

func (a *Controller) switchRepository(path string) {
	if err := a.openRepository(path); err != nil {
		a.showError("Open Repository", fmt.Sprintf("Unable to open repository:\n\n%v", err))
	}
}

func (a *Controller) showAboutDialog() {
	message := fmt.Sprintf("gitlanes %s", buildinfo.VersionWithTags())
	MessageBox(
		Parent(App),
		Title("About gitlanes"),
		Icon("info"),
		Msg(message),
		Type("ok"),
	)
}
