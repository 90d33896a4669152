package gui

import (
	"fmt"
	"strings"

	. "modernc.org/tk9.0"
)

type shortcutBinding struct {
	sequences   []string
	display     string
	description string
	category    string
	handler     func()
}

func (a *Controller) bindShortcuts() {
	for _, sc := range a.shortcutBindings() {
		if sc.handler == nil {
			continue
		}
		for _, seq := range sc.sequences {
			if seq == "" {
				continue
			}
			Bind(App, seq, Command(sc.handler))
		}
	}
}

func (a *Controller) shortcutBindings() []shortcutBinding {
	return []shortcutBinding{
		{
			category:    "Graph",
			display:     "p / k / Up",
			description: "Select the newer commit",
			sequences:   []string{"<KeyPress-p>", "<KeyPress-k>", "<KeyPress-Up>"},
			handler:     func() { a.moveSelection(-1) },
		},
		{
			category:    "Graph",
			display:     "n / j / Down",
			description: "Select the older commit",
			sequences:   []string{"<KeyPress-n>", "<KeyPress-j>", "<KeyPress-Down>"},
			handler:     func() { a.moveSelection(1) },
		},
		{
			category:    "Graph",
			display:     "Home",
			description: "Jump to the newest commit",
			sequences:   []string{"<KeyPress-Home>"},
			handler:     a.selectFirst,
		},
		{
			category:    "Graph",
			display:     "End",
			description: "Jump to the oldest commit",
			sequences:   []string{"<KeyPress-End>"},
			handler:     a.selectLast,
		},
		{
			category:    "Graph",
			display:     "Page Up / Page Down",
			description: "Scroll the graph a page",
			sequences:   []string{"<KeyPress-Prior>"},
			handler:     func() { a.scrollCanvasPages(-1) },
		},
		{
			sequences: []string{"<KeyPress-Next>"},
			handler:   func() { a.scrollCanvasPages(1) },
		},
		{
			category:    "References",
			display:     "Double-click / Return",
			description: "Check out the selected local branch",
		},
		{
			category:    "References",
			display:     "Right-click",
			description: "Merge, push, pull or apply onto another reference",
		},
		{
			category:    "General",
			display:     "F5",
			description: "Reload the repository",
			sequences:   []string{"<F5>"},
			handler:     a.reloadAsync,
		},
		{
			category:    "General",
			display:     "Ctrl+O",
			description: "Open a repository",
			sequences:   []string{"<Control-KeyPress-o>"},
			handler:     a.promptRepositorySwitch,
		},
		{
			category:    "General",
			display:     "F1",
			description: "Show shortcut list",
			sequences:   []string{"<F1>"},
			handler:     a.showShortcutsDialog,
		},
		{
			category:    "General",
			display:     "Ctrl+Q",
			description: "Quit gitlanes",
			sequences:   []string{"<Control-KeyPress-q>"},
			handler:     func() { Destroy(App) },
		},
	}
}

func (a *Controller) scrollCanvasPages(delta int) {
	if a.ui.canvas == nil || delta == 0 {
		return
	}
	tkEvalOrEmpty("%s yview scroll %d pages", a.ui.canvas, delta)
}

func (a *Controller) showShortcutsDialog() {
	if a.ui.shortcuts != nil {
		Destroy(a.ui.shortcuts.Window)
		a.ui.shortcuts = nil
	}
	dialog := App.Toplevel()
	a.ui.shortcuts = dialog
	dialog.Window.WmTitle("Keyboard Shortcuts")
	WmTransient(dialog.Window, App)

	frame := dialog.TFrame(Padding("12p"))
	Grid(frame, Row(0), Column(0), Sticky(NEWS))
	GridColumnConfigure(frame.Window, 0, Weight(1))
	GridRowConfigure(frame.Window, 0, Weight(1))

	text := frame.Text(Width(62), Height(18), Wrap(WORD), Exportselection(false))
	text.Insert("1.0", formatShortcutsHelpText(a.shortcutBindings()))
	text.Configure(State("disabled"))
	Grid(text, Row(0), Column(0), Sticky(NEWS))

	closeBtn := frame.TButton(Txt("Close"), Command(func() { Destroy(dialog.Window) }))
	Grid(closeBtn, Row(1), Column(0), Sticky(E), Pady("8p 0"))

	Bind(dialog.Window, "<Destroy>", Command(func() {
		if a.ui.shortcuts == dialog {
			a.ui.shortcuts = nil
		}
	}))
	dialog.Window.Center()
}

// formatShortcutsHelpText lists the documented bindings under their
// category headings.
func formatShortcutsHelpText(bindings []shortcutBinding) string {
	var b strings.Builder
	current := ""
	for _, sc := range bindings {
		if sc.category == "" || sc.display == "" || sc.description == "" {
			continue
		}
		if sc.category != current {
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			current = sc.category
			b.WriteString(current)
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "  %s - %s\n", sc.display, sc.description)
	}
	return strings.TrimRight(b.String(), "\n")
}
