package gui

import (
	"fmt"
	"log/slog"

	. "modernc.org/tk9.0"
)

const detailPlaceholder = "Select a commit to view its details."

func (a *Controller) buildUI() {
	GridColumnConfigure(App, 0, Weight(1))
	GridRowConfigure(App, 1, Weight(1))

	controls := App.TFrame(Padding("8p"))
	Grid(controls, Row(0), Column(0), Sticky(WE))
	GridColumnConfigure(controls.Window, 0, Weight(1))

	a.ui.repoLabel = controls.TLabel(Anchor(W))
	Grid(a.ui.repoLabel, Row(0), Column(0), Sticky(W))
	a.ui.reloadButton = controls.TButton(Txt("Reload"), Command(a.onReloadButton))
	Grid(a.ui.reloadButton, Row(0), Column(1), Sticky(E))
	a.updateRepoLabel()

	pane := App.TPanedwindow(Orient(HORIZONTAL))
	Grid(pane, Row(1), Column(0), Sticky(NEWS), Padx("4p"), Pady("4p"))

	sideArea := pane.TFrame()
	mainArea := pane.TFrame()
	pane.Add(sideArea.Window)
	pane.Add(mainArea.Window)
	configurePane := func(window *Window, options string) {
		if _, err := tkEval("%s pane %s %s", pane, window, options); err != nil {
			slog.Debug("pane options", slog.String("options", options), slog.Any("error", err))
		}
	}
	configurePane(sideArea.Window, "-weight 1")
	configurePane(mainArea.Window, "-weight 4")

	a.buildSideList(sideArea)
	a.buildGraphArea(mainArea)

	a.ui.status = App.TLabel(Anchor(W), Relief(SUNKEN), Padding("4p"))
	Grid(a.ui.status, Row(2), Column(0), Sticky(WE))

	a.clearDetailText(detailPlaceholder)
	a.bindShortcuts()
}

func (a *Controller) buildSideList(area *TFrameWidget) {
	GridRowConfigure(area.Window, 0, Weight(1))
	GridColumnConfigure(area.Window, 0, Weight(1))

	scroll := area.TScrollbar()
	a.ui.sideList = area.TTreeview(
		Show("headings"),
		Columns("name commit"),
		Selectmode("browse"),
		Yscrollcommand(func(e *Event) { e.ScrollSet(scroll) }),
	)
	a.ui.sideList.Column("name", Anchor(W), Width(200))
	a.ui.sideList.Column("commit", Anchor(W), Width(70))
	a.ui.sideList.Heading("name", Txt("Reference"))
	a.ui.sideList.Heading("commit", Txt("Commit"))
	a.ui.sideList.TagConfigure(groupTag, Background(a.palette.GroupRow))
	a.ui.sideList.TagConfigure(checkoutTag, Font("TkDefaultFont 9 bold"))
	Grid(a.ui.sideList, Row(0), Column(0), Sticky(NEWS))
	Grid(scroll, Row(0), Column(1), Sticky(NS))
	scroll.Configure(Command(func(e *Event) { e.Yview(a.ui.sideList) }))

	Bind(a.ui.sideList, "<<TreeviewSelect>>", Command(a.onSideSelectionChanged))
	Bind(a.ui.sideList, "<Double-Button-1>", Command(a.onSideActivate))
	Bind(a.ui.sideList, "<KeyPress-Return>", Command(a.onSideActivate))
	a.initSideMenu()
}

func (a *Controller) buildGraphArea(area *TFrameWidget) {
	pane := area.TPanedwindow(Orient(VERTICAL))
	Grid(pane, Row(0), Column(0), Sticky(NEWS))
	GridRowConfigure(area.Window, 0, Weight(1))
	GridColumnConfigure(area.Window, 0, Weight(1))

	graphFrame := pane.TFrame()
	detailFrame := pane.TFrame()
	pane.Add(graphFrame.Window)
	pane.Add(detailFrame.Window)

	GridRowConfigure(graphFrame.Window, 0, Weight(1))
	GridColumnConfigure(graphFrame.Window, 0, Weight(1))
	yScroll := graphFrame.TScrollbar()
	xScroll := graphFrame.TScrollbar(Orient(HORIZONTAL))
	a.ui.canvas = graphFrame.Canvas(Background(a.palette.Background), Height(420))
	a.ui.canvas.Configure(Yscrollcommand(func(e *Event) { e.ScrollSet(yScroll) }))
	a.ui.canvas.Configure(Xscrollcommand(func(e *Event) { e.ScrollSet(xScroll) }))
	yScroll.Configure(Command(func(e *Event) { e.Yview(a.ui.canvas) }))
	xScroll.Configure(Command(func(e *Event) { e.Xview(a.ui.canvas) }))
	Grid(a.ui.canvas, Row(0), Column(0), Sticky(NEWS))
	Grid(yScroll, Row(0), Column(1), Sticky(NS))
	Grid(xScroll, Row(1), Column(0), Sticky(WE))
	a.bindCanvas()

	GridRowConfigure(detailFrame.Window, 0, Weight(1))
	GridColumnConfigure(detailFrame.Window, 0, Weight(1))
	detailScroll := detailFrame.TScrollbar(Command(func(e *Event) { e.Yview(a.ui.detail) }))
	a.ui.detail = detailFrame.Text(Wrap(WORD), Height(10), Font(CourierFont(), 10), Exportselection(false))
	a.ui.detail.Configure(Yscrollcommand(func(e *Event) { e.ScrollSet(detailScroll) }))
	Grid(a.ui.detail, Row(0), Column(0), Sticky(NEWS))
	Grid(detailScroll, Row(0), Column(1), Sticky(NS))
}

func (a *Controller) updateRepoLabel() {
	if a.ui.repoLabel == nil {
		return
	}
	label := "No repository"
	if a.repo.path != "" {
		label = fmt.Sprintf("Repository: %s", a.repo.path)
	}
	a.ui.repoLabel.Configure(Txt(label))
	title := "gitlanes"
	if a.repo.name != "" {
		title = fmt.Sprintf("%s - gitlanes", a.repo.name)
	}
	App.WmTitle(title)
}

func (a *Controller) clearDetailText(msg string) {
	a.writeDetailText(msg)
}

func (a *Controller) writeDetailText(content string) {
	if a.ui.detail == nil {
		return
	}
	a.ui.detail.Configure(State(NORMAL))
	a.ui.detail.Delete("1.0", END)
	a.ui.detail.Insert("1.0", content)
	a.ui.detail.Configure(State("disabled"))
}

func (a *Controller) setStatus(msg string) {
	text := msg
	PostEvent(func() {
		if a.ui.status != nil {
			a.ui.status.Configure(Txt(text))
		}
	}, false)
}
