package gui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/thiagokokada/gitlanes/internal/git"
	"github.com/thiagokokada/gitlanes/internal/refs"

	. "modernc.org/tk9.0"
)

// refreshSideList rebuilds the reference list from the current generation,
// keeping the selected reference.
func (a *Controller) refreshSideList() {
	list := a.ui.sideList
	if list == nil {
		return
	}
	selected := a.selectedRef()
	tkEvalOrEmpty("%s delete [%s children {}]", list, list)
	a.state.side.rows = make(map[string]string)
	gen := a.current()
	if gen == nil {
		return
	}
	for _, row := range buildSideRows(gen.Registry) {
		list.Insert("", "end", Id(row.ID), Values(tclList(row.Text, row.Commit)), Tags(strings.Join(row.Tags, " ")))
		if row.Ref == "" {
			continue
		}
		a.state.side.rows[row.ID] = row.Ref
		if row.Ref == selected {
			list.Selection("set", row.ID)
		}
	}
}

func (a *Controller) selectedRef() string {
	if a.ui.sideList == nil {
		return ""
	}
	sel := a.ui.sideList.Selection("")
	if len(sel) == 0 {
		return ""
	}
	return a.state.side.rows[sel[0]]
}

// onSideSelectionChanged selects the commit of the chosen reference.
func (a *Controller) onSideSelectionChanged() {
	name := a.selectedRef()
	gen := a.current()
	if name == "" || gen == nil {
		return
	}
	ref, ok := gen.Registry.Lookup(name)
	if !ok {
		return
	}
	a.selectRow(gen, ref.Commit.Index())
}

func (a *Controller) onSideActivate() {
	if name := a.selectedRef(); name != "" {
		a.checkoutRef(name)
	}
}

// checkoutRef checks out name when its type allows it.
func (a *Controller) checkoutRef(name string) {
	gen := a.current()
	if gen == nil {
		return
	}
	ref, ok := gen.Registry.Lookup(name)
	if !ok || !refs.CanCheckout(ref) {
		return
	}
	a.setStatus(fmt.Sprintf("Checking out %s...", ref.DisplayName))
	go func() {
		changed, err := a.session.Checkout(context.Background(), name)
		PostEvent(func() {
			if err != nil {
				slog.Error("checkout", slog.String("ref", name), slog.Any("error", err))
				a.showError("Checkout", fmt.Sprintf("Unable to check out %s:\n\n%v", ref.DisplayName, err))
				return
			}
			slog.Info("checked out", slog.String("ref", name), slog.Int("changed", len(changed)))
			a.setStatus(fmt.Sprintf("Checked out %s", ref.DisplayName))
			a.refreshSideList()
			a.scheduleRedraw()
		}, false)
	}()
}

func (a *Controller) initSideMenu() {
	a.ui.sideMenu = App.Menu(Tearoff(false))
	handler := func(e *Event) {
		a.showSideMenu(e)
	}
	Bind(a.ui.sideList, "<Button-2>", Command(handler))
	Bind(a.ui.sideList, "<Button-3>", Command(handler))
}

// showSideMenu offers the drop operations of the reference under the
// pointer.
func (a *Controller) showSideMenu(e *Event) {
	list, menu := a.ui.sideList, a.ui.sideMenu
	gen := a.current()
	if list == nil || menu == nil || e == nil || gen == nil {
		return
	}
	item := strings.TrimSpace(list.IdentifyItem(e.X, e.Y))
	name, ok := a.state.side.rows[item]
	if !ok {
		return
	}
	list.Selection("set", item)
	list.Focus(item)
	src, ok := gen.Registry.Lookup(name)
	if !ok {
		return
	}
	a.state.side.menuRef = name

	tkEvalOrEmpty("%s delete 0 end", menu)
	if refs.CanCheckout(src) {
		menu.AddCommand(Lbl("Checkout "+src.DisplayName), Command(func() { a.checkoutRef(name) }))
	}
	targets := dropTargets(gen.Registry, name)
	if len(targets) > 0 && refs.CanCheckout(src) {
		menu.AddSeparator()
	}
	for _, target := range targets {
		menu.AddCommand(Lbl(dropLabel(src, target)), Command(func() { a.dropRef(name, target.Name) }))
	}
	if tkEvalOrEmpty("%s index end", menu) == "none" {
		return
	}
	Popup(menu.Window, e.XRoot, e.YRoot, nil)
}

func (a *Controller) dropRef(source, target string) {
	a.setStatus(fmt.Sprintf("Dropping %s on %s...", source, target))
	go func() {
		err := a.session.Drop(context.Background(), source, target)
		PostEvent(func() {
			if err == nil {
				a.setStatus(fmt.Sprintf("Dropped %s on %s", source, target))
				a.reloadAsync()
				return
			}
			slog.Error("drop", slog.String("source", source), slog.String("target", target), slog.Any("error", err))
			msg := fmt.Sprintf("Unable to drop %s on %s:\n\n%v", source, target, err)
			if errors.Is(err, git.ErrNotImplemented) {
				msg = fmt.Sprintf("%s on %s is not supported yet.", source, target)
			}
			a.showError("Drop reference", msg)
		}, false)
	}()
}

func (a *Controller) showError(title, msg string) {
	MessageBox(
		Parent(App),
		Title(title),
		Icon("error"),
		Msg(msg),
		Type("ok"),
	)
}
