package bridge

import (
	"fmt"

	"blueprint/graph"
	"go.uber.org/zap"
)

// Popup names.
const (
	PopupNode   = "Node Context Menu"
	PopupPin    = "Pin Context Menu"
	PopupLink   = "Link Context Menu"
	PopupCreate = "Create New Node"
)

// contextMenus opens at most one popup for this frame's right click and then
// draws whichever popup is open. Must run in screen space.
func (b *Bridge) contextMenus() {
	e := b.eng
	if id, ok := e.ShowNodeContextMenu(); ok {
		b.menu = id
		e.OpenPopup(PopupNode)
	} else if id, ok := e.ShowPinContextMenu(); ok {
		b.menu = id
		e.OpenPopup(PopupPin)
	} else if id, ok := e.ShowLinkContextMenu(); ok {
		b.menu = id
		e.OpenPopup(PopupLink)
	} else if e.ShowBackgroundContextMenu() {
		b.menu = graph.None
		e.OpenPopup(PopupCreate)
	}

	b.nodeMenu()
	b.pinMenu()
	b.linkMenu()
	b.createMenu()
}

func (b *Bridge) nodeMenu() {
	e := b.eng
	if !e.BeginPopup(PopupNode) {
		return
	}
	defer e.EndPopup()

	e.PopupText(PopupNode)
	e.Separator()
	n, ok := b.sess.FindNode(b.menu)
	if !ok {
		e.PopupText(fmt.Sprintf("Unknown node: %d", b.menu))
		return
	}
	e.PopupText(fmt.Sprintf("ID: %d", n.ID))
	e.PopupText("Node: " + b.Header(n))
	e.PopupText(fmt.Sprintf("Inputs: %d", len(n.Inputs)))
	e.PopupText(fmt.Sprintf("Outputs: %d", len(n.Outputs)))
	e.Separator()
	for _, key := range n.Props.BoolKeys() {
		if e.MenuItem("Toggle " + key) {
			n.Props.Toggle(key)
			b.sess.TouchNode(n)
		}
	}
	if e.MenuItem("Delete") {
		e.DeleteNode(n.ID)
	}
}

func (b *Bridge) pinMenu() {
	e := b.eng
	if !e.BeginPopup(PopupPin) {
		return
	}
	defer e.EndPopup()

	e.PopupText(PopupPin)
	e.Separator()
	p, ok := b.sess.FindPin(b.menu)
	if !ok {
		e.PopupText(fmt.Sprintf("Unknown pin: %d", b.menu))
		return
	}
	e.PopupText(fmt.Sprintf("ID: %d", p.ID))
	e.PopupText(fmt.Sprintf("Pin: %s (%s %s)", p.Label, p.Type, p.Direction))
	e.PopupText("Node: " + b.Header(p.Node))
	links := b.sess.PinLinks(p)
	e.PopupText(fmt.Sprintf("Links: %d", len(links)))
	e.Separator()
	if e.MenuItem("Disconnect") {
		for _, l := range links {
			e.DeleteLink(l.ID)
		}
	}
}

func (b *Bridge) linkMenu() {
	e := b.eng
	if !e.BeginPopup(PopupLink) {
		return
	}
	defer e.EndPopup()

	e.PopupText(PopupLink)
	e.Separator()
	l, ok := b.sess.FindLink(b.menu)
	if !ok {
		e.PopupText(fmt.Sprintf("Unknown link: %d", b.menu))
		return
	}
	e.PopupText(fmt.Sprintf("ID: %d", l.ID))
	e.PopupText(fmt.Sprintf("From: %s.%s", b.Header(l.Source.Node), l.Source.Label))
	e.PopupText(fmt.Sprintf("To: %s.%s", b.Header(l.Target.Node), l.Target.Label))
	e.Separator()
	if e.MenuItem("Delete") {
		e.DeleteLink(l.ID)
	}
}

func (b *Bridge) createMenu() {
	e := b.eng
	if !e.BeginPopup(PopupCreate) {
		return
	}
	defer e.EndPopup()

	e.PopupText(PopupCreate)
	e.Separator()
	for _, typ := range b.pal.Types() {
		if !e.MenuItem("Create " + typ) {
			continue
		}
		n, err := b.CreateNode(typ, e.ScreenToCanvas(e.PopupPosition()))
		if err != nil {
			b.log.Warn("create node failed", zap.String("type", typ), zap.Error(err))
			continue
		}
		b.sess.Select(n, false)
	}
}
