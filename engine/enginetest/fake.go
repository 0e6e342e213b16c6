// Package enginetest provides a scripted layout engine for tests. It records
// every call and lets a test stage drags, deletions, right clicks and menu picks
// before running a frame.
package enginetest

import (
	"fmt"
	"slices"

	"blueprint/engine"
	"blueprint/graph"
)

// Drag is a staged link-creation gesture.
type Drag struct {
	A, B   graph.ID // B may be None while the pointer is over empty canvas
	Commit bool     // the user released over B this frame
}

// RightClick is a staged context-menu request.
type RightClick struct {
	Kind       graph.Kind
	ID         graph.ID
	Background bool
}

// Engine is a scripted engine.Engine.
type Engine struct {
	Calls []string

	// Link creation
	Drag     *Drag
	Accepted int
	Rejected int

	// Deletion
	PendingNodes  []graph.ID
	PendingLinks  []graph.ID
	RefuseDeletes bool

	// Selection pool, in selection order
	selected []graph.ID
	kinds    map[graph.ID]graph.Kind
	changed  bool
	// ExtraSelected inflates SelectedObjectCount beyond the real pool size.
	ExtraSelected int

	// Context menus and popups
	Click       *RightClick
	MousePos    graph.Point
	openPopup   string
	popupPos    graph.Point
	inPopup     bool
	Choose      string
	PopupLines  []string
	Labels      []string
	suspended   bool
	positions   map[graph.ID]graph.Point
	cursor      engine.Cursor
	inFrame     bool
	nodeScope   graph.ID
	Backgrounds []graph.Rect
}

var _ engine.Engine = (*Engine)(nil)

// New creates an idle engine.
func New() *Engine {
	return &Engine{
		kinds:     make(map[graph.ID]graph.Kind),
		positions: make(map[graph.ID]graph.Point),
	}
}

func (e *Engine) record(format string, args ...any) {
	e.Calls = append(e.Calls, fmt.Sprintf(format, args...))
}

// Reset clears the call log.
func (e *Engine) Reset() {
	e.Calls = nil
	e.PopupLines = nil
	e.Labels = nil
	e.Backgrounds = nil
}

// InFrame reports whether Begin was called without a matching End.
func (e *Engine) InFrame() bool {
	return e.inFrame
}

// Layout

func (e *Engine) Begin(name string) {
	e.record("Begin %s", name)
	e.inFrame = true
}

func (e *Engine) End() {
	e.record("End")
	e.inFrame = false
	e.Click = nil
	e.Choose = ""
	e.changed = false
}

func (e *Engine) BeginNode(id graph.ID) {
	e.record("BeginNode %d", id)
	e.nodeScope = id
	e.cursor.Reset(e.positions[id])
	e.cursor.BeginGroup()
}

func (e *Engine) EndNode() {
	e.cursor.EndGroup()
	e.record("EndNode %d", e.nodeScope)
	e.nodeScope = graph.None
}

func (e *Engine) BeginPin(id graph.ID, dir graph.Direction) {
	e.record("BeginPin %d %s", id, dir)
	e.cursor.BeginGroup()
}

func (e *Engine) EndPin() {
	e.cursor.EndGroup()
	e.record("EndPin")
}

func (e *Engine) Link(id, source, target graph.ID) {
	e.record("Link %d %d->%d", id, source, target)
}

// Surface

func (e *Engine) Text(s string) {
	if e.inPopup {
		e.PopupLines = append(e.PopupLines, s)
		return
	}
	e.cursor.Place(len([]rune(s)), 1)
}

func (e *Engine) SameLine()   { e.cursor.SameLine() }
func (e *Engine) BeginGroup() { e.cursor.BeginGroup() }
func (e *Engine) EndGroup()   { e.cursor.EndGroup() }

func (e *Engine) ItemRect() graph.Rect {
	return e.cursor.ItemRect()
}

func (e *Engine) FillBackground(r graph.Rect, hexColor string) {
	e.Backgrounds = append(e.Backgrounds, r)
}

func (e *Engine) ShowLabel(text string, hexColor string) {
	e.Labels = append(e.Labels, text)
}

// Creator

func (e *Engine) BeginCreate() bool {
	e.record("BeginCreate")
	return e.Drag != nil
}

func (e *Engine) QueryNewLink() (graph.ID, graph.ID, bool) {
	if e.Drag == nil || !e.Drag.A.Valid() || !e.Drag.B.Valid() {
		return graph.None, graph.None, false
	}
	return e.Drag.A, e.Drag.B, true
}

func (e *Engine) AcceptNewItem() bool {
	e.record("AcceptNewItem")
	if e.Drag == nil || !e.Drag.Commit {
		return false
	}
	e.Accepted++
	return true
}

func (e *Engine) RejectNewItem() {
	e.record("RejectNewItem")
	e.Rejected++
}

func (e *Engine) EndCreate() {
	e.record("EndCreate")
	if e.Drag != nil && e.Drag.Commit {
		e.Drag = nil
	}
}

// Deleter

func (e *Engine) BeginDelete() bool {
	e.record("BeginDelete")
	return len(e.PendingNodes) > 0 || len(e.PendingLinks) > 0
}

func (e *Engine) QueryDeletedNode() (graph.ID, bool) {
	if len(e.PendingNodes) == 0 {
		return graph.None, false
	}
	id := e.PendingNodes[0]
	e.PendingNodes = e.PendingNodes[1:]
	return id, true
}

func (e *Engine) QueryDeletedLink() (graph.ID, bool) {
	if len(e.PendingLinks) == 0 {
		return graph.None, false
	}
	id := e.PendingLinks[0]
	e.PendingLinks = e.PendingLinks[1:]
	return id, true
}

func (e *Engine) AcceptDeletedItem() bool {
	return !e.RefuseDeletes
}

func (e *Engine) EndDelete() {
	e.record("EndDelete")
	e.PendingNodes = nil
	e.PendingLinks = nil
}

func (e *Engine) DeleteNode(id graph.ID) {
	e.record("DeleteNode %d", id)
	e.PendingNodes = append(e.PendingNodes, id)
}

func (e *Engine) DeleteLink(id graph.ID) {
	e.record("DeleteLink %d", id)
	e.PendingLinks = append(e.PendingLinks, id)
}

// Selector

// Select stages a selection directly, replacing the pool.
func (e *Engine) Select(nodes, links []graph.ID) {
	e.selected = e.selected[:0]
	clear(e.kinds)
	for _, id := range nodes {
		e.selected = append(e.selected, id)
		e.kinds[id] = graph.KindNode
	}
	for _, id := range links {
		e.selected = append(e.selected, id)
		e.kinds[id] = graph.KindLink
	}
	e.changed = true
}

func (e *Engine) SelectedObjectCount() int {
	e.record("SelectedObjectCount")
	return len(e.selected) + e.ExtraSelected
}

func (e *Engine) fill(buf []graph.ID, k graph.Kind) int {
	n := 0
	for _, id := range e.selected {
		if n == len(buf) {
			break
		}
		if e.kinds[id] == k {
			buf[n] = id
			n++
		}
	}
	return n
}

func (e *Engine) SelectedNodes(buf []graph.ID) int {
	return e.fill(buf, graph.KindNode)
}

func (e *Engine) SelectedLinks(buf []graph.ID) int {
	return e.fill(buf, graph.KindLink)
}

func (e *Engine) SelectNode(id graph.ID, appendSelection bool) {
	e.record("SelectNode %d %t", id, appendSelection)
	if !appendSelection {
		e.selected = e.selected[:0]
		clear(e.kinds)
	}
	if !slices.Contains(e.selected, id) {
		e.selected = append(e.selected, id)
	}
	e.kinds[id] = graph.KindNode
	e.changed = true
}

func (e *Engine) DeselectNode(id graph.ID) {
	e.record("DeselectNode %d", id)
	e.selected = slices.DeleteFunc(e.selected, func(x graph.ID) bool { return x == id })
	delete(e.kinds, id)
	e.changed = true
}

func (e *Engine) ClearSelection() {
	e.record("ClearSelection")
	e.selected = e.selected[:0]
	clear(e.kinds)
	e.changed = true
}

func (e *Engine) HasSelectionChanged() bool {
	return e.changed
}

// Navigator

func (e *Engine) Suspend() {
	e.record("Suspend")
	e.suspended = true
}

func (e *Engine) Resume() {
	e.record("Resume")
	e.suspended = false
}

// Suspended reports whether drawing is in screen space.
func (e *Engine) Suspended() bool {
	return e.suspended
}

func (e *Engine) SetNodePosition(id graph.ID, pos graph.Point) {
	e.record("SetNodePosition %d %d,%d", id, pos.X, pos.Y)
	e.positions[id] = pos
}

func (e *Engine) NodePosition(id graph.ID) (graph.Point, bool) {
	p, ok := e.positions[id]
	return p, ok
}

func (e *Engine) ScreenToCanvas(p graph.Point) graph.Point {
	return p
}

func (e *Engine) NavigateToContent()   { e.record("NavigateToContent") }
func (e *Engine) NavigateToSelection() { e.record("NavigateToSelection") }

// ContextMenus

func (e *Engine) ShowNodeContextMenu() (graph.ID, bool) {
	if e.Click != nil && !e.Click.Background && e.Click.Kind == graph.KindNode {
		return e.Click.ID, true
	}
	return graph.None, false
}

func (e *Engine) ShowPinContextMenu() (graph.ID, bool) {
	if e.Click != nil && !e.Click.Background && e.Click.Kind == graph.KindPin {
		return e.Click.ID, true
	}
	return graph.None, false
}

func (e *Engine) ShowLinkContextMenu() (graph.ID, bool) {
	if e.Click != nil && !e.Click.Background && e.Click.Kind == graph.KindLink {
		return e.Click.ID, true
	}
	return graph.None, false
}

func (e *Engine) ShowBackgroundContextMenu() bool {
	return e.Click != nil && e.Click.Background
}

// Popups

func (e *Engine) OpenPopup(name string) {
	e.record("OpenPopup %s", name)
	e.openPopup = name
	e.popupPos = e.MousePos
}

func (e *Engine) PopupPosition() graph.Point {
	return e.popupPos
}

// OpenPopupName returns the name of the open popup, if any.
func (e *Engine) OpenPopupName() string {
	return e.openPopup
}

func (e *Engine) BeginPopup(name string) bool {
	if e.openPopup != name {
		return false
	}
	e.inPopup = true
	return true
}

func (e *Engine) PopupText(s string) {
	e.PopupLines = append(e.PopupLines, s)
}

func (e *Engine) Separator() {
	e.PopupLines = append(e.PopupLines, "---")
}

func (e *Engine) MenuItem(label string) bool {
	e.PopupLines = append(e.PopupLines, "["+label+"]")
	if e.Choose != "" && e.Choose == label {
		e.record("MenuItem %s", label)
		e.openPopup = ""
		return true
	}
	return false
}

func (e *Engine) EndPopup() {
	e.inPopup = false
}
