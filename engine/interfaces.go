// Package engine defines the contract between the editor and the retained
// layout engine that positions, draws and hit-tests the graph canvas.
//
// The engine only knows objects by graph.ID. Every call is immediate-mode and
// must be issued between Begin and End on the UI goroutine.
package engine

import "blueprint/graph"

// Layout opens and closes the per-frame pass and the node, pin and link scopes.
type Layout interface {
	// Begin starts a layout pass for the named canvas.
	Begin(name string)
	// End finishes the pass and flushes drawing.
	End()

	// BeginNode opens the visual scope of a node.
	BeginNode(id graph.ID)
	// EndNode closes the node scope. ItemRect reports the whole node afterwards.
	EndNode()

	// BeginPin opens the visual scope of a pin on the current node.
	BeginPin(id graph.ID, dir graph.Direction)
	// EndPin closes the pin scope.
	EndPin()

	// Link draws a connector between two pins.
	Link(id, source, target graph.ID)
}

// Surface is the drawing primitive used inside node scopes.
type Surface interface {
	// Text draws a line of text at the cursor and advances to the next line.
	Text(s string)
	// SameLine places the next item to the right of the previous one.
	SameLine()
	// BeginGroup starts collecting items into one region.
	BeginGroup()
	// EndGroup closes the region; it becomes the last item.
	EndGroup()
	// ItemRect returns the extent of the last completed item.
	ItemRect() graph.Rect
	// FillBackground tints the cells of r without touching their text.
	FillBackground(r graph.Rect, hexColor string)
	// ShowLabel draws a transient label next to the pointer.
	ShowLabel(text string, hexColor string)
}

// Creator reports link-creation gestures.
type Creator interface {
	// BeginCreate reports whether a link drag is in progress.
	BeginCreate() bool
	// QueryNewLink returns the pins under the drag, in drag order.
	QueryNewLink() (a, b graph.ID, ok bool)
	// AcceptNewItem marks the candidate valid and reports whether the user committed it.
	AcceptNewItem() bool
	// RejectNewItem marks the candidate invalid.
	RejectNewItem()
	// EndCreate closes the query.
	EndCreate()
}

// Deleter reports objects the user wants deleted.
type Deleter interface {
	// BeginDelete reports whether any deletions are pending.
	BeginDelete() bool
	// QueryDeletedNode pops the next node pending deletion.
	QueryDeletedNode() (graph.ID, bool)
	// QueryDeletedLink pops the next link pending deletion.
	QueryDeletedLink() (graph.ID, bool)
	// AcceptDeletedItem confirms removal of the item last popped.
	AcceptDeletedItem() bool
	// EndDelete closes the query and drops anything not accepted.
	EndDelete()

	// DeleteNode queues a node for the next deletion query.
	DeleteNode(id graph.ID)
	// DeleteLink queues a link for the next deletion query.
	DeleteLink(id graph.ID)
}

// Selector exposes the engine's selection pool. Nodes and links share one pool.
type Selector interface {
	// SelectedObjectCount returns the total number of selected nodes and links.
	SelectedObjectCount() int
	// SelectedNodes fills buf with selected node ids and returns how many were written.
	SelectedNodes(buf []graph.ID) int
	// SelectedLinks fills buf with selected link ids and returns how many were written.
	SelectedLinks(buf []graph.ID) int
	SelectNode(id graph.ID, appendSelection bool)
	DeselectNode(id graph.ID)
	ClearSelection()
	// HasSelectionChanged reports whether the selection changed since the last frame.
	HasSelectionChanged() bool
}

// Navigator moves the canvas and the nodes on it.
type Navigator interface {
	// Suspend switches drawing to screen space until Resume.
	Suspend()
	// Resume switches drawing back to graph space.
	Resume()
	SetNodePosition(id graph.ID, pos graph.Point)
	NodePosition(id graph.ID) (graph.Point, bool)
	// ScreenToCanvas converts a screen position to graph space.
	ScreenToCanvas(p graph.Point) graph.Point
	NavigateToContent()
	NavigateToSelection()
}

// ContextMenus reports which object, if any, was right-clicked this frame.
// At most one of the four reports true per frame.
type ContextMenus interface {
	ShowNodeContextMenu() (graph.ID, bool)
	ShowPinContextMenu() (graph.ID, bool)
	ShowLinkContextMenu() (graph.ID, bool)
	ShowBackgroundContextMenu() bool
}

// Popups draws screen-space menus. Open popups persist across frames until an
// item is chosen or the user dismisses them.
type Popups interface {
	OpenPopup(name string)
	// PopupPosition returns where the popup was opened, in screen space.
	PopupPosition() graph.Point
	// BeginPopup reports whether the named popup is open; if so it must be closed with EndPopup.
	BeginPopup(name string) bool
	PopupText(s string)
	Separator()
	// MenuItem draws a choice and reports whether it was picked this frame.
	MenuItem(label string) bool
	EndPopup()
}

// Engine is the full layout engine contract.
type Engine interface {
	Layout
	Surface
	Creator
	Deleter
	Selector
	Navigator
	ContextMenus
	Popups
}
