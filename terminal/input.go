package terminal

import (
	"slices"

	"blueprint/graph"
	"github.com/gdamore/tcell/v2"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragNode
	dragLink
	dragPan
)

type rightClick struct {
	kind       graph.Kind
	id         graph.ID
	background bool
}

// input is mouse state carried between events and the frames that answer them.
type input struct {
	mouse   graph.Point
	buttons tcell.ButtonMask
	drag    dragMode
	last    graph.Point

	linkFrom   graph.ID
	linkHover  graph.ID
	linkCommit bool
	linkMark   int // 1 accepted, -1 rejected this frame

	pendingNodes []graph.ID
	pendingLinks []graph.ID
	popped       graph.ID
	poppedKind   graph.Kind

	click *rightClick
}

func (e *Engine) endInput() {
	e.click = nil
	e.linkMark = 0
}

// Mouse returns the last pointer position in screen space.
func (e *Engine) Mouse() graph.Point {
	return e.mouse
}

// Dragging reports whether a link drag is in progress.
func (e *Engine) Dragging() bool {
	return e.linkFrom.Valid()
}

type hitKind int

const (
	hitNone hitKind = iota
	hitPin
	hitNode
	hitLink
)

// hit finds what lies under a screen position, as of the last drawn frame.
// Pins win over nodes; nodes drawn later win over earlier ones.
func (e *Engine) hit(p graph.Point) (hitKind, graph.ID) {
	if !e.viewport.Contains(p) {
		return hitNone, graph.None
	}
	cp := e.ScreenToCanvas(p)
	l := e.prev
	for i := len(l.nodes) - 1; i >= 0; i-- {
		n := l.nodes[i]
		if !n.rect.Contains(cp) {
			continue
		}
		for _, t := range n.texts {
			if !t.pin.Valid() {
				continue
			}
			pb := l.pins[t.pin]
			row := graph.Rect{
				Min: graph.Point{X: n.rect.Min.X, Y: pb.rect.Min.Y},
				Max: graph.Point{X: n.rect.Max.X, Y: pb.rect.Min.Y + 1},
			}
			// the half of the row on the pin's side of the node
			mid := (n.rect.Min.X + n.rect.Max.X) / 2
			if pb.dir == graph.Input {
				row.Max.X = mid
			} else {
				row.Min.X = mid
			}
			if row.Contains(cp) {
				return hitPin, t.pin
			}
		}
		return hitNode, n.id
	}
	for _, lk := range slices.Backward(l.links) {
		if slices.Contains(l.route[lk.id], cp) {
			return hitLink, lk.id
		}
	}
	return hitNone, graph.None
}

// HandleEvent feeds one terminal event to the engine. It reports whether the
// event was consumed.
func (e *Engine) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		return e.handleMouse(ev)
	case *tcell.EventKey:
		return e.popup.handleKey(ev)
	case *tcell.EventResize:
		w, h := e.screen.Size()
		if e.viewport.Empty() || e.viewport.Max.X > w || e.viewport.Max.Y > h {
			e.viewport = graph.Rect{Max: graph.Point{X: w, Y: h}}
		}
	}
	return false
}

func (e *Engine) handleMouse(ev *tcell.EventMouse) bool {
	x, y := ev.Position()
	p := graph.Point{X: x, Y: y}
	btn := ev.Buttons()
	pressed := btn &^ e.buttons
	released := e.buttons &^ btn
	ctrl := ev.Modifiers()&tcell.ModCtrl != 0

	e.mouse = p
	e.buttons = btn

	if e.popup.open != "" && pressed != 0 {
		if e.popup.rect.Contains(p) {
			if pressed&tcell.Button1 != 0 {
				e.popup.clickRow(p.Y - e.popup.rect.Min.Y - 1)
			}
			return true
		}
		e.popup.close()
		if pressed&tcell.Button2 == 0 {
			return true
		}
	}

	switch {
	case pressed&tcell.Button1 != 0:
		e.press(p, ctrl)
	case btn&tcell.Button1 != 0:
		e.motion(p)
	case released&tcell.Button1 != 0:
		e.release()
	}
	if pressed&tcell.Button2 != 0 {
		kind, id := e.hit(p)
		switch kind {
		case hitNode:
			e.click = &rightClick{kind: graph.KindNode, id: id}
		case hitPin:
			e.click = &rightClick{kind: graph.KindPin, id: id}
		case hitLink:
			e.click = &rightClick{kind: graph.KindLink, id: id}
		default:
			if e.viewport.Contains(p) {
				e.click = &rightClick{background: true}
			}
		}
	}
	e.last = p
	return e.viewport.Contains(p)
}

func (e *Engine) press(p graph.Point, ctrl bool) {
	kind, id := e.hit(p)
	switch kind {
	case hitPin:
		e.drag = dragLink
		e.linkFrom = id
		e.linkHover = graph.None
		e.linkCommit = false
	case hitNode:
		switch {
		case ctrl:
			e.sel.toggle(id, graph.KindNode)
		case !e.sel.has(id):
			e.sel.add(id, graph.KindNode, false)
		}
		e.drag = dragNode
	case hitLink:
		if ctrl {
			e.sel.toggle(id, graph.KindLink)
		} else {
			e.sel.add(id, graph.KindLink, false)
		}
		e.drag = dragNone
	default:
		if !e.viewport.Contains(p) {
			return
		}
		if !ctrl {
			e.sel.clear()
		}
		e.drag = dragPan
	}
}

func (e *Engine) motion(p graph.Point) {
	d := p.Sub(e.last)
	switch e.drag {
	case dragNode:
		for _, id := range e.sel.ids(graph.KindNode) {
			if pos, ok := e.positions[id]; ok {
				e.positions[id] = pos.Add(d)
			}
		}
	case dragPan:
		e.offset = e.offset.Sub(d)
	case dragLink:
		e.linkHover = graph.None
		if kind, id := e.hit(p); kind == hitPin && id != e.linkFrom {
			e.linkHover = id
		}
	}
}

func (e *Engine) release() {
	if e.drag == dragLink {
		if e.linkHover.Valid() {
			e.linkCommit = true
		} else {
			e.cancelLink()
		}
	}
	e.drag = dragNone
}

func (e *Engine) cancelLink() {
	e.linkFrom = graph.None
	e.linkHover = graph.None
	e.linkCommit = false
}

// BeginCreate reports whether a link drag is in progress.
func (e *Engine) BeginCreate() bool {
	return e.linkFrom.Valid()
}

// QueryNewLink returns the pin the drag started on and the pin under the pointer.
func (e *Engine) QueryNewLink() (graph.ID, graph.ID, bool) {
	return e.linkFrom, e.linkHover, e.linkFrom.Valid() && e.linkHover.Valid()
}

// AcceptNewItem marks the candidate valid and reports whether the button was released on it.
func (e *Engine) AcceptNewItem() bool {
	e.linkMark = 1
	return e.linkCommit
}

// RejectNewItem marks the candidate invalid.
func (e *Engine) RejectNewItem() {
	e.linkMark = -1
}

// EndCreate finishes a released drag whatever the answer was.
func (e *Engine) EndCreate() {
	if e.linkCommit {
		e.cancelLink()
	}
}

// DeleteNode queues a node for deletion.
func (e *Engine) DeleteNode(id graph.ID) {
	if !slices.Contains(e.pendingNodes, id) {
		e.pendingNodes = append(e.pendingNodes, id)
	}
}

// DeleteLink queues a link for deletion.
func (e *Engine) DeleteLink(id graph.ID) {
	if !slices.Contains(e.pendingLinks, id) {
		e.pendingLinks = append(e.pendingLinks, id)
	}
}

// BeginDelete reports whether anything is queued.
func (e *Engine) BeginDelete() bool {
	return len(e.pendingNodes) > 0 || len(e.pendingLinks) > 0
}

// QueryDeletedNode pops the next queued node.
func (e *Engine) QueryDeletedNode() (graph.ID, bool) {
	if len(e.pendingNodes) == 0 {
		return graph.None, false
	}
	e.popped, e.poppedKind = e.pendingNodes[0], graph.KindNode
	e.pendingNodes = e.pendingNodes[1:]
	return e.popped, true
}

// QueryDeletedLink pops the next queued link.
func (e *Engine) QueryDeletedLink() (graph.ID, bool) {
	if len(e.pendingLinks) == 0 {
		return graph.None, false
	}
	e.popped, e.poppedKind = e.pendingLinks[0], graph.KindLink
	e.pendingLinks = e.pendingLinks[1:]
	return e.popped, true
}

// AcceptDeletedItem forgets the popped item's selection and position.
func (e *Engine) AcceptDeletedItem() bool {
	if !e.popped.Valid() {
		return false
	}
	e.sel.remove(e.popped)
	if e.poppedKind == graph.KindNode {
		delete(e.positions, e.popped)
	}
	e.popped = graph.None
	return true
}

// EndDelete drops anything still queued.
func (e *Engine) EndDelete() {
	e.pendingNodes = nil
	e.pendingLinks = nil
	e.popped = graph.None
}

// ShowNodeContextMenu reports a right click on a node this frame.
func (e *Engine) ShowNodeContextMenu() (graph.ID, bool) {
	return e.clicked(graph.KindNode)
}

// ShowPinContextMenu reports a right click on a pin this frame.
func (e *Engine) ShowPinContextMenu() (graph.ID, bool) {
	return e.clicked(graph.KindPin)
}

// ShowLinkContextMenu reports a right click on a link this frame.
func (e *Engine) ShowLinkContextMenu() (graph.ID, bool) {
	return e.clicked(graph.KindLink)
}

// ShowBackgroundContextMenu reports a right click on empty canvas this frame.
func (e *Engine) ShowBackgroundContextMenu() bool {
	return e.click != nil && e.click.background
}

func (e *Engine) clicked(k graph.Kind) (graph.ID, bool) {
	if e.click == nil || e.click.background || e.click.kind != k {
		return graph.None, false
	}
	return e.click.id, true
}
