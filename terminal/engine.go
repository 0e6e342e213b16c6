// Package terminal implements the layout engine on a tcell screen and runs the
// interactive editor loop around it.
package terminal

import (
	"slices"

	"blueprint/engine"
	"blueprint/graph"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
)

var _ engine.Engine = (*Engine)(nil)

// Node placement for nodes that were never positioned.
const (
	autoColumns = 4
	autoStepX   = 26
	autoStepY   = 8
)

type textItem struct {
	at    graph.Point
	text  string
	pin   graph.ID
	right bool // right-align to the content edge
}

type nodeBox struct {
	id    graph.ID
	rect  graph.Rect // frame, canvas space
	texts []textItem
}

type pinBox struct {
	node graph.ID
	dir  graph.Direction
	rect graph.Rect
}

type linkItem struct {
	id, source, target graph.ID
}

type fill struct {
	rect   graph.Rect
	color  string
	screen bool
}

// layout is everything one frame placed on the canvas. Hit testing runs
// against the previous frame's layout.
type layout struct {
	nodes []*nodeBox
	byID  map[graph.ID]*nodeBox
	pins  map[graph.ID]pinBox
	links []linkItem
	route map[graph.ID][]graph.Point
	fills []fill
	label *fill
	text  string
}

func newLayout() *layout {
	return &layout{
		byID:  make(map[graph.ID]*nodeBox),
		pins:  make(map[graph.ID]pinBox),
		route: make(map[graph.ID][]graph.Point),
	}
}

type pinScope struct {
	id  graph.ID
	dir graph.Direction
}

// Engine draws the node graph on a tcell screen.
//
// Canvas coordinates map to the screen through the viewport origin and the pan
// offset. All methods must be called from the UI goroutine.
type Engine struct {
	screen tcell.Screen
	glyphs Glyphs
	log    *zap.Logger

	viewport graph.Rect
	offset   graph.Point

	positions map[graph.ID]graph.Point
	placed    int

	name      string
	inFrame   bool
	suspended bool
	cursor    engine.Cursor
	node      *nodeBox
	pin       *pinScope
	cur       *layout
	prev      *layout

	input
	sel   selection
	popup popupState
}

// Option configures an Engine.
type Option func(*Engine)

// WithGlyphs selects the drawing character set.
func WithGlyphs(g Glyphs) Option {
	return func(e *Engine) { e.glyphs = g }
}

// WithEngineLogger sets the logger.
func WithEngineLogger(log *zap.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// NewEngine creates an engine drawing on screen. The viewport defaults to the
// whole screen.
func NewEngine(screen tcell.Screen, opts ...Option) *Engine {
	w, h := screen.Size()
	e := &Engine{
		screen:    screen,
		glyphs:    RoundedGlyphs,
		log:       zap.NewNop(),
		viewport:  graph.Rect{Max: graph.Point{X: w, Y: h}},
		positions: make(map[graph.ID]graph.Point),
		cur:       newLayout(),
		prev:      newLayout(),
		popup:     popupState{hot: -1, choice: -1},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetViewport sets the screen area the canvas is drawn into.
func (e *Engine) SetViewport(r graph.Rect) {
	e.viewport = r
}

// Viewport returns the canvas area of the screen.
func (e *Engine) Viewport() graph.Rect {
	return e.viewport
}

// Pan moves the canvas by d cells.
func (e *Engine) Pan(d graph.Point) {
	e.offset = e.offset.Add(d)
}

// Offset returns the pan offset.
func (e *Engine) Offset() graph.Point {
	return e.offset
}

func (e *Engine) toScreen(p graph.Point) graph.Point {
	return p.Sub(e.offset).Add(e.viewport.Min)
}

// ScreenToCanvas converts a screen position to graph space.
func (e *Engine) ScreenToCanvas(p graph.Point) graph.Point {
	return p.Sub(e.viewport.Min).Add(e.offset)
}

// Begin starts a layout pass.
func (e *Engine) Begin(name string) {
	e.name = name
	e.inFrame = true
	e.suspended = false
	e.cur = newLayout()
	e.sel.beginFrame()
}

// BeginNode opens a node scope. Nodes without a position are placed on a grid.
func (e *Engine) BeginNode(id graph.ID) {
	pos, ok := e.positions[id]
	if !ok {
		pos = graph.Point{
			X: 2 + (e.placed%autoColumns)*autoStepX,
			Y: 1 + (e.placed/autoColumns)*autoStepY,
		}
		e.placed++
		e.positions[id] = pos
	}
	e.node = &nodeBox{id: id}
	e.cursor.Reset(pos.Add(graph.Point{X: 1, Y: 1}))
	e.cursor.BeginGroup()
}

// EndNode frames the content. The node rect includes the frame.
func (e *Engine) EndNode() {
	if e.node == nil {
		return
	}
	c := e.cursor.EndGroup()
	pos := e.positions[e.node.id]
	frame := graph.Rect{
		Min: pos,
		Max: graph.Point{X: max(c.Max.X, pos.X+1) + 1, Y: max(c.Max.Y, pos.Y+1) + 1},
	}
	for i, t := range e.node.texts {
		if t.right {
			e.node.texts[i].at.X = frame.Max.X - 1 - runewidth.StringWidth(t.text)
		}
	}
	for id, p := range e.cur.pins {
		if p.node == e.node.id && p.dir == graph.Output {
			p.rect.Max.X = frame.Max.X - 1
			e.cur.pins[id] = p
		}
	}
	e.node.rect = frame
	e.cur.nodes = append(e.cur.nodes, e.node)
	e.cur.byID[e.node.id] = e.node
	e.cursor.SetItemRect(frame)
	e.node = nil
}

// BeginPin opens a pin scope inside the current node.
func (e *Engine) BeginPin(id graph.ID, dir graph.Direction) {
	e.pin = &pinScope{id: id, dir: dir}
	e.cursor.BeginGroup()
}

// EndPin closes the pin scope.
func (e *Engine) EndPin() {
	r := e.cursor.EndGroup()
	if e.pin != nil && e.node != nil {
		e.cur.pins[e.pin.id] = pinBox{node: e.node.id, dir: e.pin.dir, rect: r}
	}
	e.pin = nil
}

// Link records a connector; it is routed when the frame ends.
func (e *Engine) Link(id, source, target graph.ID) {
	e.cur.links = append(e.cur.links, linkItem{id: id, source: source, target: target})
}

// Text places one line. Inside a pin the port marker is added on the frame side.
func (e *Engine) Text(s string) {
	item := textItem{text: s}
	if e.pin != nil {
		item.pin = e.pin.id
		if e.pin.dir == graph.Input {
			item.text = string(e.glyphs.Marker) + " " + s
		} else {
			item.text = s + " " + string(e.glyphs.Marker)
			item.right = true
		}
	}
	r := e.cursor.Place(runewidth.StringWidth(item.text), 1)
	item.at = r.Min
	if e.node != nil {
		e.node.texts = append(e.node.texts, item)
	}
}

// SameLine places the next item beside the previous one.
func (e *Engine) SameLine() { e.cursor.SameLine() }

// BeginGroup starts a group.
func (e *Engine) BeginGroup() { e.cursor.BeginGroup() }

// EndGroup closes a group.
func (e *Engine) EndGroup() { e.cursor.EndGroup() }

// ItemRect returns the last item's extent in canvas space.
func (e *Engine) ItemRect() graph.Rect {
	return e.cursor.ItemRect()
}

// FillBackground tints r when the frame is drawn.
func (e *Engine) FillBackground(r graph.Rect, hexColor string) {
	e.cur.fills = append(e.cur.fills, fill{rect: r, color: hexColor, screen: e.suspended})
}

// ShowLabel draws text beside the pointer this frame.
func (e *Engine) ShowLabel(text string, hexColor string) {
	at := e.mouse.Add(graph.Point{X: 2, Y: 1})
	e.cur.label = &fill{rect: graph.RectAt(at, runewidth.StringWidth(text)+2, 1), color: hexColor, screen: true}
	e.cur.text = text
}

// Suspend switches to screen space.
func (e *Engine) Suspend() { e.suspended = true }

// Resume switches back to canvas space.
func (e *Engine) Resume() { e.suspended = false }

// SetNodePosition moves a node's top-left corner in canvas space.
func (e *Engine) SetNodePosition(id graph.ID, pos graph.Point) {
	e.positions[id] = pos
}

// NodePosition returns a node's top-left corner in canvas space.
func (e *Engine) NodePosition(id graph.ID) (graph.Point, bool) {
	p, ok := e.positions[id]
	return p, ok
}

// NodeRect returns the frame of a node as of the last drawn frame.
func (e *Engine) NodeRect(id graph.ID) (graph.Rect, bool) {
	n, ok := e.prev.byID[id]
	if !ok {
		return graph.Rect{}, false
	}
	return n.rect, true
}

// NavigateToContent pans so every node is in view.
func (e *Engine) NavigateToContent() {
	var ids []graph.ID
	for _, n := range e.prev.nodes {
		ids = append(ids, n.id)
	}
	e.navigateTo(ids)
}

// NavigateToSelection pans so the selected nodes are in view.
func (e *Engine) NavigateToSelection() {
	e.navigateTo(e.sel.ids(graph.KindNode))
}

func (e *Engine) navigateTo(ids []graph.ID) {
	var r graph.Rect
	for _, id := range ids {
		if n, ok := e.prev.byID[id]; ok {
			r = r.Union(n.rect)
		}
	}
	if r.Empty() {
		return
	}
	e.offset = r.Min.Sub(graph.Point{X: 1, Y: 1})
}

// End routes links, draws the frame into the screen buffer and settles input
// consumed this frame. The caller shows the screen.
func (e *Engine) End() {
	e.inFrame = false
	e.routeLinks()
	e.draw()
	e.sel.prune(func(id graph.ID, k graph.Kind) bool {
		if k == graph.KindNode {
			_, ok := e.cur.byID[id]
			return ok
		}
		return slices.ContainsFunc(e.cur.links, func(l linkItem) bool { return l.id == id })
	})
	e.endInput()
	e.popup.endFrame()
	e.prev = e.cur
}
