// Package bridge drives the layout engine from the session once per frame and
// feeds the engine's answers (new links, deletions, menu picks) back into the
// session.
package bridge

import (
	"fmt"
	"time"

	"blueprint/engine"
	"blueprint/graph"
	"blueprint/palette"
	"blueprint/session"
	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
)

// DefaultCanvas is the layout pass name.
const DefaultCanvas = "Blueprint"

// touchColor is the header tint of a freshly touched node.
const touchColor = "#ffd54f"

// Stats are running counters for the info panel.
type Stats struct {
	Frames           int
	SelectionChanges int
}

// Bridge renders one session through one engine.
type Bridge struct {
	sess *session.Session
	eng  engine.Engine
	pal  *palette.Palette
	log  *zap.Logger
	name string

	ShowOrdinals bool

	gesture LinkGesture
	menu    graph.ID
	last    *session.Frame
	stats   Stats
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger.
func WithLogger(log *zap.Logger) Option {
	return func(b *Bridge) {
		if log != nil {
			b.log = log
		}
	}
}

// WithCanvas names the layout pass.
func WithCanvas(name string) Option {
	return func(b *Bridge) { b.name = name }
}

// WithOrdinals shows node display names in headers.
func WithOrdinals(show bool) Option {
	return func(b *Bridge) { b.ShowOrdinals = show }
}

// New creates a bridge. A nil palette means the built-in one.
func New(sess *session.Session, eng engine.Engine, pal *palette.Palette, opts ...Option) *Bridge {
	if pal == nil {
		pal = palette.Builtin()
	}
	b := &Bridge{
		sess: sess,
		eng:  eng,
		pal:  pal,
		log:  zap.NewNop(),
		name: DefaultCanvas,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Session returns the session being rendered.
func (b *Bridge) Session() *session.Session {
	return b.sess
}

// Engine returns the layout engine.
func (b *Bridge) Engine() engine.Engine {
	return b.eng
}

// Palette returns the palette used by the create menu.
func (b *Bridge) Palette() *palette.Palette {
	return b.pal
}

// SetPalette swaps the palette. Existing nodes are unaffected.
func (b *Bridge) SetPalette(p *palette.Palette) {
	if p != nil {
		b.pal = p
	}
}

// Stats returns the running counters.
func (b *Bridge) Stats() Stats {
	return b.stats
}

// LastFrame returns the scope of the most recent frame, or nil before the first.
func (b *Bridge) LastFrame() *session.Frame {
	return b.last
}

// Frame runs one full pass: draw nodes and links, answer the creation and
// deletion queries, then draw context menus in screen space.
func (b *Bridge) Frame(dt time.Duration) *session.Frame {
	b.eng.Begin(b.name)

	f := b.sess.BeginFrame(dt)
	for _, n := range b.sess.Nodes() {
		b.renderNode(n)
	}
	for _, l := range b.sess.Links() {
		b.renderLink(l)
	}
	b.handleCreate()
	b.handleDelete()

	b.eng.Suspend()
	b.contextMenus()
	b.eng.Resume()

	b.eng.End()

	b.stats.Frames++
	if f.Changed() {
		b.stats.SelectionChanges++
	}
	b.last = f
	return f
}

// CreateNode stamps a node of the given type at pos in graph space.
func (b *Bridge) CreateNode(typ string, pos graph.Point) (*graph.Node, error) {
	desc, err := b.pal.Lookup(typ)
	if err != nil {
		return nil, err
	}
	n := b.sess.CreateNode(desc)
	b.eng.SetNodePosition(n.ID, pos)
	b.sess.TouchNode(n)
	b.log.Debug("node created", zap.Int64("node", int64(n.ID)), zap.String("type", typ))
	return n, nil
}

// Header returns the header text for n.
func (b *Bridge) Header(n *graph.Node) string {
	if b.ShowOrdinals {
		return fmt.Sprintf("%s (%s)", n.Label, n.Name())
	}
	return n.Label
}

func (b *Bridge) renderNode(n *graph.Node) {
	e := b.eng
	e.BeginNode(n.ID)

	e.BeginGroup()
	e.Text(b.Header(n))
	e.EndGroup()
	n.Bounds.Set(graph.SectionHeader, e.ItemRect())

	e.BeginGroup()
	{
		e.BeginGroup()
		for _, p := range n.Inputs {
			b.renderPin(p)
		}
		e.EndGroup()
		n.Bounds.Set(graph.SectionInputs, e.ItemRect())

		e.SameLine()
		e.BeginGroup()
		for _, prop := range n.Props.Entries() {
			e.Text(prop.Key + ": " + graph.FormatValue(prop.Value))
		}
		e.EndGroup()
		n.Bounds.Set(graph.SectionMiddle, e.ItemRect())

		e.SameLine()
		e.BeginGroup()
		for _, p := range n.Outputs {
			b.renderPin(p)
		}
		e.EndGroup()
		n.Bounds.Set(graph.SectionOutputs, e.ItemRect())
	}
	e.EndGroup()
	n.Bounds.Set(graph.SectionContent, e.ItemRect())

	e.EndNode()
	n.Bounds.Set(graph.SectionNode, e.ItemRect())

	e.FillBackground(n.Bounds.Get(graph.SectionHeader), b.headerColor(n))
}

func (b *Bridge) renderPin(p *graph.Pin) {
	b.eng.BeginPin(p.ID, p.Direction)
	b.eng.Text(p.Label)
	b.eng.EndPin()
}

func (b *Bridge) renderLink(l *graph.Link) {
	b.eng.Link(l.ID, l.Source.ID, l.Target.ID)
}

// headerColor blends the node colour toward the touch colour while the
// highlight decays.
func (b *Bridge) headerColor(n *graph.Node) string {
	if !b.sess.Touched(n) {
		return n.Color
	}
	hex := n.Color
	if len(hex) == 9 {
		hex = hex[:7]
	}
	base, err := colorful.Hex(hex)
	if err != nil {
		return n.Color
	}
	hi, _ := colorful.Hex(touchColor)
	return hi.BlendLab(base, b.sess.TouchProgress(n)).Clamped().Hex()
}

// SaveSelected snapshots the property bag of every node selected last frame.
func (b *Bridge) SaveSelected() int {
	if b.last == nil {
		return 0
	}
	nodes := b.last.Nodes()
	for _, n := range nodes {
		n.SaveState()
		b.sess.TouchNode(n)
	}
	return len(nodes)
}

// RestoreSelected restores every selected node that has a snapshot.
func (b *Bridge) RestoreSelected() int {
	if b.last == nil {
		return 0
	}
	count := 0
	for _, n := range b.last.Nodes() {
		if n.RestoreState() {
			b.sess.TouchNode(n)
			count++
		}
	}
	return count
}

// DeleteSelected queues every node and link selected last frame for deletion.
func (b *Bridge) DeleteSelected() {
	if b.last == nil {
		return
	}
	for _, id := range b.last.NodeIDs() {
		b.eng.DeleteNode(id)
	}
	for _, id := range b.last.LinkIDs() {
		b.eng.DeleteLink(id)
	}
}
