// Package session is the editor's aggregate root. It owns every node, pin and
// link in the graph, indexes them by identifier for the layout engine and keeps
// the per-frame selection and touch highlight state.
//
// A Session is not safe for concurrent use; it lives on the UI loop.
package session

import (
	"slices"
	"time"

	"blueprint/engine"
	"blueprint/graph"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTouchDuration is how long a touched node stays highlighted.
const DefaultTouchDuration = time.Second

// Controller is the part of the layout engine the session drives directly.
type Controller interface {
	engine.Selector
	NavigateToSelection()
}

// Session owns the live graph.
type Session struct {
	id  uuid.UUID
	log *zap.Logger
	eng Controller
	reg *graph.Registry

	objects map[graph.ID]graph.Object
	nodes   []*graph.Node
	links   []*graph.Link

	touch         map[graph.ID]time.Duration
	touchDuration time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Session) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRegistry shares an identity registry with the caller.
func WithRegistry(reg *graph.Registry) Option {
	return func(s *Session) {
		if reg != nil {
			s.reg = reg
		}
	}
}

// WithTouchDuration overrides DefaultTouchDuration. Non-positive values are ignored.
func WithTouchDuration(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.touchDuration = d
		}
	}
}

// New creates an empty session bound to eng.
func New(eng Controller, opts ...Option) *Session {
	s := &Session{
		id:            uuid.New(),
		log:           zap.NewNop(),
		eng:           eng,
		reg:           graph.NewRegistry(),
		objects:       make(map[graph.ID]graph.Object),
		touch:         make(map[graph.ID]time.Duration),
		touchDuration: DefaultTouchDuration,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("session", s.id.String()))
	return s
}

// ID returns the session identity used in log fields.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Registry returns the registry new objects should draw identifiers from.
func (s *Session) Registry() *graph.Registry {
	return s.reg
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *zap.Logger {
	return s.log
}

// TouchDuration returns the configured highlight duration.
func (s *Session) TouchDuration() time.Duration {
	return s.touchDuration
}

func (s *Session) duplicate(id graph.ID, kind graph.Kind) {
	s.log.Warn("object already registered", zap.Int64("id", int64(id)), zap.Stringer("kind", kind))
}

// CreateNode stamps a node from desc and adds it.
func (s *Session) CreateNode(desc graph.NodeDesc) *graph.Node {
	n := graph.NewNode(s.reg, desc)
	s.AddNode(n)
	return n
}

// AddNode registers n and all of its pins. It is a logged no-op if the node or
// any of its pins is already registered.
func (s *Session) AddNode(n *graph.Node) bool {
	if n == nil {
		return false
	}
	if _, ok := s.objects[n.ID]; ok {
		s.duplicate(n.ID, graph.KindNode)
		return false
	}
	for _, p := range n.Pins() {
		if _, ok := s.objects[p.ID]; ok {
			s.duplicate(p.ID, graph.KindPin)
			return false
		}
	}
	s.nodes = append(s.nodes, n)
	s.objects[n.ID] = graph.WrapNode(n)
	for _, p := range n.Pins() {
		s.objects[p.ID] = graph.WrapPin(p)
	}
	return true
}

// AddPin maps p. Its node must already be registered; if the node does not list
// the pin yet it is appended to the list matching the pin's direction.
func (s *Session) AddPin(p *graph.Pin) bool {
	if p == nil || p.Node == nil {
		return false
	}
	if _, ok := s.objects[p.ID]; ok {
		s.duplicate(p.ID, graph.KindPin)
		return false
	}
	n, ok := s.FindNode(p.Node.ID)
	if !ok || n != p.Node {
		s.log.Warn("pin owner not registered", zap.Int64("id", int64(p.ID)), zap.Int64("node", int64(p.Node.ID)))
		return false
	}
	if !n.HasPin(p) {
		if p.Direction == graph.Output {
			n.Outputs = append(n.Outputs, p)
		} else {
			n.Inputs = append(n.Inputs, p)
		}
	}
	s.objects[p.ID] = graph.WrapPin(p)
	return true
}

// AddLink registers l. Both endpoints must be registered pins.
func (s *Session) AddLink(l *graph.Link) bool {
	if l == nil || l.Source == nil || l.Target == nil {
		return false
	}
	if _, ok := s.objects[l.ID]; ok {
		s.duplicate(l.ID, graph.KindLink)
		return false
	}
	for _, p := range []*graph.Pin{l.Source, l.Target} {
		if q, ok := s.FindPin(p.ID); !ok || q != p {
			s.log.Warn("link endpoint not registered",
				zap.Int64("id", int64(l.ID)), zap.Int64("pin", int64(p.ID)))
			return false
		}
	}
	s.links = append(s.links, l)
	s.objects[l.ID] = graph.WrapLink(l)
	return true
}

// RemoveLink unlists and unmaps l.
func (s *Session) RemoveLink(l *graph.Link) bool {
	if l == nil {
		return false
	}
	if _, ok := s.FindLink(l.ID); !ok {
		return false
	}
	s.links = slices.DeleteFunc(s.links, func(x *graph.Link) bool { return x.ID == l.ID })
	delete(s.objects, l.ID)
	return true
}

// RemovePin removes every link touching p, detaches p from its node and unmaps it.
func (s *Session) RemovePin(p *graph.Pin) bool {
	if p == nil {
		return false
	}
	if _, ok := s.FindPin(p.ID); !ok {
		return false
	}
	for _, l := range s.linksWhere(func(l *graph.Link) bool { return l.Touches(p) }) {
		s.RemoveLink(l)
	}
	p.Node.DetachPin(p)
	delete(s.objects, p.ID)
	return true
}

// RemoveNode removes every link touching the node, then its pins, then the node.
func (s *Session) RemoveNode(n *graph.Node) bool {
	if n == nil {
		return false
	}
	if _, ok := s.FindNode(n.ID); !ok {
		return false
	}
	for _, l := range s.linksWhere(func(l *graph.Link) bool { return l.TouchesNode(n) }) {
		s.RemoveLink(l)
	}
	for _, p := range n.Pins() {
		delete(s.objects, p.ID)
	}
	s.nodes = slices.DeleteFunc(s.nodes, func(x *graph.Node) bool { return x.ID == n.ID })
	delete(s.objects, n.ID)
	delete(s.touch, n.ID)
	return true
}

// PinLinks returns the links attached to p.
func (s *Session) PinLinks(p *graph.Pin) []*graph.Link {
	return s.linksWhere(func(l *graph.Link) bool { return l.Touches(p) })
}

func (s *Session) linksWhere(match func(*graph.Link) bool) []*graph.Link {
	var out []*graph.Link
	for _, l := range s.links {
		if match(l) {
			out = append(out, l)
		}
	}
	return out
}

// Connect builds a link from source to target and registers it. It does not
// check CanConnect.
func (s *Session) Connect(source, target *graph.Pin) (*graph.Link, bool) {
	l := source.ConnectTo(s.reg, target)
	if !s.AddLink(l) {
		return nil, false
	}
	return l, true
}

// CanConnect reports whether a link between a and b is allowed. Pins on the
// same node never connect.
func (s *Session) CanConnect(a, b *graph.Pin) bool {
	if a == nil || b == nil {
		return false
	}
	return !a.SameNode(b)
}

// Lookup resolves any identifier.
func (s *Session) Lookup(id graph.ID) (graph.Object, bool) {
	obj, ok := s.objects[id]
	if !ok {
		s.log.Debug("unresolved id", zap.Int64("id", int64(id)))
	}
	return obj, ok
}

// FindNode resolves id to a node.
func (s *Session) FindNode(id graph.ID) (*graph.Node, bool) {
	obj, ok := s.Lookup(id)
	if !ok {
		return nil, false
	}
	return obj.Node()
}

// FindPin resolves id to a pin.
func (s *Session) FindPin(id graph.ID) (*graph.Pin, bool) {
	obj, ok := s.Lookup(id)
	if !ok {
		return nil, false
	}
	return obj.Pin()
}

// FindLink resolves id to a link.
func (s *Session) FindLink(id graph.ID) (*graph.Link, bool) {
	obj, ok := s.Lookup(id)
	if !ok {
		return nil, false
	}
	return obj.Link()
}

// Nodes returns the nodes in insertion order. The slice is a copy.
func (s *Session) Nodes() []*graph.Node {
	return slices.Clone(s.nodes)
}

// Links returns the links in insertion order. The slice is a copy.
func (s *Session) Links() []*graph.Link {
	return slices.Clone(s.links)
}

// IDs returns every registered identifier in ascending order.
func (s *Session) IDs() []graph.ID {
	ids := make([]graph.ID, 0, len(s.objects))
	for id := range s.objects {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Len returns the number of registered objects of every kind.
func (s *Session) Len() int {
	return len(s.objects)
}

// Snapshot copies the ordered collections for exporters and panels.
func (s *Session) Snapshot() graph.Snapshot {
	return graph.Snapshot{Nodes: s.Nodes(), Links: s.Links()}
}

// Clear removes everything. The registry keeps counting so identifiers the
// engine still holds never name a new object.
func (s *Session) Clear() {
	s.nodes = nil
	s.links = nil
	clear(s.objects)
	clear(s.touch)
}
