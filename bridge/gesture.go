package bridge

import (
	"blueprint/graph"
	"go.uber.org/zap"
)

// LinkState is the phase of a link-creation gesture.
type LinkState int

const (
	LinkIdle LinkState = iota
	LinkDragging
	LinkAccepted
	LinkRejected
)

func (s LinkState) String() string {
	switch s {
	case LinkIdle:
		return "idle"
	case LinkDragging:
		return "dragging"
	case LinkAccepted:
		return "accepted"
	case LinkRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Reasons shown next to the pointer when a candidate is rejected.
const (
	ReasonSelfLink     = "self link"
	ReasonIncompatible = "incompatible pin kinds"
	ReasonSameNode     = "same node"
	ReasonRefused      = "connection refused"
)

// rejectColor is the label background for rejected candidates.
const rejectColor = "#2d2020"

// LinkGesture is the state of the current link drag as of the last frame.
// Source and Target are normalised so Source is the output pin.
type LinkGesture struct {
	State  LinkState
	Reason string
	Source *graph.Pin
	Target *graph.Pin
	Link   *graph.Link // the created link once Accepted
}

// Gesture returns the link-creation state from the last frame.
func (b *Bridge) Gesture() LinkGesture {
	return b.gesture
}

// handleCreate runs the link-creation query once.
func (b *Bridge) handleCreate() {
	e := b.eng
	defer e.EndCreate()

	if !e.BeginCreate() {
		b.gesture = LinkGesture{State: LinkIdle}
		return
	}
	b.gesture = LinkGesture{State: LinkDragging}

	aID, bID, ok := e.QueryNewLink()
	if !ok {
		return
	}
	a, okA := b.sess.FindPin(aID)
	c, okC := b.sess.FindPin(bID)
	if !okA || !okC {
		return
	}

	switch {
	case a.SameAs(c):
		b.reject(a, c, ReasonSelfLink)
		return
	case a.Direction == c.Direction:
		b.reject(a, c, ReasonIncompatible)
		return
	case a.SameNode(c):
		b.reject(a, c, ReasonSameNode)
		return
	}

	src, dst := a, c
	if src.Direction == graph.Input {
		src, dst = dst, src
	}
	b.gesture.Source, b.gesture.Target = src, dst

	if !b.sess.CanConnect(src, dst) {
		b.reject(src, dst, ReasonRefused)
		return
	}
	if !e.AcceptNewItem() {
		return
	}
	l, ok := b.sess.Connect(src, dst)
	if !ok {
		b.reject(src, dst, ReasonRefused)
		return
	}
	b.gesture.State = LinkAccepted
	b.gesture.Link = l
	b.sess.TouchNode(src.Node)
	b.sess.TouchNode(dst.Node)
	b.log.Debug("link created",
		zap.Int64("link", int64(l.ID)),
		zap.Int64("source", int64(src.ID)),
		zap.Int64("target", int64(dst.ID)))
}

func (b *Bridge) reject(src, dst *graph.Pin, reason string) {
	b.gesture = LinkGesture{State: LinkRejected, Reason: reason, Source: src, Target: dst}
	b.eng.RejectNewItem()
	b.eng.ShowLabel("x "+reason, rejectColor)
	b.log.Debug("link rejected",
		zap.String("reason", reason),
		zap.Int64("source", int64(src.ID)),
		zap.Int64("target", int64(dst.ID)))
}

// handleDelete runs the deletion query once. Nodes go first; links that a
// node removal already took are skipped.
func (b *Bridge) handleDelete() {
	e := b.eng
	defer e.EndDelete()

	if !e.BeginDelete() {
		return
	}
	for {
		id, ok := e.QueryDeletedNode()
		if !ok {
			break
		}
		if !e.AcceptDeletedItem() {
			continue
		}
		if n, ok := b.sess.FindNode(id); ok {
			b.sess.RemoveNode(n)
			b.log.Debug("node deleted", zap.Int64("node", int64(id)))
		}
	}
	for {
		id, ok := e.QueryDeletedLink()
		if !ok {
			break
		}
		if !e.AcceptDeletedItem() {
			continue
		}
		if l, ok := b.sess.FindLink(id); ok {
			b.sess.RemoveLink(l)
			b.log.Debug("link deleted", zap.Int64("link", int64(id)))
		}
	}
}
