package session

import (
	"slices"
	"time"

	"blueprint/graph"
)

// Selection is the engine's selection as read at the start of one frame.
// Obtain it from UpdateSelections or BeginFrame; it is not refreshed afterwards.
type Selection struct {
	s       *Session
	nodes   []graph.ID
	links   []graph.ID
	changed bool
}

// UpdateSelections reads the selection pool from the engine. Nodes and links
// share one pool, so both buffers are sized to the total count and trimmed to
// what the engine actually wrote.
func (s *Session) UpdateSelections() *Selection {
	total := max(s.eng.SelectedObjectCount(), 0)
	nodes := make([]graph.ID, total)
	links := make([]graph.ID, total)
	n := clamp(s.eng.SelectedNodes(nodes), total)
	l := clamp(s.eng.SelectedLinks(links), total)
	return &Selection{
		s:       s,
		nodes:   nodes[:n:n],
		links:   links[:l:l],
		changed: s.eng.HasSelectionChanged(),
	}
}

func clamp(n, limit int) int {
	return min(max(n, 0), limit)
}

// IsNodeSelected reports whether n was selected when the frame began.
func (sel *Selection) IsNodeSelected(n *graph.Node) bool {
	return n != nil && slices.Contains(sel.nodes, n.ID)
}

// IsLinkSelected reports whether l was selected when the frame began.
func (sel *Selection) IsLinkSelected(l *graph.Link) bool {
	return l != nil && slices.Contains(sel.links, l.ID)
}

// NodeIDs returns the selected node identifiers in engine order.
func (sel *Selection) NodeIDs() []graph.ID {
	return slices.Clone(sel.nodes)
}

// LinkIDs returns the selected link identifiers in engine order.
func (sel *Selection) LinkIDs() []graph.ID {
	return slices.Clone(sel.links)
}

// Nodes resolves the selected nodes, skipping identifiers the session no longer knows.
func (sel *Selection) Nodes() []*graph.Node {
	out := make([]*graph.Node, 0, len(sel.nodes))
	for _, id := range sel.nodes {
		if n, ok := sel.s.FindNode(id); ok {
			out = append(out, n)
		}
	}
	return out
}

// Links resolves the selected links, skipping identifiers the session no longer knows.
func (sel *Selection) Links() []*graph.Link {
	out := make([]*graph.Link, 0, len(sel.links))
	for _, id := range sel.links {
		if l, ok := sel.s.FindLink(id); ok {
			out = append(out, l)
		}
	}
	return out
}

// Len returns the number of selected nodes and links.
func (sel *Selection) Len() int {
	return len(sel.nodes) + len(sel.links)
}

// Changed reports whether the engine flagged a selection change this frame.
func (sel *Selection) Changed() bool {
	return sel.changed
}

// Frame is the per-frame scope. Selection queries are only available through it.
type Frame struct {
	*Selection
	Delta time.Duration
}

// BeginFrame advances the touch timers by dt and reads the selection.
func (s *Session) BeginFrame(dt time.Duration) *Frame {
	s.UpdateTouch(dt)
	return &Frame{Selection: s.UpdateSelections(), Delta: dt}
}

// Select selects n, optionally adding to the current selection.
func (s *Session) Select(n *graph.Node, appendSelection bool) {
	if n == nil {
		return
	}
	s.eng.SelectNode(n.ID, appendSelection)
}

// Deselect removes n from the selection.
func (s *Session) Deselect(n *graph.Node) {
	if n == nil {
		return
	}
	s.eng.DeselectNode(n.ID)
}

// ClearSelection deselects everything.
func (s *Session) ClearSelection() {
	s.eng.ClearSelection()
}

// HasSelectionChanged asks the engine directly.
func (s *Session) HasSelectionChanged() bool {
	return s.eng.HasSelectionChanged()
}

// NavigateToSelection pans the canvas to the selection.
func (s *Session) NavigateToSelection() {
	s.eng.NavigateToSelection()
}
