package terminal

import (
	"slices"

	"blueprint/graph"
)

type selected struct {
	id   graph.ID
	kind graph.Kind
}

// selection is the engine's pool of selected nodes and links, in selection order.
type selection struct {
	items   []selected
	fresh   map[graph.ID]bool // selected since the frame began
	dirty   bool
	changed bool
}

func (s *selection) beginFrame() {
	s.changed = s.dirty
	s.dirty = false
	s.fresh = nil
}

func (s *selection) index(id graph.ID) int {
	return slices.IndexFunc(s.items, func(it selected) bool { return it.id == id })
}

func (s *selection) has(id graph.ID) bool {
	return s.index(id) >= 0
}

func (s *selection) add(id graph.ID, k graph.Kind, appendSelection bool) {
	if !appendSelection {
		if len(s.items) == 1 && s.items[0].id == id {
			return
		}
		s.items = s.items[:0]
	} else if s.has(id) {
		return
	}
	s.items = append(s.items, selected{id: id, kind: k})
	if s.fresh == nil {
		s.fresh = make(map[graph.ID]bool)
	}
	s.fresh[id] = true
	s.dirty = true
}

// toggle flips one object in or out of the selection.
func (s *selection) toggle(id graph.ID, k graph.Kind) {
	if s.has(id) {
		s.remove(id)
		return
	}
	s.add(id, k, true)
}

func (s *selection) remove(id graph.ID) {
	if i := s.index(id); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
		s.dirty = true
	}
}

func (s *selection) clear() {
	if len(s.items) > 0 {
		s.items = s.items[:0]
		s.dirty = true
	}
}

func (s *selection) ids(k graph.Kind) []graph.ID {
	var out []graph.ID
	for _, it := range s.items {
		if it.kind == k {
			out = append(out, it.id)
		}
	}
	return out
}

// prune drops objects that no longer exist. Objects selected during this frame
// are kept even if they were created too late to be drawn.
func (s *selection) prune(exists func(graph.ID, graph.Kind) bool) {
	kept := s.items[:0]
	for _, it := range s.items {
		if s.fresh[it.id] || exists(it.id, it.kind) {
			kept = append(kept, it)
		} else {
			s.dirty = true
		}
	}
	s.items = kept
}

// SelectedObjectCount returns how many nodes and links are selected.
func (e *Engine) SelectedObjectCount() int {
	return len(e.sel.items)
}

func fillIDs(buf []graph.ID, ids []graph.ID) int {
	return copy(buf, ids)
}

// SelectedNodes fills buf with selected node ids.
func (e *Engine) SelectedNodes(buf []graph.ID) int {
	return fillIDs(buf, e.sel.ids(graph.KindNode))
}

// SelectedLinks fills buf with selected link ids.
func (e *Engine) SelectedLinks(buf []graph.ID) int {
	return fillIDs(buf, e.sel.ids(graph.KindLink))
}

// SelectNode selects a node, optionally keeping the current selection.
func (e *Engine) SelectNode(id graph.ID, appendSelection bool) {
	e.sel.add(id, graph.KindNode, appendSelection)
}

// DeselectNode removes a node from the selection.
func (e *Engine) DeselectNode(id graph.ID) {
	e.sel.remove(id)
}

// ClearSelection empties the selection.
func (e *Engine) ClearSelection() {
	e.sel.clear()
}

// HasSelectionChanged reports whether the selection changed since the last frame.
func (e *Engine) HasSelectionChanged() bool {
	return e.sel.changed
}

// IsSelected reports whether a node or link is selected.
func (e *Engine) IsSelected(id graph.ID) bool {
	return e.sel.has(id)
}
