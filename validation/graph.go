// Package validation checks a live session for structural damage and a
// rendered canvas for broken line drawing.
package validation

import (
	"fmt"

	"blueprint/graph"
	"blueprint/session"
)

// Violation is one broken rule in a session.
type Violation struct {
	ID      graph.ID
	Kind    graph.Kind
	Message string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s %d: %s", v.Kind, v.ID, v.Message)
}

// CheckSession verifies that the identifier map and the ordered collections
// agree, that pins point back at the node listing them, and that every link
// runs from an output to an input on a different node.
func CheckSession(s *session.Session) []Violation {
	var out []Violation
	report := func(id graph.ID, k graph.Kind, format string, args ...any) {
		out = append(out, Violation{ID: id, Kind: k, Message: fmt.Sprintf(format, args...)})
	}

	listed := make(map[graph.ID]graph.Kind)
	claim := func(id graph.ID, k graph.Kind) {
		if !id.Valid() {
			report(id, k, "invalid identifier")
		}
		if prev, ok := listed[id]; ok {
			report(id, k, "identifier also used by a %s", prev)
			return
		}
		listed[id] = k
	}

	for _, n := range s.Nodes() {
		claim(n.ID, graph.KindNode)
		for _, p := range n.Pins() {
			claim(p.ID, graph.KindPin)
			if p.Node != n {
				report(p.ID, graph.KindPin, "listed by %s but points at another node", n.Name())
			}
		}
		for _, p := range n.Inputs {
			if p.Direction != graph.Input {
				report(p.ID, graph.KindPin, "in the input list with direction %s", p.Direction)
			}
		}
		for _, p := range n.Outputs {
			if p.Direction != graph.Output {
				report(p.ID, graph.KindPin, "in the output list with direction %s", p.Direction)
			}
		}
	}

	for _, l := range s.Links() {
		claim(l.ID, graph.KindLink)
		if l.Source == nil || l.Target == nil {
			report(l.ID, graph.KindLink, "missing endpoint")
			continue
		}
		if l.Source.SameNode(l.Target) {
			report(l.ID, graph.KindLink, "connects %s to itself", l.Source.Node.Name())
		}
		if l.Source.Direction != graph.Output {
			report(l.ID, graph.KindLink, "source %s is not an output", l.Source.Name())
		}
		if l.Target.Direction != graph.Input {
			report(l.ID, graph.KindLink, "target %s is not an input", l.Target.Name())
		}
		for _, p := range []*graph.Pin{l.Source, l.Target} {
			if q, ok := s.FindPin(p.ID); !ok || q != p {
				report(l.ID, graph.KindLink, "endpoint %s is not registered", p.Name())
			}
		}
	}

	for _, id := range s.IDs() {
		obj, _ := s.Lookup(id)
		k, ok := listed[id]
		if !ok {
			report(id, obj.Kind(), "mapped but not reachable from any collection")
			continue
		}
		if k != obj.Kind() {
			report(id, obj.Kind(), "mapped as %s but listed as %s", obj.Kind(), k)
		}
		delete(listed, id)
	}
	for id, k := range listed {
		report(id, k, "listed but missing from the identifier map")
	}
	return out
}
