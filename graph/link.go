package graph

import "fmt"

// Link is a directed connection from an output pin to an input pin.
// Endpoints never change; to move a link, delete it and make a new one.
type Link struct {
	ID      ID
	Ordinal int
	Source  *Pin
	Target  *Pin
}

// SameAs compares links by identity.
func (l *Link) SameAs(o *Link) bool {
	return l != nil && o != nil && l.ID == o.ID
}

// Touches reports whether either endpoint is p.
func (l *Link) Touches(p *Pin) bool {
	return l.Source.SameAs(p) || l.Target.SameAs(p)
}

// TouchesNode reports whether either endpoint belongs to n.
func (l *Link) TouchesNode(n *Node) bool {
	return l.Source.Node.SameAs(n) || l.Target.Node.SameAs(n)
}

// Name is the short display name, e.g. "Link2#15".
func (l *Link) Name() string {
	return fmt.Sprintf("Link%d#%d", l.Ordinal, l.ID)
}

func (l *Link) String() string {
	return fmt.Sprintf("%s: %s -> %s", l.Name(), l.Source, l.Target)
}

// Snapshot is a point-in-time copy of the ordered node and link collections.
type Snapshot struct {
	Nodes []*Node
	Links []*Link
}
