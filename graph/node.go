package graph

import "fmt"

// Node is a unit of graph computation. It owns its pins.
//
// Inputs and Outputs are read-only outside the session: add pins with
// Session.AddPin and remove them with Session.RemovePin so the id map stays in
// sync. DetachPin never writes through a slice a caller already holds.
type Node struct {
	ID      ID
	Ordinal int
	Label   string
	Type    string
	Color   string
	Inputs  []*Pin
	Outputs []*Pin
	Props   *Properties
	Bounds  Bounds // Set by the render pass

	saved *Properties
}

// NewNode stamps a node out of a descriptor. The node and each of its pins get
// fresh identifiers from reg. Pins listed under Inputs are always inputs and pins
// listed under Outputs are always outputs, whatever their descriptor says.
func NewNode(reg *Registry, desc NodeDesc) *Node {
	n := &Node{
		ID:      reg.Next(),
		Ordinal: reg.Ordinal(KindNode),
		Label:   desc.Type,
		Type:    desc.Type,
		Color:   desc.Color,
		Props:   desc.Props.Clone(),
	}
	if n.Color == "" {
		n.Color = DefaultColor
	}
	for _, pd := range desc.Inputs {
		pd.Direction = Input
		n.Inputs = append(n.Inputs, newPin(reg, n, pd))
	}
	for _, pd := range desc.Outputs {
		pd.Direction = Output
		n.Outputs = append(n.Outputs, newPin(reg, n, pd))
	}
	return n
}

// Pins returns the inputs followed by the outputs.
func (n *Node) Pins() []*Pin {
	pins := make([]*Pin, 0, len(n.Inputs)+len(n.Outputs))
	pins = append(pins, n.Inputs...)
	return append(pins, n.Outputs...)
}

// HasPin reports whether p is one of the node's pins.
func (n *Node) HasPin(p *Pin) bool {
	for _, q := range n.Pins() {
		if q.ID == p.ID {
			return true
		}
	}
	return false
}

// DetachPin removes p from the node's pin lists. It reports whether the pin was found.
func (n *Node) DetachPin(p *Pin) bool {
	list := &n.Inputs
	if p.Direction == Output {
		list = &n.Outputs
	}
	for i, q := range *list {
		if q.ID == p.ID {
			*list = append((*list)[:i:i], (*list)[i+1:]...)
			return true
		}
	}
	return false
}

// SameAs compares nodes by identity.
func (n *Node) SameAs(o *Node) bool {
	return n != nil && o != nil && n.ID == o.ID
}

// SaveState snapshots the property bag.
func (n *Node) SaveState() {
	n.saved = n.Props.Clone()
}

// HasSavedState reports whether a snapshot exists.
func (n *Node) HasSavedState() bool {
	return n.saved != nil
}

// RestoreState copies the snapshot back into the property bag and drops it.
func (n *Node) RestoreState() bool {
	if n.saved == nil {
		return false
	}
	n.Props.CopyFrom(n.saved)
	n.saved = nil
	return true
}

// ClearSavedState drops the snapshot.
func (n *Node) ClearSavedState() {
	n.saved = nil
}

// Name is the short display name, e.g. "Node3#7".
func (n *Node) Name() string {
	return fmt.Sprintf("Node%d#%d", n.Ordinal, n.ID)
}

func (n *Node) String() string {
	return fmt.Sprintf("%s: '%s'", n.Name(), n.Label)
}
