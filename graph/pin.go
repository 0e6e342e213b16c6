package graph

import "fmt"

// Pin is an attachment point on a node.
type Pin struct {
	ID        ID
	Ordinal   int
	Node      *Node // back-reference, not owned
	Direction Direction
	Type      PinType
	Label     string
}

func newPin(reg *Registry, n *Node, pd PinDesc) *Pin {
	label := pd.Label
	if label == "" {
		label = string(pd.Type)
	}
	return &Pin{
		ID:        reg.Next(),
		Ordinal:   reg.Ordinal(KindPin),
		Node:      n,
		Direction: pd.Direction,
		Type:      pd.Type,
		Label:     label,
	}
}

// ConnectTo builds a link with p as source and other as target. It does not
// check direction or register anything; that is the session's job.
func (p *Pin) ConnectTo(reg *Registry, other *Pin) *Link {
	return &Link{
		ID:      reg.Next(),
		Ordinal: reg.Ordinal(KindLink),
		Source:  p,
		Target:  other,
	}
}

// SameAs compares pins by identity.
func (p *Pin) SameAs(o *Pin) bool {
	return p != nil && o != nil && p.ID == o.ID
}

// SameNode reports whether both pins belong to the same node.
func (p *Pin) SameNode(o *Pin) bool {
	return p.Node.SameAs(o.Node)
}

// Name is the short display name, e.g. "Pin4#9".
func (p *Pin) Name() string {
	return fmt.Sprintf("Pin%d#%d", p.Ordinal, p.ID)
}

func (p *Pin) String() string {
	return fmt.Sprintf("%s: '%s' (%s, %s)", p.Name(), p.Label, p.Type, p.Direction)
}
