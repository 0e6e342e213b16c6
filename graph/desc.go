package graph

// PinDesc declares one pin on a node type.
type PinDesc struct {
	Direction Direction
	Type      PinType
	Label     string
}

// NodeDesc is a node template. Nodes are stamped from it by NewNode.
type NodeDesc struct {
	Type    string
	Color   string // hex, "#rrggbb" or "#rrggbbaa"
	Inputs  []PinDesc
	Outputs []PinDesc
	Props   *Properties
}

// DefaultColor is used when a descriptor does not name one.
const DefaultColor = "#ffffff"

// InPin declares an input pin. An empty label falls back to the type name.
func InPin(t PinType, label string) PinDesc {
	if label == "" {
		label = string(t)
	}
	return PinDesc{Direction: Input, Type: t, Label: label}
}

// OutPin declares an output pin. An empty label falls back to the type name.
func OutPin(t PinType, label string) PinDesc {
	if label == "" {
		label = string(t)
	}
	return PinDesc{Direction: Output, Type: t, Label: label}
}

// Clone returns a deep copy of the descriptor.
func (d NodeDesc) Clone() NodeDesc {
	c := d
	c.Inputs = append([]PinDesc(nil), d.Inputs...)
	c.Outputs = append([]PinDesc(nil), d.Outputs...)
	c.Props = d.Props.Clone()
	return c
}
