// Package palette holds the node types the editor can create. Types come from
// the built-in set or from descriptor files in YAML, JSON or TOML.
package palette

import (
	"errors"
	"fmt"
	"slices"

	"blueprint/graph"
)

// ErrUnknownType is returned by Lookup for a type the palette does not carry.
var ErrUnknownType = errors.New("unknown node type")

// Palette is an ordered set of node descriptors keyed by type name.
type Palette struct {
	descs  map[string]graph.NodeDesc
	order  []string
	Source string // file the palette was read from, empty for built-ins
}

// New creates a palette from descs. Later descriptors replace earlier ones of
// the same type but keep the original position.
func New(descs ...graph.NodeDesc) *Palette {
	p := &Palette{descs: make(map[string]graph.NodeDesc, len(descs))}
	for _, d := range descs {
		p.put(d)
	}
	return p
}

func (p *Palette) put(d graph.NodeDesc) {
	if _, ok := p.descs[d.Type]; !ok {
		p.order = append(p.order, d.Type)
	}
	p.descs[d.Type] = d.Clone()
}

// Lookup returns a copy of the descriptor for typ.
func (p *Palette) Lookup(typ string) (graph.NodeDesc, error) {
	d, ok := p.descs[typ]
	if !ok {
		return graph.NodeDesc{}, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return d.Clone(), nil
}

// Types returns the type names in palette order.
func (p *Palette) Types() []string {
	return slices.Clone(p.order)
}

// Descs returns copies of every descriptor in palette order.
func (p *Palette) Descs() []graph.NodeDesc {
	out := make([]graph.NodeDesc, 0, len(p.order))
	for _, t := range p.order {
		out = append(out, p.descs[t].Clone())
	}
	return out
}

// Len returns the number of types.
func (p *Palette) Len() int {
	return len(p.order)
}

// Merge returns a new palette holding p's types overlaid with other's.
func (p *Palette) Merge(other *Palette) *Palette {
	out := New(p.Descs()...)
	out.Source = p.Source
	if other == nil {
		return out
	}
	for _, d := range other.Descs() {
		out.put(d)
	}
	if other.Source != "" {
		out.Source = other.Source
	}
	return out
}

// Builtin returns the stock node types.
func Builtin() *Palette {
	return New(
		displayText(),
		text(),
		add(),
		compare(),
		branch(),
		printLine(),
	)
}

func displayText() graph.NodeDesc {
	return graph.NodeDesc{
		Type:    "Display Text",
		Color:   "#23531c",
		Inputs:  []graph.PinDesc{graph.InPin(graph.PinFlow, ""), graph.InPin(graph.PinString, "> text")},
		Outputs: []graph.PinDesc{graph.OutPin(graph.PinFlow, "")},
		Props:   graph.NewProperties(),
	}
}

func text() graph.NodeDesc {
	props := graph.NewProperties()
	props.Set("Text", "Hello, World!")
	return graph.NodeDesc{
		Type:    "Text",
		Color:   "#7c4dff",
		Outputs: []graph.PinDesc{graph.OutPin(graph.PinString, "text >")},
		Props:   props,
	}
}

func add() graph.NodeDesc {
	return graph.NodeDesc{
		Type:    "Add",
		Color:   "#1e88e5",
		Inputs:  []graph.PinDesc{graph.InPin(graph.PinInt, "a"), graph.InPin(graph.PinInt, "b")},
		Outputs: []graph.PinDesc{graph.OutPin(graph.PinInt, "sum")},
		Props:   graph.NewProperties(),
	}
}

func compare() graph.NodeDesc {
	props := graph.NewProperties()
	props.Set("Epsilon", 0.001)
	props.Set("Strict", false)
	return graph.NodeDesc{
		Type:    "Compare",
		Color:   "#00897b",
		Inputs:  []graph.PinDesc{graph.InPin(graph.PinFloat, "a"), graph.InPin(graph.PinFloat, "b")},
		Outputs: []graph.PinDesc{graph.OutPin(graph.PinBool, "a < b")},
		Props:   props,
	}
}

func branch() graph.NodeDesc {
	return graph.NodeDesc{
		Type:    "Branch",
		Color:   "#f4511e",
		Inputs:  []graph.PinDesc{graph.InPin(graph.PinFlow, ""), graph.InPin(graph.PinBool, "condition")},
		Outputs: []graph.PinDesc{graph.OutPin(graph.PinFlow, "true"), graph.OutPin(graph.PinFlow, "false")},
		Props:   graph.NewProperties(),
	}
}

func printLine() graph.NodeDesc {
	props := graph.NewProperties()
	props.Set("Newline", true)
	props.Set("Repeat", 1)
	return graph.NodeDesc{
		Type:    "Print",
		Color:   "#8e24aa",
		Inputs:  []graph.PinDesc{graph.InPin(graph.PinFlow, ""), graph.InPin(graph.PinString, "message")},
		Outputs: []graph.PinDesc{graph.OutPin(graph.PinFlow, "")},
		Props:   props,
	}
}
