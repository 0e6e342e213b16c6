package bridge

import (
	"errors"

	"blueprint/graph"
	"blueprint/palette"
)

// Demo column and row origins, in canvas cells.
var (
	demoCols = []int{2, 38, 74}
	demoRows = []int{1, 12}
)

type demoLink struct {
	from, out, to, in int
}

// demoNodes lays out two small programs, one per row.
var demoNodes = []string{
	"Text", "Display Text", "Print",
	"Add", "Compare", "Branch",
}

var demoLinks = []demoLink{
	{from: 0, out: 0, to: 1, in: 1}, // text into the display
	{from: 1, out: 0, to: 2, in: 0}, // display flows into print
	{from: 3, out: 0, to: 4, in: 0}, // sum into the comparison
	{from: 4, out: 0, to: 5, in: 1}, // comparison drives the branch
}

// Demo fills the session with a small sample graph. When the palette lacks
// one of the sample types it places one node of every palette type instead.
func (b *Bridge) Demo() ([]*graph.Node, error) {
	nodes, err := b.demoProgram()
	if errors.Is(err, palette.ErrUnknownType) {
		return b.demoPalette()
	}
	return nodes, err
}

func (b *Bridge) demoProgram() ([]*graph.Node, error) {
	for _, typ := range demoNodes {
		if _, err := b.pal.Lookup(typ); err != nil {
			return nil, err
		}
	}
	nodes := make([]*graph.Node, 0, len(demoNodes))
	for i, typ := range demoNodes {
		pos := graph.Point{X: demoCols[i%len(demoCols)], Y: demoRows[i/len(demoCols)]}
		n, err := b.CreateNode(typ, pos)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	for _, l := range demoLinks {
		b.sess.Connect(nodes[l.from].Outputs[l.out], nodes[l.to].Inputs[l.in])
	}
	return nodes, nil
}

func (b *Bridge) demoPalette() ([]*graph.Node, error) {
	var nodes []*graph.Node
	for i, typ := range b.pal.Types() {
		pos := graph.Point{X: demoCols[i%len(demoCols)], Y: 1 + (i/len(demoCols))*11}
		n, err := b.CreateNode(typ, pos)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}
