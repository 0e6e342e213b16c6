package bridge

import (
	"fmt"
	"slices"
	"testing"
	"time"

	"blueprint/engine/enginetest"
	"blueprint/graph"
	"blueprint/palette"
	"blueprint/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	eng  *enginetest.Engine
	sess *session.Session
	b    *Bridge
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	eng := enginetest.New()
	sess := session.New(eng)
	return &fixture{eng: eng, sess: sess, b: New(sess, eng, palette.Builtin(), opts...)}
}

func (f *fixture) node(t *testing.T, typ string) *graph.Node {
	t.Helper()
	n, err := f.b.CreateNode(typ, graph.Point{})
	require.NoError(t, err)
	return n
}

func indexOf(t *testing.T, calls []string, call string) int {
	t.Helper()
	i := slices.Index(calls, call)
	require.GreaterOrEqual(t, i, 0, "missing call %q in %v", call, calls)
	return i
}

func TestFrameOrder(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")
	d := f.node(t, "Display Text")
	l, ok := f.sess.Connect(a.Outputs[0], d.Inputs[1])
	require.True(t, ok)
	f.eng.Reset()

	f.b.Frame(time.Millisecond)
	calls := f.eng.Calls

	assert.Equal(t, "Begin "+DefaultCanvas, calls[0])
	assert.Equal(t, "End", calls[len(calls)-1])
	order := []int{
		indexOf(t, calls, fmt.Sprintf("BeginNode %d", a.ID)),
		indexOf(t, calls, fmt.Sprintf("EndNode %d", a.ID)),
		indexOf(t, calls, fmt.Sprintf("BeginNode %d", d.ID)),
		indexOf(t, calls, fmt.Sprintf("EndNode %d", d.ID)),
		indexOf(t, calls, fmt.Sprintf("Link %d %d->%d", l.ID, a.Outputs[0].ID, d.Inputs[1].ID)),
		indexOf(t, calls, "BeginCreate"),
		indexOf(t, calls, "EndCreate"),
		indexOf(t, calls, "BeginDelete"),
		indexOf(t, calls, "EndDelete"),
		indexOf(t, calls, "Suspend"),
		indexOf(t, calls, "Resume"),
	}
	assert.True(t, slices.IsSorted(order), "calls out of order: %v", calls)
	// selection is read inside the pass
	assert.Greater(t, indexOf(t, calls, "SelectedObjectCount"), 0)
	assert.False(t, f.eng.InFrame())
}

func TestRenderCapturesBounds(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, "Display Text")
	f.b.Frame(0)

	rect := func(x0, y0, x1, y1 int) graph.Rect {
		return graph.Rect{Min: graph.Point{X: x0, Y: y0}, Max: graph.Point{X: x1, Y: y1}}
	}
	assert.Equal(t, rect(0, 0, 12, 1), n.Bounds.Get(graph.SectionHeader))
	assert.Equal(t, rect(0, 1, 6, 3), n.Bounds.Get(graph.SectionInputs))
	assert.True(t, n.Bounds.Get(graph.SectionMiddle).Empty())
	assert.Equal(t, rect(8, 1, 12, 2), n.Bounds.Get(graph.SectionOutputs))
	assert.Equal(t, rect(0, 1, 12, 3), n.Bounds.Get(graph.SectionContent))
	assert.Equal(t, rect(0, 0, 12, 3), n.Bounds.Get(graph.SectionNode))
	require.Len(t, f.eng.Backgrounds, 1)
	assert.Equal(t, n.Bounds.Get(graph.SectionHeader), f.eng.Backgrounds[0])
}

func TestLinkCreationAcceptsAndNormalises(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")
	d := f.node(t, "Display Text")

	// dragged from the input back to the output
	f.eng.Drag = &enginetest.Drag{A: d.Inputs[1].ID, B: a.Outputs[0].ID, Commit: true}
	f.b.Frame(0)

	links := f.sess.Links()
	require.Len(t, links, 1)
	assert.Same(t, a.Outputs[0], links[0].Source)
	assert.Same(t, d.Inputs[1], links[0].Target)
	assert.Equal(t, graph.Output, links[0].Source.Direction)
	assert.Equal(t, graph.Input, links[0].Target.Direction)

	g := f.b.Gesture()
	assert.Equal(t, LinkAccepted, g.State)
	assert.Same(t, links[0], g.Link)
	assert.True(t, f.sess.Touched(a))
	assert.True(t, f.sess.Touched(d))
	assert.Equal(t, 1, f.eng.Accepted)

	// released: the next frame is idle and nothing new is created
	f.b.Frame(0)
	assert.Equal(t, LinkIdle, f.b.Gesture().State)
	assert.Len(t, f.sess.Links(), 1)
}

func TestValidCandidateStaysDraggingUntilCommit(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")
	d := f.node(t, "Display Text")

	f.eng.Drag = &enginetest.Drag{A: a.Outputs[0].ID, B: d.Inputs[1].ID}
	for i := 0; i < 3; i++ {
		f.b.Frame(0)
		assert.Equal(t, LinkDragging, f.b.Gesture().State)
		assert.Same(t, a.Outputs[0], f.b.Gesture().Source)
	}
	assert.Empty(t, f.sess.Links())
	assert.Zero(t, f.eng.Rejected)

	f.eng.Drag.Commit = true
	f.b.Frame(0)
	assert.Len(t, f.sess.Links(), 1)
}

func TestLinkCreationRejects(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Branch")
	b := f.node(t, "Print")

	tests := []struct {
		name   string
		from   *graph.Pin
		to     *graph.Pin
		reason string
	}{
		{"same pin", a.Outputs[0], a.Outputs[0], ReasonSelfLink},
		{"both outputs", a.Outputs[0], b.Outputs[0], ReasonIncompatible},
		{"both inputs", a.Inputs[0], b.Inputs[1], ReasonIncompatible},
		{"same node", a.Outputs[1], a.Inputs[0], ReasonSameNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.eng.Reset()
			rejected := f.eng.Rejected
			f.eng.Drag = &enginetest.Drag{A: tt.from.ID, B: tt.to.ID, Commit: true}
			f.b.Frame(0)

			g := f.b.Gesture()
			assert.Equal(t, LinkRejected, g.State)
			assert.Equal(t, tt.reason, g.Reason)
			assert.Equal(t, rejected+1, f.eng.Rejected)
			assert.Equal(t, []string{"x " + tt.reason}, f.eng.Labels)
			assert.NotContains(t, f.eng.Calls, "AcceptNewItem")
			assert.Empty(t, f.sess.Links())
		})
	}
}

func TestUnresolvedCandidateKeepsDragging(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")

	f.eng.Drag = &enginetest.Drag{A: a.Outputs[0].ID, B: graph.ID(999), Commit: true}
	f.b.Frame(0)
	assert.Equal(t, LinkDragging, f.b.Gesture().State)

	f.eng.Drag = &enginetest.Drag{A: a.Outputs[0].ID}
	f.b.Frame(0)
	assert.Equal(t, LinkDragging, f.b.Gesture().State)
	assert.Empty(t, f.sess.Links())
	assert.Zero(t, f.eng.Rejected)
}

func TestDeletionPass(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")
	d := f.node(t, "Display Text")
	l, _ := f.sess.Connect(a.Outputs[0], d.Inputs[1])

	f.eng.RefuseDeletes = true
	f.eng.PendingNodes = []graph.ID{a.ID}
	f.b.Frame(0)
	assert.Len(t, f.sess.Nodes(), 2)

	// the link goes with the node, so its own deletion finds nothing
	f.eng.RefuseDeletes = false
	f.eng.PendingNodes = []graph.ID{a.ID, graph.ID(999)}
	f.eng.PendingLinks = []graph.ID{l.ID}
	f.b.Frame(0)

	assert.Equal(t, []*graph.Node{d}, f.sess.Nodes())
	assert.Empty(t, f.sess.Links())
	_, ok := f.sess.Lookup(a.Outputs[0].ID)
	assert.False(t, ok)
}

func TestDeleteSelected(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")
	d := f.node(t, "Display Text")
	l, _ := f.sess.Connect(a.Outputs[0], d.Inputs[1])

	f.eng.Select([]graph.ID{d.ID}, []graph.ID{l.ID})
	f.b.Frame(0)
	f.b.DeleteSelected()
	f.b.Frame(0)

	assert.Equal(t, []*graph.Node{a}, f.sess.Nodes())
	assert.Empty(t, f.sess.Links())
}

func TestNodeContextMenu(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, "Compare")

	f.eng.Click = &enginetest.RightClick{Kind: graph.KindNode, ID: n.ID}
	f.b.Frame(0)
	assert.Contains(t, f.eng.Calls, "OpenPopup "+PopupNode)
	assert.Contains(t, f.eng.PopupLines, "Inputs: 2")
	assert.Contains(t, f.eng.PopupLines, "Outputs: 1")
	assert.Contains(t, f.eng.PopupLines, "[Toggle Strict]")
	assert.Contains(t, f.eng.PopupLines, "[Delete]")
	assert.Less(t, indexOf(t, f.eng.Calls, "Suspend"), indexOf(t, f.eng.Calls, "OpenPopup "+PopupNode))

	// the popup stays open until something is picked
	f.eng.Choose = "Toggle Strict"
	f.b.Frame(0)
	assert.True(t, n.Props.Bools["Strict"])
	assert.Empty(t, f.eng.OpenPopupName())

	f.eng.Click = &enginetest.RightClick{Kind: graph.KindNode, ID: n.ID}
	f.b.Frame(0)
	f.eng.Choose = "Delete"
	f.b.Frame(0)
	f.b.Frame(0)
	assert.Empty(t, f.sess.Nodes())
}

func TestContextMenusDegradeToPlaceholders(t *testing.T) {
	tests := []struct {
		kind graph.Kind
		want string
	}{
		{graph.KindNode, "Unknown node: 42"},
		{graph.KindPin, "Unknown pin: 42"},
		{graph.KindLink, "Unknown link: 42"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			f := newFixture(t)
			f.eng.Click = &enginetest.RightClick{Kind: tt.kind, ID: 42}
			f.b.Frame(0)
			assert.Contains(t, f.eng.PopupLines, tt.want)
		})
	}
}

func TestPinMenuDisconnect(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")
	d := f.node(t, "Display Text")
	p := f.node(t, "Print")
	f.sess.Connect(a.Outputs[0], d.Inputs[1])
	f.sess.Connect(a.Outputs[0], p.Inputs[1])

	f.eng.Click = &enginetest.RightClick{Kind: graph.KindPin, ID: a.Outputs[0].ID}
	f.b.Frame(0)
	assert.Contains(t, f.eng.PopupLines, "Links: 2")

	f.eng.Choose = "Disconnect"
	f.b.Frame(0)
	f.b.Frame(0)
	assert.Empty(t, f.sess.Links())
	assert.Len(t, f.sess.Nodes(), 3)
}

func TestLinkMenuDelete(t *testing.T) {
	f := newFixture(t)
	a := f.node(t, "Text")
	d := f.node(t, "Display Text")
	l, _ := f.sess.Connect(a.Outputs[0], d.Inputs[1])

	f.eng.Click = &enginetest.RightClick{Kind: graph.KindLink, ID: l.ID}
	f.eng.Choose = "Delete"
	f.b.Frame(0)
	assert.Contains(t, f.eng.PopupLines, "From: Text.text >")
	f.b.Frame(0)
	assert.Empty(t, f.sess.Links())
}

func TestBackgroundMenuCreatesNodeAtClick(t *testing.T) {
	f := newFixture(t)
	f.eng.MousePos = graph.Point{X: 10, Y: 5}
	f.eng.Click = &enginetest.RightClick{Background: true}
	f.b.Frame(0)
	for _, typ := range palette.Builtin().Types() {
		assert.Contains(t, f.eng.PopupLines, "[Create "+typ+"]")
	}

	f.eng.MousePos = graph.Point{X: 50, Y: 50}
	f.eng.Choose = "Create Text"
	f.b.Frame(0)

	nodes := f.sess.Nodes()
	require.Len(t, nodes, 1)
	assert.Equal(t, "Text", nodes[0].Type)
	pos, ok := f.eng.NodePosition(nodes[0].ID)
	require.True(t, ok)
	assert.Equal(t, graph.Point{X: 10, Y: 5}, pos)
	assert.True(t, f.sess.Touched(nodes[0]))
	assert.Contains(t, f.eng.Calls, fmt.Sprintf("SelectNode %d false", nodes[0].ID))
}

func TestHeaderColourFades(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, "Add")

	assert.NotEqual(t, n.Color, f.b.headerColor(n))
	assert.Equal(t, touchColor, f.b.headerColor(n))
	f.b.Frame(500 * time.Millisecond)
	mid := f.b.headerColor(n)
	assert.NotEqual(t, n.Color, mid)
	assert.NotEqual(t, touchColor, mid)
	f.b.Frame(time.Second)
	assert.Equal(t, n.Color, f.b.headerColor(n))
}

func TestOrdinalsInHeader(t *testing.T) {
	f := newFixture(t, WithOrdinals(true))
	n := f.node(t, "Add")
	assert.Equal(t, "Add (Node1#1)", f.b.Header(n))
	f.b.ShowOrdinals = false
	assert.Equal(t, "Add", f.b.Header(n))
}

func TestSaveAndRestoreSelected(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, "Text")
	assert.Zero(t, f.b.SaveSelected())

	f.eng.Select([]graph.ID{n.ID}, nil)
	f.b.Frame(0)
	assert.Equal(t, 1, f.b.SaveSelected())
	n.Props.Set("Text", "edited")
	assert.Equal(t, 1, f.b.RestoreSelected())
	assert.Equal(t, "Hello, World!", n.Props.Strings["Text"])
	assert.Zero(t, f.b.RestoreSelected())
}

func TestStatsCountSelectionChanges(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, "Text")

	f.b.Frame(0)
	f.eng.Select([]graph.ID{n.ID}, nil)
	f.b.Frame(0)
	f.b.Frame(0)
	assert.Equal(t, Stats{Frames: 3, SelectionChanges: 1}, f.b.Stats())
	assert.True(t, f.b.LastFrame().IsNodeSelected(n))
}

func TestSetPalette(t *testing.T) {
	f := newFixture(t)
	f.b.SetPalette(nil)
	assert.Equal(t, 6, f.b.Palette().Len())

	f.b.SetPalette(palette.New(graph.NodeDesc{Type: "Only"}))
	_, err := f.b.CreateNode("Text", graph.Point{})
	assert.ErrorIs(t, err, palette.ErrUnknownType)
	_, err = f.b.CreateNode("Only", graph.Point{})
	assert.NoError(t, err)
}

func TestDemoBuildsSampleProgram(t *testing.T) {
	f := newFixture(t)
	nodes, err := f.b.Demo()
	require.NoError(t, err)
	require.Len(t, nodes, 6)
	assert.Len(t, f.sess.Links(), 4)

	pos, ok := f.eng.NodePosition(nodes[4].ID)
	require.True(t, ok)
	assert.Equal(t, graph.Point{X: 38, Y: 12}, pos)
	for _, l := range f.sess.Links() {
		assert.Equal(t, graph.Output, l.Source.Direction)
		assert.Equal(t, graph.Input, l.Target.Direction)
	}
}

func TestDemoFallsBackToPaletteTypes(t *testing.T) {
	eng := enginetest.New()
	sess := session.New(eng)
	pal := palette.New(graph.NodeDesc{Type: "Only"}, graph.NodeDesc{Type: "Other"})
	b := New(sess, eng, pal)

	nodes, err := b.Demo()
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, "Only", nodes[0].Type)
	assert.Empty(t, sess.Links())
}
