package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textDesc() NodeDesc {
	props := NewProperties()
	props.Set("Text", "Hello, World!")
	return NodeDesc{
		Type:    "Text",
		Outputs: []PinDesc{OutPin(PinString, "text >")},
		Props:   props,
	}
}

func displayDesc() NodeDesc {
	return NodeDesc{
		Type:    "Display Text",
		Color:   "#23531c",
		Inputs:  []PinDesc{InPin(PinFlow, ""), InPin(PinString, "> text")},
		Outputs: []PinDesc{OutPin(PinFlow, "")},
	}
}

func TestRegistryIsStrictlyIncreasing(t *testing.T) {
	reg := NewRegistry()
	seen := make(map[ID]bool)
	prev := None
	for i := 0; i < 1000; i++ {
		id := reg.Next()
		require.True(t, id.Valid())
		require.Greater(t, id, prev)
		require.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
		prev = id
	}
	assert.Equal(t, prev, reg.Last())
}

func TestRegistryOrdinalsArePerKind(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t, 1, reg.Ordinal(KindNode))
	assert.Equal(t, 1, reg.Ordinal(KindPin))
	assert.Equal(t, 2, reg.Ordinal(KindPin))
	assert.Equal(t, 2, reg.Ordinal(KindNode))
	assert.Equal(t, 1, reg.Ordinal(KindLink))

	reg.Next()
	reg.Reset()
	assert.Equal(t, ID(1), reg.Next())
	assert.Equal(t, 1, reg.Ordinal(KindNode))
}

func TestNewNodeAllocatesIDsAndBackReferences(t *testing.T) {
	reg := NewRegistry()
	n := NewNode(reg, displayDesc())

	require.Len(t, n.Inputs, 2)
	require.Len(t, n.Outputs, 1)
	assert.Equal(t, ID(1), n.ID)
	assert.Equal(t, "Display Text", n.Label)
	assert.Equal(t, "#23531c", n.Color)

	ids := map[ID]bool{n.ID: true}
	for _, p := range n.Pins() {
		assert.Same(t, n, p.Node)
		assert.False(t, ids[p.ID])
		ids[p.ID] = true
	}
	for _, p := range n.Inputs {
		assert.Equal(t, Input, p.Direction)
	}
	assert.Equal(t, Output, n.Outputs[0].Direction)
	assert.Equal(t, "flow", n.Inputs[0].Label)
	assert.Equal(t, "> text", n.Inputs[1].Label)
}

func TestNewNodeForcesDirectionFromList(t *testing.T) {
	reg := NewRegistry()
	desc := NodeDesc{
		Type:    "Odd",
		Inputs:  []PinDesc{{Direction: Output, Type: PinInt, Label: "a"}},
		Outputs: []PinDesc{{Direction: Input, Type: PinInt, Label: "b"}},
	}
	n := NewNode(reg, desc)
	assert.Equal(t, Input, n.Inputs[0].Direction)
	assert.Equal(t, Output, n.Outputs[0].Direction)
	assert.Equal(t, DefaultColor, n.Color)
}

func TestNewNodeCopiesProperties(t *testing.T) {
	reg := NewRegistry()
	desc := textDesc()
	a := NewNode(reg, desc)
	b := NewNode(reg, desc)

	a.Props.Set("Text", "changed")
	assert.Equal(t, "Hello, World!", b.Props.Strings["Text"])
	assert.Equal(t, "Hello, World!", desc.Props.Strings["Text"])
}

func TestConnectToDoesNotValidate(t *testing.T) {
	reg := NewRegistry()
	a := NewNode(reg, textDesc())
	b := NewNode(reg, displayDesc())

	l := b.Inputs[1].ConnectTo(reg, a.Outputs[0])
	assert.Same(t, b.Inputs[1], l.Source)
	assert.Same(t, a.Outputs[0], l.Target)
	assert.Equal(t, reg.Last(), l.ID)
	assert.True(t, l.TouchesNode(a))
	assert.True(t, l.TouchesNode(b))
	assert.True(t, l.Touches(a.Outputs[0]))
}

func TestIdentityEquality(t *testing.T) {
	reg := NewRegistry()
	n := NewNode(reg, textDesc())
	clone := *n
	clone.Label = "something else"
	assert.True(t, n.SameAs(&clone))
	assert.False(t, n.SameAs(nil))

	other := NewNode(reg, textDesc())
	assert.False(t, n.SameAs(other))
	assert.False(t, n.Outputs[0].SameNode(other.Outputs[0]))
}

func TestDetachPin(t *testing.T) {
	reg := NewRegistry()
	n := NewNode(reg, displayDesc())
	p := n.Inputs[0]

	require.True(t, n.DetachPin(p))
	assert.False(t, n.HasPin(p))
	assert.Len(t, n.Inputs, 1)
	assert.False(t, n.DetachPin(p))
}

func TestObjectTaggedUnion(t *testing.T) {
	reg := NewRegistry()
	n := NewNode(reg, textDesc())
	p := n.Outputs[0]
	l := p.ConnectTo(reg, p)

	tests := []struct {
		name string
		obj  Object
		kind Kind
		id   ID
	}{
		{"node", WrapNode(n), KindNode, n.ID},
		{"pin", WrapPin(p), KindPin, p.ID},
		{"link", WrapLink(l), KindLink, l.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.obj.Kind())
			assert.Equal(t, tt.id, tt.obj.ID())
			_, isNode := tt.obj.Node()
			_, isPin := tt.obj.Pin()
			_, isLink := tt.obj.Link()
			assert.Equal(t, tt.kind == KindNode, isNode)
			assert.Equal(t, tt.kind == KindPin, isPin)
			assert.Equal(t, tt.kind == KindLink, isLink)
		})
	}

	var zero Object
	_, ok := zero.Node()
	assert.False(t, ok)
	assert.Equal(t, KindNone, zero.Kind())
	assert.Equal(t, None, zero.ID())
	assert.Equal(t, "unknown object", zero.String())
	assert.Equal(t, "none", KindNone.String())

	reg = NewRegistry()
	assert.Zero(t, reg.Ordinal(KindNone))
	assert.Equal(t, 1, reg.Ordinal(KindNode))
}

func TestPinsDoesNotAliasNode(t *testing.T) {
	n := NewNode(NewRegistry(), displayDesc())
	held := n.Inputs
	first := held[0]

	pins := n.Pins()
	pins[0] = nil
	assert.Same(t, first, n.Inputs[0])

	require.True(t, n.DetachPin(first))
	assert.Same(t, first, held[0], "detach must not write through a held slice")
	assert.False(t, n.HasPin(first))
}

func TestPropertiesEntriesAndUnsupported(t *testing.T) {
	p := NewProperties()
	p.Set("b", "two")
	p.Set("a", "one")
	p.Set("count", 3)
	p.Set("ratio", 0.5)
	p.Set("enabled", true)
	p.Set("list", []string{"x"})

	entries := p.Entries()
	require.Len(t, entries, 6)
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"a", "b", "count", "ratio", "enabled", "list"}, keys)

	assert.Equal(t, "3", FormatValue(entries[2].Value))
	assert.Equal(t, "0.5", FormatValue(entries[3].Value))
	assert.Equal(t, "true", FormatValue(entries[4].Value))
	assert.Equal(t, "unsupported type: []string", FormatValue(entries[5].Value))

	assert.False(t, p.Toggle("enabled"))
	assert.Equal(t, []string{"enabled"}, p.BoolKeys())
}

func TestNodeSavedState(t *testing.T) {
	reg := NewRegistry()
	n := NewNode(reg, textDesc())

	assert.False(t, n.RestoreState())
	n.SaveState()
	require.True(t, n.HasSavedState())

	n.Props.Set("Text", "edited")
	require.True(t, n.RestoreState())
	assert.Equal(t, "Hello, World!", n.Props.Strings["Text"])
	assert.False(t, n.HasSavedState())
}

func TestParseHelpers(t *testing.T) {
	for _, pt := range PinTypes() {
		got, err := ParsePinType(string(pt))
		require.NoError(t, err)
		assert.Equal(t, pt, got)
	}
	_, err := ParsePinType("matrix")
	assert.Error(t, err)

	d, err := ParseDirection("out")
	require.NoError(t, err)
	assert.Equal(t, Output, d)
	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}

func TestRectUnion(t *testing.T) {
	a := RectAt(Point{X: 1, Y: 1}, 3, 2)
	b := RectAt(Point{X: 5, Y: 0}, 2, 2)
	u := a.Union(b)
	assert.Equal(t, Rect{Min: Point{X: 1, Y: 0}, Max: Point{X: 7, Y: 3}}, u)
	assert.Equal(t, a, a.Union(Rect{}))
	assert.True(t, u.Contains(Point{X: 6, Y: 2}))
	assert.False(t, u.Contains(Point{X: 7, Y: 2}))
}
