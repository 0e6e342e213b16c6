package export

import (
	"errors"
	"strings"
	"testing"

	"blueprint/graph"
	"blueprint/palette"
)

// sample builds Text -> Display Text -> Display Text. Ids run:
// Text 1 (pin 2), Display 3 (pins 4,5,6), data link 7, Display 8 (pins 9,10,11), flow link 12.
func sample(t *testing.T) graph.Snapshot {
	t.Helper()
	pal := palette.Builtin()
	reg := graph.NewRegistry()
	desc := func(typ string) graph.NodeDesc {
		d, err := pal.Lookup(typ)
		if err != nil {
			t.Fatalf("lookup %s: %v", typ, err)
		}
		return d
	}
	text := graph.NewNode(reg, desc("Text"))
	first := graph.NewNode(reg, desc("Display Text"))
	data := text.Outputs[0].ConnectTo(reg, first.Inputs[1])
	second := graph.NewNode(reg, desc("Display Text"))
	flow := first.Outputs[0].ConnectTo(reg, second.Inputs[0])
	return graph.Snapshot{
		Nodes: []*graph.Node{text, first, second},
		Links: []*graph.Link{data, flow},
	}
}

func assertLines(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, line := range want {
		if !strings.Contains(out, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, out)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"mermaid", FormatMermaid, false},
		{"MMD", FormatMermaid, false},
		{"dot", FormatDOT, false},
		{"graphviz", FormatDOT, false},
		{"gv", FormatDOT, false},
		{"d2", FormatD2, false},
		{"plantuml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewExporter(t *testing.T) {
	descs := GetFormatDescriptions()
	for _, f := range GetAvailableFormats() {
		e, err := NewExporter(f)
		if err != nil {
			t.Fatalf("NewExporter(%s): %v", f, err)
		}
		if e.GetFileExtension() == "" || e.GetFormatName() == "" {
			t.Errorf("%s exporter has no extension or name", f)
		}
		if descs[f] == "" {
			t.Errorf("%s has no description", f)
		}
	}
	if _, err := NewExporter("svg"); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}

func TestExport_EmptyGraph(t *testing.T) {
	for _, f := range GetAvailableFormats() {
		e, _ := NewExporter(f)
		if _, err := e.Export(graph.Snapshot{}); !errors.Is(err, ErrEmptyGraph) {
			t.Errorf("%s: expected ErrEmptyGraph, got %v", f, err)
		}
	}
}

func TestMermaidExporter(t *testing.T) {
	out, err := NewMermaidExporter().Export(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "flowchart LR\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	assertLines(t, out,
		`    N1["Text<br/>Text: Hello, World!"]`,
		`    N3["Display Text"]`,
		`    N1 -->|"text #gt; → #gt; text"| N3`,
		`    N3 ==>|"flow → flow"| N8`,
		`    style N1 fill:#7c4dff`,
		`    style N8 fill:#23531c`,
	)
}

func TestMermaidExporter_EscapesQuotes(t *testing.T) {
	reg := graph.NewRegistry()
	n := graph.NewNode(reg, graph.NodeDesc{Type: `Say "hi"`})
	out, err := NewMermaidExporter().Export(graph.Snapshot{Nodes: []*graph.Node{n}})
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, out, `    N1["Say #quot;hi#quot;"]`)
	if strings.Contains(out, "style") {
		t.Errorf("default colour should not be styled:\n%s", out)
	}
}

func TestGraphvizExporter(t *testing.T) {
	out, err := NewGraphvizExporter().Export(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph G {\n  rankdir=LR;\n") || !strings.HasSuffix(out, "}\n") {
		t.Errorf("unexpected framing:\n%s", out)
	}
	assertLines(t, out,
		`  N1 [label="{Text\nText: Hello, World!|{<p2> text \>}}", style=filled, fillcolor="#7c4dff"];`,
		`  N3 [label="{{<p4> flow|<p5> \> text}|Display Text|{<p6> flow}}", style=filled, fillcolor="#23531c"];`,
		`  N1:p2:e -> N3:p5:w [label="string"];`,
		`  N3:p6:e -> N8:p9:w [style=bold];`,
	)
}

func TestGraphvizExporter_EscapeRecord(t *testing.T) {
	e := NewGraphvizExporter()
	got := e.escapeRecord(`a{b}|<c> "d"`)
	want := `a\{b\}\|\<c\> \"d\"`
	if got != want {
		t.Errorf("escapeRecord = %q, want %q", got, want)
	}
}

func TestD2Exporter(t *testing.T) {
	out, err := NewD2Exporter().Export(sample(t))
	if err != nil {
		t.Fatal(err)
	}
	assertLines(t, out,
		`node_1: "Text\nText: Hello, World!"`,
		`node_1.style.fill: "#7c4dff"`,
		`node_3: Display Text`,
		`node_1 -> node_3: "text > → > text"`,
		`node_3 -> node_8: flow → flow`,
		`(node_3 -> node_8)[0].style.stroke-width: 3`,
	)
}

func TestExport_SkipsLinksOutsideSnapshot(t *testing.T) {
	g := sample(t)
	g.Nodes = g.Nodes[:1]
	for _, f := range GetAvailableFormats() {
		e, _ := NewExporter(f)
		out, err := e.Export(g)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if strings.Contains(out, "->") || strings.Contains(out, "==>") {
			t.Errorf("%s: dangling link exported:\n%s", f, out)
		}
	}
}
