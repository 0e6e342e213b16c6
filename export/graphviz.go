package export

import (
	"fmt"
	"strings"

	"blueprint/graph"
)

// GraphvizExporter exports graphs to Graphviz DOT. Each node is a record with
// one port per pin, so links attach to the pins they connect.
type GraphvizExporter struct{}

// NewGraphvizExporter creates a new Graphviz exporter
func NewGraphvizExporter() *GraphvizExporter {
	return &GraphvizExporter{}
}

// Export converts the graph to DOT syntax
func (e *GraphvizExporter) Export(g graph.Snapshot) (string, error) {
	ids, err := checkSnapshot(g)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("  rankdir=LR;\n")
	sb.WriteString("  node [shape=record];\n\n")

	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "  %s [label=\"%s\"%s];\n", e.getNodeID(n.ID), e.getRecordLabel(n), e.getNodeAttributes(n))
	}

	if len(g.Links) > 0 {
		sb.WriteString("\n")
	}
	for _, l := range g.Links {
		if !exportable(ids, l) {
			continue
		}
		attrs := fmt.Sprintf("label=\"%s\"", e.escapeLabel(string(l.Source.Type)))
		if isFlow(l) {
			attrs = "style=bold"
		}
		fmt.Fprintf(&sb, "  %s:%s:e -> %s:%s:w [%s];\n",
			e.getNodeID(l.Source.Node.ID), e.getPortID(l.Source.ID),
			e.getNodeID(l.Target.Node.ID), e.getPortID(l.Target.ID),
			attrs)
	}

	sb.WriteString("}\n")
	return sb.String(), nil
}

func (e *GraphvizExporter) getNodeID(id graph.ID) string {
	return fmt.Sprintf("N%d", id)
}

func (e *GraphvizExporter) getPortID(id graph.ID) string {
	return fmt.Sprintf("p%d", id)
}

// getRecordLabel lays the record out as inputs | title | outputs
func (e *GraphvizExporter) getRecordLabel(n *graph.Node) string {
	var fields []string
	if len(n.Inputs) > 0 {
		fields = append(fields, e.ports(n.Inputs))
	}
	lines := nodeLines(n)
	for i, line := range lines {
		lines[i] = e.escapeRecord(line)
	}
	fields = append(fields, strings.Join(lines, `\n`))
	if len(n.Outputs) > 0 {
		fields = append(fields, e.ports(n.Outputs))
	}
	return "{" + strings.Join(fields, "|") + "}"
}

func (e *GraphvizExporter) ports(pins []*graph.Pin) string {
	parts := make([]string, len(pins))
	for i, p := range pins {
		parts[i] = fmt.Sprintf("<%s> %s", e.getPortID(p.ID), e.escapeRecord(p.Label))
	}
	return "{" + strings.Join(parts, "|") + "}"
}

// escapeRecord escapes the characters that structure a record label
func (e *GraphvizExporter) escapeRecord(label string) string {
	label = e.escapeLabel(label)
	r := strings.NewReplacer(`{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`)
	return r.Replace(label)
}

// escapeLabel escapes quotes and backslashes
func (e *GraphvizExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return label
}

func (e *GraphvizExporter) getNodeAttributes(n *graph.Node) string {
	if n.Color == "" || n.Color == graph.DefaultColor {
		return ""
	}
	return fmt.Sprintf(", style=filled, fillcolor=\"%s\"", fillColor(n.Color))
}

// GetFileExtension returns the recommended file extension
func (e *GraphvizExporter) GetFileExtension() string {
	return ".dot"
}

// GetFormatName returns the format name
func (e *GraphvizExporter) GetFormatName() string {
	return "Graphviz"
}
