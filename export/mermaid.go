package export

import (
	"fmt"
	"strings"

	"blueprint/graph"
)

// MermaidExporter exports graphs to a Mermaid flowchart
type MermaidExporter struct {
	// Direction is the flowchart direction, LR by default
	Direction string
}

// NewMermaidExporter creates a new Mermaid exporter
func NewMermaidExporter() *MermaidExporter {
	return &MermaidExporter{Direction: "LR"}
}

// Export converts the graph to Mermaid syntax. Flow links are drawn thick.
func (e *MermaidExporter) Export(g graph.Snapshot) (string, error) {
	ids, err := checkSnapshot(g)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "flowchart %s\n", e.Direction)

	for _, n := range g.Nodes {
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", e.getNodeID(n.ID), e.getNodeLabel(n))
	}

	if len(g.Links) > 0 {
		sb.WriteString("\n")
	}
	for _, l := range g.Links {
		if !exportable(ids, l) {
			continue
		}
		arrow := "-->"
		if isFlow(l) {
			arrow = "==>"
		}
		fmt.Fprintf(&sb, "    %s %s|\"%s\"| %s\n",
			e.getNodeID(l.Source.Node.ID), arrow, e.escapeLabel(linkLabel(l)), e.getNodeID(l.Target.Node.ID))
	}

	// Header colours
	var styles []string
	for _, n := range g.Nodes {
		if n.Color == "" || n.Color == graph.DefaultColor {
			continue
		}
		styles = append(styles, fmt.Sprintf("    style %s fill:%s", e.getNodeID(n.ID), fillColor(n.Color)))
	}
	if len(styles) > 0 {
		sb.WriteString("\n")
		sb.WriteString(strings.Join(styles, "\n"))
		sb.WriteString("\n")
	}

	return sb.String(), nil
}

func (e *MermaidExporter) getNodeID(id graph.ID) string {
	return fmt.Sprintf("N%d", id)
}

// getNodeLabel joins the header and property lines with <br/>
func (e *MermaidExporter) getNodeLabel(n *graph.Node) string {
	lines := nodeLines(n)
	for i, line := range lines {
		lines[i] = e.escapeLabel(line)
	}
	return strings.Join(lines, "<br/>")
}

// escapeLabel makes a label safe inside a quoted Mermaid string
func (e *MermaidExporter) escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, "#quot;")
	label = strings.ReplaceAll(label, "<", "#lt;")
	label = strings.ReplaceAll(label, ">", "#gt;")
	return label
}

// GetFileExtension returns the recommended file extension
func (e *MermaidExporter) GetFileExtension() string {
	return ".mmd"
}

// GetFormatName returns the format name
func (e *MermaidExporter) GetFormatName() string {
	return "Mermaid"
}
