package export

import (
	"fmt"
	"strings"

	"blueprint/graph"
)

// D2Exporter exports graphs to D2 syntax
type D2Exporter struct{}

// NewD2Exporter creates a new D2 exporter
func NewD2Exporter() *D2Exporter {
	return &D2Exporter{}
}

// Export converts the graph to D2 syntax
func (e *D2Exporter) Export(g graph.Snapshot) (string, error) {
	ids, err := checkSnapshot(g)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("direction: right\n\n")

	for _, n := range g.Nodes {
		nodeID := e.getNodeID(n.ID)
		fmt.Fprintf(&sb, "%s: %s\n", nodeID, e.escapeLabel(strings.Join(nodeLines(n), `\n`)))
		if n.Color != "" && n.Color != graph.DefaultColor {
			fmt.Fprintf(&sb, "%s.style.fill: \"%s\"\n", nodeID, fillColor(n.Color))
		}
	}

	if len(g.Links) > 0 {
		sb.WriteString("\n")
	}
	for _, l := range g.Links {
		if !exportable(ids, l) {
			continue
		}
		fmt.Fprintf(&sb, "%s -> %s: %s\n",
			e.getNodeID(l.Source.Node.ID), e.getNodeID(l.Target.Node.ID), e.escapeLabel(linkLabel(l)))
		if isFlow(l) {
			fmt.Fprintf(&sb, "(%s -> %s)[0].style.stroke-width: 3\n",
				e.getNodeID(l.Source.Node.ID), e.getNodeID(l.Target.Node.ID))
		}
	}

	return sb.String(), nil
}

// getNodeID returns a valid D2 node identifier
func (e *D2Exporter) getNodeID(id graph.ID) string {
	return fmt.Sprintf("node_%d", id)
}

// escapeLabel quotes labels containing characters the D2 parser treats as syntax
func (e *D2Exporter) escapeLabel(label string) string {
	if !strings.ContainsAny(label, ":-><|{}[]()\"#;") {
		return label
	}
	label = strings.ReplaceAll(label, `"`, `\"`)
	return fmt.Sprintf("\"%s\"", label)
}

// GetFileExtension returns the recommended file extension
func (e *D2Exporter) GetFileExtension() string {
	return ".d2"
}

// GetFormatName returns the format name
func (e *D2Exporter) GetFormatName() string {
	return "D2"
}
