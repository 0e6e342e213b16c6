// Package export writes the live graph out in text-based diagram formats
package export

import (
	"errors"
	"fmt"
	"strings"

	"blueprint/graph"
)

// ErrEmptyGraph is returned when there is nothing to export.
var ErrEmptyGraph = errors.New("graph has no nodes")

// Format represents an export format
type Format string

const (
	// FormatMermaid exports to a Mermaid flowchart
	FormatMermaid Format = "mermaid"
	// FormatDOT exports to Graphviz DOT with one record port per pin
	FormatDOT Format = "dot"
	// FormatD2 exports to D2 syntax
	FormatD2 Format = "d2"
)

// Exporter interface for different export formats
type Exporter interface {
	// Export converts a graph snapshot to the target format
	Export(g graph.Snapshot) (string, error)
	// GetFileExtension returns the recommended file extension for this format
	GetFileExtension() string
	// GetFormatName returns a human-readable name for this format
	GetFormatName() string
}

// NewExporter creates an exporter for the specified format
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatMermaid:
		return NewMermaidExporter(), nil
	case FormatDOT:
		return NewGraphvizExporter(), nil
	case FormatD2:
		return NewD2Exporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "mermaid", "mmd":
		return FormatMermaid, nil
	case "dot", "graphviz", "gv":
		return FormatDOT, nil
	case "d2":
		return FormatD2, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// GetAvailableFormats returns a list of all available export formats
func GetAvailableFormats() []Format {
	return []Format{
		FormatMermaid,
		FormatDOT,
		FormatD2,
	}
}

// GetFormatDescriptions returns human-readable descriptions of all formats
func GetFormatDescriptions() map[Format]string {
	return map[Format]string{
		FormatMermaid: "Mermaid flowchart (for Markdown)",
		FormatDOT:     "Graphviz DOT with pin ports",
		FormatD2:      "D2 diagram syntax",
	}
}

// checkSnapshot rejects empty graphs and returns the set of exported node ids.
// Links whose nodes are not in the snapshot are skipped by every exporter.
func checkSnapshot(g graph.Snapshot) (map[graph.ID]bool, error) {
	if len(g.Nodes) == 0 {
		return nil, ErrEmptyGraph
	}
	ids := make(map[graph.ID]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		ids[n.ID] = true
	}
	return ids, nil
}

func exportable(ids map[graph.ID]bool, l *graph.Link) bool {
	return l.Source != nil && l.Target != nil &&
		ids[l.Source.Node.ID] && ids[l.Target.Node.ID]
}

// linkLabel names both ends of a link.
func linkLabel(l *graph.Link) string {
	return l.Source.Label + " → " + l.Target.Label
}

// isFlow reports whether a link carries execution flow rather than data.
func isFlow(l *graph.Link) bool {
	return l.Source.Type == graph.PinFlow
}

// nodeLines is the header followed by one line per property.
func nodeLines(n *graph.Node) []string {
	lines := []string{n.Label}
	for _, p := range n.Props.Entries() {
		lines = append(lines, p.Key+": "+graph.FormatValue(p.Value))
	}
	return lines
}

// fillColor drops the alpha channel some descriptors carry.
func fillColor(hex string) string {
	if len(hex) == 9 {
		return hex[:7]
	}
	return hex
}
