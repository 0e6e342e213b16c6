// Package graph contains the node graph object model: identifiers, nodes, pins and links.
// Nothing in this package draws or talks to the layout engine.
package graph

import "fmt"

// ID addresses a node, pin or link. IDs are shared across all object kinds.
type ID int64

// None is the reserved "no object" identifier.
const None ID = 0

// Valid reports whether the id can name an object. Zero and negatives are reserved.
func (id ID) Valid() bool {
	return id > 0
}

// Point represents a 2D coordinate in terminal cells.
type Point struct {
	X, Y int
}

// Add returns the sum of two points.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect represents a rectangular area. Max is exclusive.
type Rect struct {
	Min, Max Point
}

// RectAt returns a rect of the given size anchored at p.
func RectAt(p Point, width, height int) Rect {
	return Rect{Min: p, Max: Point{X: p.X + width, Y: p.Y + height}}
}

// Width returns the width of the rect.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X
}

// Height returns the height of the rect.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y
}

// Empty reports whether the rect covers no cells.
func (r Rect) Empty() bool {
	return r.Width() <= 0 || r.Height() <= 0
}

// Contains checks if a point is within the rect.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X &&
		p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Union returns the smallest rect covering both r and o. Empty rects are ignored.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Rect{
		Min: Point{X: min(r.Min.X, o.Min.X), Y: min(r.Min.Y, o.Min.Y)},
		Max: Point{X: max(r.Max.X, o.Max.X), Y: max(r.Max.Y, o.Max.Y)},
	}
}

// Inset shrinks the rect by n cells on every side.
func (r Rect) Inset(n int) Rect {
	return Rect{
		Min: Point{X: r.Min.X + n, Y: r.Min.Y + n},
		Max: Point{X: r.Max.X - n, Y: r.Max.Y - n},
	}
}

// Direction is the side of a node a pin lives on.
type Direction int

const (
	Input Direction = iota
	Output
)

// String returns the string representation of a Direction.
func (d Direction) String() string {
	switch d {
	case Input:
		return "input"
	case Output:
		return "output"
	default:
		return "unknown"
	}
}

// ParseDirection converts "input"/"in" and "output"/"out" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "input", "in":
		return Input, nil
	case "output", "out":
		return Output, nil
	default:
		return Input, fmt.Errorf("unknown pin direction: %q", s)
	}
}

// PinType tags the kind of data that flows through a pin.
type PinType string

const (
	PinFlow     PinType = "flow"
	PinBool     PinType = "bool"
	PinInt      PinType = "int"
	PinFloat    PinType = "float"
	PinString   PinType = "string"
	PinObject   PinType = "object"
	PinFunction PinType = "function"
)

// PinTypes returns every known pin type.
func PinTypes() []PinType {
	return []PinType{PinFlow, PinBool, PinInt, PinFloat, PinString, PinObject, PinFunction}
}

// ParsePinType converts a string to a PinType
func ParsePinType(s string) (PinType, error) {
	switch s {
	case "flow":
		return PinFlow, nil
	case "bool":
		return PinBool, nil
	case "int":
		return PinInt, nil
	case "float":
		return PinFloat, nil
	case "string", "str":
		return PinString, nil
	case "object", "obj":
		return PinObject, nil
	case "function", "func":
		return PinFunction, nil
	default:
		return "", fmt.Errorf("unknown pin type: %q", s)
	}
}

// Section names a region of a rendered node.
type Section int

const (
	SectionNode Section = iota
	SectionHeader
	SectionContent
	SectionInputs
	SectionMiddle
	SectionOutputs

	numSections
)

// String returns the section name.
func (s Section) String() string {
	switch s {
	case SectionNode:
		return "node"
	case SectionHeader:
		return "header"
	case SectionContent:
		return "content"
	case SectionInputs:
		return "inputs"
	case SectionMiddle:
		return "middle"
	case SectionOutputs:
		return "outputs"
	default:
		return "unknown"
	}
}

// Bounds caches the screen-space extent of each node section from the last render pass.
type Bounds [numSections]Rect

// Get returns the rect recorded for a section.
func (b *Bounds) Get(s Section) Rect {
	if s < 0 || s >= numSections {
		return Rect{}
	}
	return b[s]
}

// Set records the rect for a section.
func (b *Bounds) Set(s Section, r Rect) {
	if s < 0 || s >= numSections {
		return
	}
	b[s] = r
}
