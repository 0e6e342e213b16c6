package engine

import "blueprint/graph"

// ItemSpacing is the gap, in cells, SameLine leaves between two items.
const ItemSpacing = 1

type group struct {
	start      graph.Point
	sameLine   bool
	lineStart  int
	lineBottom int
	extent     graph.Rect
}

// Cursor is the immediate-mode layout cursor behind Surface. Items flow top to
// bottom; SameLine puts the next item beside the previous one; groups collapse
// everything placed inside them into a single item.
type Cursor struct {
	pos        graph.Point
	lineStart  int
	lineBottom int
	last       graph.Rect
	sameLine   bool
	groups     []group
}

// Reset moves the cursor to origin and drops all open groups.
func (c *Cursor) Reset(origin graph.Point) {
	c.pos = origin
	c.lineStart = origin.X
	c.lineBottom = origin.Y
	c.last = graph.Rect{Min: origin, Max: origin}
	c.sameLine = false
	c.groups = c.groups[:0]
}

// Pos returns where the next item will go if SameLine is not requested.
func (c *Cursor) Pos() graph.Point {
	return c.pos
}

// Depth returns the number of open groups.
func (c *Cursor) Depth() int {
	return len(c.groups)
}

// SameLine places the next item to the right of the last one.
func (c *Cursor) SameLine() {
	c.sameLine = true
}

func (c *Cursor) next() (graph.Point, bool) {
	if c.sameLine {
		c.sameLine = false
		return graph.Point{X: c.last.Max.X + ItemSpacing, Y: c.last.Min.Y}, true
	}
	return c.pos, false
}

// Place reserves a width x height item and returns its rect.
func (c *Cursor) Place(width, height int) graph.Rect {
	at, same := c.next()
	r := graph.RectAt(at, width, height)
	c.commit(r, same)
	return r
}

func (c *Cursor) commit(r graph.Rect, same bool) {
	c.last = r
	if same {
		c.lineBottom = max(c.lineBottom, r.Max.Y)
	} else {
		c.lineBottom = r.Max.Y
	}
	c.pos = graph.Point{X: c.lineStart, Y: c.lineBottom}
	if n := len(c.groups); n > 0 {
		c.groups[n-1].extent = c.groups[n-1].extent.Union(r)
	}
}

// BeginGroup opens a group at the next item position.
func (c *Cursor) BeginGroup() {
	at, same := c.next()
	c.groups = append(c.groups, group{
		start:      at,
		sameLine:   same,
		lineStart:  c.lineStart,
		lineBottom: c.lineBottom,
	})
	c.lineStart = at.X
	c.lineBottom = at.Y
	c.pos = at
}

// EndGroup closes the innermost group and returns its extent, which also
// becomes the last item. Unbalanced calls return the last item unchanged.
func (c *Cursor) EndGroup() graph.Rect {
	n := len(c.groups)
	if n == 0 {
		return c.last
	}
	g := c.groups[n-1]
	c.groups = c.groups[:n-1]

	r := g.extent
	if r.Empty() {
		r = graph.Rect{Min: g.start, Max: g.start}
	}
	c.lineStart = g.lineStart
	c.lineBottom = g.lineBottom
	c.commit(r, g.sameLine)
	return r
}

// ItemRect returns the extent of the last completed item.
func (c *Cursor) ItemRect() graph.Rect {
	return c.last
}

// SetItemRect replaces the last item, e.g. once a frame has been drawn around it.
func (c *Cursor) SetItemRect(r graph.Rect) {
	c.last = r
}
