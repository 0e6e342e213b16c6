package terminal

import (
	"blueprint/graph"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

var (
	styleBase     = tcell.StyleDefault
	styleSelected = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleLink     = tcell.StyleDefault.Foreground(tcell.ColorSilver)
	styleAccept   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleReject   = tcell.StyleDefault.Foreground(tcell.ColorRed)
	stylePopup    = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	styleHot      = stylePopup.Reverse(true)
)

// hexColor parses "#rrggbb" or "#rrggbbaa" into a terminal colour and a
// readable foreground for text drawn on top of it.
func hexColor(hex string) (bg, fg tcell.Color, ok bool) {
	if len(hex) == 9 {
		hex = hex[:7]
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return tcell.ColorDefault, tcell.ColorDefault, false
	}
	r, g, b := c.RGB255()
	fg = tcell.ColorWhite
	if l, _, _ := c.Lab(); l > 0.6 {
		fg = tcell.ColorBlack
	}
	return tcell.NewRGBColor(int32(r), int32(g), int32(b)), fg, true
}

// anchor is the cell just outside the frame on a pin's row.
func (e *Engine) anchor(p pinBox) (graph.Point, bool) {
	n, ok := e.cur.byID[p.node]
	if !ok {
		return graph.Point{}, false
	}
	if p.dir == graph.Output {
		return graph.Point{X: n.rect.Max.X, Y: p.rect.Min.Y}, true
	}
	return graph.Point{X: n.rect.Min.X - 1, Y: p.rect.Min.Y}, true
}

// routeLinks lays every link out as a chain of adjacent cells. Forward links
// take one vertical jog halfway across; links running backwards drop below
// both nodes and come back.
func (e *Engine) routeLinks() {
	for _, l := range e.cur.links {
		sp, okS := e.cur.pins[l.source]
		tp, okT := e.cur.pins[l.target]
		if !okS || !okT {
			continue
		}
		s, okS := e.anchor(sp)
		t, okT := e.anchor(tp)
		if !okS || !okT {
			continue
		}
		var corners []graph.Point
		switch {
		case t.X >= s.X && s.Y == t.Y:
			corners = []graph.Point{s, t}
		case t.X >= s.X:
			mx := (s.X + t.X) / 2
			corners = []graph.Point{s, {X: mx, Y: s.Y}, {X: mx, Y: t.Y}, t}
		default:
			below := max(e.cur.byID[sp.node].rect.Max.Y, e.cur.byID[tp.node].rect.Max.Y)
			corners = []graph.Point{s, {X: s.X, Y: below}, {X: t.X, Y: below}, t}
		}
		e.cur.route[l.id] = walk(corners)
	}
}

// walk expands a polyline of axis-aligned corners into every cell it covers.
func walk(corners []graph.Point) []graph.Point {
	cells := []graph.Point{corners[0]}
	for i := 1; i < len(corners); i++ {
		at, to := cells[len(cells)-1], corners[i]
		for at != to {
			switch {
			case at.X < to.X:
				at.X++
			case at.X > to.X:
				at.X--
			case at.Y < to.Y:
				at.Y++
			default:
				at.Y--
			}
			cells = append(cells, at)
		}
	}
	return cells
}

func step(a, b graph.Point) (arms, arms) {
	switch {
	case b.X > a.X:
		return armE, armW
	case b.X < a.X:
		return armW, armE
	case b.Y > a.Y:
		return armS, armN
	default:
		return armN, armS
	}
}

func (e *Engine) set(p graph.Point, r rune, st tcell.Style, screen bool) {
	if screen {
		w, h := e.screen.Size()
		if p.X < 0 || p.Y < 0 || p.X >= w || p.Y >= h {
			return
		}
	} else {
		p = e.toScreen(p)
		if !e.viewport.Contains(p) {
			return
		}
	}
	e.screen.SetContent(p.X, p.Y, r, nil, st)
}

func (e *Engine) text(at graph.Point, s string, st tcell.Style, screen bool) {
	for _, r := range s {
		e.set(at, r, st, screen)
		at.X += max(runewidth.RuneWidth(r), 1)
	}
}

// tint recolours the background of the cells in r, keeping their runes.
func (e *Engine) tint(f fill) {
	bg, fg, ok := hexColor(f.color)
	if !ok {
		return
	}
	for y := f.rect.Min.Y; y < f.rect.Max.Y; y++ {
		for x := f.rect.Min.X; x < f.rect.Max.X; x++ {
			p := graph.Point{X: x, Y: y}
			if !f.screen {
				p = e.toScreen(p)
				if !e.viewport.Contains(p) {
					continue
				}
			}
			r, comb, st, _ := e.screen.GetContent(p.X, p.Y)
			e.screen.SetContent(p.X, p.Y, r, comb, st.Background(bg).Foreground(fg))
		}
	}
}

func (e *Engine) draw() {
	vp := e.viewport
	for y := vp.Min.Y; y < vp.Max.Y; y++ {
		for x := vp.Min.X; x < vp.Max.X; x++ {
			e.screen.SetContent(x, y, ' ', nil, styleBase)
		}
	}
	e.drawLinks()
	for _, n := range e.cur.nodes {
		e.drawNode(n)
	}
	for _, f := range e.cur.fills {
		e.tint(f)
	}
	e.drawDrag()
	if e.cur.label != nil {
		e.text(e.cur.label.rect.Min, " "+e.cur.text+" ", styleBase, true)
		e.tint(*e.cur.label)
	}
	e.drawPopup()
}

func (e *Engine) drawLinks() {
	cells := make(map[graph.Point]arms)
	owner := make(map[graph.Point]graph.ID)
	var order []graph.Point
	for _, l := range e.cur.links {
		route, ok := e.cur.route[l.id]
		if !ok {
			continue
		}
		mark := func(p graph.Point, a arms) {
			if _, seen := cells[p]; !seen {
				order = append(order, p)
			}
			cells[p] |= a
			owner[p] = l.id
		}
		// the ends reach into the port on the frame
		mark(route[0], e.portArm(l.source))
		mark(route[len(route)-1], e.portArm(l.target))
		for i := 1; i < len(route); i++ {
			a, b := step(route[i-1], route[i])
			mark(route[i-1], a)
			mark(route[i], b)
		}
	}
	for _, p := range order {
		st := styleLink
		if e.sel.has(owner[p]) {
			st = styleSelected
		}
		e.set(p, e.glyphs.line(cells[p]), st, false)
	}
}

func (e *Engine) portArm(pin graph.ID) arms {
	if e.cur.pins[pin].dir == graph.Output {
		return armW
	}
	return armE
}

func (e *Engine) drawNode(n *nodeBox) {
	g := e.glyphs
	r := n.rect
	st := styleBase
	if e.sel.has(n.id) {
		st = styleSelected
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			e.set(graph.Point{X: x, Y: y}, ' ', styleBase, false)
		}
	}
	right, bottom := r.Max.X-1, r.Max.Y-1
	for x := r.Min.X + 1; x < right; x++ {
		e.set(graph.Point{X: x, Y: r.Min.Y}, g.Horizontal, st, false)
		e.set(graph.Point{X: x, Y: bottom}, g.Horizontal, st, false)
	}
	for y := r.Min.Y + 1; y < bottom; y++ {
		e.set(graph.Point{X: r.Min.X, Y: y}, g.Vertical, st, false)
		e.set(graph.Point{X: right, Y: y}, g.Vertical, st, false)
	}
	e.set(r.Min, g.TopLeft, st, false)
	e.set(graph.Point{X: right, Y: r.Min.Y}, g.TopRight, st, false)
	e.set(graph.Point{X: r.Min.X, Y: bottom}, g.BottomLeft, st, false)
	e.set(graph.Point{X: right, Y: bottom}, g.BottomRight, st, false)

	for _, t := range n.texts {
		e.text(t.at, t.text, styleBase, false)
		if !t.pin.Valid() {
			continue
		}
		if e.cur.pins[t.pin].dir == graph.Input {
			e.set(graph.Point{X: r.Min.X, Y: t.at.Y}, g.PortIn, st, false)
		} else {
			e.set(graph.Point{X: right, Y: t.at.Y}, g.PortOut, st, false)
		}
	}
}

// drawDrag draws the pending link from its pin to the pointer.
func (e *Engine) drawDrag() {
	if !e.linkFrom.Valid() {
		return
	}
	pb, ok := e.cur.pins[e.linkFrom]
	if !ok {
		return
	}
	from, ok := e.anchor(pb)
	if !ok {
		return
	}
	st := styleLink
	switch e.linkMark {
	case 1:
		st = styleAccept
	case -1:
		st = styleReject
	}
	to := e.ScreenToCanvas(e.mouse)
	for _, p := range walk([]graph.Point{from, {X: to.X, Y: from.Y}, to}) {
		e.set(p, e.glyphs.Drag, st, false)
	}
}

func (e *Engine) drawPopup() {
	p := &e.popup
	if p.open == "" || len(p.lines) == 0 {
		return
	}
	width := 0
	for _, l := range p.lines {
		width = max(width, runewidth.StringWidth(l.text))
	}
	width += 4
	height := len(p.lines) + 2

	sw, sh := e.screen.Size()
	at := p.pos
	at.X = max(min(at.X, sw-width), 0)
	at.Y = max(min(at.Y, sh-height), 0)
	p.rect = graph.RectAt(at, width, height)

	g := e.glyphs
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			e.set(graph.Point{X: at.X + x, Y: at.Y + y}, ' ', stylePopup, true)
		}
	}
	for x := 1; x < width-1; x++ {
		e.set(graph.Point{X: at.X + x, Y: at.Y}, g.Horizontal, stylePopup, true)
		e.set(graph.Point{X: at.X + x, Y: at.Y + height - 1}, g.Horizontal, stylePopup, true)
	}
	for y := 1; y < height-1; y++ {
		e.set(graph.Point{X: at.X, Y: at.Y + y}, g.Vertical, stylePopup, true)
		e.set(graph.Point{X: at.X + width - 1, Y: at.Y + y}, g.Vertical, stylePopup, true)
	}
	e.set(at, g.TopLeft, stylePopup, true)
	e.set(graph.Point{X: at.X + width - 1, Y: at.Y}, g.TopRight, stylePopup, true)
	e.set(graph.Point{X: at.X, Y: at.Y + height - 1}, g.BottomLeft, stylePopup, true)
	e.set(graph.Point{X: at.X + width - 1, Y: at.Y + height - 1}, g.BottomRight, stylePopup, true)

	for i, l := range p.lines {
		y := at.Y + 1 + i
		switch l.kind {
		case lineSeparator:
			e.set(graph.Point{X: at.X, Y: y}, g.line(armN|armS|armE), stylePopup, true)
			for x := 1; x < width-1; x++ {
				e.set(graph.Point{X: at.X + x, Y: y}, g.Horizontal, stylePopup, true)
			}
			e.set(graph.Point{X: at.X + width - 1, Y: y}, g.line(armN|armS|armW), stylePopup, true)
		case lineItem:
			st := stylePopup
			if i == p.hot {
				st = styleHot
			}
			e.text(graph.Point{X: at.X + 1, Y: y}, " "+l.text+" ", st, true)
		default:
			e.text(graph.Point{X: at.X + 2, Y: y}, l.text, stylePopup, true)
		}
	}
}
