package terminal

import (
	"fmt"

	"blueprint/bridge"
	"blueprint/graph"
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	stylePanel   = tcell.StyleDefault
	styleHeading = tcell.StyleDefault.Bold(true).Reverse(true)
	styleButton  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	styleDim     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// touchIndicator fades from red to the panel background as a touch decays.
var touchIndicator = colorful.Color{R: 1}

// panelAction runs when a panel row is clicked.
type panelAction func(ctrl bool)

// Panel is the information column beside the canvas: tool buttons, the node
// list with touch indicators and the current selection.
type Panel struct {
	screen tcell.Screen
	br     *bridge.Bridge
	rect   graph.Rect
	rows   map[int]panelAction
	status string
}

// NewPanel creates a panel for br drawn on screen.
func NewPanel(screen tcell.Screen, br *bridge.Bridge) *Panel {
	return &Panel{screen: screen, br: br, rows: make(map[int]panelAction)}
}

// SetRect places the panel on the screen.
func (p *Panel) SetRect(r graph.Rect) {
	p.rect = r
}

// Rect returns where the panel is drawn.
func (p *Panel) Rect() graph.Rect {
	return p.rect
}

// SetStatus sets the line shown at the bottom of the panel.
func (p *Panel) SetStatus(s string) {
	p.status = s
}

// Status returns the bottom line.
func (p *Panel) Status() string {
	return p.status
}

// Click runs the action on the clicked row, if any.
func (p *Panel) Click(pos graph.Point, ctrl bool) bool {
	if !p.rect.Contains(pos) {
		return false
	}
	if act, ok := p.rows[pos.Y]; ok {
		act(ctrl)
		return true
	}
	return false
}

type panelWriter struct {
	p *Panel
	y int
}

func (w *panelWriter) line(s string, st tcell.Style, act panelAction) {
	r := w.p.rect
	if w.y >= r.Max.Y-1 {
		return
	}
	x := r.Min.X + 1
	for _, ch := range s {
		if x >= r.Max.X {
			break
		}
		w.p.screen.SetContent(x, w.y, ch, nil, st)
		x++
	}
	if act != nil {
		w.p.rows[w.y] = act
	}
	w.y++
}

// Draw paints the panel for the frame that just ran.
func (p *Panel) Draw() {
	r := p.rect
	if r.Empty() {
		return
	}
	clear(p.rows)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		p.screen.SetContent(r.Min.X, y, '│', nil, styleDim)
		for x := r.Min.X + 1; x < r.Max.X; x++ {
			p.screen.SetContent(x, y, ' ', nil, stylePanel)
		}
	}

	sess := p.br.Session()
	w := &panelWriter{p: p, y: r.Min.Y}
	w.line(fmt.Sprintf("Blueprint %.8s", sess.ID()), styleHeading, nil)
	w.line("[f] Zoom to content", styleButton, func(bool) { p.br.Engine().NavigateToContent() })
	check := " "
	if p.br.ShowOrdinals {
		check = "x"
	}
	w.line(fmt.Sprintf("[%s] Show ordinals", check), styleButton, func(bool) {
		p.br.ShowOrdinals = !p.br.ShowOrdinals
	})
	w.line("", stylePanel, nil)

	w.line("Nodes", styleHeading, nil)
	frame := p.br.LastFrame()
	for _, n := range sess.Nodes() {
		selected := frame != nil && frame.IsNodeSelected(n)
		mark := "  "
		if selected {
			mark = "> "
		}
		if n.HasSavedState() {
			mark = mark[:1] + "*"
		}
		y := w.y
		w.line(mark+p.br.Header(n), stylePanel, p.selectAction(n, selected))
		if sess.Touched(n) && y < r.Max.Y-1 {
			c := touchIndicator.BlendRgb(colorful.Color{}, sess.TouchProgress(n)).Clamped()
			cr, cg, cb := c.RGB255()
			p.screen.SetContent(r.Min.X+1, y, '▌', nil,
				stylePanel.Foreground(tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))))
		}
	}
	w.line("", stylePanel, nil)

	stats := p.br.Stats()
	w.line("Selection", styleHeading, nil)
	w.line("[Deselect All]", styleButton, func(bool) { sess.ClearSelection() })
	plural := "s"
	if stats.SelectionChanges == 1 {
		plural = ""
	}
	w.line(fmt.Sprintf("Current selection: (changed %d time%s)", stats.SelectionChanges, plural), stylePanel, nil)
	if frame != nil {
		for _, n := range frame.Nodes() {
			w.line("  • "+n.String(), stylePanel, nil)
		}
		for _, l := range frame.Links() {
			w.line("  • "+l.Name(), stylePanel, nil)
		}
	}

	if p.status != "" {
		w.y = r.Max.Y - 1
		x := r.Min.X + 1
		for _, ch := range p.status {
			if x >= r.Max.X {
				break
			}
			p.screen.SetContent(x, w.y, ch, nil, styleDim)
			x++
		}
	}
}

// selectAction selects n on click. Ctrl toggles n within the selection;
// a plain click selects only n and brings it into view.
func (p *Panel) selectAction(n *graph.Node, selected bool) panelAction {
	sess := p.br.Session()
	return func(ctrl bool) {
		switch {
		case ctrl && selected:
			sess.Deselect(n)
		case ctrl:
			sess.Select(n, true)
		default:
			sess.Select(n, false)
			sess.NavigateToSelection()
		}
	}
}
