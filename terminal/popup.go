package terminal

import (
	"blueprint/graph"
	"github.com/gdamore/tcell/v2"
)

type lineKind int

const (
	lineText lineKind = iota
	lineSeparator
	lineItem
)

type popupLine struct {
	kind lineKind
	text string
}

// popupState tracks the one open popup. Its lines are rebuilt every frame by
// the caller; picks made between frames are answered by MenuItem.
type popupState struct {
	open   string
	pos    graph.Point
	active bool
	lines  []popupLine
	drawn  []popupLine
	rect   graph.Rect
	hot    int
	choice int
	picked bool
}

func (p *popupState) close() {
	p.open = ""
	p.hot = -1
	p.choice = -1
}

func (p *popupState) endFrame() {
	p.drawn = p.lines
	p.lines = nil
	p.choice = -1
	if p.open == "" {
		p.drawn = nil
		p.rect = graph.Rect{}
	}
}

func (p *popupState) clickRow(row int) {
	if row >= 0 && row < len(p.drawn) && p.drawn[row].kind == lineItem {
		p.hot = row
		p.choice = row
	}
}

// step moves the highlight to the next item in direction dir.
func (p *popupState) step(dir int) {
	n := len(p.drawn)
	if n == 0 {
		return
	}
	i := p.hot
	for range n {
		i += dir
		if i < 0 {
			i = n - 1
		} else if i >= n {
			i = 0
		}
		if p.drawn[i].kind == lineItem {
			p.hot = i
			return
		}
	}
}

func (p *popupState) handleKey(ev *tcell.EventKey) bool {
	if p.open == "" {
		return false
	}
	switch ev.Key() {
	case tcell.KeyUp:
		p.step(-1)
	case tcell.KeyDown:
		p.step(1)
	case tcell.KeyEnter:
		if p.hot >= 0 {
			p.choice = p.hot
		}
	case tcell.KeyEscape:
		p.close()
	default:
		return false
	}
	return true
}

// OpenPopup opens a popup at the pointer.
func (e *Engine) OpenPopup(name string) {
	e.popup.close()
	e.popup.open = name
	e.popup.pos = e.mouse
	e.popup.drawn = nil
}

// PopupPosition returns where the open popup was opened, in screen space.
func (e *Engine) PopupPosition() graph.Point {
	return e.popup.pos
}

// OpenPopupName returns the name of the open popup, or "".
func (e *Engine) OpenPopupName() string {
	return e.popup.open
}

// ClosePopup dismisses the open popup.
func (e *Engine) ClosePopup() {
	e.popup.close()
}

// BeginPopup reports whether the named popup is open.
func (e *Engine) BeginPopup(name string) bool {
	if e.popup.open != name || name == "" {
		return false
	}
	e.popup.active = true
	e.popup.picked = false
	e.popup.lines = e.popup.lines[:0]
	return true
}

// PopupText adds a line of text.
func (e *Engine) PopupText(s string) {
	if e.popup.active {
		e.popup.lines = append(e.popup.lines, popupLine{kind: lineText, text: s})
	}
}

// Separator adds a rule.
func (e *Engine) Separator() {
	if e.popup.active {
		e.popup.lines = append(e.popup.lines, popupLine{kind: lineSeparator})
	}
}

// MenuItem adds a choice and reports whether it was picked since the last frame.
func (e *Engine) MenuItem(label string) bool {
	if !e.popup.active {
		return false
	}
	i := len(e.popup.lines)
	e.popup.lines = append(e.popup.lines, popupLine{kind: lineItem, text: label})
	if i == e.popup.choice && !e.popup.picked {
		e.popup.picked = true
		return true
	}
	return false
}

// EndPopup closes the popup scope. A pick closes the popup.
func (e *Engine) EndPopup() {
	e.popup.active = false
	if e.popup.picked {
		e.popup.open = ""
		e.popup.hot = -1
	}
}
