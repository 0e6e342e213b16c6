package validation

import (
	"fmt"
	"strings"
)

// arms is the set of directions a box-drawing glyph reaches out to.
type arms uint8

const (
	north arms = 1 << iota
	east
	south
	west
)

func (a arms) has(b arms) bool { return a&b != 0 }

var dirNames = map[arms]string{north: "north", east: "east", south: "south", west: "west"}

func opposite(a arms) arms {
	switch a {
	case north:
		return south
	case south:
		return north
	case east:
		return west
	default:
		return east
	}
}

var unicodeGlyphs = map[rune]arms{
	'─': east | west, '━': east | west,
	'│': north | south, '┃': north | south,
	'┌': east | south, '╭': east | south,
	'┐': west | south, '╮': west | south,
	'└': east | north, '╰': east | north,
	'┘': west | north, '╯': west | north,
	'├': north | south | east,
	'┤': north | south | west,
	'┬': east | west | south,
	'┴': east | west | north,
	'┼': north | east | south | west,
	'▶': west, '▷': west,
	'◀': east, '◁': east,
	'▲': south, '△': south,
	'▼': north, '▽': north,
}

var asciiGlyphs = map[rune]arms{
	'-': east | west,
	'|': north | south,
	'+': north | east | south | west,
}

// CellError is a badly joined glyph on the rendered canvas.
type CellError struct {
	X, Y    int
	Char    rune
	Context string
	Message string
}

func (e CellError) String() string {
	return fmt.Sprintf("(%d,%d) '%c' [%s]: %s", e.X, e.Y, e.Char, e.Context, e.Message)
}

// LineValidator checks that the line glyphs on a rendered canvas join up.
// Every arm of a glyph must meet either blank space, text, or a glyph with the
// matching arm pointing back.
type LineValidator struct {
	allowASCII bool
	strictMode bool
}

// NewLineValidator accepts ASCII line glyphs mixed with Unicode ones.
func NewLineValidator() *LineValidator {
	return &LineValidator{allowASCII: true}
}

// SetStrictMode also reports glyphs that touch a neighbour's arm with no arm of their own.
func (v *LineValidator) SetStrictMode(strict bool) {
	v.strictMode = strict
}

// SetAllowASCII controls whether -, | and + count as line glyphs.
func (v *LineValidator) SetAllowASCII(allow bool) {
	v.allowASCII = allow
}

func (v *LineValidator) glyph(r rune) (arms, bool) {
	if a, ok := unicodeGlyphs[r]; ok {
		return a, true
	}
	if v.allowASCII {
		a, ok := asciiGlyphs[r]
		return a, ok
	}
	return 0, false
}

// Validate checks a canvas given as newline-separated rows.
func (v *LineValidator) Validate(canvas string) []CellError {
	rows := strings.Split(strings.TrimRight(canvas, "\n"), "\n")
	grid := make([][]rune, len(rows))
	for i, row := range rows {
		grid[i] = []rune(row)
	}
	return v.ValidateGrid(grid)
}

// ValidateGrid checks a canvas given as rows of runes.
func (v *LineValidator) ValidateGrid(grid [][]rune) []CellError {
	var errs []CellError
	at := func(x, y int) rune {
		if y < 0 || y >= len(grid) || x < 0 || x >= len(grid[y]) {
			return ' '
		}
		return grid[y][x]
	}
	step := map[arms][2]int{north: {0, -1}, east: {1, 0}, south: {0, 1}, west: {-1, 0}}

	for y := range grid {
		for x, ch := range grid[y] {
			mine, ok := v.glyph(ch)
			if !ok {
				continue
			}
			for _, dir := range []arms{north, east, south, west} {
				d := step[dir]
				nb := at(x+d[0], y+d[1])
				theirs, isGlyph := v.glyph(nb)
				if !isGlyph {
					continue
				}
				back := theirs.has(opposite(dir))
				switch {
				case mine.has(dir) && !back && !isArrow(nb):
					errs = append(errs, CellError{
						X: x, Y: y, Char: ch,
						Context: fmt.Sprintf("%s=%c", dirNames[dir], nb),
						Message: fmt.Sprintf("line cannot connect to %c on the %s", nb, dirNames[dir]),
					})
				case v.strictMode && !mine.has(dir) && back:
					errs = append(errs, CellError{
						X: x, Y: y, Char: ch,
						Context: fmt.Sprintf("%s=%c", dirNames[dir], nb),
						Message: fmt.Sprintf("%c on the %s points into a glyph with no arm there", nb, dirNames[dir]),
					})
				}
			}
		}
	}
	return errs
}

// Arrow heads sit at pin markers and may face a line end-on.
func isArrow(r rune) bool {
	switch r {
	case '▶', '▷', '◀', '◁', '▲', '△', '▼', '▽':
		return true
	}
	return false
}
