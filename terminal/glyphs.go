package terminal

// arms is the set of directions a line cell reaches out to.
type arms uint8

const (
	armN arms = 1 << iota
	armE
	armS
	armW
)

// Glyphs is the character set used to draw node frames, pin ports and links.
type Glyphs struct {
	TopLeft     rune
	TopRight    rune
	BottomLeft  rune
	BottomRight rune
	Horizontal  rune
	Vertical    rune
	PortIn      rune // left frame cell on an input pin row
	PortOut     rune // right frame cell on an output pin row
	Marker      rune // pin bullet
	Drag        rune // pending link while dragging

	lines map[arms]rune
}

// Predefined glyph sets
var (
	// RoundedGlyphs uses Unicode box drawing with rounded corners
	RoundedGlyphs = Glyphs{
		TopLeft:     '╭',
		TopRight:    '╮',
		BottomLeft:  '╰',
		BottomRight: '╯',
		Horizontal:  '─',
		Vertical:    '│',
		PortIn:      '┤',
		PortOut:     '├',
		Marker:      '●',
		Drag:        '·',
		lines: map[arms]rune{
			armE | armW:               '─',
			armN | armS:               '│',
			armE | armS:               '╭',
			armW | armS:               '╮',
			armE | armN:               '╰',
			armW | armN:               '╯',
			armN | armS | armE:        '├',
			armN | armS | armW:        '┤',
			armE | armW | armS:        '┬',
			armE | armW | armN:        '┴',
			armN | armE | armS | armW: '┼',
		},
	}

	// ASCIIGlyphs uses plain ASCII characters
	ASCIIGlyphs = Glyphs{
		TopLeft:     '+',
		TopRight:    '+',
		BottomLeft:  '+',
		BottomRight: '+',
		Horizontal:  '-',
		Vertical:    '|',
		PortIn:      '+',
		PortOut:     '+',
		Marker:      'o',
		Drag:        '.',
		lines: map[arms]rune{
			armE | armW: '-',
			armN | armS: '|',
		},
	}
)

// line returns the glyph joining the given arms. Stubs with a single arm are
// drawn as straight lines.
func (g Glyphs) line(a arms) rune {
	switch a {
	case armE, armW:
		a = armE | armW
	case armN, armS:
		a = armN | armS
	}
	if r, ok := g.lines[a]; ok {
		return r
	}
	if g.TopLeft == '+' {
		return '+'
	}
	return g.lines[armN|armE|armS|armW]
}
