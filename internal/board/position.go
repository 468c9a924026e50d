package board

import (
	"fmt"
	"strings"

	tacticserrors "go_tactics/internal/errors"
)

// Position is a read-only snapshot of a board. It is built once from a
// diagram and never mutated: groups and liberty lists are computed at
// construction by flood fill. There is no move execution here — callers
// that need "what happens after a move" use the derived queries below.
type Position struct {
	width  int
	height int
	stride int
	cells  []Color
	group  []Group
	chains map[Group]*chain
}

type chain struct {
	stones []Coord
	libs   []Coord
}

// FromDiagram parses rows of 'X' (black), 'O' (white) and '.' (empty).
// Spaces inside a row are ignored so diagrams can be written readably.
func FromDiagram(rows []string) (*Position, error) {
	if len(rows) == 0 {
		return nil, tacticserrors.ErrBadDiagram
	}

	parsed := make([]string, 0, len(rows))
	for _, row := range rows {
		parsed = append(parsed, strings.ReplaceAll(row, " ", ""))
	}

	width := len(parsed[0])
	if width == 0 {
		return nil, tacticserrors.ErrBadDiagram
	}
	for _, row := range parsed {
		if len(row) != width {
			return nil, fmt.Errorf("%w: ragged rows", tacticserrors.ErrBadDiagram)
		}
	}

	p := &Position{
		width:  width,
		height: len(parsed),
		stride: width + 2,
	}
	p.cells = make([]Color, p.stride*(p.height+2))
	p.group = make([]Group, len(p.cells))
	for i := range p.cells {
		p.cells[i] = OffBoard
	}

	for y, row := range parsed {
		for x := 0; x < width; x++ {
			c := p.coord(x, y)
			switch row[x] {
			case 'X', 'x':
				p.cells[c] = Black
			case 'O', 'o':
				p.cells[c] = White
			case '.':
				p.cells[c] = Empty
			default:
				return nil, fmt.Errorf("%w: bad cell %q at %d,%d", tacticserrors.ErrBadDiagram, row[x], x, y)
			}
		}
	}

	p.buildChains()
	return p, nil
}

func (p *Position) coord(x, y int) Coord {
	return Coord((y+1)*p.stride + x + 1)
}

// CoordXY returns the coordinate for board-local x,y (0-based, row 0 on top).
func (p *Position) CoordXY(x, y int) (Coord, error) {
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return Pass, tacticserrors.ErrBadCoordinates
	}
	return p.coord(x, y), nil
}

// XY is the inverse of CoordXY.
func (p *Position) XY(c Coord) (x, y int) {
	return int(c)%p.stride - 1, int(c)/p.stride - 1
}

// CoordFromSGF parses an SGF-style two-letter coordinate like "dd".
func (p *Position) CoordFromSGF(s string) (Coord, error) {
	if len(s) != 2 {
		return Pass, tacticserrors.ErrBadCoordinates
	}
	x := int(s[0] - 'a')
	y := int(s[1] - 'a')
	return p.CoordXY(x, y)
}

// SGFFromCoord renders a coordinate back to the two-letter form.
func (p *Position) SGFFromCoord(c Coord) string {
	if c == Pass {
		return ""
	}
	x, y := p.XY(c)
	return string([]byte{byte('a' + x), byte('a' + y)})
}

func (p *Position) Width() int  { return p.width }
func (p *Position) Height() int { return p.height }

// buildChains discovers groups by flood fill and collects their liberties.
func (p *Position) buildChains() {
	p.chains = make(map[Group]*chain)
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			c := p.coord(x, y)
			col := p.cells[c]
			if col != Black && col != White || p.group[c] != NoGroup {
				continue
			}

			id := Group(c)
			ch := &chain{}
			queue := []Coord{c}
			p.group[c] = id
			for len(queue) > 0 {
				s := queue[0]
				queue = queue[1:]
				ch.stones = append(ch.stones, s)
				for _, n := range p.neighbors(s) {
					if p.cells[n] == col && p.group[n] == NoGroup {
						p.group[n] = id
						queue = append(queue, n)
					}
				}
			}

			seen := make(map[Coord]bool)
			for _, s := range ch.stones {
				for _, n := range p.neighbors(s) {
					if p.cells[n] == Empty && !seen[n] {
						seen[n] = true
						ch.libs = append(ch.libs, n)
					}
				}
			}
			p.chains[id] = ch
		}
	}
}

func (p *Position) neighbors(c Coord) [4]Coord {
	s := Coord(p.stride)
	return [4]Coord{c - s, c - 1, c + 1, c + s}
}

// ColorAt returns the color of a cell, OffBoard for border cells.
func (p *Position) ColorAt(c Coord) Color {
	return p.cells[c]
}

// GroupAt returns the group occupying a cell, NoGroup for empty/border cells.
func (p *Position) GroupAt(c Coord) Group {
	return p.group[c]
}

func (p *Position) LibertyCount(g Group) int {
	if ch, ok := p.chains[g]; ok {
		return len(ch.libs)
	}
	return 0
}

// Liberties returns a copy of the group's liberty list.
func (p *Position) Liberties(g Group) []Coord {
	ch, ok := p.chains[g]
	if !ok {
		return nil
	}
	out := make([]Coord, len(ch.libs))
	copy(out, ch.libs)
	return out
}

// OtherLiberty returns the group's liberty distinct from exclude.
// Defined when the group has exactly two liberties.
func (p *Position) OtherLiberty(g Group, exclude Coord) Coord {
	ch, ok := p.chains[g]
	if !ok {
		return Pass
	}
	for _, lib := range ch.libs {
		if lib != exclude {
			return lib
		}
	}
	return Pass
}

// IsAdjacent reports whether two coordinates share a board edge.
func (p *Position) IsAdjacent(a, b Coord) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d == 1 || d == Coord(p.stride)
}

// ForEachNeighbor visits the 4 neighbors of an on-board coordinate, border
// cells included. The visitor returns false to stop early.
func (p *Position) ForEachNeighbor(c Coord, visit func(n Coord) bool) {
	for _, n := range p.neighbors(c) {
		if !visit(n) {
			return
		}
	}
}

func (p *Position) IsSingleStone(g Group) bool {
	ch, ok := p.chains[g]
	return ok && len(ch.stones) == 1
}

// SingleStone returns the coordinate of a single-stone group's stone.
func (p *Position) SingleStone(g Group) Coord {
	if ch, ok := p.chains[g]; ok && len(ch.stones) > 0 {
		return ch.stones[0]
	}
	return Pass
}

// String renders the position back to diagram form.
func (p *Position) String() string {
	var b strings.Builder
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			switch p.cells[p.coord(x, y)] {
			case Black:
				b.WriteByte('X')
			case White:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		if y != p.height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
