package board

// NeighborCountOfColor counts neighbors of c with the given color.
func (p *Position) NeighborCountOfColor(c Coord, col Color) int {
	n := 0
	for _, nc := range p.neighbors(c) {
		if p.cells[nc] == col {
			n++
		}
	}
	return n
}

// ImmediateLibertyCount counts the empty neighbors of a coordinate.
func (p *Position) ImmediateLibertyCount(c Coord) int {
	return p.NeighborCountOfColor(c, Empty)
}

func (p *Position) diagNeighbors(c Coord) [4]Coord {
	s := Coord(p.stride)
	return [4]Coord{c - s - 1, c - s + 1, c + s - 1, c + s + 1}
}

// IsEyelike reports whether every neighbor of c is eyeColor or off board.
func (p *Position) IsEyelike(c Coord, eyeColor Color) bool {
	return p.NeighborCountOfColor(c, eyeColor)+p.NeighborCountOfColor(c, OffBoard) == 4
}

// IsFalseEyelike reports whether enemy stones on the diagonals falsify an
// eye at c: two diagonal enemies in the middle of the board, or one at the
// edge or in the corner.
func (p *Position) IsFalseEyelike(c Coord, eyeColor Color) bool {
	enemy, off := 0, 0
	for _, d := range p.diagNeighbors(c) {
		switch p.cells[d] {
		case eyeColor.Other():
			enemy++
		case OffBoard:
			off++
		}
	}
	if off > 0 {
		enemy++
	}
	return enemy >= 2
}

// IsOnePointEye reports whether c is a true single-point eye for eyeColor.
func (p *Position) IsOnePointEye(c Coord, eyeColor Color) bool {
	return p.IsEyelike(c, eyeColor) && !p.IsFalseEyelike(c, eyeColor)
}

// LibertiesAfterMove computes how many liberties the group placing color at
// c would end up with, captures included. The position itself stays
// untouched; this backs the self-atari precondition at the service boundary.
func (p *Position) LibertiesAfterMove(color Color, c Coord) int {
	if p.cells[c] != Empty {
		return 0
	}

	merged := map[Coord]bool{c: true}
	var friends []Group
	var captured []Group
	seenFriend := map[Group]bool{}
	seenEnemy := map[Group]bool{}

	for _, n := range p.neighbors(c) {
		switch p.cells[n] {
		case color:
			g := p.group[n]
			if !seenFriend[g] {
				seenFriend[g] = true
				friends = append(friends, g)
				for _, s := range p.chains[g].stones {
					merged[s] = true
				}
			}
		case color.Other():
			g := p.group[n]
			if !seenEnemy[g] {
				seenEnemy[g] = true
				if p.LibertyCount(g) == 1 {
					// its last liberty is c, so it comes off
					captured = append(captured, g)
				}
			}
		}
	}

	libs := map[Coord]bool{}
	for _, n := range p.neighbors(c) {
		if p.cells[n] == Empty {
			libs[n] = true
		}
	}
	for _, g := range friends {
		for _, lib := range p.chains[g].libs {
			if lib != c {
				libs[lib] = true
			}
		}
	}
	for _, g := range captured {
		for _, s := range p.chains[g].stones {
			for _, n := range p.neighbors(s) {
				if merged[n] {
					libs[s] = true
					break
				}
			}
		}
	}
	return len(libs)
}

// IsSelfAtari reports whether playing color at c leaves the placing group
// with exactly one liberty.
func (p *Position) IsSelfAtari(color Color, c Coord) bool {
	return p.LibertiesAfterMove(color, c) == 1
}
