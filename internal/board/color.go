package board

import "fmt"

// Color of a board cell. Empty and OffBoard are pseudo-colors used for
// neighbor classification; they never own a tactical group.
type Color uint8

const (
	Empty Color = iota
	Black
	White
	OffBoard
)

// Other returns the opposing stone color. Only meaningful for Black/White.
func (c Color) Other() Color {
	switch c {
	case Black:
		return White
	case White:
		return Black
	}
	return c
}

func (c Color) String() string {
	switch c {
	case Empty:
		return "empty"
	case Black:
		return "black"
	case White:
		return "white"
	case OffBoard:
		return "offboard"
	}
	return "invalid"
}

// ColorFromString parses the single-letter color used in move payloads.
func ColorFromString(s string) (Color, error) {
	switch s {
	case "b", "B":
		return Black, nil
	case "w", "W":
		return White, nil
	}
	return Empty, fmt.Errorf("unknown color %q", s)
}

// Coord is a flat index into the padded cell array of a Position.
type Coord int

// Pass is the no-coordinate sentinel.
const Pass Coord = -1

// Group identifies a chain of stones. The id is the padded index of the
// chain's base stone; 0 (a border cell) means no group.
type Group int32

const NoGroup Group = 0
