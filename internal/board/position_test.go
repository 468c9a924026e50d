package board

import (
	"errors"
	"strings"
	"testing"

	tacticserrors "go_tactics/internal/errors"
)

func mustPosition(t *testing.T, rows []string) *Position {
	t.Helper()
	p, err := FromDiagram(rows)
	if err != nil {
		t.Fatalf("FromDiagram: %v", err)
	}
	return p
}

func at(t *testing.T, p *Position, x, y int) Coord {
	t.Helper()
	c, err := p.CoordXY(x, y)
	if err != nil {
		t.Fatalf("CoordXY(%d,%d): %v", x, y, err)
	}
	return c
}

func TestFromDiagramErrors(t *testing.T) {
	cases := []struct {
		name string
		rows []string
	}{
		{"no rows", nil},
		{"empty row", []string{""}},
		{"ragged rows", []string{"XX", "X"}},
		{"bad cell", []string{"X?"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := FromDiagram(tc.rows); !errors.Is(err, tacticserrors.ErrBadDiagram) {
				t.Fatalf("err = %v, want ErrBadDiagram", err)
			}
		})
	}
}

func TestGroupsAndLiberties(t *testing.T) {
	p := mustPosition(t, []string{
		"X X . .",
		"X . X .",
		". . . .",
	})

	g := p.GroupAt(at(t, p, 0, 0))
	if g == NoGroup {
		t.Fatal("no group at occupied cell")
	}
	for _, c := range []Coord{at(t, p, 1, 0), at(t, p, 0, 1)} {
		if p.GroupAt(c) != g {
			t.Fatalf("connected stones carry different group ids")
		}
	}
	if p.LibertyCount(g) != 3 {
		t.Fatalf("LibertyCount = %d, want 3", p.LibertyCount(g))
	}
	if p.IsSingleStone(g) {
		t.Fatal("three stone group reported as single stone")
	}

	lone := p.GroupAt(at(t, p, 2, 1))
	if lone == g {
		t.Fatal("diagonal stones merged into one group")
	}
	if p.LibertyCount(lone) != 4 {
		t.Fatalf("lone LibertyCount = %d, want 4", p.LibertyCount(lone))
	}
	if !p.IsSingleStone(lone) {
		t.Fatal("single stone not detected")
	}
	if p.SingleStone(lone) != at(t, p, 2, 1) {
		t.Fatal("SingleStone returned wrong coordinate")
	}

	if p.GroupAt(at(t, p, 3, 2)) != NoGroup {
		t.Fatal("empty cell carries a group")
	}
	if p.ColorAt(at(t, p, 0, 0)) != Black || p.ColorAt(at(t, p, 3, 2)) != Empty {
		t.Fatal("ColorAt mismatch")
	}
}

func TestOtherLiberty(t *testing.T) {
	p := mustPosition(t, []string{". X X ."})
	g := p.GroupAt(at(t, p, 1, 0))
	a, b := at(t, p, 0, 0), at(t, p, 3, 0)
	if got := p.OtherLiberty(g, a); got != b {
		t.Fatalf("OtherLiberty = %v, want %v", got, b)
	}
	if got := p.OtherLiberty(g, b); got != a {
		t.Fatalf("OtherLiberty = %v, want %v", got, a)
	}
}

func TestAdjacency(t *testing.T) {
	p := mustPosition(t, []string{
		". . .",
		". . .",
	})
	a, right, below, diag := at(t, p, 1, 0), at(t, p, 2, 0), at(t, p, 1, 1), at(t, p, 2, 1)
	if !p.IsAdjacent(a, right) || !p.IsAdjacent(a, below) {
		t.Fatal("orthogonal neighbors not adjacent")
	}
	if p.IsAdjacent(a, diag) || p.IsAdjacent(a, a) {
		t.Fatal("diagonal or identical coordinates reported adjacent")
	}
}

func TestEyePredicates(t *testing.T) {
	t.Run("center eye", func(t *testing.T) {
		p := mustPosition(t, []string{
			". X . .",
			"X . X .",
			". X . .",
		})
		c := at(t, p, 1, 1)
		if !p.IsEyelike(c, Black) || p.IsFalseEyelike(c, Black) || !p.IsOnePointEye(c, Black) {
			t.Fatal("center point should be a true eye")
		}
	})

	t.Run("center eye falsified by two diagonals", func(t *testing.T) {
		p := mustPosition(t, []string{
			". X O .",
			"X . X .",
			". X O .",
		})
		c := at(t, p, 1, 1)
		if !p.IsFalseEyelike(c, Black) || p.IsOnePointEye(c, Black) {
			t.Fatal("two diagonal enemies should falsify the eye")
		}
	})

	t.Run("edge eye", func(t *testing.T) {
		p := mustPosition(t, []string{
			"X . X .",
			". X . .",
		})
		c := at(t, p, 1, 0)
		if !p.IsOnePointEye(c, Black) {
			t.Fatal("edge point with clean diagonals should be an eye")
		}
	})

	t.Run("corner eye falsified by one diagonal", func(t *testing.T) {
		p := mustPosition(t, []string{
			". X . .",
			"X O . .",
		})
		c := at(t, p, 0, 0)
		if !p.IsEyelike(c, Black) {
			t.Fatal("corner point should be eyelike")
		}
		if !p.IsFalseEyelike(c, Black) || p.IsOnePointEye(c, Black) {
			t.Fatal("one diagonal enemy in the corner should falsify the eye")
		}
	})
}

func TestNeighborCounts(t *testing.T) {
	p := mustPosition(t, []string{
		"O X . .",
		". . . .",
	})
	c := at(t, p, 0, 1)
	if got := p.NeighborCountOfColor(c, White); got != 1 {
		t.Fatalf("white neighbors = %d, want 1", got)
	}
	if got := p.NeighborCountOfColor(c, OffBoard); got != 2 {
		t.Fatalf("offboard neighbors = %d, want 2", got)
	}
	if got := p.ImmediateLibertyCount(c); got != 1 {
		t.Fatalf("immediate liberties = %d, want 1", got)
	}
}

func TestForEachNeighborEarlyStop(t *testing.T) {
	p := mustPosition(t, []string{
		". . .",
		". . .",
	})
	visited := 0
	p.ForEachNeighbor(at(t, p, 1, 1), func(Coord) bool {
		visited++
		return visited < 2
	})
	if visited != 2 {
		t.Fatalf("visited %d neighbors, want early stop after 2", visited)
	}
}

func TestLibertiesAfterMove(t *testing.T) {
	t.Run("capture frees liberties", func(t *testing.T) {
		p := mustPosition(t, []string{
			"O X",
			". .",
		})
		if got := p.LibertiesAfterMove(Black, at(t, p, 0, 1)); got != 2 {
			t.Fatalf("LibertiesAfterMove = %d, want 2", got)
		}
	})

	t.Run("merging into self-atari", func(t *testing.T) {
		p := mustPosition(t, []string{
			". X",
			"X .",
		})
		c := at(t, p, 0, 0)
		if got := p.LibertiesAfterMove(Black, c); got != 1 {
			t.Fatalf("LibertiesAfterMove = %d, want 1", got)
		}
		if !p.IsSelfAtari(Black, c) {
			t.Fatal("merge to one liberty not reported as self-atari")
		}
	})

	t.Run("suicide", func(t *testing.T) {
		p := mustPosition(t, []string{
			". X",
			"X .",
		})
		if got := p.LibertiesAfterMove(White, at(t, p, 0, 0)); got != 0 {
			t.Fatalf("LibertiesAfterMove = %d, want 0", got)
		}
	})

	t.Run("occupied point", func(t *testing.T) {
		p := mustPosition(t, []string{"X ."})
		if got := p.LibertiesAfterMove(Black, at(t, p, 0, 0)); got != 0 {
			t.Fatalf("LibertiesAfterMove = %d, want 0", got)
		}
	})
}

func TestCoordinates(t *testing.T) {
	p := mustPosition(t, []string{
		". . . .",
		". . . .",
		". . . .",
	})

	if _, err := p.CoordXY(4, 0); !errors.Is(err, tacticserrors.ErrBadCoordinates) {
		t.Fatalf("out of range x: err = %v", err)
	}
	if _, err := p.CoordXY(0, -1); !errors.Is(err, tacticserrors.ErrBadCoordinates) {
		t.Fatalf("out of range y: err = %v", err)
	}

	c := at(t, p, 1, 2)
	if x, y := p.XY(c); x != 1 || y != 2 {
		t.Fatalf("XY = %d,%d, want 1,2", x, y)
	}

	sgf, err := p.CoordFromSGF("bc")
	if err != nil {
		t.Fatalf("CoordFromSGF: %v", err)
	}
	if sgf != c {
		t.Fatalf("CoordFromSGF = %v, want %v", sgf, c)
	}
	if got := p.SGFFromCoord(c); got != "bc" {
		t.Fatalf("SGFFromCoord = %q, want %q", got, "bc")
	}
	if got := p.SGFFromCoord(Pass); got != "" {
		t.Fatalf("SGFFromCoord(Pass) = %q, want empty", got)
	}
	if _, err := p.CoordFromSGF("b"); !errors.Is(err, tacticserrors.ErrBadCoordinates) {
		t.Fatalf("short sgf: err = %v", err)
	}
	if _, err := p.CoordFromSGF("zz"); !errors.Is(err, tacticserrors.ErrBadCoordinates) {
		t.Fatalf("out of range sgf: err = %v", err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	rows := []string{
		". X . O",
		"X X O .",
		". . . .",
	}
	p := mustPosition(t, rows)
	want := make([]string, len(rows))
	for i, r := range rows {
		want[i] = strings.ReplaceAll(r, " ", "")
	}
	if got := p.String(); got != strings.Join(want, "\n") {
		t.Fatalf("String = %q, want %q", got, strings.Join(want, "\n"))
	}
	if p.Width() != 4 || p.Height() != 3 {
		t.Fatalf("size = %dx%d, want 4x3", p.Width(), p.Height())
	}
}

func TestColorHelpers(t *testing.T) {
	if Black.Other() != White || White.Other() != Black {
		t.Fatal("Other mismatch for stone colors")
	}
	if Empty.Other() != Empty {
		t.Fatal("Other of a pseudo-color must be itself")
	}

	for in, want := range map[string]Color{"b": Black, "B": Black, "w": White, "W": White} {
		got, err := ColorFromString(in)
		if err != nil || got != want {
			t.Fatalf("ColorFromString(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ColorFromString("g"); err == nil {
		t.Fatal("ColorFromString accepted an unknown color")
	}
}
