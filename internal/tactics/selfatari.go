package tactics

import (
	"math/rand"
	"time"

	"go.uber.org/zap"

	"go_tactics/internal/board"
)

// Board is the read-only query surface the classifier consumes. A
// *board.Position satisfies it; search code can plug in its own tracker.
type Board interface {
	ColorAt(c board.Coord) board.Color
	GroupAt(c board.Coord) board.Group
	LibertyCount(g board.Group) int
	Liberties(g board.Group) []board.Coord
	OtherLiberty(g board.Group, exclude board.Coord) board.Coord
	IsAdjacent(a, b board.Coord) bool
	ForEachNeighbor(c board.Coord, visit func(n board.Coord) bool)
	NeighborCountOfColor(c board.Coord, col board.Color) int
	ImmediateLibertyCount(c board.Coord) int
	IsOnePointEye(c board.Coord, eyeColor board.Color) bool
	IsFalseEyelike(c board.Coord, eyeColor board.Color) bool
	IsSingleStone(g board.Group) bool
	SingleStone(g board.Group) board.Coord
}

// Classifier decides whether a self-atari move is tactically useless or a
// legitimate sacrifice (snapback, nakade, throw-in). It never mutates the
// board. Callers must only invoke it on moves that leave the placing group
// with exactly one liberty; anything else is a contract violation.
type Classifier struct {
	log *zap.SugaredLogger
	rnd *rand.Rand
}

func NewClassifier(log *zap.SugaredLogger, rnd *rand.Rand) *Classifier {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Classifier{log: log, rnd: rnd}
}

func (c *Classifier) debugf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}

type verdict int8

const (
	undecided verdict = iota
	verdictBad
	verdictSafe
)

type groupBucket struct {
	n   int
	ids [4]board.Group
}

func (b *groupBucket) add(g board.Group) {
	for i := 0; i < b.n; i++ {
		if b.ids[i] == g {
			return
		}
	}
	b.ids[b.n] = g
	b.n++
}

// neighborGroups buckets the distinct groups around the candidate point,
// one bucket per color. Empty and off-board cells all carry group id 0, so
// their buckets never exceed one entry.
type neighborGroups struct {
	black    groupBucket
	white    groupBucket
	empty    groupBucket
	offBoard groupBucket
}

func (n *neighborGroups) bucket(col board.Color) *groupBucket {
	switch col {
	case board.Black:
		return &n.black
	case board.White:
		return &n.white
	case board.Empty:
		return &n.empty
	default:
		return &n.offBoard
	}
}

// selfAtariState is scratch state for one classification call.
type selfAtariState struct {
	groups neighborGroups

	// set if this move puts a friendly group out of all liberties;
	// we need to watch out for snapback then.
	friendHasNoLibs bool
	// We may have one liberty but be looking for one more. needsMoreLib
	// is the id of the group already providing one, don't consider it
	// again; needsMoreLibExcept is the liberty already credited to it.
	needsMoreLib       board.Group
	needsMoreLibExcept board.Coord
}

func collectNeighborGroups(b Board, to board.Coord, s *selfAtariState) {
	b.ForEachNeighbor(to, func(n board.Coord) bool {
		s.groups.bucket(b.ColorAt(n)).add(b.GroupAt(n))
		return true
	})
}

// threeLibertySuicide checks a friendly 3-liberty group for the clumsy
// kill: after filling this liberty, the opponent can unconditionally
// capture the group.
//
//	O O O O O O O   X X O O O O O O     v-v- ladder
//	O X X X X X O   . O X X X X X O   . . . O O
//	O X ! . ! X O   . O X ! . ! O .   O X X . O
//	O X X X X X O   # # # # # # # #   O O O O O
func (c *Classifier) threeLibertySuicide(b Board, g board.Group, color board.Color, to board.Coord, s *selfAtariState) bool {
	// Extract the other two liberties.
	var otherLibs [2]board.Coord
	var otherLibsAdj [2]bool
	j := 0
	for _, lib := range b.Liberties(g) {
		if lib != to {
			otherLibsAdj[j] = b.IsAdjacent(lib, to)
			otherLibs[j] = lib
			j++
		}
	}

	// The move is not useless if it gains liberties, splits the other two
	// liberties (quite possibly splitting 3-eyespace) or connects to a
	// different group.
	overlap := 0
	if otherLibsAdj[0] || otherLibsAdj[1] {
		overlap = 1
	}
	if b.ImmediateLibertyCount(to)-overlap > 0 {
		return false
	}
	if s.groups.bucket(color).n > 1 {
		return false
	}

	// Playing on the third liberty might be useful if it enables capturing
	// some group.
	enemies := s.groups.bucket(color.Other())
	for i := 0; i < enemies.n; i++ {
		if b.LibertyCount(enemies.ids[i]) <= 2 {
			return false
		}
	}

	// The move looks useless: it converts us to a 2-liberty group. We may
	// still want it, e.g. to take off liberties of an unconspicuous enemy
	// group, or at the game end to leave just single-point eyes.
	c.debugf("3-lib danger")

	// Final suicidal test: after filling this liberty, when the opponent
	// fills liberty 0, playing liberty 1 will not help the group, or vice
	// versa.
	if b.IsOnePointEye(otherLibs[0], color) || b.IsOnePointEye(otherLibs[1], color) {
		// One of the remaining liberties is an eye, happily go ahead.
		// This can take off semeai liberties, but without it many
		// terminal endgame plays get messed up.
		return false
	}

	otherLibsNeighbors := b.IsAdjacent(otherLibs[0], otherLibs[1])
	for i := 0; i < 2; i++ {
		nullLibs := 0
		if otherLibsNeighbors {
			nullLibs++
		}
		if otherLibsAdj[i] {
			nullLibs++
		}
		if b.ImmediateLibertyCount(otherLibs[i])-nullLibs > 1 {
			// Gains liberties. No ladder reading attempted here.
			continue
		}
		if c.canConnectElsewhere(b, otherLibs[i], g, color) {
			continue
		}
		// If we can capture a neighbor, better do it now before wasting
		// a liberty, so no extra check. The last liberty has no way out.
		c.debugf("3-lib dangerous: %v", otherLibs[i])
		return true
	}

	return false
}

// canConnectElsewhere reports whether lib touches a different friendly
// group that still has liberties to spare.
func (c *Classifier) canConnectElsewhere(b Board, lib board.Coord, g board.Group, color board.Color) bool {
	found := false
	b.ForEachNeighbor(lib, func(n board.Coord) bool {
		if b.ColorAt(n) == color && b.GroupAt(n) != g && b.LibertyCount(b.GroupAt(n)) > 1 {
			// Whether the friend itself survives a ladder is left to
			// the opponent to demonstrate.
			found = true
			return false
		}
		return true
	})
	return found
}

func (c *Classifier) examineFriendlyGroups(b Board, color board.Color, to board.Coord, s *selfAtariState) verdict {
	friends := s.groups.bucket(color)
	for i := 0; i < friends.n; i++ {
		// We can escape by connecting to this group if it is not in atari.
		g := friends.ids[i]

		if b.LibertyCount(g) == 1 {
			if s.needsMoreLib == board.NoGroup {
				s.friendHasNoLibs = true
			}
			// or we already have a friend with one liberty
			continue
		}

		// Could we self-atari the group here?
		if b.LibertyCount(g) > 2 {
			if b.LibertyCount(g) == 3 && c.threeLibertySuicide(b, g, color, to, s) {
				return verdictBad
			}
			return verdictSafe
		}

		// We need another liberty, and it must not be the other liberty
		// of this group.
		lib2 := b.OtherLiberty(g, to)
		// Maybe another group was already counted on to provide one?
		if s.needsMoreLib != board.NoGroup && s.needsMoreLib != g && s.needsMoreLibExcept != lib2 {
			return verdictBad
		}

		// Can we get the liberty locally? Yes if we are a route to more
		// liberties...
		if s.groups.bucket(board.Empty).n > 1 {
			return verdictSafe
		}
		// ...or one liberty, but not lib2.
		if s.groups.bucket(board.Empty).n > 0 && !b.IsAdjacent(lib2, to) {
			return verdictSafe
		}

		// Otherwise we can still contribute a liberty later by capturing
		// something.
		s.needsMoreLib = g
		s.needsMoreLibExcept = lib2
		s.friendHasNoLibs = false
	}

	return undecided
}

func (c *Classifier) examineEnemyGroups(b Board, color board.Color, to board.Coord, s *selfAtariState) verdict {
	// We may be able to gain a liberty by capturing a group.
	canCapture := board.NoGroup

	enemies := s.groups.bucket(color.Other())
	for i := 0; i < enemies.n; i++ {
		// We can escape by capturing this group if it is in atari.
		g := enemies.ids[i]
		if b.LibertyCount(g) > 1 {
			continue
		}

		// But we need to get to at least two liberties by this: we
		// already have one outside liberty, or the group is more than
		// one stone (capturing is always nice then).
		if s.groups.bucket(board.Empty).n > 0 || !b.IsSingleStone(g) {
			return verdictSafe
		}
		// ...or it's a ko stone,
		stone := b.SingleStone(g)
		if b.NeighborCountOfColor(stone, color)+b.NeighborCountOfColor(stone, board.OffBoard) == 3 {
			// and we don't have a group to save: then just taking the
			// single stone means snapback!
			if !s.friendHasNoLibs {
				return verdictBad
			}
		}
		// ...or we already have one indirect liberty provided by
		// another group.
		if s.needsMoreLib != board.NoGroup || (canCapture != board.NoGroup && canCapture != g) {
			return verdictSafe
		}
		canCapture = g
	}

	c.debugf("no cap group")

	if s.needsMoreLib == board.NoGroup && canCapture == board.NoGroup && s.groups.bucket(board.Empty).n == 0 {
		// No hope for fancier tactics - this move is simply a suicide,
		// not even a self-atari.
		c.debugf("suicide")
		return verdictBad
	}

	return undecided
}

// nakadeScan is the per-enemy-group outcome inside the nakade/snapback
// analyzer: the shape matched (safe), or the group is rejected and the
// scan moves on.
type nakadeScan int8

const (
	nakadeReject nakadeScan = iota
	nakadeMatch
)

func (c *Classifier) setupNakadeOrSnapback(b Board, color board.Color, to board.Coord, s *selfAtariState) verdict {
	// We can self-atari if it is a nakade: putting an enemy group in atari
	// from the inside. This also covers eye falsification and snapback,
	// which is a special nakade case.
	// Every adjacent enemy group gets examined: a rejected group must not
	// shadow a matching one behind it in enumeration order.
	enemies := s.groups.bucket(color.Other())
	for i := 0; i < enemies.n; i++ {
		if c.examineNakadeGroup(b, color, to, enemies.ids[i], s) == nakadeMatch {
			return verdictSafe
		}
	}

	return undecided
}

func (c *Classifier) examineNakadeGroup(b Board, color board.Color, to board.Coord, g board.Group, s *selfAtariState) nakadeScan {
	if b.LibertyCount(g) != 2 {
		return nakadeReject
	}

	// The other liberty of that group must (i) be an internal liberty and
	// (ii) not gain the enemy safety when filled to capture our group.
	lib2 := b.OtherLiberty(g, to)
	if !c.nakadeLibertyIsInternal(b, color, to, g, lib2) {
		return nakadeReject
	}

	// Distinguish nakade from eye falsification: we must not falsify an
	// eye by more than two stones.
	friends := s.groups.bucket(color)
	if friends.n < 1 {
		return nakadeMatch // simple throw-in
	}
	if friends.n == 1 && b.IsSingleStone(friends.ids[0]) {
		// More complex throw-in - one of three situations:
		// a O O O O X  b O O O X  c O O O X
		//   O . X . O    O X . .    O . X .
		//   # # # # #    # # # #    # # # #
		// b is desirable (maybe O has no backup two eyes); a may be, but
		// is tested by the throw-in check next. c never is.
		if b.LibertyCount(friends.ids[0]) == 1 {
			return nakadeMatch // b
		}
		return nakadeReject // a or c
	}

	// We would create a group of more than two stones; then the liberty
	// of our result must be lib2, indicating a real nakade.
	for j := 0; j < friends.n; j++ {
		g2 := friends.ids[j]
		if b.LibertyCount(g2) == 2 && b.OtherLiberty(g2, to) != lib2 {
			return nakadeReject
		}
	}

	return nakadeMatch
}

// nakadeLibertyIsInternal validates every neighbor of the enemy group's
// other liberty against the nakade shape rules.
func (c *Classifier) nakadeLibertyIsInternal(b Board, color board.Color, to board.Coord, g board.Group, lib2 board.Coord) bool {
	internal := true
	b.ForEachNeighbor(lib2, func(n board.Coord) bool {
		switch b.ColorAt(n) {
		case board.OffBoard:
			// contributes nothing to the enemy
			return true

		case board.Empty:
			// An empty neighbor must be the original liberty; otherwise
			// the other liberty is not internal and we are nakade'ing an
			// eyeless group from the outside, which is stupid.
			if n == to {
				return true
			}
			internal = false
			return false

		case color:
			// A friendly neighbor must also be a 2-liberty group: if it
			// has more, that liberty should certainly be played first
			// (what if it is an alive group?); if it is in atari, we
			// want to extend from it to prevent an eye-making capture.
			// 2-liberty means self-atari connecting two nakade'ing
			// groups, which is fine.
			// X X X X  Play on 'a' is not allowed, because 'b'
			// X X a X  would capture two different groups,
			// X O b X  forming two eyes.
			// X X X X
			if b.LibertyCount(b.GroupAt(n)) == 2 {
				return true
			}
			internal = false
			return false

		default:
			// Enemy color: fine if it is still the same group or this is
			// its only liberty.
			g2 := b.GroupAt(n)
			if g2 == g || b.LibertyCount(g2) == 1 {
				return true
			}
			// Otherwise it must share the exact two liberties of the
			// original enemy group.
			if b.LibertyCount(g2) == 2 && libertiesContain(b, g2, to) {
				return true
			}
			internal = false
			return false
		}
	})
	return internal
}

func libertiesContain(b Board, g board.Group, c board.Coord) bool {
	for _, lib := range b.Liberties(g) {
		if lib == c {
			return true
		}
	}
	return false
}

func (c *Classifier) checkThrowin(b Board, color board.Color, to board.Coord, s *selfAtariState) verdict {
	// We can be throwing in to a false eye:
	// X X X O X X X O X X X X X
	// X . * X * O . X * O O . X
	// # # # # # # # # # # # # #
	// A throw-in into a corner is never sensible.
	other := color.Other()
	if b.NeighborCountOfColor(to, board.OffBoard) >= 2 ||
		b.NeighborCountOfColor(to, other)+b.NeighborCountOfColor(to, board.OffBoard) != 3 ||
		!b.IsFalseEyelike(to, other) {
		return undecided
	}

	friends := s.groups.bucket(color)
	if friends.n == 0 {
		// Single-stone throw-in may be ok...
		// O X .  There is one problem - when it's
		// . * X  actually not a throw-in!
		// # # #
		escape := false
		b.ForEachNeighbor(to, func(n board.Coord) bool {
			if b.ColorAt(n) == board.Empty {
				// Is the empty neighbor an escape path?
				if b.NeighborCountOfColor(n, other)+b.NeighborCountOfColor(n, board.OffBoard) < 2 {
					escape = true
					return false
				}
			}
			return true
		})
		if escape {
			return undecided
		}
		return verdictSafe
	}

	// Multi-stone throw-in...?
	g := friends.ids[0]

	// Suicide is definitely NOT ok, no matter what else we could test.
	if b.LibertyCount(g) == 1 {
		return verdictBad
	}

	// We must be connected to at most one stone, or the throw-in will not
	// destroy any eyes.
	if b.IsSingleStone(g) {
		return verdictSafe
	}

	return undecided
}

// IsBadSelfAtari classifies a self-atari move at to for color: true means
// the move is a pointless self-reduction, false means it escapes, captures
// or sets up a recognized sacrifice shape.
//
// Precondition: playing color at to leaves the placing group with exactly
// one liberty. The verdict is undefined otherwise.
func (c *Classifier) IsBadSelfAtari(b Board, color board.Color, to board.Coord) bool {
	c.debugf("self-atari check %v %v", color, to)

	// Assess if we actually gain any liberties by this escape route. Not
	// 100%: we cannot check whether we are connecting out or just to
	// ourselves.
	var s selfAtariState
	collectNeighborGroups(b, to, &s)

	// Shortage of liberties is the whole point; more than one distinct
	// empty neighbor would mean the caller broke the contract.

	if d := c.examineFriendlyGroups(b, color, to, &s); d != undecided {
		return d == verdictBad
	}
	c.debugf("no friendly group")

	if d := c.examineEnemyGroups(b, color, to, &s); d != undecided {
		return d == verdictBad
	}
	c.debugf("no escape")

	if d := c.setupNakadeOrSnapback(b, color, to, &s); d != undecided {
		return d == verdictBad
	}
	c.debugf("no nakade group")

	if d := c.checkThrowin(b, color, to, &s); d != undecided {
		return d == verdictBad
	}
	c.debugf("no throw-in group")

	// No way to pull out, no way to connect out. This really is a bad
	// self-atari.
	return true
}

// SelfAtariCousin suggests an alternative liberty to fill instead of a move
// already classified as self-atari: the other liberty of a random friendly
// 2-liberty neighbor group, provided that one is not a bad self-atari
// itself. Returns board.Pass when there is no suggestion.
func (c *Classifier) SelfAtariCousin(b Board, color board.Color, coord board.Coord) board.Coord {
	var groups []board.Group
	b.ForEachNeighbor(coord, func(n board.Coord) bool {
		if b.ColorAt(n) != color {
			return true
		}
		if g := b.GroupAt(n); b.LibertyCount(g) == 2 {
			groups = append(groups, g)
		}
		return true
	})

	if len(groups) == 0 {
		return board.Pass
	}
	g := groups[c.rnd.Intn(len(groups))]

	lib2 := b.OtherLiberty(g, coord)
	if c.IsBadSelfAtari(b, color, lib2) {
		return board.Pass
	}
	return lib2
}
