package board

// Direction is one of the eight compass directions a sliding piece moves in.
// The four diagonal directions come first so that d < North selects the
// diagonal family.
type Direction uint8

const (
	NorthEast Direction = iota
	NorthWest
	SouthEast
	SouthWest
	North
	South
	East
	West
)

// NumDirections is the number of ray directions.
const NumDirections = 8

// file and rank steps per direction
var directionSteps = [NumDirections][2]int{
	NorthEast: {+1, +1},
	NorthWest: {-1, +1},
	SouthEast: {+1, -1},
	SouthWest: {-1, -1},
	North:     {0, +1},
	South:     {0, -1},
	East:      {+1, 0},
	West:      {-1, 0},
}

// Family returns the slider family moving along d.
func (d Direction) Family() Family {
	if d < North {
		return Diagonal
	}
	return Orthogonal
}

func (d Direction) String() string {
	return [...]string{"NE", "NW", "SE", "SW", "N", "S", "E", "W"}[d]
}

// Family groups the directions a slider moves along: bishops move
// diagonally, rooks orthogonally and queens in both families.
type Family uint8

const (
	Diagonal Family = iota
	Orthogonal
)

func (f Family) String() string {
	if f == Diagonal {
		return "diagonal"
	}
	return "orthogonal"
}

// directions returns the four directions of the family.
func (f Family) directions() [4]Direction {
	if f == Diagonal {
		return [4]Direction{NorthEast, NorthWest, SouthEast, SouthWest}
	}
	return [4]Direction{North, South, East, West}
}

// AttackTables holds the occupancy-independent movement sets of every piece
// on every square. It is built once by BuildAttackTables and never modified.
type AttackTables struct {
	knight         [64]Bitboard
	king           [64]Bitboard
	pawnCapture    [2][64]Bitboard
	pawnPush       [2][64]Bitboard
	pawnDoublePush [2][64]Bitboard

	// rays[sq][d] lists the squares from sq to the edge in direction d,
	// nearest first. rayMask is the same set as a bitboard.
	rays    [64][NumDirections][]Square
	rayMask [64][NumDirections]Bitboard
}

var (
	knightJumps = [8][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
	kingSteps   = [8][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
)

// BuildAttackTables computes every table from the board geometry.
func BuildAttackTables() *AttackTables {
	t := &AttackTables{}
	for sq := A1; sq <= H8; sq++ {
		t.knight[sq] = jumpTargets(sq, knightJumps[:])
		t.king[sq] = jumpTargets(sq, kingSteps[:])

		for c := White; c <= Black; c++ {
			forward := 1
			if c == Black {
				forward = -1
			}
			t.pawnCapture[c][sq] = jumpTargets(sq, [][2]int{{-1, forward}, {1, forward}})
			t.pawnPush[c][sq] = jumpTargets(sq, [][2]int{{0, forward}})
			if sq.RelativeRank(c) == 1 {
				t.pawnDoublePush[c][sq] = jumpTargets(sq, [][2]int{{0, 2 * forward}})
			}
		}

		for d := Direction(0); d < NumDirections; d++ {
			step := directionSteps[d]
			file, rank := sq.File()+step[0], sq.Rank()+step[1]
			for onBoard(file, rank) {
				to := NewSquare(file, rank)
				t.rays[sq][d] = append(t.rays[sq][d], to)
				t.rayMask[sq][d] |= to.BB()
				file += step[0]
				rank += step[1]
			}
		}
	}
	return t
}

func onBoard(file, rank int) bool {
	return file >= 0 && file < 8 && rank >= 0 && rank < 8
}

func jumpTargets(sq Square, offsets [][2]int) Bitboard {
	var bb Bitboard
	for _, o := range offsets {
		file, rank := sq.File()+o[0], sq.Rank()+o[1]
		if onBoard(file, rank) {
			bb |= NewSquare(file, rank).BB()
		}
	}
	return bb
}

// Knight returns the knight targets from sq.
func (t *AttackTables) Knight(sq Square) Bitboard { return t.knight[sq] }

// King returns the king targets from sq.
func (t *AttackTables) King(sq Square) Bitboard { return t.king[sq] }

// PawnCapture returns the squares a pawn of color c on sq attacks.
func (t *AttackTables) PawnCapture(c Color, sq Square) Bitboard { return t.pawnCapture[c][sq] }

// PawnPush returns the single-step push target of a pawn of color c on sq.
func (t *AttackTables) PawnPush(c Color, sq Square) Bitboard { return t.pawnPush[c][sq] }

// PawnDoublePush returns the two-step push landing square, non-empty only for
// pawns on their starting rank.
func (t *AttackTables) PawnDoublePush(c Color, sq Square) Bitboard { return t.pawnDoublePush[c][sq] }

// Ray returns the squares from sq towards the edge in direction d, nearest
// first. The returned slice is a copy.
func (t *AttackTables) Ray(sq Square, d Direction) []Square {
	return append([]Square(nil), t.rays[sq][d]...)
}

// RayMask returns the squares of Ray(sq, d) as a bitboard.
func (t *AttackTables) RayMask(sq Square, d Direction) Bitboard { return t.rayMask[sq][d] }

// Between returns the squares strictly between a and b when they share a
// line, and Empty otherwise.
func (t *AttackTables) Between(a, b Square) Bitboard {
	for d := Direction(0); d < NumDirections; d++ {
		if t.rayMask[a][d].Has(b) {
			return t.rayMask[a][d] &^ t.rayMask[b][d] &^ b.BB()
		}
	}
	return Empty
}

// walkVisible returns the squares a slider of family f on sq sees for the
// given occupancy by walking each ray up to and including its first blocker.
// It is the reference against which the magic tables are built and tested.
func (t *AttackTables) walkVisible(sq Square, occ Bitboard, f Family) Bitboard {
	var visible Bitboard
	for _, d := range f.directions() {
		for _, to := range t.rays[sq][d] {
			visible |= to.BB()
			if occ.Has(to) {
				break
			}
		}
	}
	return visible
}

// relevantMask returns the squares whose occupancy can change what a slider
// of family f on sq sees: every ray square except the last on each ray.
func (t *AttackTables) relevantMask(sq Square, f Family) Bitboard {
	var mask Bitboard
	for _, d := range f.directions() {
		ray := t.rays[sq][d]
		for i := 0; i+1 < len(ray); i++ {
			mask |= ray[i].BB()
		}
	}
	return mask
}
