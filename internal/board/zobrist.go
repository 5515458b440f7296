package board

// Zobrist hash keys for position hashing.
// Uses PRNG with fixed seed for reproducibility.
var (
	zobristPiece      [2][6][64]uint64 // [Color][PieceType][Square]
	zobristEnPassant  [8]uint64        // One per file
	zobristCastling   [16]uint64       // All 16 castling combinations
	zobristSideToMove uint64           // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for file := 0; file < 8; file++ {
		zobristEnPassant[file] = rng.next()
	}
	for i := 0; i < 16; i++ {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// computeHash computes the Zobrist hash of the position from scratch.
func (p *Position) computeHash() uint64 {
	var hash uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			bb := p.pieces[c][pt]
			for bb != 0 {
				hash ^= zobristPiece[c][pt][bb.PopLSB()]
			}
		}
	}
	if p.sideToMove == Black {
		hash ^= zobristSideToMove
	}
	hash ^= zobristCastling[p.castling]
	return hash ^ p.enPassantKey()
}

// enPassantKey returns the en passant file key when the side to move has a
// pawn standing next to the double-pushed pawn, and zero otherwise. Positions
// whose en passant state cannot affect play hash alike.
func (p *Position) enPassantKey() uint64 {
	if p.epPawn == NoSquare {
		return 0
	}
	adjacent := p.epPawn.BB()
	adjacent = adjacent.East() | adjacent.West()
	if adjacent&p.pieces[p.sideToMove][Pawn] == 0 {
		return 0
	}
	return zobristEnPassant[p.epPawn.File()]
}
