package board

import (
	"fmt"
	"sync"
)

// CastlingRights represents the available castling options.
type CastlingRights uint8

const (
	WhiteKingSideCastle  CastlingRights = 1 << iota // K
	WhiteQueenSideCastle                            // Q
	BlackKingSideCastle                             // k
	BlackQueenSideCastle                            // q
	NoCastling           CastlingRights = 0
	AllCastling          CastlingRights = WhiteKingSideCastle | WhiteQueenSideCastle | BlackKingSideCastle | BlackQueenSideCastle
)

// String returns the FEN castling rights string.
func (cr CastlingRights) String() string {
	if cr == NoCastling {
		return "-"
	}
	s := ""
	if cr&WhiteKingSideCastle != 0 {
		s += "K"
	}
	if cr&WhiteQueenSideCastle != 0 {
		s += "Q"
	}
	if cr&BlackKingSideCastle != 0 {
		s += "k"
	}
	if cr&BlackQueenSideCastle != 0 {
		s += "q"
	}
	return s
}

// retainCastling drops every right whose king or rook is no longer on its
// original square.
func retainCastling(pieces *[2][6]Bitboard, cr CastlingRights) CastlingRights {
	if !pieces[White][King].Has(E1) {
		cr &^= WhiteKingSideCastle | WhiteQueenSideCastle
	}
	if !pieces[White][Rook].Has(H1) {
		cr &^= WhiteKingSideCastle
	}
	if !pieces[White][Rook].Has(A1) {
		cr &^= WhiteQueenSideCastle
	}
	if !pieces[Black][King].Has(E8) {
		cr &^= BlackKingSideCastle | BlackQueenSideCastle
	}
	if !pieces[Black][Rook].Has(H8) {
		cr &^= BlackKingSideCastle
	}
	if !pieces[Black][Rook].Has(A8) {
		cr &^= BlackQueenSideCastle
	}
	return cr
}

// Fields is the raw content of a position, as supplied by a FEN reader or
// any other external source.
type Fields struct {
	// Bitboards is indexed by Piece: white pawn through white king, then
	// black pawn through black king.
	Bitboards  [12]Bitboard
	SideToMove Color
	Castling   CastlingRights
	// EnPassant is the square of the pawn that just advanced two squares,
	// or NoSquare.
	EnPassant      Square
	HalfMoveClock  int
	FullMoveNumber int
}

// Child is a legal successor of a position together with the move that
// produced it.
type Child struct {
	Position *Position
	Move     Move
}

// Position is an immutable chess position. Derived data (check analysis,
// legal moves, children) is computed on first request and cached; a Position
// is safe for concurrent use.
type Position struct {
	pieces   [2][6]Bitboard
	occupied [2]Bitboard
	all      Bitboard

	sideToMove Color
	castling   CastlingRights
	epPawn     Square
	halfMove   int
	fullMove   int
	hash       uint64

	gen *generator

	analysisOnce sync.Once
	analysis     CheckInfo

	movesOnce sync.Once
	moves     []Move

	childrenOnce sync.Once
	children     []Child
}

var startFields = Fields{
	Bitboards: [12]Bitboard{
		WhitePawn:   Rank2,
		WhiteKnight: B1.BB() | G1.BB(),
		WhiteBishop: C1.BB() | F1.BB(),
		WhiteRook:   A1.BB() | H1.BB(),
		WhiteQueen:  D1.BB(),
		WhiteKing:   E1.BB(),
		BlackPawn:   Rank7,
		BlackKnight: B8.BB() | G8.BB(),
		BlackBishop: C8.BB() | F8.BB(),
		BlackRook:   A8.BB() | H8.BB(),
		BlackQueen:  D8.BB(),
		BlackKing:   E8.BB(),
	},
	SideToMove:     White,
	Castling:       AllCastling,
	EnPassant:      NoSquare,
	FullMoveNumber: 1,
}

// NewPosition returns the standard initial position.
func NewPosition() *Position {
	return FromFields(startFields)
}

// FromFields builds a position from raw fields. Castling rights whose king or
// rook is not on its original square are dropped, and an en passant square
// that does not hold a pawn of the side that just moved is ignored. Other
// consistency requirements are checked by Validate.
func FromFields(f Fields) *Position {
	p := &Position{
		sideToMove: f.SideToMove,
		epPawn:     NoSquare,
		halfMove:   f.HalfMoveClock,
		fullMove:   f.FullMoveNumber,
		gen:        defaultGen,
	}
	for i, bb := range f.Bitboards {
		piece := Piece(i)
		p.pieces[piece.Color()][piece.Type()] = bb
	}
	p.updateOccupied()
	p.castling = retainCastling(&p.pieces, f.Castling)
	if f.EnPassant.IsValid() && p.pieces[f.SideToMove.Other()][Pawn].Has(f.EnPassant) {
		p.epPawn = f.EnPassant
	}
	p.hash = p.computeHash()
	return p
}

// Fields returns the raw content of the position.
func (p *Position) Fields() Fields {
	f := Fields{
		SideToMove:     p.sideToMove,
		Castling:       p.castling,
		EnPassant:      p.epPawn,
		HalfMoveClock:  p.halfMove,
		FullMoveNumber: p.fullMove,
	}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			f.Bitboards[NewPiece(pt, c)] = p.pieces[c][pt]
		}
	}
	return f
}

func (p *Position) updateOccupied() {
	p.occupied = [2]Bitboard{}
	for pt := Pawn; pt <= King; pt++ {
		p.occupied[White] |= p.pieces[White][pt]
		p.occupied[Black] |= p.pieces[Black][pt]
	}
	p.all = p.occupied[White] | p.occupied[Black]
}

// SideToMove returns the color to move.
func (p *Position) SideToMove() Color { return p.sideToMove }

// Castling returns the castling rights still available.
func (p *Position) Castling() CastlingRights { return p.castling }

// EnPassant returns the square a pawn capturing en passant would land on,
// or NoSquare.
func (p *Position) EnPassant() Square {
	if p.epPawn == NoSquare {
		return NoSquare
	}
	if p.sideToMove == White {
		return p.epPawn + 8
	}
	return p.epPawn - 8
}

// EnPassantPawn returns the square of the pawn that just advanced two
// squares, or NoSquare.
func (p *Position) EnPassantPawn() Square { return p.epPawn }

// HalfMoveClock returns the number of half-moves since the last capture or
// pawn move.
func (p *Position) HalfMoveClock() int { return p.halfMove }

// FullMoveNumber returns the move number, incremented after black moves.
func (p *Position) FullMoveNumber() int { return p.fullMove }

// ZobristHash returns the position hash.
func (p *Position) ZobristHash() uint64 { return p.hash }

// Pieces returns the bitboard of pieces of type pt and color c.
func (p *Position) Pieces(c Color, pt PieceType) Bitboard { return p.pieces[c][pt] }

// Occupied returns every square holding a piece of color c.
func (p *Position) Occupied(c Color) Bitboard { return p.occupied[c] }

// AllOccupied returns every occupied square.
func (p *Position) AllOccupied() Bitboard { return p.all }

// KingSquare returns the square of c's king, or NoSquare.
func (p *Position) KingSquare(c Color) Square { return p.pieces[c][King].LSB() }

// PieceAt returns the piece on sq.
func (p *Position) PieceAt(sq Square) Piece {
	if !p.all.Has(sq) {
		return NoPiece
	}
	c := White
	if p.occupied[Black].Has(sq) {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if p.pieces[c][pt].Has(sq) {
			return NewPiece(pt, c)
		}
	}
	return NoPiece
}

// Analyze returns the check and pin analysis for the side to move.
func (p *Position) Analyze() CheckInfo {
	return *p.checkInfo()
}

func (p *Position) checkInfo() *CheckInfo {
	p.analysisOnce.Do(func() {
		p.analysis = p.gen.analyze(p)
	})
	return &p.analysis
}

func (p *Position) legalMoves() []Move {
	p.movesOnce.Do(func() {
		var ml MoveList
		p.gen.generate(p, p.checkInfo(), &ml)
		p.moves = append([]Move(nil), ml.Slice()...)
	})
	return p.moves
}

// LegalMoves returns the legal moves of the side to move. The slice is a
// fresh copy on every call.
func (p *Position) LegalMoves() []Move {
	return append([]Move(nil), p.legalMoves()...)
}

// NumLegalMoves returns len(LegalMoves()) without copying.
func (p *Position) NumLegalMoves() int {
	return len(p.legalMoves())
}

// LegalChildren returns every legal successor position with the move leading
// to it. The slice is a fresh copy on every call; the children themselves
// are shared.
func (p *Position) LegalChildren() []Child {
	p.childrenOnce.Do(func() {
		moves := p.legalMoves()
		p.children = make([]Child, len(moves))
		for i, m := range moves {
			p.children[i] = Child{Position: p.transition(m), Move: m}
		}
	})
	return append([]Child(nil), p.children...)
}

// EachChild calls fn for every legal successor, stopping early when fn
// returns false. Unlike LegalChildren the successors are not retained by p,
// so deep traversals do not keep the whole tree alive.
func (p *Position) EachChild(fn func(Child) bool) {
	for _, m := range p.legalMoves() {
		if !fn(Child{Position: p.transition(m), Move: m}) {
			return
		}
	}
}

func (p *Position) findLegal(m Move) (Move, bool) {
	for _, lm := range p.legalMoves() {
		if lm.Matches(m) {
			return lm, true
		}
	}
	return NoMove, false
}

// IsCheck reports whether the side to move is in check.
func (p *Position) IsCheck() bool {
	return p.checkInfo().InCheck()
}

// IsCheckmate reports whether the side to move is in check and has no legal
// move.
func (p *Position) IsCheckmate() bool {
	return p.IsCheck() && len(p.legalMoves()) == 0
}

// IsStalemate reports whether the side to move is not in check and has no
// legal move.
func (p *Position) IsStalemate() bool {
	return !p.IsCheck() && len(p.legalMoves()) == 0
}

// HasInsufficientMaterial reports whether neither side can ever deliver
// mate: bare kings, a single minor piece, or bishops that all stand on
// squares of one colour.
func (p *Position) HasInsufficientMaterial() bool {
	for c := White; c <= Black; c++ {
		if p.pieces[c][Pawn]|p.pieces[c][Rook]|p.pieces[c][Queen] != 0 {
			return false
		}
	}

	knights := p.pieces[White][Knight] | p.pieces[Black][Knight]
	bishops := p.pieces[White][Bishop] | p.pieces[Black][Bishop]
	minors := knights | bishops
	if !minors.More() {
		return true
	}
	if knights != 0 {
		return false
	}
	return bishops&LightSquares == 0 || bishops&DarkSquares == 0
}

// IsFiftyMoveDraw reports whether fifty moves by each side have passed
// without a capture or pawn move.
func (p *Position) IsFiftyMoveDraw() bool {
	return p.halfMove >= 100
}

// IsDraw reports stalemate, the fifty-move rule or insufficient material.
func (p *Position) IsDraw() bool {
	return p.IsStalemate() || p.IsFiftyMoveDraw() || p.HasInsufficientMaterial()
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	s := "\n"
	for rank := 7; rank >= 0; rank-- {
		s += fmt.Sprintf("%d  ", rank+1)
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				s += ". "
			} else {
				s += piece.String() + " "
			}
		}
		s += "\n"
	}
	s += "\n   a b c d e f g h\n\n"
	s += fmt.Sprintf("Side to move: %s\n", p.sideToMove)
	s += fmt.Sprintf("Castling: %s\n", p.castling)
	s += fmt.Sprintf("En passant: %s\n", p.EnPassant())
	s += fmt.Sprintf("Half-move clock: %d\n", p.halfMove)
	s += fmt.Sprintf("Full move: %d\n", p.fullMove)
	s += fmt.Sprintf("Hash: %016x\n", p.hash)
	return s
}

// Validate checks that the position could arise in a game as far as the
// move generator relies on it.
func (p *Position) Validate() error {
	if p.pieces[White][King].PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if p.pieces[Black][King].PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	total := 0
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			total += p.pieces[c][pt].PopCount()
		}
	}
	if total != p.all.PopCount() {
		return fmt.Errorf("piece bitboards overlap")
	}

	if (p.pieces[White][Pawn]|p.pieces[Black][Pawn])&(Rank1|Rank8) != 0 {
		return fmt.Errorf("pawns cannot be on rank 1 or 8")
	}

	them := p.sideToMove.Other()
	if p.gen.attackersOf(p, p.KingSquare(them), p.sideToMove, p.all) != 0 {
		return fmt.Errorf("%s king is in check with %s to move", them, p.sideToMove)
	}
	return nil
}
