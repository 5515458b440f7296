package board

// Apply returns the position after playing m. m is matched against the
// legal moves by origin, destination and promotion piece; an
// *IllegalMoveError is returned when there is no match.
func (p *Position) Apply(m Move) (*Position, error) {
	legal, ok := p.findLegal(m)
	if !ok {
		err := &IllegalMoveError{Move: m, FEN: p.FEN()}
		if DebugMoveValidation {
			debugLog().Warn().Str("move", m.String()).Str("fen", err.FEN).Msg("rejected illegal move")
		}
		return nil, err
	}
	return p.transition(legal), nil
}

// transition builds the successor of p for a move taken from its legal
// move list. The hash is updated incrementally.
func (p *Position) transition(m Move) *Position {
	us := p.sideToMove
	them := us.Other()
	from, to := m.From(), m.To()
	fromBB, toBB := from.BB(), to.BB()

	n := &Position{
		pieces:     p.pieces,
		sideToMove: them,
		epPawn:     NoSquare,
		halfMove:   p.halfMove + 1,
		fullMove:   p.fullMove,
		gen:        p.gen,
	}
	hash := p.hash ^ zobristSideToMove ^ zobristCastling[p.castling] ^ p.enPassantKey()

	moving := NoPieceType
	for pt := Pawn; pt <= King; pt++ {
		if p.pieces[us][pt]&fromBB != 0 {
			moving = pt
			break
		}
	}

	captured := NoPieceType
	if p.occupied[them]&toBB != 0 {
		for pt := Pawn; pt <= King; pt++ {
			if n.pieces[them][pt]&toBB != 0 {
				n.pieces[them][pt] &^= toBB
				hash ^= zobristPiece[them][pt][to]
				captured = pt
				break
			}
		}
	}

	placed := moving
	if promo := m.Promotion(); promo != NoPieceType {
		placed = promo
	}
	n.pieces[us][moving] &^= fromBB
	hash ^= zobristPiece[us][moving][from]
	n.pieces[us][placed] |= toBB
	hash ^= zobristPiece[us][placed][to]

	switch {
	case m.IsEnPassant():
		capSq := p.epPawn
		n.pieces[them][Pawn] &^= capSq.BB()
		hash ^= zobristPiece[them][Pawn][capSq]
		captured = Pawn
	case m.IsCastling():
		if cs, ok := castleFor(us, from, to); ok {
			n.pieces[us][Rook] ^= cs.rookFrom.BB() | cs.rookTo.BB()
			hash ^= zobristPiece[us][Rook][cs.rookFrom] ^ zobristPiece[us][Rook][cs.rookTo]
		}
	case moving == Pawn && (int(to)-int(from) == 16 || int(from)-int(to) == 16):
		n.epPawn = to
	}

	if moving == Pawn || captured != NoPieceType {
		n.halfMove = 0
	}
	if us == Black {
		n.fullMove++
	}

	n.updateOccupied()
	n.castling = retainCastling(&n.pieces, p.castling)
	hash ^= zobristCastling[n.castling] ^ n.enPassantKey()
	n.hash = hash

	if DebugMoveValidation {
		n.checkConsistency(p, m)
	}
	return n
}

// checkConsistency logs violations of the board invariants after a
// transition.
func (p *Position) checkConsistency(parent *Position, m Move) {
	total := 0
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			total += p.pieces[c][pt].PopCount()
		}
	}
	if total != p.all.PopCount() {
		debugLog().Error().Str("fen", parent.FEN()).Str("move", m.String()).Msg("piece bitboards overlap after move")
	}
	if scratch := p.computeHash(); scratch != p.hash {
		debugLog().Error().Str("fen", parent.FEN()).Str("move", m.String()).
			Uint64("incremental", p.hash).Uint64("scratch", scratch).Msg("zobrist hash mismatch")
	}
}
