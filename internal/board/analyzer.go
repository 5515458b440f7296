package board

// CheckInfo describes the checks against and pins on the side to move.
type CheckInfo struct {
	King Square

	// Checkers holds every enemy piece giving check.
	Checkers Bitboard

	// Resolution is the set of destinations that resolve the check for
	// pieces other than the king: Universe when not in check, the checker
	// plus the squares between it and the king for a single check, and
	// Empty for a double check.
	Resolution Bitboard

	// Pinned holds every friendly piece pinned to the king.
	Pinned Bitboard

	checks  int
	pins    int
	pinSq   [NumDirections]Square
	pinRays [NumDirections]Bitboard
}

// InCheck reports whether the king is attacked.
func (ci *CheckInfo) InCheck() bool { return ci.checks > 0 }

// DoubleCheck reports whether two or more pieces give check.
func (ci *CheckInfo) DoubleCheck() bool { return ci.checks > 1 }

// CheckCount returns the number of checking pieces.
func (ci *CheckInfo) CheckCount() int { return ci.checks }

// PinRay returns the squares a pinned piece on sq may move to without
// exposing its king: the line from the king to the pinning piece, pinner
// included. Unpinned pieces get Universe.
func (ci *CheckInfo) PinRay(sq Square) Bitboard {
	if !ci.Pinned.Has(sq) {
		return Universe
	}
	for i := 0; i < ci.pins; i++ {
		if ci.pinSq[i] == sq {
			return ci.pinRays[i]
		}
	}
	return Universe
}

// analyze finds checks and pins against the side to move. Contact checks
// come from the pawn, knight and king tables; ray checks and pins from the
// first and second blocker along each of the eight rays out of the king.
func (g *generator) analyze(p *Position) CheckInfo {
	us := p.sideToMove
	them := us.Other()
	ksq := p.KingSquare(us)
	ci := CheckInfo{King: ksq}
	if ksq == NoSquare {
		ci.Resolution = Universe
		return ci
	}

	var resolution Bitboard
	contact := g.at.pawnCapture[us][ksq]&p.pieces[them][Pawn] |
		g.at.knight[ksq]&p.pieces[them][Knight] |
		g.at.king[ksq]&p.pieces[them][King]
	for contact != 0 {
		sq := contact.PopLSB()
		ci.Checkers |= sq.BB()
		resolution |= sq.BB()
		ci.checks++
	}

	occ := p.all
	sliders := [2]Bitboard{
		Diagonal:   p.pieces[them][Bishop] | p.pieces[them][Queen],
		Orthogonal: p.pieces[them][Rook] | p.pieces[them][Queen],
	}
	for d := Direction(0); d < NumDirections; d++ {
		f := d.Family()
		ray := g.at.rayMask[ksq][d]
		seen := g.mr.Visible(ksq, occ, f) & ray
		blocker := seen & occ
		if blocker == 0 {
			continue
		}

		if blocker&sliders[f] != 0 {
			ci.Checkers |= blocker
			resolution |= seen
			ci.checks++
			continue
		}

		if blocker&p.occupied[us] == 0 {
			continue
		}
		// Look through the friendly blocker for a pinning slider.
		xray := occ &^ blocker
		behind := g.mr.Visible(ksq, xray, f) & ray
		if behind&xray&sliders[f] != 0 {
			ci.Pinned |= blocker
			ci.pinSq[ci.pins] = blocker.LSB()
			ci.pinRays[ci.pins] = behind
			ci.pins++
		}
	}

	switch {
	case ci.checks == 0:
		ci.Resolution = Universe
	case ci.checks == 1:
		ci.Resolution = resolution
	default:
		ci.Resolution = Empty
	}
	return ci
}

// attackersOf returns the pieces of color by attacking sq with the given
// occupancy.
func (g *generator) attackersOf(p *Position, sq Square, by Color, occ Bitboard) Bitboard {
	diag := p.pieces[by][Bishop] | p.pieces[by][Queen]
	orth := p.pieces[by][Rook] | p.pieces[by][Queen]
	return g.at.pawnCapture[by.Other()][sq]&p.pieces[by][Pawn] |
		g.at.knight[sq]&p.pieces[by][Knight] |
		g.at.king[sq]&p.pieces[by][King] |
		g.mr.Visible(sq, occ, Diagonal)&diag |
		g.mr.Visible(sq, occ, Orthogonal)&orth
}

// attackedBy returns every square attacked by color by with the given
// occupancy.
func (g *generator) attackedBy(p *Position, by Color, occ Bitboard) Bitboard {
	pawns := p.pieces[by][Pawn]
	var attacked Bitboard
	if by == White {
		attacked = pawns.NorthEast() | pawns.NorthWest()
	} else {
		attacked = pawns.SouthEast() | pawns.SouthWest()
	}

	for bb := p.pieces[by][Knight]; bb != 0; {
		attacked |= g.at.knight[bb.PopLSB()]
	}
	for bb := p.pieces[by][Bishop] | p.pieces[by][Queen]; bb != 0; {
		attacked |= g.mr.Visible(bb.PopLSB(), occ, Diagonal)
	}
	for bb := p.pieces[by][Rook] | p.pieces[by][Queen]; bb != 0; {
		attacked |= g.mr.Visible(bb.PopLSB(), occ, Orthogonal)
	}
	if ksq := p.KingSquare(by); ksq != NoSquare {
		attacked |= g.at.king[ksq]
	}
	return attacked
}
