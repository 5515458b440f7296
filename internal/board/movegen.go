package board

// generator produces legal moves from the shared attack and magic tables.
type generator struct {
	at *AttackTables
	mr *MagicResolver
}

func newGenerator(at *AttackTables, mr *MagicResolver) *generator {
	return &generator{at: at, mr: mr}
}

// castle describes one castling option. The king walks from kingFrom over
// path to kingTo; empty must hold no piece.
type castle struct {
	right    CastlingRights
	kingFrom Square
	kingTo   Square
	rookFrom Square
	rookTo   Square
	empty    Bitboard
	path     Bitboard
}

var castles = [2][2]castle{
	White: {
		{WhiteKingSideCastle, E1, G1, H1, F1, F1.BB() | G1.BB(), F1.BB() | G1.BB()},
		{WhiteQueenSideCastle, E1, C1, A1, D1, B1.BB() | C1.BB() | D1.BB(), D1.BB() | C1.BB()},
	},
	Black: {
		{BlackKingSideCastle, E8, G8, H8, F8, F8.BB() | G8.BB(), F8.BB() | G8.BB()},
		{BlackQueenSideCastle, E8, C8, A8, D8, B8.BB() | C8.BB() | D8.BB(), D8.BB() | C8.BB()},
	},
}

// castleFor returns the castling option whose king move is from->to.
func castleFor(c Color, from, to Square) (castle, bool) {
	for _, cs := range castles[c] {
		if cs.kingFrom == from && cs.kingTo == to {
			return cs, true
		}
	}
	return castle{}, false
}

// generate appends every legal move of the side to move. A piece's
// destinations are its pseudo-legal targets filtered by the check
// resolution mask and its own pin ray; king moves and en passant are
// verified against the attack map directly.
func (g *generator) generate(p *Position, ci *CheckInfo, ml *MoveList) {
	us := p.sideToMove
	own := p.occupied[us]
	occ := p.all

	if ci.King != NoSquare {
		g.kingMoves(p, ci, ml)
	}
	if ci.DoubleCheck() {
		return
	}

	g.pawnMoves(p, ci, ml)

	for bb := p.pieces[us][Knight] &^ ci.Pinned; bb != 0; {
		from := bb.PopLSB()
		addMoves(ml, from, g.at.knight[from]&^own&ci.Resolution)
	}
	for bb := p.pieces[us][Bishop] | p.pieces[us][Queen]; bb != 0; {
		from := bb.PopLSB()
		targets := g.mr.Visible(from, occ, Diagonal) &^ own
		addMoves(ml, from, targets&ci.Resolution&ci.PinRay(from))
	}
	for bb := p.pieces[us][Rook] | p.pieces[us][Queen]; bb != 0; {
		from := bb.PopLSB()
		targets := g.mr.Visible(from, occ, Orthogonal) &^ own
		addMoves(ml, from, targets&ci.Resolution&ci.PinRay(from))
	}
}

func addMoves(ml *MoveList, from Square, targets Bitboard) {
	for targets != 0 {
		ml.Add(NewMove(from, targets.PopLSB()))
	}
}

// kingMoves adds king steps to unattacked squares and castling. The attack
// map is computed with the king lifted off the board so that it cannot hide
// behind itself on a checking ray.
func (g *generator) kingMoves(p *Position, ci *CheckInfo, ml *MoveList) {
	us := p.sideToMove
	ksq := ci.King
	attacked := g.attackedBy(p, us.Other(), p.all&^ksq.BB())

	addMoves(ml, ksq, g.at.king[ksq]&^p.occupied[us]&^attacked)

	if ci.InCheck() {
		return
	}
	for _, cs := range castles[us] {
		if p.castling&cs.right == 0 || ksq != cs.kingFrom {
			continue
		}
		if !p.pieces[us][Rook].Has(cs.rookFrom) {
			continue
		}
		if p.all&cs.empty != 0 || attacked&cs.path != 0 {
			continue
		}
		ml.Add(newCastling(cs.kingFrom, cs.kingTo))
	}
}

func (g *generator) pawnMoves(p *Position, ci *CheckInfo, ml *MoveList) {
	us := p.sideToMove
	them := us.Other()
	enemies := p.occupied[them]
	occ := p.all
	lastRank := Rank8
	if us == Black {
		lastRank = Rank1
	}

	epTarget := p.EnPassant()

	for bb := p.pieces[us][Pawn]; bb != 0; {
		from := bb.PopLSB()
		allowed := ci.Resolution & ci.PinRay(from)

		var targets Bitboard
		push := g.at.pawnPush[us][from] &^ occ
		targets |= push
		if push != 0 {
			targets |= g.at.pawnDoublePush[us][from] &^ occ
		}
		targets |= g.at.pawnCapture[us][from] & enemies
		targets &= allowed

		for targets != 0 {
			to := targets.PopLSB()
			if lastRank.Has(to) {
				for _, promo := range PromotionTypes {
					ml.Add(NewPromotion(from, to, promo))
				}
			} else {
				ml.Add(NewMove(from, to))
			}
		}

		if epTarget != NoSquare && g.at.pawnCapture[us][from].Has(epTarget) &&
			g.enPassantLegal(p, ci, from, epTarget) {
			ml.Add(newEnPassant(from, epTarget))
		}
	}
}

// enPassantLegal checks an en passant capture from -> to. The capture must
// resolve any single check, either by landing on the resolution mask or by
// removing the checking pawn, and must respect the capturing pawn's pin.
// Because two pawns leave the capture rank at once, the king's safety is
// then re-verified on the resulting occupancy.
func (g *generator) enPassantLegal(p *Position, ci *CheckInfo, from, to Square) bool {
	captured := p.epPawn
	if !ci.Resolution.Has(to) && !ci.Checkers.Has(captured) {
		return false
	}
	if !ci.PinRay(from).Has(to) {
		return false
	}

	ksq := ci.King
	if ksq == NoSquare {
		return true
	}
	us := p.sideToMove
	them := us.Other()
	occ := p.all&^from.BB()&^captured.BB() | to.BB()

	diag := p.pieces[them][Bishop] | p.pieces[them][Queen]
	orth := p.pieces[them][Rook] | p.pieces[them][Queen]
	if g.mr.Visible(ksq, occ, Diagonal)&diag != 0 {
		return false
	}
	if g.mr.Visible(ksq, occ, Orthogonal)&orth != 0 {
		return false
	}
	if g.at.knight[ksq]&p.pieces[them][Knight] != 0 {
		return false
	}
	return g.at.pawnCapture[us][ksq]&p.pieces[them][Pawn]&^captured.BB() == 0
}
