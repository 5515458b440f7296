package board

import (
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses and validates a FEN string. The half-move clock and
// full-move number are optional. Errors wrap ErrInvalidFEN.
func ParseFEN(fen string) (*Position, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 || len(parts) > 6 {
		return nil, fenError("need 4 to 6 fields, got %d", len(parts))
	}

	f := Fields{EnPassant: NoSquare, FullMoveNumber: 1}

	if err := parsePiecePlacement(&f, parts[0]); err != nil {
		return nil, err
	}

	switch parts[1] {
	case "w":
		f.SideToMove = White
	case "b":
		f.SideToMove = Black
	default:
		return nil, fenError("invalid side to move: %s", parts[1])
	}

	if err := parseCastlingRights(&f, parts[2]); err != nil {
		return nil, err
	}

	if parts[3] != "-" {
		target, err := ParseSquare(parts[3])
		if err != nil {
			return nil, fenError("invalid en passant square: %s", parts[3])
		}
		// The target lies behind the pawn that just advanced two squares.
		wantRank, pawnSq := 5, target-8
		if f.SideToMove == Black {
			wantRank, pawnSq = 2, target+8
		}
		if target.Rank() != wantRank {
			return nil, fenError("en passant square %s on wrong rank", target)
		}
		if !f.Bitboards[NewPiece(Pawn, f.SideToMove.Other())].Has(pawnSq) {
			return nil, fenError("en passant square %s without a pawn in front", target)
		}
		f.EnPassant = pawnSq
	}

	if len(parts) > 4 {
		hmc, err := strconv.Atoi(parts[4])
		if err != nil || hmc < 0 {
			return nil, fenError("invalid half-move clock: %s", parts[4])
		}
		f.HalfMoveClock = hmc
	}

	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fenError("invalid full-move number: %s", parts[5])
		}
		f.FullMoveNumber = fmn
	}

	pos := FromFields(f)
	if err := pos.Validate(); err != nil {
		return nil, fenError("%v", err)
	}
	return pos, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(f *Fields, placement string) error {
	ranks := strings.Split(placement, "/")
	if len(ranks) != 8 {
		return fenError("need 8 ranks, got %d", len(ranks))
	}

	for i, rankStr := range ranks {
		rank := 7 - i // FEN starts from rank 8
		file := 0

		for _, c := range rankStr {
			if file > 7 {
				return fenError("too many squares in rank %d", rank+1)
			}

			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fenError("invalid piece character: %c", c)
			}
			f.Bitboards[piece] |= NewSquare(file, rank).BB()
			file++
		}

		if file != 8 {
			return fenError("invalid number of squares in rank %d: got %d", rank+1, file)
		}
	}

	return nil
}

// parseCastlingRights parses the castling rights section of a FEN string.
func parseCastlingRights(f *Fields, castling string) error {
	if castling == "-" {
		f.Castling = NoCastling
		return nil
	}

	for _, c := range castling {
		switch c {
		case 'K':
			f.Castling |= WhiteKingSideCastle
		case 'Q':
			f.Castling |= WhiteQueenSideCastle
		case 'k':
			f.Castling |= BlackKingSideCastle
		case 'q':
			f.Castling |= BlackQueenSideCastle
		default:
			return fenError("invalid castling character: %c", c)
		}
	}

	return nil
}

// FEN returns the FEN representation of the position.
func (p *Position) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			piece := p.PieceAt(NewSquare(file, rank))
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	sb.WriteByte(' ')
	if p.sideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(p.castling.String())
	sb.WriteByte(' ')
	sb.WriteString(p.EnPassant().String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.halfMove))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(p.fullMove))

	return sb.String()
}
