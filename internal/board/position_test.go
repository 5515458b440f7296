package board

import (
	"sync"
	"testing"
)

func mustFEN(t testing.TB, fen string) *Position {
	t.Helper()
	pos, err := ParseFEN(fen)
	if err != nil {
		t.Fatalf("ParseFEN(%q): %v", fen, err)
	}
	return pos
}

func TestCheckmate(t *testing.T) {
	// Back rank mate: white rook a8, black king h8 boxed in by its pawns.
	pos := mustFEN(t, "R6k/6pp/8/8/8/8/8/K7 b - - 0 1")

	if !pos.IsCheck() {
		t.Error("expected check")
	}
	if n := len(pos.LegalMoves()); n != 0 {
		t.Errorf("got %d legal moves, want 0", n)
	}
	if !pos.IsCheckmate() {
		t.Error("Expected checkmate but got false")
	}
	if pos.IsStalemate() {
		t.Error("checkmate reported as stalemate")
	}
}

func TestNotCheckmate(t *testing.T) {
	// The king can capture the checking rook.
	pos := mustFEN(t, "6Rk/8/8/8/8/8/8/K7 b - - 0 1")

	if !pos.IsCheck() {
		t.Error("expected check")
	}
	if pos.IsCheckmate() {
		t.Error("Expected NOT checkmate but got true")
	}
	if _, err := pos.ParseMove("h8g8"); err != nil {
		t.Errorf("h8g8 should be legal: %v", err)
	}
}

func TestStalemate(t *testing.T) {
	pos := mustFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

	if pos.IsCheck() {
		t.Error("stalemate position reported as check")
	}
	if !pos.IsStalemate() {
		t.Error("expected stalemate")
	}
	if pos.IsCheckmate() {
		t.Error("stalemate reported as checkmate")
	}
	if !pos.IsDraw() {
		t.Error("stalemate should be a draw")
	}
}

func TestStatusExclusive(t *testing.T) {
	fens := []string{
		StartFEN,
		"R6k/6pp/8/8/8/8/8/K7 b - - 0 1",
		"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnb1kbnr/pppp1ppp/8/4p3/6Pq/5P2/PPPPP2P/RNBQKBNR w KQkq - 1 3",
	}
	for _, fen := range fens {
		pos := mustFEN(t, fen)
		if pos.IsCheckmate() && pos.IsStalemate() {
			t.Errorf("%s: both checkmate and stalemate", fen)
		}
		if pos.IsCheckmate() != (pos.IsCheck() && len(pos.LegalMoves()) == 0) {
			t.Errorf("%s: IsCheckmate inconsistent", fen)
		}
		if pos.IsStalemate() != (!pos.IsCheck() && len(pos.LegalMoves()) == 0) {
			t.Errorf("%s: IsStalemate inconsistent", fen)
		}
	}

	// Fool's mate.
	if !mustFEN(t, fens[4]).IsCheckmate() {
		t.Error("fool's mate not detected")
	}
}

func TestInsufficientMaterial(t *testing.T) {
	tests := []struct {
		name string
		fen  string
		want bool
	}{
		{"bare kings", "8/8/8/4k3/8/8/8/4K3 w - - 0 1", true},
		{"king and bishop", "8/8/8/4k3/8/8/8/2B1K3 w - - 0 1", true},
		{"king and knight", "8/8/8/4k3/8/8/8/1N2K3 w - - 0 1", true},
		{"two knights", "8/8/8/4k3/8/8/8/1NN1K3 w - - 0 1", false},
		{"bishops same colour", "5b2/8/8/4k3/8/8/8/2B1K3 w - - 0 1", true},
		{"bishops opposite colour", "2b5/8/8/4k3/8/8/8/2B1K3 w - - 0 1", false},
		{"pawn", "8/8/8/4k3/8/8/4P3/4K3 w - - 0 1", false},
		{"rook", "8/8/8/4k3/8/8/8/R3K3 w - - 0 1", false},
		{"start", StartFEN, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustFEN(t, tc.fen)
			if got := pos.HasInsufficientMaterial(); got != tc.want {
				t.Errorf("HasInsufficientMaterial() = %v, want %v", got, tc.want)
			}
			if tc.want && !pos.IsDraw() {
				t.Error("insufficient material should be a draw")
			}
		})
	}
}

func TestFiftyMoveDraw(t *testing.T) {
	tests := []struct {
		fen  string
		want bool
	}{
		{"8/8/8/4k3/8/8/8/R3K3 w - - 99 80", false},
		{"8/8/8/4k3/8/8/8/R3K3 w - - 100 80", true},
		{"8/8/8/4k3/8/8/8/R3K3 w - - 150 80", true},
	}
	for _, tc := range tests {
		pos := mustFEN(t, tc.fen)
		if got := pos.IsFiftyMoveDraw(); got != tc.want {
			t.Errorf("%s: IsFiftyMoveDraw() = %v, want %v", tc.fen, got, tc.want)
		}
		if got := pos.IsDraw(); got != tc.want {
			t.Errorf("%s: IsDraw() = %v, want %v", tc.fen, got, tc.want)
		}
	}

	// The 100th half-move without progress triggers the rule.
	pos := mustFEN(t, "8/8/8/4k3/8/8/8/R3K3 w - - 99 80")
	child, err := pos.Apply(NewMove(A1, A2))
	if err != nil {
		t.Fatal(err)
	}
	if !child.IsFiftyMoveDraw() {
		t.Errorf("half-move clock %d should be a draw", child.HalfMoveClock())
	}
}

func TestBitboardsDisjoint(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	for _, child := range pos.LegalChildren() {
		f := child.Position.Fields()
		var seen Bitboard
		for i, bb := range f.Bitboards {
			if seen&bb != 0 {
				t.Fatalf("after %s: bitboard %s overlaps", child.Move, Piece(i))
			}
			seen |= bb
		}
		if seen != child.Position.AllOccupied() {
			t.Fatalf("after %s: occupancy mismatch", child.Move)
		}
	}
}

func TestFieldsRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}
	for _, fen := range fens {
		pos := mustFEN(t, fen)
		again := FromFields(pos.Fields())
		if again.FEN() != fen {
			t.Errorf("FromFields(Fields()).FEN() = %q, want %q", again.FEN(), fen)
		}
		if again.ZobristHash() != pos.ZobristHash() {
			t.Errorf("%s: hash changed across round trip", fen)
		}
	}
}

func TestFromFieldsDropsStaleCastling(t *testing.T) {
	f := NewPosition().Fields()
	f.Bitboards[WhiteRook] &^= H1.BB()
	f.Bitboards[BlackKing] = D8.BB()
	f.Bitboards[BlackQueen] = Empty

	pos := FromFields(f)
	if got, want := pos.Castling(), WhiteQueenSideCastle; got != want {
		t.Errorf("Castling() = %s, want %s", got, want)
	}
}

func TestPieceAt(t *testing.T) {
	pos := NewPosition()
	tests := []struct {
		sq   Square
		want Piece
	}{
		{E1, WhiteKing},
		{D8, BlackQueen},
		{B1, WhiteKnight},
		{A7, BlackPawn},
		{E4, NoPiece},
	}
	for _, tc := range tests {
		if got := pos.PieceAt(tc.sq); got != tc.want {
			t.Errorf("PieceAt(%s) = %s, want %s", tc.sq, got, tc.want)
		}
	}
}

func TestLegalMovesReturnsCopy(t *testing.T) {
	pos := NewPosition()
	moves := pos.LegalMoves()
	moves[0] = NoMove
	if pos.LegalMoves()[0] == NoMove {
		t.Error("mutating the returned slice changed the cache")
	}

	children := pos.LegalChildren()
	children[0].Position = nil
	if pos.LegalChildren()[0].Position == nil {
		t.Error("mutating the returned children changed the cache")
	}
}

func TestConcurrentLazyAccess(t *testing.T) {
	pos := mustFEN(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	const workers = 8
	results := make([][]Child, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = pos.IsCheckmate()
			results[i] = pos.LegalChildren()
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if len(results[i]) != len(results[0]) {
			t.Fatalf("worker %d saw %d children, want %d", i, len(results[i]), len(results[0]))
		}
		for j := range results[i] {
			if results[i][j].Position != results[0][j].Position {
				t.Fatalf("worker %d got a different child %d", i, j)
			}
		}
	}
	if len(results[0]) != 48 {
		t.Errorf("got %d children, want 48", len(results[0]))
	}
}

func TestValidate(t *testing.T) {
	f := NewPosition().Fields()
	f.Bitboards[WhitePawn] |= E8.BB() >> 8 // e7, already black pawn
	if err := FromFields(f).Validate(); err == nil {
		t.Error("overlapping bitboards should fail validation")
	}

	f = NewPosition().Fields()
	f.Bitboards[WhiteKing] = Empty
	if err := FromFields(f).Validate(); err == nil {
		t.Error("missing king should fail validation")
	}

	if err := NewPosition().Validate(); err != nil {
		t.Errorf("start position: %v", err)
	}
}
