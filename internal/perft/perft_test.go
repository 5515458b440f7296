package perft

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/hailam/chesscore/internal/board"
)

const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"

func TestCount(t *testing.T) {
	tests := []struct {
		depth int
		want  uint64
	}{
		{0, 1},
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}
	for _, tc := range tests {
		if got := Count(board.NewPosition(), tc.depth); got != tc.want {
			t.Errorf("Count(start, %d) = %d, want %d", tc.depth, got, tc.want)
		}
	}
}

func TestCounterParallel(t *testing.T) {
	c := NewCounter()
	c.Workers = 4
	got, err := c.Count(context.Background(), board.NewPosition(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 197281 {
		t.Errorf("parallel Count(start, 4) = %d, want 197281", got)
	}
}

func TestCounterWithMemoryCache(t *testing.T) {
	cache, err := NewMemoryCache(1 << 16)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	pos, err := board.ParseFEN(kiwipete)
	if err != nil {
		t.Fatal(err)
	}

	c := &Counter{Cache: cache, Workers: 2}
	for run := 0; run < 2; run++ {
		got, err := c.Count(context.Background(), pos, 3)
		if err != nil {
			t.Fatal(err)
		}
		if got != 97862 {
			t.Errorf("run %d: Count(kiwipete, 3) = %d, want 97862", run, got)
		}
		cache.Wait()
	}
}

func TestMemoryCacheKeysDepth(t *testing.T) {
	cache, err := NewMemoryCache(1024)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	if err := cache.Store(42, 3, 100); err != nil {
		t.Fatal(err)
	}
	cache.Wait()

	if n, ok, _ := cache.Load(42, 3); !ok || n != 100 {
		t.Errorf("Load(42, 3) = %d, %v", n, ok)
	}
	if _, ok, _ := cache.Load(42, 4); ok {
		t.Error("Load(42, 4) hit an entry stored for depth 3")
	}

	if _, err := NewMemoryCache(0); err == nil {
		t.Error("NewMemoryCache(0) should fail")
	}
}

func TestDivide(t *testing.T) {
	div, err := NewCounter().Divide(context.Background(), board.NewPosition(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if div.Total != 8902 {
		t.Errorf("Total = %d, want 8902", div.Total)
	}
	if len(div.Moves) != 20 {
		t.Errorf("%d root moves, want 20", len(div.Moves))
	}
	want := map[string]uint64{"a2a3": 380, "e2e4": 600, "g1f3": 440, "b1c3": 440}
	for m, n := range want {
		if div.Moves[m] != n {
			t.Errorf("Moves[%s] = %d, want %d", m, div.Moves[m], n)
		}
	}

	sorted := div.Sorted()
	if !sort.StringsAreSorted(sorted) || len(sorted) != 20 {
		t.Errorf("Sorted() = %v", sorted)
	}
}

func TestCounterCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewCounter().Count(ctx, board.NewPosition(), 4)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

type failingCache struct{ err error }

func (f failingCache) Load(uint64, int) (uint64, bool, error) { return 0, false, nil }
func (f failingCache) Store(uint64, int, uint64) error       { return f.err }

func TestCounterCacheError(t *testing.T) {
	boom := errors.New("boom")
	c := &Counter{Cache: failingCache{boom}, Workers: 1}
	_, err := c.Count(context.Background(), board.NewPosition(), 3)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped boom", err)
	}
}

func BenchmarkCount4(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Count(board.NewPosition(), 4)
	}
}
