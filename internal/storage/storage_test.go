package storage

import (
	"context"
	"testing"

	"github.com/hailam/chesscore/internal/board"
	"github.com/hailam/chesscore/internal/perft"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return s
}

func TestStoreLoad(t *testing.T) {
	s := openStore(t)

	if _, ok, err := s.Load(1, 1); err != nil || ok {
		t.Fatalf("Load on empty store = %v, %v", ok, err)
	}

	if err := s.Store(0xDEADBEEF, 4, 197281); err != nil {
		t.Fatal(err)
	}
	if err := s.Store(0xDEADBEEF, 3, 8902); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		hash  uint64
		depth int
		want  uint64
		ok    bool
	}{
		{0xDEADBEEF, 4, 197281, true},
		{0xDEADBEEF, 3, 8902, true},
		{0xDEADBEEF, 2, 0, false},
		{0xBEEF, 4, 0, false},
	}
	for _, tc := range tests {
		n, ok, err := s.Load(tc.hash, tc.depth)
		if err != nil {
			t.Fatal(err)
		}
		if ok != tc.ok || n != tc.want {
			t.Errorf("Load(%x, %d) = %d, %v; want %d, %v", tc.hash, tc.depth, n, ok, tc.want, tc.ok)
		}
	}

	if n, err := s.Len(); err != nil || n != 2 {
		t.Errorf("Len() = %d, %v; want 2", n, err)
	}
}

func TestStoreAsPerftCache(t *testing.T) {
	s := openStore(t)
	var _ perft.Cache = s

	c := &perft.Counter{Cache: s, Workers: 4}
	got, err := c.Count(context.Background(), board.NewPosition(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 197281 {
		t.Errorf("Count(start, 4) = %d, want 197281", got)
	}

	n, err := s.Len()
	if err != nil {
		t.Fatal(err)
	}
	if n == 0 {
		t.Error("no counts were cached")
	}
}
