// Package perft counts the leaf positions of the legal move tree, the
// standard correctness check for a move generator.
package perft

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"github.com/hailam/chesscore/internal/board"
)

// Cache stores subtree counts keyed by position hash and remaining depth.
type Cache interface {
	Load(hash uint64, depth int) (nodes uint64, ok bool, err error)
	Store(hash uint64, depth int, nodes uint64) error
}

// Count returns the number of leaf positions exactly depth plies below pos.
func Count(pos *board.Position, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	if depth == 1 {
		return uint64(pos.NumLegalMoves())
	}

	var nodes uint64
	pos.EachChild(func(c board.Child) bool {
		nodes += Count(c.Position, depth-1)
		return true
	})
	return nodes
}

// Counter runs perft with an optional transposition cache and splits the
// root moves over several goroutines.
type Counter struct {
	Cache   Cache
	Workers int
	Logger  zerolog.Logger
}

// NewCounter returns a single-threaded counter without a cache.
func NewCounter() *Counter {
	return &Counter{Workers: 1, Logger: zerolog.Nop()}
}

// Count returns the leaf count at depth, checking ctx between subtrees.
func (c *Counter) Count(ctx context.Context, pos *board.Position, depth int) (uint64, error) {
	div, err := c.Divide(ctx, pos, depth)
	if err != nil {
		return 0, err
	}
	return div.Total, nil
}

// Division is the leaf count per root move.
type Division struct {
	Depth int
	Moves map[string]uint64
	Total uint64
}

// Sorted returns the root moves in coordinate-string order.
func (d *Division) Sorted() []string {
	keys := maps.Keys(d.Moves)
	slices.Sort(keys)
	return keys
}

// Divide counts each root move's subtree separately. With Workers > 1 the
// root children are counted concurrently.
func (c *Counter) Divide(ctx context.Context, pos *board.Position, depth int) (*Division, error) {
	div := &Division{Depth: depth, Moves: make(map[string]uint64)}
	if depth <= 0 {
		div.Total = 1
		return div, nil
	}

	children := pos.LegalChildren()
	counts := make([]uint64, len(children))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Workers, 1))
	for i, child := range children {
		i, child := i, child
		g.Go(func() error {
			n, err := c.count(ctx, child.Position, depth-1)
			if err != nil {
				return fmt.Errorf("perft: %s: %w", child.Move, err)
			}
			counts[i] = n
			c.Logger.Debug().Str("move", child.Move.String()).Uint64("nodes", n).Msg("root move counted")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, child := range children {
		div.Moves[child.Move.String()] = counts[i]
		div.Total += counts[i]
	}
	return div, nil
}

// count is Count with cache lookups and cancellation for subtrees of depth
// two and more.
func (c *Counter) count(ctx context.Context, pos *board.Position, depth int) (uint64, error) {
	if depth <= 0 {
		return 1, nil
	}
	if depth == 1 {
		return uint64(pos.NumLegalMoves()), nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if c.Cache != nil {
		n, ok, err := c.Cache.Load(pos.ZobristHash(), depth)
		if err != nil {
			return 0, fmt.Errorf("cache load: %w", err)
		}
		if ok {
			return n, nil
		}
	}

	var (
		nodes uint64
		err   error
	)
	pos.EachChild(func(child board.Child) bool {
		var n uint64
		n, err = c.count(ctx, child.Position, depth-1)
		nodes += n
		return err == nil
	})
	if err != nil {
		return 0, err
	}

	if c.Cache != nil {
		if err := c.Cache.Store(pos.ZobristHash(), depth, nodes); err != nil {
			return 0, fmt.Errorf("cache store: %w", err)
		}
	}
	return nodes, nil
}
