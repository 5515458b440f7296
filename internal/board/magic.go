package board

import (
	"fmt"
	"math/bits"
	"math/rand"
)

// Table widths in index bits. Every square of a family uses the same width,
// so the widest relevant mask of the family must fit: 9 bits for diagonals
// and 12 for orthogonals. The spare bits make multipliers easy to find.
const (
	DiagonalTableBits   = 10
	OrthogonalTableBits = 13
)

// MaxMagicAttempts bounds the multiplier search per square.
const MaxMagicAttempts = 1 << 22

// magicSeed seeds the package-level resolver so start-up is deterministic.
const magicSeed = 0x6d61676963

// magicEntry maps the relevant occupancy of one square to its visibility.
type magicEntry struct {
	mask  Bitboard
	magic uint64
	shift uint8
	table []Bitboard
}

func (e *magicEntry) index(occ Bitboard) uint64 {
	return (uint64(occ&e.mask) * e.magic) >> e.shift
}

// MagicResolver answers "which squares does a slider of a family on a square
// see for a given occupancy" with a single multiply and table lookup.
type MagicResolver struct {
	entries  [2][64]magicEntry
	attempts [2][64]int
}

// SearchStats reports how many candidate multipliers the search tried.
type SearchStats struct {
	// Attempts[f][sq] is the number of candidates tried for square sq of
	// family f, including the accepted one.
	Attempts [2][64]int
	Total    int
	Max      int
}

// BuildMagicResolver searches a multiplier for every square of both families
// using candidates drawn from rng, and fills the lookup tables. An error is
// returned if any square exhausts MaxMagicAttempts.
func BuildMagicResolver(t *AttackTables, rng *rand.Rand, diagonalBits, orthogonalBits uint) (*MagicResolver, error) {
	r := &MagicResolver{}
	widths := [2]uint{Diagonal: diagonalBits, Orthogonal: orthogonalBits}

	for f := Diagonal; f <= Orthogonal; f++ {
		for sq := A1; sq <= H8; sq++ {
			mask := t.relevantMask(sq, f)
			if uint(mask.PopCount()) > widths[f] {
				return nil, fmt.Errorf("magic: %s mask on %s has %d bits, table width is %d",
					f, sq, mask.PopCount(), widths[f])
			}
			entry, tries, err := findMagic(t, rng, sq, f, mask, widths[f])
			if err != nil {
				return nil, err
			}
			r.entries[f][sq] = entry
			r.attempts[f][sq] = tries
		}
	}
	return r, nil
}

// findMagic enumerates every subset of mask with the Carry-Rippler trick and
// draws sparse candidates until one maps all subsets into the table without
// a destructive collision. Two subsets may share a slot when they see the
// same squares.
func findMagic(t *AttackTables, rng *rand.Rand, sq Square, f Family, mask Bitboard, width uint) (magicEntry, int, error) {
	n := 1 << mask.PopCount()
	occupancies := make([]Bitboard, 0, n)
	visible := make([]Bitboard, 0, n)
	subset := Empty
	for {
		occupancies = append(occupancies, subset)
		visible = append(visible, t.walkVisible(sq, subset, f))
		subset = (subset - mask) & mask
		if subset == Empty {
			break
		}
	}

	shift := uint8(64 - width)
	table := make([]Bitboard, 1<<width)

	for attempt := 1; attempt <= MaxMagicAttempts; attempt++ {
		magic := uint64(rng.Int63()&rng.Int63()&rng.Int63()) << 1
		if bits.OnesCount64((uint64(mask)*magic)>>56) < 6 {
			continue
		}

		clear(table)
		entry := magicEntry{mask: mask, magic: magic, shift: shift, table: table}
		ok := true
		for i, occ := range occupancies {
			idx := entry.index(occ)
			// Visibility is never empty, so a zero slot is unused.
			if table[idx] == Empty {
				table[idx] = visible[i]
			} else if table[idx] != visible[i] {
				ok = false
				break
			}
		}
		if ok {
			return entry, attempt, nil
		}
	}
	return magicEntry{}, MaxMagicAttempts, fmt.Errorf("magic: no %s multiplier for %s after %d attempts",
		f, sq, MaxMagicAttempts)
}

// Visible returns the squares a slider of family f on sq sees given the
// occupancy: every square along its rays up to and including the first
// occupied square in each direction.
func (r *MagicResolver) Visible(sq Square, occ Bitboard, f Family) Bitboard {
	e := &r.entries[f][sq]
	return e.table[e.index(occ)]
}

// Stats returns the search effort spent building the resolver.
func (r *MagicResolver) Stats() SearchStats {
	s := SearchStats{Attempts: r.attempts}
	for f := range r.attempts {
		for _, n := range r.attempts[f] {
			s.Total += n
			s.Max = max(s.Max, n)
		}
	}
	return s
}
