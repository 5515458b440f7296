package board

import "math/rand"

// Process-wide tables, built once before any Position is used.
var (
	defaultTables *AttackTables
	defaultMagics *MagicResolver
	defaultGen    *generator
)

func init() {
	defaultTables = BuildAttackTables()
	r, err := BuildMagicResolver(defaultTables, rand.New(rand.NewSource(magicSeed)),
		DiagonalTableBits, OrthogonalTableBits)
	if err != nil {
		panic(err)
	}
	defaultMagics = r
	defaultGen = newGenerator(defaultTables, defaultMagics)
}

// DefaultAttackTables returns the shared attack tables.
func DefaultAttackTables() *AttackTables { return defaultTables }

// DefaultMagicResolver returns the shared magic resolver.
func DefaultMagicResolver() *MagicResolver { return defaultMagics }

// MagicStats reports the multiplier search effort spent at start-up.
func MagicStats() SearchStats { return defaultMagics.Stats() }

// BishopAttacks returns the bishop attack set from sq for the occupancy.
func BishopAttacks(sq Square, occ Bitboard) Bitboard {
	return defaultMagics.Visible(sq, occ, Diagonal)
}

// RookAttacks returns the rook attack set from sq for the occupancy.
func RookAttacks(sq Square, occ Bitboard) Bitboard {
	return defaultMagics.Visible(sq, occ, Orthogonal)
}

// QueenAttacks returns the queen attack set from sq for the occupancy.
func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}
