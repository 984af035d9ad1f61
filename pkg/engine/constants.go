package engine

// Bitboard masks, bit 0 is a1 and bit 63 is h8
const (
	// centerMask covers d4, e4, d5 and e5
	centerMask uint64 = 0x0000001818000000
	// centerRingMask covers the twelve squares around the center: c3-f3, c6-f6, c4, c5, f4, f5
	centerRingMask uint64 = 0x00003C24243C0000
	// edgeMask covers the a-file, h-file, first and eighth ranks
	edgeMask uint64 = 0xFF818181818181FF
)

// Center control weights
const (
	centerOccupyPoints = 3
	ringOccupyPoints   = 2
	centerAttackPoints = 1
	edgeMinorPenalty   = 1
	// centerNormalizer scales the raw center score to roughly one unit
	centerNormalizer = 22.0
)

// Material weights
const (
	queenWeight  = 20
	rookWeight   = 15
	bishopWeight = 10
	knightWeight = 8
	pawnWeight   = 1
	// materialNormalizer is the weight of a full set of non-king pieces
	materialNormalizer = 94.0
	// ownMaterialFactor favours keeping our pieces over taking theirs
	ownMaterialFactor = 3
)

// Remaining terms
const (
	// unprotectedNormalizer is the number of pieces a side starts with
	unprotectedNormalizer = 16.0
	LinkedRooksBonus      = 0.5
	GivingCheckBonus      = 2.0
	InCheckPenalty        = 5.0
	// CheckmateBonus is added whenever the evaluated position is checkmate,
	// whichever side is mated
	CheckmateBonus = 100.0
)
