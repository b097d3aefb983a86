package eval

import "github.com/blackletter-chess/blackletter/pkg/board"

const (
	doubledPawnPenalty  Score = 15
	isolatedPawnPenalty Score = 10
)

// PawnStructure penalizes doubled and isolated pawns, White-relative.
func PawnStructure(planes board.Planes) Score {
	white := planes.SquaresOf(board.MakeCode(board.KindPawn, board.White))
	black := planes.SquaresOf(board.MakeCode(board.KindPawn, board.Black))

	return structurePenalty(black) - structurePenalty(white)
}

func structurePenalty(pawns board.Bitboard) Score {
	var fileCount [8]int
	for f := board.FileA; f <= board.FileH; f++ {
		fileCount[f] = (pawns & board.BitFile(f)).Count()
	}

	var penalty Score
	for f := board.FileA; f <= board.FileH; f++ {
		if fileCount[f] > 1 {
			penalty += doubledPawnPenalty * Score(fileCount[f]-1)
		}
		if fileCount[f] > 0 {
			hasNeighbor := (f > board.FileA && fileCount[f-1] > 0) || (f < board.FileH && fileCount[f+1] > 0)
			if !hasNeighbor {
				penalty += isolatedPawnPenalty * Score(fileCount[f])
			}
		}
	}
	return penalty
}

const pinnedPenalty Score = 12

// KingSafety penalizes pieces pinned against their own king, White-relative: a pinned
// piece's mobility is a subset of its unpinned mobility, and the simplest proxy for "how
// much" is a flat penalty per pin regardless of which piece is pinned.
func KingSafety(planes board.Planes) Score {
	whitePins := Score(len(findPins(planes, board.White)))
	blackPins := Score(len(findPins(planes, board.Black)))
	return (blackPins - whitePins) * pinnedPenalty
}

// pin records a piece of the defending side pinned to its king by an opposing slider.
type pin struct {
	Attacker, Pinned board.Square
}

// findPins returns every pin currently held against side's king, along rook and bishop
// lines: a slider of the opponent's, the defender's own king on the far end of the same
// ray, and exactly one of the defender's own pieces in between.
func findPins(planes board.Planes, side board.Color) []pin {
	opp := side.Opponent()
	kingSq := kingSquare(planes, side)
	own := planes.ColorPieces(side)
	occupied := planes.Occupied()

	var pins []pin

	rookers := planes.SquaresOf(board.MakeCode(board.KindRook, opp)) | planes.SquaresOf(board.MakeCode(board.KindQueen, opp))
	pins = append(pins, slidingPins(kingSq, rookers, own, occupied, board.RookAttackboard)...)

	bishopers := planes.SquaresOf(board.MakeCode(board.KindBishop, opp)) | planes.SquaresOf(board.MakeCode(board.KindQueen, opp))
	pins = append(pins, slidingPins(kingSq, bishopers, own, occupied, board.BishopAttackboard)...)

	return pins
}

func slidingPins(kingSq board.Square, attackers, own, occupied board.Bitboard, rayFn func(board.Square, board.Bitboard) board.Bitboard) []pin {
	var pins []pin
	attackers &= rayFn(kingSq, occupied&^own) // opponent sliders that share a ray with the king through empty squares and the defender's own pieces
	candidates := attackers
	for candidates != 0 {
		var attackerSq board.Square
		attackerSq, candidates = candidates.PopLSB()

		between := rayFn(kingSq, occupied) & rayFn(attackerSq, occupied)
		blockers := between & own
		if blockers.Count() == 1 {
			pinnedSq, _ := blockers.PopLSB()
			pins = append(pins, pin{Attacker: attackerSq, Pinned: pinnedSq})
		}
	}
	return pins
}

func kingSquare(planes board.Planes, side board.Color) board.Square {
	bb := planes.SquaresOf(board.MakeCode(board.KindKing, side))
	sq, _ := bb.PopLSB()
	return sq
}
