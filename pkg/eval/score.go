// Package eval contains static position evaluation: material balance, piece-square
// tables, and a handful of positional terms, all scored from White's perspective; an
// Evaluator's result is negated for the side to move when that side is Black.
package eval

import (
	"fmt"

	"github.com/blackletter-chess/blackletter/pkg/board"
)

// Score is a signed evaluation in centipawns. The individual terms are White-relative
// (positive favors White); Evaluator results are relative to the side to move.
type Score int32

const (
	// MaxScore bounds any ordinary evaluation; MinScore is its mirror.
	MaxScore Score = 1_000_000
	MinScore Score = -MaxScore

	// WinThreshold is the smallest magnitude a mate score can have. Search reports
	// checkmate as WinThreshold+depth (closer mates score higher), which must always
	// exceed any material evaluation so the search prefers a forced mate over material.
	WinThreshold Score = MaxScore / 2
)

func (s Score) String() string {
	return fmt.Sprintf("%+d", int32(s))
}

// Unit is the signed unit for a color: +1 for White, -1 for Black. Multiplying a
// White-relative score by Unit(sideToMove) gives that side's score.
func Unit(c board.Color) Score {
	if c == board.White {
		return 1
	}
	return -1
}

// Crop clamps s into [MinScore, MaxScore].
func Crop(s Score) Score {
	switch {
	case s > MaxScore:
		return MaxScore
	case s < MinScore:
		return MinScore
	default:
		return s
	}
}
