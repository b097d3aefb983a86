package eval

import "github.com/blackletter-chess/blackletter/pkg/board"

// Material returns the White-relative nominal material balance, summed over the four
// non-king, non-pawn-structure-aware piece kinds plus pawns: White's count of a kind
// minus Black's, times that kind's centipawn value.
func Material(planes board.Planes) Score {
	var total Score
	for _, k := range [...]board.Kind{board.KindPawn, board.KindKnight, board.KindBishop, board.KindRook, board.KindQueen} {
		white := planes.SquaresOf(board.MakeCode(k, board.White)).Count()
		black := planes.SquaresOf(board.MakeCode(k, board.Black)).Count()
		total += Score(white-black) * Score(k.NominalValue())
	}
	return total
}
