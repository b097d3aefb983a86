package eval

import "github.com/blackletter-chess/blackletter/pkg/board"

// Each table is laid out rank8-to-rank1, file-a-to-file-h (the conventional way to read a
// piece-square table on the page), and indexed with the rank flipped for White so that
// table[56..63] always corresponds to the piece owner's own back rank. Black
// mirrors White's table vertically, since the tables are symmetric in intent (Black's
// back rank plays the same role as White's).
var (
	pawnTable = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		50, 50, 50, 50, 50, 50, 50, 50,
		10, 10, 20, 30, 30, 20, 10, 10,
		5, 5, 10, 25, 25, 10, 5, 5,
		0, 0, 0, 20, 20, 0, 0, 0,
		5, -5, -10, 0, 0, -10, -5, 5,
		5, 10, 10, -20, -20, 10, 10, 5,
		0, 0, 0, 0, 0, 0, 0, 0,
	}
	knightTable = [64]int32{
		-50, -40, -30, -30, -30, -30, -40, -50,
		-40, -20, 0, 0, 0, 0, -20, -40,
		-30, 0, 10, 15, 15, 10, 0, -30,
		-30, 5, 15, 20, 20, 15, 5, -30,
		-30, 0, 15, 20, 20, 15, 0, -30,
		-30, 5, 10, 15, 15, 10, 5, -30,
		-40, -20, 0, 5, 5, 0, -20, -40,
		-50, -40, -30, -30, -30, -30, -40, -50,
	}
	bishopTable = [64]int32{
		-20, -10, -10, -10, -10, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 10, 10, 5, 0, -10,
		-10, 5, 5, 10, 10, 5, 5, -10,
		-10, 0, 10, 10, 10, 10, 0, -10,
		-10, 10, 10, 10, 10, 10, 10, -10,
		-10, 5, 0, 0, 0, 0, 5, -10,
		-20, -10, -10, -10, -10, -10, -10, -20,
	}
	rookTable = [64]int32{
		0, 0, 0, 0, 0, 0, 0, 0,
		5, 10, 10, 10, 10, 10, 10, 5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		-5, 0, 0, 0, 0, 0, 0, -5,
		0, 0, 0, 5, 5, 0, 0, 0,
	}
	queenTable = [64]int32{
		-20, -10, -10, -5, -5, -10, -10, -20,
		-10, 0, 0, 0, 0, 0, 0, -10,
		-10, 0, 5, 5, 5, 5, 0, -10,
		-5, 0, 5, 5, 5, 5, 0, -5,
		0, 0, 5, 5, 5, 5, 0, -5,
		-10, 5, 5, 5, 5, 5, 0, -10,
		-10, 0, 5, 0, 0, 0, 0, -10,
		-20, -10, -10, -5, -5, -10, -10, -20,
	}
	kingTable = [64]int32{
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-30, -40, -40, -50, -50, -40, -40, -30,
		-20, -30, -30, -40, -40, -30, -30, -20,
		-10, -20, -20, -20, -20, -20, -20, -10,
		20, 20, 0, 0, 0, 0, 20, 20,
		20, 30, 10, 0, 0, 10, 30, 20,
	}
)

func tableFor(k board.Kind) *[64]int32 {
	switch k {
	case board.KindPawn:
		return &pawnTable
	case board.KindKnight:
		return &knightTable
	case board.KindBishop:
		return &bishopTable
	case board.KindRook:
		return &rookTable
	case board.KindQueen:
		return &queenTable
	case board.KindKing:
		return &kingTable
	default:
		return nil
	}
}

// pstIndex maps a square to a piece-square-table index: 0-7 on the opponent's back rank
// (table index layout above), counting toward the owner's own back rank at index 56-63.
func pstIndex(sq board.Square, c board.Color) int {
	rank := int(sq.Rank())
	file := int(sq.File())
	if c == board.White {
		rank = 7 - rank
	}
	return rank*8 + file
}

// PieceSquare returns the White-relative piece-square-table contribution of every piece
// on the board.
func PieceSquare(planes board.Planes) Score {
	var total Score
	for _, k := range [...]board.Kind{board.KindPawn, board.KindKnight, board.KindBishop, board.KindRook, board.KindQueen, board.KindKing} {
		table := tableFor(k)

		white := planes.SquaresOf(board.MakeCode(k, board.White))
		for white != 0 {
			var sq board.Square
			sq, white = white.PopLSB()
			total += Score(table[pstIndex(sq, board.White)])
		}

		black := planes.SquaresOf(board.MakeCode(k, board.Black))
		for black != 0 {
			var sq board.Square
			sq, black = black.PopLSB()
			total -= Score(table[pstIndex(sq, board.Black)])
		}
	}
	return total
}
