// Package fen contains utilities for reading and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/blackletter-chess/blackletter/pkg/board"
)

const (
	Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
)

// Decode returns a new position and game status from a FEN description.
//
// Example:
//   "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string, zobrist *board.ZobristTable) (*board.Position, int, int, error) {
	// A FEN record contains six fields. The separator between fields is a
	// space. The fields are:

	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return nil, 0, 0, fmt.Errorf("invalid number of sections in FEN: '%v'", fen)
	}

	// (1) Piece placement (from white's perspective). Each rank is described,
	// starting with rank 8 and ending with rank 1; within each rank, the
	// contents of each square are described from file a through file h.

	var planes board.Planes

	rank := board.Rank8
	file := board.FileA
	for _, r := range []rune(parts[0]) {
		switch {
		case r == '/':
			// "/" separates ranks. Cosmetic.
			rank--
			file = board.FileA

		case unicode.IsDigit(r):
			// Blank squares are noted using digits 1 through 8 (the number of blank squares).
			file += board.File(r - '0')

		case unicode.IsLetter(r):
			// Following the Standard Algebraic Notation (SAN), each piece is
			// identified by a single letter taken from the standard English names
			// (pawn = "P", knight = "N", bishop = "B", rook = "R", queen = "Q" and
			// king = "K"). White pieces are designated using upper-case letters
			// ("PNBRQK") while Black take lowercase ("pnbrqk").

			color, kind, ok := parsePiece(r)
			if !ok {
				return nil, 0, 0, fmt.Errorf("invalid piece '%v' in FEN: '%v'", r, fen)
			}
			if file > board.FileH {
				return nil, 0, 0, fmt.Errorf("invalid rank length in FEN: '%v'", fen)
			}
			planes.Put(board.NewSquare(file, rank), board.MakeCode(kind, color))
			file++

		default:
			return nil, 0, 0, fmt.Errorf("invalid character in FEN: '%v'", fen)
		}
	}
	if rank != board.Rank1 {
		return nil, 0, 0, fmt.Errorf("invalid number of ranks in FEN: '%v'", fen)
	}

	// (2) Active color. "w" means white moves next, "b" means black.

	active, ok := parseColor(parts[1])
	if !ok {
		return nil, 0, 0, fmt.Errorf("invalid active color in FEN: '%v'", fen)
	}

	// (3) Castling availability. If neither side can castle, this is
	// "-". Otherwise, this has one or more letters: "K" (White can castle
	// kingside), "Q" (White can castle queenside), "k" (Black can castle
	// kingside), and/or "q" (Black can castle queenside).

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, 0, 0, fmt.Errorf("invalid castling in FEN: '%v'", fen)
	}

	// (4) En passant target square in algebraic notation. If there's no en
	// passant target square, this is "-". If a pawn has just made a
	// 2-square move, this is the position "behind" the pawn.

	epColumn := board.NoEnPassant
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, 0, 0, fmt.Errorf("invalid en passant in FEN: '%v'", fen)
		}
		epColumn = uint8(sq.File())
	}

	// (5) Halfmove clock: This is the number of halfmoves since the last pawn
	// advance or capture. This is used to determine if a draw can be
	// claimed under the fifty move rule.

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return nil, 0, 0, fmt.Errorf("invalid halfmove in FEN: '%v'", fen)
	}

	// (6) Fullmove number: The number of the full move. It starts at 1, and is
	// incremented after Black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 0 {
		return nil, 0, 0, fmt.Errorf("invalid full moves in FEN: '%v'", fen)
	}

	meta := board.NewMetadata(castling, epColumn)
	pos, err := board.NewPosition(planes, active, meta, zobrist)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("invalid position in FEN: '%v': %w", fen, err)
	}
	return pos, np, fm, nil
}

// Encode encodes the position and game data in FEN notation.
func Encode(pos *board.Position, noprogress, fullmoves int) string {
	var sb strings.Builder
	for r := board.Rank8; ; r-- {
		blanks := 0
		for f := board.FileA; f <= board.FileH; f++ {
			code := pos.Planes.At(board.NewSquare(f, r))
			if code.IsEmpty() {
				blanks++
				continue
			}

			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(code.Color(), code.Kind()))
		}

		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r == board.Rank1 {
			break
		}
		sb.WriteString("/")
	}

	turn := printColor(pos.Side)
	castling := pos.Meta.Castling().String()

	ep := "-"
	if file, ok := pos.Meta.HasEnPassant(); ok {
		targetRank := board.Rank6
		if pos.Side == board.Black {
			targetRank = board.Rank3
		}
		ep = board.NewSquare(file, targetRank).String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, noprogress, fullmoves)
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling

	if str == "-" {
		return ret, true
	}
	for _, r := range []rune(str) {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (board.Color, board.Kind, bool) {
	switch r {
	case 'P':
		return board.White, board.KindPawn, true
	case 'B':
		return board.White, board.KindBishop, true
	case 'N':
		return board.White, board.KindKnight, true
	case 'R':
		return board.White, board.KindRook, true
	case 'Q':
		return board.White, board.KindQueen, true
	case 'K':
		return board.White, board.KindKing, true

	case 'p':
		return board.Black, board.KindPawn, true
	case 'b':
		return board.Black, board.KindBishop, true
	case 'n':
		return board.Black, board.KindKnight, true
	case 'r':
		return board.Black, board.KindRook, true
	case 'q':
		return board.Black, board.KindQueen, true
	case 'k':
		return board.Black, board.KindKing, true

	default:
		return 0, 0, false
	}
}

var pieceLetters = map[board.Kind]rune{
	board.KindPawn:   'p',
	board.KindBishop: 'b',
	board.KindKnight: 'n',
	board.KindRook:   'r',
	board.KindQueen:  'q',
	board.KindKing:   'k',
}

func printPiece(c board.Color, k board.Kind) rune {
	r, ok := pieceLetters[k]
	if !ok {
		return '?'
	}
	if c == board.White {
		return unicode.ToUpper(r)
	}
	return r
}
