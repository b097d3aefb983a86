// Package posjson loads and saves board.Position values as JSON, in either of two
// shapes: a compact "planes" form carrying the four raw bitboard planes directly, and a
// human-editable "pieces" form listing each side's occupied squares by piece name. Both
// round-trip through the same Document so callers don't need to know which shape a file
// used to read it.
package posjson

import (
	"encoding/json"
	"fmt"

	"github.com/blackletter-chess/blackletter/pkg/board"
)

// Document is the on-disk JSON shape for a position. Exactly one of Planes or Pieces
// should be set; if both are, Planes wins.
type Document struct {
	Planes *PlanesDocument `json:"planes,omitempty"`
	Pieces *PiecesDocument `json:"pieces,omitempty"`

	Side      string `json:"side"`
	Castling  string `json:"castling"`
	EnPassant string `json:"en_passant,omitempty"`

	NoProgressCount int `json:"noprogress_count"`
	FullMoveNumber  int `json:"fullmove_number"`
}

// PlanesDocument mirrors board.Planes field-for-field: four 64-bit occupancy masks whose
// bitwise combination packs a 4-bit piece code per square.
type PlanesDocument struct {
	A uint64 `json:"a"`
	B uint64 `json:"b"`
	C uint64 `json:"c"`
	D uint64 `json:"d"`
}

// PiecesDocument lists each side's pieces by kind, square names like "e4".
type PiecesDocument struct {
	White SideDocument `json:"white"`
	Black SideDocument `json:"black"`
}

// SideDocument is one color's pieces, grouped by kind name.
type SideDocument struct {
	Pawn   []string `json:"pawn,omitempty"`
	Knight []string `json:"knight,omitempty"`
	Bishop []string `json:"bishop,omitempty"`
	Rook   []string `json:"rook,omitempty"`
	Queen  []string `json:"queen,omitempty"`
	King   []string `json:"king,omitempty"`
}

// Decode parses a Document into a Position plus the no-progress and fullmove counters
// that FEN also carries but board.Position itself does not (those live in board.Game).
func Decode(data []byte, zobrist *board.ZobristTable) (*board.Position, int, int, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, 0, 0, fmt.Errorf("invalid position JSON: %w", err)
	}

	var planes board.Planes
	switch {
	case doc.Planes != nil:
		planes = board.Planes{
			A: board.Bitboard(doc.Planes.A),
			B: board.Bitboard(doc.Planes.B),
			C: board.Bitboard(doc.Planes.C),
			D: board.Bitboard(doc.Planes.D),
		}
	case doc.Pieces != nil:
		var err error
		planes, err = decodePieces(*doc.Pieces)
		if err != nil {
			return nil, 0, 0, err
		}
	default:
		return nil, 0, 0, fmt.Errorf("position JSON must set either \"planes\" or \"pieces\"")
	}

	side, err := parseSide(doc.Side)
	if err != nil {
		return nil, 0, 0, err
	}

	castling, err := parseCastling(doc.Castling)
	if err != nil {
		return nil, 0, 0, err
	}

	epColumn := board.NoEnPassant
	if doc.EnPassant != "" {
		sq, err := board.ParseSquareStr(doc.EnPassant)
		if err != nil {
			return nil, 0, 0, fmt.Errorf("invalid en_passant square %q: %w", doc.EnPassant, err)
		}
		epColumn = uint8(sq.File())
	}

	meta := board.NewMetadata(castling, epColumn)
	pos, err := board.NewPosition(planes, side, meta, zobrist)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("invalid position: %w", err)
	}
	return pos, doc.NoProgressCount, doc.FullMoveNumber, nil
}

// EncodePlanes serializes pos in the compact planes shape.
func EncodePlanes(pos *board.Position, noprogress, fullmoves int) ([]byte, error) {
	doc := Document{
		Planes: &PlanesDocument{
			A: uint64(pos.Planes.A),
			B: uint64(pos.Planes.B),
			C: uint64(pos.Planes.C),
			D: uint64(pos.Planes.D),
		},
		Side:            printSide(pos.Side),
		Castling:        pos.Meta.Castling().String(),
		NoProgressCount: noprogress,
		FullMoveNumber:  fullmoves,
	}
	if file, ok := pos.Meta.HasEnPassant(); ok {
		targetRank := board.Rank6
		if pos.Side == board.Black {
			targetRank = board.Rank3
		}
		doc.EnPassant = board.NewSquare(file, targetRank).String()
	}
	return json.MarshalIndent(doc, "", "  ")
}

// EncodePieces serializes pos in the human-editable per-kind square-list shape.
func EncodePieces(pos *board.Position, noprogress, fullmoves int) ([]byte, error) {
	doc := Document{
		Pieces:          encodePieces(pos.Planes),
		Side:            printSide(pos.Side),
		Castling:        pos.Meta.Castling().String(),
		NoProgressCount: noprogress,
		FullMoveNumber:  fullmoves,
	}
	if file, ok := pos.Meta.HasEnPassant(); ok {
		targetRank := board.Rank6
		if pos.Side == board.Black {
			targetRank = board.Rank3
		}
		doc.EnPassant = board.NewSquare(file, targetRank).String()
	}
	return json.MarshalIndent(doc, "", "  ")
}

func decodePieces(doc PiecesDocument) (board.Planes, error) {
	var planes board.Planes
	if err := placeSide(&planes, board.White, doc.White); err != nil {
		return planes, err
	}
	if err := placeSide(&planes, board.Black, doc.Black); err != nil {
		return planes, err
	}
	return planes, nil
}

func placeSide(planes *board.Planes, color board.Color, side SideDocument) error {
	groups := []struct {
		kind    board.Kind
		squares []string
	}{
		{board.KindPawn, side.Pawn},
		{board.KindKnight, side.Knight},
		{board.KindBishop, side.Bishop},
		{board.KindRook, side.Rook},
		{board.KindQueen, side.Queen},
		{board.KindKing, side.King},
	}
	for _, g := range groups {
		for _, s := range g.squares {
			sq, err := board.ParseSquareStr(s)
			if err != nil {
				return fmt.Errorf("invalid square %q: %w", s, err)
			}
			planes.Put(sq, board.MakeCode(g.kind, color))
		}
	}
	return nil
}

func encodePieces(planes board.Planes) *PiecesDocument {
	var doc PiecesDocument
	for _, color := range [2]board.Color{board.White, board.Black} {
		side := &doc.White
		if color == board.Black {
			side = &doc.Black
		}
		side.Pawn = squaresOf(planes, board.KindPawn, color)
		side.Knight = squaresOf(planes, board.KindKnight, color)
		side.Bishop = squaresOf(planes, board.KindBishop, color)
		side.Rook = squaresOf(planes, board.KindRook, color)
		side.Queen = squaresOf(planes, board.KindQueen, color)
		side.King = squaresOf(planes, board.KindKing, color)
	}
	return &doc
}

func squaresOf(planes board.Planes, kind board.Kind, color board.Color) []string {
	bb := planes.SquaresOf(board.MakeCode(kind, color))
	var out []string
	for bb != 0 {
		var sq board.Square
		sq, bb = bb.PopLSB()
		out = append(out, sq.String())
	}
	return out
}

func parseSide(str string) (board.Color, error) {
	switch str {
	case "white", "w", "White":
		return board.White, nil
	case "black", "b", "Black":
		return board.Black, nil
	default:
		return 0, fmt.Errorf("invalid side %q", str)
	}
}

func printSide(c board.Color) string {
	if c == board.White {
		return "white"
	}
	return "black"
}

func parseCastling(str string) (board.Castling, error) {
	var ret board.Castling
	if str == "" || str == "-" {
		return ret, nil
	}
	for _, r := range str {
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
			return 0, fmt.Errorf("invalid castling character %q", r)
		}
	}
	return ret, nil
}
