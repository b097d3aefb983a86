package board

import "fmt"

// MoveKind discriminates the four shapes a move can take. Move is a flattened tagged
// union: every field below is meaningful for at least one Kind, and From/To are always
// populated since every move (including castling and en passant) moves a piece from one
// square to another.
type MoveKind uint8

const (
	// MoveNormal is a non-castle, non-promotion, non-en-passant move: a quiet move if
	// CapturedCode is CodeEmpty, a capture otherwise.
	MoveNormal MoveKind = iota
	// MoveCastle is a castling move; Short indicates king-side vs. queen-side.
	MoveCastle
	// MovePromotion is a pawn promoting on the back rank, optionally capturing.
	MovePromotion
	// MoveEnPassant is an en-passant pawn capture.
	MoveEnPassant
)

func (k MoveKind) String() string {
	switch k {
	case MoveNormal:
		return "normal"
	case MoveCastle:
		return "castle"
	case MovePromotion:
		return "promotion"
	case MoveEnPassant:
		return "enpassant"
	default:
		return "?"
	}
}

// Move represents a not-necessarily-legal move, along with enough contextual metadata
// to advance and revert a Position without consulting board state. 9 bytes.
type Move struct {
	Kind MoveKind

	From, To Square

	MoverCode    Code // MoveNormal, MovePromotion
	CapturedCode Code // MoveNormal, MovePromotion (CodeEmpty if non-capture)
	PromotedCode Code // MovePromotion

	Short bool // MoveCastle: true for king-side, false for queen-side

	FromColumn, ToColumn uint8 // MoveEnPassant
}

// IsCapture reports whether the move removes an enemy piece from the board.
func (m Move) IsCapture() bool {
	switch m.Kind {
	case MoveNormal, MovePromotion:
		return !m.CapturedCode.IsEmpty()
	case MoveEnPassant:
		return true
	default:
		return false
	}
}

// IsQuiet reports whether the move is neither a capture nor a promotion.
func (m Move) IsQuiet() bool {
	return !m.IsCapture() && m.Kind != MovePromotion
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or
// "a7a8q". The parsed move carries From/To and, for promotions, the desired Kind, but
// not the contextual Code information (mover/captured/promoted codes, castling side,
// en-passant columns) -- that is filled in by matching it against a Position's legal
// moves.
func ParseMove(str string) (from, to Square, promo Kind, err error) {
	runes := []rune(str)
	if len(runes) < 4 || len(runes) > 5 {
		return 0, 0, 0, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err = ParseSquare(runes[0], runes[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid from: '%v': %w", str, err)
	}
	to, err = ParseSquare(runes[2], runes[3])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid to: '%v': %w", str, err)
	}

	if len(runes) == 5 {
		k, ok := ParseKind(runes[4])
		if !ok || k == KindPawn || k == KindKing {
			return 0, 0, 0, fmt.Errorf("invalid promotion: '%v'", str)
		}
		promo = k
	}
	return from, to, promo, nil
}

func (m Move) String() string {
	switch m.Kind {
	case MovePromotion:
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.PromotedCode.Kind())
	default:
		return fmt.Sprintf("%v%v", m.From, m.To)
	}
}
