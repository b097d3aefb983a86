package board

// Kind represents a chess piece kind with no color (King, Pawn, etc). 3 bits, packed so
// that the three kind bits plus the one color bit form a 4-bit square Code (see packed.go).
// Value 1 is deliberately unused: it is the reserved/invalid code Code(1) (kind=0, color=1),
// since the empty kind must stay color-neutral.
type Kind uint8

const (
	KindEmpty  Kind = 0
	KindBishop Kind = 2
	KindKnight Kind = 3
	KindRook   Kind = 4
	KindPawn   Kind = 5
	KindQueen  Kind = 6
	KindKing   Kind = 7
)

func ParseKind(r rune) (Kind, bool) {
	switch r {
	case 'p', 'P':
		return KindPawn, true
	case 'b', 'B':
		return KindBishop, true
	case 'n', 'N':
		return KindKnight, true
	case 'r', 'R':
		return KindRook, true
	case 'q', 'Q':
		return KindQueen, true
	case 'k', 'K':
		return KindKing, true
	default:
		return KindEmpty, false
	}
}

func (k Kind) IsValid() bool {
	switch k {
	case KindBishop, KindKnight, KindRook, KindPawn, KindQueen, KindKing:
		return true
	default:
		return false
	}
}

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return " "
	case KindPawn:
		return "p"
	case KindBishop:
		return "b"
	case KindKnight:
		return "n"
	case KindRook:
		return "r"
	case KindQueen:
		return "q"
	case KindKing:
		return "k"
	default:
		return "?"
	}
}

// NominalValue gives a rough, non-positional material value in centipawns. Used by move
// ordering and SEE, not by the evaluator (see pkg/eval for positional scoring).
func (k Kind) NominalValue() int {
	switch k {
	case KindPawn:
		return 100
	case KindBishop, KindKnight:
		return 300
	case KindRook:
		return 500
	case KindQueen:
		return 900
	case KindKing:
		return 20000
	default:
		return 0
	}
}
