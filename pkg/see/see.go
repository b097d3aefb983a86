// Package see implements Static Exchange Evaluation: a cheap estimate of the material
// result of a capture sequence on a single square, used by move ordering and quiescence
// search to separate winning captures from losing ones without a full search.
package see

import "github.com/blackletter-chess/blackletter/pkg/board"

// attackerKinds lists the kinds tried in increasing value order when picking the least
// valuable attacker of a square, per the rule that ties must resolve to the cheapest
// piece first; king is tried last since it may only recapture when itself safe.
var attackerKinds = [...]board.Kind{
	board.KindPawn,
	board.KindKnight,
	board.KindBishop,
	board.KindRook,
	board.KindQueen,
	board.KindKing,
}

// Evaluate returns the static exchange value of capturing on m.To with m as the first
// capture, from the mover's point of view: non-negative means the exchange sequence is
// good or equal for the side making m, negative means it loses material. p is mutated
// and restored in place using the metadata-less advance/revert pair, since castling
// rights and en passant never factor into an exchange on one square.
func Evaluate(p *board.Position, m board.Move) int {
	if m.CapturedCode.IsEmpty() && m.Kind != board.MoveEnPassant {
		return 0
	}

	captured := m.CapturedCode
	if m.Kind == board.MoveEnPassant {
		captured = board.MakeCode(board.KindPawn, p.Side.Opponent())
	}
	gain := captured.Kind().NominalValue()

	mover := m.MoverCode
	if m.Kind == board.MovePromotion {
		mover = m.PromotedCode
	}

	p.AdvanceWithoutMetadata(m.From, m.To, mover, captured)
	result := gain - swapOff(p, m.To, mover.Kind().NominalValue())
	p.RevertWithoutMetadata(m.From, m.To, mover, captured)

	return result
}

// swapOff recursively finds the opponent's best reply capturing onLast on square t
// (the piece just placed there, worth lastValue), recurses on the resulting position,
// and returns the capped gain the side to move at this ply gets from continuing the
// exchange. The position is restored before returning on every path.
func swapOff(p *board.Position, t board.Square, lastValue int) int {
	side := p.Side
	from, attackerKind, ok := leastValuableAttacker(p, side, t)
	if !ok {
		return 0
	}

	attackerCode := board.MakeCode(attackerKind, side)
	capturedCode := p.Planes.At(t)

	p.AdvanceWithoutMetadata(from, t, attackerCode, capturedCode)
	gain := lastValue - swapOff(p, t, attackerKind.NominalValue())
	p.RevertWithoutMetadata(from, t, attackerCode, capturedCode)

	if gain < 0 {
		return 0
	}
	return gain
}

// leastValuableAttacker finds the cheapest piece of side that attacks t, trying kinds in
// increasing value order. The king is only a legal attacker if moving it to t would not
// itself be attacked there.
func leastValuableAttacker(p *board.Position, side board.Color, t board.Square) (board.Square, board.Kind, bool) {
	occupied := p.Planes.Occupied()

	for _, k := range attackerKinds {
		attackers := attackersOfKind(p, side, k, t, occupied)
		for attackers != 0 {
			var from board.Square
			from, attackers = attackers.PopLSB()

			if k == board.KindKing {
				capturedCode := p.Planes.At(t)
				kingCode := board.MakeCode(board.KindKing, side)
				p.AdvanceWithoutMetadata(from, t, kingCode, capturedCode)
				safe := !p.IsAttacked(side, t)
				p.RevertWithoutMetadata(from, t, kingCode, capturedCode)
				if !safe {
					continue
				}
			}
			return from, k, true
		}
	}
	return 0, board.KindEmpty, false
}

func attackersOfKind(p *board.Position, side board.Color, k board.Kind, t board.Square, occupied board.Bitboard) board.Bitboard {
	pieces := p.Planes.SquaresOf(board.MakeCode(k, side))
	if pieces == 0 {
		return 0
	}
	switch k {
	case board.KindPawn:
		return board.PawnCaptureboard(side.Opponent(), board.BitboardOf(t)) & pieces
	case board.KindKnight:
		return board.KnightAttackboard(t) & pieces
	case board.KindBishop:
		return board.BishopAttackboard(t, occupied) & pieces
	case board.KindRook:
		return board.RookAttackboard(t, occupied) & pieces
	case board.KindQueen:
		return board.QueenAttackboard(t, occupied) & pieces
	case board.KindKing:
		return board.KingAttackboard(t) & pieces
	default:
		return 0
	}
}
