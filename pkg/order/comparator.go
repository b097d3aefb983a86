// Package order implements staged move ordering: a packed comparator key (bucket plus a
// material or history tiebreaker, smaller is better) and the killer-move and history
// heuristics that feed it, so the search explores the moves most likely to cut off first.
package order

import (
	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/see"
)

// Bucket is the primary move-ordering category; lower buckets are searched first.
type Bucket int32

const (
	BucketKingCapture Bucket = iota
	BucketTTMove
	BucketRecapture
	BucketGoodCapture
	BucketQuiet
	BucketLosingCapture
)

// tiebreakBias keeps a bucket's packed key non-negative regardless of sign of the
// tiebreak term, so buckets sort purely by their own magnitude.
const tiebreakBias = 1 << 20

// Comparator assigns each legal move a packed ordering key given the live position, the
// transposition-table move (if any), the square last moved to (for recapture detection),
// and the per-ply killer/history tables accumulated so far in the search.
type Comparator struct {
	Killers *KillerTable
	History *HistoryTable
}

// NewComparator builds a Comparator sharing the given killer and history tables, which
// the search updates as it goes (see UpdateOnCutoff).
func NewComparator(killers *KillerTable, history *HistoryTable) *Comparator {
	return &Comparator{Killers: killers, History: history}
}

// Key returns the packed ordering key for m: smaller sorts earlier. killerDepth selects
// the killer row (remaining search depth, not ply-from-root); lastMoveTo and hasLastMove
// identify recaptures; ttMove and hasTTMove identify the transposition table's suggested
// move.
func (c *Comparator) Key(pos *board.Position, m board.Move, killerDepth int, ttMove board.Move, hasTTMove bool, lastMoveTo board.Square, hasLastMove bool) int64 {
	if !m.CapturedCode.IsEmpty() && m.CapturedCode.Kind() == board.KindKing {
		return pack(BucketKingCapture, 0)
	}
	if hasTTMove && m == ttMove {
		return pack(BucketTTMove, 0)
	}

	if m.IsCapture() || m.Kind == board.MoveEnPassant {
		capturedValue := capturedValueOf(m)
		seeScore := see.Evaluate(pos, m)
		if seeScore < 0 {
			return pack(BucketLosingCapture, -seeScore)
		}
		if hasLastMove && m.To == lastMoveTo {
			return pack(BucketRecapture, -capturedValue)
		}
		return pack(BucketGoodCapture, -capturedValue)
	}

	if m.Kind == board.MovePromotion {
		return pack(BucketGoodCapture, -m.PromotedCode.Kind().NominalValue())
	}

	if c.Killers != nil && c.Killers.Contains(killerDepth, m) {
		return pack(BucketGoodCapture, 0)
	}

	var history int32
	if c.History != nil {
		history = c.History.Score(pos.Side, m.From, m.To) & 0xffff
	}
	return pack(BucketQuiet, -int(history))
}

// UpdateOnCutoff records that the quiet move m caused a beta cutoff, searched with the
// given remaining depth: both the killer row and the history weight. Captures are never
// recorded: they are already ordered ahead of quiet moves by material, so tracking them
// would only dilute the quiet-move signal.
func (c *Comparator) UpdateOnCutoff(pos *board.Position, m board.Move, depth int) {
	if m.IsCapture() || m.Kind == board.MoveEnPassant || m.Kind == board.MovePromotion {
		return
	}
	if c.Killers != nil {
		c.Killers.Insert(depth, m)
	}
	if c.History != nil {
		c.History.Update(pos.Side, m, depth)
	}
}

func capturedValueOf(m board.Move) int {
	if m.Kind == board.MoveEnPassant {
		return board.KindPawn.NominalValue()
	}
	return m.CapturedCode.Kind().NominalValue()
}

func pack(b Bucket, tiebreak int) int64 {
	return int64(b)<<32 | int64(int32(tiebreak)+tiebreakBias)
}
