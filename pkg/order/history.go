package order

import "github.com/blackletter-chess/blackletter/pkg/board"

// HistoryTable counts how often a quiet move (from, to), for a given side, has caused a
// beta cutoff, weighted by the depth at which it happened so cutoffs deep in the tree
// count for more than shallow ones. The comparator uses the running score to try
// previously-successful quiet moves earlier in later searches.
type HistoryTable struct {
	scores [board.NumColors][64][64]int32
}

// NewHistoryTable returns an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Score returns the accumulated history score for side playing from->to.
func (h *HistoryTable) Score(side board.Color, from, to board.Square) int32 {
	return h.scores[side][from][to]
}

// Update rewards a quiet move that caused a cutoff at the given remaining depth.
func (h *HistoryTable) Update(side board.Color, m board.Move, depth int) {
	if depth <= 0 {
		depth = 1
	}
	h.scores[side][m.From][m.To] += int32(depth) * int32(depth)
}
