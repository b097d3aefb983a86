// Package search implements recursive negamax alpha-beta search over a board.Game:
// quiescence at the search horizon, null-move pruning above it, staged move ordering
// fed by a transposition table, and an iterative-deepening harness that runs the whole
// thing on a background worker so a host protocol stays responsive to stop/quit.
package search

import (
	"context"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/eval"
	"github.com/blackletter-chess/blackletter/pkg/order"
	"github.com/blackletter-chess/blackletter/pkg/see"
)

const (
	// DefaultNullMoveReduction is R in "search at depth-1-R" for null-move pruning.
	DefaultNullMoveReduction = 2
	// DefaultMaxNullMovesPerBranch bounds consecutive null moves along one line, so
	// pruning can't degenerate into passing forever in zugzwang-prone endgames.
	DefaultMaxNullMovesPerBranch = 3
)

// RootMove is a move considered at the root of a search, with the score it was first
// seen with.
type RootMove struct {
	Move  board.Move
	Score eval.Score
}

// Negamax is a reusable negamax alpha-beta searcher: one instance is built once per
// engine and reused across an entire game, so its move buffer, killer table, history
// table and transposition table all amortize their one-time allocation across searches
// instead of being rebuilt per call.
type Negamax struct {
	Eval eval.Evaluator
	TT   *TranspositionTable

	// QuiescenceDepth is the remaining-depth threshold at or below which Search drops
	// into quiescence instead of continuing full-width search.
	QuiescenceDepth int
	// NullMoveReduction is R; NullMoveReduction of 0 disables null-move pruning.
	NullMoveReduction int
	// MaxNullMovesPerBranch bounds consecutive null moves along one search line.
	MaxNullMovesPerBranch int

	killers *order.KillerTable
	history *order.HistoryTable
	cmp     *order.Comparator
	buffer  *board.MoveBuffer

	path []board.ZobristHash

	nodes uint64
	root  []RootMove
}

// NewNegamax builds a Negamax searcher whose scratch is sized for maxDepth full-width
// plies plus quiescenceDepth additional quiescence plies.
func NewNegamax(e eval.Evaluator, tt *TranspositionTable, maxDepth, quiescenceDepth int) *Negamax {
	maxPly := maxDepth + quiescenceDepth + 2

	killers := order.NewKillerTable(maxPly)
	history := order.NewHistoryTable()

	return &Negamax{
		Eval:                  e,
		TT:                    tt,
		QuiescenceDepth:       quiescenceDepth,
		NullMoveReduction:     DefaultNullMoveReduction,
		MaxNullMovesPerBranch: DefaultMaxNullMovesPerBranch,
		killers:               killers,
		history:               history,
		cmp:                   order.NewComparator(killers, history),
		buffer:                board.NewMoveBuffer(maxPly),
		path:                  make([]board.ZobristHash, maxPly),
	}
}

// LiftKillers shifts every killer row up by two indices between iterative-deepening
// iterations, so a killer recorded at its semantic depth in the previous, shallower
// iteration is still offered at the matching depth in the next.
func (n *Negamax) LiftKillers() {
	n.killers.Lift(2)
}

// Nodes returns the number of nodes visited by the most recent Search call.
func (n *Negamax) Nodes() uint64 {
	return n.nodes
}

// RootMoves returns every move considered at the root of the most recent Search call,
// each with the score it was first seen with.
func (n *Negamax) RootMoves() []RootMove {
	return n.root
}

// Search runs one full-width iterative-deepening iteration to depth from g's current
// position (mutated and restored in place), returning the side-to-move-relative score
// and the best move found. The zero Move is returned alongside a terminal score if the
// position has no legal moves, and alongside a score of 0 if the game is already drawn.
func (n *Negamax) Search(ctx context.Context, g *board.Game, depth int) (eval.Score, board.Move) {
	n.nodes = 0
	n.root = n.root[:0]

	if g.Result().Outcome == board.DrawOutcome {
		return 0, board.Move{}
	}

	score := n.search(ctx, g, 0, depth, eval.MinScore, eval.MaxScore, board.Square(0), false, true, 0, true)

	var best board.Move
	found := false
	bestScore := eval.MinScore
	for _, rm := range n.root {
		if !found || rm.Score > bestScore {
			bestScore = rm.Score
			best = rm.Move
			found = true
		}
	}
	return score, best
}

// search implements §4.11's guard sequence: repetition, transposition-table cutoff,
// quiescence horizon, null-move pruning, staged-order move loop, then terminal
// resolution if no legal move survived.
func (n *Negamax) search(ctx context.Context, g *board.Game, ply, depth int, alpha, beta eval.Score, lastMoveTo board.Square, hasLastMove, allowNullMove bool, nullCount int, isRoot bool) eval.Score {
	hash := g.Position().Hash

	if !isRoot && n.isRepeated(hash, ply) {
		return 0
	}
	n.path[ply] = hash

	legal := func(m board.Move) bool { return n.verifyLegal(g, m) }

	if !isRoot && depth > 0 {
		if _, score, bound, ok := n.TT.ProbeCutoff(hash, depth, legal); ok {
			switch bound {
			case ExactBound:
				return score
			case LowerBound:
				if score >= beta {
					return score
				}
			case UpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	if depth <= n.QuiescenceDepth {
		return n.quiescence(ctx, g, ply, alpha, beta, lastMoveTo, hasLastMove)
	}

	if allowNullMove && n.NullMoveReduction > 0 && nullCount < n.MaxNullMovesPerBranch &&
		depth > n.QuiescenceDepth+1 && !g.Position().IsChecked(g.Turn()) {
		old := g.Position().MakeNullMove()
		score := -n.search(ctx, g, ply+1, depth-1-n.NullMoveReduction, -beta, -beta+1, lastMoveTo, hasLastMove, false, nullCount+1, false)
		g.Position().UnmakeNullMove(old)
		if score >= beta {
			return score
		}
	}

	moves := n.buffer.Pseudo(g.Position(), ply)
	if len(moves) == 0 {
		return 0
	}

	var ttMove board.Move
	hasTTMove := false
	if m, _, _, _, ok := n.TT.Probe(hash, legal); ok {
		ttMove, hasTTMove = m, true
	}

	keyFn := func(m board.Move) int64 {
		return n.cmp.Key(g.Position(), m, depth, ttMove, hasTTMove, lastMoveTo, hasLastMove)
	}
	ordered := order.NewMoveList(moves, keyFn)

	n.nodes++

	best := eval.MinScore
	var bestMove board.Move
	hasLegalMove := false
	origAlpha := alpha

	for {
		m, ok := ordered.Next()
		if !ok {
			break
		}

		mover := g.Turn()
		old := g.MakeMove(m)
		if g.Position().IsChecked(mover) {
			g.UnmakeMove(m, old)
			continue
		}
		hasLegalMove = true

		var score eval.Score
		if g.Result().Outcome == board.DrawOutcome {
			score = 0
		} else {
			score = -n.search(ctx, g, ply+1, depth-1, -beta, -alpha, m.To, true, true, nullCount, false)
		}
		g.UnmakeMove(m, old)

		if isRoot {
			n.recordRootMove(m, score)
		}
		if score > best {
			best = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			n.cmp.UpdateOnCutoff(g.Position(), m, depth)
			break
		}
	}

	if !hasLegalMove {
		if g.Position().IsChecked(g.Turn()) {
			return -(eval.WinThreshold + eval.Score(depth))
		}
		return 0
	}

	// A cutoff only establishes that the true score is >= alpha (a lower bound). Absent a
	// cutoff, a score that never raised the incoming window is only an upper bound on the
	// true score; only a move that strictly improved alpha without cutting off is exact.
	bound := UpperBound
	switch {
	case alpha >= beta:
		bound = LowerBound
	case alpha > origAlpha:
		bound = ExactBound
	}

	n.TT.Store(hash, bestMove, best, depth, bound)
	return best
}

// quiescence extends search through captures only, past the full-width horizon, so the
// evaluator is never asked to score a position in the middle of an unresolved capture
// sequence. See §4.11: stand-pat first, captures filtered to SEE >= 0 (or a king
// capture), no null-move pruning or transposition-table use.
func (n *Negamax) quiescence(ctx context.Context, g *board.Game, ply int, alpha, beta eval.Score, lastMoveTo board.Square, hasLastMove bool) eval.Score {
	n.nodes++

	standPat := n.Eval.Evaluate(ctx, g)
	if standPat >= beta {
		return beta
	}
	if standPat > alpha {
		alpha = standPat
	}

	pseudo := n.buffer.Pseudo(g.Position(), ply)
	k := 0
	for _, m := range pseudo {
		if quiescenceCandidate(g.Position(), m) {
			pseudo[k] = m
			k++
		}
	}
	candidates := pseudo[:k]
	if len(candidates) == 0 {
		return alpha
	}

	keyFn := func(m board.Move) int64 {
		return n.cmp.Key(g.Position(), m, ply, board.Move{}, false, lastMoveTo, hasLastMove)
	}
	ordered := order.NewMoveList(candidates, keyFn)

	for {
		m, ok := ordered.Next()
		if !ok {
			break
		}

		mover := g.Turn()
		old := g.MakeMove(m)
		if g.Position().IsChecked(mover) {
			g.UnmakeMove(m, old)
			continue
		}

		score := -n.quiescence(ctx, g, ply+1, -beta, -alpha, m.To, true)
		g.UnmakeMove(m, old)

		if score > alpha {
			alpha = score
		}
		if alpha >= beta {
			break
		}
	}
	return alpha
}

// quiescenceCandidate reports whether m should be explored by quiescence: a capture (or
// en passant) that is either a king capture or does not lose material by SEE.
func quiescenceCandidate(pos *board.Position, m board.Move) bool {
	if !m.IsCapture() && m.Kind != board.MoveEnPassant {
		return false
	}
	if !m.CapturedCode.IsEmpty() && m.CapturedCode.Kind() == board.KindKing {
		return true
	}
	return see.Evaluate(pos, m) >= 0
}

// verifyLegal confirms a transposition-table move is still playable in the current
// position: the cheap guard against a truncated-hash collision pointing the probe at an
// entry for a different position that happens to share a bucket index.
func (n *Negamax) verifyLegal(g *board.Game, m board.Move) bool {
	if g.Position().Planes.At(m.From) != m.MoverCode {
		return false
	}
	mover := g.Turn()
	old := g.MakeMove(m)
	safe := !g.Position().IsChecked(mover)
	g.UnmakeMove(m, old)
	return safe
}

func (n *Negamax) isRepeated(hash board.ZobristHash, ply int) bool {
	for i := 0; i < ply; i++ {
		if n.path[i] == hash {
			return true
		}
	}
	return false
}

func (n *Negamax) recordRootMove(m board.Move, score eval.Score) {
	for i := range n.root {
		if n.root[i].Move == m {
			return
		}
	}
	n.root = append(n.root, RootMove{Move: m, Score: score})
}
