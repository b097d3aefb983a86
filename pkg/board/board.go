// Package board contains the packed chess board representation, move generation, and
// game-history bookkeeping (repetitions, fifty-move rule, insufficient material) needed
// to detect draws and terminal positions.
package board

import "fmt"

// Game couples a mutable Position with its History, and knows how to adjudicate a
// finished game. It is the unit of state a host protocol or search driver holds for one
// ongoing game: advancing and reverting moves keeps Position and History in lockstep.
type Game struct {
	zobrist *ZobristTable
	pos     *Position
	history *History

	fullmoves int
	result    Result
}

// NewGame starts a Game from an already-built Position, with the given no-progress
// count and full-move number (non-zero when resuming a game loaded mid-play, e.g. from
// FEN).
func NewGame(zobrist *ZobristTable, pos *Position, noprogress, fullmoves int) *Game {
	return &Game{
		zobrist:   zobrist,
		pos:       pos,
		history:   NewHistory(pos.Hash, noprogress),
		fullmoves: fullmoves,
	}
}

// Fork returns an independent copy of g: mutating the copy's Position and History never
// affects the original. Used to hand a background search exclusive, race-free ownership
// of a game while the original stays safe for the caller to keep reading or replacing.
func (g *Game) Fork() *Game {
	return &Game{
		zobrist:   g.zobrist,
		pos:       g.pos.Fork(),
		history:   g.history.Fork(),
		fullmoves: g.fullmoves,
		result:    g.result,
	}
}

func (g *Game) Position() *Position {
	return g.pos
}

func (g *Game) Turn() Color {
	return g.pos.Side
}

func (g *Game) FullMoves() int {
	return g.fullmoves
}

// NoProgress returns the fifty-move-rule ply counter for the current position.
func (g *Game) NoProgress() int {
	return g.history.NoProgress()
}

func (g *Game) Result() Result {
	return g.result
}

// MakeMove advances the game by m, which must be legal (callers should only ever pass a
// move drawn from GenerateLegalMoves). Updates history and checks for automatic draws;
// checkmate/stalemate are adjudicated separately via AdjudicateNoLegalMoves once the
// caller has confirmed no legal replies exist.
func (g *Game) MakeMove(m Move) Metadata {
	turnBefore := g.pos.Side
	old := g.pos.Advance(m)
	g.history.Push(g.pos.Hash, m)

	if turnBefore == Black {
		g.fullmoves++
	}

	switch {
	case g.history.IsThreefoldRepetition():
		g.result = Result{Outcome: DrawOutcome, Reason: Repetition}
	case g.history.IsFiftyMoveDraw():
		g.result = Result{Outcome: DrawOutcome, Reason: FiftyMoveRule}
	case HasInsufficientMaterial(g.pos.Planes):
		g.result = Result{Outcome: DrawOutcome, Reason: InsufficientMaterial}
	default:
		g.result = Result{}
	}

	return old
}

// UnmakeMove reverts the most recent MakeMove(m, old).
func (g *Game) UnmakeMove(m Move, old Metadata) {
	if g.pos.Side == White {
		g.fullmoves--
	}
	g.history.Pop()
	g.pos.Revert(m, old)
	g.result = Result{}
}

// AdjudicateNoLegalMoves records the result of a position with no legal moves: checkmate
// if the side to move is in check, stalemate otherwise.
func (g *Game) AdjudicateNoLegalMoves() Result {
	if g.pos.IsChecked(g.pos.Side) {
		g.result = Result{Outcome: Loss(g.pos.Side), Reason: Checkmate}
	} else {
		g.result = Result{Outcome: DrawOutcome, Reason: Stalemate}
	}
	return g.result
}

func (g *Game) String() string {
	return fmt.Sprintf("game{pos=%v, fullmoves=%v, result=%v}", g.pos, g.fullmoves, g.result)
}
