package search_test

import (
	"context"
	"testing"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/blackletter-chess/blackletter/pkg/eval"
	"github.com/blackletter-chess/blackletter/pkg/search"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T, position string) *board.Game {
	t.Helper()
	zobrist := board.NewZobristTable(1)
	pos, noprogress, fullmoves, err := fen.Decode(position, zobrist)
	require.NoError(t, err)
	return board.NewGame(zobrist, pos, noprogress, fullmoves)
}

func newNegamax(maxDepth int) *search.Negamax {
	tt := search.NewTranspositionTable(context.Background(), 1<<20)
	return search.NewNegamax(eval.NewDefault(0, 1), tt, maxDepth, 0)
}

// applyUCI plays a pure-algebraic move (e.g. "e2e4") against g, resolving it against the
// current legal move list so the Game's full Move (castling side, captured code, etc.)
// is filled in correctly.
func applyUCI(t *testing.T, g *board.Game, uci string) {
	t.Helper()
	from, to, promo, err := board.ParseMove(uci)
	require.NoError(t, err)

	for _, m := range board.GenerateLegalMoves(g.Position()) {
		if m.From == from && m.To == to && (promo == 0 || m.PromotedCode.Kind() == promo) {
			g.MakeMove(m)
			return
		}
	}
	t.Fatalf("move %q is not legal in position %v", uci, g.Position())
}

func TestNegamaxOpeningPositionPlaysAReasonableMove(t *testing.T) {
	g := newGame(t, fen.Initial)
	n := newNegamax(6)

	score, move := n.Search(context.Background(), g, 4)

	require.NotEqual(t, board.Move{}, move)
	require.GreaterOrEqual(t, score, eval.Score(-200))
	require.LessOrEqual(t, score, eval.Score(200))
}

func TestNegamaxFindsMateInOne(t *testing.T) {
	g := newGame(t, "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1")
	n := newNegamax(4)

	score, move := n.Search(context.Background(), g, 2)

	require.GreaterOrEqual(t, score, eval.WinThreshold-2)
	require.Equal(t, board.NewSquare(board.FileA, board.Rank1), move.From)
	require.Equal(t, board.NewSquare(board.FileA, board.Rank8), move.To)
}

func TestNegamaxFindsFoolsMate(t *testing.T) {
	g := newGame(t, fen.Initial)
	applyUCI(t, g, "f2f3")
	applyUCI(t, g, "e7e5")
	applyUCI(t, g, "g2g4")

	n := newNegamax(4)
	score, move := n.Search(context.Background(), g, 2)

	require.GreaterOrEqual(t, score, eval.WinThreshold-2)
	require.Equal(t, board.NewSquare(board.FileD, board.Rank8), move.From)
	require.Equal(t, board.NewSquare(board.FileH, board.Rank4), move.To)
}

func TestNegamaxRepetitionIsScoredAsDraw(t *testing.T) {
	g := newGame(t, "7k/8/8/8/8/8/8/K6R w - - 0 1")

	// Shuffle the rook back and forth to return to the starting position three times,
	// then confirm the engine refuses to continue what would otherwise look like a won
	// endgame, since it actually repeats forever.
	for i := 0; i < 2; i++ {
		applyUCI(t, g, "h1h2")
		applyUCI(t, g, "h8g8")
		applyUCI(t, g, "h2h1")
		applyUCI(t, g, "g8h8")
	}

	n := newNegamax(6)
	score, _ := n.Search(context.Background(), g, 4)

	require.Equal(t, eval.Score(0), score)
}

func TestNegamaxPicksWinningCaptureOverQuietMove(t *testing.T) {
	g := newGame(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	n := newNegamax(4)

	_, move := n.Search(context.Background(), g, 3)

	require.Equal(t, board.NewSquare(board.FileD, board.Rank5), move.To,
		"should take the hanging pawn rather than play a quiet king move")
}

func TestNegamaxRootMovesIncludesEveryLegalMoveOnce(t *testing.T) {
	g := newGame(t, "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	n := newNegamax(4)

	n.Search(context.Background(), g, 2)

	legal := board.GenerateLegalMoves(g.Position())
	seen := map[board.Move]int{}
	for _, rm := range n.RootMoves() {
		seen[rm.Move]++
	}
	require.Len(t, n.RootMoves(), len(legal))
	for _, m := range legal {
		require.Equal(t, 1, seen[m], "each legal root move must be recorded exactly once")
	}
}

func TestNegamaxNodesCountsVisitedPositions(t *testing.T) {
	g := newGame(t, fen.Initial)
	n := newNegamax(4)

	n.Search(context.Background(), g, 2)
	require.Greater(t, n.Nodes(), uint64(0))
}

func TestNegamaxTranspositionTableDoesNotChangeBestScore(t *testing.T) {
	g := newGame(t, fen.Initial)

	withTT := newNegamax(6)
	scoreWithTT, _ := withTT.Search(context.Background(), g, 4)

	noTT := search.NewNegamax(eval.NewDefault(0, 1), search.NewTranspositionTable(context.Background(), 64), 6, 0)
	scoreNoTT, _ := noTT.Search(context.Background(), g, 4)

	require.Equal(t, scoreWithTT, scoreNoTT)
}
