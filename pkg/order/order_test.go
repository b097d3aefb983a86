package order_test

import (
	"testing"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/blackletter-chess/blackletter/pkg/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKillerTableMoveToFront(t *testing.T) {
	kt := order.NewKillerTable(4)
	a := board.Move{From: 1, To: 2}
	b := board.Move{From: 3, To: 4}
	c := board.Move{From: 5, To: 6}

	kt.Insert(2, a)
	kt.Insert(2, b)
	kt.Insert(2, c)

	assert.True(t, kt.Contains(2, a))
	assert.True(t, kt.Contains(2, b))
	assert.True(t, kt.Contains(2, c))
	assert.False(t, kt.Contains(2, board.Move{From: 7, To: 8}))
	assert.False(t, kt.Contains(0, a))
}

func TestKillerTableLiftShiftsRowsAndClearsHorizon(t *testing.T) {
	kt := order.NewKillerTable(4)
	a := board.Move{From: 1, To: 2}
	b := board.Move{From: 3, To: 4}

	kt.Insert(1, a)
	kt.Insert(3, b)

	kt.Lift(2)

	assert.False(t, kt.Contains(0, a))
	assert.False(t, kt.Contains(1, a))
	assert.True(t, kt.Contains(3, a))
	assert.True(t, kt.Contains(5, b))
}

func TestHistoryTableAccumulates(t *testing.T) {
	ht := order.NewHistoryTable()
	m := board.Move{From: 1, To: 2}

	assert.EqualValues(t, 0, ht.Score(board.White, m.From, m.To))
	ht.Update(board.White, m, 4)
	ht.Update(board.White, m, 2)
	assert.EqualValues(t, 16+4, ht.Score(board.White, m.From, m.To))
	assert.EqualValues(t, 0, ht.Score(board.Black, m.From, m.To))
}

func TestComparatorOrdersCapturesBeforeQuiet(t *testing.T) {
	zobrist := board.NewZobristTable(1)
	pos, _, _, err := fen.Decode("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", zobrist)
	require.NoError(t, err)

	moves := board.GenerateLegalMoves(pos)

	comp := order.NewComparator(order.NewKillerTable(64), order.NewHistoryTable())
	ml := order.NewMoveList(moves, func(m board.Move) int64 {
		return comp.Key(pos, m, 0, board.Move{}, false, 0, false)
	})

	first, ok := ml.Next()
	require.True(t, ok)
	assert.True(t, first.IsCapture(), "winning capture should be ordered first, got %v", first)
}

func TestComparatorPrefersTTMove(t *testing.T) {
	zobrist := board.NewZobristTable(1)
	pos, _, _, err := fen.Decode(fen.Initial, zobrist)
	require.NoError(t, err)

	moves := board.GenerateLegalMoves(pos)
	ttMove := moves[len(moves)-1]

	comp := order.NewComparator(order.NewKillerTable(64), order.NewHistoryTable())
	ml := order.NewMoveList(moves, func(m board.Move) int64 {
		return comp.Key(pos, m, 0, ttMove, true, 0, false)
	})

	first, ok := ml.Next()
	require.True(t, ok)
	assert.Equal(t, ttMove, first)
}
