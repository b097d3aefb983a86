package board_test

import (
	"testing"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, position string) *board.Position {
	t.Helper()
	z := board.NewZobristTable(0)
	pos, _, _, err := fen.Decode(position, z)
	require.NoError(t, err)
	return pos
}

// Node counts from the standard initial position, the textbook cross-check for a move
// generator (castling, en passant, promotion and check evasion all interact by depth 4-5).
func TestPerftFromInitialPosition(t *testing.T) {
	tests := []struct {
		depth    int
		expected int64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	pos := decode(t, fen.Initial)
	for _, tt := range tests {
		assert.Equal(t, tt.expected, board.Perft(pos, tt.depth), "depth %v", tt.depth)
	}
}

// Kiwipete: a standard perft cross-check position exercising castling, promotion, and
// en passant together. See: https://www.chessprogramming.org/Perft_Results.
func TestPerftFromKiwipete(t *testing.T) {
	pos := decode(t, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")

	assert.Equal(t, int64(48), board.Perft(pos, 1))
	assert.Equal(t, int64(2039), board.Perft(pos, 2))
	assert.Equal(t, int64(97862), board.Perft(pos, 3))
}

func sq(t *testing.T, s string) board.Square {
	t.Helper()
	square, err := board.ParseSquareStr(s)
	require.NoError(t, err)
	return square
}

func TestEnPassantCaptureIsLegal(t *testing.T) {
	pos := decode(t, "rnbqkbnr/ppp1p1pp/8/3pPp2/8/8/PPPP1PPP/RNBQKBNR w KQkq f6 0 3")
	e5, f6 := sq(t, "e5"), sq(t, "f6")

	found := false
	for _, m := range board.GenerateLegalMoves(pos) {
		if m.Kind == board.MoveEnPassant && m.From == e5 && m.To == f6 {
			found = true
		}
	}
	assert.True(t, found, "e5f6 en passant capture must be legal")
}

func TestCastlingThroughCheckIsIllegal(t *testing.T) {
	pos := decode(t, "4k3/8/8/8/8/8/4r3/4K2R w K - 0 1")
	e1, g1 := sq(t, "e1"), sq(t, "g1")

	for _, m := range board.GenerateLegalMoves(pos) {
		illegal := m.Kind == board.MoveCastle && m.From == e1 && m.To == g1
		assert.False(t, illegal, "e1g1 must not be legal while e-file is attacked")
	}
}

func TestAdvanceThenRevertRestoresHashAndPlanes(t *testing.T) {
	pos := decode(t, fen.Initial)

	for _, m := range board.GenerateLegalMoves(pos) {
		before := *pos
		old := pos.Advance(m)
		pos.Revert(m, old)

		assert.Equal(t, before.Hash, pos.Hash, "move %v", m)
		assert.Equal(t, before.Planes, pos.Planes, "move %v", m)
	}
}
