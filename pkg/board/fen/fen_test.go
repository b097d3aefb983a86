package fen_test

import (
	"testing"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	zobrist := board.NewZobristTable(1)

	tests := []string{
		fen.Initial,
		"4k3/2pppp2/8/4P1K1/4PP2/3P4/8/8 w - - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/5P2/PPPPP1PP/RNBQKBNR w KQkq - 0 1",
		"r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1",
		"4k3/8/8/8/3pP3/8/8/4K3 b - e3 0 1",
	}

	for _, tt := range tests {
		p, np, fm, err := fen.Decode(tt, zobrist)
		require.NoError(t, err)

		assert.Equal(t, tt, fen.Encode(p, np, fm))
	}
}

func TestDecodeInvalid(t *testing.T) {
	zobrist := board.NewZobristTable(1)

	tests := []string{
		"",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0",
		"rnbqkXnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
		"8/8/8/8/8/8/8/8 w KQkq - 0 1",
	}
	for _, tt := range tests {
		_, _, _, err := fen.Decode(tt, zobrist)
		assert.Error(t, err)
	}
}
