package posjson_test

import (
	"testing"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/blackletter-chess/blackletter/pkg/board/posjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanesRoundTrip(t *testing.T) {
	zobrist := board.NewZobristTable(1)
	initial, _, _, err := fen.Decode(fen.Initial, zobrist)
	require.NoError(t, err)

	data, err := posjson.EncodePlanes(initial, 0, 1)
	require.NoError(t, err)

	got, np, fm, err := posjson.Decode(data, zobrist)
	require.NoError(t, err)
	assert.Equal(t, 0, np)
	assert.Equal(t, 1, fm)
	assert.Equal(t, initial.Planes, got.Planes)
	assert.Equal(t, initial.Side, got.Side)
	assert.Equal(t, initial.Meta, got.Meta)
	assert.Equal(t, initial.Hash, got.Hash)
}

func TestPiecesRoundTrip(t *testing.T) {
	zobrist := board.NewZobristTable(1)
	initial, _, _, err := fen.Decode(fen.Initial, zobrist)
	require.NoError(t, err)

	data, err := posjson.EncodePieces(initial, 0, 1)
	require.NoError(t, err)

	got, _, _, err := posjson.Decode(data, zobrist)
	require.NoError(t, err)
	assert.Equal(t, initial.Planes, got.Planes)
}

func TestDecodePiecesShape(t *testing.T) {
	zobrist := board.NewZobristTable(1)
	doc := []byte(`{
		"pieces": {
			"white": {"king": ["e1"], "pawn": ["e2"]},
			"black": {"king": ["e8"]}
		},
		"side": "white",
		"castling": "-"
	}`)

	pos, _, _, err := posjson.Decode(doc, zobrist)
	require.NoError(t, err)
	assert.Equal(t, board.MakeCode(board.KindKing, board.White), pos.Planes.At(board.NewSquare(board.FileE, board.Rank1)))
	assert.Equal(t, board.White, pos.Side)
}

func TestDecodeRejectsMissingShape(t *testing.T) {
	zobrist := board.NewZobristTable(1)
	_, _, _, err := posjson.Decode([]byte(`{"side":"white","castling":"-"}`), zobrist)
	assert.Error(t, err)
}
