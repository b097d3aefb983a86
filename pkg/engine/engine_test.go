package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/blackletter-chess/blackletter/pkg/engine"
	"github.com/blackletter-chess/blackletter/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), "test", "tester",
		engine.WithSearchDepthBudget(8, 4), engine.WithZobrist(1))
}

func TestNewEngineStartsAtInitialPosition(t *testing.T) {
	e := newEngine(t)
	require.Equal(t, fen.Initial, e.Position())
}

func TestMovePlaysALegalMove(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Move(context.Background(), "e2e4"))
	require.Contains(t, e.Position(), "rnbqkbnr/pppppppp")
}

func TestMoveRejectsIllegalMove(t *testing.T) {
	e := newEngine(t)
	err := e.Move(context.Background(), "e2e5")
	require.Error(t, err)
	require.Equal(t, fen.Initial, e.Position(), "position must be unchanged after a rejected move")
}

func TestResetReplacesThePosition(t *testing.T) {
	e := newEngine(t)
	const kiwipete = "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	require.NoError(t, e.Reset(context.Background(), kiwipete))
	require.Equal(t, kiwipete, e.Position())
}

func TestAnalyzeRejectsConcurrentSearch(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	_, err := e.Analyze(ctx, search.Options{DepthLimit: lang.Some(uint(6))})
	require.NoError(t, err)

	_, err = e.Analyze(ctx, search.Options{DepthLimit: lang.Some(uint(6))})
	require.Error(t, err, "a second analysis must not start while one is active")

	_, _ = e.Halt(ctx)
}

func TestAnalyzeThenHaltReturnsAPrincipalVariation(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	out, err := e.Analyze(ctx, search.Options{DepthLimit: lang.Some(uint(3))})
	require.NoError(t, err)

	select {
	case _, ok := <-out:
		require.True(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for the first iteration")
	}

	pv, err := e.Halt(ctx)
	require.NoError(t, err)
	require.GreaterOrEqual(t, pv.Depth, 1)
}

func TestHaltWithNoActiveSearchReturnsError(t *testing.T) {
	e := newEngine(t)
	_, err := e.Halt(context.Background())
	require.Error(t, err)
}

func TestMoveDuringActiveSearchHaltsItFirst(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t)

	_, err := e.Analyze(ctx, search.Options{DepthLimit: lang.Some(uint(6))})
	require.NoError(t, err)

	require.NoError(t, e.Move(ctx, "e2e4"))

	_, err = e.Analyze(ctx, search.Options{DepthLimit: lang.Some(uint(2))})
	require.NoError(t, err, "Move must have halted the prior search so a new one can start")
	_, _ = e.Halt(ctx)
}
