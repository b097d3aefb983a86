// Package engine wraps the board and searcher into the host-facing position lifecycle a
// protocol front-end drives: reset, play a move, launch and halt an analysis.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/blackletter-chess/blackletter/pkg/eval"
	"github.com/blackletter-chess/blackletter/pkg/search"
	"github.com/seekerror/build"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options are engine construction and default search options.
type Options struct {
	// Depth is the default search depth limit used when a request doesn't set one. Zero
	// means no limit.
	Depth uint
	// Hash is the transposition table size in MB.
	Hash uint
	// Noise adds centipawn randomness to leaf evaluations, for tie-breaking variety.
	Noise uint
}

func (o Options) String() string {
	return fmt.Sprintf("{depth=%v, hash=%v, noise=%v}", o.Depth, o.Hash, o.Noise)
}

// Engine encapsulates one ongoing game: its board, its searcher, and at most one active
// analysis at a time.
type Engine struct {
	name, author string

	zobrist *board.ZobristTable
	seed    int64
	opts    Options

	quiescenceDepth int
	maxSearchDepth  int

	mu     sync.Mutex
	game   *board.Game
	search *search.Negamax
	active search.Handle
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithOptions sets the engine's default runtime options.
func WithOptions(opts Options) Option {
	return func(e *Engine) { e.opts = opts }
}

// WithZobrist configures the engine to seed its zobrist keys deterministically, for
// reproducible tests, instead of the default seed of zero.
func WithZobrist(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithSearchDepthBudget overrides the maximum full-width plies (and quiescence plies
// beyond it) the engine preallocates scratch for. Must be at least as large as any depth
// ever requested of Analyze.
func WithSearchDepthBudget(maxDepth, quiescenceDepth int) Option {
	return func(e *Engine) {
		e.maxSearchDepth = maxDepth
		e.quiescenceDepth = quiescenceDepth
	}
}

// New constructs an Engine and resets it to the initial position.
func New(ctx context.Context, name, author string, opts ...Option) *Engine {
	e := &Engine{
		name:            name,
		author:          author,
		maxSearchDepth:  32,
		quiescenceDepth: 6,
	}
	for _, fn := range opts {
		fn(e)
	}
	e.zobrist = board.NewZobristTable(e.seed)

	_ = e.Reset(ctx, fen.Initial)

	logw.Infof(ctx, "Initialized engine: %v, options=%v", e.Name(), e.opts)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string {
	return fmt.Sprintf("%v %v", e.name, version)
}

// Author returns the author.
func (e *Engine) Author() string {
	return e.author
}

func (e *Engine) Options() Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opts
}

func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

func (e *Engine) SetHash(sizeMB uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Hash = sizeMB
}

func (e *Engine) SetNoise(centipawns uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Noise = centipawns
}

// Position returns the current position in FEN.
func (e *Engine) Position() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return fen.Encode(e.game.Position(), e.game.NoProgress(), e.game.FullMoves())
}

// Reset replaces the current game with the position described by the given FEN string.
func (e *Engine) Reset(ctx context.Context, position string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Reset %v, depth=%v, TT=%vMB, noise=%vcp", position, e.opts.Depth, e.opts.Hash, e.opts.Noise)

	e.haltSearchIfActive(ctx)

	pos, noprogress, fullmoves, err := fen.Decode(position, e.zobrist)
	if err != nil {
		return err
	}
	e.game = board.NewGame(e.zobrist, pos, noprogress, fullmoves)

	hashBytes := uint64(e.opts.Hash) << 20
	if hashBytes == 0 {
		hashBytes = 1 << 16 // a minimal table; the searcher always assumes one exists
	}
	tt := search.NewTranspositionTable(ctx, hashBytes)
	ev := eval.NewDefault(eval.Score(e.opts.Noise), e.seed)
	e.search = search.NewNegamax(ev, tt, e.maxSearchDepth, e.quiescenceDepth)

	logw.Infof(ctx, "New position: %v", e.game.Position())
	return nil
}

// Move plays move (pure algebraic coordinate notation) against the current position,
// typically the host relaying the opponent's move.
func (e *Engine) Move(ctx context.Context, move string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Move %v", move)

	from, to, promo, err := board.ParseMove(move)
	if err != nil {
		return fmt.Errorf("invalid move: %w", err)
	}

	e.haltSearchIfActive(ctx)

	for _, m := range board.GenerateLegalMoves(e.game.Position()) {
		if m.From != from || m.To != to {
			continue
		}
		if m.Kind == board.MovePromotion && m.PromotedCode.Kind() != promo {
			continue
		}

		e.game.MakeMove(m)
		logw.Infof(ctx, "Move %v: %v", m, e.game.Position())
		return nil
	}
	return fmt.Errorf("illegal move: %v", move)
}

// Analyze launches an iterative-deepening search of the current position in the
// background, returning a channel of progressively deeper results. Only one analysis
// may be active at a time.
func (e *Engine) Analyze(ctx context.Context, opt search.Options) (<-chan search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := opt.DepthLimit.V(); !ok && e.opts.Depth > 0 {
		opt.DepthLimit = lang.Some(e.opts.Depth)
	}

	logw.Infof(ctx, "Analyze %v, opt=%v", e.game.Position(), opt)

	if e.active != nil {
		return nil, fmt.Errorf("search already active")
	}

	// The background search owns its own forked game exclusively: §5's cooperative
	// cancellation means Halt below can return before the worker goroutine has actually
	// noticed the quit signal and stopped touching it, so the live e.game must never be
	// the same object the worker is mutating.
	launcher := search.NewLauncher(e.search)
	handle, out := launcher.Launch(ctx, e.game.Fork(), opt)
	e.active = handle
	return out, nil
}

// Halt stops the active analysis, if any, and returns its final principal variation.
// The engine's own position is unaffected; the caller applies the returned move (if
// any) via Move.
func (e *Engine) Halt(ctx context.Context) (search.PV, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	logw.Infof(ctx, "Halt")

	pv, ok := e.haltSearchIfActive(ctx)
	if !ok {
		return search.PV{}, fmt.Errorf("no active search")
	}
	return pv, nil
}

func (e *Engine) haltSearchIfActive(ctx context.Context) (search.PV, bool) {
	if e.active == nil {
		return search.PV{}, false
	}

	pv := e.active.Halt()
	logw.Infof(ctx, "Search %v halted: %v", e.game.Position(), pv)

	e.active = nil
	return pv, true
}
