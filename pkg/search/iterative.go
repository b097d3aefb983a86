package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// TimeControl bounds how long a single search may run, expressed as each side's
// remaining clock and (optionally) the number of moves left to make within it.
type TimeControl struct {
	White, Black time.Duration
	Moves        int // 0 == rest of game
}

// Limits returns the soft and hard time limit for the side to move: after the soft
// limit a new iteration should not be started, and at the hard limit the search is
// halted: the iteration in flight runs to its end and its result is discarded.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder := t.White
	if c == board.Black {
		remainder = t.Black
	}

	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft := remainder / (2 * moves)
	hard := 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f<>%.1f", t.White.Seconds(), t.Black.Seconds())
	}
	return fmt.Sprintf("%.1f<>%.1f[moves=%v]", t.White.Seconds(), t.Black.Seconds(), t.Moves)
}

// Options hold the dynamic parameters of one "go" request.
type Options struct {
	// DepthLimit, if set, stops iterative deepening once this full-width depth is
	// reached (same-parity steps of two, starting from depth 1, or from depth 2 when the
	// limit is even).
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, bounds the search by the side to move's remaining clock.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var parts []string
	if v, ok := o.DepthLimit.V(); ok {
		parts = append(parts, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		parts = append(parts, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(parts, ", "))
}

// PV is the result of one completed iterative-deepening iteration: its depth, the
// score and best move found, the node count, and the wall time it took.
type PV struct {
	Depth int
	Move  board.Move
	Score eval.Score
	Nodes uint64
	Time  time.Duration
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v move=%v", p.Depth, p.Score, p.Nodes, p.Time, p.Move)
}

// Handle lets the caller observe and stop a launched search.
type Handle interface {
	// Halt stops the search, if still running, and returns the last completed
	// iteration's PV. Idempotent.
	Halt() PV
}

// Launcher runs iterative deepening on a background goroutine, reporting each
// completed iteration on the returned channel, so a protocol front-end stays
// responsive to stop/quit while a search is in flight.
type Launcher struct {
	Search *Negamax
}

// NewLauncher builds a Launcher driving the given searcher.
func NewLauncher(s *Negamax) *Launcher {
	return &Launcher{Search: s}
}

// Launch starts iterative deepening on g from its current position, deepening by two
// plies (same parity) each iteration and lifting the killer table by two rows between
// iterations (§4.11). g is exclusively owned by the search goroutine until Halt
// returns; the caller must not touch it concurrently.
func (l *Launcher) Launch(ctx context.Context, g *board.Game, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{
		init: iox.NewAsyncCloser(),
		quit: iox.NewAsyncCloser(),
	}
	go h.process(ctx, l.Search, g, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	mu sync.Mutex
	pv PV
}

func (h *handle) process(ctx context.Context, s *Negamax, g *board.Game, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	soft, useSoft := enforceTimeControl(h, opt.TimeControl, g.Turn())

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	// Step by two plies at a time (§4.11), matching the parity of the requested depth
	// limit so the last iteration lands exactly on it rather than overshooting past it.
	depth := 1
	if limit, ok := opt.DepthLimit.V(); ok && limit%2 == 0 {
		depth = 2
	}
	for !h.quit.IsClosed() {
		start := time.Now()

		score, move := s.Search(wctx, g, depth)
		if contextx.IsCancelled(wctx) {
			return // halted mid-iteration: discard the partial result.
		}

		pv := PV{Depth: depth, Move: move, Score: score, Nodes: s.Nodes(), Time: time.Since(start)}
		logw.Debugf(ctx, "Searched %v: %v", g.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		s.LiftKillers()

		if limit, ok := opt.DepthLimit.V(); ok && uint(depth) >= limit {
			return // reached the requested depth limit
		}
		if isForcedMate(score) {
			return // a full-width forced mate is exact; a deeper iteration can't improve on it
		}
		if useSoft && soft < time.Since(start) {
			return // exceeded the soft time limit: do not start another iteration
		}
		depth += 2
	}
}

func (h *handle) Halt() PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.pv
}

// isForcedMate reports whether score reflects a checkmate resolved somewhere in the
// full-width tree, rather than an ordinary material/positional evaluation.
func isForcedMate(score eval.Score) bool {
	if score < 0 {
		score = -score
	}
	return score >= eval.WinThreshold
}

// enforceTimeControl arms a hard-limit timer that force-halts h, and returns the soft
// limit the caller should itself respect between iterations.
func enforceTimeControl(h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() { h.Halt() })
	return soft, true
}
