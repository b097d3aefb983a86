// Package textproto drives an engine.Engine with the line-oriented request/response
// protocol a host front-end speaks: identify, ready?, newgame, position, go, stop, quit.
package textproto

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/board/fen"
	"github.com/blackletter-chess/blackletter/pkg/engine"
	"github.com/blackletter-chess/blackletter/pkg/eval"
	"github.com/blackletter-chess/blackletter/pkg/search"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// DefaultDepth is the depth used by a bare "go" with no explicit depth argument.
const DefaultDepth = 10

// Driver reads protocol lines from in and writes responses to the channel it returns.
// One Driver serves one Engine for the lifetime of the process.
type Driver struct {
	e   *engine.Engine
	out chan<- string

	active atomic.Bool // a "go" search is outstanding and awaiting its best-move line
	quit   chan struct{}
	closed atomic.Bool
}

// NewDriver starts the driver's processing loop and returns it along with its output
// stream. The output stream is closed once in is closed, the driver's Close method is
// called, or a "quit" line is received.
func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 64)
	d := &Driver{
		e:    e,
		out:  out,
		quit: make(chan struct{}),
	}
	go d.process(ctx, in)
	return d, out
}

// Close requests the driver stop. Idempotent.
func (d *Driver) Close() {
	if d.closed.CompareAndSwap(false, true) {
		close(d.quit)
	}
}

// Closed returns a channel closed once the driver has stopped processing input, whether
// because the input stream ended, Close was called, or a "quit" line was received.
func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Text protocol initialized")

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}
			if d.dispatch(ctx, line) {
				return
			}

		case <-d.quit:
			d.ensureInactive(ctx)
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

// dispatch handles one input line. It returns true iff the driver should exit.
func (d *Driver) dispatch(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "identify":
		d.out <- fmt.Sprintf("name %v", d.e.Name())
		d.out <- fmt.Sprintf("author %v", d.e.Author())

	case "ready?":
		d.out <- "ready"

	case "newgame":
		d.ensureInactive(ctx)
		if err := d.e.Reset(ctx, fen.Initial); err != nil {
			d.out <- fmt.Sprintf("info error: %v", err)
		}

	case "position":
		d.ensureInactive(ctx)
		d.handlePosition(ctx, args)

	case "go":
		d.ensureInactive(ctx)
		d.handleGo(ctx, args)

	case "stop":
		if d.active.CompareAndSwap(true, false) {
			if pv, err := d.e.Halt(ctx); err == nil {
				d.out <- bestMoveLine(pv)
			}
		}

	case "quit":
		d.ensureInactive(ctx)
		return true

	default:
		d.out <- fmt.Sprintf("info error: unrecognized request '%v'", cmd)
	}
	return false
}

// handlePosition parses "position <start|fen f1 f2 f3 f4 f5 f6> [moves m1 m2 ...]".
func (d *Driver) handlePosition(ctx context.Context, args []string) {
	if len(args) == 0 {
		d.out <- "info error: position requires 'start' or 'fen ...'"
		return
	}

	position := fen.Initial
	rest := args[1:]
	if args[0] == "fen" {
		if len(rest) < 6 {
			d.out <- "info error: malformed fen"
			return
		}
		position = strings.Join(rest[:6], " ")
		rest = rest[6:]
	} else if args[0] != "start" {
		d.out <- fmt.Sprintf("info error: unrecognized position argument '%v'", args[0])
		return
	}

	if err := d.e.Reset(ctx, position); err != nil {
		d.out <- fmt.Sprintf("info error: invalid fen: %v", err)
		return
	}

	if len(rest) > 0 && rest[0] == "moves" {
		rest = rest[1:]
	}
	for _, m := range rest {
		if err := d.e.Move(ctx, m); err != nil {
			d.out <- fmt.Sprintf("info error: invalid move '%v': %v", m, err)
			return
		}
	}
}

// handleGo parses "go [depth D]" or "go perft D".
func (d *Driver) handleGo(ctx context.Context, args []string) {
	if len(args) >= 2 && args[0] == "perft" {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			d.out <- fmt.Sprintf("info error: invalid perft depth '%v'", args[1])
			return
		}
		d.runPerft(ctx, n)
		return
	}

	depth := DefaultDepth
	if len(args) >= 2 && args[0] == "depth" {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			d.out <- fmt.Sprintf("info error: invalid depth '%v'", args[1])
			return
		}
		depth = n
	}

	opt := search.Options{DepthLimit: lang.Some(uint(depth))}
	out, err := d.e.Analyze(ctx, opt)
	if err != nil {
		d.out <- fmt.Sprintf("info error: %v", err)
		return
	}
	d.active.Store(true)

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.out <- infoLine(pv)
		}
		if d.active.CompareAndSwap(true, false) {
			d.out <- bestMoveLine(last)
		}
	}()
}

func (d *Driver) runPerft(ctx context.Context, n int) {
	position := d.e.Position()
	z := board.NewZobristTable(0)
	pos, _, _, err := fen.Decode(position, z)
	if err != nil {
		d.out <- fmt.Sprintf("info error: %v", err)
		return
	}

	for i := 1; i <= n; i++ {
		start := time.Now()
		nodes := board.Perft(pos, i)
		d.out <- fmt.Sprintf("info perft depth %v nodes %v time %v", i, nodes, time.Since(start).Milliseconds())
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	_, _ = d.e.Halt(ctx)
}

func infoLine(pv search.PV) string {
	parts := []string{"info", fmt.Sprintf("depth %v", pv.Depth)}
	if abs(pv.Score) >= eval.WinThreshold {
		parts = append(parts, fmt.Sprintf("score mate %v", pv.Score))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", pv.Score))
	}
	parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	parts = append(parts, fmt.Sprintf("pv %v", pv.Move))
	return strings.Join(parts, " ")
}

func bestMoveLine(pv search.PV) string {
	if pv.Move == (board.Move{}) {
		return "bestmove 0000"
	}
	return fmt.Sprintf("bestmove %v", pv.Move)
}

func abs(s eval.Score) eval.Score {
	if s < 0 {
		return -s
	}
	return s
}
