package search

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/blackletter-chess/blackletter/pkg/board"
	"github.com/blackletter-chess/blackletter/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound records whether a stored score is the exact result of a full search at its
// depth, only a lower bound established by a fail-high cutoff (beta was raised and the
// loop broke early), or only an upper bound from a fail-low node (no move raised alpha
// above the window it was searched with).
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "?"
	}
}

// entry is one transposition table slot. 32 bytes.
type entry struct {
	hash  board.ZobristHash
	score eval.Score
	move  board.Move
	depth int32
	bound Bound
	used  bool
}

// bucket holds two slots per hashed index: a "primary" always-replace slot and a
// "secondary" depth-preferred slot (§4.9) -- a new entry demotes primary into secondary,
// so a shallow entry that was just probed isn't immediately lost to one deeper search
// branch, while a hash collision still can't wedge a stale deep entry in forever.
type bucket struct {
	primary, secondary entry
}

// TranspositionTable caches search results keyed by position hash, to avoid re-searching
// transposed move orders that reach the same position. Legality of the stored best move
// must always be reverified against the probing position: the table is indexed by a
// truncated hash, so two different positions can collide on the same bucket.
type TranspositionTable struct {
	buckets []bucket
	mask    uint64
	used    int
}

// NewTranspositionTable allocates a table sized to the largest power of two of buckets
// that fits within sizeBytes.
func NewTranspositionTable(ctx context.Context, sizeBytes uint64) *TranspositionTable {
	const bucketSize = 64 // 2 slots, rounded up to a cache-line-friendly power of two
	n := uint64(1)
	if sizeBytes > bucketSize {
		n = uint64(1) << (63 - bits.LeadingZeros64(sizeBytes/bucketSize))
	}

	logw.Infof(ctx, "Allocating %vMB transposition table with %v buckets", sizeBytes>>20, n)

	return &TranspositionTable{
		buckets: make([]bucket, n),
		mask:    n - 1,
	}
}

func (t *TranspositionTable) index(hash board.ZobristHash) uint64 {
	return uint64(hash) & t.mask
}

// Probe looks up hash regardless of depth, for use as a move-ordering hint when the
// cutoff probe below doesn't apply. legal must confirm the stored move is still legal in
// the probing position, the guard against hash collisions across buckets.
func (t *TranspositionTable) Probe(hash board.ZobristHash, legal func(board.Move) bool) (board.Move, eval.Score, int, Bound, bool) {
	b := &t.buckets[t.index(hash)]
	for _, e := range [2]*entry{&b.primary, &b.secondary} {
		if e.used && e.hash == hash && legal(e.move) {
			return e.move, e.score, int(e.depth), e.bound, true
		}
	}
	return board.Move{}, 0, 0, ExactBound, false
}

// ProbeCutoff looks up hash and returns a usable score only if the stored entry is at
// least as deep as neededDepth, with the same quiescence-offset parity, and its move is
// still legal in the probing position. The caller must still check the returned Bound
// against its own alpha/beta before trusting the score as a cutoff: an ExactBound is
// always usable, a LowerBound only if score >= beta, and an UpperBound only if
// score <= alpha.
func (t *TranspositionTable) ProbeCutoff(hash board.ZobristHash, neededDepth int, legal func(board.Move) bool) (board.Move, eval.Score, Bound, bool) {
	b := &t.buckets[t.index(hash)]
	for _, e := range [2]*entry{&b.primary, &b.secondary} {
		if e.used && e.hash == hash && int(e.depth) >= neededDepth && sameParity(int(e.depth), neededDepth) && legal(e.move) {
			return e.move, e.score, e.bound, true
		}
	}
	return board.Move{}, 0, ExactBound, false
}

func sameParity(a, b int) bool {
	return (a-b)%2 == 0
}

// Store inserts or updates the entry for hash. If an existing slot already matches this
// hash, that slot is overwritten in place when depth is at least its stored depth, and
// left as it is otherwise. Otherwise, the current
// primary slot is demoted to secondary and the new entry takes over primary.
func (t *TranspositionTable) Store(hash board.ZobristHash, move board.Move, score eval.Score, depth int, bound Bound) {
	b := &t.buckets[t.index(hash)]
	fresh := entry{hash: hash, score: score, move: move, depth: int32(depth), bound: bound, used: true}

	switch {
	case b.primary.used && b.primary.hash == hash:
		if depth >= int(b.primary.depth) {
			b.primary = fresh
		}
	case b.secondary.used && b.secondary.hash == hash:
		if depth >= int(b.secondary.depth) {
			b.secondary = fresh
		}
	default:
		if !b.primary.used {
			t.used++
		}
		b.secondary = b.primary
		b.primary = fresh
	}
}

// Size returns the table's footprint in bytes.
func (t *TranspositionTable) Size() uint64 {
	return uint64(len(t.buckets)) * 64
}

// Used returns the fraction of buckets [0;1] holding at least one live entry.
func (t *TranspositionTable) Used() float64 {
	return float64(t.used) / float64(len(t.buckets))
}

func (t *TranspositionTable) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}
