package order

import (
	"container/heap"
	"fmt"

	"github.com/blackletter-chess/blackletter/pkg/board"
)

// MoveList is a move priority queue: Next always returns the lowest-key (best-ordered)
// remaining move. Built once per node from a generated move slice and a Comparator key
// function, then drained phase-by-phase by the search.
type MoveList struct {
	h moveHeap
}

// NewMoveList builds a MoveList scoring moves with keyFn.
func NewMoveList(moves []board.Move, keyFn func(board.Move) int64) *MoveList {
	h := make(moveHeap, len(moves))
	for i, m := range moves {
		h[i] = elm{m: m, key: keyFn(m)}
	}
	heap.Init(&h)
	return &MoveList{h: h}
}

// Next pops the best remaining move, if any.
func (ml *MoveList) Next() (board.Move, bool) {
	if ml.Size() == 0 {
		return board.Move{}, false
	}
	e := heap.Pop(&ml.h).(elm)
	return e.m, true
}

// Size returns the number of moves not yet popped.
func (ml *MoveList) Size() int {
	return ml.h.Len()
}

func (ml *MoveList) String() string {
	if ml.Size() == 0 {
		return "[size=0]"
	}
	return fmt.Sprintf("[top=%v, size=%v]", ml.h[0].m, ml.Size())
}

type elm struct {
	m   board.Move
	key int64
}

type moveHeap []elm

func (h moveHeap) Len() int { return len(h) }

// Less sorts ascending by key: a smaller packed key is a better move, per the bucket
// ordering in Comparator.Key.
func (h moveHeap) Less(i, j int) bool { return h[i].key < h[j].key }

func (h moveHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *moveHeap) Push(x interface{}) {
	*h = append(*h, x.(elm))
}

func (h *moveHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}
