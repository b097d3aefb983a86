package eval

import (
	"context"

	"github.com/blackletter-chess/blackletter/pkg/board"
)

// Evaluator is a static position evaluator, scoring the side to move.
type Evaluator interface {
	Evaluate(ctx context.Context, g *board.Game) Score
}

// Default combines material, piece-square tables, a pawn-structure term and a king-safety
// term into the evaluator the search uses, each weighted and summed from White's
// perspective, then negated for the side to move.
type Default struct {
	Noise Score // width of the random tie-breaking noise range, at most Noise/2 either way; 0 disables it
	rand  *noiseSource
}

// NewDefault returns a Default evaluator. noiseLimit of 0 disables randomized noise.
func NewDefault(noiseLimit Score, seed int64) *Default {
	d := &Default{Noise: noiseLimit}
	if noiseLimit > 0 {
		d.rand = newNoiseSource(seed)
	}
	return d
}

func (d *Default) Evaluate(ctx context.Context, g *board.Game) Score {
	planes := g.Position().Planes

	total := Material(planes) + PieceSquare(planes) + PawnStructure(planes) + KingSafety(planes)
	if d.rand != nil {
		total += d.rand.next(d.Noise)
	}

	return Crop(total) * Unit(g.Turn())
}
