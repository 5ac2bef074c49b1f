// internal/ai/opponent.go
//
// Opponent wraps the heuristic with the artificial "thinking" pause the
// game uses for pacing. The pause is plain scheduling: it never holds a
// lock and never blocks other rooms.

package ai

import (
	"context"
	"time"

	"github.com/bingoduel/go-server/internal/game"
)

// DefaultDelay is the default thinking pause before a solo-mode move.
const DefaultDelay = time.Second

// Opponent is a computer player bound to one card.
type Opponent struct {
	Difficulty Difficulty
	Board      game.Board
	// Delay is waited before each move; zero moves immediately.
	Delay time.Duration
}

// Move waits the thinking delay and then picks the next number. It
// returns early with ctx.Err() if the caller gives up. ok is false when
// every number has already been called.
func (o *Opponent) Move(ctx context.Context, marked game.MarkedSet, opponent game.Board) (n int, ok bool, err error) {
	if o.Delay > 0 {
		t := time.NewTimer(o.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return 0, false, ctx.Err()
		case <-t.C:
		}
	}
	n, ok = NextMove(o.Difficulty, o.Board, marked, opponent)
	return n, ok, nil
}
