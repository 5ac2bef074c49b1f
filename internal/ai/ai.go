// internal/ai/ai.go
//
// Opponent heuristic for solo mode.
// Responsibilities:
//   - Pick the computer's next number given its card and the called set.
//   - Three tiers: easy (random), medium (greedy with deliberate noise),
//     hard (deterministic greedy with defensive blocking).
//
// Scoring: for every line on the card that contains a candidate number,
// the candidate earns points growing with how many of that line's other
// cells are already called, with a large fixed bonus when the candidate
// would finish the line. Hard mode subtracts the same score computed on
// the opponent's card, and applies an overriding penalty when the move
// would hand the opponent the match.

package ai

import (
	"errors"
	"math/rand"
	"sort"

	"github.com/bingoduel/go-server/internal/game"
)

// Difficulty selects the heuristic tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// ErrUnknownDifficulty is returned for difficulty strings outside the
// three tiers.
var ErrUnknownDifficulty = errors.New("unknown difficulty")

// ParseDifficulty maps a client-supplied string to a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	}
	return "", ErrUnknownDifficulty
}

const (
	// completeBonus rewards a candidate that finishes a line outright.
	completeBonus = 100
	// loseOutrightPenalty pushes a move that wins the match for the
	// opponent (and not for us) below every alternative.
	loseOutrightPenalty = 10000
	// mediumGreedyChance is how often medium mode plays from its top
	// candidates instead of a fully random number.
	mediumGreedyChance = 0.6
	// mediumTopPool is the candidate pool size for medium's greedy pick.
	mediumTopPool = 3
)

// rng is the randomness the heuristic consumes. *rand.Rand satisfies
// it; production callers use the process-wide source.
type rng interface {
	Intn(n int) int
	Float64() float64
}

// globalRNG delegates to math/rand's goroutine-safe top-level source.
type globalRNG struct{}

func (globalRNG) Intn(n int) int   { return rand.Intn(n) }
func (globalRNG) Float64() float64 { return rand.Float64() }

// NextMove picks the computer's next number. ok is false only when all
// 25 numbers have already been called. The opponent board is only
// consulted in hard mode; pass the zero Board when it is unknown.
func NextMove(d Difficulty, own game.Board, marked game.MarkedSet, opponent game.Board) (n int, ok bool) {
	return nextMove(d, own, marked, opponent, globalRNG{})
}

func nextMove(d Difficulty, own game.Board, marked game.MarkedSet, opponent game.Board, r rng) (int, bool) {
	avail := unmarked(marked)
	if len(avail) == 0 {
		return 0, false
	}

	if d == Easy {
		return avail[r.Intn(len(avail))], true
	}

	if d == Medium {
		if r.Float64() >= mediumGreedyChance {
			// Imperfect play: a fully random number.
			return avail[r.Intn(len(avail))], true
		}
		scored := make([]scoredMove, len(avail))
		for i, n := range avail {
			scored[i] = scoredMove{n: n, score: lineScore(own, marked, n)}
		}
		sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })
		pool := mediumTopPool
		if pool > len(scored) {
			pool = len(scored)
		}
		return scored[r.Intn(pool)].n, true
	}

	// Hard: deterministic greedy over the net score, uniform among ties.
	best := make([]int, 0, 4)
	bestScore := 0
	for _, n := range avail {
		score := lineScore(own, marked, n) - lineScore(opponent, marked, n)
		if wouldWin(opponent, marked, n) && !wouldWin(own, marked, n) {
			score -= loseOutrightPenalty
		}
		if len(best) == 0 || score > bestScore {
			best = append(best[:0], n)
			bestScore = score
		} else if score == bestScore {
			best = append(best, n)
		}
	}
	return best[r.Intn(len(best))], true
}

type scoredMove struct {
	n     int
	score int
}

// unmarked returns the numbers 1..25 not yet called, in ascending order.
func unmarked(marked game.MarkedSet) []int {
	out := make([]int, 0, game.Cells-marked.Len())
	for n := 1; n <= game.Cells; n++ {
		if !marked.Has(n) {
			out = append(out, n)
		}
	}
	return out
}

// lineScore values candidate n on board: every line containing n earns
// points growing with how many of its cells are already called, plus
// completeBonus when n is the line's last missing cell.
func lineScore(board game.Board, marked game.MarkedSet, n int) int {
	score := 0
	for _, line := range game.Lines {
		inLine := false
		already := 0
		for _, idx := range line {
			v := board[idx]
			if v == n {
				inLine = true
			}
			if v != 0 && marked.Has(v) {
				already++
			}
		}
		if !inLine {
			continue
		}
		if already == game.Size-1 {
			score += completeBonus
		} else {
			score += (already + 1) * 2
		}
	}
	return score
}

// wouldWin reports whether calling n on top of marked wins on board.
func wouldWin(board game.Board, marked game.MarkedSet, n int) bool {
	after := make(game.MarkedSet, marked.Len()+1)
	for k := range marked {
		after.Mark(k)
	}
	after.Mark(n)
	return game.Evaluate(board, after).Won
}
