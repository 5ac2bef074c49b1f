// internal/game/evaluate.go
//
// Win evaluation for a bingo card.
// Pure and stateless: recomputed from scratch on every call, safe to
// invoke any number of times from any goroutine.

package game

// Result reports which winning lines a card has completed against the
// called numbers.
type Result struct {
	// CompletedLines holds the indices into Lines of every fully
	// marked line, in table order.
	CompletedLines []int
	// Won is true once five or more lines are complete.
	Won bool
}

// Evaluate checks board against the called numbers and returns the
// completed lines plus the win flag. A zero cell never matches.
func Evaluate(board Board, marked MarkedSet) Result {
	var done []int
	for li, line := range Lines {
		complete := true
		for _, idx := range line {
			v := board[idx]
			if v == 0 || !marked.Has(v) {
				complete = false
				break
			}
		}
		if complete {
			done = append(done, li)
		}
	}
	return Result{CompletedLines: done, Won: len(done) >= WinLines}
}
