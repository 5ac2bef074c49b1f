package game

import (
	"testing"
)

// identityBoard returns a card with value idx+1 at each index, so line
// membership is easy to reason about in tests.
func identityBoard(t *testing.T) Board {
	t.Helper()
	vals := make([]int, Cells)
	for i := range vals {
		vals[i] = i + 1
	}
	b, err := BoardFromSlice(vals)
	if err != nil {
		t.Fatalf("identity board rejected: %v", err)
	}
	return b
}

func TestEvaluateEmptyMarked(t *testing.T) {
	b := identityBoard(t)
	res := Evaluate(b, NewMarkedSet())
	if len(res.CompletedLines) != 0 || res.Won {
		t.Fatalf("expected no lines on empty set, got %v won=%v", res.CompletedLines, res.Won)
	}
}

func TestEvaluateSingleLines(t *testing.T) {
	b := identityBoard(t)
	for li, line := range Lines {
		m := NewMarkedSet()
		for _, idx := range line {
			m.Mark(b[idx])
		}
		res := Evaluate(b, m)
		if len(res.CompletedLines) != 1 || res.CompletedLines[0] != li {
			t.Fatalf("line %d: expected exactly that line, got %v", li, res.CompletedLines)
		}
		if res.Won {
			t.Fatalf("line %d: one line must not win", li)
		}
	}
}

func TestEvaluatePartialLineNotComplete(t *testing.T) {
	b := identityBoard(t)
	// Row 0 minus one cell.
	m := NewMarkedSetOf(1, 2, 3, 4)
	res := Evaluate(b, m)
	if len(res.CompletedLines) != 0 {
		t.Fatalf("4 of 5 marked must not complete a line, got %v", res.CompletedLines)
	}
}

func TestEvaluateWinAtFiveLines(t *testing.T) {
	b := identityBoard(t)
	// Rows 0..3 are values 1..20; marking 21 also completes column 0
	// (1,6,11,16,21) and the anti-diagonal (5,9,13,17,21): six lines.
	m := NewMarkedSet()
	for n := 1; n <= 20; n++ {
		m.Mark(n)
	}
	res := Evaluate(b, m)
	if res.Won {
		t.Fatalf("four lines must not win, got %v", res.CompletedLines)
	}
	m.Mark(21)
	res = Evaluate(b, m)
	if !res.Won {
		t.Fatalf("expected win at five lines, got %v", res.CompletedLines)
	}
	if got := len(res.CompletedLines); got != 6 {
		t.Fatalf("expected 6 completed lines, got %d (%v)", got, res.CompletedLines)
	}
}

func TestEvaluateAllMarked(t *testing.T) {
	b := identityBoard(t)
	m := NewMarkedSet()
	for n := 1; n <= Cells; n++ {
		m.Mark(n)
	}
	res := Evaluate(b, m)
	if !res.Won || len(res.CompletedLines) != len(Lines) {
		t.Fatalf("full set should complete all %d lines, got %d", len(Lines), len(res.CompletedLines))
	}
}

func TestEvaluateZeroCellNeverMatches(t *testing.T) {
	vals := make([]int, Cells)
	for i := range vals {
		vals[i] = i + 1
	}
	vals[2] = 0 // poke a hole in row 0
	b, err := BoardFromSlice(vals)
	if err != nil {
		t.Fatalf("board with placeholder rejected: %v", err)
	}
	// Mark everything, including 0 and the displaced value.
	m := NewMarkedSet()
	for n := 0; n <= Cells; n++ {
		m.Mark(n)
	}
	res := Evaluate(b, m)
	for _, li := range res.CompletedLines {
		for _, idx := range Lines[li] {
			if idx == 2 {
				t.Fatalf("line %d through the placeholder cell reported complete", li)
			}
		}
	}
}

func TestBoardFromSliceValidation(t *testing.T) {
	cases := []struct {
		name string
		vals func() []int
		want error
	}{
		{"short", func() []int { return make([]int, 10) }, ErrBoardSize},
		{"long", func() []int { return make([]int, 26) }, ErrBoardSize},
		{"negative", func() []int {
			v := make([]int, Cells)
			v[0] = -1
			return v
		}, ErrCellRange},
		{"too large", func() []int {
			v := make([]int, Cells)
			v[0] = 26
			return v
		}, ErrCellRange},
		{"duplicate", func() []int {
			v := make([]int, Cells)
			v[0], v[1] = 7, 7
			return v
		}, ErrDuplicate},
		{"all zero", func() []int { return make([]int, Cells) }, ErrBoardEmpty},
	}
	for _, tc := range cases {
		if _, err := BoardFromSlice(tc.vals()); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRandomBoardComplete(t *testing.T) {
	for i := 0; i < 50; i++ {
		if b := RandomBoard(); !b.Complete() {
			t.Fatalf("RandomBoard produced incomplete card: %v", b)
		}
	}
}

func TestCompleteRejectsHoles(t *testing.T) {
	b := identityBoard(t)
	b[12] = 0
	if b.Complete() {
		t.Fatalf("card with placeholder must not be complete")
	}
}
