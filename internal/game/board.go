// internal/game/board.go
//
// Core type definitions for the bingo board.
// Defines:
//   - Board: fixed 5x5 card of the numbers 1..25, stored row-major.
//   - MarkedSet: the numbers called so far in a match (grow-only).
//   - Lines: the 12 winning index groups (rows, columns, diagonals).

package game

import (
	"errors"
	"math/rand"
)

const (
	// Size is the board edge length.
	Size = 5
	// Cells is the total cell count of a card.
	Cells = Size * Size
	// WinLines is the number of completed lines that makes bingo.
	WinLines = 5
)

// Board is a fixed 5x5 bingo card stored row-major (idx -> row idx/5,
// col idx%5). Cells hold the numbers 1..25; a zero cell is an unfilled
// placeholder and never matches a called number. A board is immutable
// once a match starts.
type Board [Cells]int

// Lines are the 12 winning index groups: five rows, five columns, and
// the two diagonals. Constant for the process lifetime.
var Lines = [12][Size]int{
	// rows
	{0, 1, 2, 3, 4},
	{5, 6, 7, 8, 9},
	{10, 11, 12, 13, 14},
	{15, 16, 17, 18, 19},
	{20, 21, 22, 23, 24},
	// cols
	{0, 5, 10, 15, 20},
	{1, 6, 11, 16, 21},
	{2, 7, 12, 17, 22},
	{3, 8, 13, 18, 23},
	{4, 9, 14, 19, 24},
	// diagonals
	{0, 6, 12, 18, 24},
	{4, 8, 12, 16, 20},
}

// Validation errors for client-supplied boards.
var (
	ErrBoardSize  = errors.New("board must have 25 cells")
	ErrCellRange  = errors.New("cell value out of range")
	ErrDuplicate  = errors.New("duplicate number on board")
	ErrBoardEmpty = errors.New("board has no filled cells")
)

// MarkedSet tracks the numbers called during a match. It only grows; a
// new match starts from a fresh set.
type MarkedSet map[int]struct{}

// NewMarkedSet returns an empty set.
func NewMarkedSet() MarkedSet { return make(MarkedSet) }

// NewMarkedSetOf returns a set pre-filled with the given numbers.
func NewMarkedSetOf(nums ...int) MarkedSet {
	m := make(MarkedSet, len(nums))
	for _, n := range nums {
		m.Mark(n)
	}
	return m
}

// Mark adds n to the set.
func (m MarkedSet) Mark(n int) { m[n] = struct{}{} }

// Has reports whether n has been called.
func (m MarkedSet) Has(n int) bool {
	_, ok := m[n]
	return ok
}

// Len returns the number of called values.
func (m MarkedSet) Len() int { return len(m) }

// BoardFromSlice validates a client-supplied card. It must hold exactly
// 25 values in [0,25]; nonzero values must be distinct. Zeroes are
// allowed so partially filled cards can still be evaluated.
func BoardFromSlice(vals []int) (Board, error) {
	var b Board
	if len(vals) != Cells {
		return b, ErrBoardSize
	}
	var seen [Cells + 1]bool
	filled := 0
	for i, v := range vals {
		if v < 0 || v > Cells {
			return b, ErrCellRange
		}
		if v != 0 {
			if seen[v] {
				return b, ErrDuplicate
			}
			seen[v] = true
			filled++
		}
		b[i] = v
	}
	if filled == 0 {
		return b, ErrBoardEmpty
	}
	return b, nil
}

// Complete reports whether the card carries every number 1..25 exactly
// once (the shape required before a match may start).
func (b Board) Complete() bool {
	var seen [Cells + 1]bool
	for _, v := range b {
		if v < 1 || v > Cells || seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// RandomBoard returns a uniformly shuffled full card. rand.Perm gives
// an unbiased permutation; comparator-based shuffles do not.
func RandomBoard() Board {
	var b Board
	for i, p := range rand.Perm(Cells) {
		b[i] = p + 1
	}
	return b
}
