// internal/httpserver/routes_solo.go
//
// HTTP routes for solo mode. The browser plays the match locally
// against the computer; these endpoints supply the board shuffle and
// the computer opponent's next move:
//   - GET  /solo/board → a uniformly shuffled 1..25 card.
//   - POST /solo/move  → the heuristic's pick for the given position.
//
// An optional thinking pause (SOLO_MOVE_DELAY_MS) paces the move
// server-side; it waits on a timer and respects request cancellation,
// so it never holds up other clients.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bingoduel/go-server/internal/ai"
	"github.com/bingoduel/go-server/internal/game"
)

// mountSolo registers all /solo routes.
func (s *Server) mountSolo(r chi.Router) {
	delay := soloDelayFromEnv()
	r.Route("/solo", func(r chi.Router) {
		r.Get("/board", handleSoloBoard)
		r.Post("/move", handleSoloMove(delay))
	})
}

// soloDelayFromEnv reads the thinking pause; default is no pause.
func soloDelayFromEnv() time.Duration {
	ms, err := strconv.Atoi(getEnv("SOLO_MOVE_DELAY_MS", "0"))
	if err != nil || ms < 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// handleSoloBoard deals a fresh shuffled card.
func handleSoloBoard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"board": game.RandomBoard()})
}

// soloMoveReq is the position POST /solo/move evaluates.
type soloMoveReq struct {
	Difficulty    string `json:"difficulty"`
	Board         []int  `json:"board"`         // the computer's card
	Marked        []int  `json:"marked"`        // numbers called so far
	OpponentBoard []int  `json:"opponentBoard"` // the human's card; optional, hard mode only
}

// soloMoveRes carries the pick; number is null when all 25 numbers are
// already called.
type soloMoveRes struct {
	Number *int `json:"number"`
}

// handleSoloMove runs the opponent heuristic for one position.
func handleSoloMove(delay time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req soloMoveReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
			return
		}
		diff, err := ai.ParseDifficulty(req.Difficulty)
		if err != nil {
			http.Error(w, `{"error":"invalid_difficulty"}`, http.StatusBadRequest)
			return
		}
		board, err := game.BoardFromSlice(req.Board)
		if err != nil {
			http.Error(w, `{"error":"invalid_board"}`, http.StatusBadRequest)
			return
		}
		marked := game.NewMarkedSetOf(req.Marked...)

		var opponent game.Board
		if len(req.OpponentBoard) > 0 {
			opponent, err = game.BoardFromSlice(req.OpponentBoard)
			if err != nil {
				http.Error(w, `{"error":"invalid_board"}`, http.StatusBadRequest)
				return
			}
		}

		opp := &ai.Opponent{Difficulty: diff, Board: board, Delay: delay}
		n, ok, err := opp.Move(r.Context(), marked, opponent)
		if err != nil {
			// Client went away during the thinking pause.
			return
		}
		res := soloMoveRes{}
		if ok {
			res.Number = &n
		}
		writeJSON(w, res)
	}
}

// writeJSON encodes v, ignoring encoder errors like the rest of the
// handlers.
func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}
