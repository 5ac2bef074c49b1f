// internal/httpserver/routes_history.go
//
// Match-history endpoints, backed by the matches table:
//   - GET /history/recent?limit=N → latest finished PvP matches.
//
// Room state itself is memory-only; this is a best-effort results log.

package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// historyRow is one finished match as returned to clients.
type historyRow struct {
	RoomCode    string `json:"roomCode"`
	WinnerName  string `json:"winnerName"`
	LoserName   string `json:"loserName,omitempty"`
	WinnerScore int    `json:"winnerScore"`
	LoserScore  int    `json:"loserScore"`
	DurationMs  int64  `json:"durationMs"`
	FinishedAt  string `json:"finishedAt"`
}

// mountHistory registers all /history routes.
func (s *Server) mountHistory(r chi.Router) {
	r.Route("/history", func(r chi.Router) {
		r.Get("/recent", s.handleHistoryRecent)
	})
}

// handleHistoryRecent returns the most recently finished matches,
// newest first. limit defaults to 20, capped at 100.
func (s *Server) handleHistoryRecent(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}

	rows, err := s.db.QueryContext(r.Context(),
		`SELECT room_code, winner_name, loser_name, winner_score, loser_score, duration_ms, finished_at
		 FROM matches ORDER BY finished_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		log.Error().Err(err).Msg("query match history")
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	out := []historyRow{}
	for rows.Next() {
		var h historyRow
		if err := rows.Scan(&h.RoomCode, &h.WinnerName, &h.LoserName,
			&h.WinnerScore, &h.LoserScore, &h.DurationMs, &h.FinishedAt); err == nil {
			out = append(out, h)
		}
	}
	writeJSON(w, out)
}
