// internal/httpserver/server.go
//
// HTTP wiring for the bingo server.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, CORS, JSON).
//   - Diagnostics: "/", "/health", "/debug/rooms".
//   - Solo-mode endpoints: GET /solo/board, POST /solo/move.
//   - Match-history endpoints (when a DB is attached): /history/*.
//   - The realtime session gateway at GET /ws.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled.
//   - The timeout and JSON middleware only wrap the REST surface; a
//     deadline on /ws would tear down live sockets.

package httpserver

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bingoduel/go-server/internal/match"
	"github.com/bingoduel/go-server/internal/room"
)

// Server bundles router, room registry, match coordinator and gateway.
type Server struct {
	r     *chi.Mux
	reg   *room.Registry
	coord *match.Coordinator
	gw    *gateway
	db    *sql.DB
}

// New constructs a Server, installs middleware, and registers routes.
// db may be nil (history endpoints are then not mounted); rec may be
// nil (finished matches are not persisted).
func New(reg *room.Registry, db *sql.DB, rec match.Recorder) *Server {
	s := &Server{r: chi.NewRouter(), reg: reg, db: db}
	s.gw = newGateway(reg, tokenSecret())
	s.coord = match.NewCoordinator(reg, s.gw, rec)

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(corsFromEnv)     // credentials-friendly CORS

	// --- REST surface ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"service":"bingo-go","endpoints":["/health","/ws","GET /solo/board","POST /solo/move","/history/recent"]}`))
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"ok":true}`))
		})
		r.Get("/debug/rooms", s.handleDebugRooms)

		s.mountSolo(r)
		if s.db != nil {
			s.mountHistory(r)
		}
	})

	// --- realtime ---
	s.r.Get("/ws", s.gw.handleWS(s.coord))

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleDebugRooms reports the live room count.
func (s *Server) handleDebugRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]int{"rooms": s.reg.Len()})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
