package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bingoduel/go-server/internal/game"
	"github.com/bingoduel/go-server/internal/room"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(room.NewRegistry(), nil, nil)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s.Router(), http.MethodGet, "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d %s", rr.Code, rr.Body.String())
	}
}

func TestDebugRooms(t *testing.T) {
	s := newTestServer(t)
	s.reg.Create("p1", "Ana")
	rr := doJSON(t, s.Router(), http.MethodGet, "/debug/rooms", nil)
	var out map[string]int
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["rooms"] != 1 {
		t.Fatalf("expected 1 room, got %d", out["rooms"])
	}
}

func TestSoloBoard(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s.Router(), http.MethodGet, "/solo/board", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("solo board: %d %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Board []int `json:"board"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	b, err := game.BoardFromSlice(out.Board)
	if err != nil || !b.Complete() {
		t.Fatalf("dealt board invalid: %v err=%v", out.Board, err)
	}
}

func TestSoloMove(t *testing.T) {
	s := newTestServer(t)
	board := make([]int, game.Cells)
	for i := range board {
		board[i] = i + 1
	}

	// All but one number called: the pick is forced.
	marked := make([]int, 0, game.Cells-1)
	for n := 1; n <= game.Cells; n++ {
		if n != 9 {
			marked = append(marked, n)
		}
	}
	rr := doJSON(t, s.Router(), http.MethodPost, "/solo/move", map[string]any{
		"difficulty": "hard",
		"board":      board,
		"marked":     marked,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("solo move: %d %s", rr.Code, rr.Body.String())
	}
	var out struct {
		Number *int `json:"number"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Number == nil || *out.Number != 9 {
		t.Fatalf("expected forced move 9, got %v", out.Number)
	}

	// Everything called: number is null.
	rr = doJSON(t, s.Router(), http.MethodPost, "/solo/move", map[string]any{
		"difficulty": "easy",
		"board":      board,
		"marked":     append(marked, 9),
	})
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Number != nil {
		t.Fatalf("expected null move on a full set, got %d", *out.Number)
	}
}

func TestSoloMoveValidation(t *testing.T) {
	s := newTestServer(t)
	board := make([]int, game.Cells)
	for i := range board {
		board[i] = i + 1
	}
	cases := []struct {
		name string
		body map[string]any
	}{
		{"bad difficulty", map[string]any{"difficulty": "nightmare", "board": board}},
		{"short board", map[string]any{"difficulty": "easy", "board": []int{1, 2}}},
		{"bad opponent", map[string]any{"difficulty": "hard", "board": board, "opponentBoard": []int{3}}},
	}
	for _, tc := range cases {
		rr := doJSON(t, s.Router(), http.MethodPost, "/solo/move", tc.body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d %s", tc.name, rr.Code, rr.Body.String())
		}
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	s := newTestServer(t)
	rr := doJSON(t, s.Router(), http.MethodGet, "/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var out map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("404 body not JSON: %s", rr.Body.String())
	}
}

func TestIdentityTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := signToken(secret, "player-1", tokenTTL())
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	id, err := verifyToken(secret, tok)
	if err != nil || id != "player-1" {
		t.Fatalf("verify: id=%q err=%v", id, err)
	}
	if _, err := verifyToken([]byte("other-secret"), tok); err == nil {
		t.Fatal("token accepted under the wrong secret")
	}
	if _, err := verifyToken(secret, "garbage"); err == nil {
		t.Fatal("garbage token accepted")
	}
}
