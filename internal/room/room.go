// internal/room/room.go
//
// Room and player model for PvP sessions.
// A room is ephemeral and memory-resident: created by the first player,
// destroyed when the last one leaves, never persisted.

package room

import (
	"time"

	"github.com/bingoduel/go-server/internal/game"
)

// Phase is the lifecycle position of a room's current match.
type Phase string

const (
	// PhaseWaiting: fewer than two players seated.
	PhaseWaiting Phase = "waiting"
	// PhaseReady: both seats filled, boards still being submitted.
	PhaseReady Phase = "ready"
	// PhasePlaying: both boards in, moves being exchanged.
	PhasePlaying Phase = "playing"
	// PhaseFinished: a winner recorded; a re-join or re-ready rearms
	// the room for a rematch.
	PhaseFinished Phase = "finished"
)

// MaxPlayers is the seat count of a room.
const MaxPlayers = 2

// Player is one seat in a room. Identity is the connection id; Score
// accumulates wins across rematches in the same room and is never
// reset.
type Player struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Room is a single PvP session keyed by its code. All mutation goes
// through the Registry and the match coordinator; nothing else touches
// room state.
type Room struct {
	Code    string
	Players []*Player // arrival order; the first seat moves first
	Phase   Phase

	// Current-match state, reset between rematches.
	WinnerID  string
	Ready     map[string]struct{}   // connection ids that submitted a board
	Boards    map[string]game.Board // boards captured at ready time
	Marked    game.MarkedSet        // authoritative called numbers
	Turn      string                // connection id holding the turn
	StartedAt time.Time             // when the current match began

	CreatedAt time.Time
}

func newRoom(code, hostID, hostName string) *Room {
	r := &Room{
		Code:      code,
		Players:   []*Player{{ID: hostID, Name: hostName}},
		Phase:     PhaseWaiting,
		CreatedAt: time.Now(),
	}
	r.resetMatchState()
	return r
}

// Player returns the seated player with the given connection id, or nil.
func (r *Room) Player(id string) *Player {
	for _, p := range r.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Opponent returns the other seated player, or nil.
func (r *Room) Opponent(id string) *Player {
	for _, p := range r.Players {
		if p.ID != id {
			return p
		}
	}
	return nil
}

// Seated reports whether the connection holds a seat.
func (r *Room) Seated(id string) bool { return r.Player(id) != nil }

// PlayersSnapshot returns a value copy of the seat list for broadcast
// payloads, so callers never alias live state.
func (r *Room) PlayersSnapshot() []Player {
	out := make([]Player, len(r.Players))
	for i, p := range r.Players {
		out[i] = *p
	}
	return out
}

// ResetMatch rearms a room for the next match: winner, ready set,
// boards, called numbers and turn are dropped; scores survive. The
// phase falls back to waiting or the ready barrier depending on the
// seat count.
func (r *Room) ResetMatch() {
	r.resetMatchState()
	if len(r.Players) < MaxPlayers {
		r.Phase = PhaseWaiting
	} else {
		r.Phase = PhaseReady
	}
}

func (r *Room) resetMatchState() {
	r.WinnerID = ""
	r.Ready = make(map[string]struct{})
	r.Boards = make(map[string]game.Board)
	r.Marked = game.NewMarkedSet()
	r.Turn = ""
	r.StartedAt = time.Time{}
}
