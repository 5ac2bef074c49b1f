// internal/match/events.go
//
// Event vocabulary for the realtime channel. Client intents arrive at
// the gateway as {event, data} envelopes; the coordinator answers with
// the events below, either to a single connection or to every member
// of a room.

package match

import "github.com/bingoduel/go-server/internal/room"

// Server → client event names.
const (
	EventConnected      = "connected"
	EventRoomCreated    = "room_created"
	EventPlayerUpdate   = "player_update"
	EventPlayerJoined   = "player_joined"
	EventGameStarted    = "game_started"
	EventMatchStart     = "match_start"
	EventNumberSelected = "number_selected"
	EventGameOver       = "game_over"
	EventPlayerLeft     = "player_left"
	EventError          = "error"
)

// Event is one server → client message.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data,omitempty"`
}

// Broadcaster delivers coordinator events to live connections. The
// gateway implements it; tests substitute a recorder. Room delivery
// order follows call order: the coordinator serializes intents, so
// members observe one room's events FIFO.
type Broadcaster interface {
	// ToRoom fans ev out to every current member of the room.
	ToRoom(code string, ev Event)
	// ToConn addresses a single connection.
	ToConn(connID string, ev Event)
}

// JoinedPayload accompanies player_joined.
type JoinedPayload struct {
	PlayerCount int `json:"playerCount"`
}

// MovePayload accompanies number_selected.
type MovePayload struct {
	Number   int    `json:"number"`
	PlayerID string `json:"playerId"`
}

// LeaderboardEntry is one row of the game_over leaderboard.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// GameOverPayload accompanies game_over.
type GameOverPayload struct {
	Winner      string             `json:"winner"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

func errorEvent(msg string) Event { return Event{Name: EventError, Data: msg} }

func playerUpdate(r *room.Room) Event {
	return Event{Name: EventPlayerUpdate, Data: r.PlayersSnapshot()}
}
