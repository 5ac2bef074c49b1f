// internal/match/coordinator.go
//
// Per-room match state machine and turn arbitration.
// Responsibilities:
//   - Drive rooms through waiting → ready barrier → playing → finished,
//     with rematch cycling back to the ready barrier.
//   - Arbitrate turns and reject desynced moves silently.
//   - Adjudicate win claims against the boards captured at ready time.
//   - Keep cumulative scores and broadcast the leaderboard.
//
// One mutex serializes every intent, so each handler runs to completion
// before the next is processed; room events therefore reach members in
// processing order with no further locking.

package match

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bingoduel/go-server/internal/game"
	"github.com/bingoduel/go-server/internal/room"
)

// Default display names when a client sends none.
const (
	defaultHostName  = "Host"
	defaultGuestName = "Guest"
)

// Result describes a finished match for persistence.
type Result struct {
	RoomCode    string
	WinnerName  string
	LoserName   string
	WinnerScore int
	LoserScore  int
	Duration    time.Duration
	FinishedAt  time.Time
}

// Recorder persists finished matches. Implementations must be
// best-effort: a recorder failure never affects the room. Nil disables
// recording.
type Recorder interface {
	RecordMatch(ctx context.Context, res Result) error
}

// Coordinator owns all game mutation. Construct with NewCoordinator
// and route every client intent through it.
type Coordinator struct {
	mu  sync.Mutex
	reg *room.Registry
	bc  Broadcaster
	rec Recorder
}

// NewCoordinator wires a coordinator to its registry, event sink, and
// optional match recorder.
func NewCoordinator(reg *room.Registry, bc Broadcaster, rec Recorder) *Coordinator {
	return &Coordinator{reg: reg, bc: bc, rec: rec}
}

// CreateRoom opens a room for the connection under a fresh code.
func (c *Coordinator) CreateRoom(connID, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		name = defaultHostName
	}
	if _, seated := c.reg.FindByPlayer(connID); seated {
		c.bc.ToConn(connID, errorEvent("Already in a room"))
		return
	}
	r := c.reg.Create(connID, name)
	log.Info().Str("room", r.Code).Str("player", connID).Msg("room created")
	c.bc.ToConn(connID, Event{Name: EventRoomCreated, Data: r.Code})
	c.bc.ToRoom(r.Code, playerUpdate(r))
}

// JoinRoom seats the connection in the room with the given code. An
// unknown but well-formed code opens a fresh room under that code; a
// finished room is rearmed for a rematch; a connection already seated
// re-joins in place.
func (c *Coordinator) JoinRoom(connID, code, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if name == "" {
		name = defaultGuestName
	}
	code = room.NormalizeCode(code)

	r, ok := c.reg.Get(code)
	if !ok {
		if !room.ValidCode(code) {
			c.bc.ToConn(connID, errorEvent("Room not found"))
			return
		}
		if _, seated := c.reg.FindByPlayer(connID); seated {
			c.bc.ToConn(connID, errorEvent("Already in a room"))
			return
		}
		r, err := c.reg.CreateWithCode(code, connID, name)
		if err != nil {
			c.bc.ToConn(connID, errorEvent("Room not found"))
			return
		}
		log.Info().Str("room", code).Str("player", connID).Msg("room created on join")
		c.bc.ToConn(connID, Event{Name: EventRoomCreated, Data: r.Code})
		c.bc.ToRoom(code, playerUpdate(r))
		c.bc.ToConn(connID, Event{Name: EventPlayerJoined, Data: JoinedPayload{PlayerCount: 1}})
		return
	}

	// A re-join or a fresh seat rearms a finished room.
	if r.Phase == room.PhaseFinished {
		r.ResetMatch()
	}

	if r.Seated(connID) {
		_, _, _ = c.reg.Add(code, connID, name) // updates the display name in place
		log.Info().Str("room", code).Str("player", connID).Msg("re-joined room")
		c.bc.ToRoom(code, playerUpdate(r))
		c.bc.ToConn(connID, Event{Name: EventPlayerJoined, Data: JoinedPayload{PlayerCount: len(r.Players)}})
		return
	}
	if _, seated := c.reg.FindByPlayer(connID); seated {
		c.bc.ToConn(connID, errorEvent("Already in a room"))
		return
	}

	r, _, err := c.reg.Add(code, connID, name)
	if err == room.ErrRoomFull {
		c.bc.ToConn(connID, errorEvent("Room is full"))
		return
	}
	if err != nil {
		c.bc.ToConn(connID, errorEvent("Room not found"))
		return
	}
	// The second seat arms the ready barrier.
	if len(r.Players) == room.MaxPlayers && r.Phase == room.PhaseWaiting {
		r.Phase = room.PhaseReady
	}
	log.Info().Str("room", code).Str("player", connID).Int("players", len(r.Players)).Msg("joined room")
	c.bc.ToRoom(code, playerUpdate(r))
	c.bc.ToConn(connID, Event{Name: EventPlayerJoined, Data: JoinedPayload{PlayerCount: len(r.Players)}})
}

// StartGame relays the host's start intent to the room. The caller's
// seat is deliberately not checked, matching the established protocol.
func (c *Coordinator) StartGame(connID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code = room.NormalizeCode(code)
	if _, ok := c.reg.Get(code); !ok {
		return
	}
	log.Info().Str("room", code).Msg("game started")
	c.bc.ToRoom(code, Event{Name: EventGameStarted})
}

// PlayerReady records the connection's completed board. Once both
// seats have submitted, the match starts: the ready set is cleared,
// the called set reset, and the first-seated player takes the turn.
func (c *Coordinator) PlayerReady(connID, code string, boardVals []int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code = room.NormalizeCode(code)
	r, ok := c.reg.Get(code)
	if !ok {
		c.bc.ToConn(connID, errorEvent("Room not found"))
		return
	}
	if !r.Seated(connID) {
		return
	}
	if r.Phase == room.PhaseFinished {
		r.ResetMatch()
	}
	if r.Phase == room.PhasePlaying {
		return
	}

	b, err := game.BoardFromSlice(boardVals)
	if err != nil || !b.Complete() {
		c.bc.ToConn(connID, errorEvent("Invalid board"))
		return
	}
	r.Boards[connID] = b
	r.Ready[connID] = struct{}{}
	log.Debug().Str("room", code).Str("player", connID).Int("ready", len(r.Ready)).Msg("player ready")

	if len(r.Players) == room.MaxPlayers && len(r.Ready) == room.MaxPlayers {
		r.Phase = room.PhasePlaying
		r.Ready = make(map[string]struct{})
		r.Marked = game.NewMarkedSet()
		r.Turn = r.Players[0].ID
		r.StartedAt = time.Now()
		log.Info().Str("room", code).Msg("match start")
		c.bc.ToRoom(code, Event{Name: EventMatchStart})
	}
}

// MakeMove applies a turn: the number is added to the called set and
// broadcast, then the turn passes. Desynced intents (wrong phase, out
// of turn, number already called) are dropped with no event, and a
// truthful win flag finishes the match.
func (c *Coordinator) MakeMove(connID, code string, number int, winClaim bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code = room.NormalizeCode(code)
	r, ok := c.reg.Get(code)
	if !ok {
		return
	}
	if r.Phase != room.PhasePlaying || r.Turn != connID {
		return
	}
	if number < 1 || number > game.Cells || r.Marked.Has(number) {
		return
	}

	r.Marked.Mark(number)
	if opp := r.Opponent(connID); opp != nil {
		r.Turn = opp.ID
	}
	c.bc.ToRoom(code, Event{Name: EventNumberSelected, Data: MovePayload{Number: number, PlayerID: connID}})

	if winClaim {
		c.finishLocked(r, connID)
	}
}

// BingoWin handles a win claim detached from a move (solo-style
// bookkeeping landing on the PvP finish path).
func (c *Coordinator) BingoWin(connID, code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	code = room.NormalizeCode(code)
	r, ok := c.reg.Get(code)
	if !ok || !r.Seated(connID) {
		return
	}
	if r.Phase != room.PhasePlaying {
		return
	}
	c.finishLocked(r, connID)
}

// Disconnect unseats the connection wherever it is. An emptied room is
// deleted; otherwise the remaining member is told and, if the leaver
// held the turn, the turn passes.
func (c *Coordinator) Disconnect(connID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, removed, deleted, found := c.reg.Remove(connID)
	if !found {
		return
	}
	if deleted {
		log.Info().Str("player", connID).Msg("last player left, room deleted")
		return
	}
	if r.Turn == connID && len(r.Players) > 0 {
		r.Turn = r.Players[0].ID
	}
	log.Info().Str("room", r.Code).Str("player", removed.ID).Int("players", len(r.Players)).Msg("player left")
	c.bc.ToRoom(r.Code, Event{Name: EventPlayerLeft, Data: connID})
	c.bc.ToRoom(r.Code, playerUpdate(r))
}

// RoomCount exposes the live room count for diagnostics.
func (c *Coordinator) RoomCount() int { return c.reg.Len() }

// finishLocked adjudicates a win claim. Claims are verified against the
// claimant's board captured at ready time; a claim from a seat with no
// stored board is honored as-is for compatibility with clients that
// track the win locally. Only the first accepted claim per match
// counts.
func (c *Coordinator) finishLocked(r *room.Room, winnerID string) {
	if r.WinnerID != "" {
		return
	}
	if b, ok := r.Boards[winnerID]; ok {
		if !game.Evaluate(b, r.Marked).Won {
			log.Warn().Str("room", r.Code).Str("player", winnerID).Msg("rejected win claim")
			return
		}
	}
	winner := r.Player(winnerID)
	if winner == nil {
		return
	}
	r.WinnerID = winnerID
	r.Phase = room.PhaseFinished
	winner.Score++

	lb := make([]LeaderboardEntry, 0, len(r.Players))
	for _, p := range r.Players {
		lb = append(lb, LeaderboardEntry{Name: p.Name, Score: p.Score})
	}
	log.Info().Str("room", r.Code).Str("winner", winnerID).Msg("game over")
	c.bc.ToRoom(r.Code, Event{Name: EventGameOver, Data: GameOverPayload{Winner: winnerID, Leaderboard: lb}})

	if c.rec != nil {
		res := Result{
			RoomCode:    r.Code,
			WinnerName:  winner.Name,
			WinnerScore: winner.Score,
			FinishedAt:  time.Now(),
		}
		if !r.StartedAt.IsZero() {
			res.Duration = time.Since(r.StartedAt)
		}
		if opp := r.Opponent(winnerID); opp != nil {
			res.LoserName = opp.Name
			res.LoserScore = opp.Score
		}
		if err := c.rec.RecordMatch(context.Background(), res); err != nil {
			log.Warn().Err(err).Str("room", r.Code).Msg("record match")
		}
	}
}
