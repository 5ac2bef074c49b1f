// internal/httpserver/ws.go
//
// Realtime session gateway. Maps each websocket to at most one player
// identity, decodes {event, data} intent envelopes into coordinator
// calls, and fans coordinator events back out to room members. The
// gateway performs no game logic itself.

package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/bingoduel/go-server/internal/match"
	"github.com/bingoduel/go-server/internal/room"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin browsers are expected; CORS policy lives on the
	// REST surface.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// sendQueueSize bounds the per-connection outbound queue. A client
// that cannot drain it loses messages rather than stalling the room.
const sendQueueSize = 32

// client is one live connection with its outbound queue.
type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
}

// gateway implements match.Broadcaster over live websockets.
type gateway struct {
	mu      sync.RWMutex
	clients map[string]*client // connection id → client
	reg     *room.Registry     // membership lookup for room fan-out
	secret  []byte             // identity token key
}

func newGateway(reg *room.Registry, secret []byte) *gateway {
	return &gateway{clients: make(map[string]*client), reg: reg, secret: secret}
}

// ToConn queues ev for a single connection. Full queues drop the
// message: a stalled client is treated as desynced, not blocking.
func (g *gateway) ToConn(id string, ev match.Event) {
	g.mu.RLock()
	c := g.clients[id]
	g.mu.RUnlock()
	if c == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("event", ev.Name).Msg("marshal event")
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Warn().Str("conn", id).Str("event", ev.Name).Msg("slow client, dropping event")
	}
}

// ToRoom fans ev out to every current member of the room. Member list
// and delivery order both reflect coordinator processing order, since
// the coordinator serializes intents.
func (g *gateway) ToRoom(code string, ev match.Event) {
	r, ok := g.reg.Get(code)
	if !ok {
		return
	}
	for _, p := range r.PlayersSnapshot() {
		g.ToConn(p.ID, ev)
	}
}

// connectedPayload is the welcome sent on every upgrade.
type connectedPayload struct {
	PlayerID string `json:"playerId"`
	Token    string `json:"token"`
}

// handleWS upgrades the connection, establishes the player identity,
// and runs the intent loop until the socket dies.
func (g *gateway) handleWS(coord *match.Coordinator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}

		// A valid identity token resumes the previous player id;
		// otherwise this connection is a fresh identity.
		id := ""
		if tok := r.URL.Query().Get("token"); tok != "" {
			if resumed, err := verifyToken(g.secret, tok); err == nil {
				id = resumed
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		c := &client{
			id:   id,
			conn: conn,
			send: make(chan []byte, sendQueueSize),
			done: make(chan struct{}),
		}
		g.register(c)
		go c.writePump()

		log.Info().Str("conn", id).Msg("client connected")
		tok, err := signToken(g.secret, id, tokenTTL())
		if err == nil {
			g.ToConn(id, match.Event{Name: match.EventConnected, Data: connectedPayload{PlayerID: id, Token: tok}})
		}

		g.readLoop(c, coord)
	}
}

func (g *gateway) register(c *client) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.clients[c.id] = c
}

// unregister detaches the client and stops its write pump, reporting
// whether c was still the id's current connection. A token resume
// replaces the map entry, so a stale socket that dies later is no
// longer the owner. The send channel is never closed; late broadcasts
// land in the buffer and are garbage collected with it.
func (g *gateway) unregister(c *client) bool {
	g.mu.Lock()
	owner := g.clients[c.id] == c
	if owner {
		delete(g.clients, c.id)
	}
	g.mu.Unlock()
	close(c.done)
	return owner
}

// intentEnvelope is the client → server message frame.
type intentEnvelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// readLoop decodes intents until the connection errors, then tears the
// player down.
func (g *gateway) readLoop(c *client, coord *match.Coordinator) {
	defer func() {
		// Only the id's current connection tears the player down; a
		// stale socket left behind by a token resume must not unseat
		// the live one.
		if g.unregister(c) {
			coord.Disconnect(c.id)
			log.Info().Str("conn", c.id).Msg("client disconnected")
		} else {
			log.Debug().Str("conn", c.id).Msg("stale socket closed")
		}
		_ = c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var env intentEnvelope
		if err := json.Unmarshal(raw, &env); err != nil {
			log.Debug().Err(err).Str("conn", c.id).Msg("bad intent frame")
			continue
		}
		g.dispatch(c, coord, env)
	}
}

// dispatch routes one intent to the coordinator. Malformed payloads
// are dropped; they are client desync, not errors worth answering.
func (g *gateway) dispatch(c *client, coord *match.Coordinator, env intentEnvelope) {
	switch env.Event {
	case "create_room":
		var p struct {
			PlayerName string `json:"playerName"`
		}
		if env.Data != nil {
			_ = json.Unmarshal(env.Data, &p)
		}
		coord.CreateRoom(c.id, p.PlayerName)

	case "join_room":
		var p struct {
			RoomID     string `json:"roomId"`
			PlayerName string `json:"playerName"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		coord.JoinRoom(c.id, p.RoomID, p.PlayerName)

	case "start_game":
		coord.StartGame(c.id, decodeRoomID(env.Data))

	case "player_ready":
		var p struct {
			RoomID string `json:"roomId"`
			Board  []int  `json:"board"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		coord.PlayerReady(c.id, p.RoomID, p.Board)

	case "make_move":
		var p struct {
			RoomID string `json:"roomId"`
			Number int    `json:"number"`
			Win    bool   `json:"win"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		coord.MakeMove(c.id, p.RoomID, p.Number, p.Win)

	case "bingo_win":
		var p struct {
			RoomID string `json:"roomId"`
		}
		if err := json.Unmarshal(env.Data, &p); err != nil {
			return
		}
		coord.BingoWin(c.id, p.RoomID)

	default:
		log.Debug().Str("conn", c.id).Str("event", env.Event).Msg("unknown intent")
	}
}

// decodeRoomID accepts either a bare string or {"roomId": "..."};
// clients send start_game with a bare room code.
func decodeRoomID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var p struct {
		RoomID string `json:"roomId"`
	}
	_ = json.Unmarshal(raw, &p)
	return p.RoomID
}

// writePump drains the send queue onto the wire until the client is
// unregistered or a write fails.
func (c *client) writePump() {
	for {
		select {
		case msg := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}
