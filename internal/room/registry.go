// internal/room/registry.go
//
// In-memory registry of live rooms, keyed by room code.
// This is the only shared mutable store in the process; the match
// coordinator serializes all game mutation on top of it, and the
// RWMutex here keeps the map itself safe for direct use in tests and
// diagnostics.
//
// Characteristics:
//   - Rooms are held in a map keyed by 6-char code.
//   - Codes are uppercase base-36, unique among live rooms.
//   - State is lost when the process restarts.

package room

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
)

// Errors surfaced to joining clients.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room is full")
	ErrCodeTaken    = errors.New("room code already in use")
)

const (
	// CodeLength is the room code length.
	CodeLength = 6
	// codeAlphabet is the base-36 symbol set for room codes.
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Registry owns the live rooms. Construct one per process (or per
// test) with NewRegistry; there is no ambient global.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Create opens a room under a freshly generated unique code, seating
// the creator as the first player.
func (g *Registry) Create(hostID, hostName string) *Room {
	g.mu.Lock()
	defer g.mu.Unlock()
	code := newCode()
	for {
		if _, taken := g.rooms[code]; !taken {
			break
		}
		code = newCode()
	}
	r := newRoom(code, hostID, hostName)
	g.rooms[code] = r
	return r
}

// CreateWithCode opens a room under a caller-requested code (the
// join-before-create flow). Fails with ErrCodeTaken when the code is
// already live.
func (g *Registry) CreateWithCode(code, hostID, hostName string) (*Room, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, taken := g.rooms[code]; taken {
		return nil, ErrCodeTaken
	}
	r := newRoom(code, hostID, hostName)
	g.rooms[code] = r
	return r, nil
}

// Get looks up a live room by code.
func (g *Registry) Get(code string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[code]
	return r, ok
}

// Add seats a connection in the room. A connection already seated
// re-joins in place: its display name is updated and no second seat is
// taken (rejoined is true). Fails with ErrRoomNotFound for unknown
// codes and ErrRoomFull when both seats are held by other connections.
func (g *Registry) Add(code, id, name string) (r *Room, rejoined bool, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[code]
	if !ok {
		return nil, false, ErrRoomNotFound
	}
	if p := r.Player(id); p != nil {
		if name != "" {
			p.Name = name
		}
		return r, true, nil
	}
	if len(r.Players) >= MaxPlayers {
		return nil, false, ErrRoomFull
	}
	r.Players = append(r.Players, &Player{ID: id, Name: name})
	return r, false, nil
}

// Remove unseats the connection from whatever room holds it. When the
// room empties it is deleted from the registry. Returns the room (nil
// once deleted), the removed player, and whether the room was deleted;
// found is false when no room held the connection.
func (g *Registry) Remove(id string) (r *Room, removed *Player, deleted, found bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for code, room := range g.rooms {
		for i, p := range room.Players {
			if p.ID != id {
				continue
			}
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			delete(room.Ready, id)
			delete(room.Boards, id)
			if len(room.Players) == 0 {
				delete(g.rooms, code)
				return nil, p, true, true
			}
			return room, p, false, true
		}
	}
	return nil, nil, false, false
}

// FindByPlayer returns the room seating the connection, if any. A
// connection is in at most one room.
func (g *Registry) FindByPlayer(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, r := range g.rooms {
		if r.Seated(id) {
			return r, true
		}
	}
	return nil, false
}

// Len returns the live room count.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// ValidCode reports whether s has the room code shape: exactly six
// uppercase base-36 characters.
func ValidCode(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for _, c := range s {
		if !strings.ContainsRune(codeAlphabet, c) {
			return false
		}
	}
	return true
}

// NormalizeCode upper-cases and trims a client-supplied code.
func NormalizeCode(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// newCode draws a 6-char code from crypto/rand entropy.
func newCode() string {
	var b [CodeLength]byte
	_, _ = rand.Read(b[:])
	out := make([]byte, CodeLength)
	for i, v := range b {
		out[i] = codeAlphabet[int(v)%len(codeAlphabet)]
	}
	return string(out)
}
