package core

import (
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/domain"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// Registry is the single source of truth for room existence. It is the only
// structure shared across rooms; the code check-and-reserve happens under
// one lock, so concurrent Create calls never race a code.
type Registry struct {
	mu    sync.Mutex
	rooms map[domain.RoomCode]*Room
}

func NewRegistry() *Registry {
	return &Registry{rooms: make(map[domain.RoomCode]*Room)}
}

// Create allocates a fresh unique code, builds the room with default
// settings and the creator as host, and registers it. The code stays
// reserved for the room's whole lifetime.
func (g *Registry) Create(name, description string, host domain.Participant, initial []domain.Track) *Room {
	if name == "" {
		name = domain.DefaultRoomName
	}
	if description == "" {
		description = domain.DefaultRoomDescription
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	code := g.allocCodeLocked()
	room := newRoom(domain.Room{
		Code:        code,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now(),
	}, host, initial)
	g.rooms[code] = room
	log.Info().Str("module", "core.registry").Str("room", string(code)).Str("host", string(host.ID)).Msg("room created")
	return room
}

// allocCodeLocked rejection-samples against the live-code set. With a 36^6
// keyspace a collision is vanishingly rare, so this is O(1) expected.
func (g *Registry) allocCodeLocked() domain.RoomCode {
	for {
		code := make([]byte, codeLength)
		for i := range code {
			n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
			code[i] = codeAlphabet[n.Int64()]
		}
		if _, taken := g.rooms[domain.RoomCode(code)]; !taken {
			return domain.RoomCode(code)
		}
	}
}

func (g *Registry) Get(code domain.RoomCode) (*Room, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	room, ok := g.rooms[code]
	return room, ok
}

// Destroy removes the room and frees its code for reuse. Destroying an
// already-absent code is a no-op. The room is closed under its own lock
// first, so in-flight joins fail instead of landing in an orphaned room.
func (g *Registry) Destroy(code domain.RoomCode) {
	g.mu.Lock()
	room, ok := g.rooms[code]
	if ok {
		delete(g.rooms, code)
	}
	g.mu.Unlock()
	if !ok {
		return
	}
	room.close()
	log.Info().Str("module", "core.registry").Str("room", string(code)).Msg("room destroyed")
}

// DestroyIdle is the operational TTL hook: it reaps rooms that have stood
// empty past threshold. The registry never schedules this itself.
func (g *Registry) DestroyIdle(threshold time.Duration) []domain.RoomCode {
	now := time.Now()
	g.mu.Lock()
	var reap []domain.RoomCode
	for code, room := range g.rooms {
		if idle, empty := room.idleSince(now); empty && idle >= threshold {
			reap = append(reap, code)
		}
	}
	g.mu.Unlock()
	for _, code := range reap {
		g.Destroy(code)
	}
	return reap
}

func (g *Registry) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.rooms)
}
