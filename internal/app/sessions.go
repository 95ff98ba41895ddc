// Package app wires the room core to connected participants: it owns the
// session bindings and routes inbound events to room operations and outbound
// events to the right audience.
package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/domain"
)

// EventSink is where the router pushes outbound events. The websocket
// adapter owns the underlying connection and must close it; the router only
// ever emits.
type EventSink interface {
	Emit(event string, payload any)
}

type sessionEntry struct {
	Room domain.RoomCode // empty while unbound
	Name string
	Sink EventSink
}

// SessionRegistry holds one entry per live connection. A session starts
// unbound, becomes bound on a successful create or join, and is never
// rebound to a different room while the connection lives; moving rooms is
// modeled as disconnect+reconnect.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[domain.ParticipantID]*sessionEntry
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[domain.ParticipantID]*sessionEntry)}
}

func (r *SessionRegistry) Register(id domain.ParticipantID, name string, sink EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[id] = &sessionEntry{Name: name, Sink: sink}
	log.Info().Str("module", "app.sessions").Str("sid", string(id)).Msg("session registered")
}

// Bind attaches the session to a room. It refuses when the session is
// unknown or already bound.
func (r *SessionRegistry) Bind(id domain.ParticipantID, code domain.RoomCode) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok || e.Room != "" {
		return false
	}
	e.Room = code
	log.Info().Str("module", "app.sessions").Str("sid", string(id)).Str("room", string(code)).Msg("session bound")
	return true
}

func (r *SessionRegistry) RoomOf(id domain.ParticipantID) (domain.RoomCode, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok || e.Room == "" {
		return "", false
	}
	return e.Room, true
}

func (r *SessionRegistry) NameOf(id domain.ParticipantID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	return e.Name, true
}

func (r *SessionRegistry) SetName(id domain.ParticipantID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.sessions[id]; ok && name != "" {
		e.Name = name
	}
}

func (r *SessionRegistry) SinkOf(id domain.ParticipantID) (EventSink, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	return e.Sink, true
}

// Drop removes the session record entirely and reports the room it was
// bound to, if any. Safe to call any number of times per connection.
func (r *SessionRegistry) Drop(id domain.ParticipantID) (domain.RoomCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return "", false
	}
	delete(r.sessions, id)
	log.Info().Str("module", "app.sessions").Str("sid", string(id)).Msg("session dropped")
	return e.Room, e.Room != ""
}

type audienceEntry struct {
	ID   domain.ParticipantID
	Sink EventSink
}

// membersOf resolves the fan-out audience for a room from the authoritative
// bindings, never from client-supplied codes.
func (r *SessionRegistry) membersOf(code domain.RoomCode) []audienceEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]audienceEntry, 0, len(r.sessions))
	for id, e := range r.sessions {
		if e.Room == code {
			out = append(out, audienceEntry{ID: id, Sink: e.Sink})
		}
	}
	return out
}
