package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/core"
	"github.com/pnowak/auxparty/internal/domain"
)

// Router is the event router: it validates inbound events against room and
// session state, invokes room operations, and fans the resulting events out
// to the computed audience. It is the only component that touches sinks;
// rooms and the registry never see a connection.
//
// Methods return the error for the transport adapter to report to the
// sender; success events are emitted here.
type Router struct {
	Rooms    *core.Registry
	Sessions *SessionRegistry
}

func NewRouter(rooms *core.Registry, sessions *SessionRegistry) *Router {
	return &Router{Rooms: rooms, Sessions: sessions}
}

// Connect registers a fresh, unbound session for a connection.
func (rt *Router) Connect(id domain.ParticipantID, displayName string, sink EventSink) {
	rt.Sessions.Register(id, displayName, sink)
}

// CreateRoom allocates a room with the sender as host and binds the session
// to it. Lookup and bind happen on the freshly created room, so the creator
// can never land in a destroyed one.
func (rt *Router) CreateRoom(id domain.ParticipantID, req CreateRoomRequest) (core.Snapshot, error) {
	if _, bound := rt.Sessions.RoomOf(id); bound {
		return core.Snapshot{}, fmt.Errorf("%w: already in a room", domain.ErrUnauthorized)
	}
	name, _ := rt.Sessions.NameOf(id)
	host := domain.NewParticipant(id, name)
	room := rt.Rooms.Create(req.Name, req.Description, host, req.InitialPlaylist)
	rt.Sessions.Bind(id, room.Code())
	snap, err := room.Snapshot()
	if err != nil {
		return core.Snapshot{}, err
	}
	rt.emitTo(id, EvtRoomCreated, RoomCreatedPayload{Room: snap})
	return snap, nil
}

// JoinRoom admits the sender into an existing room. Room lookup and join
// form one logical operation: a room destroyed in the same instant yields
// ErrRoomNotFound, never a partially-joined state.
func (rt *Router) JoinRoom(id domain.ParticipantID, req JoinRoomRequest) (core.Snapshot, error) {
	if _, bound := rt.Sessions.RoomOf(id); bound {
		return core.Snapshot{}, fmt.Errorf("%w: already in a room", domain.ErrUnauthorized)
	}
	room, ok := rt.Rooms.Get(domain.RoomCode(req.RoomCode))
	if !ok {
		return core.Snapshot{}, domain.ErrRoomNotFound
	}
	rt.Sessions.SetName(id, req.DisplayName)
	name, _ := rt.Sessions.NameOf(id)
	p := domain.NewParticipant(id, name)
	snap, err := room.Join(p)
	if err != nil {
		return core.Snapshot{}, err
	}
	rt.Sessions.Bind(id, room.Code())
	rt.emitTo(id, EvtRoomJoined, RoomJoinedPayload{Room: snap})
	rt.broadcast(room.Code(), EvtParticipantJoined, ParticipantJoinedPayload{
		Participant: p,
		Count:       len(snap.Participants),
	}, id)
	return snap, nil
}

// resolveRoom maps an inbound event to the sender's room. The authoritative
// session binding wins; a client-resupplied code that disagrees with the
// binding is rejected rather than trusted.
func (rt *Router) resolveRoom(id domain.ParticipantID, claimed string) (*core.Room, error) {
	code, bound := rt.Sessions.RoomOf(id)
	if !bound {
		return nil, domain.ErrNotAMember
	}
	if claimed != "" && domain.RoomCode(claimed) != code {
		return nil, domain.ErrNotAMember
	}
	room, ok := rt.Rooms.Get(code)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (rt *Router) UpdateSettings(id domain.ParticipantID, req UpdateSettingsRequest) error {
	room, err := rt.resolveRoom(id, req.RoomCode)
	if err != nil {
		return err
	}
	settings, err := room.UpdateSettings(id, req.Settings)
	if err != nil {
		return err
	}
	rt.broadcast(room.Code(), EvtSettingsUpdated, SettingsUpdatedPayload{Settings: settings})
	return nil
}

// AddTracks appends tracks to the room playlist and broadcasts the updated
// playlist. Also used by the upload adapter, which needs the playlist back.
func (rt *Router) AddTracks(id domain.ParticipantID, roomCode string, tracks []domain.Track) ([]domain.Track, error) {
	room, err := rt.resolveRoom(id, roomCode)
	if err != nil {
		return nil, err
	}
	playlist, err := room.AddTracks(id, tracks)
	if err != nil {
		return nil, err
	}
	rt.broadcast(room.Code(), EvtPlaylistUpdated, PlaylistUpdatedPayload{Playlist: playlist, By: id})
	return playlist, nil
}

func (rt *Router) RemoveTracks(id domain.ParticipantID, req RemoveTracksRequest) error {
	room, err := rt.resolveRoom(id, req.RoomCode)
	if err != nil {
		return err
	}
	playlist, err := room.RemoveTracks(id, req.TrackIDs)
	if err != nil {
		return err
	}
	rt.broadcast(room.Code(), EvtPlaylistUpdated, PlaylistUpdatedPayload{Playlist: playlist, By: id})
	return nil
}

// SyncPlayback relays a playback command per the arbiter's decision. The
// originator is always excluded from the audience; its own player already
// did what it asked for.
func (rt *Router) SyncPlayback(id domain.ParticipantID, req SyncPlaybackRequest) error {
	switch req.Action {
	case ActionPlay, ActionPause, ActionSeek, ActionTrackChange:
	default:
		return fmt.Errorf("unknown playback action %q", req.Action)
	}
	room, err := rt.resolveRoom(id, req.RoomCode)
	if err != nil {
		return err
	}
	decision, err := room.AuthorizeSync(id)
	if err != nil {
		return err
	}
	if decision != core.SyncBroadcast {
		return nil
	}
	rt.broadcast(room.Code(), EvtSyncCommand, SyncCommandPayload{
		Action:      req.Action,
		SongID:      req.SongID,
		CurrentTime: req.CurrentTime,
		IsPlaying:   req.IsPlaying,
		From:        id,
	}, id)
	return nil
}

// Chat broadcasts to the whole room including the sender.
func (rt *Router) Chat(id domain.ParticipantID, req ChatRequest) error {
	room, err := rt.resolveRoom(id, req.RoomCode)
	if err != nil {
		return err
	}
	p, ok := room.Member(id)
	if !ok {
		return domain.ErrNotAMember
	}
	rt.broadcast(room.Code(), EvtChatMessage, ChatPayload{
		DisplayName: p.DisplayName,
		Message:     req.Message,
		Timestamp:   time.Now(),
	})
	return nil
}

// Disconnect is the distinguished teardown event the transport delivers once
// per connection. It is safe to call any number of times and for sessions
// that never joined a room. A departing host tears the whole room down; the
// remaining members get room-closed, not an error.
func (rt *Router) Disconnect(id domain.ParticipantID) {
	code, wasBound := rt.Sessions.Drop(id)
	if !wasBound {
		return
	}
	room, ok := rt.Rooms.Get(code)
	if !ok {
		return
	}
	res, ok := room.Leave(id)
	if !ok {
		return
	}
	if res.Destroyed {
		rt.Rooms.Destroy(code)
		rt.broadcast(code, EvtRoomClosed, RoomClosedPayload{RoomCode: code, Reason: "host left"})
		log.Info().Str("module", "app.router").Str("room", string(code)).Msg("room closed, host departed")
		return
	}
	rt.broadcast(code, EvtParticipantLeft, ParticipantLeftPayload{
		ParticipantID: id,
		DisplayName:   res.DisplayName,
		Count:         res.Remaining,
	})
}

// RoomInfo serves the public REST snapshot.
func (rt *Router) RoomInfo(code domain.RoomCode) (core.Snapshot, error) {
	room, ok := rt.Rooms.Get(code)
	if !ok {
		return core.Snapshot{}, domain.ErrRoomNotFound
	}
	return room.Snapshot()
}

func (rt *Router) emitTo(id domain.ParticipantID, event string, payload any) {
	if sink, ok := rt.Sessions.SinkOf(id); ok {
		sink.Emit(event, payload)
	}
}

func (rt *Router) broadcast(code domain.RoomCode, event string, payload any, exclude ...domain.ParticipantID) {
	skip := make(map[domain.ParticipantID]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}
	sent := 0
	for _, m := range rt.Sessions.membersOf(code) {
		if _, excluded := skip[m.ID]; excluded {
			continue
		}
		m.Sink.Emit(event, payload)
		sent++
	}
	log.Debug().Str("module", "app.router").Str("room", string(code)).Str("event", event).Int("sent_to", sent).Msg("broadcast")
}
