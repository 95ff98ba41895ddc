// Package core owns the live room state and its mutation rules. Rooms hold
// no transport references; fan-out is the router's job.
package core

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pnowak/auxparty/internal/domain"
)

// Room is one shared session. Every mutating operation serializes on mu, so
// two concurrent operations against the same room never interleave their
// read-modify-write of participants/playlist/settings. Operations against
// different rooms share nothing and run fully in parallel.
type Room struct {
	mu     sync.Mutex
	closed bool

	meta     domain.Room
	settings domain.Settings
	playlist []domain.Track
	members  map[domain.ParticipantID]*domain.Participant
	hostID   domain.ParticipantID

	// emptySince is zero while the room has members; the registry's idle
	// sweep hook uses it.
	emptySince time.Time
}

func newRoom(meta domain.Room, host domain.Participant, initial []domain.Track) *Room {
	host.IsHost = true
	r := &Room{
		meta:     meta,
		settings: domain.DefaultSettings(),
		members:  map[domain.ParticipantID]*domain.Participant{host.ID: &host},
		hostID:   host.ID,
	}
	for _, t := range initial {
		r.appendTrack(t)
	}
	return r
}

func (r *Room) Code() domain.RoomCode { return r.meta.Code }

// Snapshot is the full room state handed to a joiner and to the REST info
// endpoint. It carries copies only.
type Snapshot struct {
	Code         domain.RoomCode      `json:"code"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Settings     domain.Settings      `json:"settings"`
	Playlist     []domain.Track       `json:"playlist"`
	Participants []domain.Participant `json:"participants"`
	HostID       domain.ParticipantID `json:"hostId"`
	CreatedAt    time.Time            `json:"createdAt"`
}

func (r *Room) Snapshot() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Snapshot{}, domain.ErrRoomNotFound
	}
	return r.snapshotLocked(), nil
}

func (r *Room) snapshotLocked() Snapshot {
	participants := make([]domain.Participant, 0, len(r.members))
	for _, p := range r.members {
		participants = append(participants, *p)
	}
	return Snapshot{
		Code:         r.meta.Code,
		Name:         r.meta.Name,
		Description:  r.meta.Description,
		Settings:     r.settings,
		Playlist:     append([]domain.Track(nil), r.playlist...),
		Participants: participants,
		HostID:       r.hostID,
		CreatedAt:    r.meta.CreatedAt,
	}
}

// Join admits a participant. It fails with ErrRoomNotFound when the room was
// destroyed between lookup and join; the closed flag is checked under the
// same lock that Destroy takes, so there is no partially-joined state.
func (r *Room) Join(p domain.Participant) (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return Snapshot{}, domain.ErrRoomNotFound
	}
	p.IsHost = false
	r.members[p.ID] = &p
	r.emptySince = time.Time{}
	log.Info().Str("module", "core.room").Str("room", string(r.meta.Code)).Str("participant", string(p.ID)).Msg("participant joined")
	return r.snapshotLocked(), nil
}

// LeaveResult tells the router what to fan out after a departure.
type LeaveResult struct {
	DisplayName string
	WasHost     bool
	// Destroyed is set when the departing participant was the host; the
	// room tears down, there is no host migration.
	Destroyed bool
	Remaining int
}

// Leave removes a participant. The bool reports whether the participant was
// a member at all, so disconnect cleanup stays idempotent.
func (r *Room) Leave(id domain.ParticipantID) (LeaveResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return LeaveResult{}, false
	}
	p, ok := r.members[id]
	if !ok {
		return LeaveResult{}, false
	}
	delete(r.members, id)
	res := LeaveResult{
		DisplayName: p.DisplayName,
		WasHost:     id == r.hostID,
		Remaining:   len(r.members),
	}
	if res.WasHost {
		r.closed = true
		res.Destroyed = true
	} else if len(r.members) == 0 {
		r.emptySince = time.Now()
	}
	log.Info().Str("module", "core.room").Str("room", string(r.meta.Code)).Str("participant", string(id)).Bool("host", res.WasHost).Msg("participant left")
	return res, true
}

// UpdateSettings shallow-merges the patch; host only.
func (r *Room) UpdateSettings(requester domain.ParticipantID, patch domain.SettingsPatch) (domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.Settings{}, domain.ErrRoomNotFound
	}
	if requester != r.hostID {
		return domain.Settings{}, domain.ErrUnauthorized
	}
	r.settings = r.settings.Merge(patch)
	return r.settings, nil
}

// AddTracks appends tracks whose id is not already present, first-seen wins.
// Resubmitting the same list after a partial success adds nothing new. Any
// member may curate the playlist; this is not a host privilege.
func (r *Room) AddTracks(requester domain.ParticipantID, tracks []domain.Track) ([]domain.Track, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, domain.ErrRoomNotFound
	}
	if _, ok := r.members[requester]; !ok {
		return nil, domain.ErrNotAMember
	}
	for _, t := range tracks {
		r.appendTrack(t.Normalized())
	}
	return append([]domain.Track(nil), r.playlist...), nil
}

func (r *Room) appendTrack(t domain.Track) {
	if t.ID == "" {
		return
	}
	for _, have := range r.playlist {
		if have.ID == t.ID {
			return
		}
	}
	r.playlist = append(r.playlist, t)
}

// RemoveTracks drops every track whose id is in ids; absent ids are ignored
// and the relative order of survivors is preserved.
func (r *Room) RemoveTracks(requester domain.ParticipantID, ids []string) ([]domain.Track, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, domain.ErrRoomNotFound
	}
	if _, ok := r.members[requester]; !ok {
		return nil, domain.ErrNotAMember
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := r.playlist[:0]
	for _, t := range r.playlist {
		if _, gone := drop[t.ID]; !gone {
			kept = append(kept, t)
		}
	}
	r.playlist = kept
	return append([]domain.Track(nil), r.playlist...), nil
}

// SetLocator attaches an opaque audio locator to a track. Used by the
// library adapter after an upload; the coordinator never interprets it.
func (r *Room) SetLocator(trackID, locator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrRoomNotFound
	}
	for i := range r.playlist {
		if r.playlist[i].ID == trackID {
			r.playlist[i].Locator = locator
			return nil
		}
	}
	return domain.ErrTrackNotFound
}

// TrackByID resolves a playlist entry for the stream endpoint.
func (r *Room) TrackByID(trackID string) (domain.Track, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.Track{}, domain.ErrRoomNotFound
	}
	for _, t := range r.playlist {
		if t.ID == trackID {
			return t, nil
		}
	}
	return domain.Track{}, domain.ErrTrackNotFound
}

// Member reports the participant record for id, if present.
func (r *Room) Member(id domain.ParticipantID) (domain.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.Participant{}, false
	}
	p, ok := r.members[id]
	if !ok {
		return domain.Participant{}, false
	}
	return *p, true
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// AuthorizeSync consults the playback arbiter under the room lock so the
// decision sees a consistent settings/membership pair.
func (r *Room) AuthorizeSync(requester domain.ParticipantID) (SyncDecision, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return SyncIgnore, domain.ErrRoomNotFound
	}
	p, ok := r.members[requester]
	if !ok {
		return SyncIgnore, domain.ErrNotAMember
	}
	d := DecideSync(r.settings, p.IsHost)
	if d == SyncReject {
		return d, domain.ErrUnauthorized
	}
	return d, nil
}

// close marks the room dead under its own lock. Joins racing with Destroy
// observe the flag and fail with ErrRoomNotFound.
func (r *Room) close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

// idleSince reports how long the room has stood empty; false while occupied.
func (r *Room) idleSince(now time.Time) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || len(r.members) > 0 || r.emptySince.IsZero() {
		return 0, false
	}
	return now.Sub(r.emptySince), true
}
