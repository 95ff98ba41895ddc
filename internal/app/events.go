package app

import (
	"time"

	"github.com/pnowak/auxparty/internal/core"
	"github.com/pnowak/auxparty/internal/domain"
)

// Inbound event names.
const (
	EvtCreateRoom     = "create-room"
	EvtJoinRoom       = "join-room"
	EvtUpdateSettings = "update-room-settings"
	EvtAddTracks      = "add-to-room-playlist"
	EvtRemoveTracks   = "remove-from-room-playlist"
	EvtSyncPlayback   = "sync-playback"
	EvtChatMessage    = "chat-message"
)

// Outbound event names.
const (
	EvtRoomCreated       = "room-created"
	EvtRoomJoined        = "room-joined"
	EvtJoinError         = "join-error"
	EvtParticipantJoined = "participant-joined"
	EvtParticipantLeft   = "participant-left"
	EvtRoomClosed        = "room-closed"
	EvtSettingsUpdated   = "room-settings-updated"
	EvtPlaylistUpdated   = "room-playlist-updated"
	EvtSyncCommand       = "sync-playback-command"
	EvtError             = "error"
)

// Sync playback actions.
const (
	ActionPlay        = "play"
	ActionPause       = "pause"
	ActionSeek        = "seek"
	ActionTrackChange = "track-change"
)

type CreateRoomRequest struct {
	Name            string         `json:"name"`
	Description     string         `json:"description"`
	InitialPlaylist []domain.Track `json:"initialPlaylist,omitempty"`
}

type JoinRoomRequest struct {
	RoomCode    string `json:"roomCode"`
	DisplayName string `json:"displayName"`
}

type UpdateSettingsRequest struct {
	RoomCode string               `json:"roomCode"`
	Settings domain.SettingsPatch `json:"settings"`
}

type AddTracksRequest struct {
	RoomCode string         `json:"roomCode"`
	Tracks   []domain.Track `json:"tracks"`
}

type RemoveTracksRequest struct {
	RoomCode string   `json:"roomCode"`
	TrackIDs []string `json:"trackIds"`
}

type SyncPlaybackRequest struct {
	RoomCode    string  `json:"roomCode"`
	Action      string  `json:"action"`
	SongID      string  `json:"songId"`
	CurrentTime float64 `json:"currentTime"`
	IsPlaying   bool    `json:"isPlaying"`
}

type ChatRequest struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
}

type RoomCreatedPayload struct {
	Room core.Snapshot `json:"room"`
}

type RoomJoinedPayload struct {
	Room core.Snapshot `json:"room"`
}

type ParticipantJoinedPayload struct {
	Participant domain.Participant `json:"participant"`
	Count       int                `json:"count"`
}

type ParticipantLeftPayload struct {
	ParticipantID domain.ParticipantID `json:"participantId"`
	DisplayName   string               `json:"displayName"`
	Count         int                  `json:"count"`
}

type RoomClosedPayload struct {
	RoomCode domain.RoomCode `json:"roomCode"`
	Reason   string          `json:"reason"`
}

type SettingsUpdatedPayload struct {
	Settings domain.Settings `json:"settings"`
}

type PlaylistUpdatedPayload struct {
	Playlist []domain.Track       `json:"playlist"`
	By       domain.ParticipantID `json:"by"`
}

type SyncCommandPayload struct {
	Action      string               `json:"action"`
	SongID      string               `json:"songId"`
	CurrentTime float64              `json:"currentTime"`
	IsPlaying   bool                 `json:"isPlaying"`
	From        domain.ParticipantID `json:"from"`
}

type ChatPayload struct {
	DisplayName string    `json:"displayName"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
