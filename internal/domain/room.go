// Package domain contains entities without logic, just meta-data.
package domain

import "time"

type RoomCode string

type PlaybackMode string

type SyncControl string

const (
	// PlaybackIndividual means every participant plays on their own clock;
	// the coordinator never relays playback commands.
	PlaybackIndividual PlaybackMode = "individual"
	// PlaybackSync means authorized playback commands are relayed to the room.
	PlaybackSync PlaybackMode = "sync"

	ControlHostOnly SyncControl = "host-only"
	ControlAnyone   SyncControl = "anyone"
)

const (
	DefaultRoomName        = "Listening Room"
	DefaultRoomDescription = "A shared listening session"
)

type Settings struct {
	PlaybackMode PlaybackMode `json:"playbackMode"`
	SyncControl  SyncControl  `json:"syncControl"`
}

func DefaultSettings() Settings {
	return Settings{
		PlaybackMode: PlaybackIndividual,
		SyncControl:  ControlHostOnly,
	}
}

// SettingsPatch is a partial settings update. Nil fields are left untouched
// by Merge, so a patch never has to restate the whole settings block.
type SettingsPatch struct {
	PlaybackMode *PlaybackMode `json:"playbackMode,omitempty"`
	SyncControl  *SyncControl  `json:"syncControl,omitempty"`
}

func (s Settings) Merge(p SettingsPatch) Settings {
	if p.PlaybackMode != nil {
		s.PlaybackMode = *p.PlaybackMode
	}
	if p.SyncControl != nil {
		s.SyncControl = *p.SyncControl
	}
	return s
}

// Room holds the display metadata of a session. Membership, playlist and
// settings live in core, guarded by the room lock.
type Room struct {
	Code        RoomCode  `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}
