package core

import "github.com/pnowak/auxparty/internal/domain"

// SyncDecision is the arbiter's verdict on a playback command.
type SyncDecision int

const (
	// SyncIgnore: the room plays individually, the command is dropped
	// without error.
	SyncIgnore SyncDecision = iota
	// SyncBroadcast: relay the command to everyone except the originator.
	SyncBroadcast
	// SyncReject: the sender lacks playback authority under the current
	// settings.
	SyncReject
)

// DecideSync is the playback authority arbiter: a pure function over the
// room settings and the requester's host flag.
func DecideSync(s domain.Settings, isHost bool) SyncDecision {
	if s.PlaybackMode != domain.PlaybackSync {
		return SyncIgnore
	}
	if s.SyncControl == domain.ControlHostOnly && !isHost {
		return SyncReject
	}
	return SyncBroadcast
}
