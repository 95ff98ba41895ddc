package domain

import "errors"

var (
	// ErrRoomNotFound means the operation referenced a room that does not
	// exist or was destroyed since lookup.
	ErrRoomNotFound = errors.New("room not found")
	// ErrUnauthorized means the authority check failed: a non-host settings
	// change, or a non-host sync command under host-only control.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotAMember means the operation requires a membership the sender
	// does not hold.
	ErrNotAMember = errors.New("not a member of this room")
	// ErrTrackNotFound means the referenced track id is not in the playlist.
	ErrTrackNotFound = errors.New("track not found")
)
