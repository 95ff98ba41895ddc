package domain

import "time"

type ParticipantID string

// Participant is one connected identity inside a room. Exactly one record
// exists per connection, and a connection belongs to at most one room.
type Participant struct {
	ID          ParticipantID `json:"id"`
	DisplayName string        `json:"displayName"`
	IsHost      bool          `json:"isHost"`
	JoinedAt    time.Time     `json:"joinedAt"`
}

const MaxDisplayNameLen = 36

// NewParticipant applies display defaults and length limits so adapters
// never build raw literals.
func NewParticipant(id ParticipantID, displayName string) Participant {
	if displayName == "" {
		displayName = "guest"
	}
	if len(displayName) > MaxDisplayNameLen {
		displayName = displayName[:MaxDisplayNameLen]
	}
	return Participant{ID: id, DisplayName: displayName, JoinedAt: time.Now()}
}
