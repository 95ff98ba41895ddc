package domain

// Track is one entry of a room playlist. Identity is the ID field; every
// other field is display metadata and may be defaulted. Locator is an opaque
// reference into the audio library, never interpreted by the coordinator.
type Track struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Duration float64 `json:"duration"`
	Locator  string  `json:"locator,omitempty"`
}

// Normalized returns a copy with display defaults applied.
func (t Track) Normalized() Track {
	if t.Title == "" {
		t.Title = "Untitled"
	}
	if t.Artist == "" {
		t.Artist = "Unknown Artist"
	}
	if t.Duration < 0 {
		t.Duration = 0
	}
	return t
}
