package mood

import "time"

// Mood is one of the five journal moods selectable in the tracker.
type Mood string

const (
	Happy   Mood = "happy"
	Neutral Mood = "neutral"
	Sad     Mood = "sad"
	Anxious Mood = "anxious"
	Angry   Mood = "angry"
)

// Valid reports whether m is a known mood value.
func (m Mood) Valid() bool {
	switch m {
	case Happy, Neutral, Sad, Anxious, Angry:
		return true
	default:
		return false
	}
}

// Entry is one dated mood journal record. Deletable by id, never edited.
type Entry struct {
	ID   string    `json:"id"`
	Date time.Time `json:"date"`
	Mood Mood      `json:"mood"`
	Note string    `json:"note"`
}
