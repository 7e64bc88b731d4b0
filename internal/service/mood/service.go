package mood

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/mood"
)

var ErrInvalidMood = errors.New("unknown mood value")

// Service keeps the mood journal, newest entry first. Both the tracker view
// and the report sampling rely on that ordering.
type Service struct {
	mu      sync.RWMutex
	entries []mood.Entry
}

// NewService bootstraps an empty in-memory journal.
func NewService() *Service {
	return &Service{entries: make([]mood.Entry, 0, 16)}
}

// Insert prepends a new entry to the journal.
func (s *Service) Insert(_ context.Context, entry mood.Entry) (mood.Entry, error) {
	if !entry.Mood.Valid() {
		return mood.Entry{}, ErrInvalidMood
	}

	entry.ID = uuid.NewString()
	if entry.Date.IsZero() {
		entry.Date = time.Now().UTC()
	}

	s.mu.Lock()
	s.entries = append([]mood.Entry{entry}, s.entries...)
	s.mu.Unlock()

	return entry, nil
}

// Delete removes the entry with the matching id. Deleting an unknown id is a
// no-op, not an error.
func (s *Service) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, entry := range s.entries {
		if entry.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// Reset drops every entry. Called when the live session changes hands so
// the next student starts with an empty journal.
func (s *Service) Reset(_ context.Context) {
	s.mu.Lock()
	s.entries = s.entries[:0]
	s.mu.Unlock()
}

// List returns a copy of the journal, newest first.
func (s *Service) List(_ context.Context) []mood.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	copied := make([]mood.Entry, len(s.entries))
	copy(copied, s.entries)
	return copied
}
