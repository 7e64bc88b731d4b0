package report

import (
	"sync"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/report"
)

// Store holds at most one current report. Setting a new assessment replaces
// the previous one wholesale; old and new are never merged.
type Store struct {
	mu     sync.RWMutex
	latest *report.Assessment
}

// NewStore returns an empty report holder.
func NewStore() *Store {
	return &Store{}
}

// Set replaces the current report.
func (s *Store) Set(a *report.Assessment) {
	s.mu.Lock()
	s.latest = a
	s.mu.Unlock()
}

// Latest returns the current report, or nil when none was generated yet.
func (s *Store) Latest() *report.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Clear drops the current report, used when the live session is disposed or
// replaced by a new student's.
func (s *Store) Clear() {
	s.Set(nil)
}
