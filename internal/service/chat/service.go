package chat

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mxw1477641857-create/HeartSpace/internal/model/chat"
	"github.com/mxw1477641857-create/HeartSpace/internal/service/ai"
)

var (
	ErrNameRequired    = errors.New("student name is required")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyText       = errors.New("turn text is required")
)

// Service owns the live session and its append-only turn log. The app serves
// exactly one student at a time, so creating a session disposes the previous
// one wholesale.
type Service struct {
	mu      sync.RWMutex
	session *chat.Session
	turns   []chat.Turn
}

// NewService bootstraps the in-memory conversation state.
func NewService() *Service {
	return &Service{}
}

// CreateSession provisions the live session for the student identified on the
// welcome screen and seeds the log with the assistant greeting, so the
// transcript is never empty.
func (s *Service) CreateSession(_ context.Context, studentName, studentID, avatar string) (chat.Session, error) {
	if studentName == "" {
		return chat.Session{}, ErrNameRequired
	}

	session := chat.Session{
		ID:          uuid.NewString(),
		StudentName: studentName,
		StudentID:   studentID,
		Avatar:      avatar,
		CreatedAt:   time.Now().UTC(),
	}

	greeting := chat.Turn{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Role:      chat.RoleAssistant,
		Text:      ai.Greeting,
		CreatedAt: session.CreatedAt,
	}

	s.mu.Lock()
	s.session = &session
	s.turns = append(make([]chat.Turn, 0, 16), greeting)
	s.mu.Unlock()

	return session, nil
}

// DisposeSession drops the live session and its transcript.
func (s *Service) DisposeSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.ID != sessionID {
		return ErrSessionNotFound
	}

	s.session = nil
	s.turns = nil
	return nil
}

// GetSession retrieves the live session when the identifier matches.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil || s.session.ID != sessionID {
		return chat.Session{}, ErrSessionNotFound
	}
	return *s.session, nil
}

// LiveSession returns the current session, if any.
func (s *Service) LiveSession(_ context.Context) (chat.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return chat.Session{}, false
	}
	return *s.session, true
}

// AppendTurn appends one turn to the log. Turns are immutable once stored;
// there is no dedup and no validation beyond a non-empty text.
func (s *Service) AppendTurn(_ context.Context, turn chat.Turn) (chat.Turn, error) {
	if turn.Text == "" {
		return chat.Turn{}, ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session == nil || s.session.ID != turn.SessionID {
		return chat.Turn{}, ErrSessionNotFound
	}

	turn.ID = uuid.NewString()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.turns = append(s.turns, turn)
	return turn, nil
}

// Transcript returns a copy of the stored turns in chronological order.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil || s.session.ID != sessionID {
		return nil, ErrSessionNotFound
	}

	copied := make([]chat.Turn, len(s.turns))
	copy(copied, s.turns)
	return copied, nil
}
