package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/aliskhannn/xueling-bot/internal/domain/entities"
)

// today formats the UTC calendar date of now.
func today(now time.Time) string {
	return now.UTC().Format(time.DateOnly)
}

// newID returns a client-side, time-ordered identifier.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func requireSession(sessions SessionReader) (*entities.Session, error) {
	s := sessions.Current()
	if s == nil {
		return nil, ErrNotAuthenticated
	}
	return s, nil
}

func requireAdmin(sessions SessionReader) (*entities.Session, error) {
	s, err := requireSession(sessions)
	if err != nil {
		return nil, err
	}
	if !s.IsAdmin() {
		return nil, ErrForbidden
	}
	return s, nil
}
