package practice

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

// Store persists sessions and attempts. The correct-answer counter is
// maintained two ways on purpose: IncrementCorrect applies an atomic
// server-side bump per correct answer, and CompleteSession overwrites the
// counter with the authoritative local total when the run finishes.
// CorrectCount derives the value from the attempt rows for verification.
type Store interface {
	CreateSession(ctx context.Context, s Session) (Session, error)
	GetSession(ctx context.Context, id string) (Session, error)
	IncrementCorrect(ctx context.Context, sessionID string) error
	CompleteSession(ctx context.Context, sessionID string, correctAnswers int, completedAt time.Time) error

	InsertAttempt(ctx context.Context, a Attempt) error
	ListAttempts(ctx context.Context, sessionID string) ([]Attempt, error)
	CorrectCount(ctx context.Context, sessionID string) (int, error)
}
