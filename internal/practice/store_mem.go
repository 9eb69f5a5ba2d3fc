package practice

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	attempts map[string][]Attempt // keyed by session id
}

func NewInMemoryStore() Store {
	return &memoryStore{
		sessions: map[string]Session{},
		attempts: map[string][]Attempt{},
	}
}

func (m *memoryStore) CreateSession(ctx context.Context, sess Session) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt == 0 {
		sess.StartedAt = time.Now().Unix()
	}
	sess.CorrectAnswers = 0
	m.sessions[sess.ID] = sess
	return sess, nil
}

func (m *memoryStore) GetSession(ctx context.Context, id string) (Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

func (m *memoryStore) IncrementCorrect(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.CorrectAnswers++
	m.sessions[sessionID] = sess
	return nil
}

func (m *memoryStore) CompleteSession(ctx context.Context, sessionID string, correctAnswers int, completedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	at := completedAt.Unix()
	sess.CorrectAnswers = correctAnswers
	sess.CompletedAt = &at
	m.sessions[sessionID] = sess
	return nil
}

func (m *memoryStore) InsertAttempt(ctx context.Context, a Attempt) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	m.attempts[a.SessionID] = append(m.attempts[a.SessionID], a)
	return nil
}

func (m *memoryStore) ListAttempts(ctx context.Context, sessionID string) ([]Attempt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	src := m.attempts[sessionID]
	out := make([]Attempt, len(src))
	copy(out, src)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (m *memoryStore) CorrectCount(ctx context.Context, sessionID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, a := range m.attempts[sessionID] {
		if a.IsCorrect {
			n++
		}
	}
	return n, nil
}
