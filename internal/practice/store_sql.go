package practice

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) CreateSession(ctx context.Context, sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.StartedAt == 0 {
		sess.StartedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO practice_sessions (id,topic_id,user_id,total_questions,correct_answers,started_at)
		 VALUES ($1,$2,$3,$4,0,$5)`,
		sess.ID, sess.TopicID, sess.UserID, sess.TotalQuestions, sess.StartedAt)
	if err != nil {
		return Session{}, err
	}
	sess.CorrectAnswers = 0
	return sess, nil
}

func (s *SQLStore) GetSession(ctx context.Context, id string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,topic_id,user_id,total_questions,correct_answers,started_at,completed_at
		 FROM practice_sessions WHERE id=$1`, id)
	var sess Session
	var completed sql.NullInt64
	if err := row.Scan(&sess.ID, &sess.TopicID, &sess.UserID, &sess.TotalQuestions,
		&sess.CorrectAnswers, &sess.StartedAt, &completed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if completed.Valid {
		sess.CompletedAt = &completed.Int64
	}
	return sess, nil
}

// IncrementCorrect bumps the running counter in a single statement so
// concurrent tabs cannot lose updates.
func (s *SQLStore) IncrementCorrect(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE practice_sessions SET correct_answers=correct_answers+1 WHERE id=$1`, sessionID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) CompleteSession(ctx context.Context, sessionID string, correctAnswers int, completedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE practice_sessions SET correct_answers=$1, completed_at=$2 WHERE id=$3`,
		correctAnswers, completedAt.Unix(), sessionID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) InsertAttempt(ctx context.Context, a Attempt) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt == 0 {
		a.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO question_attempts (id,session_id,question_id,selected_answer,is_correct,time_spent,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.SessionID, a.QuestionID, a.SelectedAnswer, a.IsCorrect, a.TimeSpent, a.CreatedAt)
	return err
}

func (s *SQLStore) ListAttempts(ctx context.Context, sessionID string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,session_id,question_id,selected_answer,is_correct,time_spent,created_at
		 FROM question_attempts WHERE session_id=$1 ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.ID, &a.SessionID, &a.QuestionID, &a.SelectedAnswer,
			&a.IsCorrect, &a.TimeSpent, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLStore) CorrectCount(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM question_attempts WHERE session_id=$1 AND is_correct=$2`,
		sessionID, true).Scan(&n)
	return n, err
}
