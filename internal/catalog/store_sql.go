package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

func (s *SQLStore) ListPackages(ctx context.Context) ([]ExamPackage, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,title,description,price,features_json,created_at FROM exam_packages ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExamPackage
	for rows.Next() {
		var p ExamPackage
		var fjson string
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &fjson, &p.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(fjson), &p.Features); err != nil {
			return nil, fmt.Errorf("package %s features: %w", p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetPackage(ctx context.Context, id string) (ExamPackage, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,title,description,price,features_json,created_at FROM exam_packages WHERE id=$1`, id)
	var p ExamPackage
	var fjson string
	if err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Price, &fjson, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ExamPackage{}, ErrNotFound
		}
		return ExamPackage{}, err
	}
	if err := json.Unmarshal([]byte(fjson), &p.Features); err != nil {
		return ExamPackage{}, err
	}
	return p, nil
}

func (s *SQLStore) ListTopics(ctx context.Context, packageID string) ([]Topic, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,package_id,title,description,question_count,created_at FROM topics WHERE package_id=$1 ORDER BY created_at`,
		packageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Topic
	for rows.Next() {
		var t Topic
		if err := rows.Scan(&t.ID, &t.PackageID, &t.Title, &t.Description, &t.QuestionCount, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetTopic(ctx context.Context, id string) (Topic, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,package_id,title,description,question_count,created_at FROM topics WHERE id=$1`, id)
	var t Topic
	if err := row.Scan(&t.ID, &t.PackageID, &t.Title, &t.Description, &t.QuestionCount, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Topic{}, ErrNotFound
		}
		return Topic{}, err
	}
	return t, nil
}

func (s *SQLStore) ListQuestions(ctx context.Context, topicIDs []string) ([]Question, error) {
	if len(topicIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(topicIDs))
	args := make([]any, len(topicIDs))
	for i, id := range topicIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	q := fmt.Sprintf(`SELECT q.id,q.topic_id,q.text,q.options_json,q.correct_answer,q.rationale,t.title,p.title
		FROM questions q
		JOIN topics t ON t.id=q.topic_id
		JOIN exam_packages p ON p.id=t.package_id
		WHERE q.topic_id IN (%s)
		ORDER BY q.created_at`, strings.Join(placeholders, ","))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Question
	for rows.Next() {
		var item Question
		var ojson string
		if err := rows.Scan(&item.ID, &item.TopicID, &item.Text, &ojson, &item.CorrectAnswer, &item.Rationale,
			&item.TopicTitle, &item.PackageTitle); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(ojson), &item.Options); err != nil {
			return nil, fmt.Errorf("question %s options: %w", item.ID, err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountQuestions(ctx context.Context, topicID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions WHERE topic_id=$1`, topicID).Scan(&n)
	return n, err
}

func (s *SQLStore) PutPackage(ctx context.Context, p ExamPackage) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	fj, err := json.Marshal(p.Features)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exam_packages (id,title,description,price,features_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description,
			price=EXCLUDED.price, features_json=EXCLUDED.features_json`,
		p.ID, p.Title, p.Description, p.Price, string(fj), time.Now().Unix())
	return err
}

func (s *SQLStore) PutTopic(ctx context.Context, t Topic) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO topics (id,package_id,title,description,question_count,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description`,
		t.ID, t.PackageID, t.Title, t.Description, t.QuestionCount, time.Now().Unix())
	return err
}

func (s *SQLStore) PutQuestion(ctx context.Context, q Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	oj, err := json.Marshal(q.Options)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO questions (id,topic_id,text,options_json,correct_answer,rationale,created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET text=EXCLUDED.text, options_json=EXCLUDED.options_json,
			correct_answer=EXCLUDED.correct_answer, rationale=EXCLUDED.rationale`,
		q.ID, q.TopicID, q.Text, string(oj), q.CorrectAnswer, q.Rationale, time.Now().Unix())
	if err != nil {
		return err
	}
	// Refresh the denormalized counter on the owning topic.
	_, err = s.db.ExecContext(ctx,
		`UPDATE topics SET question_count=(SELECT COUNT(*) FROM questions WHERE topic_id=$1) WHERE id=$1`,
		q.TopicID)
	return err
}
