package catalog

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidAnswer  = errors.New("correct_answer must match exactly one option id")
	ErrMissingOptions = errors.New("question needs at least two options")
)

// Store is the catalog read/write surface. Reads are what the practice flow
// needs; writes exist for content management and seeding.
type Store interface {
	ListPackages(ctx context.Context) ([]ExamPackage, error)
	GetPackage(ctx context.Context, id string) (ExamPackage, error)

	ListTopics(ctx context.Context, packageID string) ([]Topic, error)
	GetTopic(ctx context.Context, id string) (Topic, error)

	// ListQuestions returns every question belonging to any of the given
	// topics, with topic and package titles joined in.
	ListQuestions(ctx context.Context, topicIDs []string) ([]Question, error)

	// CountQuestions reports the true number of question rows per topic,
	// regardless of the denormalized Topic.QuestionCount.
	CountQuestions(ctx context.Context, topicID string) (int, error)

	PutPackage(ctx context.Context, p ExamPackage) error
	PutTopic(ctx context.Context, t Topic) error
	PutQuestion(ctx context.Context, q Question) error
}

// ValidateQuestion enforces the option invariant shared by every store
// implementation.
func ValidateQuestion(q Question) error {
	if len(q.Options) < 2 {
		return ErrMissingOptions
	}
	matches := 0
	for _, o := range q.Options {
		if o.ID == q.CorrectAnswer {
			matches++
		}
	}
	if matches != 1 {
		return ErrInvalidAnswer
	}
	return nil
}
