package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutQuestionValidatesCorrectAnswer(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.PutTopic(ctx, Topic{ID: "t1", PackageID: "p1", Title: "Tópico"}))

	opts := []Option{{ID: "A", Text: "um"}, {ID: "B", Text: "dois"}}

	err := store.PutQuestion(ctx, Question{TopicID: "t1", Text: "?", Options: opts, CorrectAnswer: "Z"})
	assert.ErrorIs(t, err, ErrInvalidAnswer)

	err = store.PutQuestion(ctx, Question{TopicID: "t1", Text: "?", Options: opts[:1], CorrectAnswer: "A"})
	assert.ErrorIs(t, err, ErrMissingOptions)

	err = store.PutQuestion(ctx, Question{TopicID: "t1", Text: "?", Options: opts, CorrectAnswer: "A"})
	assert.NoError(t, err)
}

func TestQuestionCountTracksTrueCount(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.PutTopic(ctx, Topic{ID: "t1", PackageID: "p1", Title: "Tópico"}))

	opts := []Option{{ID: "A", Text: "um"}, {ID: "B", Text: "dois"}}
	for i := 0; i < 3; i++ {
		require.NoError(t, store.PutQuestion(ctx, Question{
			TopicID: "t1", Text: "?", Options: opts, CorrectAnswer: "A",
		}))
	}

	topic, err := store.GetTopic(ctx, "t1")
	require.NoError(t, err)
	trueCount, err := store.CountQuestions(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, trueCount, topic.QuestionCount)
	assert.Equal(t, 3, trueCount)
}

func TestListQuestionsJoinsTitles(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	require.NoError(t, store.PutPackage(ctx, ExamPackage{ID: "p1", Title: "Pacote"}))
	require.NoError(t, store.PutTopic(ctx, Topic{ID: "t1", PackageID: "p1", Title: "Tópico"}))
	require.NoError(t, store.PutQuestion(ctx, Question{
		ID: "q1", TopicID: "t1", Text: "?",
		Options:       []Option{{ID: "A", Text: "um"}, {ID: "B", Text: "dois"}},
		CorrectAnswer: "A",
	}))

	qs, err := store.ListQuestions(ctx, []string{"t1", "t-missing"})
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Tópico", qs[0].TopicTitle)
	assert.Equal(t, "Pacote", qs[0].PackageTitle)

	qs, err = store.ListQuestions(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, qs)
}
