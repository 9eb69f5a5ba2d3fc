package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provamaster/provamaster/internal/db"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	dbh, err := db.Open(context.Background(), db.DriverSQLite,
		"file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { dbh.Close() })
	return NewRepo(dbh)
}

func TestAppendAndListByType(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	require.NoError(t, repo.Append(ctx, TypeSessionCreated, "sess-1",
		map[string]int{"total_questions": 5}))
	require.NoError(t, repo.Append(ctx, TypeSessionCreated, "sess-2",
		map[string]int{"total_questions": 3}))
	require.NoError(t, repo.Append(ctx, TypeSessionCompleted, "sess-1",
		map[string]int{"correct_answers": 4}))

	created, err := repo.List(ctx, TypeSessionCreated, 0)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, "sess-2", created[0].Key, "newest first")
	assert.Equal(t, "sess-1", created[1].Key)
	assert.Greater(t, created[0].Offset, created[1].Offset)
	assert.JSONEq(t, `{"total_questions":3}`, created[0].DataJSON)

	completed, err := repo.List(ctx, TypeSessionCompleted, 0)
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "sess-1", completed[0].Key)
}

func TestListHonorsLimit(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	for _, key := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Append(ctx, TypeSessionCreated, key, nil))
	}

	got, err := repo.List(ctx, TypeSessionCreated, 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
