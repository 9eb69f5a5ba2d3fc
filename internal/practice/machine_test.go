package practice

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/provamaster/provamaster/internal/catalog"
)

type fakeClock struct{ now time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
}
func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type failingSource struct{}

func (failingSource) ListQuestions(context.Context, []string) ([]catalog.Question, error) {
	return nil, errors.New("network down")
}
func (failingSource) GetTopic(context.Context, string) (catalog.Topic, error) {
	return catalog.Topic{}, errors.New("network down")
}

// countingStore records CreateSession calls and can be told to refuse them.
type countingStore struct {
	Store
	createCalls  int
	failCreation bool
}

func (s *countingStore) CreateSession(ctx context.Context, sess Session) (Session, error) {
	s.createCalls++
	if s.failCreation {
		return Session{}, errors.New("insert failed")
	}
	return s.Store.CreateSession(ctx, sess)
}

// seedCatalog builds a package with two topics: T1 holds 3 questions, T2
// holds 2. Option "B" is always correct.
func seedCatalog(t *testing.T) catalog.Store {
	t.Helper()
	ctx := context.Background()
	cs := catalog.NewInMemoryStore()
	require.NoError(t, cs.PutPackage(ctx, catalog.ExamPackage{ID: "p1", Title: "Pacote"}))
	require.NoError(t, cs.PutTopic(ctx, catalog.Topic{ID: "t1", PackageID: "p1", Title: "Tópico 1"}))
	require.NoError(t, cs.PutTopic(ctx, catalog.Topic{ID: "t2", PackageID: "p1", Title: "Tópico 2"}))
	ids := []string{"q1", "q2", "q3", "q4", "q5"}
	topics := []string{"t1", "t1", "t1", "t2", "t2"}
	for i, id := range ids {
		require.NoError(t, cs.PutQuestion(ctx, catalog.Question{
			ID:      id,
			TopicID: topics[i],
			Text:    "Pergunta " + id,
			Options: []catalog.Option{
				{ID: "A", Text: "errada"},
				{ID: "B", Text: "certa"},
				{ID: "C", Text: "errada também"},
			},
			CorrectAnswer: "B",
			Rationale:     "Porque sim.",
		}))
	}
	return cs
}

func newTestMachine(t *testing.T, store Store, source QuestionSource, clock *fakeClock) *Machine {
	t.Helper()
	return NewMachine(store, source, "user-1", Options{
		Clock: clock.Now,
		Rand:  rand.New(rand.NewSource(1)),
	})
}

func TestStartSamplesRequestedCountFromPool(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	ps := NewInMemoryStore()
	clock := newFakeClock()
	m := newTestMachine(t, ps, cs, clock)

	require.NoError(t, m.Start(ctx, []string{"t1", "t2"}, 4))
	assert.Equal(t, StateInProgress, m.State())
	assert.Equal(t, 4, m.Len())

	pool := map[string]bool{"q1": true, "q2": true, "q3": true, "q4": true, "q5": true}
	seen := map[string]bool{}
	for i := 0; i < m.Len(); i++ {
		q, ok := m.Current()
		require.True(t, ok)
		assert.True(t, pool[q.ID], "sampled question %s not in pool", q.ID)
		assert.False(t, seen[q.ID], "question %s sampled twice", q.ID)
		seen[q.ID] = true
		m.Select("B")
		m.Solve(ctx)
		m.Next(ctx)
	}

	sess, err := ps.GetSession(ctx, m.SessionID())
	require.NoError(t, err)
	assert.Equal(t, 4, sess.TotalQuestions)
	assert.Equal(t, "t1", sess.TopicID, "first topic is the representative")
	assert.Equal(t, "user-1", sess.UserID)
}

func TestStartSamplesAllWhenFewerAvailable(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	m := newTestMachine(t, NewInMemoryStore(), cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t2"}, 10))
	assert.Equal(t, 2, m.Len(), "only two questions exist in t2")
}

func TestStartFetchFailureIsTerminalAndCreatesNoSession(t *testing.T) {
	ctx := context.Background()
	ps := &countingStore{Store: NewInMemoryStore()}
	m := newTestMachine(t, ps, failingSource{}, newFakeClock())

	err := m.Start(ctx, []string{"t1"}, 5)
	require.Error(t, err)
	assert.Equal(t, StateError, m.State())
	assert.Error(t, m.Err())
	assert.Zero(t, ps.createCalls, "no session row on fetch failure")
	assert.Equal(t, "/topics", m.BackRoute(), "package never resolved")
}

func TestSessionCreateFailureDegradesToLocalOnly(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	ps := &countingStore{Store: NewInMemoryStore(), failCreation: true}
	m := newTestMachine(t, ps, cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t1"}, 2))
	assert.Equal(t, StateInProgress, m.State())
	assert.Empty(t, m.SessionID())

	for i := 0; i < 2; i++ {
		m.Select("B")
		m.Solve(ctx)
		m.Next(ctx)
	}
	assert.Equal(t, StateSummary, m.State())

	s, ok := m.Summary()
	require.True(t, ok)
	assert.Equal(t, 2, s.CorrectCount)
}

func TestAllCorrectGivesFullAccuracyAndConsistentCounts(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	ps := NewInMemoryStore()
	clock := newFakeClock()
	m := newTestMachine(t, ps, cs, clock)

	require.NoError(t, m.Start(ctx, []string{"t1", "t2"}, 5))
	for i := 0; i < 5; i++ {
		clock.Advance(7 * time.Second)
		m.Select("B")
		m.Solve(ctx)
		m.Next(ctx)
	}
	require.Equal(t, StateSummary, m.State())

	s, ok := m.Summary()
	require.True(t, ok)
	assert.Equal(t, 5, s.TotalQuestions)
	assert.Equal(t, 5, s.CorrectCount)
	assert.InDelta(t, 100.0, s.Accuracy, 0.001)
	assert.Equal(t, 35, s.TotalTimeSpent)
	assert.InDelta(t, 7.0, s.AverageTime, 0.001)

	// attempt rows == summary == final session row
	fromRows, err := ps.CorrectCount(ctx, m.SessionID())
	require.NoError(t, err)
	sess, err := ps.GetSession(ctx, m.SessionID())
	require.NoError(t, err)
	assert.Equal(t, s.CorrectCount, fromRows)
	assert.Equal(t, s.CorrectCount, sess.CorrectAnswers)
	require.NotNil(t, sess.CompletedAt)
}

func TestMixedAnswersCountsStayConsistent(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	ps := NewInMemoryStore()
	m := newTestMachine(t, ps, cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t1", "t2"}, 5))
	answers := []string{"B", "A", "B", "C", "B"} // 3 correct
	for _, ans := range answers {
		m.Select(ans)
		m.Solve(ctx)
		m.Next(ctx)
	}
	require.Equal(t, StateSummary, m.State())

	s, _ := m.Summary()
	assert.Equal(t, 3, s.CorrectCount)
	assert.InDelta(t, 60.0, s.Accuracy, 0.001)

	fromRows, err := ps.CorrectCount(ctx, m.SessionID())
	require.NoError(t, err)
	sess, err := ps.GetSession(ctx, m.SessionID())
	require.NoError(t, err)
	assert.Equal(t, 3, fromRows)
	assert.Equal(t, 3, sess.CorrectAnswers)
}

func TestPreviousNextRoundTripRestoresState(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	m := newTestMachine(t, NewInMemoryStore(), cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t1", "t2"}, 4))

	first, _ := m.Current()
	m.Select("A")
	m.Solve(ctx)
	m.Next(ctx)

	// Second question untouched; go back and forward again.
	assert.Equal(t, 1, m.Index())
	assert.Empty(t, m.Pending())
	assert.False(t, m.Revealed())

	m.Previous()
	q, _ := m.Current()
	assert.Equal(t, first.ID, q.ID)
	assert.Equal(t, "A", m.Pending(), "selection restored")
	assert.True(t, m.Revealed(), "reveal restored")

	m.Next(ctx)
	assert.Equal(t, 1, m.Index())
	assert.Empty(t, m.Pending())
	assert.False(t, m.Revealed())
}

func TestSolveIsNoOpAfterRevealAndWithoutSelection(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	ps := NewInMemoryStore()
	m := newTestMachine(t, ps, cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t1"}, 1))

	m.Solve(ctx) // no pending selection
	assert.False(t, m.Revealed())

	m.Select("B")
	m.Solve(ctx)
	m.Solve(ctx)  // rapid double submit
	m.Select("A") // locked after reveal
	assert.Equal(t, "B", m.Pending())

	attempts, err := ps.ListAttempts(ctx, m.SessionID())
	require.NoError(t, err)
	assert.Len(t, attempts, 1, "exactly one attempt row")
}

func TestSelectIgnoresUnknownOptionIDs(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	ps := NewInMemoryStore()
	m := newTestMachine(t, ps, cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t1"}, 1))

	// A typo'd command must never become the pending answer.
	m.Select("slove")
	assert.Empty(t, m.Pending())
	m.Solve(ctx)
	assert.False(t, m.Revealed())

	m.Select("B")
	m.Select("Z")
	assert.Equal(t, "B", m.Pending(), "valid selection survives stray input")
	m.Solve(ctx)

	attempts, err := ps.ListAttempts(ctx, m.SessionID())
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	assert.Equal(t, "B", attempts[0].SelectedAnswer)
	assert.True(t, attempts[0].IsCorrect)
}

func TestPreviousIsNoOpAtFirstQuestion(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	m := newTestMachine(t, NewInMemoryStore(), cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t1"}, 2))
	m.Previous()
	assert.Equal(t, 0, m.Index())
}

func TestNextOnLastQuestionRequiresSolve(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	m := newTestMachine(t, NewInMemoryStore(), cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t2"}, 2))
	m.Select("B")
	m.Solve(ctx)
	m.Next(ctx)

	m.Next(ctx) // last question not solved yet
	assert.Equal(t, StateInProgress, m.State())

	m.Select("B")
	m.Solve(ctx)
	m.Next(ctx)
	assert.Equal(t, StateSummary, m.State())
}

func TestTimeSpentPerQuestionIsRecorded(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	ps := NewInMemoryStore()
	clock := newFakeClock()
	m := newTestMachine(t, ps, cs, clock)

	require.NoError(t, m.Start(ctx, []string{"t1"}, 2))

	clock.Advance(12 * time.Second)
	m.Select("B")
	m.Solve(ctx)
	m.Next(ctx)

	clock.Advance(3 * time.Second)
	m.Select("A")
	m.Solve(ctx)
	m.Next(ctx)

	attempts, err := ps.ListAttempts(ctx, m.SessionID())
	require.NoError(t, err)
	require.Len(t, attempts, 2)
	assert.Equal(t, 12, attempts[0].TimeSpent)
	assert.Equal(t, 3, attempts[1].TimeSpent)
}

func TestElapsedFormatsWallClock(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	clock := newFakeClock()
	m := newTestMachine(t, NewInMemoryStore(), cs, clock)

	require.NoError(t, m.Start(ctx, []string{"t1"}, 1))
	clock.Advance(1*time.Hour + 2*time.Minute + 3*time.Second)
	assert.Equal(t, "01:02:03", m.Elapsed())
}

func TestBackRouteUsesResolvedPackage(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	m := newTestMachine(t, NewInMemoryStore(), cs, newFakeClock())

	require.NoError(t, m.Start(ctx, []string{"t2", "t1"}, 2))
	assert.Equal(t, "/package/p1", m.BackRoute())
}

func TestStartWithNoTopicsFails(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	m := newTestMachine(t, NewInMemoryStore(), cs, newFakeClock())

	require.Error(t, m.Start(ctx, nil, 5))
	assert.Equal(t, StateError, m.State())
}

func TestTickerFiresUntilStopped(t *testing.T) {
	ctx := context.Background()
	cs := seedCatalog(t)
	m := newTestMachine(t, NewInMemoryStore(), cs, newFakeClock())
	require.NoError(t, m.Start(ctx, []string{"t1"}, 1))

	ticks := make(chan string, 8)
	stop := m.StartTicker(func(elapsed string) { ticks <- elapsed })

	select {
	case s := <-ticks:
		assert.Regexp(t, `^\d{2}:\d{2}:\d{2}$`, s)
	case <-time.After(3 * time.Second):
		t.Fatal("no tick within 3s")
	}

	stop()
	// A tick already in flight at stop time may still land; drain, then the
	// channel must stay quiet.
	time.Sleep(100 * time.Millisecond)
	for len(ticks) > 0 {
		<-ticks
	}
	select {
	case s := <-ticks:
		t.Fatalf("tick after stop: %s", s)
	case <-time.After(1500 * time.Millisecond):
	}
}
