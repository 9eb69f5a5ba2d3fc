package practice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/provamaster/provamaster/internal/catalog"
)

type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSummary    State = "summary"
	StateError      State = "error"
)

// QuestionSource provides the reads the machine needs. Both catalog.Store and
// the gateway API client satisfy it, so the machine runs unchanged
// server-side or client-side.
type QuestionSource interface {
	ListQuestions(ctx context.Context, topicIDs []string) ([]catalog.Question, error)
	GetTopic(ctx context.Context, id string) (catalog.Topic, error)
}

// Notifier receives the transient feedback emitted after each solve.
type Notifier interface {
	Correct(title, detail string)
	Incorrect(title, detail string)
}

type NopNotifier struct{}

func (NopNotifier) Correct(string, string)   {}
func (NopNotifier) Incorrect(string, string) {}

// Options tunes a Machine. Zero values get sensible defaults; Clock and Rand
// exist so tests can pin time and sampling.
type Options struct {
	Notifier Notifier
	Clock    func() time.Time
	Rand     *rand.Rand
}

// Machine is the practice-session state machine: loading -> in_progress ->
// summary, with error reachable from loading. It keeps the working question
// set, the per-question answer records and the running score in memory, and
// persists session/attempt rows through the Store. Persistence failures
// degrade to local-only recording; they never stop the flow.
type Machine struct {
	store    Store
	source   QuestionSource
	notifier Notifier
	clock    func() time.Time
	rng      *rand.Rand

	state State
	err   error

	userID    string
	topicIDs  []string
	packageID string

	questions []catalog.Question // sampled working set, fixed after Start
	index     int
	pending   string
	revealed  bool
	answered  map[string]Answered
	attempts  []Attempt
	correct   int

	sessionID       string
	sessionStart    time.Time
	completedAt     time.Time
	questionShownAt time.Time
}

func NewMachine(store Store, source QuestionSource, userID string, opts Options) *Machine {
	if opts.Notifier == nil {
		opts.Notifier = NopNotifier{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Machine{
		store:    store,
		source:   source,
		notifier: opts.Notifier,
		clock:    opts.Clock,
		rng:      opts.Rand,
		state:    StateLoading,
		userID:   userID,
		answered: map[string]Answered{},
	}
}

// Start fetches the candidate questions for the topic set, samples the
// working set and creates the session row. A failed fetch is terminal
// (error state, no session row); a failed session insert only degrades
// attempt recording to local-only.
func (m *Machine) Start(ctx context.Context, topicIDs []string, count int) error {
	if m.state != StateLoading {
		return fmt.Errorf("start: machine already %s", m.state)
	}
	if len(topicIDs) == 0 {
		m.fail(errors.New("no topics selected"))
		return m.err
	}
	if count < 1 {
		count = catalog.DefaultQuestionCount
	}
	m.topicIDs = topicIDs

	all, err := m.source.ListQuestions(ctx, topicIDs)
	if err != nil {
		m.fail(fmt.Errorf("fetch questions: %w", err))
		return m.err
	}
	if len(all) == 0 {
		m.fail(errors.New("no questions available for selected topics"))
		return m.err
	}

	// Uniform permutation, drawn once per fetch. Not a cryptographic
	// shuffle; casual practice randomness only.
	m.questions = sample(m.rng, all, count)

	// Breadcrumb/back-navigation resolves through the first topic only;
	// merged topics share a package.
	if t, err := m.source.GetTopic(ctx, topicIDs[0]); err != nil {
		log.Printf("practice: topic lookup for %s: %v", topicIDs[0], err)
	} else {
		m.packageID = t.PackageID
	}

	now := m.clock()
	sess, err := m.store.CreateSession(ctx, Session{
		TopicID:        topicIDs[0],
		UserID:         m.userID,
		TotalQuestions: len(m.questions),
		StartedAt:      now.Unix(),
	})
	if err != nil {
		log.Printf("practice: create session: %v (continuing without persistence)", err)
	} else {
		m.sessionID = sess.ID
	}

	m.sessionStart = now
	m.questionShownAt = now
	m.state = StateInProgress
	return nil
}

func (m *Machine) fail(err error) {
	m.err = err
	m.state = StateError
}

func sample(rng *rand.Rand, pool []catalog.Question, count int) []catalog.Question {
	n := count
	if n > len(pool) {
		n = len(pool)
	}
	out := make([]catalog.Question, 0, n)
	for _, i := range rng.Perm(len(pool))[:n] {
		out = append(out, pool[i])
	}
	return out
}

func (m *Machine) State() State { return m.state }
func (m *Machine) Err() error   { return m.err }

func (m *Machine) Len() int   { return len(m.questions) }
func (m *Machine) Index() int { return m.index }

func (m *Machine) SessionID() string { return m.sessionID }

// Current returns the question under the cursor.
func (m *Machine) Current() (catalog.Question, bool) {
	if m.state != StateInProgress || m.index >= len(m.questions) {
		return catalog.Question{}, false
	}
	return m.questions[m.index], true
}

func (m *Machine) Pending() string { return m.pending }
func (m *Machine) Revealed() bool  { return m.revealed }

// AnsweredFor reports the stored answer record for a question id.
func (m *Machine) AnsweredFor(questionID string) (Answered, bool) {
	a, ok := m.answered[questionID]
	return a, ok
}

// Progress reports resolved/correct/wrong counts for the header line.
func (m *Machine) Progress() (resolved, correct, wrong int) {
	for _, a := range m.answered {
		resolved++
		if a.IsCorrect {
			correct++
		} else {
			wrong++
		}
	}
	return
}

// Select records a pending selection. No-op once the question is revealed,
// and unknown option ids are ignored so stray input never becomes an answer.
func (m *Machine) Select(optionID string) {
	if m.state != StateInProgress || m.revealed {
		return
	}
	for _, opt := range m.questions[m.index].Options {
		if opt.ID == optionID {
			m.pending = optionID
			return
		}
	}
}

// Solve grades the pending selection, records the attempt locally and
// persists it, bumps the session counter when correct, and reveals the
// rationale. No-op without a pending selection or after reveal, which also
// closes the rapid double-submission window.
func (m *Machine) Solve(ctx context.Context) {
	if m.state != StateInProgress || m.revealed || m.pending == "" {
		return
	}
	q := m.questions[m.index]
	isCorrect := m.pending == q.CorrectAnswer
	elapsed := int(math.Round(m.clock().Sub(m.questionShownAt).Seconds()))

	att := Attempt{
		SessionID:      m.sessionID,
		QuestionID:     q.ID,
		SelectedAnswer: m.pending,
		IsCorrect:      isCorrect,
		TimeSpent:      elapsed,
		CreatedAt:      m.clock().Unix(),
	}
	m.attempts = append(m.attempts, att)
	m.answered[q.ID] = Answered{Selected: m.pending, IsCorrect: isCorrect}
	if isCorrect {
		m.correct++
	}
	m.revealed = true

	if m.sessionID != "" {
		if err := m.store.InsertAttempt(ctx, att); err != nil {
			log.Printf("practice: record attempt: %v", err)
		}
		if isCorrect {
			if err := m.store.IncrementCorrect(ctx, m.sessionID); err != nil {
				log.Printf("practice: update session counter: %v", err)
			}
		}
	}

	if isCorrect {
		m.notifier.Correct("Resposta correta!", "Muito bem! Você acertou a questão.")
	} else {
		m.notifier.Incorrect("Resposta incorreta", fmt.Sprintf("A alternativa correta era %s.", q.CorrectAnswer))
	}
}

// Next advances the cursor, restoring any prior answer for the target
// question. On the last question it completes the session instead, but only
// once that question has been solved.
func (m *Machine) Next(ctx context.Context) {
	if m.state != StateInProgress {
		return
	}
	if m.index < len(m.questions)-1 {
		m.index++
		m.restore()
		return
	}
	if m.revealed {
		m.complete(ctx)
	}
}

// Previous is the symmetric decrement; no-op at index 0.
func (m *Machine) Previous() {
	if m.state != StateInProgress || m.index == 0 {
		return
	}
	m.index--
	m.restore()
}

func (m *Machine) restore() {
	q := m.questions[m.index]
	if a, ok := m.answered[q.ID]; ok {
		m.pending = a.Selected
		m.revealed = true
	} else {
		m.pending = ""
		m.revealed = false
	}
	m.questionShownAt = m.clock()
}

func (m *Machine) complete(ctx context.Context) {
	now := m.clock()
	if m.sessionID != "" {
		// Authoritative overwrite superseding the incremental updates.
		if err := m.store.CompleteSession(ctx, m.sessionID, m.correct, now); err != nil {
			log.Printf("practice: complete session: %v", err)
		}
	}
	m.completedAt = now
	m.state = StateSummary
}

// BackRoute is the exit destination: the originating package's topic list, or
// the generic topics route when the package was never resolved.
func (m *Machine) BackRoute() string {
	if m.packageID != "" {
		return "/package/" + m.packageID
	}
	return "/topics"
}

// Elapsed formats the wall-clock session duration as HH:MM:SS for the
// ticking header display.
func (m *Machine) Elapsed() string {
	if m.sessionStart.IsZero() {
		return "00:00:00"
	}
	end := m.clock()
	if m.state == StateSummary {
		end = m.completedAt
	}
	d := int(end.Sub(m.sessionStart).Seconds())
	return fmt.Sprintf("%02d:%02d:%02d", d/3600, (d%3600)/60, d%60)
}

// StartTicker fires onTick once a second with the formatted elapsed time.
// The returned stop func must be called on teardown.
func (m *Machine) StartTicker(onTick func(elapsed string)) (stop func()) {
	t := time.NewTicker(time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-t.C:
				onTick(m.Elapsed())
			case <-done:
				return
			}
		}
	}()
	return func() {
		t.Stop()
		close(done)
	}
}
