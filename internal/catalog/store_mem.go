package catalog

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// memoryStore backs tests and the demo seeder without a database.
type memoryStore struct {
	mu        sync.RWMutex
	packages  map[string]ExamPackage
	topics    map[string]Topic
	questions map[string]Question
}

func NewInMemoryStore() Store {
	return &memoryStore{
		packages:  map[string]ExamPackage{},
		topics:    map[string]Topic{},
		questions: map[string]Question{},
	}
}

func (m *memoryStore) ListPackages(ctx context.Context) ([]ExamPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]ExamPackage, 0, len(m.packages))
	for _, p := range m.packages {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) GetPackage(ctx context.Context, id string) (ExamPackage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.packages[id]
	if !ok {
		return ExamPackage{}, ErrNotFound
	}
	return p, nil
}

func (m *memoryStore) ListTopics(ctx context.Context, packageID string) ([]Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Topic
	for _, t := range m.topics {
		if t.PackageID == packageID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) GetTopic(ctx context.Context, id string) (Topic, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.topics[id]
	if !ok {
		return Topic{}, ErrNotFound
	}
	return t, nil
}

func (m *memoryStore) ListQuestions(ctx context.Context, topicIDs []string) ([]Question, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wanted := map[string]bool{}
	for _, id := range topicIDs {
		wanted[id] = true
	}
	var out []Question
	for _, q := range m.questions {
		if !wanted[q.TopicID] {
			continue
		}
		if t, ok := m.topics[q.TopicID]; ok {
			q.TopicTitle = t.Title
			if p, ok := m.packages[t.PackageID]; ok {
				q.PackageTitle = p.Title
			}
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryStore) CountQuestions(ctx context.Context, topicID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, q := range m.questions {
		if q.TopicID == topicID {
			n++
		}
	}
	return n, nil
}

func (m *memoryStore) PutPackage(ctx context.Context, p ExamPackage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.packages[p.ID] = p
	return nil
}

func (m *memoryStore) PutTopic(ctx context.Context, t Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.topics[t.ID] = t
	return nil
}

func (m *memoryStore) PutQuestion(ctx context.Context, q Question) error {
	if err := ValidateQuestion(q); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	m.questions[q.ID] = q
	if t, ok := m.topics[q.TopicID]; ok {
		n := 0
		for _, other := range m.questions {
			if other.TopicID == q.TopicID {
				n++
			}
		}
		t.QuestionCount = n
		m.topics[q.TopicID] = t
	}
	return nil
}
