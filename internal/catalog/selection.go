package catalog

import (
	"strconv"
	"strings"
)

const DefaultQuestionCount = 10

// Selection is the topic-picker state for one package: which topics are
// chosen, a live title filter, and the desired question count. Toggling the
// same id twice returns the selection to its prior contents.
type Selection struct {
	topics   []Topic
	selected []string // ordered, deduplicated topic ids
	filter   string
	count    int
}

func NewSelection(topics []Topic) *Selection {
	return &Selection{topics: topics, count: DefaultQuestionCount}
}

// Toggle adds the topic id to the selection, or removes it if already
// present. Unknown ids are ignored.
func (s *Selection) Toggle(id string) {
	known := false
	for _, t := range s.topics {
		if t.ID == id {
			known = true
			break
		}
	}
	if !known {
		return
	}
	for i, sel := range s.selected {
		if sel == id {
			s.selected = append(s.selected[:i], s.selected[i+1:]...)
			return
		}
	}
	s.selected = append(s.selected, id)
}

func (s *Selection) IsSelected(id string) bool {
	for _, sel := range s.selected {
		if sel == id {
			return true
		}
	}
	return false
}

func (s *Selection) SelectedIDs() []string {
	out := make([]string, len(s.selected))
	copy(out, s.selected)
	return out
}

// SetFilter sets the live case-insensitive substring filter over titles.
func (s *Selection) SetFilter(q string) {
	s.filter = strings.ToLower(strings.TrimSpace(q))
}

// Visible returns the topics matching the current filter, in catalog order.
func (s *Selection) Visible() []Topic {
	if s.filter == "" {
		out := make([]Topic, len(s.topics))
		copy(out, s.topics)
		return out
	}
	var out []Topic
	for _, t := range s.topics {
		if strings.Contains(strings.ToLower(t.Title), s.filter) {
			out = append(out, t)
		}
	}
	return out
}

// QuestionTotal sums the denormalized question_count across selected topics.
func (s *Selection) QuestionTotal() int {
	total := 0
	for _, id := range s.selected {
		for _, t := range s.topics {
			if t.ID == id {
				total += t.QuestionCount
				break
			}
		}
	}
	return total
}

// SetCount updates the desired question count. Non-numeric or non-positive
// input is silently ignored and the last valid value is retained.
func (s *Selection) SetCount(raw string) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return
	}
	s.count = n
}

func (s *Selection) Count() int { return s.count }

// CanStart reports whether a practice run may begin.
func (s *Selection) CanStart() bool { return len(s.selected) > 0 }

// Params encodes the navigation contract: the comma-joined ordered topic-id
// list and the desired count, as carried by /practice/{topicIDs}?count=N.
func (s *Selection) Params() (topicIDs string, count int) {
	return strings.Join(s.selected, ","), s.count
}

// ParseTopicIDs decodes the comma-joined topic-id list from a route,
// dropping empty segments and duplicates while preserving order.
func ParseTopicIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := map[string]bool{}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		id := strings.TrimSpace(p)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
