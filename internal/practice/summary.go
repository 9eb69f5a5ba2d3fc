package practice

import "fmt"

// Summary is the pure aggregation over the local attempt history rendered at
// the end of a run.
type Summary struct {
	TotalQuestions int       `json:"total_questions"`
	CorrectCount   int       `json:"correct_count"`
	Accuracy       float64   `json:"accuracy"` // percent
	TotalTimeSpent int       `json:"total_time_spent"`
	AverageTime    float64   `json:"average_time"`
	SessionTime    int       `json:"session_time"` // wall clock, seconds
	Attempts       []Attempt `json:"attempts"`
}

// Summary derives the session metrics. ok is false until at least one
// question has been answered.
func (m *Machine) Summary() (Summary, bool) {
	if len(m.attempts) == 0 {
		return Summary{}, false
	}
	total := len(m.attempts)
	correct := 0
	timeSpent := 0
	for _, a := range m.attempts {
		if a.IsCorrect {
			correct++
		}
		timeSpent += a.TimeSpent
	}
	end := m.clock()
	if m.state == StateSummary {
		end = m.completedAt
	}
	attempts := make([]Attempt, total)
	copy(attempts, m.attempts)
	return Summary{
		TotalQuestions: total,
		CorrectCount:   correct,
		Accuracy:       float64(correct) / float64(total) * 100,
		TotalTimeSpent: timeSpent,
		AverageTime:    float64(timeSpent) / float64(total),
		SessionTime:    int(end.Sub(m.sessionStart).Seconds()),
		Attempts:       attempts,
	}, true
}

// FormatDuration renders seconds as "3m 25s" for summary rows.
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
