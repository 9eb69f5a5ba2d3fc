package practice

// Session is one user's timed run through a sampled set of questions.
// TopicID holds the first of the selected topics as a representative when a
// run merges several topics.
type Session struct {
	ID             string `json:"id"`
	TopicID        string `json:"topic_id"`
	UserID         string `json:"user_id"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
	StartedAt      int64  `json:"started_at"`
	CompletedAt    *int64 `json:"completed_at,omitempty"`
}

// Attempt is one recorded answer to one question within a session.
// Append-only.
type Attempt struct {
	ID             string `json:"id"`
	SessionID      string `json:"session_id"`
	QuestionID     string `json:"question_id"`
	SelectedAnswer string `json:"selected_answer"`
	IsCorrect      bool   `json:"is_correct"`
	TimeSpent      int    `json:"time_spent"` // seconds
	CreatedAt      int64  `json:"created_at"`
}

// Answered is the in-memory record kept per answered question so back/forward
// navigation can restore selection and reveal state without re-prompting.
type Answered struct {
	Selected  string
	IsCorrect bool
}
