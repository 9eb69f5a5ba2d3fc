package catalog

// ExamPackage is a purchasable bundle of topics. Immutable once published.
type ExamPackage struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Features    []string `json:"features"`
	CreatedAt   int64    `json:"created_at,omitempty"`
}

// Topic is a subject area inside one package. QuestionCount is a denormalized
// cache of how many questions reference the topic; it is maintained on
// question writes but not enforced by the store.
type Topic struct {
	ID            string `json:"id"`
	PackageID     string `json:"package_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
	CreatedAt     int64  `json:"created_at,omitempty"`
}

type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is one multiple-choice or true/false item. CorrectAnswer is the id
// of exactly one entry in Options.
type Question struct {
	ID            string   `json:"id"`
	TopicID       string   `json:"topic_id"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Rationale     string   `json:"rationale,omitempty"`

	// Joined titles for breadcrumb display; empty unless the read asked for
	// the topic join.
	TopicTitle   string `json:"topic_title,omitempty"`
	PackageTitle string `json:"package_title,omitempty"`
}
