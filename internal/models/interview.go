package models

// Difficulty governs question depth and how subtle the distractors are
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// QuestionOptionCount is the fixed number of multiple-choice options per question
const QuestionOptionCount = 4

// Question is one scenario-based interview prompt. Immutable once returned
// by the gateway; only ever persisted embedded in a session's history.
type Question struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	// Populated server-side only, never guaranteed
	CorrectOptionIndex *int `json:"correctOptionIndex,omitempty"`
}

// AnswerAttempt is a finalized (accepted) answer to one question. Rejected
// retries never produce one of these.
type AnswerAttempt struct {
	QuestionID          string `json:"questionId"`
	SelectedOptionIndex int    `json:"selectedOptionIndex"`
	Explanation         string `json:"explanation"`
	IsCorrect           bool   `json:"isCorrect"`
	Feedback            string `json:"feedback"`
	Timestamp           int64  `json:"timestamp"`
}

// Resource is one suggested learning resource in a report
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// InterviewReport is the AI-synthesized evaluation of a completed session
type InterviewReport struct {
	OverallScore int        `json:"overallScore"`
	Summary      string     `json:"summary"`
	WeakAreas    []string   `json:"weakAreas"`
	StrongAreas  []string   `json:"strongAreas"`
	Resources    []Resource `json:"suggestedResources"`
}

// InterviewSession is one completed practice run. Created only after the
// final accepted attempt; invariant: TotalQuestions == len(History).
type InterviewSession struct {
	ID             string           `json:"id"`
	Topic          string           `json:"topic"`
	SubTopic       string           `json:"subTopic"`
	Difficulty     Difficulty       `json:"difficulty"`
	Date           string           `json:"date"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"totalQuestions"`
	History        []AnswerAttempt  `json:"history"`
	FeedbackReport *InterviewReport `json:"feedbackReport,omitempty"`
}

// ValidationStatus is the remote judgement of one answer submission
type ValidationStatus string

const (
	StatusCorrect   ValidationStatus = "correct"
	StatusIncorrect ValidationStatus = "incorrect"
	StatusDeviating ValidationStatus = "deviating"
)

// ValidationResult is the transient outcome of judging one attempt.
// It lives for the duration of one submit round trip and is never persisted.
type ValidationResult struct {
	Status        ValidationStatus `json:"status"`
	Feedback      string           `json:"feedback"`
	Hint          string           `json:"hint,omitempty"`
	CorrectAnswer string           `json:"correctAnswer,omitempty"`
	ShouldProceed bool             `json:"shouldProceed"`
}

// Accepted reports whether this result finalizes the current question
func (v *ValidationResult) Accepted() bool {
	return v.Status == StatusCorrect || v.ShouldProceed
}
