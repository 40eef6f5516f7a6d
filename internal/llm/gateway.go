package llm

import (
	"context"

	"interviewmaster/server/internal/models"
)

// QuestionParams carries everything a question generation needs. ExcludeIDs
// is a best-effort repetition hint; the remote model may still repeat.
type QuestionParams struct {
	Topic      string
	Subtopic   string
	Difficulty models.Difficulty
	ExcludeIDs []string
}

// ValidationParams describes one answer submission. Attempt is 1-based and
// counts submissions against the same question.
type ValidationParams struct {
	Question    *models.Question
	OptionIndex int
	Explanation string
	Attempt     int
}

// ChatSession is a stateful handle to a remote conversation bound to one
// persona's system instruction.
//
// Send streams the model's reply: the fragment channel delivers text pieces
// in order and is closed at end of stream; the error channel carries at most
// one transport failure. Exactly one of "closed cleanly" or "error received"
// terminates a send.
type ChatSession interface {
	Send(ctx context.Context, text string) (<-chan string, <-chan error)
}

// Gateway is the interface to the remote generative model.
//
// ListSubtopics and GenerateBadge degrade to fallback values and never
// return an error; the remaining operations propagate failures verbatim so
// the caller can decide UI treatment. The gateway itself never retries.
type Gateway interface {
	ListSubtopics(ctx context.Context, topic string) []string
	GenerateQuestion(ctx context.Context, params QuestionParams) (*models.Question, error)
	ValidateAnswer(ctx context.Context, params ValidationParams) (*models.ValidationResult, error)
	GenerateReport(ctx context.Context, topic string, history []models.AnswerAttempt) (*models.InterviewReport, error)
	OpenChat(ctx context.Context, history []models.ChatMessage, persona models.Persona) (ChatSession, error)
	GenerateBadge(ctx context.Context, prompt string, ratio models.AspectRatio, size models.ImageSize) *models.BadgeImage
	GetProviderName() string
}

// FallbackSubtopics is returned when subtopic listing fails for any reason
var FallbackSubtopics = []string{"General Knowledge", "Advanced Concepts", "Best Practices"}
