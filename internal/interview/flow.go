package interview

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/storage"
)

// State is the flow's current stage. Transitions are strictly forward.
type State string

const (
	StateTopic      State = "topic"
	StateSubtopic   State = "subtopic"
	StateDifficulty State = "difficulty"
	StateInterview  State = "interview"
	StateReport     State = "report"
)

// BannerKind maps to the visual treatment of an inline notice.
type BannerKind string

const (
	BannerSuccess BannerKind = "success"
	BannerInfo    BannerKind = "info"
	BannerWarning BannerKind = "warning"
	BannerError   BannerKind = "error"
)

// Banner is the inline notice shown after a submission or a failed fetch.
type Banner struct {
	Kind          BannerKind `json:"kind"`
	Message       string     `json:"message"`
	Hint          string     `json:"hint,omitempty"`
	CorrectAnswer string     `json:"correctAnswer,omitempty"`
}

var (
	ErrWrongState           = errors.New("operation not valid in current state")
	ErrIncompleteSubmission = errors.New("an option and a written justification are both required")
	ErrAnswerPending        = errors.New("current question has not been accepted yet")
)

// Flow is one interview run. All state behind one mutex; remote calls
// are made while holding it, which serializes the flow the way a single
// caller would drive it.
type Flow struct {
	id      string
	gateway llm.Gateway
	store   *storage.Gateway
	logger  *zap.Logger

	mu sync.Mutex

	state      State
	topic      string
	subtopics  []string
	subtopic   string
	difficulty models.Difficulty

	current   *models.Question
	usedIDs   []string
	attempt   int
	finalized bool
	history   []models.AnswerAttempt
	banner    *Banner

	// prefetched holds the next question when the background fetch won
	// the race; questionEpoch invalidates stale prefetch and timer results.
	prefetched    *models.Question
	questionEpoch int

	advanceDelay time.Duration
	advanceTimer *time.Timer

	report    *models.InterviewReport
	sessionID string
}

// NewFlow creates a flow in the topic state. advanceDelay is the pause
// between an accepted answer and the automatic move to the next question.
func NewFlow(id string, gateway llm.Gateway, store *storage.Gateway, logger *zap.Logger, advanceDelay time.Duration) *Flow {
	return &Flow{
		id:           id,
		gateway:      gateway,
		store:        store,
		logger:       logger.With(zap.String("flow", id)),
		state:        StateTopic,
		advanceDelay: advanceDelay,
	}
}

func (f *Flow) ID() string { return f.id }

// SubmitTopic records the topic and lists subtopics. The listing never
// fails, so this always reaches the subtopic state.
func (f *Flow) SubmitTopic(ctx context.Context, topic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateTopic {
		return fmt.Errorf("%w: submit topic in state %s", ErrWrongState, f.state)
	}
	if topic == "" {
		return errors.New("topic must not be empty")
	}

	f.topic = topic
	f.subtopics = f.gateway.ListSubtopics(ctx, topic)
	f.state = StateSubtopic
	return nil
}

// ChooseSubtopic picks one of the listed subtopics.
func (f *Flow) ChooseSubtopic(subtopic string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateSubtopic {
		return fmt.Errorf("%w: choose subtopic in state %s", ErrWrongState, f.state)
	}
	for _, s := range f.subtopics {
		if s == subtopic {
			f.subtopic = subtopic
			f.state = StateDifficulty
			return nil
		}
	}
	return fmt.Errorf("subtopic %q is not one of the offered choices", subtopic)
}

// ChooseDifficulty fetches the first question. On failure the flow stays
// in the difficulty state so the caller can re-pick and retry.
func (f *Flow) ChooseDifficulty(ctx context.Context, difficulty models.Difficulty) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateDifficulty {
		return fmt.Errorf("%w: choose difficulty in state %s", ErrWrongState, f.state)
	}

	question, err := f.gateway.GenerateQuestion(ctx, llm.QuestionParams{
		Topic:      f.topic,
		Subtopic:   f.subtopic,
		Difficulty: difficulty,
	})
	if err != nil {
		f.banner = &Banner{Kind: BannerError, Message: "Failed to generate a question. Please try again."}
		return err
	}

	f.difficulty = difficulty
	f.state = StateInterview
	f.showQuestion(question)
	return nil
}

// SubmitAnswer validates the pending answer. An unselected option or a
// blank justification is rejected locally without a remote call.
func (f *Flow) SubmitAnswer(ctx context.Context, optionIndex *int, explanation string) (*models.ValidationResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != StateInterview {
		return nil, fmt.Errorf("%w: submit answer in state %s", ErrWrongState, f.state)
	}
	if f.finalized {
		return nil, errors.New("current question already accepted; advance first")
	}
	if optionIndex == nil || *optionIndex < 0 || *optionIndex >= len(f.current.Options) || explanation == "" {
		return nil, ErrIncompleteSubmission
	}

	result, err := f.gateway.ValidateAnswer(ctx, llm.ValidationParams{
		Question:    f.current,
		OptionIndex: *optionIndex,
		Explanation: explanation,
		Attempt:     f.attempt,
	})
	if err != nil {
		f.banner = &Banner{Kind: BannerError, Message: "Failed to validate your answer. Please try again."}
		return nil, err
	}

	if result.Accepted() {
		f.history = append(f.history, models.AnswerAttempt{
			QuestionID:          f.current.ID,
			SelectedOptionIndex: *optionIndex,
			Explanation:         explanation,
			IsCorrect:           result.Status == models.StatusCorrect,
			Feedback:            result.Feedback,
			Timestamp:           time.Now().UnixMilli(),
		})
		f.finalized = true

		if result.Status == models.StatusCorrect {
			f.banner = &Banner{Kind: BannerSuccess, Message: result.Feedback}
		} else {
			f.banner = &Banner{
				Kind:          BannerInfo,
				Message:       result.Feedback,
				CorrectAnswer: result.CorrectAnswer,
			}
		}
		f.scheduleAdvance()
		return result, nil
	}

	// Rejected: retry the same question with a bumped attempt number.
	kind := BannerError
	if result.Status == models.StatusDeviating {
		kind = BannerWarning
	}
	f.banner = &Banner{Kind: kind, Message: result.Feedback, Hint: result.Hint}
	f.attempt++
	return result, nil
}

// Advance moves past an accepted question: to the next question, or to
// the report after the fifth accepted answer.
func (f *Flow) Advance(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.advance(ctx)
}

func (f *Flow) advance(ctx context.Context) error {
	if f.state != StateInterview {
		return fmt.Errorf("%w: advance in state %s", ErrWrongState, f.state)
	}
	if !f.finalized {
		return ErrAnswerPending
	}
	if f.advanceTimer != nil {
		f.advanceTimer.Stop()
		f.advanceTimer = nil
	}

	if len(f.history) >= models.QuestionsPerSession {
		return f.finish(ctx)
	}

	// A ready prefetched question wins over a blocking fetch.
	next := f.prefetched
	f.prefetched = nil
	if next == nil {
		var err error
		next, err = f.gateway.GenerateQuestion(ctx, llm.QuestionParams{
			Topic:      f.topic,
			Subtopic:   f.subtopic,
			Difficulty: f.difficulty,
			ExcludeIDs: f.usedIDs,
		})
		if err != nil {
			f.banner = &Banner{Kind: BannerError, Message: "Failed to load the next question. Please try again."}
			return err
		}
	}

	f.showQuestion(next)
	return nil
}

// showQuestion installs a genuinely new question: attempt counter back to
// 1, banner cleared, epoch bumped, prefetch for the one after kicked off.
func (f *Flow) showQuestion(question *models.Question) {
	f.current = question
	f.usedIDs = append(f.usedIDs, question.ID)
	f.attempt = 1
	f.finalized = false
	f.banner = nil
	f.questionEpoch++

	if len(f.history)+1 < models.QuestionsPerSession {
		go f.prefetch(f.questionEpoch, append([]string(nil), f.usedIDs...))
	}
}

// prefetch fetches the next question in the background. The result is
// applied only if the flow still shows the question it was issued for;
// failures leave the slot empty and the next advance fetches inline.
func (f *Flow) prefetch(epoch int, excludeIDs []string) {
	question, err := f.gateway.GenerateQuestion(context.Background(), llm.QuestionParams{
		Topic:      f.topic,
		Subtopic:   f.subtopic,
		Difficulty: f.difficulty,
		ExcludeIDs: excludeIDs,
	})
	if err != nil {
		f.logger.Warn("question prefetch failed", zap.Error(err))
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != StateInterview || f.questionEpoch != epoch {
		return
	}
	// Exclusion is a best-effort hint; guard against the one duplicate
	// that would be immediately visible.
	if question.ID == f.current.ID {
		f.logger.Warn("prefetched a duplicate of the current question, discarding",
			zap.String("question", question.ID))
		return
	}
	f.prefetched = question
}

// scheduleAdvance arms the auto-advance timer. A new timer replaces any
// pending one so the flow can never double-advance.
func (f *Flow) scheduleAdvance() {
	if f.advanceDelay <= 0 {
		return
	}
	if f.advanceTimer != nil {
		f.advanceTimer.Stop()
	}
	epoch := f.questionEpoch
	f.advanceTimer = time.AfterFunc(f.advanceDelay, func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.state != StateInterview || f.questionEpoch != epoch || !f.finalized {
			return
		}
		if err := f.advance(context.Background()); err != nil {
			f.logger.Warn("auto-advance failed", zap.Error(err))
		}
	})
}

// finish generates the report and persists the completed session. A
// report failure is soft: the flow still ends, with no report body.
func (f *Flow) finish(ctx context.Context) error {
	f.state = StateReport
	f.current = nil
	f.prefetched = nil
	f.banner = nil

	report, err := f.gateway.GenerateReport(ctx, f.topic, f.history)
	if err != nil {
		f.logger.Warn("report generation failed", zap.Error(err))
		return nil
	}

	f.report = report
	f.sessionID = f.id
	session := models.InterviewSession{
		ID:             f.sessionID,
		Topic:          f.topic,
		SubTopic:       f.subtopic,
		Difficulty:     f.difficulty,
		Date:           time.Now().UTC().Format(time.RFC3339),
		Score:          report.OverallScore,
		TotalQuestions: models.QuestionsPerSession,
		History:        f.history,
		FeedbackReport: report,
	}
	if err := f.store.SaveSession(session); err != nil {
		f.logger.Warn("failed to persist completed session", zap.Error(err))
	}
	return nil
}

// Snapshot is the externally visible view of a flow.
type Snapshot struct {
	ID             string                  `json:"id"`
	State          State                   `json:"state"`
	Topic          string                  `json:"topic,omitempty"`
	Subtopics      []string                `json:"subtopics,omitempty"`
	SubTopic       string                  `json:"subTopic,omitempty"`
	Difficulty     models.Difficulty       `json:"difficulty,omitempty"`
	QuestionNumber int                     `json:"questionNumber,omitempty"`
	Question       *models.Question        `json:"question,omitempty"`
	Attempt        int                     `json:"attempt,omitempty"`
	Banner         *Banner                 `json:"banner,omitempty"`
	Answered       int                     `json:"answered"`
	Report         *models.InterviewReport `json:"report,omitempty"`
	SessionID      string                  `json:"sessionId,omitempty"`
}

// Snapshot returns a copy of the flow's visible state. The question is
// copied without the correct-option marker.
func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	snapshot := Snapshot{
		ID:         f.id,
		State:      f.state,
		Topic:      f.topic,
		Subtopics:  append([]string(nil), f.subtopics...),
		SubTopic:   f.subtopic,
		Difficulty: f.difficulty,
		Attempt:    f.attempt,
		Answered:   len(f.history),
		Report:     f.report,
		SessionID:  f.sessionID,
	}
	if f.banner != nil {
		banner := *f.banner
		snapshot.Banner = &banner
	}
	if f.current != nil {
		snapshot.QuestionNumber = len(f.usedIDs)
		snapshot.Question = &models.Question{
			ID:      f.current.ID,
			Text:    f.current.Text,
			Options: append([]string(nil), f.current.Options...),
		}
	}
	return snapshot
}
