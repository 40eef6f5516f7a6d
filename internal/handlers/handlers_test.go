package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/storage"
)

type mockGateway struct {
	listSubtopicsFn    func(ctx context.Context, topic string) []string
	generateQuestionFn func(ctx context.Context, params llm.QuestionParams) (*models.Question, error)
	validateAnswerFn   func(ctx context.Context, params llm.ValidationParams) (*models.ValidationResult, error)
	generateReportFn   func(ctx context.Context, topic string, history []models.AnswerAttempt) (*models.InterviewReport, error)
	openChatFn         func(ctx context.Context, history []models.ChatMessage, persona models.Persona) (llm.ChatSession, error)
	generateBadgeFn    func(ctx context.Context, prompt string, ratio models.AspectRatio, size models.ImageSize) *models.BadgeImage
}

func (m *mockGateway) ListSubtopics(ctx context.Context, topic string) []string {
	if m.listSubtopicsFn == nil {
		return []string{"Indexing", "Sharding", "Replication"}
	}
	return m.listSubtopicsFn(ctx, topic)
}

func (m *mockGateway) GenerateQuestion(ctx context.Context, params llm.QuestionParams) (*models.Question, error) {
	if m.generateQuestionFn == nil {
		return &models.Question{
			ID:      "q-1",
			Text:    "Which structure backs most relational indexes?",
			Options: []string{"B-tree", "Linked list", "Stack", "Bloom filter"},
		}, nil
	}
	return m.generateQuestionFn(ctx, params)
}

func (m *mockGateway) ValidateAnswer(ctx context.Context, params llm.ValidationParams) (*models.ValidationResult, error) {
	if m.validateAnswerFn == nil {
		return &models.ValidationResult{
			Status:   models.StatusCorrect,
			Feedback: "Correct.",
		}, nil
	}
	return m.validateAnswerFn(ctx, params)
}

func (m *mockGateway) GenerateReport(ctx context.Context, topic string, history []models.AnswerAttempt) (*models.InterviewReport, error) {
	if m.generateReportFn == nil {
		return &models.InterviewReport{OverallScore: 80, Summary: "Solid run."}, nil
	}
	return m.generateReportFn(ctx, topic, history)
}

func (m *mockGateway) OpenChat(ctx context.Context, history []models.ChatMessage, persona models.Persona) (llm.ChatSession, error) {
	if m.openChatFn == nil {
		return &scriptedSession{fragments: []string{"Hello ", "there."}}, nil
	}
	return m.openChatFn(ctx, history, persona)
}

func (m *mockGateway) GenerateBadge(ctx context.Context, prompt string, ratio models.AspectRatio, size models.ImageSize) *models.BadgeImage {
	if m.generateBadgeFn == nil {
		return nil
	}
	return m.generateBadgeFn(ctx, prompt, ratio, size)
}

func (m *mockGateway) GetProviderName() string { return "mock" }

// scriptedSession replays fixed fragments, then optionally fails.
type scriptedSession struct {
	fragments []string
	fail      bool
}

func (s *scriptedSession) Send(ctx context.Context, text string) (<-chan string, <-chan error) {
	fragments := make(chan string, len(s.fragments)+1)
	errs := make(chan error, 1)
	go func() {
		defer close(fragments)
		for _, fragment := range s.fragments {
			fragments <- fragment
		}
		if s.fail {
			errs <- &llm.ProviderError{Provider: "mock", Code: llm.ErrCodeServiceDown, Message: "stream died"}
		}
	}()
	return fragments, errs
}

type stubPrompts struct{}

func (stubPrompts) BuildPrompt(mode, variant string, data map[string]string) (string, error) {
	return "prompt", nil
}

func (stubPrompts) Variants(mode string) []string { return []string{"default"} }

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := storage.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	return db
}

func newTestStore(t *testing.T) *storage.Gateway {
	t.Helper()
	return storage.NewGateway(storage.NewStore(newTestDB(t)), zap.NewNop())
}

func performRequest(handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body == "" {
		reader = bytes.NewBufferString("{}")
	} else {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to decode response %q: %v", rec.Body.String(), err)
	}
}
