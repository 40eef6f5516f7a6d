package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"interviewmaster/server/internal/chat"
	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
)

func newChatHandler(t *testing.T, gateway *mockGateway) *ChatHandler {
	t.Helper()
	manager := chat.NewManager(context.Background(), gateway, newTestStore(t), zap.NewNop())
	return NewChatHandler(manager, zap.NewNop())
}

func TestTranscriptHandlerSeedsGreeting(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})

	rec := performRequest(http.HandlerFunc(handler.TranscriptHandler), http.MethodGet, "/chat", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.ChatTranscriptResponse
	decodeBody(t, rec, &resp)
	if resp.Persona != models.PersonaBalanced {
		t.Fatalf("expected balanced persona, got %s", resp.Persona)
	}
	if len(resp.Messages) != 1 || resp.Messages[0].Role != models.RoleModel {
		t.Fatalf("expected a single greeting, got %+v", resp.Messages)
	}
}

func TestSendHandlerReturnsFinalMessage(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	wrapped := middleware.ValidateRequest[*models.ChatSendRequest]()(http.HandlerFunc(handler.SendHandler))

	rec := performRequest(wrapped, http.MethodPost, "/chat/messages", `{"text":"hi coach"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var final models.ChatMessage
	decodeBody(t, rec, &final)
	if final.Role != models.RoleModel || final.Text != "Hello there." {
		t.Fatalf("unexpected final message: %+v", final)
	}
	if final.Streaming {
		t.Fatal("final message must not be marked streaming")
	}
}

func TestSendHandlerBlankRejected(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	wrapped := middleware.ValidateRequest[*models.ChatSendRequest]()(http.HandlerFunc(handler.SendHandler))

	rec := performRequest(wrapped, http.MethodPost, "/chat/messages", `{"text":"   "}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Code != "empty_message" {
		t.Fatalf("expected empty_message, got %s", errResp.Code)
	}
}

func TestSendHandlerStreamFailure(t *testing.T) {
	gateway := &mockGateway{
		openChatFn: func(ctx context.Context, history []models.ChatMessage, persona models.Persona) (llm.ChatSession, error) {
			return &scriptedSession{fragments: []string{"partial"}, fail: true}, nil
		},
	}
	handler := newChatHandler(t, gateway)
	wrapped := middleware.ValidateRequest[*models.ChatSendRequest]()(http.HandlerFunc(handler.SendHandler))

	rec := performRequest(wrapped, http.MethodPost, "/chat/messages", `{"text":"hi"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var final models.ChatMessage
	decodeBody(t, rec, &final)
	if !strings.Contains(final.Text, "error") {
		t.Fatalf("expected the apology reply, got %q", final.Text)
	}
}

func TestPersonaHandlerAppendsMarker(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	wrapped := middleware.ValidateRequest[*models.PersonaRequest]()(http.HandlerFunc(handler.PersonaHandler))

	rec := performRequest(wrapped, http.MethodPost, "/chat/persona", `{"persona":"dsa"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.ChatTranscriptResponse
	decodeBody(t, rec, &resp)
	if resp.Persona != models.PersonaDSA {
		t.Fatalf("expected dsa persona, got %s", resp.Persona)
	}
	last := resp.Messages[len(resp.Messages)-1]
	if !strings.Contains(last.Text, "Algorithmist") {
		t.Fatalf("expected switch marker, got %q", last.Text)
	}
}

func TestPersonaHandlerRejectsUnknown(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	wrapped := middleware.ValidateRequest[*models.PersonaRequest]()(http.HandlerFunc(handler.PersonaHandler))

	rec := performRequest(wrapped, http.MethodPost, "/chat/persona", `{"persona":"pirate"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestResetHandlerRequiresConfirmation(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	wrapped := middleware.ValidateRequest[*models.ChatResetRequest]()(http.HandlerFunc(handler.ResetHandler))

	rec := performRequest(wrapped, http.MethodPost, "/chat/reset", `{"confirm":false}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var errResp models.ErrorResponse
	decodeBody(t, rec, &errResp)
	if errResp.Code != "not_confirmed" {
		t.Fatalf("expected not_confirmed, got %s", errResp.Code)
	}
}

func TestResetHandlerClearsTranscript(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	sendWrapped := middleware.ValidateRequest[*models.ChatSendRequest]()(http.HandlerFunc(handler.SendHandler))
	performRequest(sendWrapped, http.MethodPost, "/chat/messages", `{"text":"hello"}`)

	resetWrapped := middleware.ValidateRequest[*models.ChatResetRequest]()(http.HandlerFunc(handler.ResetHandler))
	rec := performRequest(resetWrapped, http.MethodPost, "/chat/reset", `{"confirm":true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp models.ChatTranscriptResponse
	decodeBody(t, rec, &resp)
	if len(resp.Messages) != 1 {
		t.Fatalf("expected a single reset greeting, got %d messages", len(resp.Messages))
	}
	if !strings.Contains(resp.Messages[0].Text, "Session reset") {
		t.Fatalf("unexpected reset greeting: %q", resp.Messages[0].Text)
	}
}

func dialStream(t *testing.T, handler *ChatHandler) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(handler.StreamHandler))
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestStreamHandlerDeliversFragments(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	conn := dialStream(t, handler)

	if err := conn.WriteJSON(wsInbound{Text: "hi"}); err != nil {
		t.Fatalf("failed to write frame: %v", err)
	}

	var frames []wsOutbound
	for {
		var frame wsOutbound
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("failed to read frame: %v", err)
		}
		frames = append(frames, frame)
		if frame.Done {
			break
		}
	}

	if len(frames) < 2 {
		t.Fatalf("expected fragment frames before done, got %d", len(frames))
	}
	final := frames[len(frames)-1]
	if final.Message == nil || final.Message.Text != "Hello there." {
		t.Fatalf("unexpected final frame: %+v", final)
	}
}

func TestStreamHandlerRejectsBlankFrame(t *testing.T) {
	handler := newChatHandler(t, &mockGateway{})
	conn := dialStream(t, handler)

	if err := conn.WriteJSON(wsInbound{Text: "  "}); err != nil {
		t.Fatalf("failed to write frame: %v", err)
	}

	var frame wsOutbound
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("failed to read frame: %v", err)
	}
	if frame.Error != "empty_message" {
		t.Fatalf("expected empty_message error frame, got %+v", frame)
	}
}
