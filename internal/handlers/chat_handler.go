package handlers

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"interviewmaster/server/internal/chat"
	"interviewmaster/server/internal/middleware"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/utils"
)

type ChatHandler struct {
	manager  *chat.Manager
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewChatHandler(manager *chat.Manager, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		manager:  manager,
		logger:   logger,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// TranscriptHandler returns the conversation and the active persona.
func (h *ChatHandler) TranscriptHandler(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, models.ChatTranscriptResponse{
		Persona:  h.manager.Persona(),
		Messages: h.manager.Transcript(),
	})
}

// SendHandler runs one blocking turn and returns the final model message.
// Clients that want incremental fragments use the websocket endpoint.
func (h *ChatHandler) SendHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChatSendRequest](r)

	final, err := h.manager.Send(r.Context(), strings.TrimSpace(req.Text), nil)
	if err != nil {
		h.writeChatError(w, err)
		return
	}
	if final == nil {
		// Preempted by a persona switch or reset mid-stream.
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "preempted",
			Message: "The conversation changed while responding",
		})
		return
	}
	utils.JSON(w, http.StatusOK, final)
}

func (h *ChatHandler) PersonaHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.PersonaRequest](r)
	persona, _ := models.CanonicalPersona(req.Persona)

	if err := h.manager.SwitchPersona(r.Context(), persona); err != nil {
		h.writeChatError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ChatTranscriptResponse{
		Persona:  h.manager.Persona(),
		Messages: h.manager.Transcript(),
	})
}

func (h *ChatHandler) ResetHandler(w http.ResponseWriter, r *http.Request) {
	req := middleware.GetValidatedRequest[*models.ChatResetRequest](r)

	if err := h.manager.Reset(r.Context(), req.Confirm); err != nil {
		h.writeChatError(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, models.ChatTranscriptResponse{
		Persona:  h.manager.Persona(),
		Messages: h.manager.Transcript(),
	})
}

// wsInbound is one client frame on the streaming socket.
type wsInbound struct {
	Text string `json:"text"`
}

// wsOutbound is one server frame: the growing model message, done on the
// final frame, or an error code.
type wsOutbound struct {
	Message *models.ChatMessage `json:"message,omitempty"`
	Done    bool                `json:"done,omitempty"`
	Error   string              `json:"error,omitempty"`
}

// StreamHandler upgrades to a websocket and relays chat turns: each
// inbound text frame produces a series of outbound fragment frames ending
// with a done frame.
func (h *ChatHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	// Writes come from both the stream sink and error paths.
	var writeMu sync.Mutex
	send := func(frame wsOutbound) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		return conn.WriteJSON(frame)
	}

	for {
		var inbound wsInbound
		if err := conn.ReadJSON(&inbound); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		text := strings.TrimSpace(inbound.Text)
		final, err := h.manager.Send(r.Context(), text, func(message models.ChatMessage, done bool) {
			if err := send(wsOutbound{Message: &message, Done: done}); err != nil {
				h.logger.Debug("websocket write failed", zap.Error(err))
			}
		})
		if err != nil {
			code := "chat_error"
			switch {
			case errors.Is(err, chat.ErrEmptyMessage):
				code = "empty_message"
			case errors.Is(err, chat.ErrStreamInFlight):
				code = "stream_in_flight"
			}
			if err := send(wsOutbound{Error: code}); err != nil {
				return
			}
			continue
		}
		if final == nil {
			if err := send(wsOutbound{Error: "preempted"}); err != nil {
				return
			}
		}
	}
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "empty_message",
			Message: "Message text must not be blank",
		})
	case errors.Is(err, chat.ErrStreamInFlight):
		utils.JSON(w, http.StatusConflict, models.ErrorResponse{
			Code:    "stream_in_flight",
			Message: "A response is still streaming",
		})
	case errors.Is(err, chat.ErrResetNotConfirmed):
		utils.JSON(w, http.StatusBadRequest, models.ErrorResponse{
			Code:    "not_confirmed",
			Message: "Reset requires confirmation",
		})
	default:
		h.logger.Error("chat operation failed", zap.Error(err))
		utils.JSON(w, http.StatusBadGateway, models.ErrorResponse{
			Code:    "chat_error",
			Message: "Chat is unavailable right now",
		})
	}
}
