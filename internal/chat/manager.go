package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/storage"
)

const defaultGreeting = "Hi! I'm your AI Interview Coach. Ask me anything about coding, system design, or interview tips."

// errorReply replaces a partial response when the stream dies mid-flight.
const errorReply = "I encountered an error. Please check your key or try again."

var (
	ErrEmptyMessage      = errors.New("message must not be blank")
	ErrStreamInFlight    = errors.New("a response is still streaming")
	ErrResetNotConfirmed = errors.New("reset requires confirmation")
)

// Sink receives live updates for one send: the in-flight model message
// after each fragment, then once more with done set.
type Sink func(message models.ChatMessage, done bool)

// Manager owns the coaching conversation: active persona, ordered
// transcript, and the remote session handle. The epoch counter invalidates
// in-flight streams when a persona switch or reset preempts them.
type Manager struct {
	gateway llm.Gateway
	store   *storage.Gateway
	logger  *zap.Logger

	mu         sync.Mutex
	persona    models.Persona
	transcript []models.ChatMessage
	session    llm.ChatSession
	streaming  bool
	epoch      int
}

// NewManager restores the persisted transcript (or seeds a greeting) and
// opens the remote session with it as prior history.
func NewManager(ctx context.Context, gateway llm.Gateway, store *storage.Gateway, logger *zap.Logger) *Manager {
	m := &Manager{
		gateway: gateway,
		store:   store,
		logger:  logger,
		persona: models.PersonaBalanced,
	}

	m.transcript = store.ChatHistory()
	if len(m.transcript) == 0 {
		m.transcript = []models.ChatMessage{{Role: models.RoleModel, Text: defaultGreeting}}
	}
	m.reopen(ctx)
	return m
}

// reopen replaces the remote session, seeded with the current transcript.
// Failure leaves the handle nil; Send retries lazily.
func (m *Manager) reopen(ctx context.Context) {
	session, err := m.gateway.OpenChat(ctx, m.transcript, m.persona)
	if err != nil {
		m.logger.Warn("failed to open chat session", zap.Error(err))
		m.session = nil
		return
	}
	m.session = session
}

// Persona returns the active persona.
func (m *Manager) Persona() models.Persona {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.persona
}

// Transcript returns a copy of the conversation.
func (m *Manager) Transcript() []models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.ChatMessage(nil), m.transcript...)
}

// Send runs one full user turn: append the user message, stream the reply
// into a single growing model message, finalize, persist at every step.
// Blocks until the stream ends; sink (optional) sees each increment.
// A transport failure mid-stream swaps the partial text for a fixed
// apology. Returns the final model message.
func (m *Manager) Send(ctx context.Context, text string, sink Sink) (*models.ChatMessage, error) {
	m.mu.Lock()
	if text == "" {
		m.mu.Unlock()
		return nil, ErrEmptyMessage
	}
	if m.streaming {
		m.mu.Unlock()
		return nil, ErrStreamInFlight
	}
	if m.session == nil {
		m.reopen(ctx)
		if m.session == nil {
			m.mu.Unlock()
			return nil, errors.New("chat session unavailable")
		}
	}

	m.transcript = append(m.transcript, models.ChatMessage{Role: models.RoleUser, Text: text})
	m.persist()
	m.streaming = true
	epoch := m.epoch
	session := m.session
	m.mu.Unlock()

	fragments, errs := session.Send(ctx, text)

	started := false
	for fragment := range fragments {
		m.mu.Lock()
		if m.epoch != epoch {
			// Preempted by a switch or reset; drain without applying.
			m.mu.Unlock()
			continue
		}
		if !started {
			started = true
			m.transcript = append(m.transcript, models.ChatMessage{
				Role:      models.RoleModel,
				Text:      fragment,
				Streaming: true,
			})
		} else {
			m.transcript[len(m.transcript)-1].Text += fragment
		}
		m.persist()
		current := m.transcript[len(m.transcript)-1]
		m.mu.Unlock()

		if sink != nil {
			sink(current, false)
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.epoch != epoch {
		return nil, nil
	}
	m.streaming = false

	select {
	case err := <-errs:
		// Replace whatever partial content made it through.
		apology := models.ChatMessage{Role: models.RoleModel, Text: errorReply}
		if started {
			m.transcript[len(m.transcript)-1] = apology
		} else {
			m.transcript = append(m.transcript, apology)
		}
		m.persist()
		if sink != nil {
			sink(apology, true)
		}
		m.logger.Warn("chat stream failed", zap.Error(err))
		return &apology, nil
	default:
	}

	if !started {
		return nil, errors.New("model produced no response")
	}
	m.transcript[len(m.transcript)-1].Streaming = false
	m.persist()
	final := m.transcript[len(m.transcript)-1]
	if sink != nil {
		sink(final, true)
	}
	return &final, nil
}

// SwitchPersona announces the change with a marker message and reopens
// the remote session over the existing transcript, so later turns use the
// new instruction without losing context. Preempts any in-flight stream.
func (m *Manager) SwitchPersona(ctx context.Context, persona models.Persona) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !models.ValidPersonas[persona] {
		return fmt.Errorf("unknown persona: %s", persona)
	}
	if persona == m.persona {
		return nil
	}

	m.preempt()
	m.persona = persona
	m.transcript = append(m.transcript, models.ChatMessage{
		Role: models.RoleModel,
		Text: fmt.Sprintf("*Switching focus to %s expertise.*", models.PersonaName(persona)),
	})
	m.persist()
	m.reopen(ctx)
	return nil
}

// Reset discards the conversation in favor of a persona-appropriate
// greeting. The caller must confirm explicitly.
func (m *Manager) Reset(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrResetNotConfirmed
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.preempt()
	if err := m.store.ClearChatHistory(); err != nil {
		m.logger.Warn("failed to clear chat history", zap.Error(err))
	}
	m.transcript = []models.ChatMessage{{
		Role: models.RoleModel,
		Text: fmt.Sprintf("Session reset. I am your specialized %s coach. How can I assist you today?", models.PersonaName(m.persona)),
	}}
	m.persist()
	m.reopen(ctx)
	return nil
}

// preempt invalidates any in-flight stream and finalizes a partial
// message it may have left behind. Caller holds the lock.
func (m *Manager) preempt() {
	m.epoch++
	m.streaming = false
	if n := len(m.transcript); n > 0 && m.transcript[n-1].Streaming {
		m.transcript[n-1].Streaming = false
	}
}

// persist writes the transcript through. Caller holds the lock.
func (m *Manager) persist() {
	if err := m.store.SaveChatHistory(m.transcript); err != nil {
		m.logger.Warn("failed to persist chat history", zap.Error(err))
	}
}
