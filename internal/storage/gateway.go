package storage

import (
	"encoding/json"

	"go.uber.org/zap"

	"interviewmaster/server/internal/models"
)

// Logical record keys. One JSON document per concern.
const (
	keyUser     = "interview_master_user"
	keySessions = "interview_master_sessions"
	keyChat     = "interview_master_chat"
)

// Gateway exposes the typed persistence surface. Reads never fail the
// caller: an absent or unreadable record yields the zero value and a log
// line. Writes report their errors.
type Gateway struct {
	store  *Store
	logger *zap.Logger
}

func NewGateway(store *Store, logger *zap.Logger) *Gateway {
	return &Gateway{store: store, logger: logger}
}

// User returns the stored profile, or nil when none exists.
func (g *Gateway) User() *models.User {
	var user models.User
	if !g.read(keyUser, &user) {
		return nil
	}
	return &user
}

func (g *Gateway) SaveUser(user *models.User) error {
	return g.write(keyUser, user)
}

func (g *Gateway) ClearUser() error {
	return g.store.Clear(keyUser)
}

// Sessions returns completed sessions in insertion order.
func (g *Gateway) Sessions() []models.InterviewSession {
	var sessions []models.InterviewSession
	g.read(keySessions, &sessions)
	return sessions
}

// SaveSession upserts one session by id: an existing entry is replaced in
// place, a new one is appended. The whole list is rewritten either way.
func (g *Gateway) SaveSession(session models.InterviewSession) error {
	sessions := g.Sessions()

	replaced := false
	for i := range sessions {
		if sessions[i].ID == session.ID {
			sessions[i] = session
			replaced = true
			break
		}
	}
	if !replaced {
		sessions = append(sessions, session)
	}

	return g.write(keySessions, sessions)
}

// SessionsByTopic groups stored sessions for dashboard aggregation.
func (g *Gateway) SessionsByTopic() map[string][]models.InterviewSession {
	grouped := make(map[string][]models.InterviewSession)
	for _, session := range g.Sessions() {
		grouped[session.Topic] = append(grouped[session.Topic], session)
	}
	return grouped
}

// ChatHistory returns the persisted transcript. Empty turns and in-flight
// streaming markers never survive a round trip.
func (g *Gateway) ChatHistory() []models.ChatMessage {
	var history []models.ChatMessage
	g.read(keyChat, &history)

	out := history[:0]
	for _, msg := range history {
		if msg.Text == "" {
			continue
		}
		msg.Streaming = false
		out = append(out, msg)
	}
	return out
}

func (g *Gateway) SaveChatHistory(history []models.ChatMessage) error {
	persistable := make([]models.ChatMessage, 0, len(history))
	for _, msg := range history {
		if msg.Text == "" {
			continue
		}
		msg.Streaming = false
		persistable = append(persistable, msg)
	}
	return g.write(keyChat, persistable)
}

func (g *Gateway) ClearChatHistory() error {
	return g.store.Clear(keyChat)
}

// read unmarshals the record into out, reporting whether a usable value
// was found. Corrupt records are treated as absent.
func (g *Gateway) read(key string, out any) bool {
	value, found, err := g.store.Get(key)
	if err != nil {
		g.logger.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal([]byte(value), out); err != nil {
		g.logger.Warn("discarding corrupt record", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (g *Gateway) write(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return g.store.Set(key, string(data))
}
