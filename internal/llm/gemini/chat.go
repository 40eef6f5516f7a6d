package gemini

import (
	"context"

	"google.golang.org/genai"

	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/models"
)

// chatSession wraps a remote Gemini chat bound to one persona's system
// instruction. The underlying handle accumulates history server-side.
type chatSession struct {
	chat *genai.Chat
}

// OpenChat creates a streaming chat session seeded with the given transcript.
// The persona selects the system instruction; unknown personas fall back to
// the balanced coach.
func (c *Client) OpenChat(ctx context.Context, history []models.ChatMessage, persona models.Persona) (llm.ChatSession, error) {
	instruction, err := c.prompts.BuildPrompt("chat", string(persona), nil)
	if err != nil {
		instruction, err = c.prompts.BuildPrompt("chat", string(models.PersonaBalanced), nil)
		if err != nil {
			return nil, err
		}
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if msg.Text == "" {
			continue
		}
		role := genai.Role(genai.RoleUser)
		if msg.Role == models.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Text, role))
	}

	chat, err := c.client.Chats.Create(
		ctx,
		c.config.FlashModel,
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		},
		contents,
	)
	if err != nil {
		return nil, c.wrapRemoteError("Failed to open chat session", err)
	}

	return &chatSession{chat: chat}, nil
}

// Send streams one reply. The fragment channel closes at end of stream; the
// error channel carries at most one failure and terminates the send.
func (s *chatSession) Send(ctx context.Context, text string) (<-chan string, <-chan error) {
	fragments := make(chan string, 16)
	errs := make(chan error, 1)

	go func() {
		defer close(fragments)
		for resp, err := range s.chat.SendMessageStream(ctx, genai.Part{Text: text}) {
			if err != nil {
				errs <- &llm.ProviderError{
					Provider: "gemini",
					Code:     llm.ErrCodeServiceDown,
					Message:  "Chat stream failed",
					Err:      err,
				}
				return
			}
			fragment := resp.Text()
			if fragment == "" {
				continue
			}
			select {
			case fragments <- fragment:
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
	}()

	return fragments, errs
}
