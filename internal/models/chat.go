package models

// ChatRole identifies the author of a transcript turn
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatMessage is one turn in a coaching conversation. Streaming is a
// transient in-flight marker and is never persisted.
type ChatMessage struct {
	Role      ChatRole `json:"role"`
	Text      string   `json:"text"`
	Streaming bool     `json:"isStreaming,omitempty"`
}

// Persona is a named coaching personality with its own system instruction
type Persona string

const (
	PersonaBalanced  Persona = "balanced"
	PersonaDSA       Persona = "dsa"
	PersonaArchitect Persona = "architect"
)

// PersonaName returns the display name used in greetings and switch markers
func PersonaName(p Persona) string {
	switch p {
	case PersonaDSA:
		return "Algorithmist"
	case PersonaArchitect:
		return "Architect"
	default:
		return "Tech Lead"
	}
}
