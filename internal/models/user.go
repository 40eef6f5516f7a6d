package models

// Theme is a UI preference persisted with the profile
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Preferences holds per-user presentation settings
type Preferences struct {
	Theme Theme `json:"theme"`
}

// User is the local profile record. There is no real authentication:
// a "guest" user is just a profile with IsGuest set.
type User struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	IsGuest     bool        `json:"isGuest"`
	AvatarURL   string      `json:"avatarUrl,omitempty"`
	Preferences Preferences `json:"preferences"`
}
