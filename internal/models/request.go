package models

import (
	"strings"
)

// CanonicalDifficulty maps free-form input to a valid difficulty
func CanonicalDifficulty(s string) (Difficulty, bool) {
	s = strings.TrimSpace(s)
	for difficulty := range ValidDifficulties {
		if strings.EqualFold(string(difficulty), s) {
			return difficulty, true
		}
	}
	return "", false
}

// CanonicalPersona maps free-form input to a valid persona
func CanonicalPersona(s string) (Persona, bool) {
	p := Persona(strings.ToLower(strings.TrimSpace(s)))
	if ValidPersonas[p] {
		return p, true
	}
	return "", false
}

type TopicRequest struct {
	Topic string `json:"topic"`
}

// implements the Validator interface
func (r *TopicRequest) Validate() error {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return &ErrorResponse{
			Code:    "missing_topic",
			Message: "Topic field is required",
		}
	}
	return nil
}

type SubtopicRequest struct {
	Subtopic string `json:"subtopic"`
}

func (r *SubtopicRequest) Validate() error {
	r.Subtopic = strings.TrimSpace(r.Subtopic)
	if r.Subtopic == "" {
		return &ErrorResponse{
			Code:    "missing_subtopic",
			Message: "Subtopic field is required",
		}
	}
	return nil
}

type DifficultyRequest struct {
	Difficulty string `json:"difficulty"`
}

func (r *DifficultyRequest) Validate() error {
	d, ok := CanonicalDifficulty(r.Difficulty)
	if !ok {
		return &ErrorResponse{
			Code:    "invalid_difficulty",
			Message: "Difficulty must be one of: " + strings.Join(ValidDifficultiesList(), ", "),
		}
	}
	r.Difficulty = string(d)
	return nil
}

// AnswerRequest is one answer submission. OptionIndex is a pointer so that
// "no option selected" is distinguishable from option zero.
type AnswerRequest struct {
	OptionIndex *int   `json:"optionIndex"`
	Explanation string `json:"explanation"`
}

func (r *AnswerRequest) Validate() error {
	if r.OptionIndex == nil {
		return &ErrorResponse{
			Code:    "missing_option",
			Message: "An option must be selected before submitting",
		}
	}
	if *r.OptionIndex < 0 || *r.OptionIndex >= QuestionOptionCount {
		return &ErrorResponse{
			Code:    "invalid_option",
			Message: "Option index out of range",
		}
	}
	if strings.TrimSpace(r.Explanation) == "" {
		return &ErrorResponse{
			Code:    "missing_explanation",
			Message: "A written justification is required",
		}
	}
	return nil
}

type ChatSendRequest struct {
	Text string `json:"text"`
}

func (r *ChatSendRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return &ErrorResponse{
			Code:    "empty_message",
			Message: "Message text must not be blank",
		}
	}
	return nil
}

type PersonaRequest struct {
	Persona string `json:"persona"`
}

func (r *PersonaRequest) Validate() error {
	p, ok := CanonicalPersona(r.Persona)
	if !ok {
		return &ErrorResponse{
			Code:    "invalid_persona",
			Message: "Persona must be one of: " + strings.Join(ValidPersonasList(), ", "),
		}
	}
	r.Persona = string(p)
	return nil
}

// ChatResetRequest clears the transcript. The confirmation flag stands in
// for the UI confirm dialog; a reset without it is rejected.
type ChatResetRequest struct {
	Confirm bool `json:"confirm"`
}

func (r *ChatResetRequest) Validate() error {
	if !r.Confirm {
		return &ErrorResponse{
			Code:    "not_confirmed",
			Message: "Reset requires confirmation",
		}
	}
	return nil
}

type ProfileRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsGuest bool   `json:"isGuest"`
	Theme   string `json:"theme"`
}

func (r *ProfileRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" && !r.IsGuest {
		return &ErrorResponse{
			Code:    "missing_name",
			Message: "Name field is required",
		}
	}
	if r.Theme == "" {
		r.Theme = string(ThemeLight)
	}
	if r.Theme != string(ThemeLight) && r.Theme != string(ThemeDark) {
		return &ErrorResponse{
			Code:    "invalid_theme",
			Message: "Theme must be light or dark",
		}
	}
	return nil
}

type BadgeRequest struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio"`
	ImageSize   string `json:"imageSize"`
}

func (r *BadgeRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return &ErrorResponse{
			Code:    "missing_prompt",
			Message: "Prompt field is required",
		}
	}
	if r.AspectRatio == "" {
		r.AspectRatio = string(AspectSquare)
	}
	if !ValidAspectRatios[AspectRatio(r.AspectRatio)] {
		return &ErrorResponse{
			Code:    "invalid_aspect_ratio",
			Message: "Aspect ratio must be one of: 1:1, 3:4, 4:3, 9:16, 16:9",
		}
	}
	if r.ImageSize == "" {
		r.ImageSize = string(Size1K)
	}
	if !ValidImageSizes[ImageSize(r.ImageSize)] {
		return &ErrorResponse{
			Code:    "invalid_image_size",
			Message: "Image size must be one of: 1K, 2K, 4K",
		}
	}
	return nil
}
