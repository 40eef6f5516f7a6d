package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/genai"

	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/models"
	"interviewmaster/server/internal/prompts"
)

// Client implements llm.Gateway against the Gemini API.
type Client struct {
	client  *genai.Client
	config  *Config
	prompts prompts.Provider
}

func NewClient(config *Config, pm prompts.Provider) (*Client, error) {
	ctx := context.Background()

	clientConfig := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.Endpoint != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: config.Endpoint}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeAPIKey,
			Message:  "Failed to create Gemini client",
			Err:      err,
		}
	}

	return &Client{
		client:  client,
		config:  config,
		prompts: pm,
	}, nil
}

func (c *Client) GetProviderName() string {
	return "gemini"
}

// generateJSON performs one structured-output round trip and returns the raw
// JSON text of the response.
func (c *Client) generateJSON(ctx context.Context, model, prompt string, schema *genai.Schema, thinking *genai.ThinkingConfig) ([]byte, error) {
	result, err := c.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
			ThinkingConfig:   thinking,
		},
	)
	if err != nil {
		return nil, c.wrapRemoteError("Generation request failed", err)
	}
	text := result.Text()
	if text == "" {
		return nil, &llm.ProviderError{
			Provider: "gemini",
			Code:     llm.ErrCodeInvalidOutput,
			Message:  "Empty response generated",
		}
	}
	return []byte(text), nil
}

// ListSubtopics returns 5 focus areas for the topic, or the fixed fallback
// list when the remote call or decode fails. Never returns an error.
func (c *Client) ListSubtopics(ctx context.Context, topic string) []string {
	prompt, err := c.prompts.BuildPrompt("subtopics", prompts.DefaultVariant, map[string]string{
		"Topic": topic,
	})
	if err != nil {
		return llm.FallbackSubtopics
	}

	raw, err := c.generateJSON(ctx, c.config.FlashModel, prompt, subtopicsSchema, nil)
	if err != nil {
		return llm.FallbackSubtopics
	}

	subtopics, err := decodeSubtopics(raw)
	if err != nil {
		return llm.FallbackSubtopics
	}
	return subtopics
}

func (c *Client) GenerateQuestion(ctx context.Context, params llm.QuestionParams) (*models.Question, error) {
	excludeIDs, _ := json.Marshal(params.ExcludeIDs)
	variant := strings.ToLower(string(params.Difficulty))

	prompt, err := c.prompts.BuildPrompt("question", variant, map[string]string{
		"Topic":      params.Topic,
		"Subtopic":   params.Subtopic,
		"Difficulty": strings.ToUpper(string(params.Difficulty)),
		"ExcludeIDs": string(excludeIDs),
	})
	if err != nil {
		return nil, err
	}

	// Advanced questions get extra reasoning budget
	var thinking *genai.ThinkingConfig
	if params.Difficulty == models.DifficultyAdvanced && c.config.ThinkingBudget > 0 {
		thinking = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(c.config.ThinkingBudget)}
	}

	raw, err := c.generateJSON(ctx, c.config.ProModel, prompt, questionSchema, thinking)
	if err != nil {
		return nil, err
	}
	return decodeQuestion(raw)
}

func (c *Client) ValidateAnswer(ctx context.Context, params llm.ValidationParams) (*models.ValidationResult, error) {
	options, _ := json.Marshal(params.Question.Options)
	selected := ""
	if params.OptionIndex >= 0 && params.OptionIndex < len(params.Question.Options) {
		selected = params.Question.Options[params.OptionIndex]
	}

	prompt, err := c.prompts.BuildPrompt("validation", prompts.DefaultVariant, map[string]string{
		"Question":    params.Question.Text,
		"Options":     string(options),
		"Selected":    selected,
		"OptionIndex": strconv.Itoa(params.OptionIndex),
		"Explanation": params.Explanation,
		"Attempt":     strconv.Itoa(params.Attempt),
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.generateJSON(ctx, c.config.ProModel, prompt, validationSchema, nil)
	if err != nil {
		return nil, err
	}
	return decodeValidation(raw)
}

func (c *Client) GenerateReport(ctx context.Context, topic string, history []models.AnswerAttempt) (*models.InterviewReport, error) {
	historyJSON, _ := json.Marshal(history)

	prompt, err := c.prompts.BuildPrompt("report", prompts.DefaultVariant, map[string]string{
		"Topic":   topic,
		"History": string(historyJSON),
	})
	if err != nil {
		return nil, err
	}

	raw, err := c.generateJSON(ctx, c.config.ProModel, prompt, reportSchema, nil)
	if err != nil {
		return nil, err
	}
	return decodeReport(raw)
}

// GenerateBadge returns a rendered badge image, or nil when the model
// produced none or the call failed. Never returns an error.
func (c *Client) GenerateBadge(ctx context.Context, badgePrompt string, ratio models.AspectRatio, size models.ImageSize) *models.BadgeImage {
	// High resolution tiers route to the pro image model
	model := c.config.ImageModel
	imageConfig := &genai.ImageConfig{AspectRatio: string(ratio)}
	if size == models.Size2K || size == models.Size4K {
		model = c.config.ProImageModel
		imageConfig.ImageSize = string(size)
	}

	prompt, err := c.prompts.BuildPrompt("badge", prompts.DefaultVariant, map[string]string{
		"Prompt": badgePrompt,
	})
	if err != nil {
		return nil
	}

	result, err := c.client.Models.GenerateContent(
		ctx,
		model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ImageConfig: imageConfig},
	)
	if err != nil {
		return nil
	}

	for _, candidate := range result.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return &models.BadgeImage{
					MIMEType: part.InlineData.MIMEType,
					Data:     base64.StdEncoding.EncodeToString(part.InlineData.Data),
				}
			}
		}
	}
	return nil
}

func (c *Client) wrapRemoteError(message string, err error) error {
	code := llm.ErrCodeServiceDown
	if isRateLimitError(err) {
		code = llm.ErrCodeRateLimit
	}
	return &llm.ProviderError{
		Provider: "gemini",
		Code:     code,
		Message:  message,
		Err:      err,
	}
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
}

// --- response decoding ---

func invalidOutput(message string, err error) error {
	return &llm.ProviderError{
		Provider: "gemini",
		Code:     llm.ErrCodeInvalidOutput,
		Message:  message,
		Err:      err,
	}
}

func decodeSubtopics(raw []byte) ([]string, error) {
	var subtopics []string
	if err := json.Unmarshal(raw, &subtopics); err != nil {
		return nil, invalidOutput("Subtopic list failed to parse", err)
	}
	out := subtopics[:0]
	for _, s := range subtopics {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, invalidOutput("Subtopic list was empty", nil)
	}
	return out, nil
}

func decodeQuestion(raw []byte) (*models.Question, error) {
	var decoded struct {
		ID      string   `json:"id"`
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, invalidOutput("Question failed to parse", err)
	}
	if strings.TrimSpace(decoded.Text) == "" {
		return nil, invalidOutput("Question text was empty", nil)
	}
	if len(decoded.Options) != models.QuestionOptionCount {
		return nil, invalidOutput("Question did not contain exactly 4 options", nil)
	}
	if decoded.ID == "" {
		decoded.ID = uuid.New().String()
	}
	return &models.Question{
		ID:      decoded.ID,
		Text:    decoded.Text,
		Options: decoded.Options,
	}, nil
}

func decodeValidation(raw []byte) (*models.ValidationResult, error) {
	var result models.ValidationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, invalidOutput("Validation result failed to parse", err)
	}
	switch result.Status {
	case models.StatusCorrect, models.StatusIncorrect, models.StatusDeviating:
	default:
		return nil, invalidOutput("Validation status out of range", nil)
	}
	if strings.TrimSpace(result.Feedback) == "" {
		return nil, invalidOutput("Validation feedback was empty", nil)
	}
	return &result, nil
}

func decodeReport(raw []byte) (*models.InterviewReport, error) {
	var decoded struct {
		OverallScore float64           `json:"overallScore"`
		Summary      string            `json:"summary"`
		WeakAreas    []string          `json:"weakAreas"`
		StrongAreas  []string          `json:"strongAreas"`
		Resources    []models.Resource `json:"suggestedResources"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, invalidOutput("Report failed to parse", err)
	}
	if strings.TrimSpace(decoded.Summary) == "" {
		return nil, invalidOutput("Report summary was empty", nil)
	}
	score := int(math.Round(decoded.OverallScore))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return &models.InterviewReport{
		OverallScore: score,
		Summary:      decoded.Summary,
		WeakAreas:    decoded.WeakAreas,
		StrongAreas:  decoded.StrongAreas,
		Resources:    decoded.Resources,
	}, nil
}

