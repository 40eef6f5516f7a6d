package models

// uniform error responses
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Code + ": " + e.Message
}

// DashboardResponse aggregates the stored session list for the overview page
type DashboardResponse struct {
	TotalInterviews int          `json:"totalInterviews"`
	AverageScore    int          `json:"averageScore"`
	LastActive      string       `json:"lastActive,omitempty"`
	Topics          []TopicStats `json:"topics"`
}

// TopicStats is the per-topic average used by the performance chart
type TopicStats struct {
	Topic        string `json:"topic"`
	AverageScore int    `json:"averageScore"`
	Sessions     int    `json:"sessions"`
}

// BadgeResponse carries the generated image, or Found=false when the
// model produced none. Never an error status.
type BadgeResponse struct {
	Found bool   `json:"found"`
	Image string `json:"image,omitempty"`
}

// ChatTranscriptResponse is the restored transcript plus the active persona
type ChatTranscriptResponse struct {
	Persona  Persona       `json:"persona"`
	Messages []ChatMessage `json:"messages"`
}
