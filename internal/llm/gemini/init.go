package gemini

import (
	"interviewmaster/server/internal/llm"
	"interviewmaster/server/internal/prompts"
)

func init() {
	llm.RegisterGateway("gemini", func(pm prompts.Provider) (llm.Gateway, error) {
		cfg, err := NewConfig()
		if err != nil {
			return nil, err
		}
		return NewClient(cfg, pm)
	})
}
