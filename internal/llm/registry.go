package llm

import (
	"fmt"

	"interviewmaster/server/internal/prompts"
)

// defines a function that creates a new gateway instance
type GatewayFactory func(pm prompts.Provider) (Gateway, error)

// global registry of available providers
var gateways = make(map[string]GatewayFactory)

// registers a gateway factory with the given name
func RegisterGateway(name string, factory GatewayFactory) {
	gateways[name] = factory
}

// creates a new gateway instance based on the given provider name
func NewGateway(name string, pm prompts.Provider) (Gateway, error) {
	factory, exists := gateways[name]
	if !exists {
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
	return factory(pm)
}
