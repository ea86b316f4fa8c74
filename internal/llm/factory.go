package llm

import (
	"fmt"

	"taxsarthi/internal/config"
	"taxsarthi/internal/port"
)

// ProviderFactory is a function that creates a ChatModel from a provider config.
type ProviderFactory func(cfg *config.LLMProviderConfig) (port.ChatModel, error)

// registry of chat model provider factories, populated explicitly via
// RegisterProvider at composition time.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a chat model provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewChatModel creates a ChatModel from a provider config using the registered factory.
func NewChatModel(cfg *config.LLMProviderConfig) (port.ChatModel, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown chat model provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
