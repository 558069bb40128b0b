package llm

import (
	"fmt"
	"os"
	"strings"

	"dmb-chatter/internal/config"
)

// DefaultSystemPrompt keeps replies short enough for a chat bubble.
const DefaultSystemPrompt = "You are %s, a small chat bot. Answer in one or two short sentences."

// Factory creates LLM clients from configuration.
type Factory struct {
	OpenaiAPIKey     string
	OpenaiBaseURL    string
	OpenaiModel      string
	YandexOAuthToken string
	YandexFolderID   string
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		OpenaiAPIKey:     cfg.OpenAIAPIKey,
		OpenaiBaseURL:    cfg.OpenAIBaseURL,
		OpenaiModel:      cfg.OpenAIModel,
		YandexOAuthToken: cfg.YandexOAuthToken,
		YandexFolderID:   cfg.YandexFolderID,
	}
}

// CreateClient returns nil, nil for an empty provider: the answerer is optional.
func (f *Factory) CreateClient(provider config.LLMProvider) (Client, error) {
	switch config.LLMProvider(strings.ToLower(string(provider))) {
	case config.ProviderNone:
		return nil, nil
	case config.ProviderOpenAI:
		if f.OpenaiAPIKey == "" {
			return nil, fmt.Errorf("openai provider needs OPENAI_API_KEY")
		}
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, f.OpenaiModel, nil), nil
	case config.ProviderYandex:
		c, err := NewYandex(f.YandexOAuthToken, f.YandexFolderID)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

// LoadSystemPrompt reads the prompt file, or formats the default one for botName.
func LoadSystemPrompt(path, botName string) (string, error) {
	if path == "" {
		return fmt.Sprintf(DefaultSystemPrompt, botName), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read system prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
