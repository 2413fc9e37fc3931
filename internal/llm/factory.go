package llm

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"health-coach/internal/config"
)

const (
	ProviderOpenAI = "openai"
	ProviderYandex = "yandex"
)

// Factory creates LLM clients with consistent logic
type Factory struct {
	OpenaiAPIKey       string
	OpenaiBaseURL      string
	OpenRouterReferrer string
	OpenRouterTitle    string
	YandexOAuthToken   string
	YandexFolderID     string
	Options            Options
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{
		OpenaiAPIKey:       cfg.OpenAIAPIKey,
		OpenaiBaseURL:      cfg.OpenAIBaseURL,
		OpenRouterReferrer: cfg.OpenRouterReferrer,
		OpenRouterTitle:    cfg.OpenRouterTitle,
		YandexOAuthToken:   cfg.YandexOAuthToken,
		YandexFolderID:     cfg.YandexFolderID,
		Options: Options{
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		},
	}
}

func (f *Factory) CreateClient(provider, model string) (Client, error) {
	switch strings.ToLower(provider) {
	case ProviderOpenAI:
		return NewOpenAI(f.OpenaiAPIKey, f.OpenaiBaseURL, model, f.OpenRouterReferrer, f.OpenRouterTitle, f.Options), nil
	case ProviderYandex:
		warnYandexOptions(f.Options)
		return NewYandex(f.YandexOAuthToken, f.YandexFolderID)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", provider)
	}
}

var yandexOptionsWarning sync.Once

// warnYandexOptions logs once that YaGPT runs with its own generation
// defaults instead of the configured temperature and token limit.
func warnYandexOptions(opts Options) {
	if opts == (Options{}) {
		return
	}
	yandexOptionsWarning.Do(func() {
		log.Printf("⚠️ YandexGPT ignores LLM_TEMPERATURE=%.2f and LLM_MAX_TOKENS=%d, using provider defaults", opts.Temperature, opts.MaxTokens)
	})
}
