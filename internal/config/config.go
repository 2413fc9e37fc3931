package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type LLMProvider string

const (
	ProviderOpenAI LLMProvider = "openai"
	ProviderYandex LLMProvider = "yandex"
)

type Config struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8501"`

	// LLM settings
	LLMProvider      LLMProvider   `env:"LLM_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey     string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL    string        `env:"OPENAI_BASE_URL"`
	OpenAIModel      string        `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	YandexOAuthToken string        `env:"YANDEX_OAUTH_TOKEN"`
	YandexFolderID   string        `env:"YANDEX_FOLDER_ID"`
	Temperature      float32       `env:"LLM_TEMPERATURE" envDefault:"0.7"`
	MaxTokens        int           `env:"LLM_MAX_TOKENS" envDefault:"500"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`

	// OpenRouter (optional)
	OpenRouterReferrer string `env:"OPENROUTER_REFERRER"`
	OpenRouterTitle    string `env:"OPENROUTER_TITLE"`

	// Prompts
	SystemPromptPath string `env:"SYSTEM_PROMPT_PATH"`

	// Search
	SerpAPIKey    string        `env:"SERPAPI_KEY"`
	SerpAPIURL    string        `env:"SERPAPI_URL" envDefault:"https://serpapi.com/search"`
	SearchTimeout time.Duration `env:"SEARCH_TIMEOUT" envDefault:"15s"`

	// Document question answering
	QAAPIURL   string        `env:"QA_API_URL" envDefault:"https://api-inference.huggingface.co/models"`
	QAAPIToken string        `env:"QA_API_TOKEN"`
	QAModel    string        `env:"QA_MODEL" envDefault:"deepset/roberta-base-squad2"`
	QATimeout  time.Duration `env:"QA_TIMEOUT" envDefault:"60s"`

	// Storage
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/interactions.jsonl"`

	// Daily usage report, cron syntax
	ReportSchedule string `env:"REPORT_SCHEDULE" envDefault:"0 21 * * *"`

	// Sessions unused for SESSION_TTL are dropped by a sweep on SESSION_SWEEP_SCHEDULE
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SessionSweepSchedule string        `env:"SESSION_SWEEP_SCHEDULE" envDefault:"@every 10m"`

	// Telegram front end is started only when a token is present
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
}

func New() *Config {
	cfg, err := Parse()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}

// Parse reads the configuration from the environment.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
