package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("unexpected provider: %q", cfg.LLMProvider)
	}
	if cfg.OpenAIModel != "gpt-4" || cfg.MaxTokens != 500 || cfg.Temperature != 0.7 {
		t.Fatalf("unexpected generation defaults: %+v", cfg)
	}
	if cfg.LLMTimeout != 60*time.Second || cfg.SearchTimeout != 15*time.Second {
		t.Fatalf("unexpected timeouts: llm=%s search=%s", cfg.LLMTimeout, cfg.SearchTimeout)
	}
	if cfg.TelegramBotToken != "" {
		t.Fatalf("telegram should be disabled by default")
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.SessionSweepSchedule != "@every 10m" {
		t.Fatalf("unexpected session sweep defaults: ttl=%s schedule=%q", cfg.SessionTTL, cfg.SessionSweepSchedule)
	}
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "yandex")
	t.Setenv("LLM_MAX_TOKENS", "256")
	t.Setenv("SEARCH_TIMEOUT", "3s")
	t.Setenv("HTTP_ADDR", ":9000")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.LLMProvider != ProviderYandex {
		t.Fatalf("provider override ignored: %q", cfg.LLMProvider)
	}
	if cfg.MaxTokens != 256 || cfg.SearchTimeout != 3*time.Second || cfg.HTTPAddr != ":9000" {
		t.Fatalf("overrides ignored: %+v", cfg)
	}
}

func TestParseInvalidDuration(t *testing.T) {
	t.Setenv("LLM_TIMEOUT", "soon")
	if _, err := Parse(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}
