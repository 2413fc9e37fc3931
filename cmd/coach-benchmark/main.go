package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"health-coach/internal/config"
	"health-coach/internal/llm"
	"health-coach/internal/prompt"
)

var (
	temperatureValues = []float32{0.2, 0.7, 1.0}
	maxTokensValues   = []int{200, 500, 800}
)

const defaultQuestion = "I sleep about five hours a night and feel tired all day. What should I change first?"

func main() {
	log.Printf("🚀 Starting coach reply benchmark")

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.New()

	question := defaultQuestion
	if len(os.Args) > 1 {
		question = os.Args[1]
	}
	persona := prompt.NewPersona(cfg.SystemPromptPath).Text()
	factory := llm.NewFactory(cfg)

	newClient := func(opts llm.Options) (llm.Client, error) {
		f := *factory
		f.Options = opts
		return f.CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	}

	log.Printf("🎯 Provider: %s, model: %s", cfg.LLMProvider, cfg.OpenAIModel)
	log.Printf("❓ Question: %s", question)
	ctx := context.Background()

	log.Printf("\n🌡️ Testing temperature values in parallel...")
	start := time.Now()
	tempResults := runSweep(ctx, newClient, persona, question, temperatureVariants(cfg.MaxTokens))
	log.Printf("⏱️ Temperature tests completed in: %v", time.Since(start))
	printSummary("Temperature", tempResults)

	log.Printf("\n🔢 Testing max_tokens values in parallel...")
	start = time.Now()
	tokenResults := runSweep(ctx, newClient, persona, question, maxTokensVariants(cfg.Temperature))
	log.Printf("⏱️ Max tokens tests completed in: %v", time.Since(start))
	printSummary("Max Tokens", tokenResults)

	log.Printf("\n🎉 Benchmark completed")
}
