package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"health-coach/internal/coach"
	"health-coach/internal/config"
	"health-coach/internal/document"
	"health-coach/internal/llm"
	"health-coach/internal/prompt"
	"health-coach/internal/scheduler"
	"health-coach/internal/search"
	"health-coach/internal/session"
	"health-coach/internal/storage"
	"health-coach/internal/telegram"
	"health-coach/internal/web"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	llmClient, err := llm.NewFactory(cfg).CreateClient(string(cfg.LLMProvider), cfg.OpenAIModel)
	if err != nil {
		log.Fatalf("failed to create llm client: %v", err)
	}
	log.Printf("🤖 LLM provider: %s, model: %s", cfg.LLMProvider, cfg.OpenAIModel)

	persona := prompt.NewPersona(cfg.SystemPromptPath)
	if err := persona.Watch(ctx); err != nil {
		log.Printf("⚠️ persona hot reload disabled: %v", err)
	}

	if cfg.SerpAPIKey == "" {
		log.Printf("⚠️ SERPAPI_KEY is empty, replies will have no resources")
	}
	lookup := search.New(cfg.SerpAPIURL, cfg.SerpAPIKey, cfg.SearchTimeout)

	qa := document.NewHFQuestionAnswerer(cfg.QAAPIURL, cfg.QAModel, cfg.QAAPIToken, cfg.QATimeout)
	analyzer := document.NewAnalyzer(qa)

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			log.Printf("failed to init file recorder: %v", err)
		} else {
			rec = fr
			defer fr.Close()
		}
	}

	svc := coach.New(
		session.NewManager(),
		coach.NewEngine(llmClient, persona, cfg.LLMTimeout),
		lookup,
		analyzer,
		rec,
	)

	sched := scheduler.New(cfg.ReportSchedule)
	if rec != nil && cfg.ReportSchedule != "" {
		sched.SetReportFunction(scheduler.DailyReport(rec, time.Now, scheduler.LogSummary))
	}
	err = sched.AddJob(cfg.SessionSweepSchedule, "idle session sweep", func(ctx context.Context) error {
		svc.EvictIdle(cfg.SessionTTL)
		return nil
	})
	if err != nil {
		log.Printf("failed to schedule session sweep: %v", err)
	}
	if err := sched.Start(); err != nil {
		log.Printf("failed to start scheduler: %v", err)
	}

	if cfg.TelegramBotToken != "" {
		bot, err := telegram.New(cfg.TelegramBotToken, svc)
		if err != nil {
			log.Printf("failed to create telegram bot: %v", err)
		} else {
			go bot.Start(ctx)
		}
	}

	server := web.NewWebServer(svc, cfg.HTTPAddr)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("web server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("🛑 Shutting down")

	sched.Stop()
	if err := server.Stop(); err != nil {
		log.Printf("web server shutdown: %v", err)
	}
}
