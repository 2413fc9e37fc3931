package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"health-coach/internal/coachmcp"
	"health-coach/internal/config"
	"health-coach/internal/document"
	"health-coach/internal/search"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}
	cfg := config.New()

	log.Printf("🚀 Starting Health Coach MCP Server")
	log.Printf("🔎 Search key available: %v", cfg.SerpAPIKey != "")
	log.Printf("📄 QA token available: %v", cfg.QAAPIToken != "")

	qa := document.NewHFQuestionAnswerer(cfg.QAAPIURL, cfg.QAModel, cfg.QAAPIToken, cfg.QATimeout)
	server := coachmcp.NewServer(
		search.New(cfg.SerpAPIURL, cfg.SerpAPIKey, cfg.SearchTimeout),
		document.NewAnalyzer(qa),
	)

	log.Printf("📋 Registered MCP tools: %s, %s", coachmcp.ToolLookupResources, coachmcp.ToolAnalyzeDocument)
	log.Printf("🔗 Starting MCP server on stdin/stdout...")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("❌ Health Coach MCP Server failed: %v", err)
	}
}
