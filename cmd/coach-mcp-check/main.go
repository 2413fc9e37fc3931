package main

import (
	"context"
	"fmt"
	"os"

	"health-coach/internal/coachmcp"
	"health-coach/internal/document"
)

func main() {
	fmt.Println("🧪 Testing Health Coach MCP Integration")
	fmt.Println("=======================================")

	client := coachmcp.NewClient()
	ctx := context.Background()

	fmt.Println("🔗 Starting coach MCP server...")
	fmt.Println("💡 Build it first: go build -o bin/coach-mcp-server ./cmd/coach-mcp-server")
	fmt.Println("")

	if err := client.Connect(ctx); err != nil {
		fmt.Printf("❌ Connection failed: %v\n", err)
		fmt.Println("\n💡 Please ensure:")
		fmt.Println("   1. bin/coach-mcp-server exists or COACH_MCP_SERVER_PATH is set")
		fmt.Println("   2. SERPAPI_KEY is set for resource lookup")
		fmt.Println("   3. QA_API_TOKEN is set for document analysis")
		os.Exit(1)
	}
	defer client.Close()

	fmt.Println("✅ Connected successfully!")

	query := "improving sleep quality"
	if len(os.Args) > 1 {
		query = os.Args[1]
	}

	fmt.Printf("\n🔎 Looking up resources for %q...\n", query)
	report(client.LookupResources(ctx, query))

	fmt.Println("\n📄 Analyzing a sample document...")
	sample := "Patient reports poor sleep. Recommended 30 minutes of walking daily " +
		"and magnesium 200mg before bed. Follow up in four weeks."
	report(client.AnalyzeDocument(ctx, "sample.txt", document.MimeText, []byte(sample)))

	fmt.Println("\n🎉 MCP check completed!")
}

func report(res coachmcp.Result) {
	if res.Success {
		fmt.Printf("✅ %s\n", res.Message)
		return
	}
	fmt.Printf("❌ %s\n", res.Message)
}
