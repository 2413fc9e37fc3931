// Package coachmcp exposes resource lookup and document analysis over the
// Model Context Protocol.
package coachmcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"health-coach/internal/coach"
	"health-coach/internal/document"
)

type LookupParams struct {
	Query string `json:"query" mcp:"topic to search for (e.g., 'improving sleep quality')"`
}

type AnalyzeParams struct {
	FileName string `json:"file_name,omitempty" mcp:"original file name, used for logging only"`
	MimeType string `json:"mime_type" mcp:"one of application/pdf, application/vnd.openxmlformats-officedocument.wordprocessingml.document, text/plain"`
	Content  string `json:"content" mcp:"base64 encoded file content"`
}

// Tools implements the coach MCP tools.
type Tools struct {
	lookup   coach.ResourceLookup
	analyzer coach.DocumentAnalyzer
}

func NewTools(lookup coach.ResourceLookup, analyzer coach.DocumentAnalyzer) *Tools {
	return &Tools{lookup: lookup, analyzer: analyzer}
}

const (
	ToolLookupResources = "lookup_resources"
	ToolAnalyzeDocument = "analyze_document"
)

// NewServer builds an MCP server with the coach tools registered.
func NewServer(lookup coach.ResourceLookup, analyzer coach.DocumentAnalyzer) *mcp.Server {
	tools := NewTools(lookup, analyzer)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "health-coach-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolLookupResources,
		Description: "Finds up to 3 articles and 2 videos about a health or wellness topic",
	}, tools.LookupResources)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolAnalyzeDocument,
		Description: "Extracts key findings, recommendations, medications and follow-ups from a PDF, DOCX or TXT document",
	}, tools.AnalyzeDocument)

	return server
}

func (c *Tools) LookupResources(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[LookupParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	log.Printf("🔎 MCP Server: Looking up resources for %q", args.Query)

	if strings.TrimSpace(args.Query) == "" {
		return errorResult("query must not be empty"), nil
	}

	res := c.lookup.Lookup(ctx, args.Query)
	if res == nil {
		return &mcp.CallToolResultFor[any]{
			Content: []mcp.Content{&mcp.TextContent{Text: "No resources available for this query."}},
			Meta:    map[string]interface{}{"query": args.Query, "success": false},
		}, nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resources for %q:\n", args.Query))
	if len(res.Articles) > 0 {
		sb.WriteString("\nArticles:\n")
		for i, a := range res.Articles {
			sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, a.Title, a.Link))
		}
	}
	if len(res.Videos) > 0 {
		sb.WriteString("\nVideos:\n")
		for i, v := range res.Videos {
			sb.WriteString(fmt.Sprintf("%d. %s\n   %s\n", i+1, v.Title, v.Link))
		}
	}
	if res.Count() == 0 {
		sb.WriteString("\nNo results found.\n")
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: sb.String()}},
		Meta: map[string]interface{}{
			"query":     args.Query,
			"resources": res,
			"success":   true,
		},
	}, nil
}

func (c *Tools) AnalyzeDocument(ctx context.Context, session *mcp.ServerSession, params *mcp.CallToolParamsFor[AnalyzeParams]) (*mcp.CallToolResultFor[any], error) {
	args := params.Arguments
	log.Printf("📄 MCP Server: Analyzing document %q (%s)", args.FileName, args.MimeType)

	data, err := base64.StdEncoding.DecodeString(args.Content)
	if err != nil {
		return errorResult("content is not valid base64: " + err.Error()), nil
	}

	report, err := c.analyzer.Analyze(ctx, data, args.MimeType, int64(len(data)))
	if err != nil {
		log.Printf("❌ MCP Server: analysis failed: %v", err)
		return errorResult(document.Message(err)), nil
	}

	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{&mcp.TextContent{Text: report}},
		Meta: map[string]interface{}{
			"file_name": args.FileName,
			"size":      len(data),
			"success":   true,
		},
	}, nil
}

func errorResult(text string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}
