package coachmcp

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"os/exec"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const defaultServerPath = "./bin/coach-mcp-server"

// Result is the outcome of a tool call.
type Result struct {
	Success bool
	Message string
}

// Client talks to a coach MCP server.
type Client struct {
	client  *mcp.Client
	session *mcp.ClientSession
}

func NewClient() *Client {
	return &Client{
		client: mcp.NewClient(&mcp.Implementation{
			Name:    "health-coach-client",
			Version: "1.0.0",
		}, nil),
	}
}

// Connect starts the server binary as a subprocess and connects over stdio.
// COACH_MCP_SERVER_PATH overrides the binary location.
func (c *Client) Connect(ctx context.Context) error {
	serverPath := defaultServerPath
	if customPath := os.Getenv("COACH_MCP_SERVER_PATH"); customPath != "" {
		serverPath = customPath
	}
	log.Printf("🔗 Connecting to coach MCP server at %s", serverPath)

	if _, err := os.Stat(serverPath); err != nil {
		return fmt.Errorf("coach MCP server binary not found at %s: %w", serverPath, err)
	}

	cmd := exec.CommandContext(ctx, serverPath)
	cmd.Env = os.Environ()
	return c.ConnectTransport(ctx, mcp.NewCommandTransport(cmd))
}

// ConnectTransport connects over an already prepared transport.
func (c *Client) ConnectTransport(ctx context.Context, transport mcp.Transport) error {
	session, err := c.client.Connect(ctx, transport)
	if err != nil {
		return fmt.Errorf("failed to connect to coach MCP server: %w", err)
	}
	c.session = session
	log.Printf("✅ Connected to coach MCP server")
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) LookupResources(ctx context.Context, query string) Result {
	return c.call(ctx, ToolLookupResources, map[string]any{"query": query})
}

func (c *Client) AnalyzeDocument(ctx context.Context, fileName, mimeType string, data []byte) Result {
	return c.call(ctx, ToolAnalyzeDocument, map[string]any{
		"file_name": fileName,
		"mime_type": mimeType,
		"content":   base64.StdEncoding.EncodeToString(data),
	})
}

func (c *Client) call(ctx context.Context, tool string, args map[string]any) Result {
	if c.session == nil {
		return Result{Success: false, Message: "coach MCP session not connected"}
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{Name: tool, Arguments: args})
	if err != nil {
		log.Printf("❌ coach MCP %s error: %v", tool, err)
		return Result{Success: false, Message: fmt.Sprintf("%s error: %v", tool, err)}
	}

	var text string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			text += tc.Text
		}
	}
	return Result{Success: !result.IsError, Message: text}
}
