package coachmcp

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-coach/internal/document"
	"health-coach/internal/session"
)

type stubLookup struct{ res *session.Resources }

func (s stubLookup) Lookup(ctx context.Context, query string) *session.Resources { return s.res }

type stubAnalyzer struct{ gotMime string }

func (s *stubAnalyzer) Analyze(ctx context.Context, data []byte, mimeType string, size int64) (string, error) {
	s.gotMime = mimeType
	if mimeType != document.MimeText {
		return "", document.ErrUnsupportedFile
	}
	return "Q: What is the main topic?\nA: " + string(data), nil
}

func text(t *testing.T, res *mcp.CallToolResultFor[any]) string {
	t.Helper()
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestLookupResources(t *testing.T) {
	srv := NewTools(stubLookup{res: &session.Resources{
		Articles: []session.Link{{Title: "Hydration", Link: "https://example.com/water"}},
		Videos:   []session.Link{{Title: "Morning yoga", Link: "https://youtube.com/watch?v=2"}},
	}}, &stubAnalyzer{})

	res, err := srv.LookupResources(context.Background(), nil, &mcp.CallToolParamsFor[LookupParams]{
		Arguments: LookupParams{Query: "hydration"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	out := text(t, res)
	assert.Contains(t, out, "1. Hydration\n   https://example.com/water")
	assert.Contains(t, out, "Videos:\n1. Morning yoga")
}

func TestLookupResourcesUnavailable(t *testing.T) {
	srv := NewTools(stubLookup{}, &stubAnalyzer{})
	res, err := srv.LookupResources(context.Background(), nil, &mcp.CallToolParamsFor[LookupParams]{
		Arguments: LookupParams{Query: "sleep"},
	})
	require.NoError(t, err)
	assert.Equal(t, "No resources available for this query.", text(t, res))

	res, err = srv.LookupResources(context.Background(), nil, &mcp.CallToolParamsFor[LookupParams]{})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestAnalyzeDocument(t *testing.T) {
	an := &stubAnalyzer{}
	srv := NewTools(stubLookup{}, an)

	res, err := srv.AnalyzeDocument(context.Background(), nil, &mcp.CallToolParamsFor[AnalyzeParams]{
		Arguments: AnalyzeParams{
			FileName: "notes.txt",
			MimeType: document.MimeText,
			Content:  base64.StdEncoding.EncodeToString([]byte("walk daily")),
		},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, text(t, res), "A: walk daily")
	assert.Equal(t, document.MimeText, an.gotMime)
}

func TestAnalyzeDocumentErrors(t *testing.T) {
	srv := NewTools(stubLookup{}, &stubAnalyzer{})

	res, err := srv.AnalyzeDocument(context.Background(), nil, &mcp.CallToolParamsFor[AnalyzeParams]{
		Arguments: AnalyzeParams{MimeType: document.MimeText, Content: "%%%"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "not valid base64")

	res, err = srv.AnalyzeDocument(context.Background(), nil, &mcp.CallToolParamsFor[AnalyzeParams]{
		Arguments: AnalyzeParams{MimeType: "image/png", Content: base64.StdEncoding.EncodeToString([]byte("x"))},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Equal(t, document.Message(document.ErrUnsupportedFile), text(t, res))
}
