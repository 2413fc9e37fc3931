package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"health-coach/internal/coach"
	"health-coach/internal/document"
	"health-coach/internal/session"
)

type stubReplier struct{ err error }

func (s stubReplier) Reply(ctx context.Context, userText string, prior []session.Turn) (string, error) {
	if s.err != nil {
		return "", &coach.ProviderError{Err: s.err}
	}
	return "Try <b>stretching</b> for: " + userText, nil
}

type stubLookup struct{}

func (stubLookup) Lookup(ctx context.Context, query string) *session.Resources {
	return &session.Resources{
		Articles: []session.Link{{Title: "Sleep tips", Link: "https://www.nhs.uk/sleep"}},
		Videos:   []session.Link{{Title: "Yoga", Link: "https://www.youtube.com/watch?v=1"}},
	}
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, data []byte, mimeType string, size int64) (string, error) {
	if size > document.MaxFileSize {
		return "", document.ErrFileTooLarge
	}
	if mimeType != document.MimeText {
		return "", document.ErrUnsupportedFile
	}
	return "Q: What is the main topic?\nA: " + string(data), nil
}

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, replyErr error) *client {
	svc := coach.New(session.NewManager(), stubReplier{err: replyErr}, stubLookup{}, stubAnalyzer{}, nil)
	return &client{t: t, handler: NewWebServer(svc, ":0").Handler()}
}

func (c *client) do(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	if set := rec.Result().Cookies(); len(set) > 0 {
		c.cookies = set
	}
	return rec
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *client) upload(name, contentType string, data []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(c.t, err)
	_, _ = part.Write(data)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req)
}

func TestIndexIssuesSessionCookie(t *testing.T) {
	c := newClient(t, nil)
	rec := c.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, c.cookies, 1)
	assert.Equal(t, sessionCookie, c.cookies[0].Name)
	assert.Contains(t, rec.Body.String(), "Health &amp; Wellness Coach")

	// The cookie is reused, not reissued.
	rec = c.get("/")
	assert.Empty(t, rec.Result().Cookies())
}

func TestChatRendersEscapedReplyAndResources(t *testing.T) {
	c := newClient(t, nil)
	rec := c.post("/chat", url.Values{"message": {"I sleep badly"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	body := c.get("/").Body.String()
	assert.Contains(t, body, "I sleep badly")
	assert.Contains(t, body, "Try &lt;b&gt;stretching&lt;/b&gt; for: I sleep badly")
	assert.Contains(t, body, "Sleep tips")
	assert.Contains(t, body, "https://img.icons8.com/ios-filled/50/000000/link.png")
	assert.Contains(t, body, "https://img.icons8.com/color/48/000000/youtube-play.png")
}

func TestChatBlankMessageShowsNotice(t *testing.T) {
	c := newClient(t, nil)
	rec := c.post("/chat", url.Values{"message": {"   "}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/?notice=blank", rec.Header().Get("Location"))

	body := c.get("/?notice=blank").Body.String()
	assert.Contains(t, body, notices["blank"])
	assert.NotContains(t, body, "You:")
}

func TestChatProviderFailureIsShownInConversation(t *testing.T) {
	c := newClient(t, errors.New("upstream unavailable"))
	c.post("/chat", url.Values{"message": {"hello"}})
	assert.Contains(t, c.get("/").Body.String(), "Error: upstream unavailable")
}

func TestSessionsAreIsolatedByCookie(t *testing.T) {
	svc := coach.New(session.NewManager(), stubReplier{}, stubLookup{}, stubAnalyzer{}, nil)
	h := NewWebServer(svc, ":0").Handler()
	a := &client{t: t, handler: h}
	b := &client{t: t, handler: h}

	a.post("/chat", url.Values{"message": {"alpha question"}})
	b.get("/")
	assert.NotContains(t, b.get("/").Body.String(), "alpha question")
	assert.Contains(t, a.get("/").Body.String(), "alpha question")
}

func TestSaveAndLoad(t *testing.T) {
	c := newClient(t, nil)

	rec := c.post("/save", nil)
	assert.Equal(t, "/?notice=empty", rec.Header().Get("Location"))

	c.post("/chat", url.Values{"message": {"Hello, how are you today?"}})
	rec = c.post("/save", nil)
	assert.Equal(t, "/?notice=saved", rec.Header().Get("Location"))

	c.post("/new", nil)
	body := c.get("/").Body.String()
	assert.Contains(t, body, "Chat 1: Hello, how are you t...")
	assert.NotContains(t, body, "You:")

	rec = c.post("/load", url.Values{"index": {"0"}})
	assert.Equal(t, "/?notice=loaded", rec.Header().Get("Location"))
	assert.Contains(t, c.get("/").Body.String(), "You:")

	for _, idx := range []string{"1", "-1", "x"} {
		rec = c.post("/load", url.Values{"index": {idx}})
		assert.Equal(t, "/?notice=bad-index", rec.Header().Get("Location"), idx)
	}
}

func TestUploadAppendsReport(t *testing.T) {
	c := newClient(t, nil)
	rec := c.upload("notes.txt", "text/plain; charset=utf-8", []byte("sleep hygiene"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, c.get("/").Body.String(), "A: sleep hygiene")

	c.upload("photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.Contains(t, c.get("/").Body.String(), document.Message(document.ErrUnsupportedFile))
}

func TestUploadWithoutFile(t *testing.T) {
	c := newClient(t, nil)
	rec := c.post("/upload", url.Values{"other": {"x"}})
	assert.Equal(t, "/?notice=no-file", rec.Header().Get("Location"))
}

func TestQuizScoring(t *testing.T) {
	c := newClient(t, nil)
	assert.Contains(t, c.get("/quiz").Body.String(), "Chat with the coach first")

	c.post("/chat", url.Values{"message": {"one"}})
	c.post("/chat", url.Values{"message": {"two"}})

	body := c.get("/quiz").Body.String()
	assert.Contains(t, body, "Based on our discussion:")

	body = c.post("/quiz", url.Values{"q0": {"True"}, "q1": {"False"}}).Body.String()
	assert.Contains(t, body, "Your score: 1/2")
}

func TestMethodNotAllowed(t *testing.T) {
	c := newClient(t, nil)
	for _, path := range []string{"/chat", "/new", "/save", "/load", "/upload"} {
		assert.Equal(t, http.StatusMethodNotAllowed, c.get(path).Code, path)
	}
	assert.Equal(t, http.StatusMethodNotAllowed, c.post("/api/status", nil).Code)
	assert.Equal(t, http.StatusNotFound, c.get("/missing").Code)
}

func TestStatus(t *testing.T) {
	c := newClient(t, nil)
	rec := c.get("/api/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "healthy", got["status"])
	assert.Equal(t, "health-coach", got["service"])
	assert.NotEmpty(t, got["uptime"])
}

func TestCookielessReadsDoNotCreateSessions(t *testing.T) {
	sessions := session.NewManager()
	svc := coach.New(sessions, stubReplier{}, stubLookup{}, stubAnalyzer{}, nil)
	h := NewWebServer(svc, ":0").Handler()

	for i := 0; i < 50; i++ {
		for _, path := range []string{"/", "/quiz"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	}
	assert.Equal(t, 0, sessions.Len())

	c := &client{t: t, handler: h}
	c.post("/new", nil)
	c.post("/save", nil)
	c.post("/load", url.Values{"index": {"0"}})
	assert.Equal(t, 0, sessions.Len())

	c.post("/chat", url.Values{"message": {"hello"}})
	assert.Equal(t, 1, sessions.Len())
}

func TestOversizedUploadIsReportedInConversation(t *testing.T) {
	svc := coach.New(session.NewManager(), stubReplier{}, stubLookup{}, stubAnalyzer{}, nil)
	ws := NewWebServer(svc, ":0")
	ws.maxUpload = 1024
	c := &client{t: t, handler: ws.Handler()}

	rec := c.upload("scan.txt", "text/plain", bytes.Repeat([]byte("a"), 4096))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Contains(t, c.get("/").Body.String(), document.Message(document.ErrFileTooLarge))
}
