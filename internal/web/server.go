// Package web serves the browser chat page for the coach.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"health-coach/internal/coach"
	"health-coach/internal/document"
	"health-coach/internal/quiz"
	"health-coach/internal/search"
	"health-coach/internal/session"
	"health-coach/internal/storage"
)

const (
	sessionCookie = "coach_session"
	maxFormMemory = 32 << 20
)

// notices maps redirect codes to the banner shown on the chat page.
var notices = map[string]string{
	"saved":      "Chat saved!",
	"empty":      "Nothing to save yet. Start a conversation first.",
	"blank":      "Please type a message before sending.",
	"bad-index":  "That saved chat does not exist.",
	"new":        "Started a new chat.",
	"no-file":    "Please choose a file to upload.",
	"loaded":     "Saved chat loaded.",
	"upload-err": "The upload could not be read. Please try again.",
}

// WebServer is the HTTP front end of the coach.
type WebServer struct {
	coach     *coach.Service
	server    *http.Server
	addr      string
	startTime time.Time
	chatTmpl  *template.Template
	quizTmpl  *template.Template
	maxUpload int64
}

func NewWebServer(svc *coach.Service, addr string) *WebServer {
	funcs := template.FuncMap{
		"iconFor":   search.IconFor,
		"videoIcon": func() string { return search.IconYouTube },
		"isUser":    func(r session.Role) bool { return r == session.RoleUser },
		"inc":       func(i int) int { return i + 1 },
	}
	return &WebServer{
		coach:     svc,
		addr:      addr,
		startTime: time.Now(),
		chatTmpl:  template.Must(template.New("chat").Funcs(funcs).Parse(layoutTemplate + chatTemplate)),
		quizTmpl:  template.Must(template.New("quiz").Funcs(funcs).Parse(layoutTemplate + quizTemplate)),
		maxUpload: document.MaxFileSize + maxFormMemory,
	}
}

// Handler returns the routed handler with request logging.
func (ws *WebServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", ws.handleStatus)
	mux.HandleFunc("/chat", ws.handleChat)
	mux.HandleFunc("/new", ws.handleNew)
	mux.HandleFunc("/save", ws.handleSave)
	mux.HandleFunc("/load", ws.handleLoad)
	mux.HandleFunc("/upload", ws.handleUpload)
	mux.HandleFunc("/quiz", ws.handleQuiz)
	mux.HandleFunc("/", ws.handleRoot)
	return withLogging(mux)
}

func (ws *WebServer) Start() error {
	ws.server = &http.Server{
		Addr:         ws.addr,
		Handler:      ws.Handler(),
		ReadTimeout:  5 * time.Minute,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("🌐 Starting Health Coach web server on %s", ws.addr)
	return ws.server.ListenAndServe()
}

func (ws *WebServer) Stop() error {
	if ws.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return ws.server.Shutdown(ctx)
}

// sessionKey returns the caller's session key, issuing a new one when the
// cookie is missing or malformed.
func sessionKey(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(sessionCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	key := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    key,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return key
}

func redirect(w http.ResponseWriter, r *http.Request, notice string) {
	target := "/"
	if notice != "" {
		target += "?notice=" + url.QueryEscape(notice)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type chatPage struct {
	Notice string
	Turns  []session.Turn
	Saved  []session.SavedChat
}

func (ws *WebServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap := ws.coach.Snapshot(sessionKey(w, r))
	data := chatPage{
		Notice: notices[r.URL.Query().Get("notice")],
		Turns:  snap.Turns,
		Saved:  snap.Saved,
	}
	ws.render(w, ws.chatTmpl, data)
}

func (ws *WebServer) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := sessionKey(w, r)

	_, err := ws.coach.Send(r.Context(), storage.ChannelWeb, key, r.FormValue("message"))
	if coach.IsInputError(err) {
		redirect(w, r, "blank")
		return
	}
	if err != nil {
		log.Printf("❌ chat turn failed for %s: %v", key, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	redirect(w, r, "")
}

func (ws *WebServer) handleNew(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ws.coach.NewChat(sessionKey(w, r))
	redirect(w, r, "new")
}

func (ws *WebServer) handleSave(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if _, err := ws.coach.Save(sessionKey(w, r)); err != nil {
		redirect(w, r, "empty")
		return
	}
	redirect(w, r, "saved")
}

func (ws *WebServer) handleLoad(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := sessionKey(w, r)
	index, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		redirect(w, r, "bad-index")
		return
	}
	if err := ws.coach.Load(key, index); err != nil {
		redirect(w, r, "bad-index")
		return
	}
	redirect(w, r, "loaded")
}

func (ws *WebServer) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	key := sessionKey(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, ws.maxUpload)
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			// Report through the analyzer so the rejection lands in the
			// conversation like any other upload outcome.
			up := coach.Upload{Size: max(r.ContentLength, document.MaxFileSize+1)}
			_, _ = ws.coach.Analyze(r.Context(), storage.ChannelWeb, key, up)
			redirect(w, r, "")
			return
		}
		redirect(w, r, "no-file")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		redirect(w, r, "no-file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Printf("❌ failed to read upload %q: %v", header.Filename, err)
		redirect(w, r, "upload-err")
		return
	}

	mimeType, _, err := mime.ParseMediaType(header.Header.Get("Content-Type"))
	if err != nil {
		mimeType = ""
	}
	up := coach.Upload{Name: header.Filename, MimeType: mimeType, Size: header.Size, Data: data}
	// The outcome, report or explanation, is appended to the conversation.
	_, _ = ws.coach.Analyze(r.Context(), storage.ChannelWeb, key, up)
	redirect(w, r, "")
}

type quizPage struct {
	Notice string
	Items  []quiz.Item
	Scored bool
	Score  int
}

func (ws *WebServer) handleQuiz(w http.ResponseWriter, r *http.Request) {
	key := sessionKey(w, r)
	items := ws.coach.Quiz(key)
	data := quizPage{Items: items}

	switch r.Method {
	case http.MethodGet:
	case http.MethodPost:
		answers := make([]string, len(items))
		for i := range items {
			answers[i] = r.FormValue("q" + strconv.Itoa(i))
		}
		data.Scored = true
		data.Score = quiz.Score(items, answers)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ws.render(w, ws.quizTmpl, data)
}

func (ws *WebServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "health-coach",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(ws.startTime).String(),
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func (ws *WebServer) render(w http.ResponseWriter, tmpl *template.Template, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		log.Printf("❌ failed to render %s: %v", tmpl.Name(), err)
	}
}
