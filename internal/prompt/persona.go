// Package prompt provides the coach persona sent as the system message.
package prompt

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const DefaultPersona = "You are a helpful Health and Wellness Coach. " +
	"Always provide detailed responses and ask relevant follow-up questions."

// Persona holds the current system prompt. When backed by a file it can be
// reloaded on change with Watch.
type Persona struct {
	mu   sync.RWMutex
	text string
	path string
}

// NewPersona loads the persona from path, or uses DefaultPersona when path
// is empty. A missing or blank file falls back to the default.
func NewPersona(path string) *Persona {
	p := &Persona{path: path, text: DefaultPersona}
	if path != "" {
		p.reload()
	}
	return p
}

func (p *Persona) Text() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.text
}

func (p *Persona) reload() {
	data, err := os.ReadFile(p.path)
	text := strings.TrimSpace(string(data))
	if err != nil || text == "" {
		log.Printf("⚠️ system prompt at %s unreadable or empty, using default persona: %v", p.path, err)
		text = DefaultPersona
	}
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
}

// Watch reloads the persona whenever its file is written or replaced, until
// ctx is cancelled. It is a no-op for the built-in persona.
func (p *Persona) Watch(ctx context.Context) error {
	if p.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are picked up.
	if err := w.Add(filepath.Dir(p.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", p.path, err)
	}
	target := filepath.Clean(p.path)

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				p.reload()
				log.Printf("🔄 system prompt reloaded from %s", p.path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("❌ system prompt watcher: %v", err)
			}
		}
	}()
	return nil
}
