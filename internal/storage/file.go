package storage

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const maxEventSize = 10 << 20

// FileRecorder stores events as JSON lines in a single append-only file.
type FileRecorder struct {
	mu   sync.Mutex
	path string
	out  *os.File
}

func NewFileRecorder(path string) (*FileRecorder, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	out, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open interaction log: %w", err)
	}
	log.Printf("🗂️ Recording interactions to %s", path)
	return &FileRecorder{path: path, out: out}, nil
}

func (r *FileRecorder) AppendInteraction(event Event) error {
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	line = append(line, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.out == nil {
		return fmt.Errorf("interaction log %s is closed", r.path)
	}
	if _, err := r.out.Write(line); err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// LoadInteractions reads every event in file order. Lines that do not decode
// are skipped.
func (r *FileRecorder) LoadInteractions() ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open interaction log: %w", err)
	}
	defer in.Close()

	events, skipped, err := readEvents(in)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Printf("⚠️ skipped %d malformed lines in %s", skipped, r.path)
	}
	return events, nil
}

func readEvents(in io.Reader) (events []Event, skipped int, err error) {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 64<<10), maxEventSize)
	for s.Scan() {
		if len(s.Bytes()) == 0 {
			continue
		}
		var ev Event
		if err := json.Unmarshal(s.Bytes(), &ev); err != nil {
			skipped++
			continue
		}
		events = append(events, ev)
	}
	if err := s.Err(); err != nil {
		return nil, skipped, fmt.Errorf("read interaction log: %w", err)
	}
	return events, skipped, nil
}

// Close releases the append handle. Further appends fail.
func (r *FileRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.out == nil {
		return nil
	}
	err := r.out.Close()
	r.out = nil
	return err
}
