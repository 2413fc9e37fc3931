// Package document answers a fixed set of clinical questions about an
// uploaded medical report or article.
package document

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
)

const (
	MaxFileSize = 200 * 1024 * 1024

	contextLimit  = 4096
	minConfidence = 0.1
)

var (
	ErrFileTooLarge    = errors.New("file too large")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrNoContent       = errors.New("no text content extracted")
	ErrNoAnswers       = errors.New("no meaningful information extracted")
)

// Questions asked about every document, in report order.
var Questions = []string{
	"What are the main findings or diagnoses?",
	"What are the key recommendations?",
	"Are there any specific medications or treatments mentioned?",
	"What are the important test results or values?",
}

type Analyzer struct {
	qa QuestionAnswerer
}

func NewAnalyzer(qa QuestionAnswerer) *Analyzer {
	return &Analyzer{qa: qa}
}

// Analyze checks the upload, extracts its text and returns the report of
// confidently answered questions. Failures are returned as errors matching
// one of the package's sentinel errors, or wrapping the processing failure.
func (a *Analyzer) Analyze(ctx context.Context, data []byte, mimeType string, size int64) (report string, err error) {
	if size > MaxFileSize {
		return "", ErrFileTooLarge
	}
	if !isSupported(mimeType) {
		return "", ErrUnsupportedFile
	}

	defer func() {
		if r := recover(); r != nil {
			report, err = "", fmt.Errorf("%v", r)
		}
	}()

	text, err := ExtractText(data, mimeType)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrNoContent
	}

	contextText := truncate(text, contextLimit)
	var analysis []string
	for _, q := range Questions {
		ans, err := a.qa.Answer(ctx, q, contextText)
		if err != nil {
			log.Printf("⚠️ document question %q failed: %v", q, err)
			continue
		}
		if ans.Score > minConfidence {
			analysis = append(analysis, q+"\n"+ans.Text)
		}
	}
	if len(analysis) == 0 {
		return "", ErrNoAnswers
	}
	return strings.Join(analysis, "\n\n"), nil
}

// AnalyzeText is Analyze with failures rendered as user-facing text.
func (a *Analyzer) AnalyzeText(ctx context.Context, data []byte, mimeType string, size int64) string {
	report, err := a.Analyze(ctx, data, mimeType, size)
	if err != nil {
		log.Printf("📄 document analysis (%s, %d bytes): %v", mimeType, size, err)
		return Message(err)
	}
	return report
}

// Message is the text shown to the user for an Analyze error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return "File too large. Please upload a file smaller than 200MB."
	case errors.Is(err, ErrUnsupportedFile):
		return "Invalid file type. Please upload PDF, DOCX, or TXT files."
	case errors.Is(err, ErrNoContent):
		return "No text content could be extracted from the file."
	case errors.Is(err, ErrNoAnswers):
		return "Could not extract meaningful information from the document."
	default:
		return "Error processing file: " + err.Error()
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
