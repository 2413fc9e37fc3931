package document

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQA struct {
	answers  map[string]Answer
	errs     map[string]error
	contexts []string
}

func (f *fakeQA) Answer(ctx context.Context, question, contextText string) (Answer, error) {
	f.contexts = append(f.contexts, contextText)
	if err := f.errs[question]; err != nil {
		return Answer{}, err
	}
	return f.answers[question], nil
}

func TestAnalyzeTooLargeIgnoresContent(t *testing.T) {
	qa := &fakeQA{}
	a := NewAnalyzer(qa)
	_, err := a.Analyze(context.Background(), []byte("fine text"), MimeText, 250*1024*1024)
	require.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, qa.contexts)
	assert.Equal(t, "File too large. Please upload a file smaller than 200MB.",
		a.AnalyzeText(context.Background(), nil, "application/zip", 250*1024*1024))
}

func TestAnalyzeUnsupportedType(t *testing.T) {
	a := NewAnalyzer(&fakeQA{})
	_, err := a.Analyze(context.Background(), []byte("x"), "image/png", 1)
	require.ErrorIs(t, err, ErrUnsupportedFile)
	assert.Equal(t, "Invalid file type. Please upload PDF, DOCX, or TXT files.", Message(err))
}

func TestAnalyzeBlankText(t *testing.T) {
	a := NewAnalyzer(&fakeQA{})
	_, err := a.Analyze(context.Background(), []byte(" \n\t "), MimeText, 4)
	require.ErrorIs(t, err, ErrNoContent)
	assert.Equal(t, "No text content could be extracted from the file.", Message(err))
}

func TestAnalyzeLowConfidenceAnswers(t *testing.T) {
	qa := &fakeQA{answers: map[string]Answer{}}
	for _, q := range Questions {
		qa.answers[q] = Answer{Text: "maybe", Score: 0.1}
	}
	a := NewAnalyzer(qa)
	text := "Patient shows elevated LDL cholesterol."
	got := a.AnalyzeText(context.Background(), []byte(text), MimeText, int64(len(text)))
	assert.Equal(t, "Could not extract meaningful information from the document.", got)
	assert.Len(t, qa.contexts, len(Questions))
}

func TestAnalyzeReportSkipsFailedQuestions(t *testing.T) {
	qa := &fakeQA{
		answers: map[string]Answer{
			Questions[0]: {Text: "Type 2 diabetes", Score: 0.83},
			Questions[1]: {Text: "daily walks", Score: 0.05},
			Questions[3]: {Text: "HbA1c 7.2%", Score: 0.4},
		},
		errs: map[string]error{Questions[2]: errors.New("model overloaded")},
	}
	a := NewAnalyzer(qa)
	text := "Diagnosis: Type 2 diabetes. HbA1c 7.2%."
	report, err := a.Analyze(context.Background(), []byte(text), MimeText, int64(len(text)))
	require.NoError(t, err)
	want := Questions[0] + "\nType 2 diabetes\n\n" + Questions[3] + "\nHbA1c 7.2%"
	assert.Equal(t, want, report)
}

func TestAnalyzeTruncatesContext(t *testing.T) {
	qa := &fakeQA{answers: map[string]Answer{Questions[0]: {Text: "ok", Score: 0.9}}}
	a := NewAnalyzer(qa)
	text := strings.Repeat("é", 5000)
	_, err := a.Analyze(context.Background(), []byte(text), MimeText, int64(len(text)))
	require.NoError(t, err)
	for _, c := range qa.contexts {
		assert.Equal(t, 4096, utf8.RuneCountInString(c))
	}
}

func TestAnalyzeBrokenPDF(t *testing.T) {
	a := NewAnalyzer(&fakeQA{})
	got := a.AnalyzeText(context.Background(), []byte("not a pdf"), MimePDF, 9)
	assert.True(t, strings.HasPrefix(got, "Error processing file: "), got)
}

func TestExtractTextReplacesInvalidUTF8(t *testing.T) {
	got, err := ExtractText([]byte("ok\xffdone"), MimeText)
	require.NoError(t, err)
	assert.Equal(t, "ok\uFFFDdone", got)
}

func buildDOCX(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCXParagraphs(t *testing.T) {
	data := buildDOCX(t,
		`<w:p><w:r><w:t>Blood pressure </w:t></w:r><w:r><w:t>130/85</w:t></w:r></w:p>`+
			`<w:p><w:r><w:t>Start</w:t><w:tab/><w:t>lisinopril</w:t></w:r></w:p>`+
			`<w:p/>`)
	got, err := ExtractText(data, MimeDOCX)
	require.NoError(t, err)
	assert.Equal(t, "Blood pressure 130/85\nStart\tlisinopril\n\n", got)
}

func TestExtractDOCXMissingBody(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("docProps/app.xml")
	require.NoError(t, zw.Close())
	_, err := ExtractText(buf.Bytes(), MimeDOCX)
	assert.Error(t, err)
}
