package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeText = "text/plain"
)

// SupportedTypes lists the accepted declared MIME types.
var SupportedTypes = []string{MimePDF, MimeDOCX, MimeText}

func isSupported(mimeType string) bool {
	for _, t := range SupportedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// ExtractText converts a document of a supported type into plain text.
func ExtractText(data []byte, mimeType string) (string, error) {
	switch mimeType {
	case MimePDF:
		return extractPDF(data)
	case MimeDOCX:
		return extractDOCX(data)
	case MimeText:
		return strings.ToValidUTF8(string(data), "\uFFFD"), nil
	default:
		return "", ErrUnsupportedFile
	}
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("read pdf: %w", err)
	}
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", i, err)
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

const docxBody = "word/document.xml"

// extractDOCX walks the main document part and emits the text of every
// paragraph followed by a newline.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	var part *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			part = f
			break
		}
	}
	if part == nil {
		return "", errors.New("open docx: word/document.xml not found")
	}
	rc, err := part.Open()
	if err != nil {
		return "", fmt.Errorf("open docx body: %w", err)
	}
	defer rc.Close()

	var (
		sb     strings.Builder
		inText bool
	)
	dec := xml.NewDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("parse docx body: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(el)
			}
		}
	}
	return sb.String(), nil
}
