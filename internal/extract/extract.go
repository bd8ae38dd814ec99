package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"coverletter-backend/internal/shared/storage/object"
)

var (
	// ErrResumeRead indicates the resume document could not be located, opened or read.
	ErrResumeRead = errors.New("resume read failed")

	// ErrResumeParse indicates the resume document could not be decoded into text.
	ErrResumeParse = errors.New("resume parse failed")
)

const (
	formatPDF  = "pdf"
	formatDOCX = "docx"
)

// ResumeExtractor loads the configured resume document and returns its plain text.
// It is safe for concurrent use; every call opens and parses its own copy.
type ResumeExtractor struct {
	store object.Reader
	key   string
}

// NewResumeExtractor returns an extractor reading key from store.
func NewResumeExtractor(store object.Reader, key string) *ResumeExtractor {
	return &ResumeExtractor{store: store, key: key}
}

// Key returns the storage key of the resume document.
func (e *ResumeExtractor) Key() string {
	return e.key
}

// Extract reads the resume document and returns its text.
func (e *ResumeExtractor) Extract(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrResumeRead, err)
	}

	body, err := e.store.Open(ctx, e.key)
	if err != nil {
		return "", fmt.Errorf("%w: key=%s: %w", ErrResumeRead, e.key, err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("%w: key=%s: read: %w", ErrResumeRead, e.key, err)
	}

	text, err := ExtractTextFromBytes(raw, e.key)
	if err != nil {
		return "", fmt.Errorf("key=%s: %w", e.key, err)
	}
	return text, nil
}

// ExtractTextFromBytes extracts text from an in-memory PDF or DOCX payload.
// fileName is used for format detection before falling back to content sniffing.
func ExtractTextFromBytes(data []byte, fileName string) (string, error) {
	var (
		text string
		err  error
	)
	switch format := detectFormat(data, fileName); format {
	case formatPDF:
		text, err = extractPDF(data)
	case formatDOCX:
		text, err = extractDOCX(data)
	default:
		return "", fmt.Errorf("%w: unsupported document format %q", ErrResumeParse, filepath.Ext(fileName))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResumeParse, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: document contains no text", ErrResumeParse)
	}
	return text, nil
}

func detectFormat(data []byte, fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return formatPDF
	case ".docx":
		return formatDOCX
	}
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return formatPDF
	}
	if findDocxDocument(data) != nil {
		return formatDOCX
	}
	return ""
}

// extractPDF recovers from parser panics, which the pdf package raises on
// some malformed inputs.
func extractPDF(data []byte) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	docFile := findDocxDocument(data)
	if docFile == nil {
		return "", errors.New("word/document.xml not found")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return stripDocxXML(raw)
}

func findDocxDocument(data []byte) *zip.File {
	if len(data) == 0 {
		return nil
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil
	}
	for _, f := range zr.File {
		if strings.ReplaceAll(f.Name, "\\", "/") == "word/document.xml" {
			return f
		}
	}
	return nil
}

func stripDocxXML(raw []byte) (string, error) {
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	var buf strings.Builder
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if (t.Name.Local == "p" || t.Name.Local == "br") && buf.Len() > 0 {
				buf.WriteString("\n")
			}
		}
	}
	return buf.String(), nil
}
