// Package extract pulls plain text out of resume documents. PDF and DOCX
// are parsed with dedicated readers; everything else is treated as text
// when it carries a known text extension.
package extract

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"resumatch/internal/errors"
	"resumatch/internal/textnorm"
	"resumatch/internal/utils"
)

// minExtractedChars guards against scanned-image PDFs and empty documents
// that parse successfully but carry no usable text.
const minExtractedChars = 50

var supportedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
	".text": true,
}

// Extractor reads resume files and returns normalized plain text.
type Extractor struct {
	maxFileSize int64
	logger      *errors.Logger
}

func NewExtractor(maxFileSize int64, logger *errors.Logger) *Extractor {
	return &Extractor{maxFileSize: maxFileSize, logger: logger}
}

// SupportedExtensions lists the file extensions ExtractFile accepts.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt", ".md", ".text"}
}

// ExtractFile reads the file at path and returns its normalized text.
// It validates existence, size bounds, and extension before touching the
// content, so callers get a typed error naming exactly what was wrong.
func (e *Extractor) ExtractFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", path), err)
		}
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", path), err)
	}
	if info.IsDir() {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Path is a directory, not a file: %s", path), nil)
	}
	if info.Size() == 0 {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("File is empty: %s", path), nil)
	}
	if e.maxFileSize > 0 && info.Size() > e.maxFileSize {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("File too large: %s is %s (limit %s)",
				path, utils.FormatFileSize(info.Size()), utils.FormatFileSize(e.maxFileSize)), nil).
			WithContext("size_bytes", info.Size()).
			WithContext("limit_bytes", e.maxFileSize)
	}

	ext := utils.GetFileExtension(path)
	if !supportedExtensions[ext] {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported file format %q, expected one of: %s",
				ext, strings.Join(SupportedExtensions(), ", ")), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Failed to read file content: %s", path), err)
	}

	text, err := e.Extract(data, ext)
	if err != nil {
		return "", err
	}

	if e.logger != nil {
		e.logger.Debug("Extracted document text",
			"path", path,
			"format", ext,
			"size_bytes", info.Size(),
			"text_chars", len(text))
	}
	return text, nil
}

// Extract converts raw document bytes of the given extension into
// normalized text. The extension selects the parser; the result is
// passed through textnorm.Normalize and gated on minimum length.
func (e *Extractor) Extract(data []byte, ext string) (string, error) {
	var raw string
	var err error

	switch ext {
	case ".pdf":
		raw, err = extractPDF(data)
	case ".docx":
		raw, err = extractDOCX(data)
	case ".txt", ".md", ".text":
		raw = string(data)
	default:
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported file format %q, expected one of: %s",
				ext, strings.Join(SupportedExtensions(), ", ")), nil)
	}
	if err != nil {
		return "", err
	}

	text := textnorm.Normalize(raw)
	if len(text) < minExtractedChars {
		return "", errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Document yielded only %d characters of text, need at least %d. "+
				"Scanned-image PDFs are not supported.", len(text), minExtractedChars), nil)
	}
	return text, nil
}

// ExtractResume extracts the file and additionally requires the text to
// pass the resume plausibility gate.
func (e *Extractor) ExtractResume(path string) (string, error) {
	text, err := e.ExtractFile(path)
	if err != nil {
		return "", err
	}
	if !textnorm.IsPlausibleResume(text) {
		return "", errors.NewValidationError(errors.ErrCodeInvalidInput,
			fmt.Sprintf("Content of %s does not look like a resume", path), nil)
	}
	return text, nil
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeInvalidFormat,
			"Failed to parse PDF document", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page should not sink the whole document
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}
	return builder.String(), nil
}

func extractDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeInvalidFormat,
			"Failed to parse DOCX document", err)
	}
	defer doc.Close()

	content := doc.Editable().GetContent()
	return stripDocxMarkup(content), nil
}

var docxTag = strings.NewReplacer("</w:p>", "\n", "<w:tab/>", "\t", "<w:br/>", "\n")

// stripDocxMarkup flattens the word/document.xml content that the docx
// reader exposes into plain text with paragraph boundaries preserved.
func stripDocxMarkup(content string) string {
	text := docxTag.Replace(content)

	var builder strings.Builder
	builder.Grow(len(text))
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
