package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "resumatch/internal/errors"
)

const sampleResume = `John Smith
Email: john.smith@example.com Phone: 555-123-4567

SUMMARY
Senior software engineer with eight years of experience building backend
services in Go and Python. Focused on reliability and observability.

EXPERIENCE
Acme Corp, 2019 - present. Led the migration of a monolith to services.
Designed the deployment pipeline. Mentored four junior engineers.

EDUCATION
B.S. Computer Science, State University, 2015.

SKILLS
Go, Python, PostgreSQL, Docker, Kubernetes, Terraform.
`

func testExtractor(t *testing.T, maxSize int64) *Extractor {
	t.Helper()
	logger, err := apperrors.New("error")
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	return NewExtractor(maxSize, logger)
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %s, got nil", code)
	}
	appErr, ok := err.(*apperrors.AppError)
	if !ok {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}
	if appErr.Code != code {
		t.Errorf("error code = %s, want %s", appErr.Code, code)
	}
}

func TestExtractFilePlainText(t *testing.T) {
	path := writeTempFile(t, "resume.txt", sampleResume)

	text, err := testExtractor(t, 0).ExtractFile(path)
	if err != nil {
		t.Fatalf("ExtractFile failed: %v", err)
	}
	if !strings.Contains(text, "Senior software engineer") {
		t.Errorf("extracted text missing expected content: %q", text)
	}
	// Normalization title-cases the ALL-CAPS section headers
	if !strings.Contains(text, "Experience:") {
		t.Errorf("extracted text not normalized: %q", text)
	}
}

func TestExtractFileNotFound(t *testing.T) {
	_, err := testExtractor(t, 0).ExtractFile(filepath.Join(t.TempDir(), "missing.txt"))
	assertErrorCode(t, err, apperrors.ErrCodeFileNotFound)
}

func TestExtractFileEmpty(t *testing.T) {
	path := writeTempFile(t, "empty.txt", "")
	_, err := testExtractor(t, 0).ExtractFile(path)
	assertErrorCode(t, err, apperrors.ErrCodeInvalidFormat)
}

func TestExtractFileTooLarge(t *testing.T) {
	path := writeTempFile(t, "resume.txt", sampleResume)
	_, err := testExtractor(t, 64).ExtractFile(path)
	assertErrorCode(t, err, apperrors.ErrCodeInvalidFormat)
}

func TestExtractFileUnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "resume.odt", sampleResume)
	_, err := testExtractor(t, 0).ExtractFile(path)
	assertErrorCode(t, err, apperrors.ErrCodeInvalidFormat)
}

func TestExtractFileDirectory(t *testing.T) {
	_, err := testExtractor(t, 0).ExtractFile(t.TempDir())
	assertErrorCode(t, err, apperrors.ErrCodeInvalidInput)
}

func TestExtractRejectsTinyDocuments(t *testing.T) {
	path := writeTempFile(t, "short.txt", "just a few words")
	_, err := testExtractor(t, 0).ExtractFile(path)
	assertErrorCode(t, err, apperrors.ErrCodeInvalidFormat)
}

func TestExtractResumePlausibilityGate(t *testing.T) {
	// Long enough to pass extraction but nothing resume-like about it
	recipe := strings.Repeat("Preheat the oven to 180 degrees. Mix the flour with butter and sugar. ", 5)
	path := writeTempFile(t, "recipe.txt", recipe)

	_, err := testExtractor(t, 0).ExtractResume(path)
	assertErrorCode(t, err, apperrors.ErrCodeInvalidInput)
}

func TestExtractResumeAcceptsRealResume(t *testing.T) {
	path := writeTempFile(t, "resume.md", sampleResume)

	text, err := testExtractor(t, 0).ExtractResume(path)
	if err != nil {
		t.Fatalf("ExtractResume failed: %v", err)
	}
	if len(text) < 100 {
		t.Errorf("extracted text suspiciously short: %d chars", len(text))
	}
}

func TestStripDocxMarkup(t *testing.T) {
	input := `<w:t>Software Engineer</w:t></w:p><w:t>Go and Python</w:t>`
	got := stripDocxMarkup(input)
	if !strings.Contains(got, "Software Engineer\n") {
		t.Errorf("paragraph boundary not preserved: %q", got)
	}
	if strings.Contains(got, "<") {
		t.Errorf("markup left behind: %q", got)
	}
}
