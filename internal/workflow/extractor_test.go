package workflow

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestExtractInlineText(t *testing.T) {
	text, err := PlainTextExtractor{}.Extract(ResumeSource{Text: "John Doe"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "John Doe" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractBase64(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("John Doe resume"))
	text, err := PlainTextExtractor{}.Extract(ResumeSource{Base64: encoded})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "John Doe resume" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractBadBase64(t *testing.T) {
	if _, err := (PlainTextExtractor{}).Extract(ResumeSource{Base64: "%%%"}); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}

func TestExtractFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("John Doe resume"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	text, err := PlainTextExtractor{}.Extract(ResumeSource{Path: path})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if text != "John Doe resume" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestExtractEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := (PlainTextExtractor{}).Extract(ResumeSource{Path: path}); err == nil {
		t.Fatal("expected error for empty resume file")
	}
}

func TestExtractNoSource(t *testing.T) {
	if _, err := (PlainTextExtractor{}).Extract(ResumeSource{}); err == nil {
		t.Fatal("expected error for empty source")
	}
}
