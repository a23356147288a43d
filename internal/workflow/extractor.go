package workflow

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// ResumeSource names where the resume text comes from. Exactly one field
// should be set; Text wins over Base64, Base64 over Path.
type ResumeSource struct {
	Text   string `json:"text,omitempty"`
	Base64 string `json:"base64,omitempty"`
	Path   string `json:"path,omitempty"`
}

func (s ResumeSource) empty() bool {
	return s.Text == "" && s.Base64 == "" && s.Path == ""
}

// TextExtractor turns a resume source into plain text. PDF or docx support
// plugs in here without touching the rest of the pipeline.
type TextExtractor interface {
	Extract(source ResumeSource) (string, error)
}

// PlainTextExtractor handles inline text, base64 payloads and text files.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(source ResumeSource) (string, error) {
	switch {
	case source.Text != "":
		return source.Text, nil
	case source.Base64 != "":
		decoded, err := base64.StdEncoding.DecodeString(source.Base64)
		if err != nil {
			return "", fmt.Errorf("decode resume payload: %w", err)
		}
		return string(decoded), nil
	case source.Path != "":
		data, err := os.ReadFile(source.Path)
		if err != nil {
			return "", fmt.Errorf("read resume file: %w", err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("resume file %s is empty", source.Path)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("no resume source provided")
	}
}
