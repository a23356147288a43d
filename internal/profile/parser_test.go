package profile

import (
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string { return "stub-model" }

const profileJSON = `{
	"name": "John Doe",
	"location": "San Francisco, CA",
	"current_company": "Google",
	"current_role": "Software Engineer",
	"education": [{"school": "Stanford University", "degree": "BS", "field": "Computer Science", "years": "2016-2020"}],
	"experience": [{"company": "Google", "title": "Software Engineer", "start": "2020"}, {"company": "Stripe", "title": "Intern", "start": "2019", "end": "2019"}],
	"skills": ["Go", "Python", "Machine Learning"]
}`

func TestParseBuildsProfile(t *testing.T) {
	stub := &stubGenerator{response: "```json\n" + profileJSON + "\n```"}
	parser := NewParser(stub, zap.NewNop())

	parsed, err := parser.Parse(context.Background(), "John Doe\nSoftware Engineer at Google\n...")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if parsed.Name != "John Doe" {
		t.Fatalf("unexpected name: %q", parsed.Name)
	}
	if len(parsed.Education) != 1 || parsed.Education[0].School != "Stanford University" {
		t.Fatalf("unexpected education: %+v", parsed.Education)
	}
	if len(parsed.Skills) != 3 {
		t.Fatalf("unexpected skills: %v", parsed.Skills)
	}
	if !strings.Contains(stub.lastPrompt, "John Doe") {
		t.Fatal("resume text should be substituted into the prompt")
	}
	if strings.Contains(stub.lastPrompt, "{{RESUME_TEXT}}") {
		t.Fatal("placeholder should be replaced")
	}
}

func TestParseRejectsEmptyText(t *testing.T) {
	parser := NewParser(&stubGenerator{}, zap.NewNop())
	if _, err := parser.Parse(context.Background(), "   "); err == nil {
		t.Fatal("expected error for empty resume text")
	}
}

func TestParseMalformedResponse(t *testing.T) {
	parser := NewParser(&stubGenerator{response: "I cannot produce JSON today"}, zap.NewNop())
	if _, err := parser.Parse(context.Background(), "resume"); err == nil {
		t.Fatal("expected error for malformed model output")
	}
}

func TestParseMissingName(t *testing.T) {
	parser := NewParser(&stubGenerator{response: `{"skills": ["Go"]}`}, zap.NewNop())
	if _, err := parser.Parse(context.Background(), "resume"); err == nil {
		t.Fatal("expected error when the model omits the name")
	}
}

func TestCompaniesDeduplicates(t *testing.T) {
	p := &UserProfile{
		CurrentCompany: "Google",
		Experience: []Experience{
			{Company: "google"},
			{Company: "Stripe"},
			{Company: ""},
		},
	}

	companies := p.Companies()
	if len(companies) != 2 {
		t.Fatalf("expected 2 companies, got %v", companies)
	}
	if companies[0] != "Google" || companies[1] != "Stripe" {
		t.Fatalf("unexpected order: %v", companies)
	}
}

func TestSummaryIncludesKeyLines(t *testing.T) {
	p := &UserProfile{
		Name:           "John Doe",
		CurrentCompany: "Google",
		CurrentRole:    "Software Engineer",
		Location:       "San Francisco, CA",
		Education:      []Education{{School: "Stanford University", Degree: "BS"}},
		Skills:         []string{"Go"},
	}

	summary := p.Summary()
	for _, want := range []string{
		"Name: John Doe",
		"Current: Software Engineer at Google",
		"Education: Stanford University (BS)",
		"Skills: Go",
	} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}
