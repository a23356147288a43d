package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"

	"coffeechat/internal/apollo"
	"coffeechat/internal/email"
	"coffeechat/internal/matcher"
	"coffeechat/internal/profile"
)

func newTestHandler(searcher *stubSearcher, parser *stubParser, drafter DraftGenerator) *Handler {
	w := &Workflow{
		Searcher:  searcher,
		Parser:    parser,
		Drafter:   drafter,
		Extractor: PlainTextExtractor{},
		MinScore:  DefaultMinScore,
		logger:    zap.NewNop(),
	}
	return NewHandler(w, zap.NewNop())
}

func TestHandleRejectsUnknownAction(t *testing.T) {
	h := newTestHandler(&stubSearcher{}, &stubParser{}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{Action: "delete_everything"})
	if resp.Success {
		t.Fatal("expected failure envelope")
	}
	if resp.Error == "" {
		t.Fatal("expected error message")
	}
}

func TestHandleRejectsOutOfRangeScore(t *testing.T) {
	h := newTestHandler(&stubSearcher{}, &stubParser{}, &stubDrafter{})
	bad := 1.5

	resp := h.Handle(context.Background(), &Request{
		Action:            ActionSearchContacts,
		MinRelevanceScore: &bad,
	})
	if resp.Success {
		t.Fatal("expected failure for score above 1")
	}
}

func TestHandleParseResume(t *testing.T) {
	parser := &stubParser{profile: testProfile()}
	h := newTestHandler(&stubSearcher{}, parser, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{
		Action: ActionParseResume,
		Resume: ResumeSource{Text: "John Doe, Stanford"},
	})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if resp.Profile == nil || resp.Profile.Name != "John Doe" {
		t.Fatalf("unexpected profile: %+v", resp.Profile)
	}
}

func TestHandleParseResumeRequiresSource(t *testing.T) {
	h := newTestHandler(&stubSearcher{}, &stubParser{}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{Action: ActionParseResume})
	if resp.Success {
		t.Fatal("expected failure without a resume source")
	}
}

func TestHandleSearchRequiresCriteria(t *testing.T) {
	h := newTestHandler(&stubSearcher{}, &stubParser{}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{Action: ActionSearchContacts})
	if resp.Success {
		t.Fatal("expected failure without criteria")
	}
}

func TestHandlePersonaFillsSearch(t *testing.T) {
	searcher := &stubSearcher{contacts: &apollo.Contacts{}}
	h := newTestHandler(searcher, &stubParser{}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{
		Action:  ActionSearchContacts,
		Persona: "Consulting",
	})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if searcher.lastParams == nil || len(searcher.lastParams.Titles) == 0 {
		t.Fatalf("expected persona titles applied, got %+v", searcher.lastParams)
	}
	if resp.ContactsFound == nil || *resp.ContactsFound != 0 {
		t.Fatalf("expected contacts_found 0, got %v", resp.ContactsFound)
	}
}

func TestHandleSearchReportsCount(t *testing.T) {
	searcher := &stubSearcher{contacts: &apollo.Contacts{Items: []*apollo.Contact{
		relevantContact("Jane Smith", "jane@acme.com"),
		relevantContact("Mark Lee", "mark@acme.com"),
	}}}
	h := newTestHandler(searcher, &stubParser{}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{
		Action: ActionSearchContacts,
		Search: &apollo.SearchParams{Keywords: "data"},
	})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if resp.Count == nil || *resp.Count != 2 {
		t.Fatalf("expected count 2, got %v", resp.Count)
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	if !strings.Contains(string(encoded), `"count":2`) {
		t.Fatalf("expected count field in payload: %s", encoded)
	}
}

func TestHandleUnknownPersona(t *testing.T) {
	h := newTestHandler(&stubSearcher{}, &stubParser{}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{
		Action:  ActionSearchContacts,
		Persona: "quant",
	})
	if resp.Success {
		t.Fatal("expected failure for unknown persona")
	}
}

func TestHandleGenerateEmailsPartialFailure(t *testing.T) {
	drafter := &stubDrafter{failFor: map[string]error{
		"Mark Lee": fmt.Errorf("model timeout"),
	}}
	h := newTestHandler(&stubSearcher{}, &stubParser{}, drafter)

	resp := h.Handle(context.Background(), &Request{
		Action:  ActionGenerateEmails,
		Profile: testProfile(),
		Contacts: []*apollo.Contact{
			relevantContact("Jane Smith", "jane@acme.com"),
			relevantContact("Mark Lee", "mark@acme.com"),
			relevantContact("Ana Ruiz", "ana@acme.com"),
		},
	})
	if !resp.Success {
		t.Fatalf("per-contact failures should not fail the action: %q", resp.Error)
	}
	if resp.EmailsGenerated == nil || *resp.EmailsGenerated != 2 {
		t.Fatalf("expected emails_generated 2, got %v", resp.EmailsGenerated)
	}
	if len(resp.Failures) != 1 || resp.Failures[0].ContactName != "Mark Lee" {
		t.Fatalf("unexpected failures: %+v", resp.Failures)
	}
}

func TestHandleGenerateEmailsRequiresInputs(t *testing.T) {
	h := newTestHandler(&stubSearcher{}, &stubParser{}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{Action: ActionGenerateEmails})
	if resp.Success {
		t.Fatal("expected failure without profile")
	}

	resp = h.Handle(context.Background(), &Request{
		Action:  ActionGenerateEmails,
		Profile: testProfile(),
	})
	if resp.Success {
		t.Fatal("expected failure without contacts")
	}
}

func TestHandleFullWorkflowCounts(t *testing.T) {
	searcher := &stubSearcher{contacts: &apollo.Contacts{Items: []*apollo.Contact{
		relevantContact("Jane Smith", "jane@acme.com"),
		{Name: "Bob Far", Company: "Other"},
	}}}
	h := newTestHandler(searcher, &stubParser{profile: testProfile()}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{
		Action: ActionFullWorkflow,
		Resume: ResumeSource{Text: "resume"},
		Search: &apollo.SearchParams{Keywords: "data"},
	})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if resp.ContactsFound == nil || *resp.ContactsFound != 2 {
		t.Fatalf("expected contacts_found 2, got %v", resp.ContactsFound)
	}
	if resp.EmailsGenerated == nil || *resp.EmailsGenerated != 1 {
		t.Fatalf("expected emails_generated 1, got %v", resp.EmailsGenerated)
	}
}

func TestHandleFullWorkflowRateLimitedSearch(t *testing.T) {
	searcher := &stubSearcher{searchErr: apollo.ErrRateLimited}
	h := newTestHandler(searcher, &stubParser{profile: testProfile()}, &stubDrafter{})

	resp := h.Handle(context.Background(), &Request{
		Action: ActionFullWorkflow,
		Resume: ResumeSource{Text: "resume"},
	})
	if !resp.Success {
		t.Fatalf("rate limited search should degrade, got %q", resp.Error)
	}
	if resp.Warning == "" {
		t.Fatal("expected warning on partial result")
	}
	if resp.ContactsFound == nil || *resp.ContactsFound != 0 {
		t.Fatalf("expected contacts_found 0, got %v", resp.ContactsFound)
	}
}

func TestHandleMinScoreOverride(t *testing.T) {
	searcher := &stubSearcher{}
	drafter := &stubDrafter{}
	h := newTestHandler(searcher, &stubParser{}, drafter)
	strict := 0.7

	resp := h.Handle(context.Background(), &Request{
		Action:            ActionGenerateEmails,
		Profile:           testProfile(),
		MinRelevanceScore: &strict,
		Contacts: []*apollo.Contact{
			relevantContact("Jane Smith", "jane@acme.com"),
		},
	})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if drafter.calls != 0 {
		t.Fatalf("0.6 match should not pass a 0.7 cutoff, calls=%d", drafter.calls)
	}
}

func TestHandleExplicitZeroCutoffKeepsAllContacts(t *testing.T) {
	drafter := &stubDrafter{}
	h := newTestHandler(&stubSearcher{}, &stubParser{}, drafter)
	keepAll := 0.0

	resp := h.Handle(context.Background(), &Request{
		Action:            ActionGenerateEmails,
		Profile:           testProfile(),
		MinRelevanceScore: &keepAll,
		Contacts: []*apollo.Contact{
			{Name: "Bob Far", Email: "bob@other.com", Company: "Other"},
		},
	})
	if !resp.Success {
		t.Fatalf("expected success, got %q", resp.Error)
	}
	if resp.RelevantContacts == nil || *resp.RelevantContacts != 1 {
		t.Fatalf("explicit cutoff 0 should keep the zero-score contact, got %v", resp.RelevantContacts)
	}
	if drafter.calls != 1 {
		t.Fatalf("expected 1 draft call, got %d", drafter.calls)
	}
}

type panickingDrafter struct{}

func (panickingDrafter) Generate(context.Context, *profile.UserProfile, *matcher.Match) (*email.Draft, error) {
	panic("boom")
}

func TestHandleRecoversFromPanic(t *testing.T) {
	h := newTestHandler(&stubSearcher{}, &stubParser{}, panickingDrafter{})

	resp := h.Handle(context.Background(), &Request{
		Action:  ActionGenerateEmails,
		Profile: testProfile(),
		Contacts: []*apollo.Contact{
			relevantContact("Jane Smith", "jane@acme.com"),
		},
	})
	if resp.Success {
		t.Fatal("expected failure envelope after panic")
	}
	if resp.Error == "" {
		t.Fatal("expected error message after panic")
	}
}
