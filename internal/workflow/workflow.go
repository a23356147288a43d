package workflow

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"coffeechat/internal/apollo"
	"coffeechat/internal/email"
	"coffeechat/internal/matcher"
	"coffeechat/internal/profile"
)

// DefaultMinScore is the relevance cutoff used when the caller does not set one.
const DefaultMinScore = 0.5

// ContactSearcher is the contact discovery surface the workflow needs.
type ContactSearcher interface {
	SearchContacts(ctx context.Context, params *apollo.SearchParams) (*apollo.Contacts, error)
	EnrichEmail(ctx context.Context, contact *apollo.Contact) error
}

// ResumeParser extracts a structured profile from resume text.
type ResumeParser interface {
	Parse(ctx context.Context, resumeText string) (*profile.UserProfile, error)
}

// DraftGenerator writes one outreach draft for a scored match.
type DraftGenerator interface {
	Generate(ctx context.Context, p *profile.UserProfile, match *matcher.Match) (*email.Draft, error)
}

// Failure records a per-contact problem that did not stop the run.
type Failure struct {
	ContactName string `json:"contact_name"`
	Stage       string `json:"stage"`
	Reason      string `json:"reason"`
}

// Result is everything a full run produced. Warning is set when the run
// finished in a degraded state, such as a rate-limited search.
type Result struct {
	Profile  *profile.UserProfile `json:"profile,omitempty"`
	Contacts *apollo.Contacts     `json:"contacts,omitempty"`
	Matches  []*matcher.Match     `json:"matches,omitempty"`
	Drafts   []*email.Draft       `json:"drafts,omitempty"`
	Failures []Failure            `json:"failures,omitempty"`
	Warning  string               `json:"warning,omitempty"`
}

// Workflow chains resume parsing, contact search, relevance scoring and
// draft generation.
type Workflow struct {
	Searcher  ContactSearcher
	Parser    ResumeParser
	Drafter   DraftGenerator
	Extractor TextExtractor

	// MinScore is the relevance cutoff. Zero is a real cutoff that keeps
	// every contact; New starts it at DefaultMinScore.
	MinScore float64

	logger *zap.Logger
}

func New(searcher ContactSearcher, parser ResumeParser, drafter DraftGenerator, logger *zap.Logger) *Workflow {
	return &Workflow{
		Searcher:  searcher,
		Parser:    parser,
		Drafter:   drafter,
		Extractor: PlainTextExtractor{},
		MinScore:  DefaultMinScore,
		logger:    logger.Named("workflow"),
	}
}

// ParseResume resolves the resume source to text and parses it into a profile.
func (w *Workflow) ParseResume(ctx context.Context, source ResumeSource) (*profile.UserProfile, error) {
	if source.empty() {
		return nil, fmt.Errorf("no resume source provided")
	}
	text, err := w.Extractor.Extract(source)
	if err != nil {
		return nil, err
	}
	userProfile, err := w.Parser.Parse(ctx, text)
	if err != nil {
		return nil, err
	}
	w.logger.Info("resume parsed", zap.String("name", userProfile.Name))
	return userProfile, nil
}

// SearchContacts runs a contact search with the given params.
func (w *Workflow) SearchContacts(ctx context.Context, params *apollo.SearchParams) (*apollo.Contacts, error) {
	contacts, err := w.Searcher.SearchContacts(ctx, params)
	if err != nil {
		return nil, err
	}
	w.logger.Info("contacts found", zap.Int("count", contacts.Len()))
	return contacts, nil
}

// GenerateEmails scores contacts against the profile, keeps those at or above
// the relevance cutoff and writes a draft for each. A contact without an email
// gets one enrichment attempt before drafting. Per-contact problems are
// recorded as failures and do not stop siblings.
func (w *Workflow) GenerateEmails(ctx context.Context, p *profile.UserProfile, contacts *apollo.Contacts) ([]*matcher.Match, []*email.Draft, []Failure) {
	matches := matcher.Top(matcher.Analyze(p, contacts), w.MinScore)
	w.logger.Info("contacts matched",
		zap.Int("candidates", contacts.Len()),
		zap.Int("relevant", len(matches)),
	)

	var (
		drafts   []*email.Draft
		failures []Failure
	)
	for _, match := range matches {
		contact := match.Contact
		if contact.Email == "" {
			if err := w.Searcher.EnrichEmail(ctx, contact); err != nil {
				w.logger.Warn("email enrichment failed",
					zap.String("contact", contact.Name), zap.Error(err))
				failures = append(failures, Failure{
					ContactName: contact.Name,
					Stage:       "enrich",
					Reason:      err.Error(),
				})
				continue
			}
		}
		draft, err := w.Drafter.Generate(ctx, p, match)
		if err != nil {
			w.logger.Warn("draft generation failed",
				zap.String("contact", contact.Name), zap.Error(err))
			failures = append(failures, Failure{
				ContactName: contact.Name,
				Stage:       "generate",
				Reason:      err.Error(),
			})
			continue
		}
		drafts = append(drafts, draft)
	}
	w.logger.Info("drafts generated",
		zap.Int("drafts", len(drafts)), zap.Int("failures", len(failures)))
	return matches, drafts, failures
}

// Run executes the whole pipeline. A parse failure aborts the run. A
// rate-limited search degrades to a partial result with zero contacts and a
// warning instead of failing.
func (w *Workflow) Run(ctx context.Context, source ResumeSource, params *apollo.SearchParams) (*Result, error) {
	userProfile, err := w.ParseResume(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("parse resume: %w", err)
	}

	result := &Result{Profile: userProfile}

	contacts, err := w.SearchContacts(ctx, params)
	if err != nil {
		if errors.Is(err, apollo.ErrRateLimited) {
			w.logger.Warn("search rate limited, returning partial result")
			result.Contacts = &apollo.Contacts{}
			result.Warning = "contact search rate limited, no contacts retrieved"
			return result, nil
		}
		return nil, fmt.Errorf("search contacts: %w", err)
	}
	result.Contacts = contacts

	result.Matches, result.Drafts, result.Failures = w.GenerateEmails(ctx, userProfile, contacts)
	return result, nil
}
