package workflow

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"coffeechat/internal/apollo"
	"coffeechat/internal/email"
	"coffeechat/internal/personas"
	"coffeechat/internal/profile"
)

const (
	ActionFullWorkflow   = "full_workflow"
	ActionParseResume    = "parse_resume"
	ActionSearchContacts = "search_contacts"
	ActionGenerateEmails = "generate_emails"
)

// Request is the uniform payload accepted by every action.
type Request struct {
	Action string `json:"action" validate:"required,oneof=full_workflow parse_resume search_contacts generate_emails"`

	Resume   ResumeSource         `json:"resume"`
	Search   *apollo.SearchParams `json:"search,omitempty"`
	Persona  string               `json:"persona,omitempty"`
	Profile  *profile.UserProfile `json:"profile,omitempty"`
	Contacts []*apollo.Contact    `json:"contacts,omitempty"`

	MinRelevanceScore *float64 `json:"min_relevance_score,omitempty" validate:"omitempty,gte=0,lte=1"`
}

// Response is the uniform envelope every action returns. Success with a
// non-empty Warning means the run finished in a degraded state.
type Response struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Warning string `json:"warning,omitempty"`

	Profile  *profile.UserProfile `json:"profile,omitempty"`
	Contacts []*apollo.Contact    `json:"contacts,omitempty"`
	Drafts   []*email.Draft       `json:"drafts,omitempty"`
	Failures []Failure            `json:"failures,omitempty"`

	// Count mirrors ContactsFound on search_contacts responses, which
	// document the result size under that name.
	Count            *int `json:"count,omitempty"`
	ContactsFound    *int `json:"contacts_found,omitempty"`
	ContactsAnalyzed *int `json:"contacts_analyzed,omitempty"`
	RelevantContacts *int `json:"relevant_contacts,omitempty"`
	EmailsGenerated  *int `json:"emails_generated,omitempty"`
}

func failure(format string, args ...any) *Response {
	return &Response{Error: fmt.Sprintf(format, args...)}
}

func intp(v int) *int { return &v }

// Handler routes action requests into the workflow.
type Handler struct {
	workflow *Workflow
	validate *validator.Validate
	logger   *zap.Logger
}

func NewHandler(w *Workflow, logger *zap.Logger) *Handler {
	return &Handler{
		workflow: w,
		validate: validator.New(),
		logger:   logger.Named("actions"),
	}
}

// Handle validates and dispatches one request. It never panics; an internal
// panic is converted into a failure envelope.
func (h *Handler) Handle(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if r := recover(); r != nil {
			h.logger.Error("action panicked", zap.Any("panic", r))
			resp = failure("internal error: %v", r)
		}
	}()

	if req == nil {
		return failure("empty request")
	}
	if err := h.validate.Struct(req); err != nil {
		return failure("invalid request: %v", err)
	}

	h.logger.Info("handle action", zap.String("action", req.Action))

	// A per-request cutoff gets a shallow copy so concurrent requests do not
	// observe each other's score.
	w := h.workflow
	if req.MinRelevanceScore != nil {
		clone := *h.workflow
		clone.MinScore = *req.MinRelevanceScore
		w = &clone
	}

	switch req.Action {
	case ActionFullWorkflow:
		return h.fullWorkflow(ctx, w, req)
	case ActionParseResume:
		return h.parseResume(ctx, w, req)
	case ActionSearchContacts:
		return h.searchContacts(ctx, w, req)
	case ActionGenerateEmails:
		return h.generateEmails(ctx, w, req)
	default:
		return failure("unknown action: %s", req.Action)
	}
}

func (h *Handler) fullWorkflow(ctx context.Context, w *Workflow, req *Request) *Response {
	if req.Resume.empty() {
		return failure("full_workflow requires a resume")
	}
	params, err := h.searchParams(req)
	if err != nil {
		return failure("%v", err)
	}

	result, err := w.Run(ctx, req.Resume, params)
	if err != nil {
		return failure("%v", err)
	}

	resp := &Response{
		Success:          true,
		Warning:          result.Warning,
		Profile:          result.Profile,
		Drafts:           result.Drafts,
		Failures:         result.Failures,
		ContactsFound:    intp(result.Contacts.Len()),
		RelevantContacts: intp(len(result.Matches)),
		EmailsGenerated:  intp(len(result.Drafts)),
	}
	if result.Contacts != nil {
		resp.Contacts = result.Contacts.Items
	}
	return resp
}

func (h *Handler) parseResume(ctx context.Context, w *Workflow, req *Request) *Response {
	if req.Resume.empty() {
		return failure("parse_resume requires a resume")
	}
	userProfile, err := w.ParseResume(ctx, req.Resume)
	if err != nil {
		return failure("%v", err)
	}
	return &Response{Success: true, Profile: userProfile}
}

func (h *Handler) searchContacts(ctx context.Context, w *Workflow, req *Request) *Response {
	params, err := h.searchParams(req)
	if err != nil {
		return failure("%v", err)
	}
	if len(params.Titles) == 0 && len(params.Locations) == 0 &&
		len(params.Industries) == 0 && params.Keywords == "" {
		return failure("search_contacts requires search criteria or a persona")
	}
	contacts, err := w.SearchContacts(ctx, params)
	if err != nil {
		return failure("%v", err)
	}
	return &Response{
		Success:       true,
		Contacts:      contacts.Items,
		Count:         intp(contacts.Len()),
		ContactsFound: intp(contacts.Len()),
	}
}

func (h *Handler) generateEmails(ctx context.Context, w *Workflow, req *Request) *Response {
	if req.Profile == nil {
		return failure("generate_emails requires a profile")
	}
	if len(req.Contacts) == 0 {
		return failure("generate_emails requires contacts")
	}
	contacts := &apollo.Contacts{Items: req.Contacts}
	matches, drafts, failures := w.GenerateEmails(ctx, req.Profile, contacts)
	return &Response{
		Success:          true,
		Drafts:           drafts,
		Failures:         failures,
		ContactsAnalyzed: intp(contacts.Len()),
		RelevantContacts: intp(len(matches)),
		EmailsGenerated:  intp(len(drafts)),
	}
}

// searchParams merges persona filters into the request's search params.
func (h *Handler) searchParams(req *Request) (*apollo.SearchParams, error) {
	params := req.Search
	if params == nil {
		params = &apollo.SearchParams{}
	}
	if req.Persona != "" {
		persona, err := personas.Parse(req.Persona)
		if err != nil {
			return nil, err
		}
		filters, _ := personas.Get(persona)
		filters.Apply(params)
	}
	return params, nil
}
