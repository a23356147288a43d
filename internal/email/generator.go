package email

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	_ "embed"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"coffeechat/internal/ai"
	"coffeechat/internal/matcher"
	"coffeechat/internal/profile"
	"coffeechat/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	// Only the strongest points go into the prompt.
	promptPointLimit = 3
)

// ErrNoEmail is returned when a contact has no email address; no model call
// is attempted in that case.
var ErrNoEmail = fmt.Errorf("contact has no email address")

// Generator produces one outreach draft per contact through a language-model
// call, grounded on the contact's connection points.
type Generator struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewGenerator(generator ai.Generator, logger *zap.Logger) *Generator {
	return &Generator{
		generator: generator,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

func (g *Generator) Generate(ctx context.Context, p *profile.UserProfile, match *matcher.Match) (*Draft, error) {
	if p == nil {
		return nil, fmt.Errorf("user profile is required")
	}
	if match == nil || match.Contact == nil {
		return nil, fmt.Errorf("contact match is required")
	}

	contact := match.Contact
	if strings.TrimSpace(contact.Email) == "" {
		return nil, fmt.Errorf("%s: %w", contact.Name, ErrNoEmail)
	}

	prompt := buildPrompt(p, match)

	g.logger.Debug("email generation request",
		zap.String("contact", contact.Name),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	raw, err := g.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate email for %s: %w", contact.Name, err)
	}

	g.logger.Debug("email generation response",
		zap.String("contact", contact.Name),
		zap.String("response_preview", utils.TruncateForLog(raw, g.maxLogLen)),
	)

	// Models occasionally type subject or body as something other than a
	// plain string, so decode loosely and coerce.
	var parsed map[string]any
	if err := ai.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("generate email for %s: %w", contact.Name, err)
	}

	body := ai.CoerceString(parsed["body"])
	if body == "" {
		return nil, fmt.Errorf("generate email for %s: model returned empty body", contact.Name)
	}

	subject := ai.CoerceString(parsed["subject"])
	if subject == "" {
		subject = fmt.Sprintf("Coffee chat with %s", contact.Name)
	}

	return &Draft{
		ID:               uuid.NewString(),
		ContactName:      contact.Name,
		ContactEmail:     contact.Email,
		ContactCompany:   contact.Company,
		ContactTitle:     contact.Title,
		Subject:          subject,
		Body:             body,
		ConnectionPoints: match.Points,
		Score:            match.Score,
		Status:           StatusDraft,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

func buildPrompt(p *profile.UserProfile, match *matcher.Match) string {
	contact := match.Contact

	title := contact.Title
	if title == "" {
		title = "Professional"
	}
	company := contact.Company
	if company == "" {
		company = "their company"
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{USER_PROFILE}}", p.Summary())
	prompt = strings.ReplaceAll(prompt, "{{CONTACT_NAME}}", contact.Name)
	prompt = strings.ReplaceAll(prompt, "{{CONTACT_TITLE}}", title)
	prompt = strings.ReplaceAll(prompt, "{{CONTACT_COMPANY}}", company)
	prompt = strings.ReplaceAll(prompt, "{{CONNECTION_POINTS}}", formatPoints(match.Points))
	return prompt
}

func formatPoints(points []matcher.ConnectionPoint) string {
	if len(points) == 0 {
		return "No specific connection points identified."
	}

	sorted := make([]matcher.ConnectionPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	if len(sorted) > promptPointLimit {
		sorted = sorted[:promptPointLimit]
	}

	lines := make([]string, 0, len(sorted))
	for _, point := range sorted {
		lines = append(lines, fmt.Sprintf("- %s: %s (weight %.2f)", point.Kind, point.Detail, point.Weight))
	}
	return strings.Join(lines, "\n")
}
