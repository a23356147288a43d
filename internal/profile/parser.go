package profile

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"coffeechat/internal/ai"
	"coffeechat/internal/utils"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// Parser extracts a UserProfile from resume text with one language-model
// call. It holds no state beyond its dependencies.
type Parser struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewParser(generator ai.Generator, logger *zap.Logger) *Parser {
	return &Parser{
		generator: generator,
		logger:    logger,
		maxLogLen: defaultMaxLogLength,
	}
}

func (p *Parser) Parse(ctx context.Context, resumeText string) (*UserProfile, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, fmt.Errorf("resume text is empty")
	}

	prompt := strings.ReplaceAll(promptTemplate, "{{RESUME_TEXT}}", resumeText)

	p.logger.Debug("profile extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("model", p.generator.Model()),
	)

	raw, err := p.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}

	p.logger.Debug("profile extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, p.maxLogLen)),
	)

	var parsed UserProfile
	if err := ai.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("extract profile: %w", err)
	}

	if strings.TrimSpace(parsed.Name) == "" {
		return nil, fmt.Errorf("extract profile: model returned no name")
	}

	return &parsed, nil
}
