package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coffeechat/internal/ai"
	"coffeechat/internal/ai/gemini"
	"coffeechat/internal/apollo"
	"coffeechat/internal/email"
	"coffeechat/internal/profile"
	"coffeechat/internal/ratelimit"
	"coffeechat/internal/secrets"
	"coffeechat/internal/workflow"

	"go.uber.org/zap"
)

func newApolloClient(config *Config, logger *zap.Logger) (*apollo.Client, error) {
	if config.Apollo == nil || strings.TrimSpace(config.Apollo.APIKeyFile) == "" {
		return nil, errors.New("apollo api key file is not configured (set apollo.api-key-file or APOLLO_API_KEY_FILE)")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "apollo api key",
		File: config.Apollo.APIKeyFile,
	})
	if err != nil {
		return nil, err
	}

	capacity := config.Apollo.RateLimit
	if capacity <= 0 {
		capacity = defaultApolloRateLimit
	}
	window := config.Apollo.RateWindow
	if window <= 0 {
		window = defaultApolloRateWindow
	}

	limiter := ratelimit.New(capacity, window)
	return apollo.New(apiKey, limiter, logger), nil
}

func newGenerator(ctx context.Context, config *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	if config == nil || config.Gemini == nil {
		return nil, errors.New("gemini configuration is required under the ai section")
	}

	provider := strings.TrimSpace(strings.ToLower(config.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: config.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, config.Gemini.Model, config.Gemini.MaxRetries)
	if err != nil {
		return nil, err
	}

	logger.Debug("ai generator ready",
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
		zap.Int("max_retries", config.Gemini.MaxRetries),
	)
	return generator, nil
}

func buildWorkflow(ctx context.Context, config *Config, logger *zap.Logger) (*workflow.Workflow, error) {
	client, err := newApolloClient(config, logger)
	if err != nil {
		return nil, err
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		return nil, err
	}

	w := workflow.New(client,
		profile.NewParser(generator, logger),
		email.NewGenerator(generator, logger),
		logger,
	)
	if config.MinRelevanceScore > 0 {
		w.MinScore = config.MinRelevanceScore
	}

	return w, nil
}

func newDispatcher(config *EmailConfig, logger *zap.Logger) (*email.Dispatcher, error) {
	if config == nil || config.SMTP == nil {
		return nil, errors.New("smtp configuration is required under the email section to send drafts")
	}

	password, err := secrets.Load(secrets.Source{
		Name: "smtp password",
		File: config.SMTP.PasswordFile,
	})
	if err != nil {
		return nil, err
	}

	sender, err := email.NewSMTPSender(
		config.SMTP.Host, config.SMTP.Port,
		config.SMTP.Username, password, config.SMTP.From,
	)
	if err != nil {
		return nil, err
	}

	capacity := config.RateLimit
	if capacity <= 0 {
		capacity = defaultEmailRateLimit
	}
	window := config.RateWindow
	if window <= 0 {
		window = defaultEmailRateWindow
	}

	return email.NewDispatcher(sender, ratelimit.New(capacity, window), logger), nil
}
