package ai

import "context"

// Generator produces model output for a single prompt. The profile parser and
// the email generator are stateless request/response wrappers around it.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
