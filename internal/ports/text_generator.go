package ports

import "context"

// TextGenerator produces an answer for a prompt using a generative-text provider
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
