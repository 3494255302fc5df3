package application

import (
	"context"
	"fmt"
	"strings"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/rs/zerolog"
)

const assistantPrompt = `You are the help assistant of SkyUtilities, a Discord bot for ERLC (Emergency Response: Liberty County on Roblox).
Only answer questions about ERLC, the SkyUtilities bot and its features, or the SkyUtilities dashboard website.
For anything else, or when you lack the information, say politely that you cannot help with that question.
Keep answers short and to the point.

User question: %s`

// AssistantService forwards dashboard questions to the generative-text provider
type AssistantService struct {
	generator ports.TextGenerator
	logger    zerolog.Logger
}

// NewAssistantService creates a new assistant service; a nil generator disables it
func NewAssistantService(generator ports.TextGenerator, logger zerolog.Logger) *AssistantService {
	return &AssistantService{
		generator: generator,
		logger:    logger,
	}
}

// Enabled reports whether a provider is configured
func (s *AssistantService) Enabled() bool {
	return s.generator != nil
}

// Ask answers a single question
func (s *AssistantService) Ask(ctx context.Context, question string) (string, error) {
	if !s.Enabled() {
		return "", domain.NewError(domain.KindUnavailable, "AI assistant is not configured (missing API key).")
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", domain.NewError(domain.KindValidationFailed, "Question is required.")
	}

	answer, err := s.generator.GenerateText(ctx, fmt.Sprintf(assistantPrompt, question))
	if err != nil {
		s.logger.Error().Err(err).Msg("Error processing AI request")
		return "", err
	}
	return answer, nil
}
