package application

import (
	"context"
	"fmt"
	"time"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OAuthStateTTL bounds the time between /login/discord and the callback
const OAuthStateTTL = 10 * time.Minute

// AuthService handles the Discord login flow and operator identity
type AuthService struct {
	identity ports.IdentityProvider
	states   ports.OAuthStateStore
	logger   zerolog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	identity ports.IdentityProvider,
	states ports.OAuthStateStore,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		identity: identity,
		states:   states,
		logger:   logger,
	}
}

// LoginURL generates a state nonce and returns the Discord authorization URL
func (s *AuthService) LoginURL(ctx context.Context) (string, error) {
	state := uuid.NewString()
	if err := s.states.Save(ctx, state, OAuthStateTTL); err != nil {
		return "", fmt.Errorf("failed to save oauth state: %w", err)
	}
	return s.identity.AuthCodeURL(state), nil
}

// CompleteLogin exchanges the callback code and resolves the operator behind it.
// A callback without state is accepted; a state that was never issued (or expired) is rejected.
func (s *AuthService) CompleteLogin(ctx context.Context, code, state string) (*domain.Session, error) {
	if code == "" {
		return nil, domain.NewError(domain.KindValidationFailed, "No code provided")
	}

	if state != "" {
		ok, err := s.states.Consume(ctx, state)
		if err != nil {
			return nil, fmt.Errorf("failed to verify oauth state: %w", err)
		}
		if !ok {
			return nil, domain.NewError(domain.KindValidationFailed, "Invalid or expired OAuth state")
		}
	}

	token, err := s.identity.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to obtain access token")
		return nil, err
	}

	user, err := s.identity.FetchIdentity(ctx, token)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to fetch identity after token exchange")
		return nil, err
	}

	s.logger.Info().Str("userId", user.ID).Msg("Operator logged in")
	return &domain.Session{BearerToken: token, SubjectID: user.ID}, nil
}

// CurrentUser re-validates the bearer token against Discord and returns its owner
func (s *AuthService) CurrentUser(ctx context.Context, bearerToken string) (*domain.UserIdentity, error) {
	user, err := s.identity.FetchIdentity(ctx, bearerToken)
	if err != nil {
		if !domain.IsKind(err, domain.KindSessionInvalid) {
			s.logger.Error().Err(err).Msg("Failed to fetch user data")
		}
		return nil, err
	}
	return user, nil
}
