package ports

import (
	"context"

	"skyutilities-dashboard/internal/domain"
)

// IdentityProvider defines the Discord OAuth2 operations the dashboard relies on.
// Bearer tokens are opaque; a rejected token yields a KindSessionInvalid error.
type IdentityProvider interface {
	// AuthCodeURL builds the authorization URL; an empty state is omitted
	AuthCodeURL(state string) string

	// ExchangeCode trades an authorization code for a bearer token
	ExchangeCode(ctx context.Context, code string) (string, error)

	// FetchIdentity returns the user behind the bearer token
	FetchIdentity(ctx context.Context, bearerToken string) (*domain.UserIdentity, error)

	// FetchUserGuilds returns the user's guild memberships in provider order
	FetchUserGuilds(ctx context.Context, bearerToken string) ([]domain.RawGuildMembership, error)
}
