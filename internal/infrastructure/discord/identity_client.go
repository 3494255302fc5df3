package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// APIBaseURL is Discord's REST API root
const APIBaseURL = "https://discord.com/api"

// Endpoint is Discord's OAuth2 endpoint. Client credentials travel in the form body.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://discord.com/oauth2/authorize",
	TokenURL:  "https://discord.com/api/oauth2/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// Scopes requested from operators
var Scopes = []string{"identify", "guilds"}

// IdentityClientConfig configures the identity client
type IdentityClientConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and APIBaseURL default to Discord's production URLs
	Endpoint   oauth2.Endpoint
	APIBaseURL string

	// HTTPClient is used for the token exchange and the REST calls; defaults to http.DefaultClient
	HTTPClient *http.Client
}

// IdentityClient talks to Discord on behalf of an operator
type IdentityClient struct {
	oauth      *oauth2.Config
	apiBaseURL string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewIdentityClient creates a new Discord identity client
func NewIdentityClient(cfg IdentityClientConfig, logger zerolog.Logger) ports.IdentityProvider {
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = Endpoint
	}
	apiBaseURL := strings.TrimSuffix(cfg.APIBaseURL, "/")
	if apiBaseURL == "" {
		apiBaseURL = APIBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &IdentityClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       Scopes,
		},
		apiBaseURL: apiBaseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// AuthCodeURL builds the authorization URL. The bot asks for the administrator permission
// so the same link can also be used to add it to a guild.
func (c *IdentityClient) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("permissions", "8"),
		oauth2.SetAuthURLParam("integration_type", "0"),
	)
}

// ExchangeCode trades an authorization code for a bearer token
func (c *IdentityClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	token, err := c.oauth.Exchange(c.withHTTPClient(ctx), code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", &domain.Error{
				Kind:    domain.KindAuthExchangeFailed,
				Message: "Failed to obtain access token",
				Details: string(retrieveErr.Body),
				Err:     err,
			}
		}
		if strings.Contains(err.Error(), "missing access_token") {
			return "", &domain.Error{
				Kind:    domain.KindAuthExchangeFailed,
				Message: "Failed to obtain access token",
				Details: err.Error(),
				Err:     err,
			}
		}
		return "", domain.WrapError(domain.KindUpstreamFailure, "OAuth callback error", err)
	}
	return token.AccessToken, nil
}

// FetchIdentity returns the user behind the bearer token
func (c *IdentityClient) FetchIdentity(ctx context.Context, bearerToken string) (*domain.UserIdentity, error) {
	var user domain.UserIdentity
	if err := c.getJSON(ctx, bearerToken, "/users/@me", &user); err != nil {
		if domain.IsKind(err, domain.KindSessionInvalid) {
			return nil, &domain.Error{Kind: domain.KindSessionInvalid, Message: "Invalid or expired token, please log in again.", Err: err}
		}
		return nil, err
	}
	return &user, nil
}

// FetchUserGuilds returns the user's guild memberships
func (c *IdentityClient) FetchUserGuilds(ctx context.Context, bearerToken string) ([]domain.RawGuildMembership, error) {
	var guilds []domain.RawGuildMembership
	if err := c.getJSON(ctx, bearerToken, "/users/@me/guilds", &guilds); err != nil {
		if domain.IsKind(err, domain.KindSessionInvalid) {
			return nil, &domain.Error{Kind: domain.KindSessionInvalid, Message: "Cannot fetch guilds, please log in again.", Err: err}
		}
		return nil, err
	}
	return guilds, nil
}

// getJSON performs a bearer-authenticated GET; any non-2xx status means Discord rejected the token
func (c *IdentityClient) getJSON(ctx context.Context, bearerToken, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := c.oauth.Client(c.withHTTPClient(ctx), &oauth2.Token{AccessToken: bearerToken, TokenType: "Bearer"})
	resp, err := client.Do(req)
	if err != nil {
		return domain.WrapError(domain.KindUpstreamFailure, "Discord request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("Discord rejected bearer token")
		return domain.WrapError(domain.KindSessionInvalid, "Discord rejected the session",
			fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.WrapError(domain.KindUpstreamFailure, "Failed to decode Discord response", err)
	}
	return nil
}

func (c *IdentityClient) withHTTPClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}
