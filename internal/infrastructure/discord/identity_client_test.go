package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newTestIdentityClient(t *testing.T, handler http.Handler) ports.IdentityProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewIdentityClient(IdentityClientConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/api/callback",
		Endpoint: oauth2.Endpoint{
			AuthURL:   srv.URL + "/oauth2/authorize",
			TokenURL:  srv.URL + "/api/oauth2/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		APIBaseURL: srv.URL + "/api",
		HTTPClient: srv.Client(),
	}, zerolog.Nop())
}

func TestIdentityClient_AuthCodeURL(t *testing.T) {
	client := NewIdentityClient(IdentityClientConfig{
		ClientID:    "1377632934965674055",
		RedirectURL: "http://localhost:8080/api/callback",
	}, zerolog.Nop())

	parsed, err := url.Parse(client.AuthCodeURL("state-1"))
	require.NoError(t, err)

	assert.Equal(t, "discord.com", parsed.Host)
	assert.Equal(t, "/oauth2/authorize", parsed.Path)
	q := parsed.Query()
	assert.Equal(t, "1377632934965674055", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "identify guilds", q.Get("scope"))
	assert.Equal(t, "http://localhost:8080/api/callback", q.Get("redirect_uri"))
	assert.Equal(t, "8", q.Get("permissions"))
	assert.Equal(t, "0", q.Get("integration_type"))
	assert.Equal(t, "state-1", q.Get("state"))
}

func TestIdentityClient_ExchangeCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, "http://localhost:8080/api/callback", r.PostForm.Get("redirect_uri"))

		w.Header().Set("Content-Type", "application/json")
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid \"code\" in request."}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "bearer-123",
			"token_type":   "Bearer",
			"expires_in":   604800,
			"scope":        "identify guilds",
		})
	})
	client := newTestIdentityClient(t, mux)

	t.Run("success", func(t *testing.T) {
		token, err := client.ExchangeCode(context.Background(), "good-code")
		require.NoError(t, err)
		assert.Equal(t, "bearer-123", token)
	})

	t.Run("provider error body is carried", func(t *testing.T) {
		_, err := client.ExchangeCode(context.Background(), "bad-code")
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.KindAuthExchangeFailed, de.Kind)
		assert.Contains(t, de.Details, "invalid_grant")
	})
}

func TestIdentityClient_ExchangeCode_MissingAccessToken(t *testing.T) {
	client := newTestIdentityClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer"}`))
	}))

	_, err := client.ExchangeCode(context.Background(), "code")
	assert.Equal(t, domain.KindAuthExchangeFailed, domain.KindOf(err))
}

func TestIdentityClient_FetchIdentity(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"401: Unauthorized","code":0}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"80351110224678912","username":"nelly","global_name":"Nelly","avatar":"8342729096ea3675442027381ff50dfe"}`))
	})
	client := newTestIdentityClient(t, mux)

	user, err := client.FetchIdentity(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "80351110224678912", user.ID)
	assert.Equal(t, "Nelly", user.GlobalName)

	_, err = client.FetchIdentity(context.Background(), "revoked")
	assert.Equal(t, domain.KindSessionInvalid, domain.KindOf(err))
}

func TestIdentityClient_FetchUserGuilds(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users/@me/guilds", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[
			{"id":"1","name":"One","icon":null,"owner":true,"permissions":"2251799813685247"},
			{"id":"2","name":"Two","icon":"abc","owner":false,"permissions":"104324673"}
		]`))
	})
	client := newTestIdentityClient(t, mux)

	guilds, err := client.FetchUserGuilds(context.Background(), "good")
	require.NoError(t, err)
	require.Len(t, guilds, 2)
	assert.Equal(t, "2251799813685247", guilds[0].Permissions)
	assert.Equal(t, "", guilds[0].Icon)
	assert.Equal(t, "abc", guilds[1].Icon)

	_, err = client.FetchUserGuilds(context.Background(), "expired")
	assert.Equal(t, domain.KindSessionInvalid, domain.KindOf(err))
}

func TestIdentityClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := NewIdentityClient(IdentityClientConfig{APIBaseURL: srv.URL}, zerolog.Nop())
	_, err := client.FetchIdentity(context.Background(), "token")
	assert.Equal(t, domain.KindUpstreamFailure, domain.KindOf(err))
}
