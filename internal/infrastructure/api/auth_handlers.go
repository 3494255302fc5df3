package api

import (
	"net/http"

	"skyutilities-dashboard/internal/application"
	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/infrastructure/session"

	"github.com/rs/zerolog"
)

// loginHandler skips OAuth when a session cookie is already present
func loginHandler(sessions *session.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sessions.HasSession(r) {
			http.Redirect(w, r, "/dashboard.html", http.StatusFound)
			return
		}
		http.Redirect(w, r, "/login/discord", http.StatusFound)
	}
}

// oauthInitHandler redirects to Discord's authorize endpoint
func oauthInitHandler(auth *application.AuthService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authURL, err := auth.LoginURL(r.Context())
		if err != nil {
			logger.Error().Err(err).Msg("Failed to start OAuth flow")
			writeMessage(w, http.StatusInternalServerError, "Failed to start login")
			return
		}
		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// oauthCallbackHandler exchanges the code, begins the session and opens the dashboard
func oauthCallbackHandler(auth *application.AuthService, sessions *session.CookieStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		state := r.URL.Query().Get("state")

		sess, err := auth.CompleteLogin(r.Context(), code, state)
		if err != nil {
			if domain.KindOf(err) == domain.KindInternal {
				logger.Error().Err(err).Msg("OAuth callback error")
			}
			writeError(w, logger, err, "OAuth callback error")
			return
		}

		sessions.Begin(w, sess)
		http.Redirect(w, r, "/dashboard.html", http.StatusFound)
	}
}

// logoutHandler clears the session cookies
func logoutHandler(sessions *session.CookieStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions.End(w)
		http.Redirect(w, r, "/index.html", http.StatusFound)
	}
}

// meHandler returns the operator's Discord identity
func meHandler(auth *application.AuthService, sessions *session.CookieStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := sessions.BearerToken(r)
		if err != nil {
			writeError(w, logger, err, "Not logged in")
			return
		}

		user, err := auth.CurrentUser(r.Context(), token)
		if err != nil {
			if domain.IsKind(err, domain.KindSessionInvalid) {
				sessions.End(w)
			}
			writeError(w, logger, err, "Server error fetching user data")
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
