package api

import (
	"net/http"

	"skyutilities-dashboard/internal/application"
	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/infrastructure/session"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// myServersHandler lists the guilds the operator administers
func myServersHandler(guilds *application.GuildService, sessions *session.CookieStore, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := sessions.BearerToken(r)
		if err != nil {
			writeError(w, logger, err, "Not logged in")
			return
		}

		result, err := guilds.AdministerableGuilds(r.Context(), token)
		if err != nil {
			if domain.IsKind(err, domain.KindSessionInvalid) {
				sessions.End(w)
			}
			writeError(w, logger, err, "Internal server error fetching servers")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

// statsHandler reports bot-wide totals
func statsHandler(guilds *application.GuildService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := guilds.Stats()
		if err != nil {
			writeError(w, logger, err, "Internal server error")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

// membersHandler returns the simplified member roster of a guild
func membersHandler(guilds *application.GuildService, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		guildID := chi.URLParam(r, "guildId")

		members, err := guilds.Members(r.Context(), guildID)
		if err != nil {
			writeError(w, logger, err, "Failed to fetch Discord guild members.")
			return
		}
		writeJSON(w, http.StatusOK, members)
	}
}
