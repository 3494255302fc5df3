package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"skyutilities-dashboard/internal/ports"

	"github.com/rs/zerolog"
)

// BotNotReadyMessage is returned while the bot session is still connecting
const BotNotReadyMessage = "Discord bot is not ready yet. Please try again in a moment."

// NoCacheMiddleware stops browsers and proxies from caching API responses
func NoCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// RequireBotReadyMiddleware rejects requests under prefix with 503 until the bot is ready.
// Other paths pass through untouched.
func RequireBotReadyMiddleware(directory ports.GuildDirectory, prefix string, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, prefix) || directory.IsReady() {
				next.ServeHTTP(w, r)
				return
			}

			logger.Warn().
				Str("path", r.URL.Path).
				Msg("Rejecting request, bot not ready")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"message": BotNotReadyMessage})
		})
	}
}
