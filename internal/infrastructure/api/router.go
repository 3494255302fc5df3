package api

import (
	"encoding/json"
	"net/http"

	"skyutilities-dashboard/internal/application"
	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/infrastructure/metrics"
	securitymiddleware "skyutilities-dashboard/internal/infrastructure/middleware"
	"skyutilities-dashboard/internal/infrastructure/session"
	"skyutilities-dashboard/internal/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
)

// GuildDataPrefix is the path prefix gated on bot readiness
const GuildDataPrefix = "/api/guilds/"

// Dependencies are the services the HTTP surface is built from
type Dependencies struct {
	Auth         *application.AuthService
	Guilds       *application.GuildService
	Assistant    *application.AssistantService
	ERLC         *application.ConfigService[domain.FeatureConfig]
	Reminders    *application.ConfigService[domain.ReminderConfig]
	Restrictions *application.ConfigService[domain.RestrictionConfig]
	Directory    ports.GuildDirectory
	Sessions     *session.CookieStore
	Metrics      *metrics.Metrics

	AllowedOrigins []string
	StaticDir      string
	SwaggerFile    string
	Logger         zerolog.Logger
}

// NewRouter builds the dashboard's HTTP handler
func NewRouter(deps Dependencies) http.Handler {
	logger := deps.Logger
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}))
	r.Use(securitymiddleware.RequireBotReadyMiddleware(deps.Directory, GuildDataPrefix, logger))

	notFound := notFoundHandler(deps.StaticDir, logger)
	r.NotFound(staticHandler(deps.StaticDir, notFound))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "ok", "botReady": deps.Directory.IsReady()})
	})
	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	r.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		http.ServeFile(w, r, deps.SwaggerFile)
	})

	// OAuth routes
	r.Get("/login", loginHandler(deps.Sessions))
	r.Get("/login/discord", oauthInitHandler(deps.Auth, logger))
	r.Get("/logout", logoutHandler(deps.Sessions))

	// Session-gated pages
	r.Get("/dashboard.html", dashboardPageHandler(deps.StaticDir, "dashboard.html", deps.Sessions, notFound))
	r.Get("/dashboard/server/{guildId}", dashboardPageHandler(deps.StaticDir, "server.html", deps.Sessions, notFound))

	r.Route("/api", func(r chi.Router) {
		r.Use(securitymiddleware.NoCacheMiddleware)
		r.NotFound(notFound)

		r.Get("/callback", oauthCallbackHandler(deps.Auth, deps.Sessions, logger))
		r.Get("/me", meHandler(deps.Auth, deps.Sessions, logger))
		r.Get("/servers/me", myServersHandler(deps.Guilds, deps.Sessions, logger))
		r.Get("/stats", statsHandler(deps.Guilds, logger))
		r.Get("/guilds/{guildId}/members", membersHandler(deps.Guilds, logger))
		r.Post("/ai-chat", aiChatHandler(deps.Assistant, logger))

		mountConfigRoutes(r, deps.ERLC, logger)
		mountConfigRoutes(r, deps.Reminders, logger)
		mountConfigRoutes(r, deps.Restrictions, logger)
		r.Post("/restrictions/{guildId}", upsertConfigByPathHandler(deps.Restrictions, logger))
	})

	return r
}
