package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skyutilities-dashboard/internal/application"
	"skyutilities-dashboard/internal/config"
	"skyutilities-dashboard/internal/domain"
	apiinfra "skyutilities-dashboard/internal/infrastructure/api"
	"skyutilities-dashboard/internal/infrastructure/discord"
	"skyutilities-dashboard/internal/infrastructure/gemini"
	"skyutilities-dashboard/internal/infrastructure/metrics"
	"skyutilities-dashboard/internal/infrastructure/pubsub"
	"skyutilities-dashboard/internal/infrastructure/repository"
	"skyutilities-dashboard/internal/infrastructure/session"
	"skyutilities-dashboard/internal/ports"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Initialize logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, envLoaded := config.Load()
	if !envLoaded {
		logger.Warn().Msg("⚠️  Warning: .env file not found")
	}
	logger = logger.Level(cfg.LogLevel)
	for _, warning := range cfg.Validate() {
		logger.Warn().Msg(warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)

	// Initialize repositories
	erlcRepo := repository.NewMongoGuildConfigRepository[domain.FeatureConfig](db, domain.FeatureConfigDomain)
	reminderRepo := repository.NewMongoGuildConfigRepository[domain.ReminderConfig](db, domain.ReminderConfigDomain)
	restrictionRepo := repository.NewMongoGuildConfigRepository[domain.RestrictionConfig](db, domain.RestrictionConfigDomain)

	indexCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	for _, ensure := range []func(context.Context) error{
		erlcRepo.EnsureIndexes,
		reminderRepo.EnsureIndexes,
		restrictionRepo.EnsureIndexes,
	} {
		if err := ensure(indexCtx); err != nil {
			logger.Warn().Err(err).Msg("Failed to ensure indexes")
		}
	}
	cancel()

	stateStore := newStateStore(ctx, cfg.RedisURL, logger)

	// Discord bot runtime
	var directory ports.GuildDirectory = discord.Offline{}
	if cfg.BotToken != "" {
		bot, err := discord.NewBot(cfg.BotToken, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to create Discord session")
		}
		if err := bot.Open(); err != nil {
			logger.Error().Err(err).Msg("Failed to log in Discord client")
		} else {
			defer bot.Close()
		}
		directory = bot
	}

	identity := discord.NewIdentityClient(discord.IdentityClientConfig{
		ClientID:     cfg.DiscordClientID,
		ClientSecret: cfg.DiscordClientSecret,
		RedirectURL:  cfg.RedirectURL(),
	}, logger)

	var generator ports.TextGenerator
	if cfg.GeminiAPIKey != "" {
		generator = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel, "", logger)
	}

	// Metrics and config change fan-out
	appMetrics := metrics.New()
	appMetrics.RegisterDirectory(directory)

	configEvents := pubsub.NewConfigEvents(logger)
	go watchConfigChanges(configEvents.Subscribe(ctx, nil), appMetrics, logger)

	// Initialize application services
	handler := apiinfra.NewRouter(apiinfra.Dependencies{
		Auth:         application.NewAuthService(identity, stateStore, logger),
		Guilds:       application.NewGuildService(identity, directory, logger),
		Assistant:    application.NewAssistantService(generator, logger),
		ERLC:         application.NewConfigService[domain.FeatureConfig](domain.FeatureConfigDomain, erlcRepo, logger).WithEvents(configEvents),
		Reminders:    application.NewConfigService[domain.ReminderConfig](domain.ReminderConfigDomain, reminderRepo, logger).WithEvents(configEvents),
		Restrictions: application.NewConfigService[domain.RestrictionConfig](domain.RestrictionConfigDomain, restrictionRepo, logger).WithEvents(configEvents),
		Directory:    directory,
		Sessions:     session.NewCookieStore(cfg.BaseURL),
		Metrics:      appMetrics,

		AllowedOrigins: cfg.CORSAllowedOrigins,
		StaticDir:      cfg.StaticDir,
		SwaggerFile:    "./docs/swagger.json",
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	logger.Info().Str("port", cfg.Port).Str("redirectUri", cfg.RedirectURL()).Msg("Starting API server")
	logger.Info().Msg("Swagger documentation available at http://localhost:" + cfg.Port + "/swagger/index.html")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to start server")
	}
}

// newStateStore uses Redis when REDIS_URL is set and reachable, memory otherwise
func newStateStore(ctx context.Context, redisURL string, logger zerolog.Logger) ports.OAuthStateStore {
	if redisURL == "" {
		logger.Info().Msg("REDIS_URL not set, keeping OAuth state in memory")
		return repository.NewMemoryStateStore()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("Invalid REDIS_URL")
	}
	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Redis unreachable, keeping OAuth state in memory")
		rdb.Close()
		return repository.NewMemoryStateStore()
	}
	return repository.NewRedisStateStore(rdb)
}

// watchConfigChanges counts and audits configuration saves and clears
func watchConfigChanges(channel *pubsub.ConfigEventChannel, appMetrics *metrics.Metrics, logger zerolog.Logger) {
	for event := range channel.Events {
		appMetrics.ObserveConfigChange(event)
		logger.Info().
			Str("domain", event.Domain).
			Str("guildId", event.GuildID).
			Str("action", string(event.Action)).
			Time("at", event.At).
			Msg("Guild configuration changed")
	}
}
