package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Config holds the process configuration read from the environment
type Config struct {
	DiscordClientID     string
	DiscordClientSecret string
	BotToken            string
	MongoURI            string
	MongoDatabase       string
	RedisURL            string
	GeminiAPIKey        string
	GeminiModel         string
	BaseURL             string
	Port                string
	LogLevel            zerolog.Level
	CORSAllowedOrigins  []string
	StaticDir           string
}

// Load reads an optional .env file and then the environment.
// The returned bool is false when no .env file was found.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	cfg := &Config{
		DiscordClientID:     os.Getenv("DISCORD_CLIENT_ID"),
		DiscordClientSecret: os.Getenv("DISCORD_CLIENT_SECRET"),
		BotToken:            os.Getenv("TOKEN"),
		MongoURI:            firstNonEmpty(os.Getenv("MONGODB_URI"), os.Getenv("mongoURL"), "mongodb://localhost:27017"),
		MongoDatabase:       getenv("MONGODB_DATABASE", "skyutilities"),
		RedisURL:            os.Getenv("REDIS_URL"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         getenv("GEMINI_MODEL", "gemini-2.5-pro"),
		BaseURL:             strings.TrimRight(getenv("BASE_URL", "http://localhost:8080"), "/"),
		Port:                getenv("PORT", "8080"),
		LogLevel:            zerolog.InfoLevel,
		CORSAllowedOrigins:  splitList(getenv("CORS_ALLOWED_ORIGINS", "*")),
		StaticDir:           getenv("STATIC_DIR", "public"),
	}

	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		cfg.LogLevel = level
	}

	return cfg, envLoaded
}

// RedirectURL is the OAuth callback registered with Discord
func (c *Config) RedirectURL() string {
	return c.BaseURL + "/api/callback"
}

// Validate returns warnings for settings that disable features; none are fatal
func (c *Config) Validate() []string {
	var warnings []string
	if c.DiscordClientID == "" || c.DiscordClientSecret == "" {
		warnings = append(warnings, "DISCORD_CLIENT_ID or DISCORD_CLIENT_SECRET is not set, login will fail")
	}
	if c.BotToken == "" {
		warnings = append(warnings, "TOKEN is not set, guild routes will report the bot as not ready")
	}
	if c.GeminiAPIKey == "" {
		warnings = append(warnings, "GEMINI_API_KEY is not set, AI chat is disabled")
	}
	return warnings
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
