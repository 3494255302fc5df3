package ports

import (
	"context"

	"skyutilities-dashboard/internal/domain"
)

// GuildDirectory is the bot runtime as seen by request handlers.
// The guild cache behind it is owned by the bot's connection and is read-only here.
type GuildDirectory interface {
	// IsReady reports whether the gateway handshake completed and the cache is populated
	IsReady() bool

	// GuildIsMember checks the cached guild set; it never calls Discord
	GuildIsMember(guildID string) bool

	// FetchGuild performs a live lookup
	FetchGuild(ctx context.Context, guildID string) (*domain.Guild, error)

	// FetchMembers returns the full member roster of a guild
	FetchMembers(ctx context.Context, guildID string) ([]domain.GuildMember, error)

	// CachedGuilds returns a snapshot of the cached guilds
	CachedGuilds() []domain.Guild
}
