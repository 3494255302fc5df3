package ports

import "context"

// GuildConfigRepository defines persistence for one per-guild configuration domain.
// At most one document exists per guild.
type GuildConfigRepository[T any] interface {
	// GetByGuildID returns nil, nil when the guild has no document
	GetByGuildID(ctx context.Context, guildID string) (*T, error)

	// Upsert atomically creates the document or replaces its fields, returning the stored result
	Upsert(ctx context.Context, guildID string, config *T) (*T, error)

	// DeleteByGuildID reports whether a document was removed
	DeleteByGuildID(ctx context.Context, guildID string) (bool, error)
}
