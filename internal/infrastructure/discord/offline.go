package discord

import (
	"context"

	"skyutilities-dashboard/internal/domain"
)

// Offline stands in for the bot when no bot token is configured; it never becomes ready
type Offline struct{}

func (Offline) IsReady() bool { return false }

func (Offline) GuildIsMember(string) bool { return false }

func (Offline) FetchGuild(context.Context, string) (*domain.Guild, error) {
	return nil, domain.NewError(domain.KindBotNotReady, "Discord bot is not configured.")
}

func (Offline) FetchMembers(context.Context, string) ([]domain.GuildMember, error) {
	return nil, domain.NewError(domain.KindBotNotReady, "Discord bot is not configured.")
}

func (Offline) CachedGuilds() []domain.Guild { return nil }
