package application

import (
	"context"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/rs/zerolog"
)

// DiscordChecks is the fixed external-check counter reported by /api/stats
const DiscordChecks = 15000

// GuildService answers guild questions by combining the operator's memberships with the bot's view
type GuildService struct {
	identity  ports.IdentityProvider
	directory ports.GuildDirectory
	logger    zerolog.Logger
}

// NewGuildService creates a new guild service
func NewGuildService(
	identity ports.IdentityProvider,
	directory ports.GuildDirectory,
	logger zerolog.Logger,
) *GuildService {
	return &GuildService{
		identity:  identity,
		directory: directory,
		logger:    logger,
	}
}

// AdministerableGuilds returns the operator's guilds that carry the administrator bit,
// in the order Discord returned them, flagged with whether the bot is present.
func (s *GuildService) AdministerableGuilds(ctx context.Context, bearerToken string) ([]domain.AdministerableGuild, error) {
	memberships, err := s.identity.FetchUserGuilds(ctx, bearerToken)
	if err != nil {
		if !domain.IsKind(err, domain.KindSessionInvalid) {
			s.logger.Error().Err(err).Msg("Failed to fetch servers")
		}
		return nil, err
	}
	return FilterAdministerable(memberships, s.directory.GuildIsMember, s.logger), nil
}

// FilterAdministerable keeps memberships with the administrator bit set.
// Memberships whose permissions cannot be parsed are skipped.
func FilterAdministerable(
	memberships []domain.RawGuildMembership,
	botIsMember func(guildID string) bool,
	logger zerolog.Logger,
) []domain.AdministerableGuild {
	result := make([]domain.AdministerableGuild, 0, len(memberships))
	for _, m := range memberships {
		bits, err := m.PermissionBits()
		if err != nil {
			logger.Warn().Err(err).Str("guildId", m.ID).Msg("Skipping guild with unparseable permissions")
			continue
		}
		if !domain.HasAdministrator(bits) {
			continue
		}
		result = append(result, domain.AdministerableGuild{
			ID:      m.ID,
			Name:    m.Name,
			IconURL: domain.GuildIconURL(m.ID, m.Icon),
			HasBot:  botIsMember(m.ID),
		})
	}
	return result
}

// Members returns the guild roster after a live guild lookup
func (s *GuildService) Members(ctx context.Context, guildID string) ([]domain.GuildMember, error) {
	if !s.directory.IsReady() {
		return nil, domain.NewError(domain.KindBotNotReady, "Discord bot is not ready yet. Please try again in a moment.")
	}

	if _, err := s.directory.FetchGuild(ctx, guildID); err != nil {
		s.logGuildError(err, guildID, "fetch guild")
		return nil, err
	}

	members, err := s.directory.FetchMembers(ctx, guildID)
	if err != nil {
		s.logGuildError(err, guildID, "fetch members")
		return nil, err
	}
	return members, nil
}

// Stats aggregates the bot's cached guilds
func (s *GuildService) Stats() (*domain.BotStats, error) {
	if !s.directory.IsReady() {
		return nil, domain.NewError(domain.KindBotNotReady, "Bot client is not ready")
	}

	guilds := s.directory.CachedGuilds()
	stats := &domain.BotStats{
		Servers:       len(guilds),
		DiscordChecks: DiscordChecks,
	}
	for _, g := range guilds {
		stats.Members += g.MemberCount
	}
	return stats, nil
}

func (s *GuildService) logGuildError(err error, guildID, operation string) {
	event := s.logger.Error()
	if kind := domain.KindOf(err); kind == domain.KindNotFound || kind == domain.KindForbidden {
		event = s.logger.Warn()
	}
	event.Err(err).Str("guildId", guildID).Str("operation", operation).Msg("Failed to fetch Discord guild members")
}
