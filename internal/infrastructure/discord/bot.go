package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"

	"skyutilities-dashboard/internal/domain"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

// membersPageSize is the largest page Discord serves for guild member listings
const membersPageSize = 1000

// Intents the bot connects with
const Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers | discordgo.IntentsMessageContent

// Bot owns the gateway connection and its guild cache
type Bot struct {
	session *discordgo.Session
	ready   atomic.Bool
	logger  zerolog.Logger
}

// NewBot creates a bot for the given token without connecting
func NewBot(token string, logger zerolog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = Intents
	session.StateEnabled = true

	b := &Bot{
		session: session,
		logger:  logger,
	}
	session.AddHandler(b.onReady)
	session.AddHandler(b.onResumed)
	session.AddHandler(b.onDisconnect)
	return b, nil
}

// Open connects to the gateway; readiness flips once Discord sends READY
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord gateway: %w", err)
	}
	return nil
}

// Close disconnects from the gateway
func (b *Bot) Close() error {
	b.ready.Store(false)
	return b.session.Close()
}

func (b *Bot) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	b.ready.Store(true)
	b.logger.Info().
		Str("user", r.User.String()).
		Int("guilds", len(r.Guilds)).
		Msg("Discord client logged in")
}

func (b *Bot) onResumed(_ *discordgo.Session, _ *discordgo.Resumed) {
	b.ready.Store(true)
	b.logger.Info().Msg("Discord gateway session resumed")
}

func (b *Bot) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	b.ready.Store(false)
	b.logger.Warn().Msg("Discord gateway disconnected")
}

// IsReady reports whether the gateway handshake completed
func (b *Bot) IsReady() bool {
	return b.ready.Load()
}

// GuildIsMember checks the gateway cache only
func (b *Bot) GuildIsMember(guildID string) bool {
	_, err := b.session.State.Guild(guildID)
	return err == nil
}

// FetchGuild performs a live REST lookup
func (b *Bot) FetchGuild(ctx context.Context, guildID string) (*domain.Guild, error) {
	g, err := b.session.Guild(guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, classifyRESTError(err, "Discord guild not found or bot is not in this guild.")
	}
	return &domain.Guild{
		ID:          g.ID,
		Name:        g.Name,
		MemberCount: g.MemberCount,
	}, nil
}

// FetchMembers pages through the full member list of a guild
func (b *Bot) FetchMembers(ctx context.Context, guildID string) ([]domain.GuildMember, error) {
	var members []domain.GuildMember
	after := ""
	for {
		page, err := b.session.GuildMembers(guildID, after, membersPageSize, discordgo.WithContext(ctx))
		if err != nil {
			return nil, classifyRESTError(err, "Discord guild not found.")
		}
		for _, m := range page {
			members = append(members, simplifyMember(m))
		}
		if len(page) < membersPageSize {
			break
		}
		after = page[len(page)-1].User.ID
	}
	if members == nil {
		members = []domain.GuildMember{}
	}
	return members, nil
}

// CachedGuilds snapshots the gateway cache
func (b *Bot) CachedGuilds() []domain.Guild {
	state := b.session.State
	state.RLock()
	defer state.RUnlock()

	guilds := make([]domain.Guild, 0, len(state.Guilds))
	for _, g := range state.Guilds {
		guilds = append(guilds, domain.Guild{ID: g.ID, Name: g.Name, MemberCount: g.MemberCount})
	}
	return guilds
}

func simplifyMember(m *discordgo.Member) domain.GuildMember {
	if m.User == nil {
		return domain.GuildMember{DisplayName: m.Nick}
	}
	return domain.GuildMember{
		ID:          m.User.ID,
		Username:    m.User.Username,
		DisplayName: domain.ResolveDisplayName(m.Nick, m.User.GlobalName, m.User.Username),
	}
}

// classifyRESTError maps Discord error codes onto the error taxonomy
func classifyRESTError(err error, notFoundMessage string) error {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) {
		if restErr.Message != nil {
			switch restErr.Message.Code {
			case discordgo.ErrCodeUnknownGuild:
				return domain.WrapError(domain.KindNotFound, notFoundMessage, err)
			case discordgo.ErrCodeMissingAccess:
				return domain.WrapError(domain.KindForbidden, "Bot does not have access to this guild or missing permissions.", err)
			}
		}
		if restErr.Response != nil {
			switch restErr.Response.StatusCode {
			case http.StatusNotFound:
				return domain.WrapError(domain.KindNotFound, notFoundMessage, err)
			case http.StatusForbidden:
				return domain.WrapError(domain.KindForbidden, "Bot does not have access to this guild or missing permissions.", err)
			}
		}
	}
	return domain.WrapError(domain.KindInternal, "Failed to fetch Discord guild members.", err)
}
