package application

import (
	"context"
	"fmt"
	"time"

	"skyutilities-dashboard/internal/domain"
	"skyutilities-dashboard/internal/ports"

	"github.com/rs/zerolog"
)

// ConfigService implements read/upsert/clear for one per-guild configuration domain
type ConfigService[T domain.GuildConfig] struct {
	domain domain.ConfigDomain
	repo   ports.GuildConfigRepository[T]
	events ports.ConfigEventPublisher
	logger zerolog.Logger
}

// NewConfigService creates a config service for the given domain
func NewConfigService[T domain.GuildConfig](
	configDomain domain.ConfigDomain,
	repo ports.GuildConfigRepository[T],
	logger zerolog.Logger,
) *ConfigService[T] {
	return &ConfigService[T]{
		domain: configDomain,
		repo:   repo,
		logger: logger.With().Str("domain", configDomain.Name).Logger(),
	}
}

// WithEvents publishes a change event after every successful save or clear
func (s *ConfigService[T]) WithEvents(events ports.ConfigEventPublisher) *ConfigService[T] {
	s.events = events
	return s
}

// Domain returns the domain this service manages
func (s *ConfigService[T]) Domain() domain.ConfigDomain {
	return s.domain
}

// Get returns the guild's document, or a KindNotConfigured error when there is none
func (s *ConfigService[T]) Get(ctx context.Context, guildID string) (*T, error) {
	config, err := s.repo.GetByGuildID(ctx, guildID)
	if err != nil {
		s.logger.Error().Err(err).Str("guildId", guildID).Msg("Failed to fetch config")
		return nil, fmt.Errorf("failed to fetch %s config: %w", s.domain.Name, err)
	}
	if config == nil {
		return nil, domain.NewError(domain.KindNotConfigured, s.domain.Label+" config not found")
	}
	return config, nil
}

// Upsert validates the document and replaces the guild's stored fields with it
func (s *ConfigService[T]) Upsert(ctx context.Context, guildID string, config *T) (*T, error) {
	if guildID == "" {
		return nil, domain.NewError(domain.KindValidationFailed, "Missing guildId.")
	}
	if config == nil {
		return nil, domain.NewError(domain.KindValidationFailed, "Invalid request data.")
	}
	if err := (*config).Validate(); err != nil {
		return nil, err
	}

	saved, err := s.repo.Upsert(ctx, guildID, config)
	if err != nil {
		s.logger.Error().Err(err).Str("guildId", guildID).Msg("Failed to save config")
		return nil, fmt.Errorf("failed to save %s config: %w", s.domain.Name, err)
	}

	s.logger.Info().Str("guildId", guildID).Msg("Config saved")
	s.publish(guildID, domain.ConfigSaved)
	return saved, nil
}

// Clear deletes the guild's document; KindNotConfigured means there was nothing to clear
func (s *ConfigService[T]) Clear(ctx context.Context, guildID string) error {
	deleted, err := s.repo.DeleteByGuildID(ctx, guildID)
	if err != nil {
		s.logger.Error().Err(err).Str("guildId", guildID).Msg("Failed to clear config")
		return fmt.Errorf("failed to clear %s config: %w", s.domain.Name, err)
	}
	if !deleted {
		return domain.NewError(domain.KindNotConfigured, "No "+s.domain.Label+" configuration found to clear.")
	}

	s.logger.Info().Str("guildId", guildID).Msg("Config cleared")
	s.publish(guildID, domain.ConfigCleared)
	return nil
}

func (s *ConfigService[T]) publish(guildID string, action domain.ConfigAction) {
	if s.events == nil {
		return
	}
	s.events.Publish(&domain.ConfigChangeEvent{
		Domain:  s.domain.Name,
		GuildID: guildID,
		Action:  action,
		At:      time.Now(),
	})
}
