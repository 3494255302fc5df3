package domain

import "time"

// ConfigAction is what happened to a guild's configuration document
type ConfigAction string

const (
	ConfigSaved   ConfigAction = "saved"
	ConfigCleared ConfigAction = "cleared"
)

// ConfigChangeEvent is published after a configuration document is written or removed
type ConfigChangeEvent struct {
	Domain  string
	GuildID string
	Action  ConfigAction
	At      time.Time
}
