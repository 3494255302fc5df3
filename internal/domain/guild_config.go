package domain

import "time"

// GuildConfig is implemented by every per-guild configuration document
type GuildConfig interface {
	// GuildKey returns the guild the document belongs to
	GuildKey() string
	// Validate checks the domain-specific required fields
	Validate() error
}

// ConfigDomain describes one independent set of per-guild settings.
// Fields lists the replaceable document fields by their stored name; any field
// missing from an upsert is removed unless Defaults names a value for it, in
// which case the default is written only when the document is first created.
type ConfigDomain struct {
	Name       string
	Label      string
	Collection string
	Fields     []string
	Defaults   map[string]any
}

// FeatureConfig toggles the ERLC integration for a guild
type FeatureConfig struct {
	GuildID              string    `json:"guildId" bson:"guildId"`
	APIKey               *string   `json:"apiKey,omitempty" bson:"apiKey,omitempty"`
	StaffRoleID          *string   `json:"staffRoleId,omitempty" bson:"staffRoleId,omitempty"`
	HRRoleID             *string   `json:"hrRoleId,omitempty" bson:"hrRoleId,omitempty"`
	CommandLogsChannelID *string   `json:"commandLogsChannelId,omitempty" bson:"commandLogsChannelId,omitempty"`
	Disabled             *bool     `json:"disabled,omitempty" bson:"disabled,omitempty"`
	CreatedAt            time.Time `json:"-" bson:"createdAt,omitempty"`
	UpdatedAt            time.Time `json:"-" bson:"updatedAt,omitempty"`
}

var FeatureConfigDomain = ConfigDomain{
	Name:       "erlc",
	Label:      "ERLC",
	Collection: "erlcconfigs",
	Fields:     []string{"apiKey", "staffRoleId", "hrRoleId", "commandLogsChannelId", "disabled"},
	Defaults:   map[string]any{"disabled": false},
}

func (c FeatureConfig) GuildKey() string { return c.GuildID }

func (c FeatureConfig) Validate() error { return nil }

// ReminderConfig drives the periodic reminder message
type ReminderConfig struct {
	GuildID          string    `json:"guildId" bson:"guildId"`
	ReminderText     string    `json:"reminderText,omitempty" bson:"reminderText,omitempty"`
	ReminderInterval *float64  `json:"reminderInterval,omitempty" bson:"reminderInterval,omitempty"`
	Disabled         *bool     `json:"disabled,omitempty" bson:"disabled,omitempty"`
	CreatedAt        time.Time `json:"-" bson:"createdAt,omitempty"`
	UpdatedAt        time.Time `json:"-" bson:"updatedAt,omitempty"`
}

var ReminderConfigDomain = ConfigDomain{
	Name:       "reminders",
	Label:      "Reminders",
	Collection: "reminderconfigs",
	Fields:     []string{"reminderText", "reminderInterval", "disabled"},
}

func (c ReminderConfig) GuildKey() string { return c.GuildID }

// Validate requires text, an interval (zero is allowed) and an explicit disabled flag
func (c ReminderConfig) Validate() error {
	if c.ReminderText == "" || c.ReminderInterval == nil || c.Disabled == nil {
		return NewError(KindValidationFailed, "Missing required Reminder configuration fields.")
	}
	return nil
}

// RestrictionConfig lists the liveries and teams a guild restricts
type RestrictionConfig struct {
	GuildID            string    `json:"guildId" bson:"guildId"`
	LiveryRestrictions *[]string `json:"liveryRestrictions,omitempty" bson:"liveryRestrictions,omitempty"`
	TeamRestrictions   *[]string `json:"teamRestrictions,omitempty" bson:"teamRestrictions,omitempty"`
	Disabled           *bool     `json:"disabled,omitempty" bson:"disabled,omitempty"`
	CreatedAt          time.Time `json:"-" bson:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"-" bson:"updatedAt,omitempty"`
}

var RestrictionConfigDomain = ConfigDomain{
	Name:       "restrictions",
	Label:      "Restrictions",
	Collection: "erlcrestrictions",
	Fields:     []string{"liveryRestrictions", "teamRestrictions", "disabled"},
	Defaults: map[string]any{
		"liveryRestrictions": []string{},
		"teamRestrictions":   []string{},
		"disabled":           false,
	},
}

func (c RestrictionConfig) GuildKey() string { return c.GuildID }

func (c RestrictionConfig) Validate() error { return nil }
