package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// AdministratorPermission is the guild permission bit granting full administrative rights
const AdministratorPermission uint64 = 0x8

const (
	guildIconURLFormat = "https://cdn.discordapp.com/icons/%s/%s.png"
	defaultGuildIcon   = "https://cdn.discordapp.com/embed/avatars/0.png"
)

// RawGuildMembership is one entry of Discord's /users/@me/guilds response.
// Permissions is a decimal string holding a 64-bit bitmask.
type RawGuildMembership struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}

// PermissionBits parses the permission bitmask with full 64-bit width.
// Signed renderings are reinterpreted as two's complement.
func (m RawGuildMembership) PermissionBits() (uint64, error) {
	raw := strings.TrimSpace(m.Permissions)
	if raw == "" {
		return 0, nil
	}
	if strings.HasPrefix(raw, "-") {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid permissions %q: %w", m.Permissions, err)
		}
		return uint64(v), nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid permissions %q: %w", m.Permissions, err)
	}
	return v, nil
}

// HasAdministrator reports whether the bitmask carries the administrator bit
func HasAdministrator(bits uint64) bool {
	return bits&AdministratorPermission == AdministratorPermission
}

// GuildIconURL returns the CDN URL for a guild icon, or the default avatar when the guild has none
func GuildIconURL(guildID, icon string) string {
	if icon == "" {
		return defaultGuildIcon
	}
	return fmt.Sprintf(guildIconURLFormat, guildID, icon)
}

// AdministerableGuild is a guild the operator may manage from the dashboard
type AdministerableGuild struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	IconURL string `json:"iconUrl"`
	HasBot  bool   `json:"hasBot"`
}

// Guild is the bot's view of a guild
type Guild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// GuildMember is a simplified roster entry
type GuildMember struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

// ResolveDisplayName picks the guild nickname, then the global display name, then the username
func ResolveDisplayName(nickname, globalName, username string) string {
	for _, name := range []string{nickname, globalName} {
		if name != "" {
			return name
		}
	}
	return username
}

// BotStats is the bot-wide aggregate shown on the landing page
type BotStats struct {
	Servers       int `json:"servers"`
	Members       int `json:"members"`
	DiscordChecks int `json:"discordChecks"`
}
