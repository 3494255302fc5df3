package domain

import "time"

// SessionTTL is how long the session cookies stay in the browser
const SessionTTL = 7 * 24 * time.Hour

// Session represents a logged-in dashboard operator.
// BearerToken is the Discord OAuth2 access token; it is never verified locally and
// every privileged call re-validates it against Discord.
type Session struct {
	BearerToken string `json:"-"`
	SubjectID   string `json:"subject_id"`
}

// UserIdentity is the operator as reported by Discord's /users/@me endpoint
type UserIdentity struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	GlobalName    string `json:"global_name,omitempty"`
	Discriminator string `json:"discriminator,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Banner        string `json:"banner,omitempty"`
	Locale        string `json:"locale,omitempty"`
	MFAEnabled    bool   `json:"mfa_enabled"`
	PremiumType   int    `json:"premium_type"`
	Flags         int64  `json:"flags"`
	PublicFlags   int64  `json:"public_flags"`
}
