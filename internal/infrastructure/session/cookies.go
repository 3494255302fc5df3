package session

import (
	"net/http"
	"strings"
	"time"

	"skyutilities-dashboard/internal/domain"
)

const (
	TokenCookie   = "discord_token"
	SubjectCookie = "user_id"
)

// CookieStore keeps the operator's bearer token client-side.
// The cookies are readable by page scripts, which the dashboard pages rely on.
type CookieStore struct {
	secure bool
	ttl    time.Duration
}

// NewCookieStore creates a cookie store; cookies are marked Secure when baseURL is https
func NewCookieStore(baseURL string) *CookieStore {
	return &CookieStore{
		secure: strings.HasPrefix(baseURL, "https://"),
		ttl:    domain.SessionTTL,
	}
}

// Begin writes both session cookies
func (s *CookieStore) Begin(w http.ResponseWriter, sess *domain.Session) {
	http.SetCookie(w, s.cookie(TokenCookie, sess.BearerToken, int(s.ttl.Seconds())))
	http.SetCookie(w, s.cookie(SubjectCookie, sess.SubjectID, int(s.ttl.Seconds())))
}

// End expires both session cookies
func (s *CookieStore) End(w http.ResponseWriter) {
	http.SetCookie(w, s.cookie(TokenCookie, "", -1))
	http.SetCookie(w, s.cookie(SubjectCookie, "", -1))
}

// BearerToken returns the token cookie or a KindNotAuthenticated error
func (s *CookieStore) BearerToken(r *http.Request) (string, error) {
	c, err := r.Cookie(TokenCookie)
	if err != nil || c.Value == "" {
		return "", domain.NewError(domain.KindNotAuthenticated, "Not logged in")
	}
	return c.Value, nil
}

// HasSession reports whether the request carries a token cookie
func (s *CookieStore) HasSession(r *http.Request) bool {
	_, err := s.BearerToken(r)
	return err == nil
}

func (s *CookieStore) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
