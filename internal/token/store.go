package token

import (
	"net/http"
	"time"
)

// CookieName is the single canonical location of the bearer token. The edge
// gate and the API client both read this cookie, so the token can never be
// cleared in one place and survive in another.
const CookieName = "pml_token"

// cookieMaxAge is 7 days, matching the platform session lifetime.
const cookieMaxAge = 7 * 24 * time.Hour

// Store reads and writes the persisted bearer token. Absence is a valid
// state (anonymous visitor). All methods are safe on nil requests/writers
// and never return errors; a token that cannot be read is simply absent.
type Store struct {
	sealer *Sealer // nil means the cookie holds the raw token
	secure bool
}

// NewStore returns a Store. sealer may be nil to store the token unsealed;
// secure controls the cookie Secure flag (true in production).
func NewStore(sealer *Sealer, secure bool) *Store {
	return &Store{sealer: sealer, secure: secure}
}

// Get returns the persisted token, or "" when absent or unreadable.
func (s *Store) Get(r *http.Request) string {
	if r == nil {
		return ""
	}
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return ""
	}
	if s.sealer == nil {
		return c.Value
	}
	tok, err := s.sealer.Open(c.Value)
	if err != nil {
		return ""
	}
	return tok
}

// Set persists the token, overwriting any prior value.
func (s *Store) Set(w http.ResponseWriter, tok string) {
	if w == nil || tok == "" {
		return
	}
	value := tok
	if s.sealer != nil {
		sealed, err := s.sealer.Seal(tok)
		if err != nil {
			return
		}
		value = sealed
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear removes the persisted token. Safe to call when no token is set.
func (s *Store) Clear(w http.ResponseWriter) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
