// ABOUTME: Cookie-backed token store for browser sessions
// ABOUTME: Writes the task2-token cookie with the server-issued expiry and expires it on clear

package tokenstore

import (
	"context"
	"net/http"
	"time"

	"github.com/storeops/catalog-console/models"
)

// CookieName is the cookie holding the session token.
const CookieName = "task2-token"

// CookieOptions controls cookie attributes
type CookieOptions struct {
	Secure bool
}

// CookieStore reads the token from one request and writes changes to its
// response. It is scoped to a single request.
type CookieStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions

	// pending reflects a Save or Clear made during this request
	pending *models.Session
}

// NewCookieStore binds a store to a request/response pair.
func NewCookieStore(w http.ResponseWriter, r *http.Request, opts CookieOptions) *CookieStore {
	return &CookieStore{w: w, r: r, opts: opts}
}

// Load returns the token presented by the browser. The browser does not send
// the expiry back, so ExpiresAt is only known for sessions saved in this request.
func (c *CookieStore) Load(context.Context) (models.Session, error) {
	if c.pending != nil {
		if c.pending.Empty() {
			return models.Session{}, ErrNoSession
		}
		return *c.pending, nil
	}

	cookie, err := c.r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return models.Session{}, ErrNoSession
	}
	return models.Session{Token: cookie.Value}, nil
}

func (c *CookieStore) Save(_ context.Context, s models.Session) error {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    s.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if !s.ExpiresAt.IsZero() {
		cookie.Expires = s.ExpiresAt.UTC()
	}
	http.SetCookie(c.w, cookie)
	c.pending = &s
	return nil
}

// Clear expires the cookie immediately by setting a past expiry.
func (c *CookieStore) Clear(context.Context) error {
	http.SetCookie(c.w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.opts.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
	})
	c.pending = &models.Session{}
	return nil
}
