package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"musicwebsite/internal/model"
	"musicwebsite/internal/pkg/jwtutil"
)

// ErrNoSession covers every way a request can fail to carry a usable session:
// no cookie, bad signature, expired token, revoked token.
var ErrNoSession = errors.New("no valid session")

type Options struct {
	Secret          string
	SessionTTL      time.Duration
	RememberTTL     time.Duration
	CookieName      string
	FlashCookieName string
	CookieSecure    bool
}

// Manager issues and validates cookie sessions and carries flash messages
// between requests.
type Manager struct {
	opts    Options
	revoked RevocationList
	flashes FlashStore
}

func NewManager(opts Options, revoked RevocationList, flashes FlashStore) *Manager {
	return &Manager{
		opts:    opts,
		revoked: revoked,
		flashes: flashes,
	}
}

// Issue logs the user in on this response. With remember the token and cookie
// outlive the browser session; otherwise the cookie is session-scoped and the
// token short-lived.
func (m *Manager) Issue(c *gin.Context, user *model.User, remember bool) error {
	ttl := m.opts.SessionTTL
	maxAge := 0
	if remember {
		ttl = m.opts.RememberTTL
		maxAge = int(ttl.Seconds())
	}

	token, err := jwtutil.GenerateToken(m.opts.Secret, ttl, user.ID, user.Username)
	if err != nil {
		return fmt.Errorf("issue session token failed: %w", err)
	}

	c.SetCookie(m.opts.CookieName, token, maxAge, "/", "", m.opts.CookieSecure, true)
	return nil
}

// Authenticate resolves the request's session cookie into claims.
func (m *Manager) Authenticate(c *gin.Context) (*jwtutil.Claims, error) {
	token, err := c.Cookie(m.opts.CookieName)
	if err != nil || token == "" {
		return nil, ErrNoSession
	}

	claims, err := jwtutil.ParseToken(m.opts.Secret, token)
	if err != nil {
		return nil, ErrNoSession
	}

	revoked, err := m.revoked.IsRevoked(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrNoSession
	}
	return claims, nil
}

// Clear logs the session out. The token id goes on the revocation list for
// the token's remaining lifetime so a copied cookie stops working too.
// Calling it without a session is a no-op.
func (m *Manager) Clear(c *gin.Context) error {
	defer c.SetCookie(m.opts.CookieName, "", -1, "/", "", m.opts.CookieSecure, true)

	token, err := c.Cookie(m.opts.CookieName)
	if err != nil || token == "" {
		return nil
	}
	claims, err := jwtutil.ParseToken(m.opts.Secret, token)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return m.revoked.Revoke(c.Request.Context(), claims.ID, remaining)
}

// Flash queues a one-time notice for this browser. Best effort: a failed
// flash never fails the request that produced it.
func (m *Manager) Flash(c *gin.Context, message string) {
	id, ok := m.flashID(c)
	if !ok {
		id = newFlashID()
		c.Set(contextFlashIDKey, id)
		c.SetCookie(m.opts.FlashCookieName, id, 0, "/", "", m.opts.CookieSecure, true)
	}
	_ = m.flashes.Push(c.Request.Context(), id, message)
}

// TakeFlashes drains the queued notices for this browser.
func (m *Manager) TakeFlashes(c *gin.Context) []string {
	id, ok := m.flashID(c)
	if !ok {
		return nil
	}
	messages, err := m.flashes.Pop(c.Request.Context(), id)
	if err != nil {
		return nil
	}
	return messages
}

func (m *Manager) flashID(c *gin.Context) (string, bool) {
	// A flash set earlier in this same request wins over the inbound cookie.
	if id, ok := c.Get(contextFlashIDKey); ok {
		return id.(string), true
	}
	id, err := c.Cookie(m.opts.FlashCookieName)
	if err != nil || id == "" {
		return "", false
	}
	return id, true
}

const contextFlashIDKey = "session_flash_id"

func newFlashID() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("read random flash id failed: %v", err))
	}
	return hex.EncodeToString(buf)
}
