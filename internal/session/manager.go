package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	CookieName = "movielist_session"

	// PermanentTTL applies to "stay logged in" sessions.
	PermanentTTL = 30 * 24 * time.Hour
	// DefaultTTL bounds how long the server keeps a browser-session cookie alive.
	DefaultTTL = 24 * time.Hour
)

const contextKey = "session"

type Manager struct {
	store  Store
	secure bool
	logger *zap.Logger
}

func NewManager(store Store, secure bool, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		secure: secure,
		logger: logger.Named("session"),
	}
}

// Middleware attaches the visitor's session to the request. Missing, expired
// or unreadable sessions are replaced with a fresh anonymous one.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, m.load(c))
		c.Next()
	}
}

func (m *Manager) load(c *gin.Context) *Session {
	id, err := c.Cookie(CookieName)
	if err != nil || id == "" {
		return newSession()
	}

	s, err := m.store.Load(c.Request.Context(), id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("failed to load session", zap.Error(err))
		}
		return newSession()
	}
	return s
}

// FromContext returns the session attached by Middleware.
func FromContext(c *gin.Context) *Session {
	if value, ok := c.Get(contextKey); ok {
		if s, ok := value.(*Session); ok {
			return s
		}
	}
	s := newSession()
	c.Set(contextKey, s)
	return s
}

// Save persists s and refreshes the cookie. It must run before the response
// body or a redirect is written.
func (m *Manager) Save(c *gin.Context, s *Session) error {
	if s.empty() {
		if s.persisted {
			if err := m.store.Delete(c.Request.Context(), s.ID); err != nil {
				return err
			}
			s.persisted = false
			m.expireCookie(c)
		}
		return nil
	}

	ttl, maxAge := DefaultTTL, 0
	if s.Permanent {
		ttl, maxAge = PermanentTTL, int(PermanentTTL.Seconds())
	}
	if err := m.store.Save(c.Request.Context(), s, ttl); err != nil {
		return err
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, s.ID, maxAge, "/", "", m.secure, true)
	return nil
}

// Renew moves s to a new id and drops the previous one from the store, so a
// session id seen before login is useless afterwards.
func (m *Manager) Renew(c *gin.Context, s *Session) error {
	if s.persisted {
		if err := m.store.Delete(c.Request.Context(), s.ID); err != nil {
			return err
		}
	}
	s.ID = newID()
	s.persisted = false
	return nil
}

// Destroy removes the session from the store and clears it in place.
func (m *Manager) Destroy(c *gin.Context, s *Session) error {
	if s.persisted {
		if err := m.store.Delete(c.Request.Context(), s.ID); err != nil {
			return err
		}
	}
	s.Clear()
	s.ID = newID()
	s.persisted = false
	m.expireCookie(c)
	return nil
}

func (m *Manager) expireCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", m.secure, true)
}

func newSession() *Session {
	return &Session{ID: newID()}
}

func newID() string {
	return uuid.NewString()
}
