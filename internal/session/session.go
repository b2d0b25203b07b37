// Package session keeps per-visitor state (the logged-in user and one-shot
// flash messages) in a server-side store keyed by an opaque cookie value.
package session

import (
	"github.com/qs-lzh/movie-list/internal/model"
)

const (
	FlashSuccess = "success"
	FlashDanger  = "danger"
)

type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Session struct {
	ID        string  `json:"-"`
	UserID    uint    `json:"user_id,omitempty"`
	Username  string  `json:"username,omitempty"`
	Permanent bool    `json:"permanent,omitempty"`
	Flashes   []Flash `json:"flashes,omitempty"`

	// persisted is false until the session has been written to the store once.
	persisted bool
}

func (s *Session) Authenticated() bool {
	return s.UserID != 0
}

// Login records user as the session owner. Permanent sessions survive
// browser restarts.
func (s *Session) Login(user *model.User, permanent bool) {
	s.UserID = user.ID
	s.Username = user.Username
	s.Permanent = permanent
}

// Clear forgets the user and any pending flashes.
func (s *Session) Clear() {
	s.UserID = 0
	s.Username = ""
	s.Permanent = false
	s.Flashes = nil
}

func (s *Session) Flash(category, message string) {
	s.Flashes = append(s.Flashes, Flash{Category: category, Message: message})
}

// PopFlashes returns pending flashes and removes them from the session.
// The session must be saved afterwards for the removal to stick.
func (s *Session) PopFlashes() []Flash {
	flashes := s.Flashes
	s.Flashes = nil
	return flashes
}

func (s *Session) empty() bool {
	return !s.Authenticated() && len(s.Flashes) == 0
}
