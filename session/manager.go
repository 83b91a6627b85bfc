// Package session maps browser cookies to per-player game state.
package session

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chronicle_weaver/game"
)

// CookieName identifies the player's session cookie.
const CookieName = "cw_session"

// Manager owns all live sessions. Each session holds one game.State
// container; sessions are created lazily and dropped on logout.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*game.State
	log      *zap.Logger
}

// NewManager returns an empty session manager.
func NewManager(log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{sessions: make(map[string]*game.State), log: log}
}

// State returns the state container for the request's session, creating
// both the session and its cookie when none exists yet.
func (m *Manager) State(w http.ResponseWriter, r *http.Request) *game.State {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		m.mu.Lock()
		if st, ok := m.sessions[c.Value]; ok {
			m.mu.Unlock()
			return st
		}
		m.mu.Unlock()
	}

	id := uuid.NewString()
	st := game.NewState(m.log.With(zap.String("session_id", id)))
	m.mu.Lock()
	m.sessions[id] = st
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

// Drop removes the request's session, ending its game.
func (m *Manager) Drop(r *http.Request) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, c.Value)
}

// Len reports how many sessions are live.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
