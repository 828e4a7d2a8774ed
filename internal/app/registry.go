package app

import (
	"context"
	"sync"

	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Session core.MemberSession
	Cancel  context.CancelFunc
}

// Registry indexes every live connection by session id, independent of rooms.
type Registry struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*sessionEntry
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[core.SessionID]*sessionEntry),
	}
}

func (r *Registry) BindSession(sess core.MemberSession, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sess.ID()] = &sessionEntry{Session: sess, Cancel: cancel}
	log.Info().
		Str("module", "app.registry").
		Str("sid", string(sess.ID())).
		Str("client_id", string(sess.Meta().ClientID)).
		Msg("bound session")
}

func (r *Registry) GetSession(sid core.SessionID) (core.MemberSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[sid]; ok {
		return e.Session, true
	}
	return nil, false
}

// Unbind reports whether sid was bound.
func (r *Registry) Unbind(sid core.SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sid]; !ok {
		return false
	}
	delete(r.sessions, sid)
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("unbind session")
	return true
}

// SessionsOfClient returns every live connection opened with clientID.
func (r *Registry) SessionsOfClient(clientID domain.ClientID) []core.MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []core.MemberSession
	for _, e := range r.sessions {
		if e.Session.Meta().ClientID == clientID {
			out = append(out, e.Session)
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) Cancel(sid core.SessionID) bool {
	r.mu.RLock()
	e, ok := r.sessions[sid]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(sid)).Msg("canceled session")
	return true
}

// CancelAll stops every live connection, used on shutdown.
func (r *Registry) CancelAll() {
	r.mu.RLock()
	cancels := make([]context.CancelFunc, 0, len(r.sessions))
	for _, e := range r.sessions {
		if e.Cancel != nil {
			cancels = append(cancels, e.Cancel)
		}
	}
	r.mu.RUnlock()
	for _, cancel := range cancels {
		cancel()
	}
	log.Info().Str("module", "app.registry").Int("count", len(cancels)).Msg("canceled all sessions")
}
