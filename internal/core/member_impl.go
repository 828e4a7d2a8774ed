package core

import (
	"sync"
	"sync/atomic"

	"github.com/dkeye/Polyglot/internal/domain"
)

// memberSession implements MemberSession by pairing meta + transport.
// Meta and signal are immutable; the language may change mid-session.
type memberSession struct {
	id     SessionID
	meta   *domain.Member
	signal SignalConnection

	mu   sync.RWMutex
	lang domain.Lang

	preview atomic.Int32
}

func NewMemberSession(id SessionID, meta *domain.Member, lang domain.Lang, signal SignalConnection) MemberSession {
	return &memberSession{id: id, meta: meta, lang: lang, signal: signal}
}

func (m *memberSession) ID() SessionID            { return m.id }
func (m *memberSession) Meta() *domain.Member     { return m.meta }
func (m *memberSession) Signal() SignalConnection { return m.signal }

func (m *memberSession) TargetLang() domain.Lang {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lang
}

func (m *memberSession) SetTargetLang(lang domain.Lang) {
	m.mu.Lock()
	m.lang = lang
	m.mu.Unlock()
}

func (m *memberSession) PreviewState() PreviewState {
	return PreviewState(m.preview.Load())
}

func (m *memberSession) SetPreviewState(s PreviewState) {
	m.preview.Store(int32(s))
}
