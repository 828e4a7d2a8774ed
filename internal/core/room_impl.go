package core

import (
	"sync"

	"github.com/dkeye/Polyglot/internal/domain"
	"github.com/rs/zerolog/log"
)

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room  *domain.Room
	mu    sync.RWMutex
	bySID map[SessionID]MemberSession
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:  room,
		bySID: make(map[SessionID]MemberSession),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.bySID)
}

func (r *roomImpl) AddMember(ms MemberSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bySID[ms.ID()] = ms
	log.Info().
		Str("module", "core.room").
		Str("room", string(r.room.ID)).
		Str("sid", string(ms.ID())).
		Str("client_id", string(ms.Meta().ClientID)).
		Msg("member added")
}

func (r *roomImpl) RemoveMember(sid SessionID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bySID[sid]; !ok {
		return false
	}
	delete(r.bySID, sid)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("sid", string(sid)).Msg("member removed")
	return true
}

func (r *roomImpl) Members() []MemberSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberSession, 0, len(r.bySID))
	for _, ms := range r.bySID {
		out = append(out, ms)
	}
	return out
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MemberDTO, 0, len(r.bySID))
	for _, ms := range r.bySID {
		dto := MemberDTO{
			ClientID: ms.Meta().ClientID,
			Lang:     ms.TargetLang(),
			Preview:  ms.PreviewState().String(),
		}
		if sig := ms.Signal(); sig != nil {
			dto.State = sig.State().String()
		}
		out = append(out, dto)
	}
	return out
}
