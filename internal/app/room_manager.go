package app

import (
	"sync"

	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManagerImpl owns room lifecycle: a room is created by the first Join
// and dropped by the Leave that empties it. Membership changes happen under
// the manager lock so a Join never lands in a room that is being dropped.
type RoomManagerImpl struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]core.RoomService
}

func NewRoomManager() core.RoomRegistry {
	return &RoomManagerImpl{rooms: make(map[domain.RoomID]core.RoomService)}
}

func (f *RoomManagerImpl) Join(id domain.RoomID, ms core.MemberSession) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		room = core.NewRoomService(&domain.Room{ID: id})
		f.rooms[id] = room
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room created")
	}
	room.AddMember(ms)
}

func (f *RoomManagerImpl) Leave(id domain.RoomID, sid core.SessionID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	room, ok := f.rooms[id]
	if !ok {
		return
	}
	room.RemoveMember(sid)
	if room.MemberCount() == 0 {
		delete(f.rooms, id)
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room removed")
	}
}

func (f *RoomManagerImpl) MembersOf(id domain.RoomID) []core.MemberSession {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	if !ok {
		return nil
	}
	return room.Members()
}

func (f *RoomManagerImpl) Room(id domain.RoomID) (core.RoomService, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	room, ok := f.rooms[id]
	return room, ok
}

func (f *RoomManagerImpl) List() []core.RoomInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(f.rooms))
	for id, r := range f.rooms {
		out = append(out, core.RoomInfo{ID: id, MemberCount: r.MemberCount()})
	}
	return out
}
