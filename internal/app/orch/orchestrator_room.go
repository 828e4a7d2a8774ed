package orch

import (
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Polyglot/internal/core"
	"github.com/dkeye/Polyglot/internal/domain"
)

// Kick closes a connection. Membership is released by the adapter when its
// pumps exit and report OnDisconnect.
func (o *Orchestrator) Kick(sid core.SessionID) {
	sess, ok := o.Registry.GetSession(sid)
	if !ok {
		return
	}
	o.Registry.Cancel(sid)
	if sig := sess.Signal(); sig != nil {
		sig.Close()
	}
	sessionLogger(sess).Warn().Msg("kicked")
}

// SetClientLang changes the target language of every live connection of
// clientID and reports how many were updated. Only later previews see it.
func (o *Orchestrator) SetClientLang(clientID domain.ClientID, lang domain.Lang) int {
	sessions := o.Registry.SessionsOfClient(clientID)
	for _, s := range sessions {
		s.SetTargetLang(lang)
	}
	log.Info().
		Str("module", "orch").
		Str("client_id", string(clientID)).
		Str("lang", string(lang)).
		Int("sessions", len(sessions)).
		Msg("target language changed")
	return len(sessions)
}

// RoomList is sorted by room id.
func (o *Orchestrator) RoomList() []core.RoomInfo {
	rooms := o.Rooms.List()
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].ID < rooms[j].ID })
	return rooms
}

func (o *Orchestrator) RoomMembers(id domain.RoomID) ([]core.MemberDTO, bool) {
	room, ok := o.Rooms.Room(id)
	if !ok {
		return nil, false
	}
	members := room.MembersSnapshot()
	sort.Slice(members, func(i, j int) bool { return members[i].ClientID < members[j].ClientID })
	return members, true
}

func (o *Orchestrator) Connections() int {
	return o.Registry.Count()
}
