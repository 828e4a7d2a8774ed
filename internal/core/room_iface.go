package core

import (
	"github.com/dkeye/Polyglot/internal/domain"
)

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Skipped int
	Dropped []MemberSession
}

// MemberDTO is a read-only view for APIs (no transport fields).
type MemberDTO struct {
	ClientID domain.ClientID `json:"clientId"`
	Lang     domain.Lang     `json:"lang"`
	State    string          `json:"state"`
	Preview  string          `json:"preview"`
}

// RoomService is the core-facing API of a room.
// It owns the membership set but never touches transport resources.
type RoomService interface {
	Room() *domain.Room
	MemberCount() int
	MembersSnapshot() []MemberDTO
	Members() []MemberSession

	AddMember(ms MemberSession)
	// RemoveMember reports whether sid was a member.
	RemoveMember(sid SessionID) bool
}

type RoomInfo struct {
	ID          domain.RoomID `json:"id"`
	MemberCount int           `json:"member_count"`
}

// RoomRegistry maps room ids to their live members. A room exists only while
// it has members. Every operation is total: unknown rooms behave as empty.
type RoomRegistry interface {
	Join(id domain.RoomID, ms MemberSession)
	// Leave is idempotent; removing the last member removes the room.
	Leave(id domain.RoomID, sid SessionID)
	// MembersOf returns a snapshot, sender included.
	MembersOf(id domain.RoomID) []MemberSession

	Room(id domain.RoomID) (RoomService, bool)
	List() []RoomInfo
}
