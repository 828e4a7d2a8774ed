package domain

// Member represents a connection's participation meta for a room.
// No transport or lifecycle logic here. Both fields are fixed at connect time.
type Member struct {
	ClientID ClientID
	Room     RoomID
}

// NewMember avoids raw literals in adapters and keeps construction obvious.
func NewMember(clientID ClientID, room RoomID) *Member {
	return &Member{ClientID: clientID, Room: room}
}
