package domain

type RoomID string

// DefaultRoomID is used when a connection does not name a room.
const DefaultRoomID RoomID = "default"

type Room struct {
	ID RoomID
}
