package model

import "time"

// RoomStatus is the derived availability of a room.  It is never
// persisted; it is computed from the existence of open loan records
// referencing the room.
type RoomStatus string

const (
	RoomAvailable RoomStatus = "AVAILABLE"
	RoomOccupied  RoomStatus = "OCCUPIED"
)

// Room represents a loanable laboratory room.  The Code field is a
// unique, staff-assigned internal identifier; Name is the display
// label shown to users.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – unique internal room code.
//  Name      – human readable room name.
//  CampusID  – campus/location the room belongs to (nullable).
//  CreatedAt – timestamp when the record was created.
//  UpdatedAt – timestamp when the record was last updated.
type Room struct {
	ID        uint64    // rooms.id
	Code      string    // rooms.code
	Name      string    // rooms.name
	CampusID  *uint64   // rooms.campus_id (nullable)
	CreatedAt time.Time // rooms.created_at
	UpdatedAt time.Time // rooms.updated_at
}
