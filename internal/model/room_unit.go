package model

import "time"

// RoomUnitStatus is a maintenance flag on room-fixed equipment.  It is
// unrelated to loan state: units are never loaned out individually.
type RoomUnitStatus string

const (
	RoomUnitActive   RoomUnitStatus = "ACTIVE"
	RoomUnitInactive RoomUnitStatus = "INACTIVE"
)

// RoomUnit represents a piece of equipment permanently installed in a
// room (projector, workstation, bench instrument).  Units belong to
// exactly one room and carry an ACTIVE/INACTIVE maintenance flag.
type RoomUnit struct {
	ID        uint64         // room_units.id
	Code      string         // room_units.code
	Name      string         // room_units.name
	RoomID    uint64         // room_units.room_id
	Status    RoomUnitStatus // room_units.status
	CreatedAt time.Time      // room_units.created_at
	UpdatedAt time.Time      // room_units.updated_at
}
