package model

import "time"

// EquipmentStatus is the stored availability of an inventory item.
// Unlike rooms, equipment status is persisted on the row and must be
// kept in sync with the loan tables by the availability tracker.
type EquipmentStatus string

const (
	EquipmentAvailable EquipmentStatus = "AVAILABLE"
	EquipmentInUse     EquipmentStatus = "IN_USE"
	EquipmentDamaged   EquipmentStatus = "DAMAGED"
)

// Equipment represents a loanable inventory item.  Status invariant:
// IN_USE iff at least one open loan references the item, unless the
// item has been manually marked DAMAGED.  DAMAGED is an out-of-band
// override that suppresses loanability regardless of loan state and
// persists until manually cleared.
//
// Fields:
//  ID          – primary key identifier.
//  Code        – unique inventory code.
//  Name        – human readable item name.
//  Description – optional free-text description.
//  Status      – stored status (AVAILABLE, IN_USE, DAMAGED).
//  CreatedAt   – timestamp when the record was created.
//  UpdatedAt   – timestamp when the record was last updated.
type Equipment struct {
	ID          uint64          // equipment.id
	Code        string          // equipment.code
	Name        string          // equipment.name
	Description *string         // equipment.description (nullable)
	Status      EquipmentStatus // equipment.status
	CreatedAt   time.Time       // equipment.created_at
	UpdatedAt   time.Time       // equipment.updated_at
}
