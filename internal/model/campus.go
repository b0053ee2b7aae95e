package model

import "time"

// Campus mirrors the campus/location registry.  Rooms reference a
// campus for display and filtering only.
type Campus struct {
	ID        uint64    // campuses.id
	Name      string    // campuses.name
	Address   *string   // campuses.address (nullable)
	CreatedAt time.Time // campuses.created_at
	UpdatedAt time.Time // campuses.updated_at
}
