package model

import "time"

// Project mirrors the curriculum-project registry.  Students may be
// attached to a project; the loan tracker itself never reads this
// table beyond referential lookups.
type Project struct {
	ID        uint64    // projects.id
	Name      string    // projects.name
	Term      *string   // projects.term (nullable, e.g. "2026-1")
	CreatedAt time.Time // projects.created_at
	UpdatedAt time.Time // projects.updated_at
}
