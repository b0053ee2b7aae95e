package model

import "time"

// Professor mirrors the professors registry.  Professors borrow rooms
// and equipment under their own registry code, in separate loan tables
// from students.
type Professor struct {
	ID        uint64    // professors.id
	Code      string    // professors.code
	FullName  string    // professors.full_name
	Email     *string   // professors.email (nullable)
	CreatedAt time.Time // professors.created_at
	UpdatedAt time.Time // professors.updated_at
}
