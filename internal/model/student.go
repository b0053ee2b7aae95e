package model

import "time"

// Student mirrors the students registry.  Students are identified by
// their university code when borrowing resources.
//
// Fields:
//  ID        – primary key identifier.
//  Code      – unique university student code.
//  FullName  – student's full name.
//  Email     – contact email (nullable).
//  ProjectID – curriculum project the student is enrolled in (nullable).
//  CreatedAt – timestamp when the record was created.
//  UpdatedAt – timestamp when the record was last updated.
type Student struct {
	ID        uint64    // students.id
	Code      string    // students.code
	FullName  string    // students.full_name
	Email     *string   // students.email (nullable)
	ProjectID *uint64   // students.project_id (nullable)
	CreatedAt time.Time // students.created_at
	UpdatedAt time.Time // students.updated_at
}
