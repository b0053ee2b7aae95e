package model

import "time"

// Staff roles.  ADMIN may manage registries and delete records; STAFF
// may record checkouts and returns.
const (
	RoleAdmin = "ADMIN"
	RoleStaff = "STAFF"
)

// StaffUser is a laboratory staff service account.  Staff authenticate
// with email and password and act as the supervising or assisting
// party on loan records.
//
// Fields:
//  ID           – primary key identifier.
//  FullName     – staff member's full name.
//  Email        – unique login email.
//  PasswordHash – bcrypt hash of the password.
//  Role         – ADMIN or STAFF.
//  IsActive     – whether the account may log in.
//  CreatedAt    – timestamp when the record was created.
//  UpdatedAt    – timestamp when the record was last updated.
type StaffUser struct {
	ID           uint64    // staff_users.id
	FullName     string    // staff_users.full_name
	Email        string    // staff_users.email
	PasswordHash string    // staff_users.password_hash
	Role         string    // staff_users.role
	IsActive     bool      // staff_users.is_active
	CreatedAt    time.Time // staff_users.created_at
	UpdatedAt    time.Time // staff_users.updated_at
}
