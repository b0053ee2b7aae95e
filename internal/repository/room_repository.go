package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions
	"strings"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// ErrRoomNotFound is returned when a room lookup fails.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomCodeExists is returned when a room is created or renamed with
// a code that is already taken.
var ErrRoomCodeExists = errors.New("room code already exists")

// RoomRepo provides CRUD access to the rooms table.  A room carries no
// stored availability: callers that need the derived status must go
// through the availability tracker.
type RoomRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// Create inserts a new room.  Code and Name must be set; CampusID may
// be nil.  After insert the ID and timestamp fields of the room are
// populated from the stored row.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const qInsert = `INSERT INTO rooms (code, name, campus_id) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, room.Code, room.Name, room.CampusID)
	if err != nil {
		if isDuplicate(err) {
			return ErrRoomCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	room.ID = uint64(id)

	const qSelect = `SELECT id, code, name, campus_id, created_at, updated_at FROM rooms WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, room.ID).
		Scan(&room.ID, &room.Code, &room.Name, &room.CampusID, &room.CreatedAt, &room.UpdatedAt)
}

// GetByCode retrieves a room by its internal code.  It returns
// ErrRoomNotFound when no row is found.
func (r *RoomRepo) GetByCode(ctx context.Context, code string) (*model.Room, error) {
	const q = `SELECT id, code, name, campus_id, created_at, updated_at FROM rooms WHERE code = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&room.ID, &room.Code, &room.Name, &room.CampusID, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// List returns all rooms ordered by code.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT id, code, name, campus_id, created_at, updated_at FROM rooms ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		room := new(model.Room)
		if err := rows.Scan(&room.ID, &room.Code, &room.Name, &room.CampusID, &room.CreatedAt, &room.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByCode updates a room's name and campus.  The code itself is
// immutable once assigned because loan rows reference it.  Returns
// ErrRoomNotFound when no row matches.
func (r *RoomRepo) UpdateByCode(ctx context.Context, code, name string, campusID *uint64) error {
	const q = `UPDATE rooms SET name = ?, campus_id = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`
	res, err := r.db.ExecContext(ctx, q, name, campusID, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// DeleteByCode removes a room.  Deletion is refused with ErrConflict
// while loan rows still reference the room; the foreign keys would
// reject it anyway, but the sentinel gives handlers a clean 409.
func (r *RoomRepo) DeleteByCode(ctx context.Context, code string) error {
	const qLoans = `SELECT EXISTS(SELECT 1 FROM room_loans_student rls JOIN rooms ro ON ro.id = rls.room_id WHERE ro.code = ?)
	                OR EXISTS(SELECT 1 FROM room_loans_professor rlp JOIN rooms ro ON ro.id = rlp.room_id WHERE ro.code = ?)`
	var referenced bool
	if err := r.db.QueryRowContext(ctx, qLoans, code, code).Scan(&referenced); err != nil {
		return err
	}
	if referenced {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// isFKViolation reports whether err is a MySQL foreign-key violation
// (1451: row referenced elsewhere, 1452: referenced row missing).
func isFKViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "1451") || strings.Contains(msg, "1452")
}
