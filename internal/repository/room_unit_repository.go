package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// ErrRoomUnitNotFound is returned when a room unit lookup fails.
var ErrRoomUnitNotFound = errors.New("room unit not found")

// RoomUnitRepo provides CRUD access to room-fixed equipment units.
// The ACTIVE/INACTIVE flag on a unit is a maintenance marker only and
// has no interaction with the loan tables.
type RoomUnitRepo struct {
	db *sql.DB
}

// NewRoomUnitRepo constructs a RoomUnitRepo with the given DB handle.
func NewRoomUnitRepo(db *sql.DB) *RoomUnitRepo {
	return &RoomUnitRepo{db: db}
}

// Create inserts a room unit.  The referenced room must exist; a
// foreign-key failure surfaces as ErrRoomNotFound.
func (r *RoomUnitRepo) Create(ctx context.Context, u *model.RoomUnit) error {
	const qInsert = `INSERT INTO room_units (code, name, room_id, status) VALUES (?, ?, ?, 'ACTIVE')`
	res, err := r.db.ExecContext(ctx, qInsert, u.Code, u.Name, u.RoomID)
	if err != nil {
		if isDuplicate(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)

	const qSelect = `SELECT id, code, name, room_id, status, created_at, updated_at FROM room_units WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, u.ID).
		Scan(&u.ID, &u.Code, &u.Name, &u.RoomID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
}

// GetByCode retrieves a unit by code.
func (r *RoomUnitRepo) GetByCode(ctx context.Context, code string) (*model.RoomUnit, error) {
	const q = `SELECT id, code, name, room_id, status, created_at, updated_at FROM room_units WHERE code = ?`
	var u model.RoomUnit
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&u.ID, &u.Code, &u.Name, &u.RoomID, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListByRoom returns all units installed in the given room.
func (r *RoomUnitRepo) ListByRoom(ctx context.Context, roomID uint64) ([]*model.RoomUnit, error) {
	const q = `SELECT id, code, name, room_id, status, created_at, updated_at FROM room_units WHERE room_id = ? ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.RoomUnit
	for rows.Next() {
		u := new(model.RoomUnit)
		if err := rows.Scan(&u.ID, &u.Code, &u.Name, &u.RoomID, &u.Status, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetStatus flips the maintenance flag.  Returns ErrRoomUnitNotFound
// when no row matches.
func (r *RoomUnitRepo) SetStatus(ctx context.Context, code string, status model.RoomUnitStatus) error {
	const q = `UPDATE room_units SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomUnitNotFound
	}
	return nil
}

// DeleteByCode removes a unit.
func (r *RoomUnitRepo) DeleteByCode(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM room_units WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomUnitNotFound
	}
	return nil
}
