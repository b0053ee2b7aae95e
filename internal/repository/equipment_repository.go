package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// ErrEquipmentNotFound is returned when an equipment lookup fails.
var ErrEquipmentNotFound = errors.New("equipment not found")

// ErrEquipmentCodeExists is returned when an equipment item is created
// with a code that is already taken.
var ErrEquipmentCodeExists = errors.New("equipment code already exists")

// EquipmentRepo provides CRUD access to the equipment table.  Status
// transitions driven by loans (AVAILABLE <-> IN_USE) are owned by the
// availability tracker; this repo only exposes the CRUD surface and
// the conditional status updates the tracker builds on.
type EquipmentRepo struct {
	db *sql.DB
}

// NewEquipmentRepo constructs an EquipmentRepo with the given DB handle.
func NewEquipmentRepo(db *sql.DB) *EquipmentRepo {
	return &EquipmentRepo{db: db}
}

// Create inserts a new equipment item.  New items always start
// AVAILABLE regardless of the Status field on the passed struct.
func (r *EquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	const qInsert = `INSERT INTO equipment (code, name, description, status) VALUES (?, ?, ?, 'AVAILABLE')`
	res, err := r.db.ExecContext(ctx, qInsert, e.Code, e.Name, e.Description)
	if err != nil {
		if isDuplicate(err) {
			return ErrEquipmentCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)

	const qSelect = `SELECT id, code, name, description, status, created_at, updated_at FROM equipment WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, e.ID).
		Scan(&e.ID, &e.Code, &e.Name, &e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt)
}

// GetByCode retrieves an equipment item by code.  Returns
// ErrEquipmentNotFound when no row is found.
func (r *EquipmentRepo) GetByCode(ctx context.Context, code string) (*model.Equipment, error) {
	const q = `SELECT id, code, name, description, status, created_at, updated_at FROM equipment WHERE code = ?`
	var e model.Equipment
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&e.ID, &e.Code, &e.Name, &e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEquipmentNotFound
		}
		return nil, err
	}
	return &e, nil
}

// List returns equipment items ordered by code.  When status is
// non-empty only items with that stored status are returned.
func (r *EquipmentRepo) List(ctx context.Context, status model.EquipmentStatus) ([]*model.Equipment, error) {
	q := `SELECT id, code, name, description, status, created_at, updated_at FROM equipment`
	args := []interface{}{}
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, string(status))
	}
	q += ` ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Equipment
	for rows.Next() {
		e := new(model.Equipment)
		if err := rows.Scan(&e.ID, &e.Code, &e.Name, &e.Description, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateByCode updates name and description.  The stored status is
// deliberately not writable here.
func (r *EquipmentRepo) UpdateByCode(ctx context.Context, code, name string, description *string) error {
	const q = `UPDATE equipment SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`
	res, err := r.db.ExecContext(ctx, q, name, description, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}

// DeleteByCode removes an equipment item.  Items with loan history are
// protected by foreign keys; surface that as ErrConflict.
func (r *EquipmentRepo) DeleteByCode(ctx context.Context, code string) error {
	const qLoans = `SELECT EXISTS(SELECT 1 FROM equipment_loans_student els JOIN equipment e ON e.id = els.equipment_id WHERE e.code = ?)
	                OR EXISTS(SELECT 1 FROM equipment_loans_professor elp JOIN equipment e ON e.id = elp.equipment_id WHERE e.code = ?)`
	var referenced bool
	if err := r.db.QueryRowContext(ctx, qLoans, code, code).Scan(&referenced); err != nil {
		return err
	}
	if referenced {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM equipment WHERE code = ?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEquipmentNotFound
	}
	return nil
}
