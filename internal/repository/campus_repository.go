package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// ErrCampusNotFound is returned when a campus lookup fails.
var ErrCampusNotFound = errors.New("campus not found")

// CampusRepo provides CRUD access to the campus/location registry.
type CampusRepo struct {
	db *sql.DB
}

func NewCampusRepo(db *sql.DB) *CampusRepo { return &CampusRepo{db: db} }

func (r *CampusRepo) Create(ctx context.Context, c *model.Campus) error {
	const qInsert = `INSERT INTO campuses (name, address) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, c.Name, c.Address)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = `SELECT id, name, address, created_at, updated_at FROM campuses WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, c.ID).
		Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CampusRepo) GetByID(ctx context.Context, id uint64) (*model.Campus, error) {
	const q = `SELECT id, name, address, created_at, updated_at FROM campuses WHERE id = ?`
	var c model.Campus
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCampusNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CampusRepo) List(ctx context.Context) ([]*model.Campus, error) {
	const q = `SELECT id, name, address, created_at, updated_at FROM campuses ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Campus
	for rows.Next() {
		c := new(model.Campus)
		if err := rows.Scan(&c.ID, &c.Name, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CampusRepo) Update(ctx context.Context, c *model.Campus) error {
	const q = `UPDATE campuses SET name = ?, address = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, c.Name, c.Address, c.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCampusNotFound
	}
	return nil
}

func (r *CampusRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM campuses WHERE id = ?`, id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrCampusNotFound
	}
	return nil
}
