package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// ErrProfessorNotFound is returned when a professor lookup fails.
var ErrProfessorNotFound = errors.New("professor not found")

// ProfessorRepo provides CRUD access to the professors registry.
type ProfessorRepo struct {
	db *sql.DB
}

func NewProfessorRepo(db *sql.DB) *ProfessorRepo { return &ProfessorRepo{db: db} }

func (r *ProfessorRepo) Create(ctx context.Context, p *model.Professor) error {
	const qInsert = `INSERT INTO professors (code, full_name, email) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, p.Code, p.FullName, p.Email)
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
	p.ID = uint64(id)

	const qSelect = `SELECT id, code, full_name, email, created_at, updated_at FROM professors WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, p.ID).
		Scan(&p.ID, &p.Code, &p.FullName, &p.Email, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProfessorRepo) GetByCode(ctx context.Context, code string) (*model.Professor, error) {
	const q = `SELECT id, code, full_name, email, created_at, updated_at FROM professors WHERE code = ?`
	var p model.Professor
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&p.ID, &p.Code, &p.FullName, &p.Email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfessorNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProfessorRepo) List(ctx context.Context, query string) ([]*model.Professor, error) {
	q := `SELECT id, code, full_name, email, created_at, updated_at FROM professors`
	args := []interface{}{}
	if query != "" {
		q += ` WHERE code LIKE ? OR full_name LIKE ?`
		args = append(args, query+"%", query+"%")
	}
	q += ` ORDER BY code`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Professor
	for rows.Next() {
		p := new(model.Professor)
		if err := rows.Scan(&p.ID, &p.Code, &p.FullName, &p.Email, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProfessorRepo) UpdateByCode(ctx context.Context, code, fullName string, email *string) error {
	const q = `UPDATE professors SET full_name = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`
	res, err := r.db.ExecContext(ctx, q, fullName, email, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfessorNotFound
	}
	return nil
}

func (r *ProfessorRepo) DeleteByCode(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM professors WHERE code = ?`, code)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfessorNotFound
	}
	return nil
}
