package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// ErrProjectNotFound is returned when a project lookup fails.
var ErrProjectNotFound = errors.New("project not found")

// ProjectRepo provides CRUD access to the curriculum-project registry.
type ProjectRepo struct {
	db *sql.DB
}

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{db: db} }

func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	const qInsert = `INSERT INTO projects (name, term) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, p.Name, p.Term)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = `SELECT id, name, term, created_at, updated_at FROM projects WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, p.ID).
		Scan(&p.ID, &p.Name, &p.Term, &p.CreatedAt, &p.UpdatedAt)
}

func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (*model.Project, error) {
	const q = `SELECT id, name, term, created_at, updated_at FROM projects WHERE id = ?`
	var p model.Project
	err := r.db.QueryRowContext(ctx, q, id).
		Scan(&p.ID, &p.Name, &p.Term, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*model.Project, error) {
	const q = `SELECT id, name, term, created_at, updated_at FROM projects ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Project
	for rows.Next() {
		p := new(model.Project)
		if err := rows.Scan(&p.ID, &p.Name, &p.Term, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
	const q = `UPDATE projects SET name = ?, term = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, p.Name, p.Term, p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}

func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProjectNotFound
	}
	return nil
}
