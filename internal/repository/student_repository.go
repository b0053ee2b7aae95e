package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// ErrStudentNotFound is returned when a student lookup fails.
var ErrStudentNotFound = errors.New("student not found")

// StudentRepo provides CRUD access to the students registry.
type StudentRepo struct {
	db *sql.DB
}

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

func (r *StudentRepo) Create(ctx context.Context, s *model.Student) error {
	const qInsert = `INSERT INTO students (code, full_name, email, project_id) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert, s.Code, s.FullName, s.Email, s.ProjectID)
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
	s.ID = uint64(id)

	const qSelect = `SELECT id, code, full_name, email, project_id, created_at, updated_at FROM students WHERE id = ?`
	return r.db.QueryRowContext(ctx, qSelect, s.ID).
		Scan(&s.ID, &s.Code, &s.FullName, &s.Email, &s.ProjectID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *StudentRepo) GetByCode(ctx context.Context, code string) (*model.Student, error) {
	const q = `SELECT id, code, full_name, email, project_id, created_at, updated_at FROM students WHERE code = ?`
	var s model.Student
	err := r.db.QueryRowContext(ctx, q, code).
		Scan(&s.ID, &s.Code, &s.FullName, &s.Email, &s.ProjectID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &s, nil
}

// List returns students ordered by code.  When query is non-empty it
// filters on code or name prefix, matching the search box behaviour of
// the registry screens.
func (r *StudentRepo) List(ctx context.Context, query string) ([]*model.Student, error) {
	q := `SELECT id, code, full_name, email, project_id, created_at, updated_at FROM students`
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

	var out []*model.Student
	for rows.Next() {
		s := new(model.Student)
		if err := rows.Scan(&s.ID, &s.Code, &s.FullName, &s.Email, &s.ProjectID, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *StudentRepo) UpdateByCode(ctx context.Context, code, fullName string, email *string, projectID *uint64) error {
	const q = `UPDATE students SET full_name = ?, email = ?, project_id = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`
	res, err := r.db.ExecContext(ctx, q, fullName, email, projectID, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// DeleteByCode removes a student.  Students with loan history cannot
// be removed; foreign keys reject the delete and it surfaces as
// ErrConflict.
func (r *StudentRepo) DeleteByCode(ctx context.Context, code string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE code = ?`, code)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrStudentNotFound
	}
	return nil
}
