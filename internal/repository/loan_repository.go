package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/evzav/lab-resource-loans/internal/model"
)

// LoanRepo provides data access to the four loan tables (room and
// equipment loans, each split by student and professor borrowers) and
// to the status columns the availability tracker keeps in sync with
// them.  Loan rows are addressed by a model.LoanRef since ids are only
// unique within one table.  All timestamps are stored in UTC.
type LoanRepo struct {
	db *sql.DB
}

// NewLoanRepo returns a new LoanRepo bound to the given database.
func NewLoanRepo(db *sql.DB) *LoanRepo { return &LoanRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// transactions across repositories.
func (r *LoanRepo) DB() *sql.DB { return r.db }

// loanTable maps a resource/borrower pair to its loan table name.  The
// names are fixed at compile time; no user input ever reaches them.
func loanTable(resource model.ResourceKind, borrower model.BorrowerKind) (string, error) {
	switch {
	case resource == model.ResourceRoom && borrower == model.BorrowerStudent:
		return "room_loans_student", nil
	case resource == model.ResourceRoom && borrower == model.BorrowerProfessor:
		return "room_loans_professor", nil
	case resource == model.ResourceEquipment && borrower == model.BorrowerStudent:
		return "equipment_loans_student", nil
	case resource == model.ResourceEquipment && borrower == model.BorrowerProfessor:
		return "equipment_loans_professor", nil
	}
	return "", fmt.Errorf("no loan table for resource=%q borrower=%q", resource, borrower)
}

func resourceColumn(resource model.ResourceKind) string {
	if resource == model.ResourceRoom {
		return "room_id"
	}
	return "equipment_id"
}

func resourceTable(resource model.ResourceKind) string {
	if resource == model.ResourceRoom {
		return "rooms"
	}
	return "equipment"
}

func borrowerColumn(borrower model.BorrowerKind) string {
	if borrower == model.BorrowerStudent {
		return "student_id"
	}
	return "professor_id"
}

func borrowerTable(borrower model.BorrowerKind) string {
	if borrower == model.BorrowerStudent {
		return "students"
	}
	return "professors"
}

// EquipmentStatus reads the stored status of an equipment item.
// Returns ErrEquipmentNotFound when the code is unknown.
func (r *LoanRepo) EquipmentStatus(ctx context.Context, code string) (model.EquipmentStatus, error) {
	var status model.EquipmentStatus
	err := r.db.QueryRowContext(ctx, `SELECT status FROM equipment WHERE code = ?`, code).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrEquipmentNotFound
		}
		return "", err
	}
	return status, nil
}

// SetEquipmentStatus transitions an equipment item's stored status.
// When from is non-empty the update is conditional ("set to IN_USE
// where status is AVAILABLE") and the returned bool reports whether a
// row actually changed - this is the atomic claim that makes a
// check-then-act race impossible.  When from is empty the
// write is unconditional (used for the DAMAGED override).  Returns
// ErrEquipmentNotFound when the code does not exist at all.
func (r *LoanRepo) SetEquipmentStatus(ctx context.Context, code string, from, to model.EquipmentStatus) (bool, error) {
	var (
		res sql.Result
		err error
	)
	if from == "" {
		res, err = r.db.ExecContext(ctx,
			`UPDATE equipment SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ?`,
			string(to), code)
	} else {
		res, err = r.db.ExecContext(ctx,
			`UPDATE equipment SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE code = ? AND status = ?`,
			string(to), code, string(from))
	}
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return true, nil
	}
	// Distinguish "no such item" from "condition not met".
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM equipment WHERE code = ?)`, code).Scan(&exists); err != nil {
		return false, err
	}
	if !exists {
		return false, ErrEquipmentNotFound
	}
	return false, nil
}

// OpenEquipmentLoans counts open loans for an equipment code across
// both borrower tables.  Used when clearing a DAMAGED override to
// decide whether the item goes back to AVAILABLE or IN_USE.
func (r *LoanRepo) OpenEquipmentLoans(ctx context.Context, code string) (int, error) {
	const q = `SELECT
	             (SELECT COUNT(*) FROM equipment_loans_student l JOIN equipment e ON e.id = l.equipment_id
	              WHERE e.code = ? AND l.returned_at IS NULL)
	           + (SELECT COUNT(*) FROM equipment_loans_professor l JOIN equipment e ON e.id = l.equipment_id
	              WHERE e.code = ? AND l.returned_at IS NULL)`
	var n int
	err := r.db.QueryRowContext(ctx, q, code, code).Scan(&n)
	return n, err
}

// RoomExists reports whether a room with the code exists.
func (r *LoanRepo) RoomExists(ctx context.Context, code string) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE code = ?)`, code).Scan(&ok)
	return ok, err
}

// RoomOccupied evaluates the derived room status: a room is occupied
// iff at least one open loan in either room-loan table references it.
// Nothing is ever written; the predicate is the status.
func (r *LoanRepo) RoomOccupied(ctx context.Context, code string) (bool, error) {
	const q = `SELECT EXISTS(SELECT 1 FROM room_loans_student l JOIN rooms ro ON ro.id = l.room_id
	                         WHERE ro.code = ? AND l.returned_at IS NULL)
	               OR EXISTS(SELECT 1 FROM room_loans_professor l JOIN rooms ro ON ro.id = l.room_id
	                         WHERE ro.code = ? AND l.returned_at IS NULL)`
	var occupied bool
	err := r.db.QueryRowContext(ctx, q, code, code).Scan(&occupied)
	return occupied, err
}

// BorrowerExists reports whether the referenced student or professor
// exists in its registry.
func (r *LoanRepo) BorrowerExists(ctx context.Context, kind model.BorrowerKind, code string) (bool, error) {
	q := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE code = ?)`, borrowerTable(kind))
	var ok bool
	err := r.db.QueryRowContext(ctx, q, code).Scan(&ok)
	return ok, err
}

// CreateLoan inserts a loan row into the table selected by the loan's
// resource and borrower kinds.  For rooms the insert is guarded: it
// only succeeds while no open loan references the room, so two
// concurrent checkouts cannot both win.  For equipment the caller is
// expected to have claimed the item first via SetEquipmentStatus.  On
// success the loan's ID is populated.  ErrResourceNotAvailable is
// returned when the guarded room insert matches no row.
func (r *LoanRepo) CreateLoan(ctx context.Context, loan *model.Loan) error {
	table, err := loanTable(loan.Resource, loan.Borrower)
	if err != nil {
		return err
	}
	bCol := borrowerColumn(loan.Borrower)
	bTable := borrowerTable(loan.Borrower)

	var borrowerID uint64
	err = r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE code = ?`, bTable), loan.BorrowerCode).Scan(&borrowerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBorrowerNotFound
		}
		return err
	}

	opened := loan.OpenedAt.UTC().Format("2006-01-02 15:04:05")

	if loan.Resource == model.ResourceRoom {
		q := fmt.Sprintf(`INSERT INTO %s (room_id, %s, supervisor_id, assistant_id, opened_at, remarks, signature_doc)
		                  SELECT ro.id, ?, ?, ?, ?, ?, ?
		                  FROM rooms ro
		                  WHERE ro.code = ?
		                    AND NOT EXISTS (SELECT 1 FROM room_loans_student ls
		                                    WHERE ls.room_id = ro.id AND ls.returned_at IS NULL)
		                    AND NOT EXISTS (SELECT 1 FROM room_loans_professor lp
		                                    WHERE lp.room_id = ro.id AND lp.returned_at IS NULL)`, table, bCol)
		res, err := r.db.ExecContext(ctx, q,
			borrowerID, loan.SupervisorID, loan.AssistantID, opened, loan.Remarks, loan.SignatureDoc,
			loan.ResourceCode)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrResourceNotAvailable
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		loan.ID = uint64(id)
		return nil
	}

	var equipmentID uint64
	err = r.db.QueryRowContext(ctx, `SELECT id FROM equipment WHERE code = ?`, loan.ResourceCode).Scan(&equipmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrEquipmentNotFound
		}
		return err
	}
	q := fmt.Sprintf(`INSERT INTO %s (equipment_id, %s, supervisor_id, assistant_id, opened_at, remarks, signature_doc)
	                  VALUES (?, ?, ?, ?, ?, ?, ?)`, table, bCol)
	res, err := r.db.ExecContext(ctx, q,
		equipmentID, borrowerID, loan.SupervisorID, loan.AssistantID, opened, loan.Remarks, loan.SignatureDoc)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	loan.ID = uint64(id)
	return nil
}

// loanSelect builds the SELECT clause shared by Loan and List.  The
// resource and borrower codes come from joins so callers never deal in
// raw foreign keys.
func loanSelect(resource model.ResourceKind, borrower model.BorrowerKind) (string, error) {
	table, err := loanTable(resource, borrower)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`SELECT l.id, res.code, b.code, l.supervisor_id, l.assistant_id,
	                           l.opened_at, l.returned_at, l.closed_by_id, l.remarks, l.signature_doc
	                    FROM %s l
	                    JOIN %s res ON res.id = l.%s
	                    JOIN %s b ON b.id = l.%s`,
		table, resourceTable(resource), resourceColumn(resource),
		borrowerTable(borrower), borrowerColumn(borrower)), nil
}

func scanLoan(row interface {
	Scan(dest ...interface{}) error
}, resource model.ResourceKind, borrower model.BorrowerKind) (*model.Loan, error) {
	loan := &model.Loan{Resource: resource, Borrower: borrower}
	var (
		returnedAt sql.NullTime
		closedBy   sql.NullInt64
		signature  sql.NullString
		assistant  sql.NullInt64
	)
	err := row.Scan(&loan.ID, &loan.ResourceCode, &loan.BorrowerCode, &loan.SupervisorID, &assistant,
		&loan.OpenedAt, &returnedAt, &closedBy, &loan.Remarks, &signature)
	if err != nil {
		return nil, err
	}
	if assistant.Valid {
		v := uint64(assistant.Int64)
		loan.AssistantID = &v
	}
	if returnedAt.Valid {
		t := returnedAt.Time
		loan.ReturnedAt = &t
	}
	if closedBy.Valid {
		v := uint64(closedBy.Int64)
		loan.ClosedByID = &v
	}
	if signature.Valid {
		s := signature.String
		loan.SignatureDoc = &s
	}
	return loan, nil
}

// Loan fetches a single loan row by reference.  Returns ErrLoanNotFound
// when no row matches.
func (r *LoanRepo) Loan(ctx context.Context, ref model.LoanRef) (*model.Loan, error) {
	sel, err := loanSelect(ref.Resource, ref.Borrower)
	if err != nil {
		return nil, err
	}
	loan, err := scanLoan(r.db.QueryRowContext(ctx, sel+` WHERE l.id = ?`, ref.ID), ref.Resource, ref.Borrower)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLoanNotFound
		}
		return nil, err
	}
	return loan, nil
}

// CloseLoan records a return: it sets the close timestamp, closing
// staff, remarks and optional signature document.  The update is
// conditional on the loan still being open, so a racing second return
// loses even if both passed the tracker's guard.  Returns
// ErrLoanNotFound or ErrAlreadyReturned accordingly.
func (r *LoanRepo) CloseLoan(ctx context.Context, ref model.LoanRef, closedBy uint64, at time.Time, remarks string, signatureDoc *string) error {
	table, err := loanTable(ref.Resource, ref.Borrower)
	if err != nil {
		return err
	}
	q := fmt.Sprintf(`UPDATE %s SET returned_at = ?, closed_by_id = ?, remarks = ?, signature_doc = ?
	                  WHERE id = ? AND returned_at IS NULL`, table)
	res, err := r.db.ExecContext(ctx, q,
		at.UTC().Format("2006-01-02 15:04:05"), closedBy, remarks, signatureDoc, ref.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE id = ?)`, table), ref.ID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrLoanNotFound
	}
	return ErrAlreadyReturned
}

// DeleteLoan removes a loan row.  Compensating status rollback for
// open equipment loans is the tracker's responsibility; the repository
// only deletes.  Returns ErrLoanNotFound when no row matches.
func (r *LoanRepo) DeleteLoan(ctx context.Context, ref model.LoanRef) error {
	table, err := loanTable(ref.Resource, ref.Borrower)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), ref.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLoanNotFound
	}
	return nil
}

// LoanFilter narrows List results.  Zero values mean "no filter"; Open
// is a tri-state (nil = both open and closed loans).
type LoanFilter struct {
	Resource     model.ResourceKind
	Borrower     model.BorrowerKind
	ResourceCode string
	BorrowerCode string
	Open         *bool
}

// List returns loans across the tables selected by the filter, newest
// first within each table.  When Resource or Borrower is empty the
// corresponding dimension is not restricted and all matching tables
// are queried.
func (r *LoanRepo) List(ctx context.Context, f LoanFilter) ([]*model.Loan, error) {
	resources := []model.ResourceKind{model.ResourceRoom, model.ResourceEquipment}
	if f.Resource != "" {
		resources = []model.ResourceKind{f.Resource}
	}
	borrowers := []model.BorrowerKind{model.BorrowerStudent, model.BorrowerProfessor}
	if f.Borrower != "" {
		borrowers = []model.BorrowerKind{f.Borrower}
	}

	var out []*model.Loan
	for _, resource := range resources {
		for _, borrower := range borrowers {
			sel, err := loanSelect(resource, borrower)
			if err != nil {
				return nil, err
			}
			q := sel + ` WHERE 1=1`
			args := []interface{}{}
			if f.ResourceCode != "" {
				q += ` AND res.code = ?`
				args = append(args, f.ResourceCode)
			}
			if f.BorrowerCode != "" {
				q += ` AND b.code = ?`
				args = append(args, f.BorrowerCode)
			}
			if f.Open != nil {
				if *f.Open {
					q += ` AND l.returned_at IS NULL`
				} else {
					q += ` AND l.returned_at IS NOT NULL`
				}
			}
			q += ` ORDER BY l.opened_at DESC`

			rows, err := r.db.QueryContext(ctx, q, args...)
			if err != nil {
				return nil, err
			}
			for rows.Next() {
				loan, err := scanLoan(rows, resource, borrower)
				if err != nil {
					rows.Close()
					return nil, err
				}
				out = append(out, loan)
			}
			if err := rows.Err(); err != nil {
				rows.Close()
				return nil, err
			}
			rows.Close()
		}
	}
	return out, nil
}
