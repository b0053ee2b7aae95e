// Package availability implements the resource availability tracker:
// the single enforcement point that keeps a resource's queryable
// status consistent with the existence of open loan records against
// it.  Rooms have no stored status at all - occupancy is derived from
// open loan existence on every read.  Equipment carries a stored
// status column which this package transitions with atomic conditional
// updates instead of the old check-then-write sequence, so two
// concurrent checkouts of the same item cannot both succeed.
package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// Store is the persistence surface the tracker drives.  The SQL
// implementation lives in the repository package; tests substitute an
// in-memory fake.  SetEquipmentStatus with a non-empty "from" must be
// atomic: it transitions only when the current status matches and
// reports whether a row changed.
type Store interface {
	EquipmentStatus(ctx context.Context, code string) (model.EquipmentStatus, error)
	SetEquipmentStatus(ctx context.Context, code string, from, to model.EquipmentStatus) (bool, error)
	OpenEquipmentLoans(ctx context.Context, code string) (int, error)
	RoomExists(ctx context.Context, code string) (bool, error)
	RoomOccupied(ctx context.Context, code string) (bool, error)
	BorrowerExists(ctx context.Context, kind model.BorrowerKind, code string) (bool, error)
	CreateLoan(ctx context.Context, loan *model.Loan) error
	Loan(ctx context.Context, ref model.LoanRef) (*model.Loan, error)
	CloseLoan(ctx context.Context, ref model.LoanRef, closedBy uint64, at time.Time, remarks string, signatureDoc *string) error
	DeleteLoan(ctx context.Context, ref model.LoanRef) error
}

// Tracker owns every status transition driven by loan events.  No
// other component writes equipment status or interprets room
// occupancy.
type Tracker struct {
	store Store
}

// NewTracker returns a Tracker backed by the given store.
func NewTracker(store Store) *Tracker {
	if store == nil {
		panic("nil store passed to NewTracker")
	}
	return &Tracker{store: store}
}

// Checkout describes a hand-out to record.  OpenedAt defaults to the
// current time when zero.
type Checkout struct {
	Resource     model.ResourceKind
	Borrower     model.BorrowerKind
	ResourceCode string
	BorrowerCode string
	SupervisorID uint64
	AssistantID  *uint64
	OpenedAt     time.Time
	Remarks      string
}

// Return describes a recorded return for an open loan.
type Return struct {
	ClosedByID   uint64
	ReturnedAt   time.Time
	Remarks      string
	SignatureDoc *string
}

// IsAvailable reports whether a resource can be checked out right now.
// For equipment this is a read of the stored status (DAMAGED counts as
// unavailable, whatever the loan tables say).  For rooms it evaluates
// the derived predicate over the loan tables.
func (t *Tracker) IsAvailable(ctx context.Context, resource model.ResourceKind, code string) (bool, error) {
	switch resource {
	case model.ResourceEquipment:
		status, err := t.store.EquipmentStatus(ctx, code)
		if err != nil {
			return false, err
		}
		return status == model.EquipmentAvailable, nil
	case model.ResourceRoom:
		exists, err := t.store.RoomExists(ctx, code)
		if err != nil {
			return false, err
		}
		if !exists {
			return false, repository.ErrRoomNotFound
		}
		occupied, err := t.store.RoomOccupied(ctx, code)
		if err != nil {
			return false, err
		}
		return !occupied, nil
	}
	return false, fmt.Errorf("unknown resource kind %q", resource)
}

// RecordCheckout validates the borrower and resource, claims the
// resource and inserts the loan row.  The claim is atomic: for
// equipment a conditional status update (AVAILABLE -> IN_USE), for
// rooms a guarded insert that only succeeds while no open loan exists.
// Returns the created loan.  Fails with ErrResourceNotAvailable when
// the resource is occupied, in use or damaged; ErrBorrowerNotFound and
// ErrRoomNotFound/ErrEquipmentNotFound on bad references.
func (t *Tracker) RecordCheckout(ctx context.Context, co Checkout) (*model.Loan, error) {
	ok, err := t.store.BorrowerExists(ctx, co.Borrower, co.BorrowerCode)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, repository.ErrBorrowerNotFound
	}

	if co.OpenedAt.IsZero() {
		co.OpenedAt = time.Now().UTC()
	}
	loan := &model.Loan{
		Resource:     co.Resource,
		Borrower:     co.Borrower,
		ResourceCode: co.ResourceCode,
		BorrowerCode: co.BorrowerCode,
		SupervisorID: co.SupervisorID,
		AssistantID:  co.AssistantID,
		OpenedAt:     co.OpenedAt,
		Remarks:      co.Remarks,
	}

	switch co.Resource {
	case model.ResourceRoom:
		exists, err := t.store.RoomExists(ctx, co.ResourceCode)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, repository.ErrRoomNotFound
		}
		// The guarded insert is the availability check; a zero-row
		// insert means another open loan holds the room.
		if err := t.store.CreateLoan(ctx, loan); err != nil {
			return nil, err
		}
		return loan, nil

	case model.ResourceEquipment:
		claimed, err := t.store.SetEquipmentStatus(ctx, co.ResourceCode,
			model.EquipmentAvailable, model.EquipmentInUse)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, repository.ErrResourceNotAvailable
		}
		if err := t.store.CreateLoan(ctx, loan); err != nil {
			// Release the claim so the item does not stay IN_USE with
			// no open loan behind it.
			if _, relErr := t.store.SetEquipmentStatus(ctx, co.ResourceCode,
				model.EquipmentInUse, model.EquipmentAvailable); relErr != nil {
				return nil, relErr
			}
			return nil, err
		}
		return loan, nil
	}
	return nil, fmt.Errorf("unknown resource kind %q", co.Resource)
}

// RecordReturn closes an open loan and, for equipment, releases the
// stored status back to AVAILABLE.  The release is conditional on
// IN_USE, so a DAMAGED override applied while the loan was open
// survives the return.  Fails with ErrLoanNotFound when the reference
// is unknown and ErrAlreadyReturned when the loan is already closed.
func (t *Tracker) RecordReturn(ctx context.Context, ref model.LoanRef, ret Return) error {
	loan, err := t.store.Loan(ctx, ref)
	if err != nil {
		return err
	}
	if !loan.Open() {
		return repository.ErrAlreadyReturned
	}
	if ret.ReturnedAt.IsZero() {
		ret.ReturnedAt = time.Now().UTC()
	}
	if err := t.store.CloseLoan(ctx, ref, ret.ClosedByID, ret.ReturnedAt, ret.Remarks, ret.SignatureDoc); err != nil {
		return err
	}
	if ref.Resource == model.ResourceEquipment {
		if _, err := t.store.SetEquipmentStatus(ctx, loan.ResourceCode,
			model.EquipmentInUse, model.EquipmentAvailable); err != nil {
			return err
		}
	}
	return nil
}

// DeleteLoan removes a loan record.  When the deleted loan was still
// open and referenced equipment, the stored status is rolled back to
// AVAILABLE as compensation (conditional on IN_USE, preserving a
// DAMAGED override).  Rooms need no compensation: their status is
// derived, so deleting the open loan vacates the room by construction.
func (t *Tracker) DeleteLoan(ctx context.Context, ref model.LoanRef) error {
	loan, err := t.store.Loan(ctx, ref)
	if err != nil {
		return err
	}
	if err := t.store.DeleteLoan(ctx, ref); err != nil {
		return err
	}
	if loan.Open() && ref.Resource == model.ResourceEquipment {
		if _, err := t.store.SetEquipmentStatus(ctx, loan.ResourceCode,
			model.EquipmentInUse, model.EquipmentAvailable); err != nil {
			return err
		}
	}
	return nil
}

// MarkDamaged applies the out-of-band DAMAGED override to an equipment
// item.  The write is unconditional: an item can be marked damaged
// while on loan, producing a resource that is simultaneously on loan
// and damaged until the override is cleared.
func (t *Tracker) MarkDamaged(ctx context.Context, code string) error {
	_, err := t.store.SetEquipmentStatus(ctx, code, "", model.EquipmentDamaged)
	return err
}

// ClearDamaged lifts the DAMAGED override.  The item returns to IN_USE
// when an open loan still references it, otherwise to AVAILABLE.
// Clearing an item that is not damaged is a no-op.
func (t *Tracker) ClearDamaged(ctx context.Context, code string) error {
	open, err := t.store.OpenEquipmentLoans(ctx, code)
	if err != nil {
		return err
	}
	to := model.EquipmentAvailable
	if open > 0 {
		to = model.EquipmentInUse
	}
	_, err = t.store.SetEquipmentStatus(ctx, code, model.EquipmentDamaged, to)
	return err
}
