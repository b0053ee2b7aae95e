package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/repository"
)

// fakeStore is an in-memory Store.  It keeps equipment status in a map
// and loan rows in a slice, mirroring the semantics of the SQL
// implementation: conditional status updates only transition on match,
// guarded room inserts fail while an open loan exists.
type fakeStore struct {
	equipment map[string]model.EquipmentStatus
	rooms     map[string]bool
	students  map[string]bool
	profs     map[string]bool
	loans     map[model.LoanRef]*model.Loan
	nextID    uint64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		equipment: map[string]model.EquipmentStatus{},
		rooms:     map[string]bool{},
		students:  map[string]bool{},
		profs:     map[string]bool{},
		loans:     map[model.LoanRef]*model.Loan{},
	}
}

func (f *fakeStore) EquipmentStatus(_ context.Context, code string) (model.EquipmentStatus, error) {
	status, ok := f.equipment[code]
	if !ok {
		return "", repository.ErrEquipmentNotFound
	}
	return status, nil
}

func (f *fakeStore) SetEquipmentStatus(_ context.Context, code string, from, to model.EquipmentStatus) (bool, error) {
	status, ok := f.equipment[code]
	if !ok {
		return false, repository.ErrEquipmentNotFound
	}
	if from != "" && status != from {
		return false, nil
	}
	f.equipment[code] = to
	return true, nil
}

func (f *fakeStore) OpenEquipmentLoans(_ context.Context, code string) (int, error) {
	n := 0
	for _, l := range f.loans {
		if l.Resource == model.ResourceEquipment && l.ResourceCode == code && l.Open() {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) RoomExists(_ context.Context, code string) (bool, error) {
	return f.rooms[code], nil
}

func (f *fakeStore) RoomOccupied(_ context.Context, code string) (bool, error) {
	for _, l := range f.loans {
		if l.Resource == model.ResourceRoom && l.ResourceCode == code && l.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) BorrowerExists(_ context.Context, kind model.BorrowerKind, code string) (bool, error) {
	if kind == model.BorrowerStudent {
		return f.students[code], nil
	}
	return f.profs[code], nil
}

func (f *fakeStore) CreateLoan(ctx context.Context, loan *model.Loan) error {
	if loan.Resource == model.ResourceRoom {
		occupied, _ := f.RoomOccupied(ctx, loan.ResourceCode)
		if occupied {
			return repository.ErrResourceNotAvailable
		}
	}
	f.nextID++
	loan.ID = f.nextID
	cp := *loan
	f.loans[loan.Ref()] = &cp
	return nil
}

func (f *fakeStore) Loan(_ context.Context, ref model.LoanRef) (*model.Loan, error) {
	l, ok := f.loans[ref]
	if !ok {
		return nil, repository.ErrLoanNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeStore) CloseLoan(_ context.Context, ref model.LoanRef, closedBy uint64, at time.Time, remarks string, signatureDoc *string) error {
	l, ok := f.loans[ref]
	if !ok {
		return repository.ErrLoanNotFound
	}
	if l.ReturnedAt != nil {
		return repository.ErrAlreadyReturned
	}
	t := at
	l.ReturnedAt = &t
	l.ClosedByID = &closedBy
	l.Remarks = remarks
	l.SignatureDoc = signatureDoc
	return nil
}

func (f *fakeStore) DeleteLoan(_ context.Context, ref model.LoanRef) error {
	if _, ok := f.loans[ref]; !ok {
		return repository.ErrLoanNotFound
	}
	delete(f.loans, ref)
	return nil
}

func (f *fakeStore) openLoansFor(resource model.ResourceKind, code string) int {
	n := 0
	for _, l := range f.loans {
		if l.Resource == resource && l.ResourceCode == code && l.Open() {
			n++
		}
	}
	return n
}

func setup() (*Tracker, *fakeStore) {
	store := newFakeStore()
	store.equipment["EQ-01"] = model.EquipmentAvailable
	store.equipment["EQ-02"] = model.EquipmentAvailable
	store.equipment["EQ-03"] = model.EquipmentAvailable
	store.rooms["LAB-1"] = true
	store.students["1001"] = true
	store.profs["P-7"] = true
	return NewTracker(store), store
}

func equipmentCheckout(code, student string) Checkout {
	return Checkout{
		Resource:     model.ResourceEquipment,
		Borrower:     model.BorrowerStudent,
		ResourceCode: code,
		BorrowerCode: student,
		SupervisorID: 1,
	}
}

func TestEquipmentCheckoutFlipsStatus(t *testing.T) {
	tr, store := setup()
	ctx := context.Background()

	t0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	co := equipmentCheckout("EQ-01", "1001")
	co.OpenedAt = t0
	loan, err := tr.RecordCheckout(ctx, co)
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if loan.ID == 0 {
		t.Fatalf("expected loan id to be assigned")
	}
	available, err := tr.IsAvailable(ctx, model.ResourceEquipment, "EQ-01")
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if available {
		t.Fatalf("expected EQ-01 unavailable after checkout")
	}
	if n := store.openLoansFor(model.ResourceEquipment, "EQ-01"); n != 1 {
		t.Fatalf("expected exactly one open loan, got %d", n)
	}
}

func TestEquipmentReturnRestoresAvailability(t *testing.T) {
	tr, _ := setup()
	ctx := context.Background()

	loan, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-01", "1001"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	t1 := time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC)
	if err := tr.RecordReturn(ctx, loan.Ref(), Return{ClosedByID: 2, ReturnedAt: t1}); err != nil {
		t.Fatalf("return failed: %v", err)
	}
	available, err := tr.IsAvailable(ctx, model.ResourceEquipment, "EQ-01")
	if err != nil {
		t.Fatalf("IsAvailable failed: %v", err)
	}
	if !available {
		t.Fatalf("expected EQ-01 available after return")
	}
	got, err := tr.store.Loan(ctx, loan.Ref())
	if err != nil {
		t.Fatalf("loan lookup failed: %v", err)
	}
	if got.ReturnedAt == nil || !got.ReturnedAt.Equal(t1) {
		t.Fatalf("expected close timestamp %v, got %v", t1, got.ReturnedAt)
	}
}

func TestCheckoutUnavailableEquipmentFails(t *testing.T) {
	tr, _ := setup()
	ctx := context.Background()

	if _, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-01", "1001")); err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	_, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-01", "1001"))
	if !errors.Is(err, repository.ErrResourceNotAvailable) {
		t.Fatalf("expected ErrResourceNotAvailable, got %v", err)
	}
}

func TestSecondReturnRejected(t *testing.T) {
	tr, _ := setup()
	ctx := context.Background()

	loan, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-01", "1001"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := tr.RecordReturn(ctx, loan.Ref(), Return{ClosedByID: 2}); err != nil {
		t.Fatalf("first return failed: %v", err)
	}
	// A second return must not overwrite the recorded close fields.
	err = tr.RecordReturn(ctx, loan.Ref(), Return{ClosedByID: 3})
	if !errors.Is(err, repository.ErrAlreadyReturned) {
		t.Fatalf("expected ErrAlreadyReturned, got %v", err)
	}
}

func TestReturnUnknownLoan(t *testing.T) {
	tr, _ := setup()
	ref := model.LoanRef{Resource: model.ResourceEquipment, Borrower: model.BorrowerStudent, ID: 99}
	err := tr.RecordReturn(context.Background(), ref, Return{ClosedByID: 2})
	if !errors.Is(err, repository.ErrLoanNotFound) {
		t.Fatalf("expected ErrLoanNotFound, got %v", err)
	}
}

func TestCheckoutUnknownBorrower(t *testing.T) {
	tr, _ := setup()
	_, err := tr.RecordCheckout(context.Background(), equipmentCheckout("EQ-01", "9999"))
	if !errors.Is(err, repository.ErrBorrowerNotFound) {
		t.Fatalf("expected ErrBorrowerNotFound, got %v", err)
	}
}

func TestRoomStatusIsDerived(t *testing.T) {
	tr, store := setup()
	ctx := context.Background()

	available, err := tr.IsAvailable(ctx, model.ResourceRoom, "LAB-1")
	if err != nil || !available {
		t.Fatalf("expected LAB-1 available, got %v / %v", available, err)
	}

	co := Checkout{
		Resource:     model.ResourceRoom,
		Borrower:     model.BorrowerProfessor,
		ResourceCode: "LAB-1",
		BorrowerCode: "P-7",
		SupervisorID: 1,
	}
	loan, err := tr.RecordCheckout(ctx, co)
	if err != nil {
		t.Fatalf("room checkout failed: %v", err)
	}
	available, err = tr.IsAvailable(ctx, model.ResourceRoom, "LAB-1")
	if err != nil || available {
		t.Fatalf("expected LAB-1 occupied, got %v / %v", available, err)
	}

	// A second checkout against the occupied room must lose.
	if _, err := tr.RecordCheckout(ctx, co); !errors.Is(err, repository.ErrResourceNotAvailable) {
		t.Fatalf("expected ErrResourceNotAvailable, got %v", err)
	}

	// Returning the open loan vacates the room with no status write.
	if err := tr.RecordReturn(ctx, loan.Ref(), Return{ClosedByID: 2}); err != nil {
		t.Fatalf("return failed: %v", err)
	}
	available, err = tr.IsAvailable(ctx, model.ResourceRoom, "LAB-1")
	if err != nil || !available {
		t.Fatalf("expected LAB-1 available after return, got %v / %v", available, err)
	}

	// Deleting an open loan vacates the room the same way.
	loan2, err := tr.RecordCheckout(ctx, co)
	if err != nil {
		t.Fatalf("second room checkout failed: %v", err)
	}
	if err := tr.DeleteLoan(ctx, loan2.Ref()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if n := store.openLoansFor(model.ResourceRoom, "LAB-1"); n != 0 {
		t.Fatalf("expected no open loans after delete, got %d", n)
	}
	available, err = tr.IsAvailable(ctx, model.ResourceRoom, "LAB-1")
	if err != nil || !available {
		t.Fatalf("expected LAB-1 available after delete, got %v / %v", available, err)
	}
}

func TestRoomCheckoutUnknownRoom(t *testing.T) {
	tr, _ := setup()
	co := Checkout{
		Resource:     model.ResourceRoom,
		Borrower:     model.BorrowerStudent,
		ResourceCode: "LAB-404",
		BorrowerCode: "1001",
		SupervisorID: 1,
	}
	_, err := tr.RecordCheckout(context.Background(), co)
	if !errors.Is(err, repository.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestDeleteOpenEquipmentLoanResetsStatus(t *testing.T) {
	tr, store := setup()
	ctx := context.Background()

	loan, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-02", "1001"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if store.equipment["EQ-02"] != model.EquipmentInUse {
		t.Fatalf("expected EQ-02 IN_USE, got %s", store.equipment["EQ-02"])
	}
	// No return recorded: deleting the open loan must roll the stored
	// status back as compensation.
	if err := tr.DeleteLoan(ctx, loan.Ref()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.equipment["EQ-02"] != model.EquipmentAvailable {
		t.Fatalf("expected EQ-02 AVAILABLE after delete, got %s", store.equipment["EQ-02"])
	}
}

func TestDeleteClosedLoanLeavesStatusAlone(t *testing.T) {
	tr, store := setup()
	ctx := context.Background()

	loan, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-02", "1001"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := tr.RecordReturn(ctx, loan.Ref(), Return{ClosedByID: 2}); err != nil {
		t.Fatalf("return failed: %v", err)
	}
	// Check out again so the item is legitimately IN_USE, then delete
	// the old closed loan: the live claim must not be disturbed.
	if _, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-02", "1001")); err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if err := tr.DeleteLoan(ctx, loan.Ref()); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.equipment["EQ-02"] != model.EquipmentInUse {
		t.Fatalf("expected EQ-02 to stay IN_USE, got %s", store.equipment["EQ-02"])
	}
}

func TestDamagedOverridesLoanState(t *testing.T) {
	tr, store := setup()
	ctx := context.Background()

	loan, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-03", "1001"))
	if err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := tr.MarkDamaged(ctx, "EQ-03"); err != nil {
		t.Fatalf("mark damaged failed: %v", err)
	}
	available, err := tr.IsAvailable(ctx, model.ResourceEquipment, "EQ-03")
	if err != nil || available {
		t.Fatalf("expected EQ-03 unavailable while damaged, got %v / %v", available, err)
	}

	// Returning the loan must not lift the damaged override.
	if err := tr.RecordReturn(ctx, loan.Ref(), Return{ClosedByID: 2}); err != nil {
		t.Fatalf("return failed: %v", err)
	}
	available, err = tr.IsAvailable(ctx, model.ResourceEquipment, "EQ-03")
	if err != nil || available {
		t.Fatalf("expected EQ-03 still unavailable after return, got %v / %v", available, err)
	}
	if store.equipment["EQ-03"] != model.EquipmentDamaged {
		t.Fatalf("expected EQ-03 DAMAGED, got %s", store.equipment["EQ-03"])
	}

	// Only the manual clear restores availability.
	if err := tr.ClearDamaged(ctx, "EQ-03"); err != nil {
		t.Fatalf("clear damaged failed: %v", err)
	}
	available, err = tr.IsAvailable(ctx, model.ResourceEquipment, "EQ-03")
	if err != nil || !available {
		t.Fatalf("expected EQ-03 available after clear, got %v / %v", available, err)
	}
}

func TestClearDamagedWithOpenLoanRestoresInUse(t *testing.T) {
	tr, store := setup()
	ctx := context.Background()

	if _, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-03", "1001")); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	if err := tr.MarkDamaged(ctx, "EQ-03"); err != nil {
		t.Fatalf("mark damaged failed: %v", err)
	}
	if err := tr.ClearDamaged(ctx, "EQ-03"); err != nil {
		t.Fatalf("clear damaged failed: %v", err)
	}
	// The open loan is still out there, so the clear lands on IN_USE.
	if store.equipment["EQ-03"] != model.EquipmentInUse {
		t.Fatalf("expected EQ-03 IN_USE after clear with open loan, got %s", store.equipment["EQ-03"])
	}
}

func TestDamagedEquipmentCannotBeCheckedOut(t *testing.T) {
	tr, _ := setup()
	ctx := context.Background()

	if err := tr.MarkDamaged(ctx, "EQ-01"); err != nil {
		t.Fatalf("mark damaged failed: %v", err)
	}
	_, err := tr.RecordCheckout(ctx, equipmentCheckout("EQ-01", "1001"))
	if !errors.Is(err, repository.ErrResourceNotAvailable) {
		t.Fatalf("expected ErrResourceNotAvailable, got %v", err)
	}
}
