package model

import "time"

// ResourceKind distinguishes the two loanable resource families.
type ResourceKind string

const (
	ResourceRoom      ResourceKind = "ROOM"
	ResourceEquipment ResourceKind = "EQUIPMENT"
)

// BorrowerKind distinguishes the two borrower registries.  Loans for
// students and professors live in separate tables, so a loan id is
// only meaningful together with both kinds.
type BorrowerKind string

const (
	BorrowerStudent   BorrowerKind = "STUDENT"
	BorrowerProfessor BorrowerKind = "PROFESSOR"
)

// LoanRef uniquely addresses a loan row across the four loan tables.
type LoanRef struct {
	Resource ResourceKind
	Borrower BorrowerKind
	ID       uint64
}

// Loan is a single hand-out record.  A loan is open while ReturnedAt
// is nil and closed once the return has been recorded.  ResourceCode
// holds the room code or equipment code depending on Resource;
// BorrowerCode holds the student or professor registry code depending
// on Borrower.
//
// Fields:
//  ID            – auto-increment id within its table.
//  Resource      – ROOM or EQUIPMENT.
//  Borrower      – STUDENT or PROFESSOR.
//  ResourceCode  – code of the borrowed room or equipment item.
//  BorrowerCode  – registry code of the borrower.
//  SupervisorID  – staff member who recorded the hand-out.
//  AssistantID   – assisting staff member (nullable).
//  OpenedAt      – when the resource was handed out.
//  ReturnedAt    – when the return was recorded; nil while open.
//  ClosedByID    – staff member who recorded the return (nullable).
//  Remarks       – free-text remarks captured at hand-out or return.
//  SignatureDoc  – optional reference to the signed return document.
type Loan struct {
	ID           uint64       // <loan table>.id
	Resource     ResourceKind // which resource family the row belongs to
	Borrower     BorrowerKind // which borrower family the row belongs to
	ResourceCode string       // room code or equipment code
	BorrowerCode string       // student code or professor code
	SupervisorID uint64       // <loan table>.supervisor_id
	AssistantID  *uint64      // <loan table>.assistant_id (nullable)
	OpenedAt     time.Time    // <loan table>.opened_at
	ReturnedAt   *time.Time   // <loan table>.returned_at (nullable)
	ClosedByID   *uint64      // <loan table>.closed_by_id (nullable)
	Remarks      string       // <loan table>.remarks
	SignatureDoc *string      // <loan table>.signature_doc (nullable)
}

// Ref returns the LoanRef addressing this loan.
func (l *Loan) Ref() LoanRef {
	return LoanRef{Resource: l.Resource, Borrower: l.Borrower, ID: l.ID}
}

// Open reports whether the loan has not yet been returned.
func (l *Loan) Open() bool { return l.ReturnedAt == nil }
