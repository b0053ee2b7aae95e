// Package queue defines message payloads exchanged over the message broker.
package queue

// LoanActivityEvent is published whenever a loan is opened, returned or
// deleted. It carries enough information for downstream consumers to log
// or notify without querying the primary database.
type LoanActivityEvent struct {
	Action       string `json:"action"` // CHECKOUT | RETURN | DELETE
	Resource     string `json:"resource"`
	Borrower     string `json:"borrower"`
	LoanID       uint64 `json:"loan_id"`
	ResourceCode string `json:"resource_code"`
	BorrowerCode string `json:"borrower_code"`
	StaffID      uint64 `json:"staff_id"`
	OccurredAt   string `json:"occurred_at"`
}
