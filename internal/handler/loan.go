package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/availability"
	"github.com/evzav/lab-resource-loans/internal/model"
	"github.com/evzav/lab-resource-loans/internal/queue"
	"github.com/evzav/lab-resource-loans/internal/repository"
	queue_publisher "github.com/evzav/lab-resource-loans/internal/service"
)

// LoanHandler records checkouts and returns. All availability checks
// and status transitions go through the tracker; this handler only
// translates HTTP to tracker calls and publishes activity events.
type LoanHandler struct {
	Tracker *availability.Tracker
	Loans   *repository.LoanRepo
	Staff   *repository.StaffRepo
}

func NewLoanHandler(tracker *availability.Tracker, loans *repository.LoanRepo, staff *repository.StaffRepo) *LoanHandler {
	if tracker == nil || loans == nil || staff == nil {
		panic("nil dependency passed to NewLoanHandler")
	}
	return &LoanHandler{Tracker: tracker, Loans: loans, Staff: staff}
}

type loanResp struct {
	ID           uint64     `json:"id"`
	Resource     string     `json:"resource"`
	Borrower     string     `json:"borrower"`
	ResourceCode string     `json:"resource_code"`
	BorrowerCode string     `json:"borrower_code"`
	SupervisorID uint64     `json:"supervisor_id"`
	AssistantID  *uint64    `json:"assistant_id,omitempty"`
	OpenedAt     time.Time  `json:"opened_at"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
	ClosedByID   *uint64    `json:"closed_by_id,omitempty"`
	Remarks      string     `json:"remarks,omitempty"`
	SignatureDoc *string    `json:"signature_doc,omitempty"`
	Open         bool       `json:"open"`
}

func loanToResp(l *model.Loan) loanResp {
	return loanResp{
		ID:           l.ID,
		Resource:     string(l.Resource),
		Borrower:     string(l.Borrower),
		ResourceCode: l.ResourceCode,
		BorrowerCode: l.BorrowerCode,
		SupervisorID: l.SupervisorID,
		AssistantID:  l.AssistantID,
		OpenedAt:     l.OpenedAt,
		ReturnedAt:   l.ReturnedAt,
		ClosedByID:   l.ClosedByID,
		Remarks:      l.Remarks,
		SignatureDoc: l.SignatureDoc,
		Open:         l.Open(),
	}
}

// loanRefFromPath parses the :resource/:borrower/:id path triple that
// addresses a loan row across the four loan tables.
func loanRefFromPath(c echo.Context) (model.LoanRef, bool) {
	resource, ok := parseResourceKind(c.Param("resource"))
	if !ok {
		return model.LoanRef{}, false
	}
	borrower, ok := parseBorrowerKind(c.Param("borrower"))
	if !ok {
		return model.LoanRef{}, false
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return model.LoanRef{}, false
	}
	return model.LoanRef{Resource: resource, Borrower: borrower, ID: id}, true
}

func publishActivity(action string, l *model.Loan, staffID uint64) {
	ev := queue.LoanActivityEvent{
		Action:       action,
		Resource:     string(l.Resource),
		Borrower:     string(l.Borrower),
		LoanID:       l.ID,
		ResourceCode: l.ResourceCode,
		BorrowerCode: l.BorrowerCode,
		StaffID:      staffID,
		OccurredAt:   time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishLoanActivity(ctx, ev)
	}()
}

// Availability handles GET /v1/availability/:resource/:code.
func (h *LoanHandler) Availability(c echo.Context) error {
	resource, ok := parseResourceKind(c.Param("resource"))
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "resource must be room or equipment"})
	}
	code := c.Param("code")
	available, err := h.Tracker.IsAvailable(c.Request().Context(), resource, code)
	switch err {
	case nil:
	case repository.ErrRoomNotFound, repository.ErrEquipmentNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "resource not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"resource":  string(resource),
		"code":      code,
		"available": available,
	})
}

// Checkout handles POST /v1/loans. The authenticated staff member is
// recorded as supervisor.
func (h *LoanHandler) Checkout(c echo.Context) error {
	supervisorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	var body struct {
		Resource     string     `json:"resource"`
		Borrower     string     `json:"borrower"`
		ResourceCode string     `json:"resource_code"`
		BorrowerCode string     `json:"borrower_code"`
		AssistantID  *uint64    `json:"assistant_id"`
		OpenedAt     *time.Time `json:"opened_at"`
		Remarks      string     `json:"remarks"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	resource, ok := parseResourceKind(body.Resource)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "resource must be ROOM or EQUIPMENT"})
	}
	borrower, ok := parseBorrowerKind(body.Borrower)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "borrower must be STUDENT or PROFESSOR"})
	}
	body.ResourceCode = strings.TrimSpace(body.ResourceCode)
	body.BorrowerCode = strings.TrimSpace(body.BorrowerCode)
	if body.ResourceCode == "" || body.BorrowerCode == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "resource_code and borrower_code are required"})
	}
	if body.AssistantID != nil {
		ok, err := h.Staff.Exists(c.Request().Context(), *body.AssistantID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
		}
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "assistant staff not found"})
		}
	}

	co := availability.Checkout{
		Resource:     resource,
		Borrower:     borrower,
		ResourceCode: body.ResourceCode,
		BorrowerCode: body.BorrowerCode,
		SupervisorID: supervisorID,
		AssistantID:  body.AssistantID,
		Remarks:      strings.TrimSpace(body.Remarks),
	}
	if body.OpenedAt != nil {
		co.OpenedAt = body.OpenedAt.UTC()
	}

	loan, err := h.Tracker.RecordCheckout(c.Request().Context(), co)
	switch err {
	case nil:
	case repository.ErrBorrowerNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "borrower not found"})
	case repository.ErrRoomNotFound, repository.ErrEquipmentNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "resource not found"})
	case repository.ErrResourceNotAvailable:
		return c.JSON(http.StatusConflict, map[string]string{"error": "resource not available"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not record checkout"})
	}

	publishActivity("CHECKOUT", loan, supervisorID)
	return c.JSON(http.StatusCreated, loanToResp(loan))
}

// Return handles POST /v1/loans/:resource/:borrower/:id/return.
func (h *LoanHandler) Return(c echo.Context) error {
	staffID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	ref, ok := loanRefFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid loan reference"})
	}
	var body struct {
		ReturnedAt   *time.Time `json:"returned_at"`
		Remarks      string     `json:"remarks"`
		SignatureDoc *string    `json:"signature_doc"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	ret := availability.Return{
		ClosedByID:   staffID,
		Remarks:      strings.TrimSpace(body.Remarks),
		SignatureDoc: body.SignatureDoc,
	}
	if body.ReturnedAt != nil {
		ret.ReturnedAt = body.ReturnedAt.UTC()
	}

	err = h.Tracker.RecordReturn(c.Request().Context(), ref, ret)
	switch err {
	case nil:
	case repository.ErrLoanNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "loan not found"})
	case repository.ErrAlreadyReturned:
		return c.JSON(http.StatusConflict, map[string]string{"error": "loan already returned"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not record return"})
	}

	loan, err := h.Loans.Loan(c.Request().Context(), ref)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	publishActivity("RETURN", loan, staffID)
	return c.JSON(http.StatusOK, loanToResp(loan))
}

// Delete handles DELETE /v1/loans/:resource/:borrower/:id. Removing an
// open equipment loan rolls the item back to AVAILABLE.
func (h *LoanHandler) Delete(c echo.Context) error {
	staffID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	ref, ok := loanRefFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid loan reference"})
	}

	loan, err := h.Loans.Loan(c.Request().Context(), ref)
	if err != nil {
		if err == repository.ErrLoanNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "loan not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}

	err = h.Tracker.DeleteLoan(c.Request().Context(), ref)
	switch err {
	case nil:
	case repository.ErrLoanNotFound:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "loan not found"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not delete loan"})
	}

	publishActivity("DELETE", loan, staffID)
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/loans/:resource/:borrower/:id.
func (h *LoanHandler) Get(c echo.Context) error {
	ref, ok := loanRefFromPath(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid loan reference"})
	}
	loan, err := h.Loans.Loan(c.Request().Context(), ref)
	if err != nil {
		if err == repository.ErrLoanNotFound {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "loan not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	return c.JSON(http.StatusOK, loanToResp(loan))
}

// List handles GET /v1/loans with optional resource, borrower,
// resource_code, borrower_code and open filters.
func (h *LoanHandler) List(c echo.Context) error {
	var f repository.LoanFilter
	if s := c.QueryParam("resource"); s != "" {
		resource, ok := parseResourceKind(s)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid resource filter"})
		}
		f.Resource = resource
	}
	if s := c.QueryParam("borrower"); s != "" {
		borrower, ok := parseBorrowerKind(s)
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid borrower filter"})
		}
		f.Borrower = borrower
	}
	f.ResourceCode = strings.TrimSpace(c.QueryParam("resource_code"))
	f.BorrowerCode = strings.TrimSpace(c.QueryParam("borrower_code"))
	if s := c.QueryParam("open"); s != "" {
		open, err := strconv.ParseBool(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid open filter"})
		}
		f.Open = &open
	}

	loans, err := h.Loans.List(c.Request().Context(), f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "db error"})
	}
	out := make([]loanResp, 0, len(loans))
	for _, l := range loans {
		out = append(out, loanToResp(l))
	}
	return c.JSON(http.StatusOK, out)
}
