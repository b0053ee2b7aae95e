package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/model"
)

func TestParseResourceKind(t *testing.T) {
	cases := []struct {
		in   string
		want model.ResourceKind
		ok   bool
	}{
		{"room", model.ResourceRoom, true},
		{"ROOM", model.ResourceRoom, true},
		{"rooms", model.ResourceRoom, true},
		{" equipment ", model.ResourceEquipment, true},
		{"EQUIPMENT", model.ResourceEquipment, true},
		{"vehicle", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := parseResourceKind(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseResourceKind(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseBorrowerKind(t *testing.T) {
	cases := []struct {
		in   string
		want model.BorrowerKind
		ok   bool
	}{
		{"student", model.BorrowerStudent, true},
		{"STUDENTS", model.BorrowerStudent, true},
		{"professor", model.BorrowerProfessor, true},
		{"professors", model.BorrowerProfessor, true},
		{"staff", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := parseBorrowerKind(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Fatalf("parseBorrowerKind(%q) = %q, %v; want %q, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func refContext(t *testing.T, resource, borrower, id string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("resource", "borrower", "id")
	c.SetParamValues(resource, borrower, id)
	return c
}

func TestLoanRefFromPath(t *testing.T) {
	c := refContext(t, "equipment", "student", "42")
	ref, ok := loanRefFromPath(c)
	if !ok {
		t.Fatal("expected valid loan ref")
	}
	want := model.LoanRef{Resource: model.ResourceEquipment, Borrower: model.BorrowerStudent, ID: 42}
	if ref != want {
		t.Fatalf("got %+v, want %+v", ref, want)
	}
}

func TestLoanRefFromPathRejectsBadInput(t *testing.T) {
	cases := []struct{ resource, borrower, id string }{
		{"vehicle", "student", "1"},
		{"room", "owner", "1"},
		{"room", "student", "abc"},
		{"room", "student", "0"},
		{"room", "student", "-5"},
	}
	for _, tc := range cases {
		c := refContext(t, tc.resource, tc.borrower, tc.id)
		if _, ok := loanRefFromPath(c); ok {
			t.Fatalf("expected %v to be rejected", tc)
		}
	}
}

func TestGetUserIDTypes(t *testing.T) {
	e := echo.New()
	for _, v := range []any{uint64(7), int(7), int64(7), float64(7), "7"} {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
		c.Set("user_id", v)
		id, err := getUserID(c)
		if err != nil || id != 7 {
			t.Fatalf("getUserID(%T) = %d, %v; want 7, nil", v, id, err)
		}
	}

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, err := getUserID(c); err == nil {
		t.Fatal("expected error when user_id missing")
	}
}
