package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func invokeWithRole(t *testing.T, role any, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set("role", role)
	}
	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec
}

func TestRequireRoleAllows(t *testing.T) {
	rec := invokeWithRole(t, "ADMIN", "ADMIN", "STAFF")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for allowed role, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsOther(t *testing.T) {
	rec := invokeWithRole(t, "STAFF", "ADMIN")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disallowed role, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsMissing(t *testing.T) {
	rec := invokeWithRole(t, nil, "ADMIN")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when role missing, got %d", rec.Code)
	}
}

func TestRequireRoleForbidsWrongType(t *testing.T) {
	rec := invokeWithRole(t, 42, "ADMIN")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-string role, got %d", rec.Code)
	}
}
