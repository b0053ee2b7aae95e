package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/config"
)

func limiterContext(t *testing.T, userID any) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/loans", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/loans")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

// JWT claims decode numeric subjects as float64; the bucket key must
// still land on the caller's own bucket, not the anonymous one.
func TestRateKeyUsesNumericSubject(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}
	key := rateKey(cfg, limiterContext(t, float64(42)))
	if !strings.Contains(key, ":user:42:") {
		t.Fatalf("key %q does not scope to user 42", key)
	}
	if strings.Contains(key, ":user:anon:") {
		t.Fatalf("authenticated caller fell into the anonymous bucket: %q", key)
	}
}

func TestCallerID(t *testing.T) {
	cases := []struct {
		name string
		val  any
		want string
	}{
		{"float64 claim", float64(7), "7"},
		{"string claim", "7", "7"},
		{"int64", int64(7), "7"},
		{"int", 7, "7"},
		{"uint64", uint64(7), "7"},
		{"empty string", "", "anon"},
		{"missing", nil, "anon"},
		{"unexpected type", []string{"7"}, "anon"},
	}
	for _, tc := range cases {
		c := limiterContext(t, nil)
		if tc.val != nil {
			c.Set("user_id", tc.val)
		}
		if got := callerID(c); got != tc.want {
			t.Fatalf("%s: callerID = %q, want %q", tc.name, got, tc.want)
		}
	}
}
