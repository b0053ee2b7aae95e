package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/evzav/lab-resource-loans/internal/config"
)

func cacheContext(t *testing.T, role any, target string) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath(req.URL.Path)
	if role != nil {
		c.Set("role", role)
	}
	return c
}

// A role-gated response cached by an admin must never be addressable by
// a staff caller: the key has to differ when only the role differs.
func TestCacheKeyVariesByRole(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	admin := cacheKey(cfg, cacheContext(t, "ADMIN", "/v1/export"))
	staff := cacheKey(cfg, cacheContext(t, "STAFF", "/v1/export"))
	if admin == staff {
		t.Fatalf("cache key identical across roles: %s", admin)
	}
}

func TestCacheKeyStableForSameCaller(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	a := cacheKey(cfg, cacheContext(t, "STAFF", "/v1/rooms?q=lab"))
	b := cacheKey(cfg, cacheContext(t, "STAFF", "/v1/rooms?q=lab"))
	if a != b {
		t.Fatalf("cache key not stable: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "cache:") {
		t.Fatalf("cache key missing prefix: %s", a)
	}
}

func TestCacheKeyMissingRoleIsAnonymous(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	missing := cacheKey(cfg, cacheContext(t, nil, "/v1/rooms"))
	staff := cacheKey(cfg, cacheContext(t, "STAFF", "/v1/rooms"))
	if missing == staff {
		t.Fatalf("unauthenticated key must not collide with a role key")
	}
}

func TestStorable(t *testing.T) {
	cases := []struct {
		name   string
		status int
		size   int64
		limit  int64
		want   bool
	}{
		{"ok under limit", http.StatusOK, 100, 1024, true},
		{"ok no limit", http.StatusOK, 1 << 20, 0, true},
		{"ok at limit", http.StatusOK, 1024, 1024, true},
		{"truncated", http.StatusOK, 2048, 1024, false},
		{"error status", http.StatusInternalServerError, 10, 1024, false},
		{"forbidden", http.StatusForbidden, 10, 1024, false},
	}
	for _, tc := range cases {
		if got := storable(tc.status, tc.size, tc.limit); got != tc.want {
			t.Fatalf("%s: storable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// The capture buffer stops at the limit while the client still receives
// the full body; size records the true length so oversized responses can
// be detected and skipped.
func TestCaptureWriterTracksFullSize(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}
	if _, err := cw.Write([]byte("0123456789abcdef")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if cw.size != 16 {
		t.Fatalf("size = %d, want 16", cw.size)
	}
	if got := cw.buf.String(); got != "01234567" {
		t.Fatalf("captured %q, want first 8 bytes", got)
	}
	if rec.Body.String() != "0123456789abcdef" {
		t.Fatalf("client body truncated: %q", rec.Body.String())
	}
	if storable(cw.status, cw.size, cw.limit) {
		t.Fatalf("oversized capture must not be storable")
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, body, ok := decodePayload(payload)
	if !ok {
		t.Fatalf("decode failed")
	}
	if status != http.StatusOK {
		t.Fatalf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Fatalf("header lost: %v", gotHdr)
	}
	if string(body) != `{"ok":true}` {
		t.Fatalf("body = %q", body)
	}
}
