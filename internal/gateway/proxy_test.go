package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MiniShop/internal/auth"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestInjectHeadersForwardsOperator(t *testing.T) {
	tm := auth.NewTokenMaker(testSecret, time.Minute)
	tok, _, err := tm.Issue(auth.Operator{ID: "op_42", Role: auth.RoleAdmin})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	var gotID, gotRole string
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-User-Id")
		gotRole = r.Header.Get("X-User-Role")
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireTokenForWrites(tm)(InjectHeaders(upstream))

	req := httptest.NewRequest(http.MethodPost, "/products", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("X-User-Id", "spoofed")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status=%d", rec.Code)
	}
	if gotID != "op_42" || gotRole != auth.RoleAdmin {
		t.Fatalf("forwarded id=%q role=%q", gotID, gotRole)
	}
}

func TestInjectHeadersStripsSpoofedIdentityOnReads(t *testing.T) {
	var gotID string
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-User-Id")
	})
	h := RequireTokenForWrites(auth.NewTokenMaker(testSecret, time.Minute))(InjectHeaders(upstream))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.Header.Set("X-User-Id", "spoofed")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	if gotID != "" {
		t.Fatalf("spoofed header leaked: %q", gotID)
	}
}
