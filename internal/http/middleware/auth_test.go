package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voltgrid/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Minute)

	var gotUserID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatalf("claims missing from context")
		}
		gotUserID = claims.UserID
		w.WriteHeader(http.StatusOK)
	})
	protected := Auth(tokens)(next)

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Basic abc")
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for non-bearer header, got %d", rec.Code)
	}

	token, err := tokens.GenerateToken(7, "admin")
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d", rec.Code)
	}
	if gotUserID != 7 {
		t.Fatalf("expected user id 7 in claims, got %d", gotUserID)
	}
}
