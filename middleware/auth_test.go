package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"

	"tarifplus/globals"
)

func claimsEcho(t *testing.T, gotUserID, gotRole *string) httprouter.Handle {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if id, ok := r.Context().Value(globals.UserIDKey).(string); ok {
			*gotUserID = id
		}
		if role, ok := r.Context().Value(globals.RoleKey).(string); ok {
			*gotRole = role
		}
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthenticateValidToken(t *testing.T) {
	token, err := GenerateToken("u1", "ayse@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	var userID, role string
	handler := Authenticate(claimsEcho(t, &userID, &role))

	r := httptest.NewRequest("GET", "/api/v1/auth/profile", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}
	if userID != "u1" || role != "user" {
		t.Errorf("context got userID=%q role=%q, want u1/user", userID, role)
	}
}

func TestAuthenticateMissingToken(t *testing.T) {
	var userID, role string
	handler := Authenticate(claimsEcho(t, &userID, &role))

	r := httptest.NewRequest("GET", "/api/v1/auth/profile", nil)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", w.Code)
	}
}

func TestAuthenticateGarbageToken(t *testing.T) {
	var userID, role string
	handler := Authenticate(claimsEcho(t, &userID, &role))

	r := httptest.NewRequest("GET", "/api/v1/auth/profile", nil)
	r.Header.Set("Authorization", "Bearer not.a.token")
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("got status %d, want 401", w.Code)
	}
}

func TestOptionalAuthWithoutToken(t *testing.T) {
	var userID, role string
	handler := OptionalAuth(claimsEcho(t, &userID, &role))

	r := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if w.Code != http.StatusOK {
		t.Errorf("anonymous request got status %d, want 200", w.Code)
	}
	if userID != "" {
		t.Errorf("anonymous request leaked userID %q", userID)
	}
}

func TestOptionalAuthWithToken(t *testing.T) {
	token, err := GenerateToken("u2", "mehmet@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	var userID, role string
	handler := OptionalAuth(claimsEcho(t, &userID, &role))

	r := httptest.NewRequest("GET", "/api/v1/recipes", nil)
	r.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	handler(w, r, nil)

	if userID != "u2" {
		t.Errorf("got userID %q, want u2", userID)
	}
}

func TestAdminOnly(t *testing.T) {
	adminToken, err := GenerateToken("a1", "admin@example.com", "admin")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	userToken, err := GenerateToken("u1", "ayse@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	var userID, role string
	handler := AdminOnly(claimsEcho(t, &userID, &role))

	r := httptest.NewRequest("GET", "/api/v1/admin/status", nil)
	r.Header.Set("Authorization", "Bearer "+userToken)
	w := httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("non-admin got status %d, want 403", w.Code)
	}

	r = httptest.NewRequest("GET", "/api/v1/admin/status", nil)
	r.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	handler(w, r, nil)
	if w.Code != http.StatusOK {
		t.Errorf("admin got status %d, want 200", w.Code)
	}
}
