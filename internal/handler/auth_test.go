package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/lunchdesk/api/internal/auth"
	"github.com/lunchdesk/api/internal/handler"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T, password string) chi.Router {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	r := chi.NewRouter()
	handler.NewAuthHandler(testSecret, string(hash)).RegisterRoutes(r)
	return r
}

func TestLogin(t *testing.T) {
	r := newAuthRouter(t, "hunter2")

	body := `{"password":"hunter2"}`
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body: %s)", rr.Code, http.StatusOK, rr.Body.String())
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	claims, err := auth.ValidateToken(testSecret, resp.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role: got %s, want ADMIN", claims.Role)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	r := newAuthRouter(t, "hunter2")

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{"password":"guess"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestLogin_MissingPassword(t *testing.T) {
	r := newAuthRouter(t, "hunter2")

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	r := chi.NewRouter()
	handler.NewAuthHandler(testSecret, "").RegisterRoutes(r)

	req := httptest.NewRequest("POST", "/auth/login", bytes.NewBufferString(`{"password":"anything"}`))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusServiceUnavailable)
	}
}
