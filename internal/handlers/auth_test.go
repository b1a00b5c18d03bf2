package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/authwave/apiserver/internal/auth"
	"github.com/authwave/apiserver/internal/handlers"
	"github.com/authwave/apiserver/internal/services"
	"github.com/authwave/apiserver/internal/storage"
	"github.com/authwave/apiserver/internal/store"
	"github.com/go-chi/chi/v5"
)

// fakeObjectStorage records presign calls without reaching a real store.
type fakeObjectStorage struct {
	presignedKeys []string
}

func (f *fakeObjectStorage) EnsureBucket(context.Context) error { return nil }

func (f *fakeObjectStorage) PresignPut(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	f.presignedKeys = append(f.presignedKeys, key)
	return "https://upload.test/" + key + "?signature=abc", nil
}

func (f *fakeObjectStorage) PublicURL(key string) string {
	return "https://files.test/test-bucket/" + key
}

func (f *fakeObjectStorage) Bucket() string { return "test-bucket" }

type testEnv struct {
	router  *chi.Mux
	store   *store.MemoryStore
	tokens  *auth.TokenIssuer
	storage *fakeObjectStorage
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	memory := store.NewMemoryStore()
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	fake := &fakeObjectStorage{}
	userService := services.NewUserService(memory)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, tokens, logger)
	})
	router.Route("/profile", func(r chi.Router) {
		handlers.ProfileRouter(r, userService, storage.NewStorage(fake), handlers.RequireAuth(tokens), logger)
	})

	return &testEnv{router: router, store: memory, tokens: tokens, storage: fake}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signup(t *testing.T, email, password, name string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": email, "password": password, "name": name,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup status = %d, body = %s", rec.Code, rec.Body)
	}
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func TestSignup(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": "u@x.com", "password": "secret123", "name": "U",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "registered") {
		t.Errorf("unexpected body: %s", rec.Body)
	}
}

func TestSignupMissingFields(t *testing.T) {
	env := newTestEnv(t)

	cases := []map[string]string{
		{"password": "secret123", "name": "U"},
		{"email": "u@x.com", "name": "U"},
		{"email": "u@x.com", "password": "secret123"},
	}
	for _, body := range cases {
		rec := env.do(t, http.MethodPost, "/auth/signup", "", body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("signup %v status = %d, want 400", body, rec.Code)
		}
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "u@x.com", "secret123", "U")

	rec := env.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"email": "u@x.com", "password": "other-pw", "name": "V",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate signup status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "already exists") {
		t.Errorf("unexpected body: %s", rec.Body)
	}
}

func TestSignupInvalidJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLoginReturnsTokenAndProjection(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "u@x.com", "secret123", "U")

	rec := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "u@x.com", "password": "secret123",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	var resp struct {
		Token string                 `json:"token"`
		User  map[string]interface{} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" {
		t.Error("login response has no token")
	}
	if resp.User["email"] != "u@x.com" {
		t.Errorf("user.email = %v", resp.User["email"])
	}
	for _, key := range []string{"password", "passwordHash", "password_hash"} {
		if _, ok := resp.User[key]; ok {
			t.Errorf("login response leaks %q", key)
		}
	}

	email, err := env.tokens.Verify(resp.Token)
	if err != nil || email != "u@x.com" {
		t.Errorf("returned token does not verify: email=%q err=%v", email, err)
	}
}

func TestLoginUniformFailureShape(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "u@x.com", "secret123", "U")

	unknown := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "ghost@x.com", "password": "secret123",
	})
	wrongPw := env.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "u@x.com", "password": "wrong-password",
	})

	if unknown.Code != http.StatusUnauthorized || wrongPw.Code != http.StatusUnauthorized {
		t.Fatalf("statuses = %d, %d, want 401, 401", unknown.Code, wrongPw.Code)
	}
	if unknown.Body.String() != wrongPw.Body.String() {
		t.Errorf("error bodies differ: %q vs %q", unknown.Body, wrongPw.Body)
	}
}

func TestRequireAuthRejects(t *testing.T) {
	env := newTestEnv(t)
	env.signup(t, "u@x.com", "secret123", "U")
	token := env.login(t, "u@x.com", "secret123")

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"empty bearer", "Bearer "},
		{"garbage", "Bearer garbage"},
		{"tampered", "Bearer " + token[:len(token)-2] + "xx"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/profile", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", tc.name, rec.Code)
		}
	}
}
