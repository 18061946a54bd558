package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const testSecret = "super-secret-test-key"

func signedToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   subject,
		"email": "user@example.com",
		"role":  "authenticated",
		"exp":   time.Now().Add(expiresIn).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func authProbe(t *testing.T) (http.Handler, *string) {
	t.Helper()
	var gotUser string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := UserID(r.Context())
		gotUser = id
		w.WriteHeader(http.StatusOK)
	})
	return AuthMiddleware(testSecret, zerolog.Nop())(next), &gotUser
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	h, gotUser := authProbe(t)
	req := httptest.NewRequest(http.MethodGet, "/videos", nil)
	req.Header.Set("Authorization", "Bearer "+signedToken(t, testSecret, "user-123", time.Hour))
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if *gotUser != "user-123" {
		t.Errorf("expected user id in context, got %q", *gotUser)
	}
}

func TestAuthMiddlewareRejections(t *testing.T) {
	h, _ := authProbe(t)
	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signedToken(t, "other-secret", "user-123", time.Hour)},
		{"expired", "Bearer " + signedToken(t, testSecret, "user-123", -time.Hour)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/videos", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected JSON error body, got content type %q", ct)
			}
		})
	}
}

func TestCronAuthMiddleware(t *testing.T) {
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	h := CronAuthMiddleware("cron-secret", zerolog.Nop())(next)

	req := httptest.NewRequest(http.MethodGet, "/cron/reset-monthly-usage", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("missing secret must be rejected without running the handler")
	}

	req = httptest.NewRequest(http.MethodGet, "/cron/reset-monthly-usage", nil)
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized || called {
		t.Fatalf("wrong secret must be rejected without running the handler")
	}

	req = httptest.NewRequest(http.MethodGet, "/cron/reset-monthly-usage", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("correct secret must pass, got %d", rec.Code)
	}
}

func TestCronAuthMiddlewareFailsClosedWithoutSecret(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run when no cron secret is configured")
	})
	h := CronAuthMiddleware("", zerolog.Nop())(next)

	req := httptest.NewRequest(http.MethodGet, "/cron/reset-monthly-usage", nil)
	req.Header.Set("Authorization", "Bearer ")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
