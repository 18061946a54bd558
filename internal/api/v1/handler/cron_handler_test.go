package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"viralreel/internal/middleware"
	"viralreel/internal/model"

	"github.com/rs/zerolog"
)

type stubProfileService struct {
	profile  *model.Profile
	resetErr error
	resets   int
}

func (s *stubProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return s.profile, nil
}
func (s *stubProfileService) ResetMonthlyUsage(ctx context.Context) (int64, error) {
	if s.resetErr != nil {
		return 0, s.resetErr
	}
	s.resets++
	return 42, nil
}

func newCronMux(profiles *stubProfileService, videos *stubVideoService, secret string) *http.ServeMux {
	h := NewCronHandler(profiles, videos)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, middleware.CronAuthMiddleware(secret, zerolog.Nop()))
	return mux
}

func TestResetMonthlyUsageEndpoint(t *testing.T) {
	profiles := &stubProfileService{}
	mux := newCronMux(profiles, &stubVideoService{}, "cron-secret")

	req := httptest.NewRequest(http.MethodGet, "/cron/reset-monthly-usage", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Message   string `json:"message"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.Message != "Monthly usage reset successfully" {
		t.Errorf("expected exact success message, got %q", resp.Message)
	}
	if resp.Timestamp == "" {
		t.Error("expected a timestamp in the response")
	}
	if profiles.resets != 1 {
		t.Errorf("expected exactly one reset, got %d", profiles.resets)
	}
}

func TestResetMonthlyUsageRejectsBadSecret(t *testing.T) {
	profiles := &stubProfileService{}
	mux := newCronMux(profiles, &stubVideoService{}, "cron-secret")

	req := httptest.NewRequest(http.MethodGet, "/cron/reset-monthly-usage", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if profiles.resets != 0 {
		t.Error("reset must not run on rejected requests")
	}
}

func TestResetMonthlyUsageFailure(t *testing.T) {
	profiles := &stubProfileService{resetErr: errors.New("db down")}
	mux := newCronMux(profiles, &stubVideoService{}, "cron-secret")

	req := httptest.NewRequest(http.MethodGet, "/cron/reset-monthly-usage", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestExpireStaleGenerationsEndpoint(t *testing.T) {
	mux := newCronMux(&stubProfileService{}, &stubVideoService{}, "cron-secret")

	req := httptest.NewRequest(http.MethodGet, "/cron/expire-stale-generations", nil)
	req.Header.Set("Authorization", "Bearer cron-secret")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
