package handler

import (
	"net/http"
	"time"

	"viralreel/internal/service"
)

// CronHandler serves the scheduled maintenance endpoints. Both are
// idempotent; the scheduler may safely retry.
type CronHandler struct {
	profileService service.ProfileService
	videoService   service.VideoService
}

// NewCronHandler creates a new CronHandler
func NewCronHandler(profileService service.ProfileService, videoService service.VideoService) *CronHandler {
	return &CronHandler{profileService: profileService, videoService: videoService}
}

// RegisterRoutes mounts cron routes behind the cron bearer-secret middleware
func (h *CronHandler) RegisterRoutes(mux *http.ServeMux, cronMw func(http.Handler) http.Handler) {
	mux.Handle("/cron/reset-monthly-usage", cronMw(http.HandlerFunc(h.resetMonthlyUsage)))
	mux.Handle("/cron/expire-stale-generations", cronMw(http.HandlerFunc(h.expireStaleGenerations)))
}

func (h *CronHandler) resetMonthlyUsage(w http.ResponseWriter, r *http.Request) {
	if _, err := h.profileService.ResetMonthlyUsage(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset monthly usage")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Monthly usage reset successfully",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *CronHandler) expireStaleGenerations(w http.ResponseWriter, r *http.Request) {
	ids, err := h.videoService.ExpireStale(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to expire stale generations")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"expired":   ids,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
