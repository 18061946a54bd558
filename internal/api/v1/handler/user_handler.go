package handler

import (
	"errors"
	"net/http"

	"viralreel/internal/api/v1/dto"
	"viralreel/internal/middleware"
	"viralreel/internal/service"
)

// UserHandler handles user profile endpoints
type UserHandler struct {
	profileService service.ProfileService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(profileService service.ProfileService) *UserHandler {
	return &UserHandler{profileService: profileService}
}

// RegisterRoutes mounts user routes
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/users/me", authMw(http.HandlerFunc(h.getMe)))
}

func (h *UserHandler) getMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	profile, err := h.profileService.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch profile")
		return
	}
	writeJSON(w, http.StatusOK, dto.ProfileResponseDTO{
		ID:                     profile.ID,
		Username:               profile.Username,
		FullName:               profile.FullName,
		AvatarURL:              profile.AvatarURL,
		Role:                   profile.Role,
		SubscriptionPlan:       profile.SubscriptionPlan,
		VideosCreatedThisMonth: profile.VideosCreatedThisMonth,
		CreatedAt:              profile.CreatedAt,
		UpdatedAt:              profile.UpdatedAt,
	})
}
