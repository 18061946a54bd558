package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"viralreel/internal/api/v1/dto"
	"viralreel/internal/middleware"
	"viralreel/internal/model"
	"viralreel/internal/service"

	"github.com/go-playground/validator/v10"
)

// VideoHandler handles video-related endpoints
type VideoHandler struct {
	videoService     service.VideoService
	analyticsService service.AnalyticsService
	validate         *validator.Validate
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videoService service.VideoService, analyticsService service.AnalyticsService, validate *validator.Validate) *VideoHandler {
	return &VideoHandler{videoService: videoService, analyticsService: analyticsService, validate: validate}
}

// RegisterRoutes mounts video routes
func (h *VideoHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/videos", authMw(http.HandlerFunc(h.handleVideos)))
	mux.Handle("/videos/", authMw(http.HandlerFunc(h.handleVideo)))
}

func (h *VideoHandler) handleVideos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createVideo(w, r)
	case http.MethodGet:
		h.listVideos(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *VideoHandler) handleVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/videos/")
	if videoID, ok := strings.CutSuffix(rest, "/analytics"); ok {
		h.videoAnalytics(w, r, videoID)
		return
	}
	h.getVideo(w, r, rest)
}

func (h *VideoHandler) createVideo(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req dto.VideoCreateDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed: "+err.Error())
		return
	}

	params := service.CreateVideoParams{
		Prompt:    req.Prompt,
		VoiceType: req.VoiceType,
		Duration:  req.Duration,
	}
	if req.Title != nil {
		params.Title = *req.Title
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.TemplateID != nil {
		params.TemplateID = *req.TemplateID
	}

	video, err := h.videoService.Create(r.Context(), userID, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrQuotaExceeded):
			writeError(w, http.StatusForbidden, "Free plan limit reached. Upgrade to Pro for unlimited videos.")
		case errors.Is(err, service.ErrPremiumTemplate):
			writeError(w, http.StatusForbidden, "This template requires a Pro subscription.")
		case errors.Is(err, service.ErrProfileNotFound):
			writeError(w, http.StatusUnauthorized, "Unauthorized")
		case errors.Is(err, service.ErrStoreUnavailable):
			writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create video")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]dto.VideoResponseDTO{"video": videoResponse(video)})
}

func (h *VideoHandler) listVideos(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	videos, err := h.videoService.List(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrStoreUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch videos")
		return
	}
	resp := make([]dto.VideoResponseDTO, 0, len(videos))
	for i := range videos {
		resp = append(resp, videoResponse(&videos[i]))
	}
	writeJSON(w, http.StatusOK, map[string][]dto.VideoResponseDTO{"videos": resp})
}

func (h *VideoHandler) getVideo(w http.ResponseWriter, r *http.Request, videoID string) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	video, err := h.videoService.Get(r.Context(), videoID, userID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch video")
		return
	}
	writeJSON(w, http.StatusOK, map[string]dto.VideoResponseDTO{"video": videoResponse(video)})
}

func (h *VideoHandler) videoAnalytics(w http.ResponseWriter, r *http.Request, videoID string) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	records, err := h.analyticsService.ListForVideo(r.Context(), videoID, userID)
	if err != nil {
		if errors.Is(err, service.ErrVideoNotFound) {
			writeError(w, http.StatusNotFound, "Video not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to fetch analytics")
		return
	}
	resp := make([]dto.AnalyticsResponseDTO, 0, len(records))
	for _, rec := range records {
		resp = append(resp, dto.AnalyticsResponseDTO{
			ID:             rec.ID,
			VideoID:        rec.VideoID,
			Views:          rec.Views,
			Likes:          rec.Likes,
			Shares:         rec.Shares,
			Comments:       rec.Comments,
			EngagementRate: rec.EngagementRate,
			Platform:       rec.Platform,
			Date:           rec.Date,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]dto.AnalyticsResponseDTO{"analytics": resp})
}

func videoResponse(v *model.Video) dto.VideoResponseDTO {
	return dto.VideoResponseDTO{
		ID:               v.ID,
		UserID:           v.UserID,
		Title:            v.Title,
		Description:      v.Description,
		Prompt:           v.Prompt,
		TemplateID:       v.TemplateID,
		AvatarID:         v.AvatarID,
		VoiceType:        v.VoiceType,
		Duration:         v.Duration,
		Status:           v.Status,
		GenerationStage:  v.GenerationStage,
		VideoURL:         v.VideoURL,
		ThumbnailURL:     v.ThumbnailURL,
		ScriptContent:    v.ScriptContent,
		AudioURL:         v.AudioURL,
		ErrorDetails:     v.ErrorDetails,
		Metadata:         v.Metadata,
		CreatedAt:        v.CreatedAt,
		UpdatedAt:        v.UpdatedAt,
		TemplateName:     v.TemplateName,
		TemplateCategory: v.TemplateCategory,
		AvatarName:       v.AvatarName,
		AvatarStyle:      v.AvatarStyle,
	}
}
