package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"viralreel/internal/api/v1/dto"
	"viralreel/internal/middleware"
	"viralreel/internal/service"
)

// AIHandler exposes the four generation stages directly. The worker runs
// the same services; these endpoints let the dashboard preview a single
// stage without creating a video row.
type AIHandler struct {
	scripts    service.ScriptService
	avatars    service.AvatarService
	voiceovers service.VoiceoverService
	renders    service.RenderService
}

// NewAIHandler creates a new AIHandler
func NewAIHandler(
	scripts service.ScriptService,
	avatars service.AvatarService,
	voiceovers service.VoiceoverService,
	renders service.RenderService,
) *AIHandler {
	return &AIHandler{scripts: scripts, avatars: avatars, voiceovers: voiceovers, renders: renders}
}

// RegisterRoutes mounts the AI stage routes
func (h *AIHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/ai/generate-script", http.HandlerFunc(h.generateScript))
	mux.Handle("/ai/create-avatar", http.HandlerFunc(h.createAvatar))
	mux.Handle("/ai/generate-voiceover", http.HandlerFunc(h.generateVoiceover))
	mux.Handle("/ai/render-video", http.HandlerFunc(h.renderVideo))
}

func (h *AIHandler) generateScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.GenerateScriptDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	script, err := h.scripts.GenerateScript(r.Context(), req.Prompt, req.Duration, req.Template)
	if err != nil {
		if errors.Is(err, service.ErrPromptRequired) {
			writeError(w, http.StatusBadRequest, "Prompt is required")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate script")
		return
	}
	writeJSON(w, http.StatusOK, dto.ScriptResponseDTO{Script: script})
}

func (h *AIHandler) createAvatar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.CreateAvatarDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	// Tie the avatar to the caller when the request carries a valid token;
	// anonymous previews still work.
	var userID *string
	if id, ok := middleware.UserID(r.Context()); ok {
		userID = &id
	}
	avatar, err := h.avatars.CreateAvatar(r.Context(), userID, req.Style, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStyleRequired):
			writeError(w, http.StatusBadRequest, "Avatar style is required")
		case errors.Is(err, service.ErrInvalidStyle):
			writeError(w, http.StatusBadRequest, "Avatar style is required")
		default:
			writeError(w, http.StatusInternalServerError, "Failed to create avatar")
		}
		return
	}
	writeJSON(w, http.StatusOK, dto.AvatarResponseDTO{Avatar: dto.AvatarDTO{
		ID:           avatar.ID,
		Name:         avatar.Name,
		Style:        avatar.Style,
		ThumbnailURL: avatar.ThumbnailURL,
		Status:       "completed",
	}})
}

func (h *AIHandler) generateVoiceover(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.GenerateVoiceoverDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	voiceover, err := h.voiceovers.GenerateVoiceover(r.Context(), req.Text, req.Voice, req.Language)
	if err != nil {
		if errors.Is(err, service.ErrTextAndVoiceRequired) {
			writeError(w, http.StatusBadRequest, "Text and voice are required")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to generate voiceover")
		return
	}
	writeJSON(w, http.StatusOK, dto.VoiceoverResponseDTO{Voiceover: dto.VoiceoverDTO{
		AudioURL: voiceover.AudioURL,
		Duration: voiceover.Duration,
		Status:   voiceover.Status,
	}})
}

func (h *AIHandler) renderVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req dto.RenderVideoDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	rendered, err := h.renders.RenderVideo(r.Context(), "", req.Script, req.AvatarID, req.VoiceAudioURL, req.TemplateConfig)
	if err != nil {
		if errors.Is(err, service.ErrScriptAndAvatarRequired) {
			writeError(w, http.StatusBadRequest, "Script and avatar are required")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to render video")
		return
	}
	writeJSON(w, http.StatusOK, dto.RenderResponseDTO{Video: dto.RenderedVideoDTO{
		VideoURL:     rendered.VideoURL,
		ThumbnailURL: rendered.ThumbnailURL,
		Duration:     rendered.Duration,
		Resolution:   rendered.Resolution,
		Status:       rendered.Status,
	}})
}
