package handler

import (
	"net/http"

	"viralreel/internal/api/v1/dto"
	"viralreel/internal/service"
)

// TemplateHandler serves the public template catalog
type TemplateHandler struct {
	templateService service.TemplateService
}

// NewTemplateHandler creates a new TemplateHandler
func NewTemplateHandler(templateService service.TemplateService) *TemplateHandler {
	return &TemplateHandler{templateService: templateService}
}

// RegisterRoutes mounts template routes
func (h *TemplateHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/templates", http.HandlerFunc(h.listTemplates))
}

func (h *TemplateHandler) listTemplates(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	category := r.URL.Query().Get("category")
	templates, err := h.templateService.List(r.Context(), category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch templates")
		return
	}
	resp := make([]dto.TemplateResponseDTO, 0, len(templates))
	for _, t := range templates {
		resp = append(resp, dto.TemplateResponseDTO{
			ID:           t.ID,
			Name:         t.Name,
			Description:  t.Description,
			Category:     t.Category,
			ThumbnailURL: t.ThumbnailURL,
			Config:       t.Config,
			IsPremium:    t.IsPremium,
			CreatedAt:    t.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string][]dto.TemplateResponseDTO{"templates": resp})
}
