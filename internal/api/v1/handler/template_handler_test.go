package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"viralreel/internal/model"
)

type stubTemplateService struct {
	templates   []model.Template
	gotCategory string
}

func (s *stubTemplateService) List(ctx context.Context, category string) ([]model.Template, error) {
	s.gotCategory = category
	return s.templates, nil
}

func TestListTemplatesEndpoint(t *testing.T) {
	svc := &stubTemplateService{templates: []model.Template{
		{ID: "t1", Name: "Viral Hook", Category: "entertainment", Config: json.RawMessage(`{}`)},
		{ID: "t2", Name: "Product Demo", Category: "marketing", IsPremium: true, Config: json.RawMessage(`{}`)},
	}}
	h := NewTemplateHandler(svc)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/templates", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Templates []struct {
			ID        string `json:"id"`
			IsPremium bool   `json:"is_premium"`
		} `json:"templates"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if len(resp.Templates) != 2 {
		t.Fatalf("expected 2 templates, got %d", len(resp.Templates))
	}
	if !resp.Templates[1].IsPremium {
		t.Error("premium flag should be surfaced to clients")
	}
	if svc.gotCategory != "" {
		t.Errorf("no category filter expected, got %q", svc.gotCategory)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/templates?category=marketing", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotCategory != "marketing" {
		t.Errorf("category query should be passed through, got %q", svc.gotCategory)
	}
}
