package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"viralreel/internal/model"
	"viralreel/internal/service"
)

type stubScriptService struct {
	script string
	err    error
}

func (s *stubScriptService) GenerateScript(ctx context.Context, prompt string, duration int, template string) (string, error) {
	if prompt == "" {
		return "", service.ErrPromptRequired
	}
	return s.script, s.err
}

type stubAvatarService struct {
	avatar *model.Avatar
	err    error
}

func (s *stubAvatarService) CreateAvatar(ctx context.Context, userID *string, style, description string) (*model.Avatar, error) {
	if style == "" {
		return nil, service.ErrStyleRequired
	}
	return s.avatar, s.err
}

type stubVoiceoverService struct {
	voiceover *service.Voiceover
	err       error
}

func (s *stubVoiceoverService) GenerateVoiceover(ctx context.Context, text, voice, language string) (*service.Voiceover, error) {
	if text == "" || voice == "" {
		return nil, service.ErrTextAndVoiceRequired
	}
	return s.voiceover, s.err
}

type stubRenderService struct {
	rendered *service.RenderedVideo
	err      error
}

func (s *stubRenderService) RenderVideo(ctx context.Context, videoID, script, avatarID, audioURL string, templateConfig json.RawMessage) (*service.RenderedVideo, error) {
	if script == "" || avatarID == "" {
		return nil, service.ErrScriptAndAvatarRequired
	}
	return s.rendered, s.err
}

func newAIMux(t *testing.T) *http.ServeMux {
	t.Helper()
	thumb := "https://example.com/placeholder-avatar.jpg"
	h := NewAIHandler(
		&stubScriptService{script: "a generated script"},
		&stubAvatarService{avatar: &model.Avatar{ID: "avatar-1", Name: "Fitness Coach", Style: "fitness", ThumbnailURL: &thumb}},
		&stubVoiceoverService{voiceover: &service.Voiceover{AudioURL: "https://example.com/placeholder-audio.mp3", Duration: 12, Status: "completed"}},
		&stubRenderService{rendered: &service.RenderedVideo{VideoURL: "v.mp4", ThumbnailURL: "t.jpg", Duration: 12, Resolution: "1080x1920", Status: "completed"}},
	)
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, nil)
	return mux
}

func postJSON(t *testing.T, mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v (%s)", err, rec.Body.String())
	}
	return body["error"]
}

func TestGenerateScriptEndpoint(t *testing.T) {
	mux := newAIMux(t)

	rec := postJSON(t, mux, "/ai/generate-script", `{"prompt":"5 tips","duration":30,"template":"hook"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Script string `json:"script"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Script != "a generated script" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}

	rec = postJSON(t, mux, "/ai/generate-script", `{"duration":30}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Prompt is required" {
		t.Errorf("expected exact error string, got %q", msg)
	}
}

func TestCreateAvatarEndpoint(t *testing.T) {
	mux := newAIMux(t)

	rec := postJSON(t, mux, "/ai/create-avatar", `{"style":"fitness"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Avatar struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"avatar"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response: %v", err)
	}
	if resp.Avatar.ID != "avatar-1" || resp.Avatar.Status != "completed" {
		t.Errorf("unexpected avatar response: %s", rec.Body.String())
	}

	rec = postJSON(t, mux, "/ai/create-avatar", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Avatar style is required" {
		t.Errorf("expected exact error string, got %q", msg)
	}
}

func TestGenerateVoiceoverEndpoint(t *testing.T) {
	mux := newAIMux(t)

	rec := postJSON(t, mux, "/ai/generate-voiceover", `{"text":"hello world","voice":"male-professional"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = postJSON(t, mux, "/ai/generate-voiceover", `{"text":"hello world"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Text and voice are required" {
		t.Errorf("expected exact error string, got %q", msg)
	}
}

func TestRenderVideoEndpoint(t *testing.T) {
	mux := newAIMux(t)

	rec := postJSON(t, mux, "/ai/render-video", `{"script":"s","avatar_id":"avatar-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Video struct {
			Resolution string `json:"resolution"`
		} `json:"video"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp.Video.Resolution != "1080x1920" {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}

	rec = postJSON(t, mux, "/ai/render-video", `{"script":"s"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if msg := errorMessage(t, rec); msg != "Script and avatar are required" {
		t.Errorf("expected exact error string, got %q", msg)
	}
}

func TestAIEndpointsRejectGet(t *testing.T) {
	mux := newAIMux(t)
	for _, path := range []string{"/ai/generate-script", "/ai/create-avatar", "/ai/generate-voiceover", "/ai/render-video"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected 404 for GET, got %d", path, rec.Code)
		}
	}
}
