package generation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"viralreel/internal/config"
	"viralreel/internal/model"
	"viralreel/internal/service"

	"github.com/rs/zerolog"
)

type recordingVideoRepo struct {
	stages    []string
	script    string
	avatarID  string
	audioURL  string
	videoURL  string
	completed bool
	failed    bool
}

func (r *recordingVideoRepo) CreateWithQuota(ctx context.Context, v *model.Video, freeLimit int) error {
	return nil
}
func (r *recordingVideoRepo) ListByUser(ctx context.Context, userID string) ([]model.Video, error) {
	return nil, nil
}
func (r *recordingVideoRepo) GetByID(ctx context.Context, videoID string) (*model.Video, error) {
	return nil, nil
}
func (r *recordingVideoRepo) MarkGenerating(ctx context.Context, videoID string) error { return nil }
func (r *recordingVideoRepo) SetStage(ctx context.Context, videoID, stage string) error {
	r.stages = append(r.stages, stage)
	return nil
}
func (r *recordingVideoRepo) SaveScript(ctx context.Context, videoID, script string) error {
	r.script = script
	return nil
}
func (r *recordingVideoRepo) SaveAvatar(ctx context.Context, videoID, avatarID string) error {
	r.avatarID = avatarID
	return nil
}
func (r *recordingVideoRepo) SaveAudio(ctx context.Context, videoID, audioURL string) error {
	r.audioURL = audioURL
	return nil
}
func (r *recordingVideoRepo) SaveRender(ctx context.Context, videoID, videoURL, thumbnailURL string, metadata json.RawMessage) error {
	r.videoURL = videoURL
	return nil
}
func (r *recordingVideoRepo) MarkCompleted(ctx context.Context, videoID string) error {
	r.completed = true
	return nil
}
func (r *recordingVideoRepo) MarkFailed(ctx context.Context, videoID string, errorDetails json.RawMessage) error {
	r.failed = true
	return nil
}
func (r *recordingVideoRepo) ExpireStaleGenerating(ctx context.Context, ttl time.Duration) ([]string, error) {
	return nil, nil
}

type stubTemplateRepo struct{}

func (stubTemplateRepo) List(ctx context.Context, category string) ([]model.Template, error) {
	return nil, nil
}
func (stubTemplateRepo) GetByID(ctx context.Context, templateID string) (*model.Template, error) {
	return nil, nil
}

type countingScripts struct {
	calls int
	err   error
}

func (c *countingScripts) GenerateScript(ctx context.Context, prompt string, duration int, template string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "generated script", nil
}

type countingAvatars struct{ calls int }

func (c *countingAvatars) CreateAvatar(ctx context.Context, userID *string, style, description string) (*model.Avatar, error) {
	c.calls++
	return &model.Avatar{ID: "avatar-1", Style: style}, nil
}

type countingVoiceovers struct{ calls int }

func (c *countingVoiceovers) GenerateVoiceover(ctx context.Context, text, voice, language string) (*service.Voiceover, error) {
	c.calls++
	return &service.Voiceover{AudioURL: "audio.mp3", Duration: 10, Status: "completed"}, nil
}

type countingRenders struct{ calls int }

func (c *countingRenders) RenderVideo(ctx context.Context, videoID, script, avatarID, audioURL string, templateConfig json.RawMessage) (*service.RenderedVideo, error) {
	c.calls++
	return &service.RenderedVideo{VideoURL: "final.mp4", ThumbnailURL: "thumb.jpg", Duration: 10, Resolution: "1080x1920", Status: "completed"}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		GenerationQueueName:           "q",
		GenerationDeadLetterQueueName: "q_dlq",
		GenerationMaxRetries:          2,
		GenerationBackoffInitialSec:   0,
		GenerationBackoffMaxSec:       0,
	}
}

func testStages() (Stages, *countingScripts, *countingAvatars, *countingVoiceovers, *countingRenders) {
	scripts := &countingScripts{}
	avatars := &countingAvatars{}
	voiceovers := &countingVoiceovers{}
	renders := &countingRenders{}
	return Stages{Scripts: scripts, Avatars: avatars, Voiceovers: voiceovers, Renders: renders}, scripts, avatars, voiceovers, renders
}

func TestPipelineRunsStagesInOrder(t *testing.T) {
	repo := &recordingVideoRepo{}
	stages, scripts, avatars, voiceovers, renders := testStages()
	video := &model.Video{
		ID: "video-1", UserID: "user-1", Prompt: "5 tips",
		VoiceType: "male-professional", Duration: 30,
		Status: model.VideoStatusGenerating, GenerationStage: model.StageScripting,
	}

	stage, err := runPipeline(context.Background(), zerolog.Nop(), testConfig(), repo, stubTemplateRepo{}, stages, video)
	if err != nil {
		t.Fatalf("runPipeline returned error: %v", err)
	}
	if stage != model.StageDone {
		t.Errorf("expected done, got %q", stage)
	}

	want := []string{model.StageScripting, model.StageAvatar, model.StageVoiceover, model.StageRendering}
	if len(repo.stages) != len(want) {
		t.Fatalf("expected stages %v, got %v", want, repo.stages)
	}
	for i := range want {
		if repo.stages[i] != want[i] {
			t.Fatalf("expected stages %v, got %v", want, repo.stages)
		}
	}
	if scripts.calls != 1 || avatars.calls != 1 || voiceovers.calls != 1 || renders.calls != 1 {
		t.Errorf("each stage should run exactly once: %d/%d/%d/%d",
			scripts.calls, avatars.calls, voiceovers.calls, renders.calls)
	}
	if repo.script != "generated script" || repo.avatarID != "avatar-1" || repo.audioURL != "audio.mp3" || repo.videoURL != "final.mp4" {
		t.Errorf("stage outputs not persisted: %+v", repo)
	}
}

func TestPipelineResumesSkippingPersistedStages(t *testing.T) {
	repo := &recordingVideoRepo{}
	stages, scripts, avatars, voiceovers, renders := testStages()
	script := "already written"
	avatarID := "existing-avatar"
	video := &model.Video{
		ID: "video-1", UserID: "user-1", Prompt: "5 tips",
		VoiceType: "female-friendly", Duration: 30,
		Status:          model.VideoStatusGenerating,
		GenerationStage: model.StageVoiceover,
		ScriptContent:   &script,
		AvatarID:        &avatarID,
	}

	if _, err := runPipeline(context.Background(), zerolog.Nop(), testConfig(), repo, stubTemplateRepo{}, stages, video); err != nil {
		t.Fatalf("runPipeline returned error: %v", err)
	}
	if scripts.calls != 0 || avatars.calls != 0 {
		t.Errorf("persisted stages must be skipped on resume: scripts=%d avatars=%d", scripts.calls, avatars.calls)
	}
	if voiceovers.calls != 1 || renders.calls != 1 {
		t.Errorf("remaining stages must run: voiceovers=%d renders=%d", voiceovers.calls, renders.calls)
	}
	if repo.avatarID != "" {
		t.Error("avatar must not be overwritten on resume")
	}
}

func TestPipelineReportsFailingStage(t *testing.T) {
	repo := &recordingVideoRepo{}
	stages, scripts, _, voiceovers, _ := testStages()
	scripts.err = errors.New("provider down")
	video := &model.Video{
		ID: "video-1", UserID: "user-1", Prompt: "5 tips",
		VoiceType: "male-professional", Duration: 15,
		Status: model.VideoStatusGenerating, GenerationStage: model.StageScripting,
	}

	stage, err := runPipeline(context.Background(), zerolog.Nop(), testConfig(), repo, stubTemplateRepo{}, stages, video)
	if err == nil {
		t.Fatal("expected error from failing stage")
	}
	if stage != model.StageScripting {
		t.Errorf("expected failing stage scripting, got %q", stage)
	}
	if scripts.calls != 2 {
		t.Errorf("expected retries up to the configured max, got %d calls", scripts.calls)
	}
	if voiceovers.calls != 0 {
		t.Error("later stages must not run after a failure")
	}
}

func TestVoiceDerivedDefaults(t *testing.T) {
	if got := avatarStyleFor("female-friendly"); got != "casual" {
		t.Errorf("expected casual for female voice, got %q", got)
	}
	if got := avatarStyleFor("male-spanish"); got != "professional" {
		t.Errorf("expected professional for male voice, got %q", got)
	}
	if got := languageFor("female-spanish"); got != "es" {
		t.Errorf("expected es, got %q", got)
	}
	if got := languageFor("male-professional"); got != "en" {
		t.Errorf("expected en, got %q", got)
	}
}
