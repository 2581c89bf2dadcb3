package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"videomcp/internal/config"
	"videomcp/internal/media"
	"videomcp/internal/tools"
	"videomcp/internal/tools/ai"
)

type noopRunner struct{}

func (noopRunner) Run(ctx context.Context, cmd media.Command) (media.Output, error) {
	return media.Output{}, nil
}

var baseNames = []string{
	"get_video_info",
	"extract_video_frames",
	"extract_video_audio",
	"split_video",
	"get_youtube_info",
	"download_youtube_video",
}

func testConfig(t *testing.T, apiKey string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Groq.APIKey = apiKey
	cfg.Output.Dir = t.TempDir()
	return cfg
}

func TestBuildWithoutCredential(t *testing.T) {
	registry, err := BuildWithRunner(testConfig(t, ""), noopRunner{})
	require.NoError(t, err)

	assert.Equal(t, len(baseNames), registry.Count())
	for _, name := range baseNames {
		assert.True(t, registry.Has(name), "missing base tool %s", name)
	}
	for _, name := range ai.Names() {
		assert.False(t, registry.Has(name), "AI tool %s registered without credential", name)
	}
}

func TestBuildWithCredential(t *testing.T) {
	registry, err := BuildWithRunner(testConfig(t, "gsk_test"), noopRunner{})
	require.NoError(t, err)

	assert.Equal(t, len(baseNames)+len(ai.Names()), registry.Count())
	for _, name := range ai.Names() {
		assert.True(t, registry.Has(name), "AI tool %s not registered", name)
	}
}

func TestBuildCategories(t *testing.T) {
	registry, err := BuildWithRunner(testConfig(t, "gsk_test"), noopRunner{})
	require.NoError(t, err)

	assert.Len(t, registry.GetByCategory(tools.CategoryVideo), 4)
	assert.Len(t, registry.GetByCategory(tools.CategoryYouTube), 2)
	assert.Len(t, registry.GetByCategory(tools.CategoryAI), 4)
}

func TestExecuteThroughRegistry(t *testing.T) {
	cfg := testConfig(t, "")
	registry, err := BuildWithRunner(cfg, noopRunner{})
	require.NoError(t, err)

	videoPath := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("mp4"), 0o644))

	result := registry.Execute(context.Background(), "get_video_info", map[string]any{
		"video_path": videoPath,
	})
	require.True(t, result.IsSuccess(), "failure: %v", result.Failure)
	assert.Contains(t, result.Result, "Video Information")
	assert.Contains(t, result.Result, "unknown")
}

func TestExecuteMissingVideoFails(t *testing.T) {
	registry, err := BuildWithRunner(testConfig(t, ""), noopRunner{})
	require.NoError(t, err)

	result := registry.Execute(context.Background(), "get_video_info", map[string]any{
		"video_path": "/no/such/clip.mp4",
	})
	require.False(t, result.IsSuccess())
	assert.Equal(t, tools.KindNotFound, result.Failure.Kind)
}
