package ai

import (
	"context"
	"strings"
	"testing"

	"videomcp/internal/analyze"
	"videomcp/internal/tools"
)

type fakeMedia struct {
	frames []string
}

func (f *fakeMedia) ExtractFrames(ctx context.Context, videoPath string, n int, outputDir string) ([]string, error) {
	return f.frames, nil
}

func (f *fakeMedia) ExtractAudio(ctx context.Context, videoPath, outputPath string) (string, error) {
	return outputPath, nil
}

type fakeInference struct {
	visionText string
	transcript string

	gotPrompt string
}

func (f *fakeInference) AnalyzeImages(ctx context.Context, prompt string, imagePaths []string) (string, error) {
	f.gotPrompt = prompt
	return f.visionText, nil
}

func (f *fakeInference) Transcribe(ctx context.Context, audioPath string) (string, error) {
	return f.transcript, nil
}

func newAnalyzer(t *testing.T, inference *fakeInference) *analyze.Analyzer {
	t.Helper()
	media := &fakeMedia{frames: []string{"f1.jpg", "f2.jpg"}}
	return analyze.New(media, inference, t.TempDir())
}

func TestAnalyzeToolFraming(t *testing.T) {
	inference := &fakeInference{visionText: "a cooking show"}
	tool := AnalyzeTool(newAnalyzer(t, inference))

	out, err := tool.Execute(context.Background(), map[string]any{
		"video_path": "clip.mp4",
		"prompt":     "what is this",
		"num_frames": 2,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if !strings.HasPrefix(out, "=== AI Video Analysis ===\n\na cooking show") {
		t.Errorf("unexpected framing:\n%s", out)
	}
	if !strings.Contains(out, "Analyzed 2 frames.") {
		t.Errorf("missing frame count:\n%s", out)
	}
	if inference.gotPrompt != "what is this" {
		t.Errorf("prompt = %q", inference.gotPrompt)
	}
}

func TestSummarizeToolFraming(t *testing.T) {
	inference := &fakeInference{visionText: "chronology of events"}
	tool := SummarizeTool(newAnalyzer(t, inference))

	out, err := tool.Execute(context.Background(), map[string]any{"video_path": "clip.mp4"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "=== Video Summary ===\n\nchronology of events" {
		t.Errorf("unexpected framing:\n%s", out)
	}
}

func TestTranscribeToolFraming(t *testing.T) {
	tool := TranscribeTool(newAnalyzer(t, &fakeInference{transcript: "spoken words"}))

	out, err := tool.Execute(context.Background(), map[string]any{"video_path": "clip.mp4"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out != "=== Audio Transcription ===\n\nspoken words" {
		t.Errorf("unexpected framing:\n%s", out)
	}
}

func TestTranscribeToolSilentAudio(t *testing.T) {
	tool := TranscribeTool(newAnalyzer(t, &fakeInference{transcript: "  "}))

	out, err := tool.Execute(context.Background(), map[string]any{"video_path": "clip.mp4"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "(no speech detected)") {
		t.Errorf("silent audio not reported:\n%s", out)
	}
}

func TestCompleteToolSections(t *testing.T) {
	inference := &fakeInference{visionText: "scenes", transcript: "speech"}
	tool := CompleteTool(newAnalyzer(t, inference))

	out, err := tool.Execute(context.Background(), map[string]any{"video_path": "clip.mp4"})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(out, "=== VISUAL ANALYSIS ===") || !strings.Contains(out, "=== AUDIO TRANSCRIPTION ===") {
		t.Errorf("missing sections:\n%s", out)
	}
}

func TestRegisterAllMatchesNames(t *testing.T) {
	registry := tools.NewRegistry(t.TempDir())
	if err := RegisterAll(registry, newAnalyzer(t, &fakeInference{})); err != nil {
		t.Fatalf("RegisterAll failed: %v", err)
	}

	for _, name := range Names() {
		if !registry.Has(name) {
			t.Errorf("missing tool %s", name)
		}
	}
	if registry.Count() != len(Names()) {
		t.Errorf("registered %d tools, want %d", registry.Count(), len(Names()))
	}
}
