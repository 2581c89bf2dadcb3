// Package analyze composes frame extraction, audio extraction, and
// the hosted inference API into the AI-powered video operations.
package analyze

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"videomcp/internal/logging"
	"videomcp/internal/tools"
)

// DefaultPrompt is the vision prompt used when the caller does not
// supply one.
const DefaultPrompt = "Describe this video in detail, including scenes, actions, objects, people, and context"

// summaryPrompt asks for a chronological narrative summary.
const summaryPrompt = `Analyze this video and provide a comprehensive summary:
1. Main topic or subject
2. Key events or actions in chronological order
3. Setting and context
4. Visual elements (objects, people, text visible)
5. Overall narrative or message
6. Important details worth noting`

// completePrompt drives the visual half of a complete analysis.
const completePrompt = `Analyze this video thoroughly. Describe:
1. Visual scenes, settings, and environments
2. Actions, movements, and events
3. Objects, people, and visual elements
4. Visual context and atmosphere`

// FrameSource yields representative frames and the audio track of a
// video. Implemented by media.FFmpeg; faked in tests.
type FrameSource interface {
	ExtractFrames(ctx context.Context, videoPath string, n int, outputDir string) ([]string, error)
	ExtractAudio(ctx context.Context, videoPath, outputPath string) (string, error)
}

// Inference is the hosted vision/transcription API. Implemented by
// groq.Client; faked in tests.
type Inference interface {
	AnalyzeImages(ctx context.Context, prompt string, imagePaths []string) (string, error)
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Analyzer runs AI-backed video analysis.
type Analyzer struct {
	media     FrameSource
	inference Inference
	outputDir string
}

// New creates an Analyzer writing intermediate frames and audio under
// outputDir.
func New(media FrameSource, inference Inference, outputDir string) *Analyzer {
	return &Analyzer{media: media, inference: inference, outputDir: outputDir}
}

// Describe extracts numFrames representative frames and asks the
// vision model about them. Returns the analysis text and the number
// of frames analyzed.
func (a *Analyzer) Describe(ctx context.Context, videoPath, prompt string, numFrames int) (string, int, error) {
	if prompt == "" {
		prompt = DefaultPrompt
	}

	frames, err := a.media.ExtractFrames(ctx, videoPath, numFrames, a.outputDir)
	if err != nil {
		return "", 0, err
	}

	text, err := a.inference.AnalyzeImages(ctx, prompt, frames)
	if err != nil {
		return "", 0, err
	}

	logging.AI("analyzed %s with %d frames", filepath.Base(videoPath), len(frames))
	return text, len(frames), nil
}

// Summarize runs Describe with the fixed chronological summary
// prompt.
func (a *Analyzer) Summarize(ctx context.Context, videoPath string, numFrames int) (string, error) {
	text, _, err := a.Describe(ctx, videoPath, summaryPrompt, numFrames)
	return text, err
}

// Transcript extracts the audio track and transcribes it. An empty
// transcript means no speech was detected; that is not an error.
func (a *Analyzer) Transcript(ctx context.Context, videoPath string) (string, error) {
	audioPath := filepath.Join(a.outputDir, audioName(videoPath))
	audio, err := a.media.ExtractAudio(ctx, videoPath, audioPath)
	if err != nil {
		return "", err
	}
	return a.inference.Transcribe(ctx, audio)
}

// Complete runs visual analysis and transcription and joins both
// under labeled sections. The two halves are independent: a failure
// in one is reported inline as a note while the other's result is
// kept. Only when both halves fail does the whole call fail.
func (a *Analyzer) Complete(ctx context.Context, videoPath string, numFrames int) (string, error) {
	var (
		visual     string
		visualErr  error
		transcript string
		audioErr   error
	)

	// The closures never return an error so one half cannot cancel
	// the other; partial results are composed below.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		visual, _, visualErr = a.Describe(gctx, videoPath, completePrompt, numFrames)
		return nil
	})
	g.Go(func() error {
		transcript, audioErr = a.Transcript(gctx, videoPath)
		return nil
	})
	_ = g.Wait()

	if visualErr != nil && audioErr != nil {
		return "", fmt.Errorf("both analysis stages failed: visual: %w; audio: %v",
			tools.Classify(visualErr), tools.Classify(audioErr))
	}

	var sb strings.Builder
	sb.WriteString("=== VISUAL ANALYSIS ===\n")
	if visualErr != nil {
		sb.WriteString(fmt.Sprintf("Note: visual analysis unavailable (%s)", tools.Classify(visualErr).Message))
	} else {
		sb.WriteString(visual)
	}

	sb.WriteString("\n\n=== AUDIO TRANSCRIPTION ===\n")
	switch {
	case audioErr != nil:
		sb.WriteString(fmt.Sprintf("Note: audio analysis unavailable (%s)", tools.Classify(audioErr).Message))
	case strings.TrimSpace(transcript) == "":
		sb.WriteString("(no speech detected)")
	default:
		sb.WriteString(transcript)
	}

	return sb.String(), nil
}

func audioName(videoPath string) string {
	base := filepath.Base(videoPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_audio.mp3"
}
