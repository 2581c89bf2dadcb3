// Package ai provides the tools backed by the hosted inference API.
// The whole package is gated: none of these tools is registered
// unless an inference credential is configured. An invalid credential
// still registers them; it fails at call time with an auth failure.
//
// Tools:
//   - analyze_video: vision analysis of representative frames
//   - summarize_video: chronological narrative summary
//   - transcribe_video: speech-to-text on the audio track
//   - analyze_video_complete: visual + audio, labeled sections
package ai

import (
	"context"
	"fmt"
	"strings"

	"videomcp/internal/analyze"
	"videomcp/internal/tools"
)

// Bounds for the AI frame-count parameters. Out-of-range values are
// clamped, not rejected.
const (
	MinFrames = 1
	MaxFrames = 10

	MinSummaryFrames = 3
)

// RegisterAll registers the AI tools with the registry.
func RegisterAll(registry *tools.Registry, analyzer *analyze.Analyzer) error {
	allTools := []*tools.Tool{
		AnalyzeTool(analyzer),
		SummarizeTool(analyzer),
		TranscribeTool(analyzer),
		CompleteTool(analyzer),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// Names lists the gated tool names. The capability tests key off this.
func Names() []string {
	return []string{
		"analyze_video",
		"summarize_video",
		"transcribe_video",
		"analyze_video_complete",
	}
}

// AnalyzeTool returns the analyze_video tool.
func AnalyzeTool(analyzer *analyze.Analyzer) *tools.Tool {
	return &tools.Tool{
		Name:        "analyze_video",
		Description: "AI-powered video analysis (requires GROQ_API_KEY). Extracts frames and analyzes them with a vision model.",
		Category:    tools.CategoryAI,
		Schema: tools.ToolSchema{
			Required: []string{"video_path"},
			Properties: map[string]tools.Property{
				"video_path": {
					Type:        "string",
					Description: "Path to the video file",
					Kind:        tools.ArgPath,
				},
				"prompt": {
					Type:        "string",
					Description: "Analysis prompt (default: 'Describe this video in detail')",
					Default:     analyze.DefaultPrompt,
				},
				"num_frames": {
					Type:        "integer",
					Description: "Number of frames to analyze (default: 5, max: 10)",
					Default:     5,
					Minimum:     tools.IntPtr(MinFrames),
					Maximum:     tools.IntPtr(MaxFrames),
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			videoPath, _ := args["video_path"].(string)
			prompt, _ := args["prompt"].(string)
			numFrames := intArg(args, "num_frames", 5)

			text, frames, err := analyzer.Describe(ctx, videoPath, prompt, numFrames)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("=== AI Video Analysis ===\n\n%s\n\nAnalyzed %d frames.", text, frames), nil
		},
	}
}

// SummarizeTool returns the summarize_video tool.
func SummarizeTool(analyzer *analyze.Analyzer) *tools.Tool {
	return &tools.Tool{
		Name:        "summarize_video",
		Description: "AI-powered video summarization (requires GROQ_API_KEY). Provides comprehensive summary with narrative flow.",
		Category:    tools.CategoryAI,
		Schema: tools.ToolSchema{
			Required: []string{"video_path"},
			Properties: map[string]tools.Property{
				"video_path": {
					Type:        "string",
					Description: "Path to the video file",
					Kind:        tools.ArgPath,
				},
				"num_frames": {
					Type:        "integer",
					Description: "Number of frames to analyze (default: 8, max: 10)",
					Default:     8,
					Minimum:     tools.IntPtr(MinSummaryFrames),
					Maximum:     tools.IntPtr(MaxFrames),
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			videoPath, _ := args["video_path"].(string)
			numFrames := intArg(args, "num_frames", 8)

			text, err := analyzer.Summarize(ctx, videoPath, numFrames)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("=== Video Summary ===\n\n%s", text), nil
		},
	}
}

// TranscribeTool returns the transcribe_video tool.
func TranscribeTool(analyzer *analyze.Analyzer) *tools.Tool {
	return &tools.Tool{
		Name:        "transcribe_video",
		Description: "AI-powered audio transcription (requires GROQ_API_KEY). Converts speech to text.",
		Category:    tools.CategoryAI,
		Schema: tools.ToolSchema{
			Required: []string{"video_path"},
			Properties: map[string]tools.Property{
				"video_path": {
					Type:        "string",
					Description: "Path to the video file",
					Kind:        tools.ArgPath,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			videoPath, _ := args["video_path"].(string)

			transcript, err := analyzer.Transcript(ctx, videoPath)
			if err != nil {
				return "", err
			}
			if strings.TrimSpace(transcript) == "" {
				transcript = "(no speech detected)"
			}
			return fmt.Sprintf("=== Audio Transcription ===\n\n%s", transcript), nil
		},
	}
}

// CompleteTool returns the analyze_video_complete tool.
func CompleteTool(analyzer *analyze.Analyzer) *tools.Tool {
	return &tools.Tool{
		Name:        "analyze_video_complete",
		Description: "Complete video analysis with visual AND audio content (requires GROQ_API_KEY). Most comprehensive analysis.",
		Category:    tools.CategoryAI,
		Schema: tools.ToolSchema{
			Required: []string{"video_path"},
			Properties: map[string]tools.Property{
				"video_path": {
					Type:        "string",
					Description: "Path to the video file",
					Kind:        tools.ArgPath,
				},
				"num_frames": {
					Type:        "integer",
					Description: "Number of frames to analyze (default: 5, max: 10)",
					Default:     5,
					Minimum:     tools.IntPtr(MinFrames),
					Maximum:     tools.IntPtr(MaxFrames),
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			videoPath, _ := args["video_path"].(string)
			numFrames := intArg(args, "num_frames", 5)

			return analyzer.Complete(ctx, videoPath, numFrames)
		},
	}
}

func intArg(args map[string]any, name string, fallback int) int {
	switch v := args[name].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}
