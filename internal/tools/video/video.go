package video

import (
	"context"
	"fmt"
	"strings"

	"videomcp/internal/media"
	"videomcp/internal/tools"
)

// Bounds for the numeric parameters. Out-of-range values are clamped,
// not rejected.
const (
	MinFrames = 1
	MaxFrames = 20

	MinSegmentSeconds = 1
	MaxSegmentSeconds = 300
)

// RegisterAll registers the FFmpeg-backed tools with the registry.
// aiEnabled only changes the follow-up hints appended to results.
func RegisterAll(registry *tools.Registry, ff *media.FFmpeg, aiEnabled bool) error {
	allTools := []*tools.Tool{
		InfoTool(ff),
		FramesTool(ff, aiEnabled),
		AudioTool(ff, aiEnabled),
		SplitTool(ff),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// InfoTool returns the get_video_info tool.
func InfoTool(ff *media.FFmpeg) *tools.Tool {
	return &tools.Tool{
		Name:        "get_video_info",
		Description: "Get metadata about a video file (duration, resolution, codec, etc.). No API key required.",
		Category:    tools.CategoryVideo,
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

			info, err := ff.Probe(ctx, videoPath)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf(`Video Information:
- File: %s
- Duration: %.2f seconds (%.1f minutes)
- Resolution: %dx%d
- Video Codec: %s`,
				info.Filename, info.Duration, info.Duration/60,
				info.Width, info.Height, info.Codec), nil
		},
	}
}

// FramesTool returns the extract_video_frames tool.
func FramesTool(ff *media.FFmpeg, aiEnabled bool) *tools.Tool {
	return &tools.Tool{
		Name:        "extract_video_frames",
		Description: "Extract frames/screenshots from video at equal intervals. No API key required. Returns paths to extracted images.",
		Category:    tools.CategoryVideo,
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
					Description: "Number of frames to extract (default: 5, max: 20)",
					Default:     5,
					Minimum:     tools.IntPtr(MinFrames),
					Maximum:     tools.IntPtr(MaxFrames),
				},
				"output_dir": {
					Type:        "string",
					Description: "Directory to save frames (optional)",
					Kind:        tools.ArgOutputDir,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			videoPath, _ := args["video_path"].(string)
			numFrames := intArg(args, "num_frames", 5)
			outputDir, _ := args["output_dir"].(string)

			frames, err := ff.ExtractFrames(ctx, videoPath, numFrames, outputDir)
			if err != nil {
				return "", err
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Successfully extracted %d frames:\n", len(frames))
			for i, frame := range frames {
				fmt.Fprintf(&sb, "  %d. %s\n", i+1, frame)
			}
			if aiEnabled {
				sb.WriteString("\nYou can analyze these frames with: analyze_video")
			} else {
				sb.WriteString("\nYou can analyze these images with your own vision model.")
			}
			return sb.String(), nil
		},
	}
}

// AudioTool returns the extract_video_audio tool.
func AudioTool(ff *media.FFmpeg, aiEnabled bool) *tools.Tool {
	return &tools.Tool{
		Name:        "extract_video_audio",
		Description: "Extract audio track from video to MP3 file. No API key required.",
		Category:    tools.CategoryVideo,
		Schema: tools.ToolSchema{
			Required: []string{"video_path"},
			Properties: map[string]tools.Property{
				"video_path": {
					Type:        "string",
					Description: "Path to the video file",
					Kind:        tools.ArgPath,
				},
				"output_path": {
					Type:        "string",
					Description: "Path for output MP3 (optional)",
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			videoPath, _ := args["video_path"].(string)
			outputPath, _ := args["output_path"].(string)

			audioPath, err := ff.ExtractAudio(ctx, videoPath, outputPath)
			if err != nil {
				return "", err
			}

			result := fmt.Sprintf("Successfully extracted audio to:\n  %s", audioPath)
			if aiEnabled {
				result += "\n\nYou can transcribe this with: transcribe_video"
			}
			return result, nil
		},
	}
}

// SplitTool returns the split_video tool.
func SplitTool(ff *media.FFmpeg) *tools.Tool {
	return &tools.Tool{
		Name:        "split_video",
		Description: "Split video into smaller segments. No API key required.",
		Category:    tools.CategoryVideo,
		Schema: tools.ToolSchema{
			Required: []string{"video_path"},
			Properties: map[string]tools.Property{
				"video_path": {
					Type:        "string",
					Description: "Path to the video file",
					Kind:        tools.ArgPath,
				},
				"segment_duration": {
					Type:        "integer",
					Description: "Segment duration in seconds (default: 60, max: 300)",
					Default:     60,
					Minimum:     tools.IntPtr(MinSegmentSeconds),
					Maximum:     tools.IntPtr(MaxSegmentSeconds),
				},
				"output_dir": {
					Type:        "string",
					Description: "Directory for segments (optional)",
					Kind:        tools.ArgOutputDir,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			videoPath, _ := args["video_path"].(string)
			segmentSeconds := intArg(args, "segment_duration", 60)
			outputDir, _ := args["output_dir"].(string)

			segments, err := ff.Split(ctx, videoPath, segmentSeconds, outputDir)
			if err != nil {
				return "", err
			}

			var sb strings.Builder
			fmt.Fprintf(&sb, "Successfully split into %d segments (%ds each):\n", len(segments), segmentSeconds)
			for i, seg := range segments {
				fmt.Fprintf(&sb, "  %d. %s\n", i+1, seg)
			}
			return strings.TrimRight(sb.String(), "\n"), nil
		},
	}
}

// intArg reads a normalized integer argument with a fallback.
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
