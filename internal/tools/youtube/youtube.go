// Package youtube provides the yt-dlp backed tools. These are always
// registered; no inference credential is required.
//
// Tools:
//   - get_youtube_info: metadata without downloading
//   - download_youtube_video: download with quality selection
package youtube

import (
	"context"
	"fmt"

	"videomcp/internal/tools"
	ytdl "videomcp/internal/youtube"
)

// RegisterAll registers the YouTube tools with the registry.
func RegisterAll(registry *tools.Registry, dl *ytdl.Downloader) error {
	allTools := []*tools.Tool{
		InfoTool(dl),
		DownloadTool(dl),
	}

	for _, tool := range allTools {
		if err := registry.Register(tool); err != nil {
			return err
		}
	}
	return nil
}

// InfoTool returns the get_youtube_info tool.
func InfoTool(dl *ytdl.Downloader) *tools.Tool {
	return &tools.Tool{
		Name:        "get_youtube_info",
		Description: "Get information about a YouTube video (title, duration, uploader, description) without downloading. No API key required.",
		Category:    tools.CategoryYouTube,
		Schema: tools.ToolSchema{
			Required: []string{"url"},
			Properties: map[string]tools.Property{
				"url": {
					Type:        "string",
					Description: "YouTube video URL (e.g., https://www.youtube.com/watch?v=...)",
					Kind:        tools.ArgURL,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			url, _ := args["url"].(string)

			video, err := dl.Info(ctx, url)
			if err != nil {
				return "", err
			}

			return video.Describe() + "\n\nTo download this video, use: download_youtube_video", nil
		},
	}
}

// DownloadTool returns the download_youtube_video tool.
func DownloadTool(dl *ytdl.Downloader) *tools.Tool {
	qualities := make([]any, 0, len(ytdl.Qualities()))
	for _, q := range ytdl.Qualities() {
		qualities = append(qualities, q)
	}

	return &tools.Tool{
		Name:        "download_youtube_video",
		Description: "Download a YouTube video to local storage. No API key required. Supports quality selection (360p-1080p). Returns path to downloaded video file.",
		Category:    tools.CategoryYouTube,
		Schema: tools.ToolSchema{
			Required: []string{"url"},
			Properties: map[string]tools.Property{
				"url": {
					Type:        "string",
					Description: "YouTube video URL",
					Kind:        tools.ArgURL,
				},
				"quality": {
					Type:        "string",
					Description: "Video quality: 360p, 480p, 720p, 1080p, or best (default: 720p)",
					Default:     "720p",
					Enum:        qualities,
				},
				"output_dir": {
					Type:        "string",
					Description: "Directory to save the video (optional)",
					Kind:        tools.ArgOutputDir,
				},
			},
		},
		Execute: func(ctx context.Context, args map[string]any) (string, error) {
			url, _ := args["url"].(string)
			quality, _ := args["quality"].(string)
			outputDir, _ := args["output_dir"].(string)

			result, err := dl.Download(ctx, url, quality, outputDir)
			if err != nil {
				return "", err
			}

			return fmt.Sprintf(`Successfully downloaded YouTube video!

Title: %s
Duration: %.0f seconds (%.1f minutes)
Uploader: %s
Saved to: %s

You can now analyze this video:
- Extract frames: extract_video_frames
- Extract audio: extract_video_audio
- Get info: get_video_info`,
				result.Video.Title, result.Video.Duration, result.Video.Duration/60,
				result.Video.Uploader, result.Path), nil
		},
	}
}
