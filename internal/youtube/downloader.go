// Package youtube wraps the yt-dlp binary. Metadata is read via the
// JSON dump mode rather than scraping progress output, and downloads
// reuse the media Runner so tests can substitute a fake.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"videomcp/internal/config"
	"videomcp/internal/logging"
	"videomcp/internal/media"
	"videomcp/internal/tools"
)

// qualityFormats maps the quality selector to yt-dlp format
// specifications. These strings are the downloader's contract.
var qualityFormats = map[string]string{
	"best":  "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best",
	"1080p": "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[height<=1080]",
	"720p":  "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720]",
	"480p":  "bestvideo[height<=480][ext=mp4]+bestaudio[ext=m4a]/best[height<=480]",
	"360p":  "bestvideo[height<=360][ext=mp4]+bestaudio[ext=m4a]/best[height<=360]",
}

// Qualities lists the accepted quality selectors.
func Qualities() []string {
	return []string{"360p", "480p", "720p", "1080p", "best"}
}

// Video is the metadata snapshot for a YouTube video.
type Video struct {
	Title       string  `json:"title"`
	Duration    float64 `json:"duration"`
	Uploader    string  `json:"uploader"`
	Description string  `json:"description"`
	ViewCount   int64   `json:"view_count"`
	LikeCount   int64   `json:"like_count"`
	UploadDate  string  `json:"upload_date"`
	URL         string  `json:"webpage_url"`
}

// DownloadResult is a completed download: the final local path plus
// the metadata snapshot taken before downloading.
type DownloadResult struct {
	Path  string
	Video Video
}

// Downloader invokes yt-dlp through a media.Runner.
type Downloader struct {
	runner          media.Runner
	path            string
	infoTimeout     time.Duration
	downloadTimeout time.Duration
}

// NewDownloader creates a Downloader from config.
func NewDownloader(cfg config.YouTubeConfig, runner media.Runner) *Downloader {
	return &Downloader{
		runner:          runner,
		path:            cfg.Path,
		infoTimeout:     config.Duration(cfg.InfoTimeout, time.Minute),
		downloadTimeout: config.Duration(cfg.DownloadTimeout, 15*time.Minute),
	}
}

// Info fetches video metadata without downloading.
func (d *Downloader) Info(ctx context.Context, url string) (*Video, error) {
	out, err := d.runner.Run(ctx, media.Command{
		Path:    d.path,
		Args:    []string{"-J", "--no-warnings", url},
		Timeout: d.infoTimeout,
	})
	if err != nil {
		return nil, err
	}

	var video Video
	if err := json.Unmarshal([]byte(out.Stdout), &video); err != nil {
		return nil, tools.Failf(tools.KindUpstreamError, "failed to parse yt-dlp metadata: %v", err)
	}
	if video.URL == "" {
		video.URL = url
	}

	logging.YouTubeDebug("info %s: title=%q duration=%.0fs", url, video.Title, video.Duration)
	return &video, nil
}

// Download fetches the video at the requested quality into outputDir
// and returns the final file path plus the metadata snapshot.
func (d *Downloader) Download(ctx context.Context, url, quality, outputDir string) (*DownloadResult, error) {
	format, ok := qualityFormats[quality]
	if !ok {
		format = qualityFormats["720p"]
	}

	video, err := d.Info(ctx, url)
	if err != nil {
		return nil, err
	}

	// Distinct filenames when the host pipelines repeat downloads
	// into the shared output root.
	template := "%(title)s.%(ext)s"
	if titleExists(outputDir, video.Title) {
		template = "%(title)s-" + uuid.NewString()[:8] + ".%(ext)s"
	}

	out, err := d.runner.Run(ctx, media.Command{
		Path: d.path,
		Args: []string{
			"-f", format,
			"--merge-output-format", "mp4",
			"--no-warnings",
			"--quiet",
			"--no-simulate",
			"--print", "after_move:filepath",
			"-o", filepath.Join(outputDir, template),
			url,
		},
		Timeout: d.downloadTimeout,
	})
	if err != nil {
		return nil, err
	}

	path := finalPath(out.Stdout)
	if path == "" || !fileExists(path) {
		// Older yt-dlp versions print nothing for merged outputs;
		// fall back to scanning for the title stem.
		path = findByTitle(outputDir, video.Title)
	}
	if path == "" {
		return nil, tools.Failf(tools.KindProcessError,
			"download completed but the output file was not found in %s", outputDir)
	}

	logging.YouTube("downloaded %q (%s) to %s", video.Title, quality, path)
	return &DownloadResult{Path: path, Video: *video}, nil
}

// finalPath extracts the last non-empty line of the --print output.
func finalPath(stdout string) string {
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}

// titleExists reports whether outputDir already holds a download for
// this title. yt-dlp sanitizes punctuation when templating filenames,
// so file stems are compared with punctuation and spacing stripped.
func titleExists(dir, title string) bool {
	want := comparableName(title)
	if want == "" {
		return false
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasSuffix(name, ".part") {
			continue
		}
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if comparableName(stem) == want {
			return true
		}
	}
	return false
}

// comparableName reduces a title or file stem to lowercase letters
// and digits only.
func comparableName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// findByTitle locates a downloaded file whose name starts with the
// video title, ignoring partial downloads.
func findByTitle(dir, title string) string {
	entries, err := os.ReadDir(dir)
	if err != nil || title == "" {
		return ""
	}
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, title) && !strings.HasSuffix(name, ".part") {
			return filepath.Join(dir, name)
		}
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Describe renders the metadata block shown to the host for info
// requests.
func (v *Video) Describe() string {
	description := v.Description
	if len(description) > 500 {
		description = description[:500]
	}
	return fmt.Sprintf(`YouTube Video Information:
- Title: %s
- Duration: %.0f seconds (%.1f minutes)
- Uploader: %s
- Views: %d
- Likes: %d
- Upload Date: %s
- Description: %s`,
		orUnknown(v.Title), v.Duration, v.Duration/60,
		orUnknown(v.Uploader), v.ViewCount, v.LikeCount,
		orUnknown(v.UploadDate), description)
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
