package youtube

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"videomcp/internal/config"
	"videomcp/internal/media"
	"videomcp/internal/tools"
)

type fakeRunner struct {
	calls   []media.Command
	handler func(cmd media.Command) (media.Output, error)
}

func (f *fakeRunner) Run(ctx context.Context, cmd media.Command) (media.Output, error) {
	f.calls = append(f.calls, cmd)
	if f.handler == nil {
		return media.Output{}, nil
	}
	return f.handler(cmd)
}

const sampleMetadata = `{
	"title": "Go Concurrency Patterns",
	"duration": 3120.0,
	"uploader": "Google Developers",
	"description": "Rob Pike talks about concurrency.",
	"view_count": 1500000,
	"like_count": 32000,
	"upload_date": "20120723",
	"webpage_url": "https://www.youtube.com/watch?v=f6kdp27TYZs"
}`

func testDownloader(runner media.Runner) *Downloader {
	return NewDownloader(config.Default().YouTube, runner)
}

func hasArg(cmd media.Command, arg string) bool {
	for _, a := range cmd.Args {
		if a == arg {
			return true
		}
	}
	return false
}

func argAfter(cmd media.Command, flag string) string {
	for i, a := range cmd.Args {
		if a == flag && i+1 < len(cmd.Args) {
			return cmd.Args[i+1]
		}
	}
	return ""
}

func TestInfo(t *testing.T) {
	runner := &fakeRunner{handler: func(cmd media.Command) (media.Output, error) {
		return media.Output{Stdout: sampleMetadata}, nil
	}}

	video, err := testDownloader(runner).Info(context.Background(), "https://youtu.be/f6kdp27TYZs")
	if err != nil {
		t.Fatalf("Info failed: %v", err)
	}

	if video.Title != "Go Concurrency Patterns" {
		t.Errorf("Title = %q", video.Title)
	}
	if video.Duration != 3120 {
		t.Errorf("Duration = %f, want 3120", video.Duration)
	}
	if video.ViewCount != 1500000 {
		t.Errorf("ViewCount = %d", video.ViewCount)
	}
	if video.URL != "https://www.youtube.com/watch?v=f6kdp27TYZs" {
		t.Errorf("URL = %q", video.URL)
	}

	call := runner.calls[0]
	if !hasArg(call, "-J") || !hasArg(call, "--no-warnings") {
		t.Errorf("unexpected info invocation: %v", call.Args)
	}
}

func TestInfoParseFailure(t *testing.T) {
	runner := &fakeRunner{handler: func(cmd media.Command) (media.Output, error) {
		return media.Output{Stdout: "not json"}, nil
	}}

	_, err := testDownloader(runner).Info(context.Background(), "https://youtu.be/x")
	if err == nil {
		t.Fatal("expected parse error")
	}
	var failure *tools.Failure
	if !errors.As(err, &failure) || failure.Kind != tools.KindUpstreamError {
		t.Errorf("expected upstream_error failure, got %v", err)
	}
}

func TestDownload(t *testing.T) {
	outputDir := t.TempDir()
	finalFile := filepath.Join(outputDir, "Go Concurrency Patterns.mp4")

	runner := &fakeRunner{}
	runner.handler = func(cmd media.Command) (media.Output, error) {
		if hasArg(cmd, "-J") {
			return media.Output{Stdout: sampleMetadata}, nil
		}
		if err := os.WriteFile(finalFile, []byte("mp4"), 0o644); err != nil {
			t.Fatal(err)
		}
		return media.Output{Stdout: finalFile + "\n"}, nil
	}

	result, err := testDownloader(runner).Download(context.Background(),
		"https://youtu.be/f6kdp27TYZs", "720p", outputDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if result.Path != finalFile {
		t.Errorf("Path = %s, want %s", result.Path, finalFile)
	}
	if result.Video.Title != "Go Concurrency Patterns" {
		t.Errorf("Title = %q", result.Video.Title)
	}

	download := runner.calls[1]
	wantFormat := "bestvideo[height<=720][ext=mp4]+bestaudio[ext=m4a]/best[height<=720]"
	if got := argAfter(download, "-f"); got != wantFormat {
		t.Errorf("format = %q, want %q", got, wantFormat)
	}
	if argAfter(download, "--merge-output-format") != "mp4" {
		t.Errorf("unexpected download invocation: %v", download.Args)
	}
	if argAfter(download, "--print") != "after_move:filepath" {
		t.Errorf("missing after_move print: %v", download.Args)
	}
}

func TestDownloadUnknownQualityFallsBack(t *testing.T) {
	outputDir := t.TempDir()

	runner := &fakeRunner{}
	runner.handler = func(cmd media.Command) (media.Output, error) {
		if hasArg(cmd, "-J") {
			return media.Output{Stdout: sampleMetadata}, nil
		}
		path := filepath.Join(outputDir, "Go Concurrency Patterns.mp4")
		if err := os.WriteFile(path, []byte("mp4"), 0o644); err != nil {
			t.Fatal(err)
		}
		return media.Output{Stdout: path}, nil
	}

	_, err := testDownloader(runner).Download(context.Background(),
		"https://youtu.be/f6kdp27TYZs", "4k", outputDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if got := argAfter(runner.calls[1], "-f"); got != qualityFormats["720p"] {
		t.Errorf("unknown quality did not fall back to 720p: %q", got)
	}
}

func TestDownloadCollisionUsesDistinctName(t *testing.T) {
	outputDir := t.TempDir()
	existing := filepath.Join(outputDir, "Go Concurrency Patterns.mp4")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	runner := &fakeRunner{}
	runner.handler = func(cmd media.Command) (media.Output, error) {
		if hasArg(cmd, "-J") {
			return media.Output{Stdout: sampleMetadata}, nil
		}
		// Resolve the template's uuid suffix to a concrete name.
		template := filepath.Base(argAfter(cmd, "-o"))
		name := strings.NewReplacer("%(title)s", "Go Concurrency Patterns", "%(ext)s", "mp4").Replace(template)
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, []byte("mp4"), 0o644); err != nil {
			t.Fatal(err)
		}
		return media.Output{Stdout: path}, nil
	}

	result, err := testDownloader(runner).Download(context.Background(),
		"https://youtu.be/f6kdp27TYZs", "best", outputDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if result.Path == existing {
		t.Error("collision was not renamed to a distinct file")
	}
	if !strings.Contains(filepath.Base(result.Path), "Go Concurrency Patterns-") {
		t.Errorf("unexpected collision name: %s", result.Path)
	}
}

func TestDownloadCollisionWithSanitizedName(t *testing.T) {
	outputDir := t.TempDir()

	// yt-dlp writes "Go: Concurrency Patterns" as "Go - Concurrency
	// Patterns.mp4"; a repeat download must still be detected.
	existing := filepath.Join(outputDir, "Go - Concurrency Patterns.mp4")
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	punctuated := strings.Replace(sampleMetadata, `"Go Concurrency Patterns"`, `"Go: Concurrency Patterns"`, 1)
	runner := &fakeRunner{}
	runner.handler = func(cmd media.Command) (media.Output, error) {
		if hasArg(cmd, "-J") {
			return media.Output{Stdout: punctuated}, nil
		}
		path := filepath.Join(outputDir, "Go - Concurrency Patterns-deadbeef.mp4")
		if err := os.WriteFile(path, []byte("mp4"), 0o644); err != nil {
			t.Fatal(err)
		}
		return media.Output{Stdout: path}, nil
	}

	_, err := testDownloader(runner).Download(context.Background(),
		"https://youtu.be/f6kdp27TYZs", "best", outputDir)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	template := filepath.Base(argAfter(runner.calls[1], "-o"))
	if template == "%(title)s.%(ext)s" {
		t.Error("sanitized collision was not detected; template has no distinct suffix")
	}
}

func TestTitleExists(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"Go - Concurrency Patterns.mp4", "Other Talk.part"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		title string
		want  bool
	}{
		{"Go: Concurrency Patterns", true},
		{"go concurrency patterns", true},
		{"Go Concurrency", false},
		{"Other Talk", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := titleExists(dir, tt.title); got != tt.want {
			t.Errorf("titleExists(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestDownloadMissingOutput(t *testing.T) {
	runner := &fakeRunner{}
	runner.handler = func(cmd media.Command) (media.Output, error) {
		if hasArg(cmd, "-J") {
			return media.Output{Stdout: sampleMetadata}, nil
		}
		return media.Output{}, nil
	}

	_, err := testDownloader(runner).Download(context.Background(),
		"https://youtu.be/f6kdp27TYZs", "best", t.TempDir())
	if err == nil {
		t.Fatal("expected error when no file is produced")
	}
	var failure *tools.Failure
	if !errors.As(err, &failure) || failure.Kind != tools.KindProcessError {
		t.Errorf("expected process_error failure, got %v", err)
	}
}

func TestDescribe(t *testing.T) {
	video := Video{
		Title:       "Talk",
		Duration:    90,
		Uploader:    "Conf",
		Description: strings.Repeat("d", 600),
		ViewCount:   10,
		UploadDate:  "20240101",
	}

	got := video.Describe()
	if !strings.Contains(got, "- Title: Talk") {
		t.Errorf("missing title:\n%s", got)
	}
	if !strings.Contains(got, "90 seconds (1.5 minutes)") {
		t.Errorf("missing duration:\n%s", got)
	}
	if strings.Count(got, "d") > 510 {
		t.Error("description was not truncated to 500 characters")
	}
}

func TestDescribeUnknownFields(t *testing.T) {
	var video Video
	got := video.Describe()
	if !strings.Contains(got, "- Title: unknown") || !strings.Contains(got, "- Uploader: unknown") {
		t.Errorf("empty fields not rendered as unknown:\n%s", got)
	}
}

func TestQualitiesCoverFormatMap(t *testing.T) {
	for _, q := range Qualities() {
		if _, ok := qualityFormats[q]; !ok {
			t.Errorf("quality %q has no format mapping", q)
		}
	}
}
