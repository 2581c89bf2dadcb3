package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"videomcp/internal/config"
	"videomcp/internal/logging"
	"videomcp/internal/tools"
)

// VideoInfo is the parsed ffprobe metadata for a local video file.
type VideoInfo struct {
	Path     string
	Filename string
	Duration float64
	Width    int
	Height   int
	Codec    string
}

// FFmpeg invokes ffmpeg/ffprobe through a Runner.
type FFmpeg struct {
	runner           Runner
	ffmpegPath       string
	ffprobePath      string
	probeTimeout     time.Duration
	transcodeTimeout time.Duration
}

// NewFFmpeg creates an FFmpeg wrapper from config. Pass an ExecRunner
// in production or a fake in tests.
func NewFFmpeg(cfg config.MediaConfig, runner Runner) *FFmpeg {
	return &FFmpeg{
		runner:           runner,
		ffmpegPath:       cfg.FFmpegPath,
		ffprobePath:      cfg.FFprobePath,
		probeTimeout:     config.Duration(cfg.ProbeTimeout, 30*time.Second),
		transcodeTimeout: config.Duration(cfg.TranscodeTimeout, 10*time.Minute),
	}
}

// Probe reads duration, resolution, and codec via ffprobe using
// machine-readable output modes.
func (f *FFmpeg) Probe(ctx context.Context, videoPath string) (*VideoInfo, error) {
	info := &VideoInfo{
		Path:     videoPath,
		Filename: filepath.Base(videoPath),
		Codec:    "unknown",
	}

	out, err := f.runner.Run(ctx, Command{
		Path: f.ffprobePath,
		Args: []string{
			"-v", "error",
			"-show_entries", "format=duration",
			"-of", "default=noprint_wrappers=1:nokey=1",
			videoPath,
		},
		Timeout: f.probeTimeout,
	})
	if err != nil {
		return nil, err
	}
	if d, perr := strconv.ParseFloat(strings.TrimSpace(out.Stdout), 64); perr == nil {
		info.Duration = d
	}

	out, err = f.runner.Run(ctx, Command{
		Path: f.ffprobePath,
		Args: []string{
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=width,height",
			"-of", "csv=s=x:p=0",
			videoPath,
		},
		Timeout: f.probeTimeout,
	})
	if err != nil {
		return nil, err
	}
	if size := strings.TrimSpace(out.Stdout); strings.Contains(size, "x") {
		parts := strings.SplitN(size, "x", 2)
		info.Width, _ = strconv.Atoi(parts[0])
		info.Height, _ = strconv.Atoi(parts[1])
	}

	out, err = f.runner.Run(ctx, Command{
		Path: f.ffprobePath,
		Args: []string{
			"-v", "error",
			"-select_streams", "v:0",
			"-show_entries", "stream=codec_name",
			"-of", "default=noprint_wrappers=1:nokey=1",
			videoPath,
		},
		Timeout: f.probeTimeout,
	})
	if err != nil {
		return nil, err
	}
	if codec := strings.TrimSpace(out.Stdout); codec != "" {
		info.Codec = codec
	}

	logging.MediaDebug("probe %s: duration=%.2fs size=%dx%d codec=%s",
		info.Filename, info.Duration, info.Width, info.Height, info.Codec)
	return info, nil
}

// ExtractFrames extracts n frames at equally spaced timestamps across
// the video: timestamp i*D/(n+1) for i in 1..n, so frames never land
// exactly on the start or end. Returned paths are ordered by source
// timestamp ascending and all exist on disk.
func (f *FFmpeg) ExtractFrames(ctx context.Context, videoPath string, n int, outputDir string) ([]string, error) {
	info, err := f.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("could not determine duration of %s", info.Filename)
	}

	interval := info.Duration / float64(n+1)
	frames := make([]string, 0, n)

	for i := 1; i <= n; i++ {
		timestamp := float64(i) * interval
		framePath := filepath.Join(outputDir, fmt.Sprintf("%s_frame_%03d.jpg", stem(videoPath), i))

		_, err := f.runner.Run(ctx, Command{
			Path: f.ffmpegPath,
			Args: []string{
				"-y",
				"-i", videoPath,
				"-ss", strconv.FormatFloat(timestamp, 'f', 3, 64),
				"-vframes", "1",
				"-q:v", "2",
				framePath,
			},
			Timeout: f.transcodeTimeout,
		})
		if err != nil {
			return nil, err
		}
		if _, serr := os.Stat(framePath); serr != nil {
			return nil, fmt.Errorf("frame %d was not written to %s", i, framePath)
		}
		frames = append(frames, framePath)
	}

	logging.Media("extracted %d frames from %s", len(frames), info.Filename)
	return frames, nil
}

// ExtractAudio extracts the audio track to an MP3 file.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, outputPath string) (string, error) {
	if outputPath == "" {
		dir := filepath.Dir(videoPath)
		outputPath = filepath.Join(dir, stem(videoPath)+"_audio.mp3")
	}

	_, err := f.runner.Run(ctx, Command{
		Path: f.ffmpegPath,
		Args: []string{
			"-y",
			"-i", videoPath,
			"-vn",
			"-acodec", "libmp3lame",
			"-q:a", "2",
			outputPath,
		},
		Timeout: f.transcodeTimeout,
	})
	if err != nil {
		return "", err
	}
	if _, serr := os.Stat(outputPath); serr != nil {
		return "", fmt.Errorf("audio track was not written to %s", outputPath)
	}

	logging.Media("extracted audio from %s to %s", filepath.Base(videoPath), outputPath)
	return outputPath, nil
}

// Split cuts the video into segments of segmentSeconds using the
// ffmpeg segment muxer with stream copy. The last segment may be
// shorter. Returns the segment paths sorted by index.
func (f *FFmpeg) Split(ctx context.Context, videoPath string, segmentSeconds int, outputDir string) ([]string, error) {
	info, err := f.Probe(ctx, videoPath)
	if err != nil {
		return nil, err
	}
	if info.Duration <= 0 {
		return nil, fmt.Errorf("could not determine duration of %s", info.Filename)
	}

	pattern := filepath.Join(outputDir, stem(videoPath)+"_segment_%03d.mp4")
	_, err = f.runner.Run(ctx, Command{
		Path: f.ffmpegPath,
		Args: []string{
			"-y",
			"-i", videoPath,
			"-c", "copy",
			"-map", "0",
			"-segment_time", strconv.Itoa(segmentSeconds),
			"-f", "segment",
			"-reset_timestamps", "1",
			pattern,
		},
		Timeout: f.transcodeTimeout,
	})
	if err != nil {
		return nil, err
	}

	segments, err := listSegments(outputDir, stem(videoPath))
	if err != nil {
		return nil, err
	}
	if len(segments) == 0 {
		return nil, tools.Failf(tools.KindProcessError, "no segments were produced for %s", info.Filename)
	}

	// The muxer cuts on key frames, so the count can drift from the
	// arithmetic one; that is worth a log line, not a failure.
	if want := expectedSegments(info.Duration, segmentSeconds); len(segments) != want {
		logging.Media("split %s produced %d segments, expected %d", info.Filename, len(segments), want)
	}

	logging.Media("split %s into %d segments of %ds", info.Filename, len(segments), segmentSeconds)
	return segments, nil
}

// expectedSegments returns ceil(duration/segmentSeconds).
func expectedSegments(duration float64, segmentSeconds int) int {
	if duration <= 0 || segmentSeconds <= 0 {
		return 0
	}
	n := int(duration) / segmentSeconds
	if float64(n*segmentSeconds) < duration {
		n++
	}
	return n
}

// listSegments finds produced segment files for the given stem,
// sorted by name (the %03d index keeps lexical and numeric order in
// agreement).
func listSegments(dir, base string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	var segments []string
	prefix := base + "_segment_"
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, prefix) && strings.HasSuffix(name, ".mp4") {
			segments = append(segments, filepath.Join(dir, name))
		}
	}
	sort.Strings(segments)
	return segments, nil
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
