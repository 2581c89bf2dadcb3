// Package config holds all videomcp configuration: defaults, an
// optional YAML file, then environment overrides, applied in that
// order. The config is read once at startup; in particular the
// inference credential is captured at load time and never re-read
// while requests are served.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all videomcp configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Groq configures the hosted inference API.
	Groq GroqConfig `yaml:"groq"`

	// Media configures the ffmpeg/ffprobe binaries.
	Media MediaConfig `yaml:"media"`

	// YouTube configures the yt-dlp binary.
	YouTube YouTubeConfig `yaml:"youtube"`

	// Output configures where generated files land.
	Output OutputConfig `yaml:"output"`

	// Logging configures the category file logger.
	Logging LoggingConfig `yaml:"logging"`
}

// GroqConfig configures the hosted inference API client.
type GroqConfig struct {
	APIKey      string `yaml:"api_key"`
	BaseURL     string `yaml:"base_url"`
	VisionModel string `yaml:"vision_model"`
	AudioModel  string `yaml:"audio_model"`
	Timeout     string `yaml:"timeout"`
}

// MediaConfig configures local FFmpeg processing.
type MediaConfig struct {
	FFmpegPath       string `yaml:"ffmpeg_path"`
	FFprobePath      string `yaml:"ffprobe_path"`
	ProbeTimeout     string `yaml:"probe_timeout"`
	TranscodeTimeout string `yaml:"transcode_timeout"`
}

// YouTubeConfig configures the yt-dlp wrapper.
type YouTubeConfig struct {
	Path            string `yaml:"path"`
	InfoTimeout     string `yaml:"info_timeout"`
	DownloadTimeout string `yaml:"download_timeout"`
}

// OutputConfig configures output file locations.
type OutputConfig struct {
	// Dir is the default root for frames, audio, segments, and
	// downloads when the caller does not pass an explicit directory.
	Dir string `yaml:"dir"`
}

// LoggingConfig configures the file logger.
type LoggingConfig struct {
	DebugMode bool   `yaml:"debug_mode"`
	Level     string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Name:    "videomcp",
		Version: "0.1.0",
		Groq: GroqConfig{
			BaseURL:     "https://api.groq.com/openai/v1",
			VisionModel: "meta-llama/llama-4-scout-17b-16e-instruct",
			AudioModel:  "whisper-large-v3-turbo",
			Timeout:     "120s",
		},
		Media: MediaConfig{
			FFmpegPath:       "ffmpeg",
			FFprobePath:      "ffprobe",
			ProbeTimeout:     "30s",
			TranscodeTimeout: "10m",
		},
		YouTube: YouTubeConfig{
			Path:            "yt-dlp",
			InfoTimeout:     "60s",
			DownloadTimeout: "15m",
		},
		Output: OutputConfig{
			Dir: filepath.Join(home, "videomcp"),
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML
// file at path (skipped silently when path is empty or the file does
// not exist), then environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".videomcp", "config.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variables on top of file
// configuration. Environment always wins.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		c.Groq.APIKey = key
	}
	if dir := os.Getenv("VIDEOMCP_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if os.Getenv("VIDEOMCP_DEBUG") == "1" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// AIEnabled reports whether the AI tool set should be registered.
// True iff a credential is configured; the credential is not
// validated against the API here. An invalid key registers the tools
// and fails with an auth error at call time.
func (c *Config) AIEnabled() bool {
	return c.Groq.APIKey != ""
}

// Duration parses a duration config value, falling back when the
// value is empty or malformed.
func Duration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
