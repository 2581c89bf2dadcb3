// Package groq is a minimal client for the Groq hosted inference API
// (OpenAI-compatible): vision chat completions and Whisper audio
// transcription. Calls are synchronous and never retried; a failed
// call surfaces immediately as a typed failure.
package groq

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"videomcp/internal/config"
	"videomcp/internal/logging"
	"videomcp/internal/tools"
)

const (
	defaultBaseURL = "https://api.groq.com/openai/v1"

	visionTemperature = 0.7
	visionMaxTokens   = 4096
)

// Client talks to the Groq API with bearer-credential auth.
type Client struct {
	apiKey      string
	baseURL     string
	visionModel string
	audioModel  string
	httpClient  *http.Client
}

// NewClient creates a Client from config. The credential is not
// validated here; an invalid key fails at call time with an auth
// failure.
func NewClient(cfg config.GroqConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		visionModel: cfg.VisionModel,
		audioModel:  cfg.AudioModel,
		httpClient: &http.Client{
			Timeout: config.Duration(cfg.Timeout, 2*time.Minute),
		},
	}
}

// chat completion request/response shapes (only the fields used).

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeImages sends the prompt plus the JPEG frames at imagePaths
// to the vision model and returns the model's text.
func (c *Client) AnalyzeImages(ctx context.Context, prompt string, imagePaths []string) (string, error) {
	content := []contentPart{{Type: "text", Text: prompt}}
	for _, path := range imagePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", tools.Failf(tools.KindNotFound, "cannot read frame %s: %v", path, err)
		}
		encoded := base64.StdEncoding.EncodeToString(data)
		content = append(content, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:image/jpeg;base64," + encoded},
		})
	}

	body, err := json.Marshal(chatRequest{
		Model:       c.visionModel,
		Messages:    []chatMessage{{Role: "user", Content: content}},
		Temperature: visionTemperature,
		MaxTokens:   visionMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal vision request: %w", err)
	}

	logging.AIDebug("vision request: model=%s frames=%d prompt_len=%d",
		c.visionModel, len(imagePaths), len(prompt))

	respBody, err := c.post(ctx, "/chat/completions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", tools.Failf(tools.KindUpstreamError, "failed to parse vision response: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "", tools.Failf(tools.KindUpstreamError, "vision response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Transcribe sends the audio file to the Whisper model and returns
// the plain-text transcript. An empty transcript is returned as an
// empty string, not an error.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", tools.Failf(tools.KindNotFound, "cannot read audio %s: %v", audioPath, err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", "audio.mp3")
	if err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if err := writer.WriteField("model", c.audioModel); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build transcription form: %w", err)
	}

	logging.AIDebug("transcription request: model=%s bytes=%d", c.audioModel, len(audio))

	respBody, err := c.post(ctx, "/audio/transcriptions", writer.FormDataContentType(), &buf)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(respBody)), nil
}

// post performs an authenticated POST and maps HTTP failures to the
// tool failure taxonomy: 401/403 auth, 429 rate-limited, any other
// non-2xx upstream.
func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, tools.Failf(tools.KindTimeout, "inference request timed out")
		}
		return nil, tools.Failf(tools.KindUpstreamError, "inference request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, tools.Failf(tools.KindUpstreamError, "failed to read inference response: %v", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return data, nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		logging.AI("auth failure from inference API: HTTP %d", resp.StatusCode)
		return nil, tools.Failf(tools.KindAuthError, "inference API rejected the credential (HTTP %d)", resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, tools.Failf(tools.KindRateLimited, "inference API rate limit exceeded")
	default:
		return nil, tools.Failf(tools.KindUpstreamError, "inference API returned HTTP %d: %s",
			resp.StatusCode, snippet(data))
	}
}

func snippet(data []byte) string {
	s := strings.TrimSpace(string(data))
	if len(s) > 300 {
		s = s[:300]
	}
	return s
}
