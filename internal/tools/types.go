// Package tools defines the tool descriptors, the failure taxonomy,
// and the validating registry that backs the MCP dispatch layer.
//
// The registered tool set is built once at startup (see
// internal/catalog) and never mutated while requests are served.
package tools

import (
	"context"
)

// ToolCategory classifies tools for listing and documentation.
type ToolCategory string

const (
	// CategoryVideo covers local FFmpeg-backed processing.
	CategoryVideo ToolCategory = "/video"

	// CategoryYouTube covers yt-dlp backed download and metadata tools.
	CategoryYouTube ToolCategory = "/youtube"

	// CategoryAI covers tools that call the hosted inference API.
	// These are only registered when a credential is configured.
	CategoryAI ToolCategory = "/ai"
)

// ArgKind marks a string parameter for extra validation beyond its
// JSON type. The zero value means no extra checks.
type ArgKind string

const (
	// ArgPath requires an existing, regular, readable file.
	ArgPath ArgKind = "path"

	// ArgOutputDir is an optional directory; when absent it defaults
	// to the configured output root, and it is created if missing.
	ArgOutputDir ArgKind = "output_dir"

	// ArgURL requires a well-formed YouTube URL.
	ArgURL ArgKind = "url"
)

// Property describes a single parameter property for JSON schema.
type Property struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Default     any    `json:"default,omitempty"`
	Enum        []any  `json:"enum,omitempty"`
	Minimum     *int   `json:"minimum,omitempty"`
	Maximum     *int   `json:"maximum,omitempty"`

	// Kind drives server-side validation (path existence, URL shape,
	// output-dir defaulting). Not part of the advertised schema.
	Kind ArgKind `json:"-"`
}

// ToolSchema defines the JSON schema for tool arguments.
type ToolSchema struct {
	// Required lists parameters that must be provided.
	Required []string `json:"required"`

	// Properties describes each parameter.
	Properties map[string]Property `json:"properties"`
}

// ExecuteFunc is the signature for tool execution. Arguments arrive
// already validated and normalized by the registry.
type ExecuteFunc func(ctx context.Context, args map[string]any) (string, error)

// Tool defines a named operation the host can invoke.
type Tool struct {
	// Name is the unique identifier for the tool.
	Name string

	// Description explains what the tool does. Advertised to the host.
	Description string

	// Category classifies the tool for listing.
	Category ToolCategory

	// Execute runs the tool with validated arguments.
	Execute ExecuteFunc

	// Schema defines the expected arguments.
	Schema ToolSchema
}

// Validate checks if the tool definition is valid.
func (t *Tool) Validate() error {
	if t.Name == "" {
		return ErrToolNameEmpty
	}
	if t.Execute == nil {
		return ErrToolExecuteNil
	}
	return nil
}

// ToolResult wraps the result of tool execution with metadata.
type ToolResult struct {
	// ToolName identifies which tool was executed.
	ToolName string

	// Result is the text output from the tool.
	Result string

	// Failure is set if the tool failed.
	Failure *Failure

	// DurationMs is how long execution took.
	DurationMs int64
}

// IsSuccess returns true if the tool executed without error.
func (r *ToolResult) IsSuccess() bool {
	return r.Failure == nil
}
