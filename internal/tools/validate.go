package tools

import (
	"math"
	"net/url"
	"os"
	"strings"
)

// validateArgs checks raw arguments against the tool schema and
// returns a normalized copy: required arguments verified, defaults
// filled in, JSON numbers coerced to int where the schema says
// integer, bounded values clamped, and path/url/output-dir arguments
// checked per their kind.
//
// Out-of-range numeric values are clamped to the nearest bound rather
// than rejected; the same policy applies to every bounded parameter.
func validateArgs(tool *Tool, args map[string]any, outputDir string) (map[string]any, *Failure) {
	normalized := make(map[string]any, len(args))
	for k, v := range args {
		normalized[k] = v
	}

	for _, required := range tool.Schema.Required {
		if _, ok := normalized[required]; !ok {
			return nil, Failf(KindInvalidArgument, "missing required argument: %s", required)
		}
	}

	for name, prop := range tool.Schema.Properties {
		raw, present := normalized[name]

		if !present {
			if prop.Kind == ArgOutputDir {
				if failure := ensureDir(outputDir); failure != nil {
					return nil, failure
				}
				normalized[name] = outputDir
				continue
			}
			if prop.Default != nil {
				normalized[name] = prop.Default
			}
			continue
		}

		switch prop.Type {
		case "integer":
			n, ok := toInt(raw)
			if !ok {
				return nil, Failf(KindInvalidArgument, "argument %s must be an integer", name)
			}
			normalized[name] = clamp(n, prop.Minimum, prop.Maximum)

		case "string":
			s, ok := raw.(string)
			if !ok {
				return nil, Failf(KindInvalidArgument, "argument %s must be a string", name)
			}
			if len(prop.Enum) > 0 && !inEnum(s, prop.Enum) {
				return nil, Failf(KindInvalidArgument, "argument %s must be one of %v", name, prop.Enum)
			}
			if failure := checkKind(name, s, prop.Kind, outputDir, normalized); failure != nil {
				return nil, failure
			}

		case "boolean":
			if _, ok := raw.(bool); !ok {
				return nil, Failf(KindInvalidArgument, "argument %s must be a boolean", name)
			}
		}
	}

	return normalized, nil
}

// checkKind applies kind-specific validation to a string argument.
func checkKind(name, value string, kind ArgKind, outputDir string, normalized map[string]any) *Failure {
	switch kind {
	case ArgPath:
		info, err := os.Stat(value)
		if err != nil {
			return Failf(KindNotFound, "file not found: %s", value)
		}
		if !info.Mode().IsRegular() {
			return Failf(KindInvalidArgument, "not a regular file: %s", value)
		}

	case ArgOutputDir:
		if value == "" {
			value = outputDir
			normalized[name] = value
		}
		if failure := ensureDir(value); failure != nil {
			return failure
		}

	case ArgURL:
		if !IsYouTubeURL(value) {
			return Failf(KindInvalidArgument, "not a recognized YouTube URL: %s", value)
		}
	}
	return nil
}

// ensureDir creates a directory (and parents) if missing. Creating an
// existing directory is not an error.
func ensureDir(dir string) *Failure {
	if dir == "" {
		return Failf(KindInvalidArgument, "output directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Failf(KindInvalidArgument, "cannot create output directory %s: %v", dir, err)
	}
	return nil
}

// IsYouTubeURL reports whether the string is a well-formed http(s)
// URL on a known YouTube host. Malformed URLs are rejected here so
// they never reach the downloader subprocess.
func IsYouTubeURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "youtu.be" || host == "youtube.com" {
		return true
	}
	return strings.HasSuffix(host, ".youtube.com") || strings.HasSuffix(host, ".youtu.be")
}

// toInt coerces JSON-decoded numeric values to int.
// encoding/json decodes numbers into float64.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// clamp bounds n to the inclusive [min, max] range where set.
func clamp(n int, min, max *int) int {
	if min != nil && n < *min {
		return *min
	}
	if max != nil && n > *max {
		return *max
	}
	return n
}

func inEnum(s string, enum []any) bool {
	for _, e := range enum {
		if es, ok := e.(string); ok && es == s {
			return true
		}
	}
	return false
}

// IntPtr is a helper for schema bounds.
func IntPtr(n int) *int { return &n }
