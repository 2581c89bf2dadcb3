package tools

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"videomcp/internal/logging"
)

// Registry holds all available tools and provides lookup and dispatch.
// It is thread-safe; registration happens once at startup and the set
// is read-only afterwards.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool

	// byCategory provides fast lookup by category.
	byCategory map[ToolCategory][]*Tool

	// outputDir is the default root for output-dir arguments.
	outputDir string
}

// NewRegistry creates a new empty tool registry. outputDir is the
// default destination for tools that write files when the caller does
// not supply one.
func NewRegistry(outputDir string) *Registry {
	return &Registry{
		tools:      make(map[string]*Tool),
		byCategory: make(map[ToolCategory][]*Tool),
		outputDir:  outputDir,
	}
}

// OutputDir returns the default output directory.
func (r *Registry) OutputDir() string {
	return r.outputDir
}

// Register adds a tool to the registry.
// Returns an error if a tool with the same name already exists.
func (r *Registry) Register(tool *Tool) error {
	if err := tool.Validate(); err != nil {
		return fmt.Errorf("invalid tool: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("%w: %s", ErrToolAlreadyRegistered, tool.Name)
	}

	r.tools[tool.Name] = tool
	r.byCategory[tool.Category] = append(r.byCategory[tool.Category], tool)

	logging.ToolsDebug("Registered tool: %s (category=%s)", tool.Name, tool.Category)
	return nil
}

// MustRegister registers a tool and panics on error.
// Use this for static tool registration at startup.
func (r *Registry) MustRegister(tool *Tool) {
	if err := r.Register(tool); err != nil {
		panic(fmt.Sprintf("failed to register tool %s: %v", tool.Name, err))
	}
}

// Get returns a tool by name, or nil if not found.
func (r *Registry) Get(name string) *Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.tools[name]
}

// Has returns true if a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.tools[name]
	return ok
}

// GetByCategory returns all tools in a category, sorted by name.
func (r *Registry) GetByCategory(category ToolCategory) []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tools := make([]*Tool, len(r.byCategory[category]))
	copy(tools, r.byCategory[category])

	sort.Slice(tools, func(i, j int) bool {
		return tools[i].Name < tools[j].Name
	})

	return tools
}

// All returns all registered tools, sorted by name so the advertised
// tool list is stable across calls.
func (r *Registry) All() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		result = append(result, tool)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// Names returns all registered tool names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Execute runs a tool by name with the given arguments. The result
// always carries either a text payload or a typed Failure; faults
// never escape to the caller.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any) *ToolResult {
	start := time.Now()

	tool := r.Get(name)
	if tool == nil {
		return &ToolResult{
			ToolName:   name,
			Failure:    Failf(KindUnknownTool, "unknown tool: %s", name),
			DurationMs: time.Since(start).Milliseconds(),
		}
	}

	validated, failure := validateArgs(tool, args, r.outputDir)
	if failure != nil {
		return &ToolResult{
			ToolName:   name,
			Failure:    failure,
			DurationMs: time.Since(start).Milliseconds(),
		}
	}

	logging.ToolsDebug("Executing tool: %s", name)
	result, err := tool.Execute(ctx, validated)

	duration := time.Since(start)
	logging.ToolsDebug("Tool %s completed in %v (success=%v)", name, duration, err == nil)

	return &ToolResult{
		ToolName:   name,
		Result:     result,
		Failure:    Classify(err),
		DurationMs: duration.Milliseconds(),
	}
}
