// Package tools provides the desktop tool implementations and their
// registry. Tools are low-level deterministic operations; everything
// that decides WHETHER to run one lives upstream in the policy layer.
package tools

import (
	"context"
	"sort"

	"github.com/aria-ai/aria/pkg/protocol"
)

// Tool represents a low-level deterministic operation.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string

	// Description returns what the tool does.
	Description() string

	// Execute runs the tool with the given arguments.
	Execute(ctx context.Context, args map[string]any) (protocol.ToolResult, error)
}

// Registry manages available tools.
type Registry struct {
	tools map[string]Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry.
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns all registered tool names, sorted.
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
