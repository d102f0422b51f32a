package tools

import (
	"context"
)

// Tool represents a callable tool.
type Tool interface {
	// Name returns the tool's identifier.
	Name() string

	// Description returns what the tool does.
	Description() string

	// Schema returns the tool's argument schema.
	Schema() *Schema

	// Execute runs the tool with the assistant's JSON argument object and
	// returns the string output to submit. Implementations swallow internal
	// failures and return an empty string so the tool-output submission
	// stays well-formed.
	Execute(ctx context.Context, input map[string]any) (string, error)
}

// Registry manages available tools for dispatch.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry.
func NewRegistry() *Registry {
	return &Registry{
		tools: make(map[string]Tool),
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool Tool) {
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// List returns registered tool names in registration order.
func (r *Registry) List() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Execute runs a tool by name with the given input. An unknown name is a
// first-class error, never a silent skip.
func (r *Registry) Execute(ctx context.Context, name string, input map[string]any) (string, error) {
	tool, ok := r.Get(name)
	if !ok {
		return "", &ToolNotFoundError{Name: name}
	}
	return tool.Execute(ctx, input)
}

// Declarations returns every tool's function declaration in registration
// order, for the assistant definition payload.
func (r *Registry) Declarations() []map[string]any {
	decls := make([]map[string]any, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.tools[name].Schema().FunctionDeclaration())
	}
	return decls
}

// ToolNotFoundError is returned when a tool doesn't exist.
type ToolNotFoundError struct {
	Name string
}

func (e *ToolNotFoundError) Error() string {
	return "tool not found: " + e.Name
}
