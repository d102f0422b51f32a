// Package tools provides the tool registry and JSON schema builders for
// the assistant's function declarations.
package tools

// Schema defines a tool's JSON schema in function-calling shape.
type Schema struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// SchemaBuilder provides a fluent interface for building tool schemas.
type SchemaBuilder struct {
	schema *Schema
}

// NewSchema creates a new schema builder with the given name and description.
func NewSchema(name, description string) *SchemaBuilder {
	return &SchemaBuilder{
		schema: &Schema{
			Name:        name,
			Description: description,
			Parameters: map[string]any{
				"type":       "object",
				"properties": make(map[string]any),
				"required":   make([]string, 0),
			},
		},
	}
}

// AddParam adds a parameter to the schema.
func (b *SchemaBuilder) AddParam(name, paramType, description string, required bool) *SchemaBuilder {
	props := b.schema.Parameters["properties"].(map[string]any)
	props[name] = map[string]any{
		"type":        paramType,
		"description": description,
	}
	if required {
		req := b.schema.Parameters["required"].([]string)
		b.schema.Parameters["required"] = append(req, name)
	}
	return b
}

// Build returns the constructed schema.
func (b *SchemaBuilder) Build() *Schema {
	return b.schema
}

// FunctionDeclaration wraps the schema in the runtime's function tool shape.
func (s *Schema) FunctionDeclaration() map[string]any {
	return map[string]any{
		"type":     "function",
		"function": s,
	}
}

// CodeInterpreterDeclaration declares the server-side code execution tool.
// It is enabled on the assistant but never dispatched by this client.
func CodeInterpreterDeclaration() map[string]any {
	return map[string]any{"type": "code_interpreter"}
}
