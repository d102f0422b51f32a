package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Completer is the stateless single-turn completion capability the tools
// need from the model layer.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Searcher is the web-search capability. A failed search yields an empty
// blob, never an error.
type Searcher interface {
	Search(ctx context.Context, query string) string
}

// SearchTool turns the user's request into a search-engine query via a
// completion, executes it, and returns the flattened hits blob.
type SearchTool struct {
	completer Completer
	searcher  Searcher
	turn      *TurnContext
	logw      io.Writer
}

// NewSearchTool creates the search tool.
func NewSearchTool(completer Completer, searcher Searcher, turn *TurnContext) *SearchTool {
	return &SearchTool{
		completer: completer,
		searcher:  searcher,
		turn:      turn,
		logw:      os.Stderr,
	}
}

// SetLogWriter redirects diagnostic output. Used by tests.
func (t *SearchTool) SetLogWriter(w io.Writer) { t.logw = w }

func (t *SearchTool) Name() string { return "search" }

func (t *SearchTool) Description() string {
	return "Determine a search-engine query from the user_request for specified information and execute the search"
}

func (t *SearchTool) Schema() *Schema {
	return NewSchema(t.Name(), t.Description()).
		AddParam("user_request", "string", "The user's request, used to formulate a search query", true).
		Build()
}

// Execute records the request in the turn context, asks the model for a
// query, and runs it. Internal failures degrade to an empty output.
func (t *SearchTool) Execute(ctx context.Context, input map[string]any) (string, error) {
	userRequest, ok := input["user_request"].(string)
	if !ok || userRequest == "" {
		fmt.Fprintf(t.logw, "search tool: missing user_request argument\n")
		return "", nil
	}

	t.turn.UserRequest = userRequest
	fmt.Fprintf(t.logw, "search tool: generating a query for: %s\n", userRequest)

	query, err := t.completer.Complete(ctx, "Generate a search-engine query to satisfy this user's request: "+userRequest)
	if err != nil {
		fmt.Fprintf(t.logw, "search tool: query generation failed: %v\n", err)
		return "", nil
	}

	// Models tend to wrap generated queries in quotation marks.
	query = strings.ReplaceAll(strings.TrimSpace(query), `"`, "")
	fmt.Fprintf(t.logw, "search tool: executing query: %s\n", query)

	results := t.searcher.Search(ctx, query)
	t.turn.SearchResults = results
	return results, nil
}
