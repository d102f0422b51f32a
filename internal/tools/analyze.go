package tools

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// AnalyzeTool summarizes a search-results blob against the user request
// recorded earlier in the turn.
type AnalyzeTool struct {
	completer Completer
	turn      *TurnContext
	logw      io.Writer
}

// NewAnalyzeTool creates the analyze tool.
func NewAnalyzeTool(completer Completer, turn *TurnContext) *AnalyzeTool {
	return &AnalyzeTool{
		completer: completer,
		turn:      turn,
		logw:      os.Stderr,
	}
}

// SetLogWriter redirects diagnostic output. Used by tests.
func (t *AnalyzeTool) SetLogWriter(w io.Writer) { t.logw = w }

func (t *AnalyzeTool) Name() string { return "analyze" }

func (t *AnalyzeTool) Description() string {
	return "Analyze search results and return a summary of the results that most effectively answer the user's request"
}

func (t *AnalyzeTool) Schema() *Schema {
	return NewSchema(t.Name(), t.Description()).
		AddParam("search_results", "string", "The results from the search to analyze", true).
		Build()
}

// Execute asks the model to analyze the results. Internal failures degrade
// to an empty output.
func (t *AnalyzeTool) Execute(ctx context.Context, input map[string]any) (string, error) {
	searchResults, ok := input["search_results"].(string)
	if !ok {
		fmt.Fprintf(t.logw, "analyze tool: missing search_results argument\n")
		return "", nil
	}

	prompt := "Analyze these search results: '" + searchResults + "'\nbased on this user request: " + t.turn.UserRequest
	analysis, err := t.completer.Complete(ctx, prompt)
	if err != nil {
		fmt.Fprintf(t.logw, "analyze tool: completion failed: %v\n", err)
		return "", nil
	}

	return strings.TrimSpace(analysis), nil
}
