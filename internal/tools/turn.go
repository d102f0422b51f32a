package tools

// TurnContext is the per-user-request scratchpad shared between the driver
// and the tools. The driver resets it at the start of every turn so the
// analyzer can never see a prior turn's request.
type TurnContext struct {
	// UserRequest is the raw request recorded by the search tool; the
	// analyze tool re-prompts with it.
	UserRequest string

	// SearchResults is the most recent flattened hits blob.
	SearchResults string
}

// Reset clears all per-turn state.
func (t *TurnContext) Reset() {
	t.UserRequest = ""
	t.SearchResults = ""
}
