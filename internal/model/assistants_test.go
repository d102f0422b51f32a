package model

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssistantTestClient(t *testing.T, mux *http.ServeMux) *AssistantClient {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return NewAssistantClient(&AssistantConfig{
		APIKey:  "sk-test",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
}

func TestCreateAssistant(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/assistants", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Scout", body["name"])
		assert.Equal(t, "gpt-4o-mini", body["model"])
		require.Len(t, body["tools"], 2)

		w.Write([]byte(`{"id":"asst_1","name":"Scout","model":"gpt-4o-mini"}`))
	})

	client := newAssistantTestClient(t, mux)
	tools := []map[string]any{
		{"type": "code_interpreter"},
		{"type": "function", "function": map[string]any{"name": "search"}},
	}

	assistant, err := client.CreateAssistant(context.Background(), "Scout", "instructions", "gpt-4o-mini", tools)
	require.NoError(t, err)
	assert.Equal(t, "asst_1", assistant.ID)
}

func TestRetrieveAssistantAndThread(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/assistants/asst_1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"id":"asst_1"}`))
	})
	mux.HandleFunc("/threads/thread_1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"id":"thread_1"}`))
	})

	client := newAssistantTestClient(t, mux)

	assistant, err := client.RetrieveAssistant(context.Background(), "asst_1")
	require.NoError(t, err)
	assert.Equal(t, "asst_1", assistant.ID)

	thread, err := client.RetrieveThread(context.Background(), "thread_1")
	require.NoError(t, err)
	assert.Equal(t, "thread_1", thread.ID)
}

func TestCreateMessageAndRun(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user", body["role"])
		assert.Equal(t, "hello", body["content"])
		w.Write([]byte(`{"id":"msg_1","role":"user"}`))
	})
	mux.HandleFunc("/threads/thread_1/runs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "asst_1", body["assistant_id"])
		w.Write([]byte(`{"id":"run_1","status":"queued"}`))
	})

	client := newAssistantTestClient(t, mux)

	msg, err := client.CreateMessage(context.Background(), "thread_1", "user", "hello")
	require.NoError(t, err)
	assert.Equal(t, "msg_1", msg.ID)

	run, err := client.CreateRun(context.Background(), "thread_1", "asst_1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusQueued, run.Status)
}

func TestRetrieveRunWithRequiredAction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/threads/thread_1/runs/run_1", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{
			"id":"run_1","status":"requires_action",
			"required_action":{"type":"submit_tool_outputs","submit_tool_outputs":{"tool_calls":[
				{"id":"call_1","type":"function","function":{"name":"search","arguments":"{\"user_request\":\"flats\"}"}}
			]}}
		}`))
	})

	client := newAssistantTestClient(t, mux)

	run, err := client.RetrieveRun(context.Background(), "thread_1", "run_1")
	require.NoError(t, err)
	assert.Equal(t, RunStatusRequiresAction, run.Status)

	calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "search", calls[0].Function.Name)

	args, err := calls[0].Function.ParseArguments()
	require.NoError(t, err)
	assert.Equal(t, "flats", args["user_request"])
}

func TestSubmitToolOutputs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/threads/thread_1/runs/run_1/submit_tool_outputs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body struct {
			ToolOutputs []ToolOutput `json:"tool_outputs"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.ToolOutputs, 1)
		assert.Equal(t, "call_1", body.ToolOutputs[0].ToolCallID)
		assert.Equal(t, "ExampleRent\nhttps://x\nflats\n\n", body.ToolOutputs[0].Output)

		w.Write([]byte(`{"id":"run_1","status":"queued"}`))
	})

	client := newAssistantTestClient(t, mux)

	run, err := client.SubmitToolOutputs(context.Background(), "thread_1", "run_1", []ToolOutput{
		{ToolCallID: "call_1", Output: "ExampleRent\nhttps://x\nflats\n\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, RunStatusQueued, run.Status)
}

func TestListMessages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/threads/thread_1/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Write([]byte(`{"data":[
			{"id":"msg_2","role":"assistant","created_at":20,"content":[{"type":"text","text":{"value":"Found 1 listing."}}]},
			{"id":"msg_1","role":"user","created_at":10,"content":[{"type":"text","text":{"value":"flats"}}]}
		]}`))
	})

	client := newAssistantTestClient(t, mux)

	messages, err := client.ListMessages(context.Background(), "thread_1")
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "assistant", messages[0].Role)
	assert.Equal(t, "Found 1 listing.", messages[0].Text())
}

func TestRunStatusTerminal(t *testing.T) {
	assert.True(t, RunStatusCompleted.Terminal())
	assert.True(t, RunStatusFailed.Terminal())
	assert.True(t, RunStatusCancelled.Terminal())
	assert.True(t, RunStatusExpired.Terminal())
	assert.False(t, RunStatusQueued.Terminal())
	assert.False(t, RunStatusInProgress.Terminal())
	assert.False(t, RunStatusRequiresAction.Terminal())
}

func TestDoSurfacesAPIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/threads/missing", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		http.Error(w, `{"error":{"message":"no such thread"}}`, http.StatusNotFound)
	})

	client := newAssistantTestClient(t, mux)

	_, err := client.RetrieveThread(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
