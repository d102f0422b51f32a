// Command scout is an interactive terminal assistant that answers
// questions with live web search through a remote assistant runtime.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/scout-ai/scout/internal/agent"
	"github.com/scout-ai/scout/internal/config"
	"github.com/scout-ai/scout/internal/model"
	"github.com/scout-ai/scout/internal/repl"
	"github.com/scout-ai/scout/internal/search"
	"github.com/scout-ai/scout/internal/stats"
	"github.com/scout-ai/scout/internal/tools"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "scout: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load(config.DefaultPath())
	if err != nil {
		return err
	}

	assistants := model.NewAssistantClient(&model.AssistantConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout.Std(),
	})
	completions := model.NewCompletionClient(&model.CompletionConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout.Std(),
	})
	searcher := search.NewClient(&search.Config{
		APIKey:         cfg.Search.APIKey,
		CustomConfigID: cfg.Search.CustomConfigID,
		BaseURL:        cfg.Search.BaseURL,
		Market:         cfg.Search.Market,
		Timeout:        cfg.Search.Timeout.Std(),
	})

	turn := &tools.TurnContext{}
	registry := tools.NewRegistry()
	registry.Register(tools.NewSearchTool(completions, searcher, turn))
	registry.Register(tools.NewAnalyzeTool(completions, turn))
	registry.Register(tools.NewFetchPageTool())

	shell := repl.New(os.Stdin, os.Stdout)

	assistant, err := setupAssistant(ctx, shell, assistants, cfg, registry)
	if err != nil {
		return err
	}
	thread, err := setupThread(ctx, shell, assistants)
	if err != nil {
		return err
	}

	fmt.Printf("Assistant id: %s\n", assistant.ID)
	fmt.Printf("Thread id: %s\n", thread.ID)

	collector := stats.NewCollector()
	driver := agent.New(&agent.Config{
		Runtime:        assistants,
		Tools:          registry,
		Turn:           turn,
		AssistantID:    assistant.ID,
		ThreadID:       thread.ID,
		PollInterval:   cfg.Driver.PollInterval.Std(),
		PostWriteDelay: cfg.Driver.PostWriteDelay.Std(),
		Stats:          collector,
	})

	if err := shell.Loop(ctx, driver); err != nil {
		return err
	}

	fmt.Println(collector.Collect().Summary())
	return nil
}

// setupAssistant reuses an existing assistant by id or creates one with
// the local function declarations plus the server-side code interpreter.
func setupAssistant(ctx context.Context, shell *repl.Shell, client *model.AssistantClient, cfg *config.Config, registry *tools.Registry) (*model.Assistant, error) {
	id, ok := shell.PromptID("assistant")
	if !ok {
		return nil, fmt.Errorf("input closed during setup")
	}

	if id != "" {
		assistant, err := client.RetrieveAssistant(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("retrieving assistant %s: %w", id, err)
		}
		fmt.Printf("Assistant retrieved: %s\n", assistant.ID)
		return assistant, nil
	}

	decls := append([]map[string]any{tools.CodeInterpreterDeclaration()}, registry.Declarations()...)
	assistant, err := client.CreateAssistant(ctx, cfg.Assistant.Name, cfg.Assistant.Instructions, cfg.LLM.Model, decls)
	if err != nil {
		return nil, fmt.Errorf("creating assistant: %w", err)
	}
	fmt.Printf("Assistant created: %s\n", assistant.ID)
	return assistant, nil
}

// setupThread reuses an existing thread by id or creates a fresh one.
func setupThread(ctx context.Context, shell *repl.Shell, client *model.AssistantClient) (*model.Thread, error) {
	id, ok := shell.PromptID("thread")
	if !ok {
		return nil, fmt.Errorf("input closed during setup")
	}

	if id != "" {
		thread, err := client.RetrieveThread(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("retrieving thread %s: %w", id, err)
		}
		fmt.Printf("Thread retrieved: %s\n", thread.ID)
		return thread, nil
	}

	thread, err := client.CreateThread(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating thread: %w", err)
	}
	fmt.Printf("Thread created: %s\n", thread.ID)
	return thread, nil
}
