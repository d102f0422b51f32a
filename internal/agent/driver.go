// Package agent provides the conversation driver - the client side of the
// assistant runtime's run state machine.
//
// One turn: post the user message, start a run, poll it, fulfil any
// required tool calls through the registry, submit the outputs, poll
// again, and finally print the assistant's reply. The driver is strictly
// sequential; every network call and sleep blocks the single goroutine.
package agent

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/scout-ai/scout/internal/errors"
	"github.com/scout-ai/scout/internal/model"
	"github.com/scout-ai/scout/internal/stats"
	"github.com/scout-ai/scout/internal/tools"
)

// Runtime is the slice of the assistant runtime the driver needs.
type Runtime interface {
	CreateMessage(ctx context.Context, threadID, role, content string) (*model.Message, error)
	CreateRun(ctx context.Context, threadID, assistantID string) (*model.Run, error)
	RetrieveRun(ctx context.Context, threadID, runID string) (*model.Run, error)
	SubmitToolOutputs(ctx context.Context, threadID, runID string, outputs []model.ToolOutput) (*model.Run, error)
	ListMessages(ctx context.Context, threadID string) ([]model.Message, error)
}

// Config configures the driver.
type Config struct {
	Runtime     Runtime
	Tools       *tools.Registry
	Turn        *tools.TurnContext
	AssistantID string
	ThreadID    string

	// PollInterval is the fixed delay between run polls. Zero is allowed
	// (tests poll scripted runs without waiting).
	PollInterval time.Duration

	// PostWriteDelay is the pause between posting the user message and
	// starting the run; the runtime's message and run endpoints are only
	// eventually consistent with each other.
	PostWriteDelay time.Duration

	Out   io.Writer // assistant responses
	Log   io.Writer // diagnostics
	Stats *stats.Collector
}

// Driver owns the assistant and thread handles for the process lifetime
// and drives one run per user turn.
type Driver struct {
	runtime        Runtime
	tools          *tools.Registry
	turn           *tools.TurnContext
	assistantID    string
	threadID       string
	pollInterval   time.Duration
	postWriteDelay time.Duration
	out            io.Writer
	log            io.Writer
	stats          *stats.Collector
}

// New creates a driver.
func New(cfg *Config) *Driver {
	d := &Driver{
		runtime:        cfg.Runtime,
		tools:          cfg.Tools,
		turn:           cfg.Turn,
		assistantID:    cfg.AssistantID,
		threadID:       cfg.ThreadID,
		pollInterval:   cfg.PollInterval,
		postWriteDelay: cfg.PostWriteDelay,
		out:            cfg.Out,
		log:            cfg.Log,
		stats:          cfg.Stats,
	}
	if d.turn == nil {
		d.turn = &tools.TurnContext{}
	}
	if d.out == nil {
		d.out = os.Stdout
	}
	if d.log == nil {
		d.log = os.Stderr
	}
	if d.stats == nil {
		d.stats = stats.NewCollector()
	}
	return d
}

// Turn returns the driver's per-turn context. Shared with the tools.
func (d *Driver) Turn() *tools.TurnContext {
	return d.turn
}

// RunTurn executes one full conversation turn for the given user text.
//
// A terminal run failure is reported and returned as an error; the caller
// decides whether the session continues (the REPL does).
func (d *Driver) RunTurn(ctx context.Context, userText string) error {
	start := time.Now()
	turnID := uuid.New().String()[:8]
	d.turn.Reset()

	msg, err := d.runtime.CreateMessage(ctx, d.threadID, "user", userText)
	if err != nil {
		d.stats.RecordError()
		return apperrors.Wrap(err, apperrors.CodeRunAbandoned, "posting user message", apperrors.CategoryTemporary)
	}
	fmt.Fprintf(d.log, "turn %s: posted message %s\n", turnID, msg.ID)

	// Give the runtime time to reflect the write before starting the run.
	if err := d.sleep(ctx, d.postWriteDelay); err != nil {
		return err
	}

	run, err := d.runtime.CreateRun(ctx, d.threadID, d.assistantID)
	if err != nil {
		d.stats.RecordError()
		return apperrors.Wrap(err, apperrors.CodeRunAbandoned, "starting run", apperrors.CategoryTemporary)
	}
	fmt.Fprintf(d.log, "turn %s: started run %s\n", turnID, run.ID)

	run, err = d.pollRun(ctx, run)
	if err != nil {
		d.stats.RecordError()
		return err
	}

	for run.Status == model.RunStatusRequiresAction {
		outputs := d.dispatchToolCalls(ctx, run)
		if len(outputs) == 0 {
			d.stats.RecordError()
			fmt.Fprintf(d.log, "turn %s: Required Action Was not performed well\n", turnID)
			return apperrors.New(apperrors.CodeRunAbandoned, "Required Action Was not performed well", apperrors.CategoryPermanent)
		}

		run, err = d.runtime.SubmitToolOutputs(ctx, d.threadID, run.ID, outputs)
		if err != nil {
			d.stats.RecordError()
			return apperrors.Wrap(err, apperrors.CodeRunAbandoned, "submitting tool outputs", apperrors.CategoryTemporary)
		}

		run, err = d.pollRun(ctx, run)
		if err != nil {
			d.stats.RecordError()
			return err
		}
	}

	if run.Status != model.RunStatusCompleted {
		d.stats.RecordError()
		d.printRunDiagnostics(run)
		return apperrors.New(apperrors.CodeRunFailed, fmt.Sprintf("run %s ended with status %s", run.ID, run.Status), apperrors.CategoryPermanent)
	}

	if err := d.printAssistantReply(ctx, run); err != nil {
		d.stats.RecordError()
		return err
	}

	d.stats.RecordTurn(time.Since(start))
	return nil
}

// pollRun re-polls the run at the fixed interval until it either finishes
// or asks for tool outputs. A terminal run is returned immediately and
// never re-polled.
func (d *Driver) pollRun(ctx context.Context, run *model.Run) (*model.Run, error) {
	for {
		if run.Status.Terminal() || run.Status == model.RunStatusRequiresAction {
			return run, nil
		}

		if err := d.sleep(ctx, d.pollInterval); err != nil {
			return nil, err
		}

		next, err := d.runtime.RetrieveRun(ctx, d.threadID, run.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.CodeRunAbandoned, "polling run", apperrors.CategoryTemporary)
		}
		run = next
		fmt.Fprintf(d.log, "run %s status: %s\n", run.ID, run.Status)
	}
}

// dispatchToolCalls fulfils every tool call of a requires_action batch,
// sequentially in server order. Calls whose tool is unknown, whose
// arguments are malformed, or whose output is empty are omitted from the
// returned outputs.
func (d *Driver) dispatchToolCalls(ctx context.Context, run *model.Run) []model.ToolOutput {
	if run.RequiredAction == nil || run.RequiredAction.SubmitToolOutputs == nil {
		return nil
	}
	calls := run.RequiredAction.SubmitToolOutputs.ToolCalls
	d.stats.RecordToolCalls(len(calls))

	var outputs []model.ToolOutput
	for _, call := range calls {
		name := call.Function.Name
		fmt.Fprintf(d.log, "run %s: tool call %s -> %s(%s)\n", run.ID, call.ID, name, call.Function.Arguments)

		args, err := call.Function.ParseArguments()
		if err != nil {
			fmt.Fprintf(d.log, "run %s: malformed arguments for %s: %v\n", run.ID, name, err)
			continue
		}

		output, err := d.tools.Execute(ctx, name, args)
		if err != nil {
			fmt.Fprintf(d.log, "run %s: tool %s failed: %v\n", run.ID, name, err)
			continue
		}
		if output == "" {
			continue
		}

		outputs = append(outputs, model.ToolOutput{ToolCallID: call.ID, Output: output})
	}
	return outputs
}

// printAssistantReply lists the thread and prints the text of every
// assistant-authored message created during this run. The list endpoint's
// ordering is server-defined; filtering on the run's creation timestamp
// keeps prior turns from being reprinted.
func (d *Driver) printAssistantReply(ctx context.Context, run *model.Run) error {
	messages, err := d.runtime.ListMessages(ctx, d.threadID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeRunFailed, "listing messages", apperrors.CategoryTemporary)
	}

	var sb strings.Builder
	for _, m := range messages {
		if m.Role != "assistant" || m.CreatedAt < run.CreatedAt {
			continue
		}
		sb.WriteString(m.Text())
		sb.WriteString("\n")
	}

	reply := strings.TrimRight(sb.String(), "\n")
	if reply != "" {
		fmt.Fprintln(d.out, reply)
	}
	return nil
}

// printRunDiagnostics dumps a failed run for the user.
func (d *Driver) printRunDiagnostics(run *model.Run) {
	fmt.Fprintf(d.log, "run %s ended with status %s\n", run.ID, run.Status)
	if run.LastError != nil {
		fmt.Fprintf(d.log, "run %s error: %s: %s\n", run.ID, run.LastError.Code, run.LastError.Message)
	}
}

// sleep blocks for the given duration or until the context is canceled.
func (d *Driver) sleep(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(dur):
		return nil
	}
}
