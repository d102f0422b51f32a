// Package repl provides the line-oriented interactive shell.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// TurnRunner executes one conversation turn.
type TurnRunner interface {
	RunTurn(ctx context.Context, userText string) error
}

// Shell reads user lines and hands them to the driver. The sentinel
// "exit" (case-insensitive) terminates the loop.
type Shell struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// New creates a shell reading from in and writing prompts to out.
func New(in io.Reader, out io.Writer) *Shell {
	return &Shell{
		scanner: bufio.NewScanner(in),
		out:     out,
	}
}

// Prompt prints a label and reads one trimmed line. The second return is
// false when input is exhausted.
func (s *Shell) Prompt(label string) (string, bool) {
	fmt.Fprint(s.out, promptStyle.Render(label)+" ")
	if !s.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.scanner.Text()), true
}

// PromptID asks for an existing id of the named resource. It returns
// ("", true) when the user wants a fresh resource (the literal "no").
func (s *Shell) PromptID(resource string) (string, bool) {
	answer, ok := s.Prompt(fmt.Sprintf(
		"Enter your %s id to reuse it, or 'no' to create a new one:", resource))
	if !ok {
		return "", false
	}
	if strings.EqualFold(answer, "no") {
		return "", true
	}
	return answer, true
}

// Loop runs the conversation loop until the exit sentinel or EOF. A failed
// turn is reported and the loop continues; one bad turn never ends the
// session.
func (s *Shell) Loop(ctx context.Context, runner TurnRunner) error {
	for {
		line, ok := s.Prompt("\nYour request:")
		if !ok {
			return nil
		}
		if strings.EqualFold(line, "exit") {
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprintln(s.out, assistantStyle.Render("\n====== Assistant Response ======"))
		if err := runner.RunTurn(ctx, line); err != nil {
			fmt.Fprintln(s.out, errorStyle.Render(fmt.Sprintf("turn failed: %v", err)))
		}
	}
}
