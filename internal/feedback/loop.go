package feedback

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/ports"
)

// State enumerates the feedback-loop states.
type State int

const (
	StateAwaitingFeedback State = iota
	StateApplying
	StateRefreshing
	StateDone
)

const (
	doneKeyword    = "done"
	refreshKeyword = "refresh"
)

// Transition maps one input line from AwaitingFeedback to the next state.
// An empty line or the terminal keyword finishes the session; the refresh
// keyword regenerates the preview; any other non-empty line is an edit
// instruction.
func Transition(line string) State {
	line = strings.TrimSpace(line)
	switch {
	case line == "" || strings.EqualFold(line, doneKeyword):
		return StateDone
	case strings.EqualFold(line, refreshKeyword):
		return StateRefreshing
	default:
		return StateApplying
	}
}

// Loop drives the interactive refinement session. It exclusively owns the
// section map for the session's duration; every mutation goes through the
// interpreter's validated action application. Reads block synchronously on
// the next instruction; there is no overlapping feedback processing.
type Loop struct {
	interpreter *Interpreter
	renderer    ports.Renderer
	in          *bufio.Scanner
	out         io.Writer
	onRender    func(html string) // invoked after each (re)render, e.g. to update the preview file
	logger      *slog.Logger
}

// NewLoop builds the session driver. onRender may be nil.
func NewLoop(interpreter *Interpreter, renderer ports.Renderer, in io.Reader, out io.Writer, onRender func(string), logger *slog.Logger) *Loop {
	return &Loop{
		interpreter: interpreter,
		renderer:    renderer,
		in:          bufio.NewScanner(in),
		out:         out,
		onRender:    onRender,
		logger:      logger,
	}
}

// Run iterates until an empty line, the terminal keyword, or input EOF, then
// commits the current section map as final output and returns it alongside
// the final render.
func (l *Loop) Run(ctx context.Context, sects domain.SectionMap, stories []domain.Story) (domain.SectionMap, string, error) {
	fmt.Fprintln(l.out, "You can now provide feedback to refine the newsletter.")
	fmt.Fprintln(l.out, "Examples:")
	fmt.Fprintln(l.out, "  - 'Move the NJ Transit story to politics'")
	fmt.Fprintln(l.out, "  - 'Remove the carjacking story from top stories'")
	fmt.Fprintf(l.out, "Type '%s' (or an empty line) when satisfied, '%s' to re-render the preview.\n\n", doneKeyword, refreshKeyword)

	state := StateAwaitingFeedback
	for state != StateDone {
		fmt.Fprintf(l.out, "Feedback (or '%s'): ", doneKeyword)

		if !l.in.Scan() {
			break
		}
		line := strings.TrimSpace(l.in.Text())

		switch Transition(line) {
		case StateDone:
			state = StateDone
		case StateRefreshing:
			l.refresh(sects)
			state = StateAwaitingFeedback
		case StateApplying:
			sects = l.apply(ctx, sects, stories, line)
			state = StateAwaitingFeedback
		}
	}

	html, err := l.renderer.Render(sects)
	if err != nil {
		return sects, "", fmt.Errorf("render final digest: %w", err)
	}
	if l.onRender != nil {
		l.onRender(html)
	}
	return sects, html, nil
}

// apply runs exactly one action-application pass. Success or no-op, it always
// hands control back to the prompt; a failing oracle call only produces a
// note.
func (l *Loop) apply(ctx context.Context, sects domain.SectionMap, stories []domain.Story, instruction string) domain.SectionMap {
	fmt.Fprintln(l.out, "  Processing feedback...")

	sects, report := l.interpreter.Process(ctx, sects, stories, instruction)

	for _, msg := range report.Applied {
		fmt.Fprintf(l.out, "  * %s\n", msg)
	}
	for _, note := range report.Notes {
		fmt.Fprintf(l.out, "  note: %s\n", note)
	}
	if len(report.Applied) == 0 && len(report.Notes) == 0 {
		fmt.Fprintln(l.out, "  No changes requested.")
	}

	if len(report.Applied) > 0 {
		l.refresh(sects)
	}
	return sects
}

func (l *Loop) refresh(sects domain.SectionMap) {
	html, err := l.renderer.Render(sects)
	if err != nil {
		l.warn("preview render failed", "error", err)
		fmt.Fprintln(l.out, "  Preview could not be refreshed.")
		return
	}
	if l.onRender != nil {
		l.onRender(html)
	}
	fmt.Fprintln(l.out, "  Preview refreshed.")
}

func (l *Loop) warn(msg string, args ...any) {
	if l.logger != nil {
		l.logger.Warn(msg, args...)
	}
}
