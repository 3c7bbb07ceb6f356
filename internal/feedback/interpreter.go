// Package feedback turns freeform human edit requests into structured
// actions via the feedback oracle and applies them safely to the section map.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/ports"
)

// How many headlines per section the oracle sees for context.
const summaryStoriesPerSection = 15

// Report collects what one application pass did, for display to the editor.
type Report struct {
	Applied []string // successful mutations, human readable
	Notes   []string // oracle notes (verbatim) and no-op explanations
}

// Interpreter calls the feedback oracle and applies the resulting actions.
type Interpreter struct {
	oracle       ports.FeedbackOracle
	sectionOrder []string
	logger       *slog.Logger
}

// NewInterpreter wires the oracle. sectionOrder fixes the order sections
// appear in the prompt summary.
func NewInterpreter(oracle ports.FeedbackOracle, sectionOrder []string, logger *slog.Logger) *Interpreter {
	return &Interpreter{oracle: oracle, sectionOrder: sectionOrder, logger: logger}
}

// Process runs one instruction through the oracle and applies the actions.
//
// If the oracle call fails (transport or parse), the returned map is the very
// map passed in, untouched, and the failure is surfaced as a note — never as
// a mutation and never as a panic. The stories slice provides prompt context
// only and is not mutated.
func (i *Interpreter) Process(ctx context.Context, sects domain.SectionMap, stories []domain.Story, instruction string) (domain.SectionMap, Report) {
	if i.oracle == nil {
		return sects, Report{Notes: []string{"feedback not applied: oracle not configured"}}
	}

	summary := i.buildSummary(sects, stories)

	actions, err := i.oracle.Interpret(ctx, summary, instruction)
	if err != nil {
		i.warn("feedback oracle call failed, leaving sections untouched", "error", err)
		return sects, Report{Notes: []string{fmt.Sprintf("feedback not applied: %v", err)}}
	}

	return Apply(sects, actions)
}

// Apply executes validated actions against the section map in place.
// Validation rules:
//   - unknown from_section: no-op (nothing to search)
//   - unknown to_section: a new bucket is created
//   - no headline match: no-op, reported as "no matching stories"
//   - note: surfaced verbatim, never mutates
func Apply(sects domain.SectionMap, actions []domain.Action) (domain.SectionMap, Report) {
	var report Report

	for _, action := range actions {
		switch action.Type {
		case domain.ActionNote:
			if action.Message != "" {
				report.Notes = append(report.Notes, action.Message)
			}

		case domain.ActionMove:
			if action.FromSection == "" || action.ToSection == "" {
				report.Notes = append(report.Notes, "move action missing sections, skipped")
				continue
			}
			story, ok := takeFirstMatch(sects, action.FromSection, action.HeadlineContains)
			if !ok {
				report.Notes = append(report.Notes, fmt.Sprintf("no matching stories for %q in %s", action.HeadlineContains, action.FromSection))
				continue
			}
			sects[action.ToSection] = append(sects[action.ToSection], story)
			report.Applied = append(report.Applied, fmt.Sprintf("moved %q from %s to %s", story.Headline, action.FromSection, action.ToSection))

		case domain.ActionRemove:
			if action.FromSection == "" {
				report.Notes = append(report.Notes, "remove action missing section, skipped")
				continue
			}
			story, ok := takeFirstMatch(sects, action.FromSection, action.HeadlineContains)
			if !ok {
				report.Notes = append(report.Notes, fmt.Sprintf("no matching stories for %q in %s", action.HeadlineContains, action.FromSection))
				continue
			}
			report.Applied = append(report.Applied, fmt.Sprintf("removed %q from %s", story.Headline, action.FromSection))

		default:
			report.Notes = append(report.Notes, fmt.Sprintf("unknown action %q, skipped", action.Type))
		}
	}

	return sects, report
}

// takeFirstMatch removes and returns the first story (within-section order)
// whose headline contains needle case-insensitively. An unknown section or a
// miss returns ok=false with the map untouched.
func takeFirstMatch(sects domain.SectionMap, section, needle string) (domain.Story, bool) {
	list, ok := sects[section]
	if !ok {
		return domain.Story{}, false
	}

	lowered := strings.ToLower(needle)
	for idx, story := range list {
		if !strings.Contains(strings.ToLower(story.Headline), lowered) {
			continue
		}
		updated := make([]domain.Story, 0, len(list)-1)
		updated = append(updated, list[:idx]...)
		updated = append(updated, list[idx+1:]...)
		sects[section] = updated
		return story, true
	}

	return domain.Story{}, false
}

// buildSummary renders the current sections as prompt context, capped per
// section so huge editions stay inside the oracle's window.
func (i *Interpreter) buildSummary(sects domain.SectionMap, stories []domain.Story) string {
	var b strings.Builder

	order := i.sectionOrder
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		seen[name] = true
	}
	// Feedback-created buckets are not in the configured order; list them too.
	for name := range sects {
		if !seen[name] {
			order = append(order, name)
		}
	}

	for _, name := range order {
		list := sects[name]
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s (%d stories):\n", strings.ToUpper(name), len(list))
		for idx, story := range list {
			if idx >= summaryStoriesPerSection {
				fmt.Fprintf(&b, "  ... and %d more\n", len(list)-summaryStoriesPerSection)
				break
			}
			fmt.Fprintf(&b, "  %d. %s (%s)\n", idx+1, story.Headline, story.Source)
		}
	}

	fmt.Fprintf(&b, "\nTotal stories in this edition: %d\n", len(stories))
	return b.String()
}

func (i *Interpreter) warn(msg string, args ...any) {
	if i.logger != nil {
		i.logger.Warn(msg, args...)
	}
}
