// Package classify adapts the external classification oracle into the
// pipeline. The oracle is fallible; this adapter owns batching, fallback,
// default-label resolution, submission-label translation, and the
// deterministic priority post-filter. Nothing in here can fail the pipeline:
// the worst outcome for any story is the catch-all section.
package classify

import (
	"context"
	"fmt"
	"log/slog"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/labels"
	"NewsRoundup/internal/ports"
)

// Confidence assigned when classification could not be obtained. Kept below
// 0.5 so downstream consumers can tell defaults from real answers.
const fallbackConfidence = 0.3

// Classifier assigns a section label to every story.
type Classifier struct {
	oracle    ports.ClassifierOracle
	set       labels.Set
	table     labels.Table
	exclusion []string
	batchSize int
	logger    *slog.Logger
}

// New wires the oracle with the label enum, the submission translation table,
// and the priority exclusion keywords.
func New(oracle ports.ClassifierOracle, set labels.Set, table labels.Table, exclusion []string, batchSize int, logger *slog.Logger) *Classifier {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Classifier{
		oracle:    oracle,
		set:       set,
		table:     table,
		exclusion: exclusion,
		batchSize: batchSize,
		logger:    logger,
	}
}

// ClassifyAll resolves a section for every story and never returns an error.
// Pre-labeled submissions bypass the oracle through the translation table;
// everything else goes to the oracle in batches. The priority post-filter
// runs last over all resolved labels.
func (c *Classifier) ClassifyAll(ctx context.Context, stories []domain.Story) []domain.Story {
	resolved := make([]domain.Story, 0, len(stories))
	var pending []domain.Story

	for _, story := range stories {
		if story.Origin == domain.OriginSubmitted && story.PreAssigned != "" {
			story.Section = c.table.ToInternal(story.PreAssigned)
			story.Confidence = 1.0
			resolved = append(resolved, story)
			continue
		}
		pending = append(pending, story)
	}

	c.debug("classification split", "pre_labeled", len(resolved), "to_classify", len(pending))

	for start := 0; start < len(pending); start += c.batchSize {
		end := start + c.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		resolved = append(resolved, c.classifyBatch(ctx, pending[start:end])...)
	}

	for i := range resolved {
		resolved[i] = c.applyPriorityFilter(resolved[i])
	}

	return resolved
}

// classifyBatch issues one oracle call for the whole batch. A transport
// failure or a response without one entry per story degrades to per-story
// calls; the batch itself is never lost.
func (c *Classifier) classifyBatch(ctx context.Context, batch []domain.Story) []domain.Story {
	if c.oracle == nil {
		out := make([]domain.Story, len(batch))
		for i, story := range batch {
			out[i] = c.defaultLabel(story, fmt.Errorf("oracle not configured"))
		}
		return out
	}

	results, err := c.oracle.Classify(ctx, batch)
	if err != nil {
		c.warn("batch classification failed, falling back to per-story calls", "size", len(batch), "error", err)
		return c.classifyIndividually(ctx, batch)
	}
	if len(results) != len(batch) {
		c.warn("batch classification returned wrong entry count, falling back", "want", len(batch), "got", len(results))
		return c.classifyIndividually(ctx, batch)
	}

	out := make([]domain.Story, len(batch))
	for i, story := range batch {
		out[i] = c.applyResult(story, results[i])
	}
	return out
}

// classifyIndividually runs the identical per-story contract. A single bad
// story resolves to the default label and never aborts the rest.
func (c *Classifier) classifyIndividually(ctx context.Context, batch []domain.Story) []domain.Story {
	out := make([]domain.Story, len(batch))
	for i, story := range batch {
		results, err := c.oracle.Classify(ctx, []domain.Story{story})
		if err != nil || len(results) != 1 {
			c.warn("story classification failed, using default label", "headline", story.Headline, "error", err)
			out[i] = c.defaultLabel(story, err)
			continue
		}
		out[i] = c.applyResult(story, results[0])
	}
	return out
}

func (c *Classifier) applyResult(story domain.Story, result domain.ClassificationResult) domain.Story {
	if !c.set.Has(result.Section) {
		c.warn("oracle returned label outside the enum, using default", "label", result.Section, "headline", story.Headline)
		return c.defaultLabel(story, fmt.Errorf("label %q not in enum", result.Section))
	}
	story.Section = result.Section
	story.Confidence = result.Confidence
	story.Reasoning = result.Reasoning
	return story
}

func (c *Classifier) defaultLabel(story domain.Story, cause error) domain.Story {
	story.Section = c.set.CatchAll()
	story.Confidence = fallbackConfidence
	if cause != nil {
		story.Reasoning = fmt.Sprintf("classification failed: %v", cause)
	} else {
		story.Reasoning = "classification failed"
	}
	return story
}

// applyPriorityFilter demotes priority-labeled stories whose headline matches
// an exclusion keyword. Deterministic local text matching only; it never
// calls the oracle and never touches non-priority labels.
func (c *Classifier) applyPriorityFilter(story domain.Story) domain.Story {
	if story.Section != c.set.Priority() {
		return story
	}
	keyword, ok := labels.MatchKeywords(story.Headline, c.exclusion)
	if !ok {
		return story
	}
	story.Section = c.set.CatchAll()
	story.Reasoning = fmt.Sprintf("moved out of %s: headline matches exclusion keyword %q", c.set.Priority(), keyword)
	c.debug("priority filter demoted story", "headline", story.Headline, "keyword", keyword)
	return story
}

func (c *Classifier) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func (c *Classifier) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
