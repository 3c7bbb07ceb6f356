package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"NewsRoundup/internal/classify"
	"NewsRoundup/internal/dedup"
	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/feedback"
	"NewsRoundup/internal/infrastructure/render"
	"NewsRoundup/internal/labels"
	"NewsRoundup/internal/ports"
	"NewsRoundup/internal/sections"
)

// PipelineDeps wires all collaborators into the roundup pipeline.
type PipelineDeps struct {
	Sources     []ports.StorySource
	Classifier  *classify.Classifier
	Organizer   *sections.Organizer
	Interpreter *feedback.Interpreter
	Renderer    ports.Renderer
	Campaigns   ports.CampaignClient
	Tracker     ports.SubmissionTracker
	Table       labels.Table
	Logger      *slog.Logger
}

// RunOptions selects what a single pipeline execution does.
type RunOptions struct {
	Window      domain.EditionWindow
	DryRun      bool // fetch and count only
	PreviewOnly bool // build the digest but skip the campaign draft
	Interactive bool // run the feedback loop before finalizing
	OutputDir   string
	Input       io.Reader // feedback instructions, interactive mode only
	Output      io.Writer // progress and prompts, interactive mode only
}

// RunResult reports what the execution produced.
type RunResult struct {
	Fetched     int
	Sections    domain.SectionMap
	HTML        string
	PreviewPath string
	CampaignID  string
}

// Pipeline sequences fetching, classification, deduplication, organization,
// rendering, the optional feedback loop, and delivery handoff. It is thin
// glue: all interesting logic lives in the components it coordinates.
type Pipeline struct {
	sources     []ports.StorySource
	classifier  *classify.Classifier
	organizer   *sections.Organizer
	interpreter *feedback.Interpreter
	renderer    ports.Renderer
	campaigns   ports.CampaignClient
	tracker     ports.SubmissionTracker
	table       labels.Table
	logger      *slog.Logger
}

// NewPipeline constructs the coordinator.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		sources:     deps.Sources,
		classifier:  deps.Classifier,
		organizer:   deps.Organizer,
		interpreter: deps.Interpreter,
		renderer:    deps.Renderer,
		campaigns:   deps.Campaigns,
		tracker:     deps.Tracker,
		table:       deps.Table,
		logger:      deps.Logger,
	}
}

// Run executes one edition. Core-stage failures never abort the run: a story
// that cannot be classified lands in the catch-all section instead.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	stories := p.fetchAll(ctx, opts.Window)
	result := &RunResult{Fetched: len(stories)}

	if len(stories) == 0 {
		return result, fmt.Errorf("no stories found in window (%s)", opts.Window.Note)
	}
	if opts.DryRun {
		return result, nil
	}

	classified := p.classifier.ClassifyAll(ctx, stories)
	unique := dedup.ByURL(classified)
	p.info("stories prepared", "fetched", len(stories), "unique", len(unique))

	sects := p.organizer.Organize(unique)
	for name, count := range sects.Counts() {
		p.info("section filled", "section", name, "stories", count)
	}

	html, err := p.renderer.Render(sects)
	if err != nil {
		return result, fmt.Errorf("render digest: %w", err)
	}

	writePreview := func(content string) {
		if opts.OutputDir == "" {
			return
		}
		path, wErr := render.WritePreview(content, opts.OutputDir, opts.Window.Until)
		if wErr != nil {
			p.warn("preview write failed", "error", wErr)
			return
		}
		result.PreviewPath = path
	}
	writePreview(html)

	if opts.Interactive && opts.Input != nil {
		loop := feedback.NewLoop(p.interpreter, p.renderer, opts.Input, opts.Output, writePreview, p.logger)
		sects, html, err = loop.Run(ctx, sects, unique)
		if err != nil {
			return result, fmt.Errorf("feedback loop: %w", err)
		}
	}

	result.Sections = sects
	result.HTML = html

	p.pushSubmissionUpdates(ctx, sects)

	if opts.PreviewOnly || p.campaigns == nil {
		return result, nil
	}

	subject := fmt.Sprintf("Daily News Roundup: %s", opts.Window.Until.Format("Monday, January 2, 2006"))
	campaignID, err := p.campaigns.CreateDraft(ctx, subject, html)
	if err != nil {
		return result, fmt.Errorf("create campaign draft: %w", err)
	}
	result.CampaignID = campaignID
	p.info("campaign draft created", "campaign_id", campaignID)

	return result, nil
}

// fetchAll gathers stories from every source; one failing source is logged
// and skipped so the rest of the edition still goes out.
func (p *Pipeline) fetchAll(ctx context.Context, window domain.EditionWindow) []domain.Story {
	var all []domain.Story
	for _, source := range p.sources {
		stories, err := source.FetchWindow(ctx, window)
		if err != nil {
			p.warn("source fetch failed", "error", err)
			continue
		}
		all = append(all, stories...)
	}
	return all
}

// pushSubmissionUpdates reports final source/section assignments for
// submitted stories, translated back into the submission vocabulary. Failures
// are logged only; the digest is already final at this point.
func (p *Pipeline) pushSubmissionUpdates(ctx context.Context, sects domain.SectionMap) {
	if p.tracker == nil {
		return
	}

	var updates []domain.SubmissionUpdate
	for name, stories := range sects {
		for _, story := range stories {
			if story.ID == "" || story.Origin != domain.OriginSubmitted {
				continue
			}
			updates = append(updates, domain.SubmissionUpdate{
				SubmissionID:    story.ID,
				ApprovedSource:  story.Source,
				ApprovedSection: p.table.ToExternal(name),
			})
		}
	}
	if len(updates) == 0 {
		return
	}

	if err := p.tracker.UpdateApproved(ctx, updates); err != nil {
		p.warn("submission updates failed", "count", len(updates), "error", err)
		return
	}
	p.info("submission updates pushed", "count", len(updates))
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
