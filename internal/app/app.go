package app

import (
	"context"
	"log/slog"

	"NewsRoundup/internal/classify"
	"NewsRoundup/internal/config"
	"NewsRoundup/internal/feedback"
	"NewsRoundup/internal/infrastructure/llm"
	"NewsRoundup/internal/infrastructure/mailer"
	"NewsRoundup/internal/infrastructure/parser"
	"NewsRoundup/internal/infrastructure/render"
	"NewsRoundup/internal/infrastructure/scheduler"
	"NewsRoundup/internal/infrastructure/submissions"
	"NewsRoundup/internal/labels"
	"NewsRoundup/internal/logging"
	"NewsRoundup/internal/ports"
	"NewsRoundup/internal/scanner"
	"NewsRoundup/internal/sections"
	"NewsRoundup/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg       config.Config
	pipeline  *usecase.Pipeline
	scheduler *usecase.Scheduler
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	set := buildLabelSet(cfg.Digest)
	table := labels.NewTable(cfg.Digest.SubmissionSections, set.CatchAll())

	registry := scanner.NewRegistry()
	registry.Register(parser.NewRSSScanner(nil))
	registry.Register(parser.NewListingScanner(nil))

	feedSource := parser.NewStrategySource(registry, cfg.Feeds, cfg.Digest.SkipHeadlinePatterns, baseLogger.With("component", "feeds"))

	sources := []ports.StorySource{feedSource}

	var tracker ports.SubmissionTracker
	if cfg.Submissions.BaseURL != "" {
		subClient := submissions.NewClient(cfg.Submissions, baseLogger.With("component", "submissions"))
		sources = append(sources, subClient)
		tracker = subClient
	}

	var classifierOracle ports.ClassifierOracle
	var feedbackOracle ports.FeedbackOracle
	if cfg.Oracle.APIKey != "" {
		client := llm.NewClient(cfg.Oracle, set)
		classifierOracle = client
		feedbackOracle = client
	} else {
		baseLogger.Warn("oracle api key missing, all stories will land in the catch-all section")
	}

	var campaigns ports.CampaignClient
	if cfg.Mailer.BaseURL != "" {
		campaigns = mailer.NewClient(cfg.Mailer)
	}

	classifier := classify.New(
		classifierOracle,
		set,
		table,
		cfg.Digest.ExclusionKeywords,
		cfg.Digest.BatchSize,
		baseLogger.With("component", "classifier"),
	)

	organizer := sections.New(set, buildKeywordGroups(cfg.Digest.OverflowGroups), cfg.Digest.MaxPriorityStories, baseLogger.With("component", "organizer"))
	interpreter := feedback.NewInterpreter(feedbackOracle, set.Names(), baseLogger.With("component", "feedback"))
	renderer := render.NewHTMLRenderer(set, cfg.Digest.MaxPerSection)

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:     sources,
		Classifier:  classifier,
		Organizer:   organizer,
		Interpreter: interpreter,
		Renderer:    renderer,
		Campaigns:   campaigns,
		Tracker:     tracker,
		Table:       table,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewCronScheduler(cfg.Scheduler.CronExpression, cfg.Scheduler.Location())
	sched := usecase.NewScheduler(driver, pipeline, "drafts")

	return &Application{cfg: cfg, pipeline: pipeline, scheduler: sched}
}

// Config exposes the effective configuration.
func (a *Application) Config() config.Config {
	return a.cfg
}

// Run executes one pipeline pass with the given options.
func (a *Application) Run(ctx context.Context, opts usecase.RunOptions) (*usecase.RunResult, error) {
	return a.pipeline.Run(ctx, opts)
}

// StartScheduler begins cron-driven runs; it returns immediately.
func (a *Application) StartScheduler(ctx context.Context) error {
	return a.scheduler.Start(ctx)
}

// StopScheduler halts cron-driven runs.
func (a *Application) StopScheduler(ctx context.Context) error {
	return a.scheduler.Stop(ctx)
}

func buildLabelSet(cfg config.DigestConfig) labels.Set {
	ordered := make([]labels.Label, 0, len(cfg.Sections))
	for _, section := range cfg.Sections {
		ordered = append(ordered, labels.Label{
			Name:        section.Name,
			Display:     section.Display,
			Description: section.Description,
		})
	}
	return labels.NewSet(ordered, cfg.PrioritySection, cfg.CatchAllSection)
}

func buildKeywordGroups(cfg []config.KeywordGroupConfig) []labels.KeywordGroup {
	groups := make([]labels.KeywordGroup, 0, len(cfg))
	for _, group := range cfg {
		groups = append(groups, labels.KeywordGroup{
			Section:  group.Section,
			Keywords: group.Keywords,
		})
	}
	return groups
}
