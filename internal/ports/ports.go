package ports

import (
	"context"
	"time"

	"NewsRoundup/internal/domain"
)

// StorySource pulls candidate stories from an upstream provider (feeds,
// scrapers, the submission service) for a single edition window.
type StorySource interface {
	FetchWindow(ctx context.Context, window domain.EditionWindow) ([]domain.Story, error)
}

// ClassifierOracle is the external categorization service. It is untrusted
// and fallible: callers own all fallback and default-label resolution.
type ClassifierOracle interface {
	Classify(ctx context.Context, batch []domain.Story) ([]domain.ClassificationResult, error)
}

// FeedbackOracle turns a freeform edit instruction into structured actions,
// given a textual summary of the current sections for context.
type FeedbackOracle interface {
	Interpret(ctx context.Context, sectionSummary, instruction string) ([]domain.Action, error)
}

// Renderer builds the digest output from the final section map.
type Renderer interface {
	Render(sections domain.SectionMap) (string, error)
}

// CampaignClient creates a draft campaign in the mailing platform.
// Drafts only; sending stays a human decision outside this system.
type CampaignClient interface {
	CreateDraft(ctx context.Context, subject, html string) (string, error)
}

// SubmissionTracker receives approved source/section assignments for
// submitted stories so the service can notify submitters.
type SubmissionTracker interface {
	UpdateApproved(ctx context.Context, updates []domain.SubmissionUpdate) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
