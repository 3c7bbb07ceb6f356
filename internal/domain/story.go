package domain

import "time"

// Origin tells where a story entered the pipeline.
type Origin string

const (
	// OriginAggregated marks stories pulled from feeds and scrapers.
	OriginAggregated Origin = "aggregated"
	// OriginSubmitted marks stories coming from the submission service.
	OriginSubmitted Origin = "submitted"
)

// Story is the core entity flowing through the digest pipeline.
// Included stories always carry a non-empty Headline and URL; the URL is the
// deduplication identity key (exact string equality, no normalization).
type Story struct {
	ID          string // submission-service record id, empty for aggregated stories
	Headline    string
	URL         string
	Source      string
	Summary     string
	PublishedAt time.Time
	Origin      Origin

	// PreAssigned holds the external-vocabulary label a trusted submission
	// arrived with; such stories bypass the classification oracle.
	PreAssigned string

	// Set by classification and possibly overridden downstream.
	Section    string
	Confidence float64
	Reasoning  string

	SubmitterName  string
	SubmitterEmail string
}

// ClassificationResult is one per-story answer from the classification oracle.
type ClassificationResult struct {
	Section    string  `json:"section"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning,omitempty"`
}

// SubmissionUpdate is pushed back to the submission-tracking service once a
// submitted story's source and section are final.
type SubmissionUpdate struct {
	SubmissionID    string `json:"submission_id"`
	ApprovedSource  string `json:"approved_source"`
	ApprovedSection string `json:"approved_section"`
}
