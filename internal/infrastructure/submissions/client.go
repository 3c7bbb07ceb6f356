// Package submissions talks to the reader-submission service. Submitted
// stories arrive pre-labeled in the service's own section vocabulary; the
// classify layer translates them into the internal enum.
package submissions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"NewsRoundup/internal/config"
	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/ports"
)

// Client implements both the StorySource and SubmissionTracker ports against
// the submission service's JSON API.
type Client struct {
	baseURL    string
	apiToken   string
	daysBack   int
	httpClient *http.Client
	logger     *slog.Logger
}

var _ ports.StorySource = (*Client)(nil)
var _ ports.SubmissionTracker = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.SubmissionsConfig, logger *slog.Logger) *Client {
	daysBack := cfg.DaysBack
	if daysBack <= 0 {
		daysBack = 7
	}
	return &Client{
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
		apiToken: cfg.APIToken,
		daysBack: daysBack,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type record struct {
	ID     string `json:"id"`
	Fields struct {
		Headline  string `json:"Headline"`
		URL       string `json:"URL"`
		Source    string `json:"Source"`
		Section   string `json:"Section"`
		Summary   string `json:"Summary"`
		Name      string `json:"Name"`
		Email     string `json:"Email"`
		DateAdded string `json:"Date added"`
	} `json:"fields"`
}

type recordsPayload struct {
	Records []record `json:"records"`
}

// FetchWindow returns recent submissions as stories. Submissions follow their
// own look-back (days, not the edition window) because a reader may submit a
// story days before it fits an edition. Records without both a headline and a
// URL are dropped.
func (c *Client) FetchWindow(ctx context.Context, window domain.EditionWindow) ([]domain.Story, error) {
	if c.baseURL == "" {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/records", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch submissions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submission service returned %s", resp.Status)
	}

	var payload recordsPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}

	cutoff := window.Until.AddDate(0, 0, -c.daysBack)

	var stories []domain.Story
	for _, rec := range payload.Records {
		headline := strings.TrimSpace(rec.Fields.Headline)
		link := strings.TrimSpace(rec.Fields.URL)
		if headline == "" || link == "" {
			continue
		}

		if added := parseDateAdded(rec.Fields.DateAdded); !added.IsZero() && added.Before(cutoff) {
			continue
		}

		stories = append(stories, domain.Story{
			ID:             rec.ID,
			Headline:       headline,
			URL:            link,
			Source:         strings.TrimSpace(rec.Fields.Source),
			Summary:        rec.Fields.Summary,
			PreAssigned:    rec.Fields.Section,
			Origin:         domain.OriginSubmitted,
			SubmitterName:  rec.Fields.Name,
			SubmitterEmail: rec.Fields.Email,
		})
	}

	c.debug("fetched submissions", "total", len(payload.Records), "kept", len(stories))
	return stories, nil
}

// UpdateApproved pushes final source/section assignments back so the service
// can notify submitters. Both fields must be set to trigger the notification.
func (c *Client) UpdateApproved(ctx context.Context, updates []domain.SubmissionUpdate) error {
	if c.baseURL == "" || len(updates) == 0 {
		return nil
	}

	payload := recordsPayload{Records: make([]record, 0, len(updates))}
	for _, update := range updates {
		var rec record
		rec.ID = update.SubmissionID
		rec.Fields.Source = update.ApprovedSource
		rec.Fields.Section = update.ApprovedSection
		payload.Records = append(payload.Records, rec)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal updates: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/records", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("update submissions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("submission update failed %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	c.debug("updated submissions", "count", len(updates))
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiToken)
	}
}

func parseDateAdded(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
