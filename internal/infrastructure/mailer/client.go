// Package mailer creates draft campaigns in the mailing platform. Sending is
// always a human action taken in the platform itself.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsRoundup/internal/config"
	"NewsRoundup/internal/ports"
)

// Client implements CampaignClient against a Mailchimp-style REST API.
type Client struct {
	baseURL     string
	apiKey      string
	listID      string
	fromName    string
	replyTo     string
	previewText string
	httpClient  *http.Client
}

var _ ports.CampaignClient = (*Client)(nil)

// NewClient builds a client from configuration.
func NewClient(cfg config.MailerConfig) *Client {
	return &Client{
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		listID:      cfg.ListID,
		fromName:    cfg.FromName,
		replyTo:     cfg.ReplyTo,
		previewText: cfg.PreviewText,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// CreateDraft creates the campaign, uploads the HTML content, and returns the
// campaign id.
func (c *Client) CreateDraft(ctx context.Context, subject, html string) (string, error) {
	if c.baseURL == "" || c.apiKey == "" || c.listID == "" {
		return "", fmt.Errorf("mailer client misconfigured")
	}

	campaign := map[string]any{
		"type": "regular",
		"recipients": map[string]string{
			"list_id": c.listID,
		},
		"settings": map[string]string{
			"subject_line": subject,
			"title":        fmt.Sprintf("Roundup - %s", time.Now().Format("2006-01-02")),
			"from_name":    c.fromName,
			"reply_to":     c.replyTo,
			"preview_text": c.previewText,
		},
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := c.post(ctx, "/campaigns", campaign, &created); err != nil {
		return "", fmt.Errorf("create campaign: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("campaign created without id")
	}

	content := map[string]string{"html": html}
	if err := c.post(ctx, "/campaigns/"+created.ID+"/content", content, nil); err != nil {
		return "", fmt.Errorf("set campaign content: %w", err)
	}

	return created.ID, nil
}

func (c *Client) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("mailer error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
