// Package llm implements both oracle ports against any OpenAI-compatible
// chat-completions API. The oracle is treated as untrusted: responses get
// their surrounding delimiters stripped before parsing, and every parse
// problem surfaces as an error for the adapter layer to resolve.
package llm

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
	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/labels"
	"NewsRoundup/internal/ports"
)

// Client talks to the external classification/feedback oracle.
type Client struct {
	endpoint     string
	model        string
	apiKey       string
	instructions string
	set          labels.Set
	httpClient   *http.Client
}

var _ ports.ClassifierOracle = (*Client)(nil)
var _ ports.FeedbackOracle = (*Client)(nil)

// NewClient builds a client from configuration. The label enum goes into
// every classification prompt.
func NewClient(cfg config.OracleConfig, set labels.Set) *Client {
	return &Client{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		instructions: cfg.Instructions,
		set:          set,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Classify sends the whole batch in one request and expects a JSON array with
// one entry per story, in order. Shape violations are returned as errors; the
// caller owns fallback.
func (c *Client) Classify(ctx context.Context, batch []domain.Story) ([]domain.ClassificationResult, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	content, err := c.complete(ctx, c.classifyPrompt(batch))
	if err != nil {
		return nil, err
	}

	var entries []struct {
		Story      int     `json:"story"`
		Section    string  `json:"section"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(ExtractPayload(content)), &entries); err != nil {
		return nil, fmt.Errorf("parse classification response: %w", err)
	}

	results := make([]domain.ClassificationResult, 0, len(entries))
	for _, entry := range entries {
		results = append(results, domain.ClassificationResult{
			Section:    entry.Section,
			Confidence: entry.Confidence,
			Reasoning:  entry.Reasoning,
		})
	}
	return results, nil
}

// Interpret asks the oracle to translate a freeform instruction into the
// fixed action schema, given the section summary for context.
func (c *Client) Interpret(ctx context.Context, sectionSummary, instruction string) ([]domain.Action, error) {
	content, err := c.complete(ctx, c.interpretPrompt(sectionSummary, instruction))
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Actions []domain.Action `json:"actions"`
	}
	if err := json.Unmarshal([]byte(ExtractPayload(content)), &parsed); err != nil {
		return nil, fmt.Errorf("parse feedback response: %w", err)
	}

	return parsed.Actions, nil
}

func (c *Client) classifyPrompt(batch []domain.Story) string {
	var b strings.Builder

	b.WriteString("Classify these news stories for a daily newsletter.\n\nStories:\n")
	for i, story := range batch {
		fmt.Fprintf(&b, "[%d] Headline: %s\n    URL: %s\n    Source: %s\n", i+1, story.Headline, story.URL, story.Source)
		if story.Summary != "" {
			fmt.Fprintf(&b, "    Summary: %s\n", story.Summary)
		}
		b.WriteString("\n")
	}

	b.WriteString("Sections:\n")
	for _, label := range c.set.Ordered() {
		fmt.Fprintf(&b, "- %s: %s\n", label.Name, label.Description)
	}

	fmt.Fprintf(&b, `
Respond with a JSON array only - one object per story in order:
[{"story": 1, "section": "section_name", "confidence": 0.0-1.0, "reasoning": "brief explanation"}, ...]

Rules:
- Breaking news, major statewide impact, multi-outlet coverage = "%s"
- Light/fun stories, arts, sports, human interest = "%s"
- Choose the most specific applicable section
- Confidence should reflect how clearly the story fits the section`,
		c.set.Priority(), c.set.CatchAll())

	return b.String()
}

func (c *Client) interpretPrompt(sectionSummary, instruction string) string {
	var b strings.Builder

	b.WriteString("You are helping edit a newsletter. Here are the current sections:\n")
	b.WriteString(sectionSummary)
	fmt.Fprintf(&b, "\nThe editor's feedback is:\n%q\n", instruction)

	b.WriteString(`
Translate the feedback into a JSON object with an "actions" array. Each action is one of:
- {"action": "move", "headline_contains": "partial headline text", "from_section": "section_name", "to_section": "section_name"}
- {"action": "remove", "headline_contains": "partial headline text", "from_section": "section_name"}
- {"action": "note", "message": "explanation if the feedback cannot be processed"}

Valid sections: ` + strings.Join(c.set.Names(), ", ") + `

Respond with JSON only, no explanation.`)

	return b.String()
}

// complete performs one chat-completions round trip and returns the assistant
// message content.
func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	if c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("oracle client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": safeInstructions(c.instructions)},
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal oracle payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call oracle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("oracle error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode oracle response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("oracle returned no choices")
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// ExtractPayload strips markdown code fences and any prose wrapped around the
// JSON payload. Oracles routinely decorate structured answers; parsing must
// survive that.
func ExtractPayload(content string) string {
	content = strings.TrimSpace(content)

	if idx := strings.Index(content, "```"); idx >= 0 {
		content = content[idx+3:]
		content = strings.TrimPrefix(content, "json")
		if end := strings.Index(content, "```"); end >= 0 {
			content = content[:end]
		}
		content = strings.TrimSpace(content)
	}

	start := strings.IndexAny(content, "[{")
	if start < 0 {
		return content
	}
	end := strings.LastIndexAny(content, "]}")
	if end < start {
		return content
	}
	return content[start : end+1]
}

func safeInstructions(instructions string) string {
	instructions = strings.TrimSpace(instructions)
	if instructions == "" {
		return "You classify news stories and interpret newsletter edit requests."
	}
	return instructions
}
