package parser

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/scanner"
)

// RSS pubDate formats seen in the wild, tried in order.
var pubDateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"2006-01-02T15:04:05Z07:00",
}

// RSSScanner pulls RSS 2.0 feeds and keeps items inside the edition window.
type RSSScanner struct {
	client *http.Client
}

// NewRSSScanner wires an HTTP client; a nil client gets a 20s-timeout default.
func NewRSSScanner(client *http.Client) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *RSSScanner) Name() string {
	return "rss"
}

type rssDocument struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

// Scan walks each endpoint and returns every item published inside the
// requested window. Items without a parsable date are kept; dropping a story
// over a malformed timestamp is worse than reviewing one extra headline.
func (s *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Story, error) {
	if len(req.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints provided for site %s", req.SiteName)
	}

	var results []domain.Story
	for _, endpoint := range req.Endpoints {
		doc, err := s.fetchFeed(ctx, endpoint.URL)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: %w", endpoint.Name, err)
		}

		for _, item := range doc.Channel.Items {
			published := parsePubDate(item.PubDate)
			if !req.Window.Contains(published) {
				continue
			}
			results = append(results, domain.Story{
				Headline:    strings.TrimSpace(item.Title),
				URL:         strings.TrimSpace(item.Link),
				Summary:     strings.TrimSpace(item.Description),
				Source:      req.SiteName,
				PublishedAt: published,
				Origin:      domain.OriginAggregated,
			})
		}
	}

	return results, nil
}

func (s *RSSScanner) fetchFeed(ctx context.Context, feedURL string) (*rssDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRoundup/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	var doc rssDocument
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	return &doc, nil
}

func parsePubDate(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range pubDateFormats {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
