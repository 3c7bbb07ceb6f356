package parser

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"NewsRoundup/internal/config"
	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/ports"
	"NewsRoundup/internal/scanner"
)

// StrategySource implements StorySource via registered scanner strategies.
// A single failing site is logged and skipped; other sites still contribute.
type StrategySource struct {
	registry     *scanner.Registry
	feeds        []config.FeedConfig
	skipPatterns []string
	logger       *slog.Logger
}

var _ ports.StorySource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined feeds and
// the generic-broadcast skip patterns.
func NewStrategySource(reg *scanner.Registry, feeds []config.FeedConfig, skipPatterns []string, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry:     reg,
		feeds:        feeds,
		skipPatterns: skipPatterns,
		logger:       log,
	}
}

// FetchWindow iterates over configured feeds and executes their scanners.
func (s *StrategySource) FetchWindow(ctx context.Context, window domain.EditionWindow) ([]domain.Story, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch window", "feeds", len(s.feeds), "since", window.Since.Format("2006-01-02 15:04"))

	var aggregated []domain.Story
	for _, feed := range s.feeds {
		strategy, err := s.registry.Resolve(feed.Scanner)
		if err != nil {
			s.warn("feed skipped", "feed", feed.Name, "error", err)
			continue
		}

		req := scanner.Request{
			Window:    window,
			SiteName:  feed.Name,
			Options:   feed.Options,
			Endpoints: toScannerEndpoints(feed.Endpoints),
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			s.warn("feed scan failed", "feed", feed.Name, "error", err)
			continue
		}

		kept := 0
		for _, story := range results {
			story, ok := s.normalize(story, feed.Name)
			if !ok {
				continue
			}
			aggregated = append(aggregated, story)
			kept++
		}
		s.debug("feed produced stories", "feed", feed.Name, "fetched", len(results), "kept", kept)
	}

	s.debug("strategy source done", "total_stories", len(aggregated))
	return aggregated, nil
}

// normalize enforces the headline/url invariant, drops generic broadcasts,
// applies outlet URL rewrites, and fills missing source attribution from the
// URL domain.
func (s *StrategySource) normalize(story domain.Story, feedName string) (domain.Story, bool) {
	story.Headline = strings.TrimSpace(story.Headline)
	story.URL = strings.TrimSpace(story.URL)
	if story.Headline == "" || story.URL == "" {
		return domain.Story{}, false
	}

	if s.isGenericBroadcast(story.Headline) {
		s.debug("skipping generic broadcast", "headline", story.Headline)
		return domain.Story{}, false
	}

	story.URL = TransformURL(story.URL)
	story.Origin = domain.OriginAggregated

	if story.Source == "" {
		story.Source = SourceFromURL(story.URL)
	}
	if story.Source == "" {
		story.Source = feedName
	}

	return story, true
}

func (s *StrategySource) isGenericBroadcast(headline string) bool {
	lower := strings.ToLower(headline)
	for _, pattern := range s.skipPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

func toScannerEndpoints(cfg []config.EndpointConfig) []scanner.Endpoint {
	endpoints := make([]scanner.Endpoint, 0, len(cfg))
	for _, ep := range cfg {
		endpoints = append(endpoints, scanner.Endpoint{
			Name: ep.Name,
			URL:  ep.URL,
		})
	}
	return endpoints
}

func (s *StrategySource) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}

func (s *StrategySource) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
