package parser

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"NewsRoundup/internal/domain"
	"NewsRoundup/internal/scanner"
)

// Option keys understood by the listing scanner. Selectors come from config
// so one strategy serves every site with a broken or missing feed.
const (
	optItemSelector    = "itemSelector"
	optTitleSelector   = "titleSelector"
	optLinkSelector    = "linkSelector"
	optSummarySelector = "summarySelector"
	optDateSelector    = "dateSelector"
	optDateFormat      = "dateFormat"
)

// ListingScanner crawls HTML article listings for sites without usable RSS.
type ListingScanner struct {
	client *http.Client
}

// NewListingScanner wires an HTTP client; a nil client gets a 20s-timeout default.
func NewListingScanner(client *http.Client) *ListingScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &ListingScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (s *ListingScanner) Name() string {
	return "listing"
}

// Scan fetches each endpoint page and extracts stories via the configured
// selectors. Entries without a headline or link are skipped; entries with a
// parsable date outside the window are skipped too.
func (s *ListingScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Story, error) {
	if len(req.Endpoints) == 0 {
		return nil, fmt.Errorf("no endpoints provided for site %s", req.SiteName)
	}

	itemSel := req.Options[optItemSelector]
	if itemSel == "" {
		itemSel = "article"
	}
	linkSel := req.Options[optLinkSelector]
	if linkSel == "" {
		linkSel = "a"
	}

	var results []domain.Story
	for _, endpoint := range req.Endpoints {
		doc, base, err := s.fetchDocument(ctx, endpoint.URL)
		if err != nil {
			return nil, fmt.Errorf("endpoint %s: %w", endpoint.Name, err)
		}

		doc.Find(itemSel).Each(func(_ int, item *goquery.Selection) {
			story, ok := parseListingEntry(item, req, base, linkSel)
			if !ok {
				return
			}
			if !req.Window.Contains(story.PublishedAt) {
				return
			}
			results = append(results, story)
		})
	}

	return results, nil
}

func (s *ListingScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "NewsRoundup/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("listing returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid endpoint url %s: %w", pageURL, err)
	}

	return doc, base, nil
}

func parseListingEntry(item *goquery.Selection, req scanner.Request, base *url.URL, linkSel string) (domain.Story, bool) {
	link := item.Find(linkSel).First()
	href, _ := link.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return domain.Story{}, false
	}
	if resolved, err := base.Parse(href); err == nil {
		href = resolved.String()
	}

	title := ""
	if sel := req.Options[optTitleSelector]; sel != "" {
		title = item.Find(sel).First().Text()
	}
	if title == "" {
		title = link.Text()
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Story{}, false
	}

	summary := ""
	if sel := req.Options[optSummarySelector]; sel != "" {
		summary = strings.TrimSpace(item.Find(sel).First().Text())
	}

	var published time.Time
	if sel := req.Options[optDateSelector]; sel != "" {
		raw := strings.TrimSpace(item.Find(sel).First().Text())
		layout := req.Options[optDateFormat]
		if layout == "" {
			layout = "January 2, 2006"
		}
		if parsed, err := time.Parse(layout, raw); err == nil {
			published = parsed
		}
	}

	return domain.Story{
		Headline:    title,
		URL:         href,
		Summary:     summary,
		Source:      req.SiteName,
		PublishedAt: published,
		Origin:      domain.OriginAggregated,
	}, true
}
