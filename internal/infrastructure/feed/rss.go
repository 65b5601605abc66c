package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strings"
	"time"

	"t1ddigest/internal/domain"
	"t1ddigest/internal/scanner"
)

const defaultRSSMaxItems = 10

// RSSScanner reads journal RSS feeds and keeps items that mention the
// condition in the title or description.
type RSSScanner struct {
	client   *http.Client
	maxItems int
}

// NewRSSScanner wires an HTTP client; maxItems defaults to 10 per feed.
func NewRSSScanner(client *http.Client) *RSSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &RSSScanner{client: client, maxItems: defaultRSSMaxItems}
}

// Name identifies the strategy inside the registry.
func (r *RSSScanner) Name() string {
	return "rss"
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Description string `xml:"description"`
	Link        string `xml:"link"`
	PubDate     string `xml:"pubDate"`
}

// Scan fetches the configured feed and converts matching items to records.
func (r *RSSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := r.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	results := make([]domain.RawRecord, 0)
	for _, item := range feed.Channel.Items {
		if len(results) >= r.maxItems {
			break
		}
		if item.Title == "" || item.Link == "" {
			continue
		}
		if !mentionsCondition(item.Title + " " + item.Description) {
			continue
		}

		results = append(results, domain.RawRecord{
			Title:     strings.TrimSpace(item.Title),
			Abstract:  strings.TrimSpace(item.Description),
			URL:       item.Link,
			Source:    req.SiteName,
			Published: item.PubDate,
		})
	}

	return results, nil
}

var conditionTerms = []string{"type 1 diabetes", "t1d", "insulin", "beta cell", "islet"}

func mentionsCondition(text string) bool {
	lowered := strings.ToLower(text)
	for _, term := range conditionTerms {
		if strings.Contains(lowered, term) {
			return true
		}
	}
	return false
}
