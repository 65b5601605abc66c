package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"t1ddigest/internal/domain"
	"t1ddigest/internal/scanner"
)

const newsItemsPerSite = 5

// NewsScanner scrapes consumer health news pages with per-site CSS
// selectors. Sites rarely agree on markup, so each selector value holds
// a comma-separated fallback chain.
type NewsScanner struct {
	client *http.Client
}

// NewNewsScanner wires an HTTP client.
func NewNewsScanner(client *http.Client) *NewsScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &NewsScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (n *NewsScanner) Name() string {
	return "news"
}

// Scan extracts up to five condition-related articles from the page.
func (n *NewsScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawRecord, error) {
	if req.Selectors["articles"] == "" {
		return nil, fmt.Errorf("no article selector configured for site %s", req.SiteName)
	}

	doc, err := n.fetchDocument(ctx, req.URL)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	results := make([]domain.RawRecord, 0, newsItemsPerSite)
	doc.Find(req.Selectors["articles"]).EachWithBreak(func(i int, sel *goquery.Selection) bool {
		if len(results) >= newsItemsPerSite {
			return false
		}

		titleNode := sel.Find(req.Selectors["title"]).First()
		title := strings.TrimSpace(titleNode.Text())
		if title == "" {
			return true
		}

		summary := strings.TrimSpace(sel.Find(req.Selectors["summary"]).First().Text())
		if !mentionsCondition(title + " " + summary) {
			return true
		}

		href, _ := titleNode.Attr("href")
		link := resolveLink(req.URL, href)
		if link == "" {
			return true
		}

		if summary == "" {
			summary = title
		}

		results = append(results, domain.RawRecord{
			Title:        title,
			Abstract:     summary,
			URL:          link,
			Source:       req.SiteName,
			Published:    time.Now().Format("2006-01-02"),
			PriorityHint: domain.PriorityHigh,
			TypeHint:     "news",
		})
		return true
	})

	return results, nil
}

func (n *NewsScanner) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; t1ddigest/1.0)")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("site returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

func resolveLink(base, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http") {
		return href
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return parsed.ResolveReference(ref).String()
}
