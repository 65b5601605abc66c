package feed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"t1ddigest/internal/domain"
	"t1ddigest/internal/scanner"
)

const (
	defaultPubMedDaysBack = 7
	defaultPubMedMax      = 10
	pubmedArticleBaseURL  = "https://pubmed.ncbi.nlm.nih.gov/"
	pubmedQuery           = `("type 1 diabetes"[Title/Abstract] OR "T1D"[Title/Abstract]) AND ("treatment"[Title/Abstract] OR "therapy"[Title/Abstract] OR "cure"[Title/Abstract])`
)

// PubMedScanner searches recent publications through the NCBI E-utilities:
// esearch for matching IDs, efetch for the article metadata.
type PubMedScanner struct {
	client *http.Client
}

// NewPubMedScanner wires an HTTP client.
func NewPubMedScanner(client *http.Client) *PubMedScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &PubMedScanner{client: client}
}

// Name identifies the strategy inside the registry.
func (p *PubMedScanner) Name() string {
	return "pubmed"
}

type esearchResponse struct {
	Result struct {
		IDList []string `json:"idlist"`
	} `json:"esearchresult"`
}

type efetchResponse struct {
	Articles []struct {
		MedlineCitation struct {
			PMID    string `xml:"PMID"`
			Article struct {
				Title    string `xml:"ArticleTitle"`
				Abstract struct {
					Text []string `xml:"AbstractText"`
				} `xml:"Abstract"`
				Journal struct {
					Issue struct {
						PubDate struct {
							Year  string `xml:"Year"`
							Month string `xml:"Month"`
							Day   string `xml:"Day"`
						} `xml:"PubDate"`
					} `xml:"JournalIssue"`
				} `xml:"Journal"`
			} `xml:"Article"`
		} `xml:"MedlineCitation"`
	} `xml:"PubmedArticle"`
}

// Scan searches for recent relevant publications and fetches their metadata.
func (p *PubMedScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawRecord, error) {
	daysBack := optionInt(req.Options, "daysBack", defaultPubMedDaysBack)
	maxArticles := optionInt(req.Options, "maxArticles", defaultPubMedMax)

	ids, err := p.search(ctx, req.URL, daysBack, maxArticles)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	return p.fetch(ctx, req.URL, req.SiteName, ids)
}

func (p *PubMedScanner) search(ctx context.Context, base string, daysBack, maxArticles int) ([]string, error) {
	query := url.Values{}
	query.Set("db", "pubmed")
	query.Set("term", pubmedQuery)
	query.Set("retmax", strconv.Itoa(maxArticles))
	query.Set("datetype", "pdat")
	query.Set("reldate", strconv.Itoa(daysBack))
	query.Set("retmode", "json")

	body, err := p.get(ctx, joinEutils(base, "esearch.fcgi", query))
	if err != nil {
		return nil, fmt.Errorf("esearch: %w", err)
	}
	defer body.Close()

	var payload esearchResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode esearch: %w", err)
	}
	return payload.Result.IDList, nil
}

func (p *PubMedScanner) fetch(ctx context.Context, base, siteName string, ids []string) ([]domain.RawRecord, error) {
	query := url.Values{}
	query.Set("db", "pubmed")
	query.Set("id", strings.Join(ids, ","))
	query.Set("retmode", "xml")

	body, err := p.get(ctx, joinEutils(base, "efetch.fcgi", query))
	if err != nil {
		return nil, fmt.Errorf("efetch: %w", err)
	}
	defer body.Close()

	var payload efetchResponse
	if err := xml.NewDecoder(body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode efetch: %w", err)
	}

	results := make([]domain.RawRecord, 0, len(payload.Articles))
	for _, article := range payload.Articles {
		citation := article.MedlineCitation
		if citation.PMID == "" || citation.Article.Title == "" {
			continue
		}

		pubDate := citation.Article.Journal.Issue.PubDate
		published := strings.TrimSpace(strings.Join([]string{pubDate.Year, pubDate.Month, pubDate.Day}, " "))

		results = append(results, domain.RawRecord{
			Title:     citation.Article.Title,
			Abstract:  strings.Join(citation.Article.Abstract.Text, " "),
			URL:       pubmedArticleBaseURL + citation.PMID + "/",
			Source:    siteName,
			Published: published,
		})
	}
	return results, nil
}

func (p *PubMedScanner) get(ctx context.Context, queryURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request eutils: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("eutils returned %s", resp.Status)
	}
	return resp.Body, nil
}

func joinEutils(base, endpoint string, query url.Values) string {
	return strings.TrimSuffix(base, "/") + "/" + endpoint + "?" + query.Encode()
}

func optionInt(options map[string]string, key string, fallback int) int {
	if raw, ok := options[key]; ok {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return fallback
}
