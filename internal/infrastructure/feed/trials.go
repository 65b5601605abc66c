package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"t1ddigest/internal/domain"
	"t1ddigest/internal/scanner"
)

const (
	defaultTrialsPageSize = 10
	trialStudyBaseURL     = "https://clinicaltrials.gov/study/"
)

// TrialsScanner pulls recruiting studies from the ClinicalTrials.gov v2 API.
// Each configured term is queried separately and the results are merged by
// registry number. A failing term is logged and skipped so the remaining
// terms still produce records.
type TrialsScanner struct {
	client   *http.Client
	pageSize int
	logger   *slog.Logger
}

// NewTrialsScanner wires an HTTP client; pageSize defaults to 10 per term.
func NewTrialsScanner(client *http.Client, logger *slog.Logger) *TrialsScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	return &TrialsScanner{client: client, pageSize: defaultTrialsPageSize, logger: logger}
}

// Name identifies the strategy inside the registry.
func (t *TrialsScanner) Name() string {
	return "trials"
}

type trialsResponse struct {
	Studies []struct {
		ProtocolSection struct {
			IdentificationModule struct {
				NCTID         string `json:"nctId"`
				BriefTitle    string `json:"briefTitle"`
				OfficialTitle string `json:"officialTitle"`
			} `json:"identificationModule"`
			StatusModule struct {
				OverallStatus   string `json:"overallStatus"`
				StartDateStruct struct {
					Date string `json:"date"`
				} `json:"startDateStruct"`
			} `json:"statusModule"`
			DescriptionModule struct {
				BriefSummary string `json:"briefSummary"`
			} `json:"descriptionModule"`
			DesignModule struct {
				Phases []string `json:"phases"`
			} `json:"designModule"`
		} `json:"protocolSection"`
	} `json:"studies"`
}

// Scan queries each search term and returns deduplicated trial records.
func (t *TrialsScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.RawRecord, error) {
	if len(req.Terms) == 0 {
		return nil, fmt.Errorf("no search terms provided for site %s", req.SiteName)
	}

	results := make([]domain.RawRecord, 0)
	seen := map[string]struct{}{}

	for _, term := range req.Terms {
		queryURL, err := buildTrialsURL(req.URL, term, t.pageSize)
		if err != nil {
			t.warn("term query skipped", "term", term, "error", err)
			continue
		}

		var payload trialsResponse
		if err := t.fetchJSON(ctx, queryURL, &payload); err != nil {
			t.warn("term query failed", "term", term, "error", err)
			continue
		}

		for _, study := range payload.Studies {
			id := study.ProtocolSection.IdentificationModule.NCTID
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			phase := "Unknown"
			if phases := study.ProtocolSection.DesignModule.Phases; len(phases) > 0 {
				phase = phases[0]
			}

			title := study.ProtocolSection.IdentificationModule.OfficialTitle
			if title == "" {
				title = study.ProtocolSection.IdentificationModule.BriefTitle
			}

			results = append(results, domain.RawRecord{
				Title:     title,
				Abstract:  study.ProtocolSection.DescriptionModule.BriefSummary,
				URL:       trialStudyBaseURL + id,
				Source:    req.SiteName,
				Published: study.ProtocolSection.StatusModule.StartDateStruct.Date,
				Phase:     phase,
				Status:    study.ProtocolSection.StatusModule.OverallStatus,
			})
		}
	}

	return results, nil
}

func (t *TrialsScanner) fetchJSON(ctx context.Context, queryURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("request studies: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registry returned %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode studies: %w", err)
	}
	return nil
}

func (t *TrialsScanner) warn(msg string, args ...any) {
	if t.logger != nil {
		t.logger.Warn(msg, args...)
	}
}

func buildTrialsURL(base, term string, pageSize int) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid registry url %s: %w", base, err)
	}

	query := parsed.Query()
	query.Set("query.cond", term)
	query.Set("filter.overallStatus", "RECRUITING")
	query.Set("sort", "LastUpdatePostDate:desc")
	query.Set("pageSize", strconv.Itoa(pageSize))
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
