// Package feed implements the upstream record providers: the clinical
// trial registry, PubMed, journal RSS feeds, scraped news pages, and the
// curated special stories seeded from configuration.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"t1ddigest/internal/config"
	"t1ddigest/internal/domain"
	"t1ddigest/internal/ports"
	"t1ddigest/internal/scanner"
)

// StrategySource implements RecordSource via registered scanner strategies.
// A failing site is logged and skipped so one broken feed cannot starve
// the whole run.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	specials []config.SpecialConfig
	logger   *slog.Logger
}

var _ ports.RecordSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sites
// and special seeds.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, specials []config.SpecialConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		specials: specials,
		logger:   log,
	}
}

// FetchLatest iterates over configured sites, executes their scanners and
// appends the curated special records.
func (s *StrategySource) FetchLatest(ctx context.Context) ([]domain.RawRecord, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.logger.Debug("fetch latest", "sites", len(s.sites), "specials", len(s.specials))

	var aggregated []domain.RawRecord
	for _, site := range s.sites {
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			SiteName:  site.Name,
			URL:       site.URL,
			Terms:     site.Terms,
			Selectors: site.Selectors,
			Options:   site.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			s.logger.Warn("site scan failed", "site", site.Name, "error", err)
			continue
		}

		for i := range results {
			if results[i].Source == "" {
				results[i].Source = site.Name
			}
		}
		s.logger.Debug("site produced records", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	for _, special := range s.specials {
		aggregated = append(aggregated, special.Record())
	}

	s.logger.Debug("strategy source done", "total_records", len(aggregated))
	return aggregated, nil
}
