// Package app assembles configuration, adapters, and the pipeline into a
// runnable application.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"t1ddigest/internal/archive"
	"t1ddigest/internal/classify"
	"t1ddigest/internal/config"
	"t1ddigest/internal/infrastructure/feed"
	"t1ddigest/internal/infrastructure/scheduler"
	"t1ddigest/internal/infrastructure/storage"
	"t1ddigest/internal/logging"
	"t1ddigest/internal/narrate"
	"t1ddigest/internal/relevance"
	"t1ddigest/internal/scanner"
	"t1ddigest/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	pipeline *usecase.Pipeline
	runner   *usecase.Scheduler
	history  *storage.SQLiteRepository
	logger   *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := scanner.NewRegistry()
	registry.Register(feed.NewTrialsScanner(nil, baseLogger.With("component", "scanner.trials")))
	registry.Register(feed.NewPubMedScanner(nil))
	registry.Register(feed.NewRSSScanner(nil))
	registry.Register(feed.NewNewsScanner(nil))

	source := feed.NewStrategySource(registry, cfg.Sites, cfg.Specials, baseLogger.With("component", "source"))
	store := archive.NewStore(cfg.Paths.Archive, baseLogger.With("component", "archive"))

	var history *storage.SQLiteRepository
	if cfg.Paths.Database != "" {
		repo, err := storage.OpenSQLiteRepository(cfg.Paths.Database)
		if err != nil {
			return nil, fmt.Errorf("open history database: %w", err)
		}
		history = repo
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     source,
		Archive:    store,
		History:    history,
		Filter:     relevance.NewFilter(cfg.Pipeline.Keywords),
		Classifier: classify.New(classify.Config{
			TrialSource:    cfg.Pipeline.TrialSource,
			JournalSources: cfg.Pipeline.JournalSources,
		}),
		Narrator: narrate.New(narrate.Config{
			TrialSource:    cfg.Pipeline.TrialSource,
			ResearchSource: cfg.Pipeline.ResearchSource,
		}),
		Settings: usecase.Settings{
			DigestSize: cfg.Pipeline.DigestSize,
			ArchiveCap: cfg.Pipeline.ArchiveCap,
			DigestPath: cfg.Paths.Digest,
			HTMLPath:   cfg.Paths.HTML,
			ReportPath: cfg.Paths.Report,
		},
		Logger: baseLogger.With("component", "pipeline"),
	})

	driver := scheduler.NewTickerScheduler(cfg.Scheduler.Interval, cfg.Scheduler.Location())
	runner := usecase.NewScheduler(driver, pipeline, baseLogger.With("component", "scheduler"))

	return &Application{
		cfg:      cfg,
		pipeline: pipeline,
		runner:   runner,
		history:  history,
		logger:   baseLogger,
	}, nil
}

// RunOnce performs a single pipeline execution.
func (a *Application) RunOnce(ctx context.Context) error {
	now := time.Now().In(a.cfg.Scheduler.Location())
	result, err := a.pipeline.Run(ctx, now)
	if err != nil {
		return err
	}
	a.logger.Info("run complete", "digest", len(result.Digest), "records", len(result.Results))
	return nil
}

// RunScheduled starts the interval scheduler and blocks until the context
// is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	if err := a.runner.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	<-ctx.Done()
	return a.runner.Stop(context.Background())
}

// Close releases held resources.
func (a *Application) Close() error {
	if a.history == nil {
		return nil
	}
	return a.history.Close()
}
