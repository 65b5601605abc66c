package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"t1ddigest/internal/app"
	"t1ddigest/internal/config"
	"t1ddigest/internal/domain"
	"t1ddigest/internal/logging"
	"t1ddigest/internal/report"
)

func main() {
	watch := flag.Bool("watch", false, "keep running and regenerate the digest on the configured interval")
	health := flag.Bool("health", false, "check the quality of the last published digest and exit")
	flag.Parse()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	if *health {
		os.Exit(runHealthCheck(cfg))
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *watch {
		err = application.RunScheduled(ctx)
	} else {
		err = application.RunOnce(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}

func runHealthCheck(cfg config.Config) int {
	var digest []domain.DigestEntry
	if raw, err := os.ReadFile(cfg.Paths.Digest); err == nil {
		_ = json.Unmarshal(raw, &digest)
	}

	var generatedAt time.Time
	if raw, err := os.ReadFile(cfg.Paths.Report); err == nil {
		var last report.RunReport
		if json.Unmarshal(raw, &last) == nil {
			generatedAt = last.UpdateTime
		}
	}

	quality := report.CheckQuality(digest, generatedAt, time.Now())
	out, err := json.MarshalIndent(quality, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "encode quality report:", err)
		return 1
	}
	fmt.Println(string(out))

	if quality.Status == report.StatusCritical {
		return 1
	}
	return 0
}
