package main

// One-shot sweep of expired report directories, intended for cron:
//   go run ./cmd/cleanup -max-age 24h

import (
	"context"
	"flag"
	"log"
	"os"

	"rfp-backend/internal/reports"
	"rfp-backend/internal/shared/config"
	"rfp-backend/internal/shared/storage/db"
)

func main() {
	cfg := config.Load()
	maxAge := flag.Duration("max-age", cfg.ReportMaxAge, "remove reports older than this")
	flag.Parse()

	ctx := context.Background()

	store, err := reports.NewStore(cfg.ReportDir)
	if err != nil {
		log.Printf("report store init failed: %v", err)
		os.Exit(1)
	}

	var repo reports.Repo = reports.NewMemoryRepo()
	if cfg.DatabaseURL != "" {
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("database unavailable, sweeping filesystem only: %v", err)
		} else {
			defer sqlDB.Close()
			repo = &reports.PGRepo{DB: sqlDB}
		}
	}

	svc := reports.NewService(store, repo, reports.NopRenderer{})
	removed, err := svc.Cleanup(ctx, *maxAge)
	if err != nil {
		log.Printf("cleanup failed: %v", err)
		os.Exit(1)
	}
	log.Printf("cleanup removed %d report(s) older than %s", removed, maxAge)
}
