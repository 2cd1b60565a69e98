// Command importer loads the tourism-resource CSV export into the areas
// table.
//
//	importer -file data/tour.csv
package main

import (
	"context"
	"errors"
	"flag"
	"time"

	"github.com/iliyamo/travel-marketplace/internal/config"
	"github.com/iliyamo/travel-marketplace/internal/database"
	"github.com/iliyamo/travel-marketplace/internal/importer"
	"github.com/iliyamo/travel-marketplace/internal/logger"
	"github.com/iliyamo/travel-marketplace/internal/repository"
)

func main() {
	file := flag.String("file", "data/tour.csv", "CSV export to import")
	dryRun := flag.Bool("dry-run", false, "parse only, do not write")
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Env)

	res, err := importer.Load(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("parse csv")
	}
	log.Info().
		Str("encoding", res.Encoding).
		Int("areas", len(res.Areas)).
		Int("skipped", res.Skipped).
		Int("duplicates", res.Duplicates).
		Msg("csv parsed")
	if *dryRun {
		return
	}

	if cfg.MigrateOnStart {
		if err := database.RunMigrations(database.DSN(cfg)); err != nil {
			log.Fatal().Err(err).Msg("migrations failed")
		}
	}
	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("database unavailable")
	}
	defer db.Close()

	areas := repository.NewAreaRepo(db)
	inserted, failed := 0, 0
	for i := range res.Areas {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := areas.Create(ctx, &res.Areas[i])
		cancel()
		if err != nil {
			failed++
			ev := log.Warn()
			if !errors.Is(err, repository.ErrConflict) {
				ev = log.Error()
			}
			ev.Err(err).Str("name", res.Areas[i].Name).Msg("insert area")
			continue
		}
		inserted++
	}
	log.Info().Int("inserted", inserted).Int("failed", failed).Msg("import finished")
}
