package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"os"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"palmnazi/internal/adapters/geocode"
	"palmnazi/internal/adapters/observability"
	redisad "palmnazi/internal/adapters/redis"
	"palmnazi/internal/app"
	"palmnazi/internal/domain"
	"palmnazi/internal/shared"
	mysqlrepo "palmnazi/internal/storage/mysql"
)

func main() {
	file := flag.String("file", "", "JSON array of property records")
	noGeo := flag.Bool("no-geocode", false, "skip reverse geocoding of locations")
	flag.Parse()

	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	if *file == "" {
		log.Fatal().Msg("-file is required")
	}
	records, err := readFeed(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("feed unreadable")
	}
	log.Info().
		Str("file", *file).
		Int("records", len(records)).
		Int("workers", cfg.ImportWorkers).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	if err := mysqlrepo.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	var geo domain.Geocoder
	if !*noGeo && cfg.GeocodeBase != "" {
		geo = geocode.New(cfg.GeocodeBase, "palmnazi-importer/1.0", cfg.GeocodeRPS)
	}
	catalog := app.NewCatalogService(repo, app.NewQueryService(repo, repo, cache, cfg.CacheTTL), geo, nil, 0)

	workers := cfg.ImportWorkers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var ok, failed atomic.Int64

	for i, rec := range records {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(idx int, raw map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			p, err := catalog.Create(ctx, app.MapImportRecord(raw))
			if err != nil {
				failed.Add(1)
				log.Warn().Int("record", idx).Err(err).Msg("import skipped")
				return
			}
			ok.Add(1)
			log.Info().Int("record", idx).Str("id", p.ID).Str("name", p.Name).Msg("imported")
		}(i, rec)
	}

	wg.Wait()
	log.Info().Int64("imported", ok.Load()).Int64("skipped", failed.Load()).Msg("import completed")
}

func readFeed(path string) ([]map[string]any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var out []map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}
