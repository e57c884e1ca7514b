// Command ridesim runs the dispatch simulator from the command line,
// following the teacher's own main.go: flag parsing, then a linear
// sequence of "load this, build that, run it" calls with no framework
// underneath. When -dataset is empty it falls back to a synthetic
// Poisson feed so the binary is runnable against nothing but a map
// file.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"ridesim/config"
	"ridesim/feed"
	"ridesim/httpapi"
	"ridesim/kernel"
	"ridesim/oraclecache"
	"ridesim/reportstore"
	"ridesim/roadnet"
	"ridesim/strategy"
)

func main() {
	fs := flag.NewFlagSet("ridesim", flag.ExitOnError)
	serveHTTP := fs.Bool("serve", false, "run the HTTP API instead of a single batch run")
	addr := fs.String("addr", ":8080", "address to serve on when -serve is set")
	dsn := fs.String("dsn", "", "postgres DSN for report persistence (required with -serve)")
	redisAddr := fs.String("redis", "", "redis address for the oracle cache (optional)")
	lambda := fs.Float64("lambda", 0.5, "synthetic feed arrival rate, resources/second (used when -dataset is empty)")
	horizon := fs.Float64("horizon", 3600, "synthetic feed horizon, seconds")
	minFare := fs.Float64("min_fare", 5, "synthetic feed minimum fare")
	maxFare := fs.Float64("max_fare", 40, "synthetic feed maximum fare")

	cfg, err := config.ParseInto(fs, os.Args[1:])
	if err != nil {
		log.Fatalf("ridesim: config: %v", err)
	}

	mapFile, err := os.Open(cfg.MapPath)
	if err != nil {
		log.Fatalf("ridesim: open map: %v", err)
	}
	defer mapFile.Close()
	roadMap, err := roadnet.LoadFromReader(mapFile)
	if err != nil {
		log.Fatalf("ridesim: load map: %v", err)
	}

	var oracle roadnet.Oracle = roadnet.NewDirectOracle(roadMap)
	if *redisAddr != "" {
		oracle = oraclecache.New(oracle, oraclecache.NewClient(*redisAddr))
	}

	if *serveHTTP {
		serve(*addr, *dsn, roadMap, oracle)
		return
	}

	records, err := loadRecords(cfg, roadMap, *lambda, *horizon, *minFare, *maxFare)
	if err != nil {
		log.Fatalf("ridesim: load feed: %v", err)
	}
	resources, err := feed.MapMatch(records, roadMap, oracle, cfg.ResourceMaximumLifeTime)
	if err != nil {
		log.Fatalf("ridesim: map-match: %v", err)
	}

	sim := kernel.NewSimulator(roadMap, oracle, strategy.NewRandomWalk(cfg.Seed))
	if err := sim.Configure(kernel.Config{
		NumberOfAgents:   cfg.NumberOfAgents,
		AssignmentPeriod: cfg.AssignmentPeriod,
		Algorithm:        cfg.Algorithm,
		Seed:             cfg.Seed,
		Sink:             kernel.ConsoleSink{Logger: log.Default(), Every: 500},
	}, resources); err != nil {
		log.Fatalf("ridesim: configure: %v", err)
	}

	score, err := sim.Run()
	if err != nil {
		log.Fatalf("ridesim: run: %v", err)
	}
	fmt.Print(score.Report())
}

func loadRecords(cfg *config.Config, m *roadnet.InMemoryMap, lambda, horizon, minFare, maxFare float64) ([]feed.Record, error) {
	if cfg.DatasetPath == "" {
		return feed.Synthetic(m, lambda, horizon, minFare, maxFare, cfg.Seed), nil
	}
	f, err := os.Open(cfg.DatasetPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return feed.ReadJSON(f)
}

func serve(addr, dsn string, m *roadnet.InMemoryMap, oracle roadnet.Oracle) {
	if dsn == "" {
		log.Fatal("ridesim: -serve requires -dsn")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("ridesim: connect postgres: %v", err)
	}
	defer pool.Close()

	store := reportstore.NewStore(pool)
	handler := httpapi.NewRunHandler(m, oracle, store)
	router := httpapi.NewRouter(handler)
	log.Printf("ridesim: serving on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("ridesim: serve: %v", err)
	}
}
