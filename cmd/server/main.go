// Package main runs the replication service: a background sync loop
// that mirrors upstream history into local storage, and an HTTP API
// serving resampled history queries over it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/svssathvik7/crypto-token-metrics-api/internal/api"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/config"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/ingestion"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/midgard"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/query"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage/memory"
	"github.com/svssathvik7/crypto-token-metrics-api/internal/storage/migrations"
	pgstore "github.com/svssathvik7/crypto-token-metrics-api/internal/storage/postgres"
)

// stores holds one implementation of every collection.
type stores struct {
	depths   storage.DepthStore
	swaps    storage.SwapStore
	earnings storage.EarningStore
	runePool storage.RunePoolStore
}

func main() {
	cfg := config.Load()

	// Flags override the environment.
	port := flag.String("port", cfg.Port, "HTTP listen port")
	postgresDSN := flag.String("postgres-dsn", cfg.PostgresDSN, "PostgreSQL connection string")
	useMemory := flag.Bool("use-memory", cfg.UseMemory, "Use in-memory storage instead of PostgreSQL")
	baseURL := flag.String("midgard-url", cfg.MidgardBaseURL, "Midgard API base URL (empty for the public endpoint)")
	pool := flag.String("pool", cfg.Pool, "Pool tracked for depth and swap history")
	syncInterval := flag.Duration("sync-interval", cfg.SyncInterval, "Periodic sync cadence")
	windowSize := flag.Int64("window-size", cfg.WindowSize, "History windows fetched per request")

	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags)

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, *postgresDSN, *useMemory)
	if err != nil {
		logger.Fatalf("Failed to create stores: %v", err)
	}
	defer cleanup()

	var clientOpts []midgard.Option
	if *baseURL != "" {
		clientOpts = append(clientOpts, midgard.WithBaseURL(*baseURL))
	}
	client := midgard.NewClient(clientOpts...)

	syncer := ingestion.NewSyncer(ingestion.Options{
		Source:        client,
		DepthStore:    st.depths,
		SwapStore:     st.swaps,
		EarningStore:  st.earnings,
		RunePoolStore: st.runePool,
		Pool:          *pool,
		WindowSize:    *windowSize,
		SyncInterval:  *syncInterval,
		Logger:        log.New(os.Stdout, "[syncer] ", log.LstdFlags),
	})

	engine := query.NewEngine(query.EngineOptions{
		DepthStore:    st.depths,
		SwapStore:     st.swaps,
		EarningStore:  st.earnings,
		RunePoolStore: st.runePool,
	})

	router := api.NewRouter(api.Options{
		Engine: engine,
		Syncer: syncer,
		Logger: log.New(os.Stdout, "[api] ", log.LstdFlags),
	})

	srv := &http.Server{
		Addr:    ":" + *port,
		Handler: router,
	}

	// Background sync loop.
	go syncer.Run(ctx)

	// Handle shutdown signals.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		go func() {
			// A second signal forces immediate exit.
			sig := <-sigCh
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		}()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Printf("HTTP shutdown error: %v", err)
		}
	}()

	logger.Printf("Listening on :%s", *port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("HTTP server error: %v", err)
	}

	logger.Println("Shutdown complete")
}

// createStores builds the storage backends. Postgres runs its
// migrations on startup; migrations are idempotent.
func createStores(ctx context.Context, postgresDSN string, useMemory bool) (*stores, func(), error) {
	if useMemory {
		st := &stores{
			depths:   memory.NewDepthStore(),
			swaps:    memory.NewSwapStore(),
			earnings: memory.NewEarningStore(),
			runePool: memory.NewRunePoolStore(),
		}
		return st, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, postgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	st := &stores{
		depths:   pgstore.NewDepthStore(pool),
		swaps:    pgstore.NewSwapStore(pool),
		earnings: pgstore.NewEarningStore(pool),
		runePool: pgstore.NewRunePoolStore(pool),
	}

	return st, func() { pool.Close() }, nil
}
