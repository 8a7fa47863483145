package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ahmed221b/Mapty/internal/api"
	"github.com/Ahmed221b/Mapty/internal/config"
	"github.com/Ahmed221b/Mapty/internal/persistence"
	"github.com/Ahmed221b/Mapty/internal/persistence/memory"
	"github.com/Ahmed221b/Mapty/internal/persistence/postgres"
	"github.com/Ahmed221b/Mapty/internal/persistence/sqlite"
	httptransport "github.com/Ahmed221b/Mapty/internal/transport/http"
	"github.com/Ahmed221b/Mapty/internal/transport/ws"
	"github.com/Ahmed221b/Mapty/web"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	loc, _ := cfg.Location()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open %s store: %v", cfg.StorageBackend, err)
	}
	defer closeStore()

	repo := persistence.NewAdapter(store, persistence.WithKey(cfg.StorageKey))
	hub := ws.NewHub(ws.WithAllowedOrigins(cfg.AllowedOrigins))

	handler := api.NewHandler(repo, hub, web.Static(), api.WithPageConfig(api.PageConfig{
		Zoom:             cfg.MapZoom,
		Location:         loc,
		TileURL:          cfg.TileURL,
		MapCreateTimeout: cfg.MapCreateTimeout,
	}))
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Basic request logger
	logger := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}

	server := httptransport.NewServer(httptransport.DefaultServerConfig(cfg.HTTPAddress), logger(mux))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("mapty listening on %s (storage: %s)", cfg.HTTPAddress, cfg.StorageBackend)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownCh
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	// hijacked WebSocket connections are not closed by server.Shutdown
	if err := hub.Shutdown(shutdownCtx); err != nil {
		log.Printf("closing sessions: %v", err)
	}
}

func openStore(ctx context.Context, cfg config.Config) (persistence.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendMemory:
		return memory.NewStore(), func() {}, nil
	case config.BackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		store := postgres.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil
	case config.BackendSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Printf("closing sqlite: %v", err)
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown backend %q", cfg.StorageBackend)
	}
}
