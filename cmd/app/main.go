package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avragame/aura-engine/internal/config"
	"github.com/avragame/aura-engine/internal/economy"
	"github.com/avragame/aura-engine/internal/engine"
	"github.com/avragame/aura-engine/internal/event"
	"github.com/avragame/aura-engine/internal/leaderboard"
	"github.com/avragame/aura-engine/internal/lootbox"
	"github.com/avragame/aura-engine/internal/metrics"
	"github.com/avragame/aura-engine/internal/player"
	"github.com/avragame/aura-engine/internal/push"
	"github.com/avragame/aura-engine/internal/scheduler"
	"github.com/avragame/aura-engine/internal/server"
	"github.com/avragame/aura-engine/internal/session"
	"github.com/avragame/aura-engine/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Configuration failed", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	ctx := context.Background()

	// Persistence backend
	var store storage.Store
	var closeStore func()
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pg, err := storage.NewPostgresStore(ctx, cfg.GetDBConnString())
		if err != nil {
			slog.Error("Failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		store = pg
		closeStore = pg.Close
	default:
		store = storage.NewMemoryStore()
		closeStore = func() {}
	}

	eventBus := event.NewMemoryBus()
	sched := scheduler.New()

	repo := player.NewRepository(store)
	players := player.NewService(repo, eventBus, engine.Combos(), nil)
	econ := economy.NewService(players, sched, eventBus, nil)

	boxes := lootbox.NewManager(players, sched, eventBus, lootbox.NewGenerator(nil))

	// Leaderboard ranking backend
	var provider leaderboard.Provider
	switch cfg.LeaderboardBackend {
	case config.LeaderboardRedis:
		rp, err := leaderboard.NewRedisProvider(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			os.Exit(1)
		}
		provider = rp
	default:
		provider = leaderboard.NewMemoryProvider()
	}
	board := leaderboard.NewService(provider, players)
	board.Register(eventBus)
	if err := board.Rebuild(ctx); err != nil {
		slog.Error("Failed to rebuild leaderboard", "error", err)
		os.Exit(1)
	}

	metrics.NewEventMetricsCollector().Register(eventBus)

	hub := push.NewHub(slog.Default())
	hub.RegisterEvents(eventBus)
	go hub.Run()

	sessions := session.NewManager(players, econ, boxes, board, eventBus, sched)

	boxes.Start()

	srv := server.NewServer(cfg.Port, cfg.APIKey, store, sessions, players, board, boxes, hub)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait here until CTRL-C or other term signal is received.
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-sc:
		slog.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
	}

	boxes.Stop()
	sched.Stop()
	hub.Stop()
	if err := provider.Close(); err != nil {
		slog.Error("Leaderboard provider close failed", "error", err)
	}
	closeStore()

	slog.Info("Shutdown complete")
}
