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

	"galaxy-server/internal/auth"
	"galaxy-server/internal/broadcast"
	"galaxy-server/internal/middleware"
	"galaxy-server/internal/scenario"
	"galaxy-server/internal/server"
	"galaxy-server/internal/shared/config"
	"galaxy-server/internal/shared/cookies"
	"galaxy-server/internal/shared/database"
	"galaxy-server/internal/shared/logger"
	"galaxy-server/internal/shared/redis"
	"galaxy-server/internal/snapshot"
	"galaxy-server/internal/world"
	"galaxy-server/internal/world/engine"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	if err := config.Init(); err != nil {
		slog.Error("Failed to initialize configuration", "error", err)
		os.Exit(1)
	}

	logger.Init()

	log := slog.With("component", "main")
	log.Info("Starting Galaxy server")

	cfg := config.GlobalConfig

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var db *database.DB
	var snapshots *snapshot.Service
	if cfg.Database.Enabled {
		var err error
		db, err = database.Connect()
		if err != nil {
			log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		if err := db.RunMigrations(); err != nil {
			log.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		snapshots = snapshot.NewService(snapshot.NewRepository(db, slog.Default()), slog.Default())
	} else {
		log.Info("Database disabled, snapshot endpoints will return 503")
	}

	rdb, err := redis.Connect()
	if err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer rdb.Close()

	var frameClient *goredis.Client
	if rdb != nil {
		frameClient = rdb.Client
	}
	publisher := broadcast.New(frameClient, cfg.Redis, slog.Default())
	defer publisher.Close()

	w, seed, err := world.Bootstrap(cfg.Simulation, slog.Default())
	if err != nil {
		log.Error("Failed to bootstrap world", "error", err)
		os.Exit(1)
	}
	log.Info("World ready", "seed", seed)

	eng := engine.New(w, engine.Options{
		TickRate:    cfg.Simulation.TickRate,
		FrameEvery:  cfg.Simulation.FrameEvery,
		StartPaused: cfg.Simulation.StartPaused,
	}, publisher, slog.Default())

	engineDone := make(chan struct{})
	go func() {
		defer close(engineDone)
		if err := eng.Run(ctx); err != nil {
			log.Error("Engine stopped with error", "error", err)
		}
	}()

	if cfg.Simulation.ScenarioPath != "" && cfg.Simulation.WatchScenario {
		watcher, err := scenario.NewWatcher(cfg.Simulation.ScenarioPath, func(sc *scenario.Scenario) error {
			return eng.Exec(ctx, func(wd *world.World) error { return wd.LoadScenario(sc) })
		}, slog.Default())
		if err != nil {
			log.Error("Failed to watch scenario file", "error", err)
			os.Exit(1)
		}
		go func() {
			if err := watcher.Run(ctx); err != nil {
				log.Warn("Scenario watcher stopped", "error", err)
			}
		}()
	}

	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiration)
	if err != nil {
		log.Error("Failed to create token manager", "error", err)
		os.Exit(1)
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit)
		defer limiter.Stop()
	}

	routes := server.NewRoutes(server.Deps{
		DB:              db,
		Redis:           rdb,
		Engine:          eng,
		Tokens:          tokens,
		Cookies:         cookies.SettingsFrom(cfg),
		SnapshotService: snapshots,
		RateLimiter:     limiter,
		Logger:          slog.Default(),
	})
	corsMiddleware := middleware.NewCORS(cfg.Frontend)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsMiddleware.Middleware(routes.Setup()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting",
			"port", cfg.Server.Port,
			"url", cfg.Server.URL,
			"environment", cfg.Server.Environment,
			"database_enabled", cfg.Database.Enabled,
			"redis_enabled", rdb != nil,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Error("Server failed", "error", err)
		}
		stop()
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	<-engineDone

	log.Info("Server stopped")
}
