package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wfunc/galaxyserver/config"
	"github.com/wfunc/galaxyserver/logger"
	"github.com/wfunc/galaxyserver/monitor"
	"github.com/wfunc/galaxyserver/persistence"
	"github.com/wfunc/galaxyserver/room"
	"github.com/wfunc/galaxyserver/server"
	"github.com/wfunc/galaxyserver/services"
)

func openDatabase(cfg *config.Config) (persistence.Database, error) {
	pg := cfg.Database.Postgres
	switch cfg.Database.Driver {
	case "gorm":
		return persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	case "postgres":
		return persistence.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return persistence.NewMemory(), nil
	}
}

func main() {
	// Initialize logger at info until the configured level is known
	if err := logger.Init("info"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	if err := run("."); err != nil {
		logger.Log.Errorf("%v", err)
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func run(configPath string) error {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := logger.Init(cfg.Log.Level); err != nil {
		return fmt.Errorf("failed to initialize logger at level %q: %w", cfg.Log.Level, err)
	}

	// Initialize Database
	db, err := openDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Log.Infow("Archive ready", "driver", cfg.Database.Driver)

	mon := monitor.NewMonitor("galaxy")
	archive := services.NewArchiveService(db, services.DefaultArchiveBuffer)
	archive.OnDrop(mon.ObserveArchiveDrop)
	mon.StartServer(cfg.Server.MetricsAddress)

	rooms := room.NewManager(room.Options{
		PlayersPerSession: cfg.Game.PlayersPerSession,
		Seed:              cfg.Game.Seed,
		Recorder:          archive,
		Monitor:           mon,
	})

	gameServer, err := server.NewGameServer(server.Options{
		Addr:              cfg.Server.HTTPAddress,
		RPCAddr:           cfg.Server.RPCAddress,
		AllowedOrigin:     cfg.Server.AllowedOrigin,
		HeartbeatInterval: cfg.Server.HeartbeatInterval,
		SendBuffer:        cfg.Server.SendBuffer,
		ActionsPerSecond:  cfg.Limits.ActionsPerSecond,
		Burst:             cfg.Limits.Burst,
	}, rooms, archive, mon)
	if err != nil {
		archive.Close()
		return fmt.Errorf("failed to create game server: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- gameServer.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(stop)

	var serveErr error
	select {
	case serveErr = <-errCh:
		if serveErr != nil {
			serveErr = fmt.Errorf("game server stopped: %w", serveErr)
		}
	case sig := <-stop:
		logger.Log.Infow("Shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := gameServer.Shutdown(ctx); err != nil {
		logger.Log.Warnw("Game server shutdown incomplete", "error", err)
	}
	if err := mon.Shutdown(ctx); err != nil {
		logger.Log.Warnw("Metrics server shutdown incomplete", "error", err)
	}
	if err := archive.Close(); err != nil {
		logger.Log.Warnw("Archive close failed", "error", err)
	}
	return serveErr
}
