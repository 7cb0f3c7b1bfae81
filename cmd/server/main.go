package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/KirkDiggler/minority/internal/common/clock"
	"github.com/KirkDiggler/minority/internal/common/uuid"
	"github.com/KirkDiggler/minority/internal/config"
	"github.com/KirkDiggler/minority/internal/handlers/ws"
	roomRepo "github.com/KirkDiggler/minority/internal/repositories/room"
	roomService "github.com/KirkDiggler/minority/internal/services/room"
	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server terminated with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logs.GetLoggerFromString(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	hub := ws.NewHub(log)

	rooms, err := roomService.New(&roomService.Config{
		TicketsPerMember:     cfg.TicketCount,
		RoundLength:          cfg.RoundLength,
		InterimLength:        cfg.RoundInterimLength,
		AllowDevActions:      cfg.AllowDevActions(),
		PersistenceQueueSize: cfg.PersistenceQueueSize,
		PersistenceTimeout:   cfg.PersistenceTimeout,
		Repository:           repo,
		Broadcaster:          hub,
		Clock:                &clock.DefaultClock{},
		UUIDGenerator:        uuid.New(),
		Log:                  log,
	})
	if err != nil {
		return fmt.Errorf("failed to create room service: %w", err)
	}
	defer rooms.Close()

	if err := rooms.Recover(ctx); err != nil {
		return err
	}

	authenticator, err := ws.NewAuthenticator(cfg.JWTSecret)
	if err != nil {
		return err
	}

	handler, err := ws.New(&ws.Config{
		RoomService:    rooms,
		Hub:            hub,
		Authenticator:  authenticator,
		Log:            log,
		RequestTimeout: cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to create websocket handler: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", handler)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening",
			"addr", cfg.ListenAddr,
			"store", cfg.StoreBackend,
			"environment", cfg.Environment)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}

	return nil
}

// openStore connects the configured durable store and returns its repository
func openStore(cfg *config.Config, log *slog.Logger) (roomRepo.Repository, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreBadger:
		db, err := badger.Open(badger.DefaultOptions(cfg.BadgerPath).WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open badger: %w", err)
		}
		repo, err := roomRepo.NewBadger(&roomRepo.BadgerConfig{DB: db})
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to create room repository: %w", err)
		}
		return repo, func() {
			log.Info("closing badger")
			_ = db.Close()
		}, nil

	default:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		repo, err := roomRepo.NewRedis(&roomRepo.Config{RedisClient: client})
		if err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("failed to create room repository: %w", err)
		}
		return repo, func() {
			_ = client.Close()
		}, nil
	}
}
