package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/danielhkuo/ldr-counter/broadcast"
	"github.com/danielhkuo/ldr-counter/cliparse"
	"github.com/danielhkuo/ldr-counter/db"
	"github.com/danielhkuo/ldr-counter/metrics"
	"github.com/danielhkuo/ldr-counter/models"
	"github.com/danielhkuo/ldr-counter/router"
	"github.com/danielhkuo/ldr-counter/service"
	"github.com/danielhkuo/ldr-counter/store"
	"github.com/danielhkuo/ldr-counter/verify"
)

const shutdownTimeout = 30 * time.Second

// newLogger picks a text handler for terminals and JSON otherwise
func newLogger(level string, out *os.File) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return slog.New(slog.NewTextHandler(out, opts))
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(newLogger(cfg.LogLevel, os.Stderr))

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Verify connection
	if err := dbConn.PingContext(ctx); err != nil {
		slog.Error("database ping failed", "error", err, "type", cfg.DatabaseType)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(ctx, dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}

	counters := store.NewCounterStore(dbConn)
	if err := counters.Init(ctx, models.CounterID); err != nil {
		slog.Error("counter init failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	metrics.Register(prometheus.DefaultRegisterer)

	gate := verify.NewGate(
		verify.NewRecaptchaClient(cfg.RecaptchaSecret, cfg.VerifyURL, cfg.VerifyTimeout),
		cfg.ExpectedHostname,
		cfg.VerifyTimeout,
	)
	if cfg.ExpectedHostname == "" {
		slog.Warn("EXPECTED_HOSTNAME not set, verification origin check disabled")
	}

	publisher := broadcast.New(broadcast.NewPusherClient(
		cfg.PusherAppID,
		cfg.PusherKey,
		cfg.PusherSecret,
		cfg.PusherCluster,
		cfg.PusherUseTLS,
		cfg.PublishTimeout,
	))

	svc := service.New(
		gate,
		store.NewLedger(dbConn),
		counters,
		store.NewStoryStore(dbConn),
		publisher,
		service.Options{
			IdentitySalt: cfg.IdentitySalt,
			StoreTimeout: cfg.StoreTimeout,
		},
	)

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(svc, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sig := <-ctrlc
		slog.Info("Shutting down", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}

	<-done
	slog.Info("Server closed")
}
