package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofrs/flock"

	"bookdroplist/internal/api"
	"bookdroplist/internal/config"
	"bookdroplist/internal/logging"
	"bookdroplist/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		log.Fatalf("prepare directories: %v", err)
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Logging.Level,
		Format:  cfg.Logging.Format,
		LogFile: cfg.LogFilePath(),
	})
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		log.Fatalf("acquire lock: %v", err)
	}
	if !locked {
		log.Fatalf("another bookdropd already holds %s", cfg.LockPath())
	}
	defer lock.Unlock() //nolint:errcheck

	st, err := store.Open(cfg.DatabasePath(), store.WithLogger(logger))
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	service, err := buildService(cfg, st, logger)
	if err != nil {
		log.Fatalf("assemble service: %v", err)
	}

	server := &http.Server{
		Addr:              cfg.Server.Bind,
		Handler:           api.NewServer(service, nil, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		logger.Info("bookdropd listening", logging.String("bind", cfg.Server.Bind))
		errs <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("bookdropd shutting down")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", logging.Error(err))
		}
	case err := <-errs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("serve", logging.Error(err))
		}
	}
}
