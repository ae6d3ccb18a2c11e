package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"name-linker/internal/config"
	"name-linker/internal/linkage/batch"
	serverhttp "name-linker/server/http"
)

func main() {
	args := os.Args[1:]
	serve := len(args) > 0 && args[0] == "serve"
	if serve {
		args = args[1:]
	}

	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := config.SetupLogger(cfg, os.Stderr)

	if serve {
		runServer(cfg, logger)
		return
	}

	if cfg.Interactive {
		if err := config.Prompt(&cfg, os.Stdin, os.Stdout); err != nil {
			logger.Fatal().Err(err).Msg("prompt")
		}
	}
	if _, err := batch.Run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("linkage failed")
		os.Exit(1)
	}
}

func runServer(cfg config.Config, logger zerolog.Logger) {
	r := serverhttp.NewRouter(cfg, logger)

	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
