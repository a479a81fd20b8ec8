package main

import (
	"context"
	"errors"
	"flag"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"spades/internal/app"
	"spades/internal/bot"
	"spades/internal/config"
	"spades/internal/logging"
	"spades/internal/ports/ws"
)

func main() {
	configPath := flag.String("config", "data/game_config.json", "game config file")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error or off")
	flag.Parse()

	logger := logging.New(*level, os.Stderr)

	if err := config.LoadGameConfig(*configPath); err != nil {
		logger.Warn("using default game config: %v", err)
	}
	cfg := config.GetGameConfig().ApplyEnv(config.EnvMap(os.Environ()))

	if cfg.BotsEnabled {
		if err := bot.LoadIdentities(cfg.BotIdentitiesPath); err != nil {
			logger.Warn("bot identities unavailable, using generated names: %v", err)
		}
	}

	svc := app.NewService(rand.New(rand.NewSource(time.Now().UnixNano())), cfg.Rules())
	hub := ws.NewHub(svc, logger, cfg.BotsEnabled)

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("listening on %s", cfg.ListenAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server stopped: %v", err)
		os.Exit(1)
	}
}
