package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quizwire/server/internal/api"
	"github.com/quizwire/server/internal/boardgen"
	"github.com/quizwire/server/internal/game"
	"github.com/quizwire/server/internal/gateway"
	"github.com/quizwire/server/internal/registry"
	"github.com/quizwire/server/internal/timers"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(level)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	clock := clockwork.NewRealClock()
	reg := registry.New(clock, cfg.registryConfig())
	machine := game.NewMachine(clock)
	orch := timers.New(clock)

	conns := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())

	var relay gateway.Relay
	if cfg.NATSURL != "" {
		relayCfg := gateway.DefaultRelayConfig()
		relayCfg.URL = cfg.NATSURL
		jsRelay, err := gateway.NewJetStreamRelay(relayCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect event relay")
		}
		defer jsRelay.Close()
		relay = jsRelay
		log.Info().Str("nats_url", cfg.NATSURL).Msg("event relay enabled")
	}

	service := gateway.NewService(reg, machine, orch, conns, relay, cfg.settings())

	var generator *boardgen.Generator
	if cfg.ProviderAPIKey != "" {
		client := boardgen.NewClient(boardgen.ClientConfig{
			BaseURL: cfg.ProviderBaseURL,
			APIKey:  cfg.ProviderAPIKey,
			Model:   cfg.ProviderModel,
			Referer: cfg.ProviderReferer,
		})
		generator = boardgen.NewGenerator(client)
	} else {
		log.Warn().Msg("OPENROUTER_API_KEY not set, board generation disabled")
	}

	wsHandler := gateway.NewWebSocketHandler(conns)
	apiHandler := api.NewHandler(reg, generator, service)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go conns.Start(ctx)

	go sweepLoop(ctx, clock, reg, cfg.sweepInterval())

	server := setupServer(cfg, wsHandler, apiHandler)

	go func() {
		log.Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	cancel()
	log.Info().Msg("shutdown complete")
}

// sweepLoop periodically removes rooms that have been idle past their
// expiry window.
func sweepLoop(ctx context.Context, clock clockwork.Clock, reg *registry.Registry, interval time.Duration) {
	ticker := clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if removed := reg.SweepExpired(clock.Now()); removed > 0 {
				log.Info().Int("removed", removed).Msg("swept expired rooms")
			}
		}
	}
}
