// main wires high-level dependencies and keeps the server lifecycle small.
// Admission and proxy logic live in the internal services packages.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"proxygate/internal/admission/metrics"
	"proxygate/internal/admission/service"
	"proxygate/internal/admission/store/ledger"
	"proxygate/internal/admission/store/window"
	"proxygate/internal/platform/config"
	"proxygate/internal/platform/httpserver"
	"proxygate/internal/platform/logger"
	httptransport "proxygate/internal/transport/http"
	"proxygate/internal/upstream"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	m := metrics.New()
	gate, err := service.New(window.New(), ledger.New(),
		service.WithLogger(log),
		service.WithMetrics(m),
	)
	if err != nil {
		log.Error("building admission gate", "error", err)
		os.Exit(1)
	}

	caller := upstream.NewCaller(cfg.UpstreamTimeout, upstream.WithLogger(log))
	handler := httptransport.NewHandler(cfg, gate, caller, log, httptransport.WithMetrics(m))
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, log))

	if cfg.Gemini.APIKey == "" {
		log.Warn("GEMINI_API_KEY not set; /api/gemini-proxy will answer with a configuration error")
	}
	if cfg.Search.APIKey == "" || cfg.Search.EngineID == "" {
		log.Warn("search credentials not set; /api/search-proxy will answer with a configuration error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting proxygate",
		"addr", cfg.Addr,
		"free_trial_limit", cfg.FreeTrialLimit,
		"rate_window", cfg.RateWindow,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
