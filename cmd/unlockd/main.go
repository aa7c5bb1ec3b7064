// Command unlockd bridges Stripe checkout webhooks to Firestore purchase
// unlocks: one POST route, signature verification over the raw body, one
// conditional document write per delivery.
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

	"cloud.google.com/go/firestore"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/fincapp/unlockd/internal/config"
	zerologadapter "github.com/fincapp/unlockd/pkg/purchase/logger/zerolog"
	prommetrics "github.com/fincapp/unlockd/pkg/webhook/metrics/prometheus"
	stripewebhook "github.com/fincapp/unlockd/pkg/webhook/stripe"
	firestorestorage "github.com/fincapp/unlockd/storage/firestore"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "unlockd").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if lvl, lvlErr := zerolog.ParseLevel(cfg.LogLevel); lvlErr == nil {
		logger = logger.Level(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Process-wide clients: created once, reused by every request.
	projectID := cfg.GoogleProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	fsClient, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create firestore client")
	}
	defer fsClient.Close()

	store, err := firestorestorage.New(fsClient, firestorestorage.Config{
		PurchaseKind: cfg.PurchaseKind,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create purchase store")
	}

	reg := prometheus.NewRegistry()
	metrics := prommetrics.NewMetrics(reg, "unlockd")

	provider, err := stripewebhook.NewProvider(stripewebhook.Config{
		Store:               store,
		StripeAPIKey:        cfg.StripeSecretKey,
		StripeWebhookSecret: cfg.StripeWebhookSecret,
		Logger:              zerologadapter.NewLogger(logger),
		Metrics:             metrics,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create stripe webhook provider")
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodPost, "/stripe-webhook", provider.WebhookHandler())
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.AdminToken != "" {
		r.Post("/internal/resync/{sessionID}", resyncHandler(provider, cfg.AdminToken, logger))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("addr", srv.Addr).Msg("listening")
		if serveErr := srv.ListenAndServe(); !errors.Is(serveErr, http.ErrServerClosed) {
			return serveErr
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}

// resyncHandler re-applies the unlock for a checkout session fetched from the
// Stripe API. Operator-only: guarded by a bearer token from the environment.
func resyncHandler(provider *stripewebhook.Provider, token string, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sessionID := chi.URLParam(r, "sessionID")
		userID, err := provider.SyncSession(r.Context(), sessionID)
		if err != nil {
			logger.Error().Err(err).Str("session_id", sessionID).Msg("resync failed")
			http.Error(w, "resync failed", http.StatusBadGateway)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"resynced": true, "user_id": %q}`, userID)
	}
}
