package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arjunkh87/bizdash/internal/banking"
	"github.com/arjunkh87/bizdash/internal/config"
	httpx "github.com/arjunkh87/bizdash/internal/http"
	"github.com/arjunkh87/bizdash/internal/http/handlers"
	"github.com/arjunkh87/bizdash/internal/observability"
	"github.com/arjunkh87/bizdash/internal/redisclient"
	"github.com/arjunkh87/bizdash/internal/repo/cached"
	fsrepo "github.com/arjunkh87/bizdash/internal/repo/firestore"
	"github.com/arjunkh87/bizdash/internal/repo/memory"
	"github.com/arjunkh87/bizdash/internal/session"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()

	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	ctx := context.Background()

	// tracing is optional, an empty endpoint just skips it
	var tracerShutdown func(context.Context) error

	if cfg.OTLPEndpoint != "" {
		tracerShutdown, err = observability.InitTracer(ctx, "bizdash", cfg.Env, cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
			os.Exit(1)
		}
	}

	// metrics registry shared by the middleware and /metrics
	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)
	metricsHandler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})

	// identity provider behind a breaker, a short memo and metrics
	provider, err := session.NewProvider(ctx, cfg.ProjectID, cfg.CredentialsFile)

	if err != nil {
		log.Error("identity provider init failed", "err", err)
		os.Exit(1)
	}

	guarded := session.NewGuardedVerifier(provider, session.GuardedVerifierConfig{})
	memo := session.NewCachedVerifier(guarded, cfg.SessionMemoTTL)
	verifier := observability.NewMeasuredVerifier(memo, prom)

	// document store
	var store cached.Store
	var ready []handlers.ReadyCheck

	switch cfg.StoreDriver {
	case "memory":
		log.Warn("using the in-memory user store, writes will not survive a restart")
		store = memory.NewUsersRepo()

	default:
		client, err := fsrepo.NewClient(ctx, cfg.ProjectID, cfg.CredentialsFile)

		if err != nil {
			log.Error("firestore init failed", "err", err)
			os.Exit(1)
		}

		defer client.Close()

		store = fsrepo.NewUsersRepo(client, prom)
	}

	// optional redis read-through in front of the store
	if cfg.RedisAddr != "" {
		rdb := redisclient.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

		defer rdb.Close()

		store = cached.NewUsersRepo(store, rdb.Raw(), cfg.UserCacheTTL, prom)
		ready = append(ready, handlers.ReadyCheck{Name: "redis", Check: rdb.Ping})
	}

	links := banking.NewLinkManager(
		cfg.BankStateSecret,
		cfg.BankWebhookSecret,
		cfg.BankStateTTL,
		cfg.BankPartnerURL,
		cfg.BankProvider,
	)

	// set up routers with the full dependency set
	router := httpx.NewRouter(httpx.RouterDeps{
		Cfg:            cfg,
		Verifier:       verifier,
		Tokens:         provider,
		Minter:         provider,
		Revoker:        provider,
		Forget:         memo,
		Store:          store,
		Links:          links,
		Prom:           prom,
		MetricsHandler: metricsHandler,
		Ready:          ready,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctxTimeOut := 10 * time.Second

		ctx, cancel := config.WithTimeout(ctxTimeOut)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}

		if tracerShutdown != nil {
			if err := tracerShutdown(ctx); err != nil {
				log.Error("tracer shutdown failed", "err", err)
			}
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
