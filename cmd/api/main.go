package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/config"
	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/endpoint/file"
	"github.com/marcelsud/webhook-relay/endpoint/redis"
	"github.com/marcelsud/webhook-relay/internal/http/chi"
	"github.com/marcelsud/webhook-relay/metrics"
	"github.com/marcelsud/webhook-relay/relay"
	"github.com/marcelsud/webhook-relay/routes"
	"github.com/rs/zerolog"
)

/*
 * main.go is where every package gets wired together. Imports only flow downward:
 * the application (api, cli) imports the domain packages, which import storage.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	logger := newLogger(cfg)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := newRepository(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("opening endpoint store")
		return
	}
	defer repo.Close(context.Background())

	registry := endpoint.NewRegistry(repo, logger)
	registry.Load(ctx)

	loader := routes.NewLoader().WithLogger(logger)
	if cfg.RoutesFile != "" {
		if err := loader.Load(cfg.RoutesFile); err != nil {
			logger.Error().Err(err).Str("file", cfg.RoutesFile).Msg("loading static routes")
			return
		}
		if cfg.WatchRoutes {
			stopWatch, err := loader.Watch(cfg.RoutesFile)
			if err != nil {
				logger.Error().Err(err).Msg("watching static routes")
				return
			}
			defer stopWatch()
		}
	}

	collector := metrics.NewRegistryCollector(registry, loader)
	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		logger.Error().Err(err).Msg("creating metrics exporter")
		return
	}
	defer exporter.Shutdown(context.Background())

	dispatcher := relay.NewDispatcher(logger,
		relay.WithTimeout(cfg.DeliveryTimeout),
		relay.WithInsecureSkipVerify(cfg.InsecureSkipVerify),
		relay.WithRecorder(exporter),
	)

	r := chi.Handlers(ctx, logger, chi.Server{
		Registry:    registry,
		Dispatcher:  dispatcher,
		Routes:      loader,
		Collector:   collector,
		MetricsHTTP: exporter.ServeHTTP(),
	})
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, cfg.ShutdownTimeout, errShutdown)
	logger.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("serving")
		return
	}
	err = <-errShutdown
	if err != nil {
		logger.Error().Err(err).Msg("shutting down")
	}

	drain(dispatcher, cfg.ShutdownTimeout, logger)
}

// newLogger builds the request and application logger. httplog sets the
// zerolog global level from LogLevel, so the level has to go through its options.
func newLogger(cfg *config.Config) zerolog.Logger {
	return httplog.NewLogger("webhook-relay", httplog.Options{
		JSON:     true,
		LogLevel: cfg.LogLevel,
	})
}

func newRepository(cfg *config.Config) (endpoint.Repository, error) {
	switch cfg.StoreDriver {
	case config.StoreRedis:
		return redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisKey)
	default:
		return file.NewRepository(cfg.EndpointsFile), nil
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, timeout time.Duration, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch {
	case err == nil:
		errShutdown <- nil
	case errors.Is(err, context.DeadlineExceeded):
		errShutdown <- fmt.Errorf("forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("closing the server: %w", err)
	}
}

// drain waits for in-flight deliveries, giving up after timeout
func drain(dispatcher *relay.Dispatcher, timeout time.Duration, logger zerolog.Logger) {
	done := make(chan struct{})
	go func() {
		dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
		logger.Info().Msg("in-flight deliveries finished")
	case <-time.After(timeout):
		logger.Warn().Dur("timeout", timeout).Msg("abandoning in-flight deliveries")
	}
}
