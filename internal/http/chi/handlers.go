package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/metrics"
	"github.com/marcelsud/webhook-relay/relay"
	"github.com/marcelsud/webhook-relay/routes"
	"github.com/rs/zerolog"
)

const requestTimeout = 30 * time.Second

// Launcher starts a background delivery batch
type Launcher interface {
	Launch(evt relay.Event, targets []relay.Target) relay.BatchStatus
}

// Server bundles what the HTTP surface needs
type Server struct {
	Registry    endpoint.UseCase
	Dispatcher  Launcher
	Routes      *routes.Loader
	Collector   metrics.Collector
	MetricsHTTP http.Handler
}

// Handlers sets up the relay API routes
func Handlers(ctx context.Context, logger zerolog.Logger, s Server) *chi.Mux {
	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	r.Method(http.MethodPost, "/webhook", postWebhook(s.Registry, s.Dispatcher))
	r.Method(http.MethodPost, "/webhook/{service}", postStaticWebhook(s.Routes, s.Dispatcher))

	r.Route("/endpoints", func(r chi.Router) {
		r.Method(http.MethodGet, "/", getEndpoints(s.Registry))
		r.Method(http.MethodPost, "/", postEndpoint(s.Registry))
		r.Method(http.MethodPut, "/{id}/status", putEndpointStatus(s.Registry))
		r.Method(http.MethodDelete, "/{id}", deleteEndpoint(s.Registry))
	})

	if s.Collector != nil {
		r.Method(http.MethodGet, "/stats", getStats(s.Collector))
	}
	if s.MetricsHTTP != nil {
		r.Method(http.MethodGet, "/metrics", s.MetricsHTTP)
	}

	return r
}
