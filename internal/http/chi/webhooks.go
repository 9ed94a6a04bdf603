package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/relay"
	"github.com/marcelsud/webhook-relay/routes"
)

// maxWebhookBody caps inbound payloads at 2 MiB
const maxWebhookBody = 2 << 20

const (
	msgAccepted   = "Webhook received and processing started"
	msgNoEndpoint = "No active endpoints configured"
)

// webhookResponse is the acknowledgement sent before any delivery completes
type webhookResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// postWebhook handles POST /webhook, fanning out to every active endpoint
func postWebhook(registry endpoint.UseCase, dispatcher Launcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		evt, ok := readEvent(w, r)
		if !ok {
			return
		}

		targets := relay.TargetsFromEndpoints(registry.Active(r.Context()))
		status := dispatcher.Launch(evt, targets)

		msg := msgAccepted
		if status == relay.NoActiveTargets {
			msg = msgNoEndpoint
		}
		writeJSON(w, http.StatusOK, webhookResponse{Status: status.String(), Message: msg})
	})
}

// postStaticWebhook handles POST /webhook/{service}, delivering to the route's single target
func postStaticWebhook(routeLoader *routes.Loader, dispatcher Launcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		service := chi.URLParam(r, "service")
		route, err := routeLoader.Get(service)
		if err != nil {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}

		evt, ok := readEvent(w, r)
		if !ok {
			return
		}

		status := dispatcher.Launch(evt, []relay.Target{relay.TargetFromRoute(route)})
		writeJSON(w, http.StatusOK, webhookResponse{Status: status.String(), Message: msgAccepted})
	})
}

// readEvent captures the body and headers, answering 400 when the body is not JSON
func readEvent(w http.ResponseWriter, r *http.Request) (relay.Event, bool) {
	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return relay.Event{}, false
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return relay.Event{}, false
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return relay.Event{}, false
	}

	return relay.NewEvent(body, r.Header), true
}
