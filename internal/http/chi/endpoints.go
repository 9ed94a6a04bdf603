package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/metrics"
)

/* HTTP layer DTOs for the endpoint registry
 * Separate from domain entities to avoid leaking internal structure
 */

type endpointRequest struct {
	URL    string `json:"url"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type statusRequest struct {
	Active *bool `json:"active"`
}

type endpointResponse struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func toResponse(e endpoint.Endpoint) endpointResponse {
	return endpointResponse{ID: e.ID, URL: e.URL, Name: e.Name, Active: e.Active}
}

func toResponses(endpoints []endpoint.Endpoint) []endpointResponse {
	out := make([]endpointResponse, 0, len(endpoints))
	for _, e := range endpoints {
		out = append(out, toResponse(e))
	}
	return out
}

// getEndpoints handles GET /endpoints
func getEndpoints(registry endpoint.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, toResponses(registry.List(r.Context())))
	})
}

// postEndpoint handles POST /endpoints and answers with the whole registry
func postEndpoint(registry endpoint.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req endpointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body", Details: err.Error()})
			return
		}

		endpoints, err := registry.Register(r.Context(), req.URL, req.Name, req.Active)
		if err != nil {
			var invalid *endpoint.ValidationError
			if errors.As(err, &invalid) {
				writeJSON(w, http.StatusBadRequest, errorResponse{Error: invalid.Message, Details: invalid.Details})
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, toResponses(endpoints))
	})
}

// putEndpointStatus handles PUT /endpoints/{id}/status
func putEndpointStatus(registry endpoint.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req statusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body", Details: err.Error()})
			return
		}
		if req.Active == nil {
			writeError(w, http.StatusBadRequest, "active is required")
			return
		}

		e, err := registry.SetActive(r.Context(), chi.URLParam(r, "id"), *req.Active)
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(e))
	})
}

// deleteEndpoint handles DELETE /endpoints/{id} and answers with what is left
func deleteEndpoint(registry endpoint.UseCase) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoints, err := registry.Delete(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeRegistryError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponses(endpoints))
	})
}

// getStats handles GET /stats
func getStats(collector metrics.Collector) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m, err := collector.Collect(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, m)
	})
}

func writeRegistryError(w http.ResponseWriter, err error) {
	if errors.Is(err, endpoint.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}
