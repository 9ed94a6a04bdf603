package chi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/endpoint/file"
	"github.com/marcelsud/webhook-relay/endpoint/mocks"
	"github.com/marcelsud/webhook-relay/metrics"
	"github.com/marcelsud/webhook-relay/relay"
	"github.com/marcelsud/webhook-relay/routes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeLauncher records launched batches instead of sending them
type fakeLauncher struct {
	mu      sync.Mutex
	batches [][]relay.Target
	events  []relay.Event
}

func (f *fakeLauncher) Launch(evt relay.Event, targets []relay.Target) relay.BatchStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	f.batches = append(f.batches, targets)
	if len(targets) == 0 {
		return relay.NoActiveTargets
	}
	return relay.Dispatched
}

func serve(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, path, strings.NewReader(body))
	require.NoError(t, err)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestHealth(t *testing.T) {
	h := Handlers(context.Background(), zerolog.Nop(), Server{Registry: mocks.NewUseCase(t), Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

	w := serve(t, h, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestPostWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("fans out to active endpoints", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Active", mock.Anything).Return([]endpoint.Endpoint{
			{ID: "1", URL: "https://a.example/hook", Name: "A", Active: true},
			{ID: "2", URL: "https://b.example/hook", Name: "B", Active: true},
		})
		launcher := &fakeLauncher{}
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: launcher, Routes: routes.NewLoader()})

		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"x":1}`))
		req.Header.Set("X-Signature", "abc")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[webhookResponse](t, w)
		assert.Equal(t, "accepted", resp.Status)
		assert.Equal(t, msgAccepted, resp.Message)

		require.Len(t, launcher.batches, 1)
		assert.Equal(t, []relay.Target{
			{Name: "A", URL: "https://a.example/hook"},
			{Name: "B", URL: "https://b.example/hook"},
		}, launcher.batches[0])
		assert.Equal(t, `{"x":1}`, string(launcher.events[0].Body))
		assert.Equal(t, "abc", launcher.events[0].Headers.Get("X-Signature"))
	})

	t.Run("no active endpoints", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Active", mock.Anything).Return([]endpoint.Endpoint{})
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/webhook", `{"x":1}`)

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode[webhookResponse](t, w)
		assert.Equal(t, "no_active_endpoints", resp.Status)
		assert.Equal(t, msgNoEndpoint, resp.Message)
	})

	t.Run("rejects non JSON body", func(t *testing.T) {
		launcher := &fakeLauncher{}
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: mocks.NewUseCase(t), Dispatcher: launcher, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/webhook", `not json`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, launcher.batches)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		launcher := &fakeLauncher{}
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: mocks.NewUseCase(t), Dispatcher: launcher, Routes: routes.NewLoader()})

		big := `"` + strings.Repeat("a", maxWebhookBody) + `"`
		w := serve(t, h, http.MethodPost, "/webhook", big)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Empty(t, launcher.batches)
	})
}

func TestPostStaticWebhook(t *testing.T) {
	ctx := context.Background()

	t.Run("known service", func(t *testing.T) {
		launcher := &fakeLauncher{}
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: mocks.NewUseCase(t), Dispatcher: launcher, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/webhook/fincra", `{"event":"paid"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "accepted", decode[webhookResponse](t, w).Status)
		require.Len(t, launcher.batches, 1)
		assert.Equal(t, []relay.Target{{
			Name: "Static fincra endpoint",
			URL:  "https://staging.webhook.api.mavapay.co/webhook/fincra",
		}}, launcher.batches[0])
	})

	t.Run("unknown service", func(t *testing.T) {
		launcher := &fakeLauncher{}
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: mocks.NewUseCase(t), Dispatcher: launcher, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/webhook/unknown", `{}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, decode[errorResponse](t, w).Error, "route not found")
		assert.Empty(t, launcher.batches)
	})
}

func TestPostEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and returns the full list", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Register", mock.Anything, "https://a.example/hook", "A", true).Return([]endpoint.Endpoint{
			{ID: "1", URL: "https://a.example/hook", Name: "A", Active: true},
		}, nil)
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/endpoints", `{"url":"https://a.example/hook","name":"A","active":true}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `[{"id":"1","url":"https://a.example/hook","name":"A","active":true}]`, w.Body.String())
	})

	t.Run("active defaults to false", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Register", mock.Anything, "https://a.example", "A", false).Return([]endpoint.Endpoint{}, nil)
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/endpoints", `{"url":"https://a.example","name":"A"}`)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Register", mock.Anything, "not a url", "A", false).
			Return(nil, &endpoint.ValidationError{Field: "url", Message: "Invalid URL format", Details: "scheme must be http or https"})
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/endpoints", `{"url":"not a url","name":"A"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decode[errorResponse](t, w)
		assert.Equal(t, "Invalid URL format", resp.Error)
		assert.NotEmpty(t, resp.Details)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: mocks.NewUseCase(t), Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPost, "/endpoints", `{"url":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestGetEndpoints(t *testing.T) {
	s := mocks.NewUseCase(t)
	s.On("List", mock.Anything).Return([]endpoint.Endpoint{
		{ID: "1", URL: "https://a.example", Name: "A", Active: true},
		{ID: "2", URL: "https://b.example", Name: "B", Active: false},
	})
	h := Handlers(context.Background(), zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

	w := serve(t, h, http.MethodGet, "/endpoints", "")

	assert.Equal(t, http.StatusOK, w.Code)
	results := decode[[]endpointResponse](t, w)
	require.Len(t, results, 2)
	assert.False(t, results[1].Active)
}

func TestPutEndpointStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("updates", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("SetActive", mock.Anything, "1", false).Return(endpoint.Endpoint{ID: "1", URL: "https://a.example", Name: "A"}, nil)
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPut, "/endpoints/1/status", `{"active":false}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"1","url":"https://a.example","name":"A","active":false}`, w.Body.String())
	})

	t.Run("unknown id", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("SetActive", mock.Anything, "missing", true).Return(endpoint.Endpoint{}, fmt.Errorf("updating missing: %w", endpoint.ErrNotFound))
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPut, "/endpoints/missing/status", `{"active":true}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("active is required", func(t *testing.T) {
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: mocks.NewUseCase(t), Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodPut, "/endpoints/1/status", `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteEndpoint(t *testing.T) {
	ctx := context.Background()

	t.Run("returns remaining", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Delete", mock.Anything, "1").Return([]endpoint.Endpoint{{ID: "2", URL: "https://b.example", Name: "B"}}, nil)
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodDelete, "/endpoints/1", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]endpointResponse](t, w), 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		s := mocks.NewUseCase(t)
		s.On("Delete", mock.Anything, "1").Return(nil, fmt.Errorf("deleting 1: %w", endpoint.ErrNotFound))
		h := Handlers(ctx, zerolog.Nop(), Server{Registry: s, Dispatcher: &fakeLauncher{}, Routes: routes.NewLoader()})

		w := serve(t, h, http.MethodDelete, "/endpoints/1", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

// TestRelayEndToEnd wires a real registry and dispatcher against a mock receiver
func TestRelayEndToEnd(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var got []string
	receiver := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		got = append(got, string(b))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer receiver.Close()

	repo := file.NewRepository(filepath.Join(t.TempDir(), "endpoints.json"))
	require.NoError(t, repo.Save(ctx, []endpoint.Endpoint{}))
	registry := endpoint.NewRegistry(repo, zerolog.Nop())
	registry.Load(ctx)

	dispatcher := relay.NewDispatcher(zerolog.Nop())
	loader := routes.NewLoader()
	h := Handlers(ctx, zerolog.Nop(), Server{
		Registry:   registry,
		Dispatcher: dispatcher,
		Routes:     loader,
		Collector:  metrics.NewRegistryCollector(registry, loader),
	})

	w := serve(t, h, http.MethodPost, "/endpoints", fmt.Sprintf(`{"url":%q,"name":"A","active":true}`, receiver.URL+"/a"))
	require.Equal(t, http.StatusOK, w.Code)
	registered := decode[[]endpointResponse](t, w)
	require.Len(t, registered, 1)

	w = serve(t, h, http.MethodPost, "/webhook", `{"x":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "accepted", decode[webhookResponse](t, w).Status)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) == 1 && got[0] == `{"x":1}`
	}, 2*time.Second, 10*time.Millisecond)

	w = serve(t, h, http.MethodPut, "/endpoints/"+registered[0].ID+"/status", `{"active":false}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = serve(t, h, http.MethodPost, "/webhook", `{"x":2}`)
	assert.Equal(t, "no_active_endpoints", decode[webhookResponse](t, w).Status)

	w = serve(t, h, http.MethodGet, "/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[metrics.Metrics](t, w)
	assert.Equal(t, int64(1), stats.Endpoints.Inactive)
	assert.Equal(t, int64(4), stats.StaticRoutes)

	dispatcher.Wait()
	mu.Lock()
	assert.Len(t, got, 1)
	mu.Unlock()
}
