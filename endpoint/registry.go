package endpoint

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

/* Registry owns the endpoint collection
 * Uses pointer semantics as it's an API, not data
 */

// UseCase defines the operations exposed to the HTTP layer and the CLI
type UseCase interface {
	Register(ctx context.Context, url, name string, active bool) ([]Endpoint, error)
	List(ctx context.Context) []Endpoint
	Active(ctx context.Context) []Endpoint
	SetActive(ctx context.Context, id string, active bool) (Endpoint, error)
	Delete(ctx context.Context, id string) ([]Endpoint, error)
}

type Registry struct {
	mu        sync.RWMutex
	endpoints []Endpoint
	version   uint64

	// saveMu orders writes to the repository. attempted is the newest version
	// handed to the repository; anything older is stale even if that save failed.
	saveMu    sync.Mutex
	attempted uint64

	repo   Repository
	logger zerolog.Logger
	newID  func() string
}

// NewRegistry creates an empty registry backed by repo. Call Load before serving.
func NewRegistry(repo Repository, logger zerolog.Logger) *Registry {
	return &Registry{
		repo:   repo,
		logger: logger.With().Str("component", "registry").Logger(),
		newID:  func() string { return uuid.New().String() },
	}
}

// Load installs the persisted collection, falling back to Defaults
// when it is missing or unusable. It never fails.
func (r *Registry) Load(ctx context.Context) {
	endpoints, err := r.repo.Load(ctx)
	if err == nil {
		err = checkIDs(endpoints)
	}
	if err != nil {
		r.logger.Warn().Err(err).Msg("loading endpoints, installing defaults")
		endpoints = Defaults()
	} else {
		r.logger.Info().Int("count", len(endpoints)).Msg("loaded endpoints")
	}

	r.mu.Lock()
	r.endpoints = endpoints
	r.version++
	snapshot, version := r.snapshotLocked(), r.version
	r.mu.Unlock()

	if err != nil {
		r.persist(ctx, snapshot, version)
	}
}

// Register validates and appends a new endpoint, returning the full collection
func (r *Registry) Register(ctx context.Context, url, name string, active bool) ([]Endpoint, error) {
	e := Endpoint{URL: url, Name: name, Active: active}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	e.ID = r.uniqueIDLocked()
	r.endpoints = append(r.endpoints, e)
	r.version++
	snapshot, version := r.snapshotLocked(), r.version
	r.mu.Unlock()

	r.logger.Info().Str("id", e.ID).Str("name", e.Name).Str("url", e.URL).Msg("endpoint registered")
	r.persist(ctx, snapshot, version)
	return snapshot, nil
}

// List returns a copy of every endpoint
func (r *Registry) List(ctx context.Context) []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// Active returns a copy of the endpoints eligible for fan-out
func (r *Registry) Active(ctx context.Context) []Endpoint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	active := make([]Endpoint, 0, len(r.endpoints))
	for _, e := range r.endpoints {
		if e.Active {
			active = append(active, e)
		}
	}
	return active
}

// SetActive flips the active flag of the endpoint with the given id
func (r *Registry) SetActive(ctx context.Context, id string, active bool) (Endpoint, error) {
	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return Endpoint{}, fmt.Errorf("updating %s: %w", id, ErrNotFound)
	}
	r.endpoints[i].Active = active
	updated := r.endpoints[i]
	r.version++
	snapshot, version := r.snapshotLocked(), r.version
	r.mu.Unlock()

	r.logger.Info().Str("id", id).Bool("active", active).Msg("endpoint status changed")
	r.persist(ctx, snapshot, version)
	return updated, nil
}

// Delete removes the endpoint with the given id, returning the remaining collection
func (r *Registry) Delete(ctx context.Context, id string) ([]Endpoint, error) {
	r.mu.Lock()
	i := r.indexLocked(id)
	if i < 0 {
		r.mu.Unlock()
		return nil, fmt.Errorf("deleting %s: %w", id, ErrNotFound)
	}
	r.endpoints = append(r.endpoints[:i], r.endpoints[i+1:]...)
	r.version++
	snapshot, version := r.snapshotLocked(), r.version
	r.mu.Unlock()

	r.logger.Info().Str("id", id).Msg("endpoint deleted")
	r.persist(ctx, snapshot, version)
	return snapshot, nil
}

// persist writes snapshot unless a newer one has already been attempted.
// Failures are logged; the in-memory collection stays authoritative.
func (r *Registry) persist(ctx context.Context, snapshot []Endpoint, version uint64) {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	if version <= r.attempted {
		return
	}
	r.attempted = version
	if err := r.repo.Save(context.WithoutCancel(ctx), snapshot); err != nil {
		r.logger.Error().Err(err).Uint64("version", version).Msg("persisting endpoints")
	}
}

func (r *Registry) snapshotLocked() []Endpoint {
	snapshot := make([]Endpoint, len(r.endpoints))
	copy(snapshot, r.endpoints)
	return snapshot
}

func (r *Registry) indexLocked(id string) int {
	for i, e := range r.endpoints {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (r *Registry) uniqueIDLocked() string {
	for {
		id := r.newID()
		if r.indexLocked(id) < 0 {
			return id
		}
	}
}

func checkIDs(endpoints []Endpoint) error {
	seen := make(map[string]struct{}, len(endpoints))
	for _, e := range endpoints {
		if e.ID == "" {
			return fmt.Errorf("endpoint %q has no id", e.Name)
		}
		if _, ok := seen[e.ID]; ok {
			return fmt.Errorf("duplicate endpoint id %q", e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return nil
}
