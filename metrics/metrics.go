package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the relay.
type Metrics struct {
	// Endpoints counts registered endpoints by state
	Endpoints EndpointCounts `json:"endpoints"`

	// StaticRoutes is the number of service keys routed without the registry
	StaticRoutes int64 `json:"static_routes"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// EndpointCounts splits the registry by active flag.
type EndpointCounts struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// Collector defines the interface for collecting relay state.
type Collector interface {
	// Collect gathers current metrics from the system
	Collect(ctx context.Context) (Metrics, error)

	// GetEndpointCounts returns registry sizes
	GetEndpointCounts(ctx context.Context) (EndpointCounts, error)

	// GetStaticRoutes returns the number of static routes
	GetStaticRoutes(ctx context.Context) (int64, error)
}
