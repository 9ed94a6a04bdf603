package metrics

import (
	"context"
	"time"

	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/marcelsud/webhook-relay/routes"
)

// RegistryCollector implements Collector from in-process state
type RegistryCollector struct {
	registry     endpoint.UseCase
	routesLoader *routes.Loader
}

// NewRegistryCollector creates a collector reading registry and loader
func NewRegistryCollector(registry endpoint.UseCase, loader *routes.Loader) *RegistryCollector {
	return &RegistryCollector{
		registry:     registry,
		routesLoader: loader,
	}
}

// Collect gathers all metrics
func (c *RegistryCollector) Collect(ctx context.Context) (Metrics, error) {
	counts, err := c.GetEndpointCounts(ctx)
	if err != nil {
		return Metrics{}, err
	}
	staticRoutes, err := c.GetStaticRoutes(ctx)
	if err != nil {
		return Metrics{}, err
	}
	return Metrics{
		Endpoints:    counts,
		StaticRoutes: staticRoutes,
		Timestamp:    time.Now(),
	}, nil
}

// GetEndpointCounts counts endpoints from a registry snapshot
func (c *RegistryCollector) GetEndpointCounts(ctx context.Context) (EndpointCounts, error) {
	var counts EndpointCounts
	for _, e := range c.registry.List(ctx) {
		counts.Total++
		if e.Active {
			counts.Active++
		} else {
			counts.Inactive++
		}
	}
	return counts, nil
}

// GetStaticRoutes returns the size of the static route table
func (c *RegistryCollector) GetStaticRoutes(ctx context.Context) (int64, error) {
	if c.routesLoader == nil {
		return 0, nil
	}
	return int64(len(c.routesLoader.List())), nil
}
