package endpoint

import "context"

/* Persistence is split in small interfaces
 * The registry only needs to load once and save the full collection
 */

// Reader loads the persisted endpoint collection
type Reader interface {
	Load(ctx context.Context) ([]Endpoint, error)
}

// Writer replaces the persisted endpoint collection
type Writer interface {
	Save(ctx context.Context, endpoints []Endpoint) error
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}
