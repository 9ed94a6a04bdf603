package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/marcelsud/webhook-relay/endpoint"
)

/* Flat file implementation of endpoint.Repository
 * The whole collection is rewritten on every save
 */

type Repository struct {
	path string
}

// NewRepository creates a repository persisting to path
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Load reads the collection. A missing file yields an error wrapping os.ErrNotExist.
func (r *Repository) Load(ctx context.Context) ([]endpoint.Endpoint, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("reading endpoints file: %w", err)
	}
	endpoints, err := endpoint.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoints file %s: %w", r.path, err)
	}
	return endpoints, nil
}

// Save writes the collection to a temporary file and renames it into place
func (r *Repository) Save(ctx context.Context, endpoints []endpoint.Endpoint) error {
	data, err := endpoint.Encode(endpoints)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp endpoints file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing endpoints file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing endpoints file: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replacing endpoints file: %w", err)
	}
	return nil
}

// Close is a no-op, the file is not held open between calls
func (r *Repository) Close(ctx context.Context) error {
	return nil
}
