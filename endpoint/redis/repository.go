package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/endpoint"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of endpoint.Repository
 * Stores the same JSON document the file repository writes, under a single key
 */

// DefaultKey is the key used when none is configured
const DefaultKey = "relay:endpoints"

// ErrNoState is returned by Load when the key does not exist
var ErrNoState = errors.New("no endpoints stored")

type Repository struct {
	client *redis.Client
	key    string
}

// NewRepository connects to Redis and verifies the connection
func NewRepository(addr, password string, db int, key string) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	if key == "" {
		key = DefaultKey
	}

	return &Repository{
		client: client,
		key:    key,
	}, nil
}

// Load reads the stored collection
func (r *Repository) Load(ctx context.Context) ([]endpoint.Endpoint, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("loading %s: %w", r.key, ErrNoState)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", r.key, err)
	}
	endpoints, err := endpoint.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", r.key, err)
	}
	return endpoints, nil
}

// Save overwrites the stored collection
func (r *Repository) Save(ctx context.Context, endpoints []endpoint.Endpoint) error {
	data, err := endpoint.Encode(endpoints)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("storing %s: %w", r.key, err)
	}
	return nil
}

// Close closes the Redis connection
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}

