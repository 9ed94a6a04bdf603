package endpoint

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// recordingRepository keeps every snapshot handed to Save and fails on demand
type recordingRepository struct {
	saved [][]Endpoint
	fail  bool
}

func (r *recordingRepository) Load(context.Context) ([]Endpoint, error) { return nil, nil }
func (r *recordingRepository) Close(context.Context) error              { return nil }

func (r *recordingRepository) Save(_ context.Context, endpoints []Endpoint) error {
	r.saved = append(r.saved, endpoints)
	if r.fail {
		return errors.New("disk full")
	}
	return nil
}

func TestRegistry_PersistSkipsOlderSnapshots(t *testing.T) {
	ctx := context.Background()
	older := []Endpoint{{ID: "a", URL: "https://a.example", Name: "A"}}
	newer := append(older, Endpoint{ID: "b", URL: "https://b.example", Name: "B"})

	t.Run("after a failed newer save", func(t *testing.T) {
		repo := &recordingRepository{fail: true}
		r := NewRegistry(repo, zerolog.Nop())

		r.persist(ctx, newer, 2)
		repo.fail = false
		r.persist(ctx, older, 1)

		assert.Len(t, repo.saved, 1)
		assert.Equal(t, newer, repo.saved[0])
	})

	t.Run("after a successful newer save", func(t *testing.T) {
		repo := &recordingRepository{}
		r := NewRegistry(repo, zerolog.Nop())

		r.persist(ctx, newer, 2)
		r.persist(ctx, older, 1)
		r.persist(ctx, newer, 3)

		assert.Equal(t, [][]Endpoint{newer, newer}, repo.saved)
	})
}
