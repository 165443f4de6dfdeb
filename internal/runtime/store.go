// Package runtime executes generated operation definitions: it persists
// entity records as JSON documents and serves the generated CRUD and login
// surface from the aggregate manifest.
package runtime

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned for lookups, updates and deletes that match no
// record.
var ErrNotFound = errors.New("record not found")

// Record is one stored document. Data holds the entity fields; identity
// and timestamps live beside it.
type Record struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      map[string]any
}

// Query shapes a list call. SearchFields come from the generated list
// operation; Search is the request's term, matched case-insensitively as a
// substring against any of the fields.
type Query struct {
	Page         int
	Limit        int
	Search       string
	SearchFields []string
	// Filter restricts by exact field value.
	Filter map[string]string
}

// Offset is the row offset implied by page and limit.
func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Store persists records grouped by entity slug. List returns newest
// first along with the total match count before pagination.
type Store interface {
	Insert(ctx context.Context, entity string, rec Record) error
	Get(ctx context.Context, entity, id string) (Record, error)
	Update(ctx context.Context, entity, id string, data map[string]any) (Record, error)
	Delete(ctx context.Context, entity, id string) error
	List(ctx context.Context, entity string, q Query) ([]Record, int, error)
	// FindByField returns the first record whose field equals value.
	FindByField(ctx context.Context, entity, field, value string) (Record, error)
}
