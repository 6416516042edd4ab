package gateway

import (
	"context"
	"net/http"
	"time"
)

// Entry es una respuesta guardada: status, headers y body.
type Entry struct {
	Status   int         `json:"status"`
	Header   http.Header `json:"header"`
	Body     []byte      `json:"body"`
	StoredAt time.Time   `json:"storedAt"`
}

// Cache es un namespace de entradas indexadas por request URI.
// Put es last-writer-wins.
type Cache interface {
	Match(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, key string) error
}

// Storage agrupa namespaces versionados. Solo uno debería estar vivo tras Activate.
type Storage interface {
	Open(ctx context.Context, name string) (Cache, error)
	Has(ctx context.Context, name string) (bool, error)
	Keys(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) (bool, error)
}
