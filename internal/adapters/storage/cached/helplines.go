// Package cached decora repositorios con un cache read-through (sturdyc).
// Solo el directorio de helplines pasa por acá: se lee en cada carga y casi no cambia.
package cached

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"

	"streetpaws/internal/domain/helplines"
)

// DefaultTTL se usa cuando la config no define uno.
const DefaultTTL = 5 * time.Minute

const (
	keyList  = "helplines:list"
	keyCount = "helplines:count"

	capacity           = 64
	numShards          = 1
	evictionPercentage = 10
)

// Helplines envuelve un helplines.Repository; Create invalida List y Count.
type Helplines struct {
	base  helplines.Repository
	cache *sturdyc.Client[any]
}

func NewHelplines(base helplines.Repository, ttl time.Duration) *Helplines {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Helplines{
		base:  base,
		cache: sturdyc.New[any](capacity, numShards, ttl, evictionPercentage),
	}
}

func (h *Helplines) Create(ctx context.Context, hl helplines.Helpline) (helplines.Helpline, error) {
	created, err := h.base.Create(ctx, hl)
	if err == nil {
		h.cache.Delete(keyList)
		h.cache.Delete(keyCount)
	}
	return created, err
}

func (h *Helplines) List(ctx context.Context) ([]helplines.Helpline, error) {
	items, err := sturdyc.GetOrFetch(ctx, h.cache, keyList, func(ctx context.Context) ([]helplines.Helpline, error) {
		return h.base.List(ctx)
	})
	if err != nil {
		return nil, err
	}
	// copia: el slice cacheado es compartido
	out := make([]helplines.Helpline, len(items))
	copy(out, items)
	return out, nil
}

func (h *Helplines) Count(ctx context.Context) (int, error) {
	return sturdyc.GetOrFetch(ctx, h.cache, keyCount, func(ctx context.Context) (int, error) {
		return h.base.Count(ctx)
	})
}
