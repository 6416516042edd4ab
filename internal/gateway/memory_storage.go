package gateway

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"

	gocache "github.com/patrickmn/go-cache"
)

const nsSep = "\x00"

// MemoryStorage guarda todo en un go-cache sin expiración; el namespace va
// como prefijo de la clave.
type MemoryStorage struct {
	mu    sync.Mutex
	items *gocache.Cache
	names map[string]struct{}
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: gocache.New(gocache.NoExpiration, 0),
		names: make(map[string]struct{}),
	}
}

func (s *MemoryStorage) Open(ctx context.Context, name string) (Cache, error) {
	s.mu.Lock()
	s.names[name] = struct{}{}
	s.mu.Unlock()
	return &memoryCache{s: s, name: name}, nil
}

func (s *MemoryStorage) Has(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.names[name]
	return ok, nil
}

func (s *MemoryStorage) Keys(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStorage) Delete(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.names[name]; !ok {
		return false, nil
	}
	delete(s.names, name)

	prefix := name + nsSep
	for k := range s.items.Items() {
		if strings.HasPrefix(k, prefix) {
			s.items.Delete(k)
		}
	}
	return true, nil
}

type memoryCache struct {
	s    *MemoryStorage
	name string
}

func (c *memoryCache) Match(ctx context.Context, key string) (Entry, bool, error) {
	v, ok := c.s.items.Get(c.name + nsSep + key)
	if !ok {
		return Entry{}, false, nil
	}
	return cloneEntry(v.(Entry)), true, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, e Entry) error {
	// un namespace borrado no acepta escrituras tardías
	c.s.mu.Lock()
	defer c.s.mu.Unlock()
	if _, ok := c.s.names[c.name]; !ok {
		return nil
	}
	c.s.items.Set(c.name+nsSep+key, cloneEntry(e), gocache.NoExpiration)
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.s.items.Delete(c.name + nsSep + key)
	return nil
}

func cloneEntry(e Entry) Entry {
	out := e
	if e.Header != nil {
		out.Header = http.Header(e.Header).Clone()
	}
	if e.Body != nil {
		out.Body = append([]byte(nil), e.Body...)
	}
	return out
}
