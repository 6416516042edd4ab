package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

var errNetwork = errors.New("network down")

// fakeOrigin simula el CRUD service. gate != nil bloquea cada Fetch hasta que se cierre.
type fakeOrigin struct {
	mu     sync.Mutex
	calls  map[string]int
	status map[string]int
	bodies map[string]string
	down   bool
	gate   chan struct{}
}

func newFakeOrigin() *fakeOrigin {
	return &fakeOrigin{calls: map[string]int{}, status: map[string]int{}, bodies: map[string]string{}}
}

func (f *fakeOrigin) Fetch(ctx context.Context, req Request) (Entry, error) {
	f.mu.Lock()
	f.calls[req.Method+" "+req.URI]++
	gate, down := f.gate, f.down
	status, ok := f.status[req.URI]
	body := f.bodies[req.URI]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if down {
		return Entry{}, errNetwork
	}
	if !ok {
		status = http.StatusOK
	}
	if body == "" {
		body = "body of " + req.URI
	}
	return Entry{
		Status: status,
		Header: http.Header{"Content-Type": {"text/plain"}},
		Body:   []byte(body),
	}, nil
}

func (f *fakeOrigin) set(fn func(f *fakeOrigin)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

func (f *fakeOrigin) callCount(method, uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method+" "+uri]
}

func newActiveGateway(t *testing.T, origin Fetcher, storage Storage) *Gateway {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Precache = nil

	g, err := New(cfg, storage, origin, Options{})
	require.NoError(t, err)
	require.NoError(t, g.Install(context.Background()))
	require.NoError(t, g.Activate(context.Background()))
	return g
}

func get(t *testing.T, h http.Handler, uri string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, uri, nil))
	return rr
}

func TestClassify(t *testing.T) {
	g, err := New(DefaultConfig(), NewMemoryStorage(), newFakeOrigin(), Options{})
	require.NoError(t, err)

	cases := map[string]Strategy{
		"/":                      StrategyStaleWhileRevalidate,
		"/register":              StrategyStaleWhileRevalidate,
		"/search":                StrategyStaleWhileRevalidate,
		"/helplines":             StrategyStaleWhileRevalidate,
		"/api/animals":           StrategyNetworkFirstAPI,
		"/api/health":            StrategyNetworkFirstAPI,
		"/api/v1.2/thing":        StrategyNetworkFirstAPI,
		"/icon-192.svg":          StrategyCacheFirst,
		"/uploads/animal-1.png":  StrategyCacheFirst,
		"/animal/SP-2025-000001": StrategyNetworkFirst,
		"/register/extra":        StrategyNetworkFirst,
	}
	for path, want := range cases {
		assert.Equal(t, want, g.Classify(path), path)
	}
}

func TestAppShell_SecondRequestServedFromCacheWithoutWaiting(t *testing.T) {
	defer goleak.VerifyNone(t)

	origin := newFakeOrigin()
	g := newActiveGateway(t, origin, NewMemoryStorage())

	first := get(t, g, "/search")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))
	assert.Equal(t, "body of /search", first.Body.String())

	// la red queda colgada: la segunda respuesta no puede depender de ella
	gate := make(chan struct{})
	origin.set(func(f *fakeOrigin) {
		f.gate = gate
		f.bodies["/search"] = "fresh search"
	})

	done := make(chan *httptest.ResponseRecorder, 1)
	go func() { done <- get(t, g, "/search") }()

	select {
	case second := <-done:
		assert.Equal(t, http.StatusOK, second.Code)
		assert.Equal(t, "HIT", second.Header().Get(CacheHeader))
		assert.Equal(t, "body of /search", second.Body.String())
	case <-time.After(2 * time.Second):
		t.Fatal("cached app-shell response waited on the network")
	}

	close(gate)
	g.Wait()

	// el refetch de fondo actualizó la entrada
	origin.set(func(f *fakeOrigin) { f.gate = nil; f.down = true })
	third := get(t, g, "/search")
	assert.Equal(t, "fresh search", third.Body.String())
	g.Wait()

	assert.Equal(t, 3, origin.callCount(http.MethodGet, "/search"))
}

func TestAppShell_BackgroundFailureIsSwallowed(t *testing.T) {
	defer goleak.VerifyNone(t)

	origin := newFakeOrigin()
	g := newActiveGateway(t, origin, NewMemoryStorage())

	get(t, g, "/")
	origin.set(func(f *fakeOrigin) { f.down = true })

	rr := get(t, g, "/")
	g.Wait()
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "body of /", rr.Body.String())
}

func TestAppShell_StoresNonOKResponses(t *testing.T) {
	origin := newFakeOrigin()
	origin.set(func(f *fakeOrigin) { f.status["/helplines"] = http.StatusNotFound })
	storage := NewMemoryStorage()
	g := newActiveGateway(t, origin, storage)

	rr := get(t, g, "/helplines")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	c, err := storage.Open(context.Background(), DefaultVersion)
	require.NoError(t, err)
	_, ok, err := c.Match(context.Background(), "/helplines")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAPI_OfflineWithoutCacheReturns503(t *testing.T) {
	origin := newFakeOrigin()
	origin.set(func(f *fakeOrigin) { f.down = true })
	g := newActiveGateway(t, origin, NewMemoryStorage())

	rr := get(t, g, "/api/animals")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Offline", body["error"])
	assert.Equal(t, "This feature requires an internet connection", body["message"])
}

func TestAPI_NetworkFirstCachesOnly200(t *testing.T) {
	origin := newFakeOrigin()
	origin.set(func(f *fakeOrigin) { f.status["/api/animals/99"] = http.StatusNotFound })
	g := newActiveGateway(t, origin, NewMemoryStorage())

	ok := get(t, g, "/api/animals?species=dog")
	assert.Equal(t, http.StatusOK, ok.Code)
	missing := get(t, g, "/api/animals/99")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	origin.set(func(f *fakeOrigin) { f.down = true })

	// mismo URI con query: sale del cache
	cached := get(t, g, "/api/animals?species=dog")
	assert.Equal(t, http.StatusOK, cached.Code)
	assert.Equal(t, "HIT", cached.Header().Get(CacheHeader))
	assert.Equal(t, "body of /api/animals?species=dog", cached.Body.String())

	// otra query no comparte entrada
	other := get(t, g, "/api/animals?species=cat")
	assert.Equal(t, http.StatusServiceUnavailable, other.Code)

	// el 404 no se guardó
	notCached := get(t, g, "/api/animals/99")
	assert.Equal(t, http.StatusServiceUnavailable, notCached.Code)
}

func TestStaticAssets_CacheFirst(t *testing.T) {
	origin := newFakeOrigin()
	g := newActiveGateway(t, origin, NewMemoryStorage())

	first := get(t, g, "/icon-512.svg")
	assert.Equal(t, "MISS", first.Header().Get(CacheHeader))
	second := get(t, g, "/icon-512.svg")
	assert.Equal(t, "HIT", second.Header().Get(CacheHeader))

	assert.Equal(t, 1, origin.callCount(http.MethodGet, "/icon-512.svg"))
}

func TestDefault_NetworkFirstWithSilentFallback(t *testing.T) {
	origin := newFakeOrigin()
	storage := NewMemoryStorage()
	g := newActiveGateway(t, origin, storage)

	// la estrategia por defecto no escribe: solo lee lo que otro haya guardado
	c, err := storage.Open(context.Background(), DefaultVersion)
	require.NoError(t, err)
	require.NoError(t, c.Put(context.Background(), "/animal/SP-2025-000001", Entry{Status: 200, Body: []byte("cached page")}))

	live := get(t, g, "/animal/SP-2025-000001")
	assert.Equal(t, "body of /animal/SP-2025-000001", live.Body.String())

	origin.set(func(f *fakeOrigin) { f.down = true })

	fallback := get(t, g, "/animal/SP-2025-000001")
	assert.Equal(t, http.StatusOK, fallback.Code)
	assert.Equal(t, "cached page", fallback.Body.String())

	none := get(t, g, "/animal/SP-2025-000002")
	assert.Equal(t, http.StatusBadGateway, none.Code)
	assert.NotContains(t, none.Body.String(), "Offline")
}

func TestNonGET_PassesThroughUntouched(t *testing.T) {
	origin := newFakeOrigin()
	storage := NewMemoryStorage()
	g := newActiveGateway(t, origin, storage)

	rr := httptest.NewRecorder()
	g.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/animals", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get(CacheHeader))
	assert.Equal(t, 1, origin.callCount(http.MethodPost, "/api/animals"))

	c, err := storage.Open(context.Background(), DefaultVersion)
	require.NoError(t, err)
	_, ok, err := c.Match(context.Background(), "/api/animals")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInstall_PrecachesManifest(t *testing.T) {
	origin := newFakeOrigin()
	storage := NewMemoryStorage()

	g, err := New(DefaultConfig(), storage, origin, Options{})
	require.NoError(t, err)
	require.NoError(t, g.Install(context.Background()))
	assert.Equal(t, PhaseInstalled, g.Phase())

	c, err := storage.Open(context.Background(), DefaultVersion)
	require.NoError(t, err)
	for _, uri := range DefaultPrecache {
		_, ok, err := c.Match(context.Background(), uri)
		require.NoError(t, err)
		assert.True(t, ok, uri)
	}
}

func TestInstall_AllOrNothing(t *testing.T) {
	origin := newFakeOrigin()
	origin.set(func(f *fakeOrigin) { f.status["/api/helplines"] = http.StatusNotFound })
	storage := NewMemoryStorage()

	g, err := New(DefaultConfig(), storage, origin, Options{})
	require.NoError(t, err)
	require.Error(t, g.Install(context.Background()))
	assert.Equal(t, PhaseNew, g.Phase())

	names, err := storage.Keys(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)

	assert.ErrorIs(t, g.Activate(context.Background()), ErrNotInstalled)
}

func TestNotActivated_PassesThrough(t *testing.T) {
	origin := newFakeOrigin()
	g, err := New(DefaultConfig(), NewMemoryStorage(), origin, Options{})
	require.NoError(t, err)

	get(t, g, "/icon-192.svg")
	get(t, g, "/icon-192.svg")
	assert.Equal(t, 2, origin.callCount(http.MethodGet, "/icon-192.svg"))
}

func TestActivate_DeletesOtherNamespaces(t *testing.T) {
	ctx := context.Background()
	storage := NewMemoryStorage()

	for _, name := range []string{"streetpaws-pwa-v0", "other-app-cache", DefaultVersion} {
		c, err := storage.Open(ctx, name)
		require.NoError(t, err)
		require.NoError(t, c.Put(ctx, "/", Entry{Status: 200, Body: []byte(name)}))
	}

	g, err := New(Config{Version: DefaultVersion}, storage, newFakeOrigin(), Options{})
	require.NoError(t, err)
	require.NoError(t, g.Install(ctx))
	require.NoError(t, g.Activate(ctx))

	names, err := storage.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultVersion}, names)

	c, err := storage.Open(ctx, DefaultVersion)
	require.NoError(t, err)
	e, ok, err := c.Match(ctx, "/")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, DefaultVersion, string(e.Body))
}

func TestActivate_ClaimsClients(t *testing.T) {
	ctx := context.Background()
	g, err := New(Config{}, NewMemoryStorage(), newFakeOrigin(), Options{})
	require.NoError(t, err)

	a := g.RegisterClient()
	b := g.RegisterClient()
	assert.False(t, a.Controlled)
	assert.NotEqual(t, a.ID, b.ID)

	require.NoError(t, g.Install(ctx))
	require.NoError(t, g.Activate(ctx))

	for _, c := range g.Clients() {
		assert.True(t, c.Controlled, c.ID)
	}
	late := g.RegisterClient()
	assert.True(t, late.Controlled)

	g.UnregisterClient(a.ID)
	assert.Len(t, g.Clients(), 2)
}

func TestClose_WaitsAndEvicts(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx := context.Background()

	origin := newFakeOrigin()
	storage := NewMemoryStorage()
	cfg := DefaultConfig()
	cfg.Precache = []string{"/"}
	cfg.EvictOnClose = true

	g, err := New(cfg, storage, origin, Options{})
	require.NoError(t, err)
	require.NoError(t, g.Install(ctx))
	require.NoError(t, g.Activate(ctx))

	gate := make(chan struct{})
	origin.set(func(f *fakeOrigin) { f.gate = gate })

	rr := get(t, g, "/") // HIT + refetch en curso
	assert.Equal(t, "HIT", rr.Header().Get(CacheHeader))

	closed := make(chan error, 1)
	go func() { closed <- g.Close(ctx) }()

	select {
	case <-closed:
		t.Fatal("Close returned before the background refetch finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(gate)
	require.NoError(t, <-closed)
	assert.Equal(t, PhaseClosed, g.Phase())

	has, err := storage.Has(ctx, DefaultVersion)
	require.NoError(t, err)
	assert.False(t, has)

	assert.ErrorIs(t, g.Install(ctx), ErrClosed)
}

func TestClose_RespectsContext(t *testing.T) {
	origin := newFakeOrigin()
	cfg := DefaultConfig()
	cfg.Precache = []string{"/"}

	g, err := New(cfg, NewMemoryStorage(), origin, Options{})
	require.NoError(t, err)
	require.NoError(t, g.Install(context.Background()))
	require.NoError(t, g.Activate(context.Background()))

	gate := make(chan struct{})
	origin.set(func(f *fakeOrigin) { f.gate = gate })
	get(t, g, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Close(ctx), context.DeadlineExceeded)

	close(gate)
	g.Wait()
}

// flakyOrigin falla las primeras n llamadas y después delega.
type flakyOrigin struct {
	mu    sync.Mutex
	fails int
	next  Fetcher
}

func (f *flakyOrigin) Fetch(ctx context.Context, req Request) (Entry, error) {
	f.mu.Lock()
	if f.fails > 0 {
		f.fails--
		f.mu.Unlock()
		return Entry{}, errNetwork
	}
	f.mu.Unlock()
	return f.next.Fetch(ctx, req)
}

func TestStart_RetriesUntilOriginAnswers(t *testing.T) {
	defer goleak.VerifyNone(t)

	origin := &flakyOrigin{fails: 3, next: newFakeOrigin()}
	g, err := New(DefaultConfig(), NewMemoryStorage(), origin, Options{})
	require.NoError(t, err)

	require.NoError(t, g.Start(context.Background(), backoff.NewConstantBackOff(time.Millisecond)))
	assert.Equal(t, PhaseActivated, g.Phase())

	origin.mu.Lock()
	defer origin.mu.Unlock()
	assert.Zero(t, origin.fails)
}

func TestStart_StopsWhenContextIsCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	origin := newFakeOrigin()
	origin.set(func(f *fakeOrigin) { f.down = true })
	g, err := New(DefaultConfig(), NewMemoryStorage(), origin, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	require.Error(t, g.Start(ctx, backoff.NewConstantBackOff(5*time.Millisecond)))
	assert.Equal(t, PhaseNew, g.Phase())
	assert.Greater(t, origin.callCount(http.MethodGet, "/"), 1)
}

func TestStart_ClosedGatewayGivesUp(t *testing.T) {
	g, err := New(DefaultConfig(), NewMemoryStorage(), newFakeOrigin(), Options{})
	require.NoError(t, err)
	require.NoError(t, g.Close(context.Background()))

	err = g.Start(context.Background(), backoff.NewConstantBackOff(time.Millisecond))
	assert.ErrorIs(t, err, ErrClosed)
}
