// Package gateway es el worker offline como proxy HTTP con cache: se ubica
// entre el cliente y el CRUD service y decide por path qué estrategia aplicar.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"streetpaws/internal/platform/logger"
)

const DefaultVersion = "streetpaws-pwa-v1"

// DefaultPrecache son los recursos críticos que se guardan en Install. Todos
// deben existir en el origen: un solo no-2xx deja al gateway sin instalar.
var DefaultPrecache = []string{
	"/",
	"/api/health",
	"/api/helplines",
}

// DefaultAppShell son las rutas top-level servidas con stale-while-revalidate.
var DefaultAppShell = []string{"/", "/register", "/search", "/helplines"}

type Config struct {
	// Version es el nombre del único namespace vigente.
	Version   string
	Precache  []string
	AppShell  []string
	APIPrefix string
	// EvictOnClose borra el namespace actual en Close.
	EvictOnClose bool
}

func DefaultConfig() Config {
	return Config{
		Version:   DefaultVersion,
		Precache:  append([]string(nil), DefaultPrecache...),
		AppShell:  append([]string(nil), DefaultAppShell...),
		APIPrefix: "/api/",
	}
}

type Phase string

const (
	PhaseNew       Phase = "new"
	PhaseInstalled Phase = "installed"
	PhaseActivated Phase = "activated"
	PhaseClosed    Phase = "closed"
)

var (
	ErrNotInstalled = errors.New("gateway: not installed")
	ErrClosed       = errors.New("gateway: closed")
)

// Client es una pestaña abierta. Controlled = el gateway la atiende.
type Client struct {
	ID           string    `json:"id"`
	Controlled   bool      `json:"controlled"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Gateway concentra el estado de proceso: fase, namespace vigente, clientes
// y refetches en curso.
type Gateway struct {
	cfg      Config
	storage  Storage
	origin   Fetcher
	log      logger.Logger
	metrics  *Metrics
	now      func() time.Time
	appShell map[string]struct{}

	mu      sync.RWMutex
	phase   Phase
	cache   Cache
	clients map[string]*Client

	inflight sync.WaitGroup
}

type Options struct {
	Logger  logger.Logger
	Metrics *Metrics
}

func New(cfg Config, storage Storage, origin Fetcher, opts Options) (*Gateway, error) {
	if storage == nil || origin == nil {
		return nil, errors.New("gateway: storage and origin are required")
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = "/api/"
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	m := opts.Metrics
	if m == nil {
		m = NewMetrics(nil)
	}

	shell := make(map[string]struct{}, len(cfg.AppShell))
	for _, p := range cfg.AppShell {
		shell[p] = struct{}{}
	}

	return &Gateway{
		cfg:      cfg,
		storage:  storage,
		origin:   origin,
		log:      log.With(map[string]any{"module": "gateway", "version": cfg.Version}),
		metrics:  m,
		now:      time.Now,
		appShell: shell,
		phase:    PhaseNew,
		clients:  make(map[string]*Client),
	}, nil
}

func (g *Gateway) Phase() Phase {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.phase
}

func (g *Gateway) Version() string { return g.cfg.Version }

// Install abre el namespace vigente y precachea el manifest. Es todo o nada:
// si algún recurso falla (red o status no-2xx) no se escribe ninguno.
// Al terminar no espera a que se cierren los clientes (skip waiting).
// Los fetch corren sin tomar el lock, así las requests siguen pasando directo
// mientras tanto.
func (g *Gateway) Install(ctx context.Context) error {
	if g.Phase() == PhaseClosed {
		return ErrClosed
	}

	fetched := make(map[string]Entry, len(g.cfg.Precache))
	for _, uri := range g.cfg.Precache {
		e, err := g.origin.Fetch(ctx, Request{Method: "GET", URI: uri})
		if err != nil {
			return fmt.Errorf("gateway install: precache %s: %w", uri, err)
		}
		if e.Status < 200 || e.Status > 299 {
			return fmt.Errorf("gateway install: precache %s: status %d", uri, e.Status)
		}
		fetched[uri] = e
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.phase == PhaseClosed {
		return ErrClosed
	}

	c, err := g.storage.Open(ctx, g.cfg.Version)
	if err != nil {
		return fmt.Errorf("gateway install: open cache: %w", err)
	}
	for uri, e := range fetched {
		if err := c.Put(ctx, uri, e); err != nil {
			return fmt.Errorf("gateway install: store %s: %w", uri, err)
		}
	}

	g.cache = c
	if g.phase == PhaseNew {
		g.phase = PhaseInstalled
	}
	g.log.Info("gateway installed", map[string]any{"precached": len(fetched)})
	return nil
}

// Activate borra todo namespace distinto de la versión vigente y toma control
// de todos los clientes registrados.
func (g *Gateway) Activate(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.phase {
	case PhaseClosed:
		return ErrClosed
	case PhaseNew:
		return ErrNotInstalled
	}

	names, err := g.storage.Keys(ctx)
	if err != nil {
		return fmt.Errorf("gateway activate: list caches: %w", err)
	}
	for _, name := range names {
		if name == g.cfg.Version {
			continue
		}
		if _, err := g.storage.Delete(ctx, name); err != nil {
			return fmt.Errorf("gateway activate: delete cache %q: %w", name, err)
		}
		g.log.Info("old cache deleted", map[string]any{"cache": name})
	}

	for _, c := range g.clients {
		c.Controlled = true
	}
	g.phase = PhaseActivated
	g.log.Info("gateway activated", map[string]any{"clients": len(g.clients)})
	return nil
}

// NewStartBackOff es la política de reintentos por defecto de Start: sin
// tope de tiempo, hasta 30s entre intentos.
func NewStartBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}

// Start instala y activa el gateway reintentando con b hasta lograrlo, hasta
// que ctx se cancele o hasta que el gateway se cierre. Mientras tanto las
// requests pasan directo al origen.
func (g *Gateway) Start(ctx context.Context, b backoff.BackOff) error {
	if b == nil {
		b = NewStartBackOff()
	}

	op := func() error {
		switch g.Phase() {
		case PhaseClosed:
			return backoff.Permanent(ErrClosed)
		case PhaseActivated:
			return nil
		case PhaseNew:
			if err := g.Install(ctx); err != nil {
				if errors.Is(err, ErrClosed) {
					return backoff.Permanent(err)
				}
				return err
			}
		}
		if err := g.Activate(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	notify := func(err error, next time.Duration) {
		g.metrics.startRetries.Inc()
		g.log.Warn("gateway start failed, retrying", map[string]any{
			"err":   err.Error(),
			"phase": string(g.Phase()),
			"retry": next.String(),
		})
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return fmt.Errorf("gateway start: %w", err)
	}
	return nil
}

// RegisterClient agrega una pestaña. Si el gateway ya está activo, queda controlada.
func (g *Gateway) RegisterClient() Client {
	g.mu.Lock()
	defer g.mu.Unlock()

	c := &Client{
		ID:           uuid.NewString(),
		Controlled:   g.phase == PhaseActivated,
		RegisteredAt: g.now(),
	}
	g.clients[c.ID] = c
	return *c
}

func (g *Gateway) UnregisterClient(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, id)
}

func (g *Gateway) Clients() []Client {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]Client, 0, len(g.clients))
	for _, c := range g.clients {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RegisteredAt.Before(out[j].RegisteredAt) })
	return out
}

// Wait bloquea hasta que terminen los refetches en segundo plano.
func (g *Gateway) Wait() {
	g.inflight.Wait()
}

// Close deja de atender (todo pasa directo al origen), espera los refetches
// pendientes o a que ctx venza, y opcionalmente borra el namespace vigente.
func (g *Gateway) Close(ctx context.Context) error {
	g.mu.Lock()
	if g.phase == PhaseClosed {
		g.mu.Unlock()
		return nil
	}
	g.phase = PhaseClosed
	g.mu.Unlock()

	done := make(chan struct{})
	go func() {
		g.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if g.cfg.EvictOnClose {
		if _, err := g.storage.Delete(ctx, g.cfg.Version); err != nil {
			return fmt.Errorf("gateway close: evict: %w", err)
		}
		g.log.Info("cache evicted", nil)
	}

	g.log.Info("gateway closed", nil)
	return nil
}

// activeCache devuelve el namespace si el gateway está atendiendo.
func (g *Gateway) activeCache() (Cache, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.phase != PhaseActivated || g.cache == nil {
		return nil, false
	}
	return g.cache, true
}
