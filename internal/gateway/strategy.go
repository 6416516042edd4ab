package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// Strategy es la política de cache que le toca a un path.
type Strategy string

const (
	StrategyPassthrough          Strategy = "passthrough"
	StrategyStaleWhileRevalidate Strategy = "stale-while-revalidate"
	StrategyNetworkFirstAPI      Strategy = "network-first-api"
	StrategyCacheFirst           Strategy = "cache-first"
	StrategyNetworkFirst         Strategy = "network-first"
)

// Classify aplica, en orden: app shell exacto, prefijo API, path con extensión, resto.
func (g *Gateway) Classify(path string) Strategy {
	if _, ok := g.appShell[path]; ok {
		return StrategyStaleWhileRevalidate
	}
	if strings.HasPrefix(path, g.cfg.APIPrefix) {
		return StrategyNetworkFirstAPI
	}
	if strings.Contains(path, ".") {
		return StrategyCacheFirst
	}
	return StrategyNetworkFirst
}

const maxRequestBody = 16 << 20

// ServeHTTP atiende un request. Los no-GET, y todo mientras el gateway no
// esté activo, van directo al origen sin tocar el cache.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cache, active := g.activeCache()
	if r.Method != http.MethodGet || !active {
		g.passthrough(w, r)
		return
	}

	req := Request{Method: http.MethodGet, URI: r.URL.RequestURI(), Header: r.Header}
	key := req.URI

	switch g.Classify(r.URL.Path) {
	case StrategyStaleWhileRevalidate:
		g.staleWhileRevalidate(w, r.Context(), cache, key, req)
	case StrategyNetworkFirstAPI:
		g.networkFirstAPI(w, r.Context(), cache, key, req)
	case StrategyCacheFirst:
		g.cacheFirst(w, r.Context(), cache, key, req)
	default:
		g.networkFirst(w, r.Context(), cache, key, req)
	}
}

func (g *Gateway) passthrough(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		http.Error(w, "bad request body", http.StatusBadRequest)
		return
	}
	e, err := g.origin.Fetch(r.Context(), Request{
		Method: r.Method,
		URI:    r.URL.RequestURI(),
		Header: r.Header,
		Body:   body,
	})
	if err != nil {
		g.metrics.netErrors.WithLabelValues(string(StrategyPassthrough)).Inc()
		g.log.Warn("origin unreachable", map[string]any{"method": r.Method, "uri": r.URL.RequestURI(), "err": err})
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	writeEntry(w, e, "")
}

// staleWhileRevalidate: con copia en cache la devuelve ya y refresca en segundo
// plano (errores del refresh se ignoran); sin copia va a la red y guarda lo que venga.
func (g *Gateway) staleWhileRevalidate(w http.ResponseWriter, ctx context.Context, cache Cache, key string, req Request) {
	s := StrategyStaleWhileRevalidate

	if e, ok := g.match(ctx, cache, key, s); ok {
		g.revalidate(ctx, cache, key, req)
		writeEntry(w, e, "HIT")
		return
	}

	e, err := g.origin.Fetch(ctx, req)
	if err != nil {
		g.networkFailed(s, key, err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	g.store(ctx, cache, key, e)
	writeEntry(w, e, "MISS")
}

// networkFirstAPI: red primero, guarda solo 200. Sin red: cache o 503 offline.
func (g *Gateway) networkFirstAPI(w http.ResponseWriter, ctx context.Context, cache Cache, key string, req Request) {
	s := StrategyNetworkFirstAPI

	e, err := g.origin.Fetch(ctx, req)
	if err == nil {
		if e.Status == http.StatusOK {
			g.store(ctx, cache, key, e)
		}
		writeEntry(w, e, "")
		return
	}
	g.networkFailed(s, key, err)

	if cached, ok := g.match(ctx, cache, key, s); ok {
		writeEntry(w, cached, "HIT")
		return
	}

	g.metrics.offline.Inc()
	writeOffline(w)
}

// cacheFirst: copia en cache si hay; si no, red y se guarda.
func (g *Gateway) cacheFirst(w http.ResponseWriter, ctx context.Context, cache Cache, key string, req Request) {
	s := StrategyCacheFirst

	if e, ok := g.match(ctx, cache, key, s); ok {
		writeEntry(w, e, "HIT")
		return
	}

	e, err := g.origin.Fetch(ctx, req)
	if err != nil {
		g.networkFailed(s, key, err)
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	g.store(ctx, cache, key, e)
	writeEntry(w, e, "MISS")
}

// networkFirst: red; si falla, cache sin error sintético. Sin ninguno: 502.
func (g *Gateway) networkFirst(w http.ResponseWriter, ctx context.Context, cache Cache, key string, req Request) {
	s := StrategyNetworkFirst

	e, err := g.origin.Fetch(ctx, req)
	if err == nil {
		writeEntry(w, e, "")
		return
	}
	g.networkFailed(s, key, err)

	if cached, ok := g.match(ctx, cache, key, s); ok {
		writeEntry(w, cached, "HIT")
		return
	}
	http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
}

// revalidate lanza el refetch desacoplado del request: no se cancela cuando el
// cliente se va y corre hasta terminar. Close y Wait lo esperan.
func (g *Gateway) revalidate(ctx context.Context, cache Cache, key string, req Request) {
	g.mu.RLock()
	if g.phase != PhaseActivated {
		g.mu.RUnlock()
		return
	}
	g.inflight.Add(1)
	g.mu.RUnlock()

	bg := context.WithoutCancel(ctx)
	req.Header = req.Header.Clone()

	go func() {
		defer g.inflight.Done()

		e, err := g.origin.Fetch(bg, req)
		if err != nil {
			g.metrics.refetches.WithLabelValues("error").Inc()
			g.log.Debug("background refetch failed", map[string]any{"key": key, "err": err})
			return
		}
		g.store(bg, cache, key, e)
		g.metrics.refetches.WithLabelValues("ok").Inc()
	}()
}

func (g *Gateway) match(ctx context.Context, cache Cache, key string, s Strategy) (Entry, bool) {
	e, ok, err := cache.Match(ctx, key)
	if err != nil {
		g.log.Warn("cache read failed", map[string]any{"key": key, "err": err})
		ok = false
	}
	if ok {
		g.metrics.hits.WithLabelValues(string(s)).Inc()
	} else {
		g.metrics.misses.WithLabelValues(string(s)).Inc()
	}
	return e, ok
}

// store es best-effort: un fallo se loguea y la respuesta igual se entrega.
func (g *Gateway) store(ctx context.Context, cache Cache, key string, e Entry) {
	if e.Status == http.StatusPartialContent {
		return
	}
	if err := cache.Put(ctx, key, e); err != nil {
		g.log.Warn("cache write failed", map[string]any{"key": key, "err": err})
	}
}

func (g *Gateway) networkFailed(s Strategy, key string, err error) {
	g.metrics.netErrors.WithLabelValues(string(s)).Inc()
	g.log.Warn("origin unreachable", map[string]any{"strategy": string(s), "key": key, "err": err})
}

type offlineBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeOffline(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_ = json.NewEncoder(w).Encode(offlineBody{
		Error:   "Offline",
		Message: "This feature requires an internet connection",
	})
}

// CacheHeader indica si la respuesta salió del cache (HIT) o de la red y se guardó (MISS).
const CacheHeader = "X-Gateway-Cache"

func writeEntry(w http.ResponseWriter, e Entry, cacheStatus string) {
	h := w.Header()
	for k, vs := range e.Header {
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	if cacheStatus != "" {
		h.Set(CacheHeader, cacheStatus)
	}
	if len(e.Body) > 0 {
		h.Set("Content-Length", strconv.Itoa(len(e.Body)))
	}

	status := e.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(e.Body)
}
