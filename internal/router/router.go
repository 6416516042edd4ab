package router

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "streetpaws/docs"
	"streetpaws/internal/adapters/storage/cached"
	"streetpaws/internal/adapters/storage/memory"
	"streetpaws/internal/domain/animals"
	"streetpaws/internal/domain/health"
	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/domain/stats"
	"streetpaws/internal/domain/uploads"
	"streetpaws/internal/domain/vaccinations"
	"streetpaws/internal/middleware"
	"streetpaws/internal/platform/config"
	"streetpaws/internal/platform/logger"
	"streetpaws/internal/platform/metrics"
	"streetpaws/internal/ports/storage"
	"streetpaws/internal/qr"
)

type Options struct {
	Config config.Config

	// Opcional: si no viene, store in-memory con cache de helplines.
	Store storage.Store

	Logger logger.Logger

	// Opcional: si no viene, se crea uno propio para /metrics.
	Registry *prometheus.Registry
}

// NewRouter arma servicios y rutas. Siembra el directorio de helplines si está vacío.
func NewRouter(ctx context.Context, opts Options) (http.Handler, error) {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	store := opts.Store
	if store == nil {
		ttl := opts.Config.HelplineCacheTTL
		if ttl <= 0 {
			ttl = cached.DefaultTTL
		}
		store = cached.Wrap(memory.NewStore(), ttl)
	}

	photos, err := uploads.NewStore(opts.Config.UploadDir, log)
	if err != nil {
		return nil, err
	}

	// Services por módulo
	animalsSvc := animals.NewService(store.Animals(), animals.Options{
		Photos:        photos,
		Logger:        log,
		PublicBaseURL: opts.Config.PublicBaseURL,
	})
	vaccSvc := vaccinations.NewService(store.Vaccinations(), storage.AnimalChecker(store.Animals()))
	helplinesSvc := helplines.NewService(store.Helplines())
	statsSvc := stats.NewService(animalsSvc, helplinesSvc)
	healthSvc := health.NewService(photos, log)
	codec := qr.NewCodec(qr.DefaultSize, log)

	seeded, err := helplinesSvc.Seed(ctx, helplines.DefaultDirectory)
	if err != nil {
		return nil, fmt.Errorf("seed helplines: %w", err)
	}
	if seeded > 0 {
		log.Info("helplines seeded", map[string]any{"count": seeded})
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))
	r.Use(middleware.NewHTTPMetrics(reg, "streetpaws").Handler)

	// Antes de montar subrouters: chi solo propaga los handlers ya definidos.
	r.NotFound(notFoundHandler())
	r.MethodNotAllowed(methodNotAllowedHandler())

	r.Get("/", rootHandler())
	health.RegisterRoutes(r, healthSvc)
	r.Handle("/metrics", metrics.Handler(reg))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Rutas por módulo
	r.Route("/api/animals", func(ar chi.Router) {
		animals.RegisterRoutes(ar, animalsSvc, codec)
		vaccinations.RegisterRoutes(ar, vaccSvc)
	})
	helplines.RegisterRoutes(r, helplinesSvc)
	stats.RegisterRoutes(r, statsSvc)
	uploads.RegisterRoutes(r, photos)

	return r, nil
}

// Rutas /api/* desconocidas vuelven al documento raíz en vez de devolver un 404 JSON.
func notFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	}
}

// Un método no soportado en /api/* se trata igual que una ruta desconocida.
func methodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if isAPIPath(r.URL.Path) {
			http.Redirect(w, r, "/", http.StatusFound)
			return
		}
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

func isAPIPath(p string) bool {
	return p == "/api" || strings.HasPrefix(p, "/api/")
}

func rootHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("StreetPaws API\n"))
	}
}
