package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"streetpaws/internal/middleware"
	"streetpaws/internal/platform/logger"
	"streetpaws/internal/platform/metrics"
)

// AdminPrefix agrupa los endpoints de control; nunca se reenvían al origen.
const AdminPrefix = "/__gateway"

type statusResponse struct {
	Version string   `json:"version"`
	Phase   Phase    `json:"phase"`
	Caches  []string `json:"caches"`
	Clients []Client `json:"clients"`
}

// NewHandler arma el mux del proceso gateway: control, /metrics y el resto al proxy.
func NewHandler(g *Gateway, reg *prometheus.Registry, log logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recover(log))

	if reg != nil {
		r.Handle("/metrics", metrics.Handler(reg))
	}

	r.Route(AdminPrefix, func(ar chi.Router) {
		ar.Get("/status", statusHandler(g))
		ar.Post("/clients", registerClientHandler(g))
		ar.Delete("/clients/{clientID}", unregisterClientHandler(g))
	})

	r.Handle("/*", g)
	return r
}

func statusHandler(g *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		names, err := g.storage.Keys(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "cache storage unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, statusResponse{
			Version: g.Version(),
			Phase:   g.Phase(),
			Caches:  names,
			Clients: g.Clients(),
		})
	}
}

func registerClientHandler(g *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusCreated, g.RegisterClient())
	}
}

func unregisterClientHandler(g *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g.UnregisterClient(chi.URLParam(r, "clientID"))
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
