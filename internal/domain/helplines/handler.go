package helplines

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/api/helplines", listHelplinesHandler(svc))
}

type helplineResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Phone       string  `json:"phone"`
	Hours       string  `json:"hours"`
	Coverage    string  `json:"coverage"`
	Description *string `json:"description"`
}

// listHelplinesHandler godoc
// @Summary Directorio de líneas de ayuda
// @Tags helplines
// @Produce json
// @Success 200 {array} helplineResponse
// @Failure 500 {object} map[string]any "Failed to fetch helplines"
// @Router /api/helplines [get]
func listHelplinesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Failed to fetch helplines"})
			return
		}

		out := make([]helplineResponse, 0, len(items))
		for _, h := range items {
			var desc *string
			if h.Description != "" {
				d := h.Description
				desc = &d
			}
			out = append(out, helplineResponse{
				ID:          h.ID,
				Name:        h.Name,
				Type:        h.Type,
				Phone:       h.Phone,
				Hours:       h.Hours,
				Coverage:    h.Coverage,
				Description: desc,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
