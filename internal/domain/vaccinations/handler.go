package vaccinations

import (
	"encoding/json"
	"net/http"
	"strconv"

	"streetpaws/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes se monta dentro del router de /api/animals.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/{id}/vaccinations", func(vr chi.Router) {
		vr.Get("/", listVaccinationsHandler(svc))
		vr.Post("/", createVaccinationHandler(svc))
	})
}

type vaccinationResponse struct {
	ID              int64   `json:"id"`
	AnimalID        int64   `json:"animalId"`
	VaccineName     string  `json:"vaccineName"`
	VaccinationDate string  `json:"vaccinationDate"`
	Veterinarian    *string `json:"veterinarian"`
	NextDueDate     *string `json:"nextDueDate"`
	Notes           *string `json:"notes"`
}

// listVaccinationsHandler godoc
// @Summary Listar vacunas de un animal
// @Tags vaccinations
// @Produce json
// @Param id path int true "ID numérico del animal"
// @Success 200 {array} vaccinationResponse
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/{id}/vaccinations [get]
func listVaccinationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID, ok := parseAnimalID(w, r)
		if !ok {
			return
		}

		items, err := svc.ListByAnimal(r.Context(), animalID)
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]vaccinationResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVaccinationResponse(v))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// createVaccinationHandler godoc
// @Summary Registrar una vacuna
// @Description Solo se puede agregar a un animal existente. Fechas en formato YYYY-MM-DD.
// @Tags vaccinations
// @Accept json
// @Produce json
// @Param id path int true "ID numérico del animal"
// @Param payload body CreateInput true "Datos de la vacuna"
// @Success 201 {object} vaccinationResponse
// @Failure 400 {object} map[string]any "Validation error"
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/{id}/vaccinations [post]
func createVaccinationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		animalID, ok := parseAnimalID(w, r)
		if !ok {
			return
		}

		var req CreateInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.NewInvalidRequest("invalid json"))
			return
		}

		v, err := svc.Create(r.Context(), animalID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toVaccinationResponse(v))
	}
}

func parseAnimalID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, apperr.NewNotFound("Animal"))
		return 0, false
	}
	return id, true
}

func toVaccinationResponse(v Vaccination) vaccinationResponse {
	return vaccinationResponse{
		ID:              v.ID,
		AnimalID:        v.AnimalID,
		VaccineName:     v.VaccineName,
		VaccinationDate: v.VaccinationDate,
		Veterinarian:    nullable(v.Veterinarian),
		NextDueDate:     nullable(v.NextDueDate),
		Notes:           nullable(v.Notes),
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusOf(err), apperr.Body(err))
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
