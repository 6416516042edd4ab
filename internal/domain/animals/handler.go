package animals

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"streetpaws/internal/platform/apperr"
	"streetpaws/internal/qr"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes se monta en /api/animals.
func RegisterRoutes(r chi.Router, svc *Service, codec *qr.Codec) {
	r.Get("/", listAnimalsHandler(svc))
	r.Post("/", createAnimalHandler(svc))

	// rutas estáticas antes que /{id}
	r.Get("/search", searchAnimalsHandler(svc))
	r.Get("/lookup/{publicId}", lookupAnimalHandler(svc))
	r.Get("/export.xlsx", exportAnimalsHandler(svc))

	r.Get("/{id}", getAnimalHandler(svc))
	r.Patch("/{id}", updateAnimalHandler(svc))
	r.Delete("/{id}", deleteAnimalHandler(svc))

	// QR
	r.Get("/{id}/qr.png", animalQRHandler(svc, codec))
	r.Get("/{id}/tag", animalTagHandler(svc, codec))
}

type animalResponse struct {
	ID                int64     `json:"id"`
	AnimalID          string    `json:"animalId"`
	Species           string    `json:"species"`
	Breed             *string   `json:"breed"`
	Gender            *string   `json:"gender"`
	Age               *string   `json:"age"`
	Size              *string   `json:"size"`
	FoundLocation     *string   `json:"foundLocation"`
	Area              *string   `json:"area"`
	HealthStatus      *string   `json:"healthStatus"`
	VaccinationStatus *string   `json:"vaccinationStatus"`
	MedicalNotes      *string   `json:"medicalNotes"`
	PhotoURL          *string   `json:"photoUrl"`
	QRCode            *string   `json:"qrCode"`
	RegisteredAt      time.Time `json:"registeredAt"`
}

// listAnimalsHandler godoc
// @Summary Listar animales
// @Tags animals
// @Produce json
// @Success 200 {array} animalResponse
// @Router /api/animals [get]
func listAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Failed to fetch animals"})
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

// searchAnimalsHandler godoc
// @Summary Buscar animales
// @Description Texto libre (case-insensitive) sobre animalId, species, breed, foundLocation y area, combinado con filtros de igualdad.
// @Tags animals
// @Produce json
// @Param q query string false "Texto libre"
// @Param species query string false "dog|cat|bird|other"
// @Param vaccinationStatus query string false "not-vaccinated|partial|complete|unknown"
// @Param area query string false "Área"
// @Param healthStatus query string false "healthy|injured|sick|recovering"
// @Success 200 {array} animalResponse
// @Router /api/animals/search [get]
func searchAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := Filter{
			Species:           Species(strings.ToLower(strings.TrimSpace(q.Get("species")))),
			VaccinationStatus: VaccinationStatus(strings.TrimSpace(q.Get("vaccinationStatus"))),
			Area:              strings.TrimSpace(q.Get("area")),
			HealthStatus:      HealthStatus(strings.TrimSpace(q.Get("healthStatus"))),
		}

		items, err := svc.Search(r.Context(), q.Get("q"), filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Failed to search animals"})
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponses(items))
	}
}

// lookupAnimalHandler godoc
// @Summary Buscar por ID público (lo que codifica el QR)
// @Tags animals
// @Produce json
// @Param publicId path string true "SP-<año>-<secuencia>"
// @Success 200 {object} animalResponse
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/lookup/{publicId} [get]
func lookupAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByPublicID(r.Context(), chi.URLParam(r, "publicId"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// getAnimalHandler godoc
// @Summary Obtener animal por ID numérico
// @Tags animals
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} animalResponse
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/{id} [get]
func getAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// createAnimalHandler godoc
// @Summary Registrar animal
// @Description El animalId (SP-<año>-<secuencia>) lo asigna el servidor; si viene en el body se ignora.
// @Tags animals
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Datos del animal"
// @Success 201 {object} animalResponse
// @Failure 400 {object} map[string]any "Validation error"
// @Router /api/animals [post]
func createAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateInput
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, apperr.NewInvalidRequest("invalid json"))
			return
		}

		a, err := svc.Create(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toAnimalResponse(a))
	}
}

// updateAnimalHandler godoc
// @Summary Actualizar animal (parcial)
// @Description Los campos ausentes no se tocan. null limpia un campo opcional. animalId, qrCode y registeredAt no se pueden modificar.
// @Tags animals
// @Accept json
// @Produce json
// @Param id path int true "ID"
// @Success 200 {object} animalResponse
// @Failure 400 {object} map[string]any "Validation error"
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/{id} [patch]
func updateAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}

		// Decodificamos a map para distinguir "ausente" de null.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			writeError(w, apperr.NewInvalidRequest("invalid json"))
			return
		}

		p, err := decodePatch(raw)
		if err != nil {
			writeError(w, err)
			return
		}

		a, err := svc.Update(r.Context(), id, p)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAnimalResponse(a))
	}
}

// deleteAnimalHandler godoc
// @Summary Borrar animal
// @Description Borra también sus vacunas y (best-effort) la foto.
// @Tags animals
// @Param id path int true "ID"
// @Success 204
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/{id} [delete]
func deleteAnimalHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// animalQRHandler godoc
// @Summary QR del animal
// @Description PNG con la URL pública del animal. Si la codificación falla devuelve un placeholder SVG.
// @Tags animals
// @Produce png
// @Param id path int true "ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/{id}/qr.png [get]
func animalQRHandler(svc *Service, codec *qr.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		img := codec.Encode(qrPayload(svc, a))
		w.Header().Set("Content-Type", img.ContentType)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(img.Data)
	}
}

// animalTagHandler godoc
// @Summary Etiqueta imprimible (4in x 3in)
// @Tags animals
// @Produce html
// @Param id path int true "ID"
// @Success 200 {string} string "HTML"
// @Failure 404 {object} map[string]any "Animal not found"
// @Router /api/animals/{id}/tag [get]
func animalTagHandler(svc *Service, codec *qr.Codec) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		a, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = qr.RenderTag(w, qr.Tag{
			PublicID: a.PublicID,
			Species:  string(a.Species),
			Area:     a.Area,
			Image:    codec.Encode(qrPayload(svc, a)),
		})
	}
}

// exportAnimalsHandler godoc
// @Summary Exportar animales a XLSX
// @Tags animals
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /api/animals/export.xlsx [get]
func exportAnimalsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "Failed to export animals"})
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="streetpaws-animals.xlsx"`)
		if err := WriteXLSX(w, items); err != nil {
			svc.log.Error("xlsx export failed", map[string]any{"err": err})
		}
	}
}

func qrPayload(svc *Service, a Animal) string {
	if a.QRCode != "" {
		return a.QRCode
	}
	return svc.QRPayload(a.PublicID)
}

var patchStringFields = []string{
	"species", "breed", "gender", "age", "size", "foundLocation", "area",
	"healthStatus", "vaccinationStatus", "medicalNotes", "photoUrl",
}

// decodePatch arma el Patch desde el body crudo: ausente = nil, null = "".
// Claves desconocidas (incluido animalId) se ignoran.
func decodePatch(raw map[string]json.RawMessage) (Patch, error) {
	vals := make(map[string]*string, len(patchStringFields))
	for _, key := range patchStringFields {
		v, exists := raw[key]
		if !exists {
			continue
		}
		s := ""
		if string(v) != "null" {
			if err := json.Unmarshal(v, &s); err != nil {
				return Patch{}, apperr.NewValidation([]apperr.FieldError{{Field: key, Message: "must be a string"}})
			}
		}
		vals[key] = &s
	}

	var p Patch
	if v := vals["species"]; v != nil {
		sp := Species(*v)
		p.Species = &sp
	}
	p.Breed = vals["breed"]
	if v := vals["gender"]; v != nil {
		g := Gender(*v)
		p.Gender = &g
	}
	if v := vals["age"]; v != nil {
		a := AgeBracket(*v)
		p.Age = &a
	}
	if v := vals["size"]; v != nil {
		sz := SizeBracket(*v)
		p.Size = &sz
	}
	p.FoundLocation = vals["foundLocation"]
	p.Area = vals["area"]
	if v := vals["healthStatus"]; v != nil {
		h := HealthStatus(*v)
		p.HealthStatus = &h
	}
	if v := vals["vaccinationStatus"]; v != nil {
		vs := VaccinationStatus(*v)
		p.VaccinationStatus = &vs
	}
	p.MedicalNotes = vals["medicalNotes"]
	p.PhotoURL = vals["photoUrl"]
	return p, nil
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, ErrNotFound)
		return 0, false
	}
	return id, true
}

func toAnimalResponses(items []Animal) []animalResponse {
	out := make([]animalResponse, 0, len(items))
	for _, a := range items {
		out = append(out, toAnimalResponse(a))
	}
	return out
}

func toAnimalResponse(a Animal) animalResponse {
	return animalResponse{
		ID:                a.ID,
		AnimalID:          a.PublicID,
		Species:           string(a.Species),
		Breed:             nullable(a.Breed),
		Gender:            nullable(string(a.Gender)),
		Age:               nullable(string(a.Age)),
		Size:              nullable(string(a.Size)),
		FoundLocation:     nullable(a.FoundLocation),
		Area:              nullable(a.Area),
		HealthStatus:      nullable(string(a.HealthStatus)),
		VaccinationStatus: nullable(string(a.VaccinationStatus)),
		MedicalNotes:      nullable(a.MedicalNotes),
		PhotoURL:          nullable(a.PhotoURL),
		QRCode:            nullable(a.QRCode),
		RegisteredAt:      a.RegisteredAt,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func writeError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrNotFound) {
		err = apperr.NewNotFound("Animal")
	}
	writeJSON(w, apperr.StatusOf(err), apperr.Body(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
