package uploads

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"streetpaws/internal/platform/apperr"

	"github.com/go-chi/chi/v5"
)

// multipart agrega headers/boundaries al archivo; dejamos margen sobre los 10MB.
const multipartOverhead = 1 << 20

func RegisterRoutes(r chi.Router, store *Store) {
	r.Post("/api/upload", uploadPhotoHandler(store))
	r.Get(PublicPrefix+"*", serveUploadsHandler(store))
}

type uploadResponse struct {
	PhotoURL string `json:"photoUrl"`
}

// uploadPhotoHandler godoc
// @Summary Subir foto de un animal
// @Description multipart/form-data con un único campo `photo` (jpeg, jpg, png, gif, webp; máx. 10MB).
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param photo formData file true "Imagen"
// @Success 200 {object} uploadResponse
// @Failure 400 {object} map[string]any "No file uploaded / Only image files are allowed / File too large"
// @Failure 500 {object} map[string]any "File upload failed"
// @Router /api/upload [post]
func uploadPhotoHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoBytes+multipartOverhead)

		if err := r.ParseMultipartForm(8 << 20); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, apperr.NewInvalidRequest(ErrTooLarge.Error()))
				return
			}
			writeError(w, apperr.NewInvalidRequest("No file uploaded"))
			return
		}
		defer func() {
			if r.MultipartForm != nil {
				_ = r.MultipartForm.RemoveAll()
			}
		}()

		file, hdr, err := r.FormFile("photo")
		if err != nil {
			writeError(w, apperr.NewInvalidRequest("No file uploaded"))
			return
		}
		defer file.Close()

		if hdr.Size > MaxPhotoBytes {
			writeError(w, apperr.NewInvalidRequest(ErrTooLarge.Error()))
			return
		}

		url, err := store.Save(file, hdr.Filename, hdr.Header.Get("Content-Type"))
		if err != nil {
			if apperr.Is(err, apperr.CodeInternal) {
				writeJSON(w, http.StatusInternalServerError, map[string]any{"message": "File upload failed"})
				return
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, uploadResponse{PhotoURL: url})
	}
}

func serveUploadsHandler(store *Store) http.HandlerFunc {
	files := http.StripPrefix(strings.TrimSuffix(PublicPrefix, "/"), http.FileServer(filesOnly{http.Dir(store.Dir())}))
	return func(w http.ResponseWriter, r *http.Request) {
		if ct := ContentTypeFor(r.URL.Path); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	}
}

// filesOnly oculta los directorios: /uploads/ no lista las fotos subidas.
type filesOnly struct {
	root http.FileSystem
}

func (f filesOnly) Open(name string) (http.File, error) {
	file, err := f.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	if info.IsDir() {
		_ = file.Close()
		return nil, fs.ErrNotExist
	}
	return file, nil
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperr.StatusOf(err), apperr.Body(err))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
