package uploads

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"streetpaws/internal/platform/apperr"
	"streetpaws/internal/platform/logger"
)

const (
	// PublicPrefix es el path bajo el que se sirven las fotos.
	PublicPrefix = "/uploads/"

	MaxPhotoBytes int64 = 10 << 20
)

var allowedExt = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

var (
	ErrNotImage = errors.New("Only image files are allowed")
	ErrTooLarge = errors.New("File too large (max 10MB)")
)

// Store guarda las fotos en disco con nombre animal-<unix ms>-<sufijo aleatorio><ext>.
type Store struct {
	dir string
	log logger.Logger
	now func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewStore(dir string, log logger.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("uploads: empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create dir: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		dir:     dir,
		log:     log.With(map[string]any{"module": "uploads"}),
		now:     time.Now,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

func (s *Store) Dir() string { return s.dir }

// CheckType valida extensión y MIME contra la allow-list (ambos deben pasar).
func CheckType(filename, contentType string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedExt[ext]; !ok {
		return ErrNotImage
	}

	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ErrNotImage
	}
	for _, allowed := range allowedExt {
		if mt == allowed {
			return nil
		}
	}
	return ErrNotImage
}

// Save escribe la foto y devuelve su URL pública. Si la escritura falla
// se borra el archivo parcial.
func (s *Store) Save(r io.Reader, filename, contentType string) (string, error) {
	if err := CheckType(filename, contentType); err != nil {
		return "", apperr.NewInvalidRequest(err.Error())
	}

	name, err := s.newName(strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return "", apperr.NewInternal(err)
	}
	full := filepath.Join(s.dir, name)

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		s.log.Error("upload open failed", map[string]any{"file": name, "err": err})
		return "", apperr.NewInternal(err)
	}

	n, copyErr := io.Copy(f, io.LimitReader(r, MaxPhotoBytes+1))
	closeErr := f.Close()

	switch {
	case copyErr != nil || closeErr != nil:
		s.discard(full)
		s.log.Error("upload write failed", map[string]any{"file": name, "err": errors.Join(copyErr, closeErr)})
		return "", apperr.NewInternal(errors.Join(copyErr, closeErr))
	case n > MaxPhotoBytes:
		s.discard(full)
		return "", apperr.NewInvalidRequest(ErrTooLarge.Error())
	}

	s.log.Info("photo uploaded", map[string]any{"file": name, "bytes": n})
	return PublicPrefix + name, nil
}

// Exists indica si la URL pública corresponde a un archivo subido.
func (s *Store) Exists(photoURL string) bool {
	p, ok := s.pathFor(photoURL)
	if !ok {
		return false
	}
	st, err := os.Stat(p)
	return err == nil && st.Mode().IsRegular()
}

// Remove borra el archivo; que ya no exista no es error.
func (s *Store) Remove(photoURL string) error {
	p, ok := s.pathFor(photoURL)
	if !ok {
		return fmt.Errorf("uploads: invalid photo url %q", photoURL)
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// DirStats resume el estado del directorio para el health check.
type DirStats struct {
	DirectoryExists bool `json:"directoryExists"`
	ImageCount      int  `json:"imageCount"`
}

func (s *Store) Stats() DirStats {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return DirStats{}
	}
	count := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := allowedExt[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			count++
		}
	}
	return DirStats{DirectoryExists: true, ImageCount: count}
}

func (s *Store) pathFor(photoURL string) (string, bool) {
	if !strings.HasPrefix(photoURL, PublicPrefix) {
		return "", false
	}
	name := strings.TrimPrefix(photoURL, PublicPrefix)
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}

func (s *Store) newName(ext string) (string, error) {
	now := s.now()

	s.mu.Lock()
	id, err := ulid.New(ulid.Timestamp(now), s.entropy)
	s.mu.Unlock()
	if err != nil {
		return "", err
	}

	// Los últimos 16 caracteres del ULID son la parte aleatoria.
	suffix := strings.ToLower(id.String()[10:])
	return fmt.Sprintf("animal-%d-%s%s", now.UnixMilli(), suffix, ext), nil
}

func (s *Store) discard(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.log.Warn("partial upload cleanup failed", map[string]any{"path": path, "err": err})
	}
}

// ContentTypeFor devuelve el MIME según la extensión (para servir archivos).
func ContentTypeFor(name string) string {
	return allowedExt[strings.ToLower(filepath.Ext(name))]
}
