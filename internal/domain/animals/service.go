package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"streetpaws/internal/platform/apperr"
	"streetpaws/internal/platform/logger"
)

// PhotoStore es lo que el servicio necesita del almacenamiento de fotos.
type PhotoStore interface {
	Exists(photoURL string) bool
	Remove(photoURL string) error
}

type Service struct {
	repo    Repository
	photos  PhotoStore
	log     logger.Logger
	baseURL string
	now     func() time.Time
}

type Options struct {
	Photos PhotoStore // opcional: sin store no se valida ni se limpia la foto
	Logger logger.Logger
	// PublicBaseURL se usa para armar el payload del QR: <base>/animal/<publicID>.
	PublicBaseURL string
}

func NewService(repo Repository, opts Options) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:    repo,
		photos:  opts.Photos,
		log:     log.With(map[string]any{"module": "animals"}),
		baseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		now:     time.Now,
	}
}

type CreateInput struct {
	Species           Species           `json:"species"`
	Breed             string            `json:"breed"`
	Gender            Gender            `json:"gender"`
	Age               AgeBracket        `json:"age"`
	Size              SizeBracket       `json:"size"`
	FoundLocation     string            `json:"foundLocation"`
	Area              string            `json:"area"`
	HealthStatus      HealthStatus      `json:"healthStatus"`
	VaccinationStatus VaccinationStatus `json:"vaccinationStatus"`
	MedicalNotes      string            `json:"medicalNotes"`
	PhotoURL          string            `json:"photoUrl"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Animal, error) {
	in = in.trimmed()
	if err := validateCreate(in); err != nil {
		return Animal{}, err
	}
	if err := s.checkPhoto(in.PhotoURL); err != nil {
		return Animal{}, err
	}

	seq, err := s.repo.NextSequence(ctx)
	if err != nil {
		return Animal{}, err
	}

	now := s.now()
	publicID := FormatPublicID(now.Year(), seq)

	a := Animal{
		PublicID:          publicID,
		Species:           in.Species,
		Breed:             in.Breed,
		Gender:            in.Gender,
		Age:               in.Age,
		Size:              in.Size,
		FoundLocation:     in.FoundLocation,
		Area:              in.Area,
		HealthStatus:      in.HealthStatus,
		VaccinationStatus: in.VaccinationStatus,
		MedicalNotes:      in.MedicalNotes,
		PhotoURL:          in.PhotoURL,
		QRCode:            s.QRPayload(publicID),
		RegisteredAt:      now,
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return Animal{}, err
	}

	s.log.Info("animal registered", map[string]any{"id": created.ID, "public_id": created.PublicID})
	return created, nil
}

// Update aplica un patch parcial; los campos ausentes quedan igual.
func (s *Service) Update(ctx context.Context, id int64, p Patch) (Animal, error) {
	p = p.trimmed()
	if err := validatePatch(p); err != nil {
		return Animal{}, err
	}
	if p.PhotoURL != nil {
		if err := s.checkPhoto(*p.PhotoURL); err != nil {
			return Animal{}, err
		}
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}

	updated := p.Apply(current)
	if err := s.repo.Update(ctx, updated); err != nil {
		return Animal{}, err
	}
	return updated, nil
}

// Delete borra el animal (y sus vacunas). La foto se limpia best-effort:
// si falla se loguea y el delete igual se considera exitoso.
func (s *Service) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if a.PhotoURL != "" && s.photos != nil {
		if err := s.photos.Remove(a.PhotoURL); err != nil {
			s.log.Warn("photo cleanup failed", map[string]any{
				"id":        a.ID,
				"photo_url": a.PhotoURL,
				"err":       err,
			})
		}
	}

	s.log.Info("animal deleted", map[string]any{"id": a.ID, "public_id": a.PublicID})
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Animal, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByPublicID(ctx context.Context, publicID string) (Animal, error) {
	publicID = strings.TrimSpace(publicID)
	if publicID == "" {
		return Animal{}, ErrNotFound
	}
	return s.repo.GetByPublicID(ctx, publicID)
}

func (s *Service) List(ctx context.Context) ([]Animal, error) {
	return s.repo.List(ctx)
}

// Search: query vacía y sin filtros => listado completo.
func (s *Service) Search(ctx context.Context, query string, filter Filter) ([]Animal, error) {
	query = strings.TrimSpace(query)
	if query == "" && filter.IsZero() {
		return s.repo.List(ctx)
	}
	return s.repo.Search(ctx, query, filter)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) CountVaccinated(ctx context.Context) (int, error) {
	return s.repo.CountVaccinated(ctx)
}

// QRPayload es el texto que se codifica en el QR del animal.
func (s *Service) QRPayload(publicID string) string {
	return s.baseURL + "/animal/" + publicID
}

func (s *Service) checkPhoto(photoURL string) error {
	if photoURL == "" || s.photos == nil {
		return nil
	}
	if !s.photos.Exists(photoURL) {
		return apperr.NewInvalidRequest("Photo file does not exist").
			WithDetails(map[string]any{"photoUrl": photoURL})
	}
	return nil
}

// IsNotFound agrupa el sentinel del dominio con el error estructurado.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || apperr.Is(err, apperr.CodeNotFound)
}
