package vaccinations

import (
	"context"
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"streetpaws/internal/platform/apperr"
)

const dateLayout = "2006-01-02"

// AnimalChecker evita importar el paquete animals (solo necesitamos saber si existe).
type AnimalChecker interface {
	Exists(ctx context.Context, animalID int64) (bool, error)
}

type Service struct {
	repo    Repository
	animals AnimalChecker
}

func NewService(repo Repository, animals AnimalChecker) *Service {
	return &Service{repo: repo, animals: animals}
}

type CreateInput struct {
	VaccineName     string `json:"vaccineName"`
	VaccinationDate string `json:"vaccinationDate"`
	Veterinarian    string `json:"veterinarian"`
	NextDueDate     string `json:"nextDueDate"`
	Notes           string `json:"notes"`
}

func (s *Service) Create(ctx context.Context, animalID int64, in CreateInput) (Vaccination, error) {
	in = CreateInput{
		VaccineName:     strings.TrimSpace(in.VaccineName),
		VaccinationDate: strings.TrimSpace(in.VaccinationDate),
		Veterinarian:    strings.TrimSpace(in.Veterinarian),
		NextDueDate:     strings.TrimSpace(in.NextDueDate),
		Notes:           strings.TrimSpace(in.Notes),
	}

	err := validation.ValidateStruct(&in,
		validation.Field(&in.VaccineName, validation.Required, validation.Length(1, 120)),
		validation.Field(&in.VaccinationDate, validation.Required, validation.Date(dateLayout)),
		validation.Field(&in.NextDueDate, validation.Date(dateLayout)),
		validation.Field(&in.Veterinarian, validation.Length(0, 120)),
	)
	if err := apperr.FromValidation(err); err != nil {
		return Vaccination{}, err
	}

	if err := s.ensureAnimal(ctx, animalID); err != nil {
		return Vaccination{}, err
	}

	v, err := s.repo.Create(ctx, Vaccination{
		AnimalID:        animalID,
		VaccineName:     in.VaccineName,
		VaccinationDate: in.VaccinationDate,
		Veterinarian:    in.Veterinarian,
		NextDueDate:     in.NextDueDate,
		Notes:           in.Notes,
	})
	if errors.Is(err, ErrAnimalNotFound) {
		return Vaccination{}, apperr.NewNotFound("Animal")
	}
	return v, err
}

func (s *Service) ListByAnimal(ctx context.Context, animalID int64) ([]Vaccination, error) {
	if err := s.ensureAnimal(ctx, animalID); err != nil {
		return nil, err
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

func (s *Service) ensureAnimal(ctx context.Context, animalID int64) error {
	if s.animals == nil {
		return nil
	}
	ok, err := s.animals.Exists(ctx, animalID)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.NewNotFound("Animal")
	}
	return nil
}
