package vaccinations

import (
	"context"
	"errors"
)

// ErrAnimalNotFound: el animal dueño no existe (o se borró antes del insert).
var ErrAnimalNotFound = errors.New("vaccinations: animal not found")

type Repository interface {
	Create(ctx context.Context, v Vaccination) (Vaccination, error)
	ListByAnimal(ctx context.Context, animalID int64) ([]Vaccination, error)
}
