package animals

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("animal not found")

type Repository interface {
	// NextSequence entrega el siguiente número para el PublicID; nunca se reutiliza.
	NextSequence(ctx context.Context) (int64, error)

	// Create persiste el animal y lo devuelve con el ID numérico asignado por el store.
	Create(ctx context.Context, a Animal) (Animal, error)
	Update(ctx context.Context, a Animal) error
	// Delete borra el animal y sus vacunas (cascade).
	Delete(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (Animal, error)
	GetByPublicID(ctx context.Context, publicID string) (Animal, error)
	List(ctx context.Context) ([]Animal, error)
	Search(ctx context.Context, query string, filter Filter) ([]Animal, error)

	Count(ctx context.Context) (int, error)
	CountVaccinated(ctx context.Context) (int, error)
}
