package helplines

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Seed inserta el directorio solo si está vacío (primer arranque).
// Devuelve cuántas entradas insertó.
func (s *Service) Seed(ctx context.Context, entries []Helpline) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count helplines: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	for i, h := range entries {
		if _, err := s.repo.Create(ctx, h); err != nil {
			return i, fmt.Errorf("seed helpline %q: %w", h.Name, err)
		}
	}
	return len(entries), nil
}

func (s *Service) List(ctx context.Context) ([]Helpline, error) {
	return s.repo.List(ctx)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
