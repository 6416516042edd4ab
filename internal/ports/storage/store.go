package storage

import (
	"context"
	"errors"

	"streetpaws/internal/domain/animals"
	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/domain/vaccinations"
)

// Store es la capacidad de persistencia completa. Hay una implementación por
// backend (memoria, postgres, gorm) y se elige al arrancar.
type Store interface {
	Animals() animals.Repository
	Vaccinations() vaccinations.Repository
	Helplines() helplines.Repository
	Close() error
}

// AnimalChecker adapta el repo de animales a lo que necesita vaccinations.
func AnimalChecker(repo animals.Repository) vaccinations.AnimalChecker {
	return animalChecker{repo: repo}
}

type animalChecker struct {
	repo animals.Repository
}

func (c animalChecker) Exists(ctx context.Context, id int64) (bool, error) {
	_, err := c.repo.GetByID(ctx, id)
	if errors.Is(err, animals.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
