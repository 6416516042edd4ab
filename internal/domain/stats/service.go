package stats

import (
	"context"
	"fmt"
)

// Stats agrega contadores del dashboard.
// QRCodes == RegisteredAnimals: cada animal recibe su código al registrarse.
type Stats struct {
	RegisteredAnimals int `json:"registeredAnimals"`
	Vaccinated        int `json:"vaccinated"`
	QRCodes           int `json:"qrCodes"`
	Helplines         int `json:"helplines"`
}

type AnimalCounter interface {
	Count(ctx context.Context) (int, error)
	CountVaccinated(ctx context.Context) (int, error)
}

type HelplineCounter interface {
	Count(ctx context.Context) (int, error)
}

type Service struct {
	animals   AnimalCounter
	helplines HelplineCounter
}

func NewService(animals AnimalCounter, helplines HelplineCounter) *Service {
	return &Service{animals: animals, helplines: helplines}
}

func (s *Service) Get(ctx context.Context) (Stats, error) {
	total, err := s.animals.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count animals: %w", err)
	}
	vaccinated, err := s.animals.CountVaccinated(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count vaccinated: %w", err)
	}
	hl, err := s.helplines.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count helplines: %w", err)
	}

	return Stats{
		RegisteredAnimals: total,
		Vaccinated:        vaccinated,
		QRCodes:           total,
		Helplines:         hl,
	}, nil
}
