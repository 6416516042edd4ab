package memory

import (
	"sync"
	"sync/atomic"

	"streetpaws/internal/domain/animals"
	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/domain/vaccinations"
)

// Store guarda todo en memoria. Los tres repos comparten estado y mutex para
// que el borrado en cascada sea atómico.
type Store struct {
	st *state
}

type state struct {
	mu           sync.RWMutex
	animals      map[int64]animals.Animal
	vaccinations map[int64]vaccinations.Vaccination
	helplines    map[int64]helplines.Helpline

	// contadores: nunca se reutilizan, aunque se borre el registro
	animalSeq      atomic.Int64
	publicSeq      atomic.Int64
	vaccinationSeq atomic.Int64
	helplineSeq    atomic.Int64
}

func NewStore() *Store {
	return &Store{st: &state{
		animals:      make(map[int64]animals.Animal),
		vaccinations: make(map[int64]vaccinations.Vaccination),
		helplines:    make(map[int64]helplines.Helpline),
	}}
}

func (s *Store) Animals() animals.Repository           { return &animalRepo{st: s.st} }
func (s *Store) Vaccinations() vaccinations.Repository { return &vaccinationRepo{st: s.st} }
func (s *Store) Helplines() helplines.Repository       { return &helplineRepo{st: s.st} }
func (s *Store) Close() error                          { return nil }
