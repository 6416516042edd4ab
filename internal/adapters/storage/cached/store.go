package cached

import (
	"time"

	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/ports/storage"
)

// Store reemplaza el repo de helplines del store base por la versión cacheada.
type Store struct {
	storage.Store
	helplines *Helplines
}

func Wrap(base storage.Store, ttl time.Duration) *Store {
	return &Store{Store: base, helplines: NewHelplines(base.Helplines(), ttl)}
}

func (s *Store) Helplines() helplines.Repository { return s.helplines }
