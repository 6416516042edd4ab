package postgres

import (
	"context"
	"database/sql"

	"streetpaws/internal/domain/animals"
	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/domain/vaccinations"
)

type Store struct {
	db *sql.DB

	animals      *AnimalsRepo
	vaccinations *VaccinationsRepo
	helplines    *HelplinesRepo
}

// NewStore envuelve un *sql.DB ya abierto (y migrado).
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		animals:      NewAnimalsRepo(db),
		vaccinations: NewVaccinationsRepo(db),
		helplines:    NewHelplinesRepo(db),
	}
}

// OpenStore abre la conexión y aplica el schema.
func OpenStore(ctx context.Context, dsn string) (*Store, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewStore(db), nil
}

func (s *Store) Animals() animals.Repository           { return s.animals }
func (s *Store) Vaccinations() vaccinations.Repository { return s.vaccinations }
func (s *Store) Helplines() helplines.Repository       { return s.helplines }
func (s *Store) Close() error                          { return s.db.Close() }
