package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"streetpaws/internal/domain/vaccinations"
)

// SQLSTATE de violación de FK (el animal se borró entre el chequeo y el insert).
const foreignKeyViolation = "23503"

type VaccinationsRepo struct {
	db *sql.DB
}

func NewVaccinationsRepo(db *sql.DB) *VaccinationsRepo {
	return &VaccinationsRepo{db: db}
}

func (r *VaccinationsRepo) Create(ctx context.Context, v vaccinations.Vaccination) (vaccinations.Vaccination, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO vaccinations (
			animal_id, vaccine_name, vaccination_date,
			veterinarian, next_due_date, notes
		) VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id
	`,
		v.AnimalID,
		v.VaccineName,
		v.VaccinationDate,
		toNullString(v.Veterinarian),
		toNullString(v.NextDueDate),
		toNullString(v.Notes),
	).Scan(&v.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return vaccinations.Vaccination{}, vaccinations.ErrAnimalNotFound
		}
		return vaccinations.Vaccination{}, err
	}
	return v, nil
}

func (r *VaccinationsRepo) ListByAnimal(ctx context.Context, animalID int64) ([]vaccinations.Vaccination, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, animal_id, vaccine_name, vaccination_date, veterinarian, next_due_date, notes
		FROM vaccinations
		WHERE animal_id = $1
		ORDER BY id ASC
	`, animalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]vaccinations.Vaccination, 0)
	for rows.Next() {
		var (
			v               vaccinations.Vaccination
			vet, due, notes sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.AnimalID, &v.VaccineName, &v.VaccinationDate, &vet, &due, &notes); err != nil {
			return nil, err
		}
		v.Veterinarian = vet.String
		v.NextDueDate = due.String
		v.Notes = notes.String
		out = append(out, v)
	}
	return out, rows.Err()
}
