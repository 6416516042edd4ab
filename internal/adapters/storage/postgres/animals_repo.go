package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"streetpaws/internal/domain/animals"
)

const animalColumns = `id, animal_id, species, breed, gender, age, size,
	found_location, area, health_status, vaccination_status,
	medical_notes, photo_url, qr_code, registered_at`

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) NextSequence(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT nextval('animal_public_seq')`).Scan(&n); err != nil {
		return 0, fmt.Errorf("next animal sequence: %w", err)
	}
	return n, nil
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO animals (
			animal_id, species, breed, gender, age, size,
			found_location, area, health_status, vaccination_status,
			medical_notes, photo_url, qr_code, registered_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING id
	`,
		a.PublicID,
		string(a.Species),
		toNullString(a.Breed),
		toNullString(string(a.Gender)),
		toNullString(string(a.Age)),
		toNullString(string(a.Size)),
		toNullString(a.FoundLocation),
		toNullString(a.Area),
		toNullString(string(a.HealthStatus)),
		toNullString(string(a.VaccinationStatus)),
		toNullString(a.MedicalNotes),
		toNullString(a.PhotoURL),
		toNullString(a.QRCode),
		a.RegisteredAt,
	).Scan(&a.ID)
	if err != nil {
		return animals.Animal{}, err
	}
	return a, nil
}

// Update no toca animal_id, qr_code ni registered_at.
func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			species = $2,
			breed = $3,
			gender = $4,
			age = $5,
			size = $6,
			found_location = $7,
			area = $8,
			health_status = $9,
			vaccination_status = $10,
			medical_notes = $11,
			photo_url = $12
		WHERE id = $1
	`,
		a.ID,
		string(a.Species),
		toNullString(a.Breed),
		toNullString(string(a.Gender)),
		toNullString(string(a.Age)),
		toNullString(string(a.Size)),
		toNullString(a.FoundLocation),
		toNullString(a.Area),
		toNullString(string(a.HealthStatus)),
		toNullString(string(a.VaccinationStatus)),
		toNullString(a.MedicalNotes),
		toNullString(a.PhotoURL),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

// Delete: las vacunas se borran por ON DELETE CASCADE.
func (r *AnimalsRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id int64) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE id = $1`, id)
	return scanAnimalRow(row)
}

func (r *AnimalsRepo) GetByPublicID(ctx context.Context, publicID string) (animals.Animal, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+animalColumns+` FROM animals WHERE animal_id = $1`, publicID)
	return scanAnimalRow(row)
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	return r.Search(ctx, "", animals.Filter{})
}

func (r *AnimalsRepo) Search(ctx context.Context, query string, f animals.Filter) ([]animals.Animal, error) {
	where, args := searchWhere(query, f)

	rows, err := r.db.QueryContext(ctx, `SELECT `+animalColumns+` FROM animals`+where+` ORDER BY id ASC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AnimalsRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM animals`).Scan(&n)
	return n, err
}

func (r *AnimalsRepo) CountVaccinated(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM animals WHERE vaccination_status IN ($1, $2)`,
		string(animals.VaccinationComplete), string(animals.VaccinationPartial),
	).Scan(&n)
	return n, err
}

// searchWhere arma el WHERE: texto libre (ILIKE con %, _ y \ escapados) AND filtros.
func searchWhere(query string, f animals.Filter) (string, []any) {
	var (
		conds []string
		args  []any
	)

	if q := strings.TrimSpace(query); q != "" {
		args = append(args, "%"+EscapeLike(q)+"%")
		n := len(args)
		cols := []string{"animal_id", "species", "breed", "found_location", "area"}
		parts := make([]string, 0, len(cols))
		for _, c := range cols {
			parts = append(parts, fmt.Sprintf("%s ILIKE $%d", c, n))
		}
		conds = append(conds, "("+strings.Join(parts, " OR ")+")")
	}

	eq := func(col, v string) {
		if v == "" {
			return
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	eq("species", string(f.Species))
	eq("vaccination_status", string(f.VaccinationStatus))
	eq("area", f.Area)
	eq("health_status", string(f.HealthStatus))

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapa los comodines de LIKE (el escape por defecto es \).
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimalRow(row *sql.Row) (animals.Animal, error) {
	a, err := scanAnimal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, err
}

func scanAnimal(s rowScanner) (animals.Animal, error) {
	var (
		a                                         animals.Animal
		species                                   string
		breed, gender, age, size, foundLoc, area  sql.NullString
		health, vaccination, notes, photo, qrCode sql.NullString
	)
	if err := s.Scan(
		&a.ID, &a.PublicID, &species,
		&breed, &gender, &age, &size,
		&foundLoc, &area, &health, &vaccination,
		&notes, &photo, &qrCode, &a.RegisteredAt,
	); err != nil {
		return animals.Animal{}, err
	}

	a.Species = animals.Species(species)
	a.Breed = breed.String
	a.Gender = animals.Gender(gender.String)
	a.Age = animals.AgeBracket(age.String)
	a.Size = animals.SizeBracket(size.String)
	a.FoundLocation = foundLoc.String
	a.Area = area.String
	a.HealthStatus = animals.HealthStatus(health.String)
	a.VaccinationStatus = animals.VaccinationStatus(vaccination.String)
	a.MedicalNotes = notes.String
	a.PhotoURL = photo.String
	a.QRCode = qrCode.String
	return a, nil
}
