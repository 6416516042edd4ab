package gormdb

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"streetpaws/internal/domain/animals"
)

type animalsRepo struct {
	db *gorm.DB
}

func (r *animalsRepo) NextSequence(ctx context.Context) (int64, error) {
	t := animalTicket{}
	if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
		return 0, err
	}
	return t.ID, nil
}

func (r *animalsRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	row := fromAnimal(a)
	row.ID = 0
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return animals.Animal{}, err
	}
	return row.toDomain(), nil
}

var updatableColumns = []string{
	"species", "breed", "gender", "age", "size", "found_location", "area",
	"health_status", "vaccination_status", "medical_notes", "photo_url",
}

func (r *animalsRepo) Update(ctx context.Context, a animals.Animal) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current animalRow
		if err := tx.Select("id").First(&current, a.ID).Error; err != nil {
			return mapNotFound(err)
		}
		row := fromAnimal(a)
		// Select fuerza también los valores vacíos (limpiar un campo)
		return tx.Model(&animalRow{ID: a.ID}).Select(updatableColumns).Updates(&row).Error
	})
}

// Delete borra primero las vacunas y después el animal, en una transacción.
func (r *animalsRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current animalRow
		if err := tx.Select("id").First(&current, id).Error; err != nil {
			return mapNotFound(err)
		}
		if err := tx.Where("animal_id = ?", id).Delete(&vaccinationRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&animalRow{}, id).Error
	})
}

func (r *animalsRepo) GetByID(ctx context.Context, id int64) (animals.Animal, error) {
	var row animalRow
	if err := r.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return animals.Animal{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *animalsRepo) GetByPublicID(ctx context.Context, publicID string) (animals.Animal, error) {
	var row animalRow
	if err := r.db.WithContext(ctx).Where("animal_id = ?", publicID).First(&row).Error; err != nil {
		return animals.Animal{}, mapNotFound(err)
	}
	return row.toDomain(), nil
}

func (r *animalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	return r.Search(ctx, "", animals.Filter{})
}

func (r *animalsRepo) Search(ctx context.Context, query string, f animals.Filter) ([]animals.Animal, error) {
	q := r.db.WithContext(ctx).Model(&animalRow{})

	if text := strings.TrimSpace(query); text != "" {
		pattern := "%" + escapeLike(strings.ToLower(text)) + "%"
		q = q.Where(
			"(LOWER(animal_id) LIKE @p ESCAPE '!' OR LOWER(species) LIKE @p ESCAPE '!' OR LOWER(breed) LIKE @p ESCAPE '!'"+
				" OR LOWER(found_location) LIKE @p ESCAPE '!' OR LOWER(area) LIKE @p ESCAPE '!')",
			map[string]any{"p": pattern},
		)
	}
	if f.Species != "" {
		q = q.Where("species = ?", string(f.Species))
	}
	if f.VaccinationStatus != "" {
		q = q.Where("vaccination_status = ?", string(f.VaccinationStatus))
	}
	if f.Area != "" {
		q = q.Where("area = ?", f.Area)
	}
	if f.HealthStatus != "" {
		q = q.Where("health_status = ?", string(f.HealthStatus))
	}

	var rows []animalRow
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]animals.Animal, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *animalsRepo) Count(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&animalRow{}).Count(&n).Error
	return int(n), err
}

func (r *animalsRepo) CountVaccinated(ctx context.Context) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&animalRow{}).
		Where("vaccination_status IN ?", []string{string(animals.VaccinationComplete), string(animals.VaccinationPartial)}).
		Count(&n).Error
	return int(n), err
}

// '!' como escape porque '\' se interpreta distinto en sqlite y mysql.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return animals.ErrNotFound
	}
	return err
}
