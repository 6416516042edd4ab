package gormdb

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"streetpaws/internal/domain/vaccinations"
)

type vaccinationsRepo struct {
	db *gorm.DB
}

func (r *vaccinationsRepo) Create(ctx context.Context, v vaccinations.Vaccination) (vaccinations.Vaccination, error) {
	row := vaccinationRow{
		AnimalID:        v.AnimalID,
		VaccineName:     v.VaccineName,
		VaccinationDate: v.VaccinationDate,
		Veterinarian:    v.Veterinarian,
		NextDueDate:     v.NextDueDate,
		Notes:           v.Notes,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner animalRow
		if err := tx.Select("id").First(&owner, v.AnimalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return vaccinations.ErrAnimalNotFound
			}
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return vaccinations.Vaccination{}, err
	}
	return row.toDomain(), nil
}

func (r *vaccinationsRepo) ListByAnimal(ctx context.Context, animalID int64) ([]vaccinations.Vaccination, error) {
	var rows []vaccinationRow
	if err := r.db.WithContext(ctx).Where("animal_id = ?", animalID).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]vaccinations.Vaccination, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}
