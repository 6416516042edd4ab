package gormdb

import (
	"time"

	"streetpaws/internal/domain/animals"
	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/domain/vaccinations"
)

// animalTicket reserva números para el ID público. Las filas no se borran
// nunca, así que el autoincrement no se reutiliza.
type animalTicket struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time
}

func (animalTicket) TableName() string { return "animal_public_tickets" }

type animalRow struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	AnimalID          string    `gorm:"column:animal_id;size:32;uniqueIndex;not null"`
	Species           string    `gorm:"size:16;not null;index"`
	Breed             string    `gorm:"size:120"`
	Gender            string    `gorm:"size:16"`
	Age               string    `gorm:"size:16"`
	Size              string    `gorm:"size:16"`
	FoundLocation     string    `gorm:"size:255"`
	Area              string    `gorm:"size:120;index"`
	HealthStatus      string    `gorm:"size:16"`
	VaccinationStatus string    `gorm:"size:16"`
	MedicalNotes      string    `gorm:"type:text"`
	PhotoURL          string    `gorm:"column:photo_url;size:255"`
	QRCode            string    `gorm:"column:qr_code;size:255"`
	RegisteredAt      time.Time `gorm:"not null"`
}

func (animalRow) TableName() string { return "animals" }

type vaccinationRow struct {
	ID              int64  `gorm:"primaryKey;autoIncrement"`
	AnimalID        int64  `gorm:"not null;index"`
	VaccineName     string `gorm:"size:120;not null"`
	VaccinationDate string `gorm:"size:10;not null"`
	Veterinarian    string `gorm:"size:120"`
	NextDueDate     string `gorm:"size:10"`
	Notes           string `gorm:"type:text"`
}

func (vaccinationRow) TableName() string { return "vaccinations" }

type helplineRow struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:120;not null"`
	Type        string `gorm:"size:120;not null"`
	Phone       string `gorm:"size:32;not null"`
	Hours       string `gorm:"size:64;not null"`
	Coverage    string `gorm:"size:255;not null"`
	Description string `gorm:"type:text"`
}

func (helplineRow) TableName() string { return "helplines" }

func fromAnimal(a animals.Animal) animalRow {
	return animalRow{
		ID:                a.ID,
		AnimalID:          a.PublicID,
		Species:           string(a.Species),
		Breed:             a.Breed,
		Gender:            string(a.Gender),
		Age:               string(a.Age),
		Size:              string(a.Size),
		FoundLocation:     a.FoundLocation,
		Area:              a.Area,
		HealthStatus:      string(a.HealthStatus),
		VaccinationStatus: string(a.VaccinationStatus),
		MedicalNotes:      a.MedicalNotes,
		PhotoURL:          a.PhotoURL,
		QRCode:            a.QRCode,
		RegisteredAt:      a.RegisteredAt,
	}
}

func (r animalRow) toDomain() animals.Animal {
	return animals.Animal{
		ID:                r.ID,
		PublicID:          r.AnimalID,
		Species:           animals.Species(r.Species),
		Breed:             r.Breed,
		Gender:            animals.Gender(r.Gender),
		Age:               animals.AgeBracket(r.Age),
		Size:              animals.SizeBracket(r.Size),
		FoundLocation:     r.FoundLocation,
		Area:              r.Area,
		HealthStatus:      animals.HealthStatus(r.HealthStatus),
		VaccinationStatus: animals.VaccinationStatus(r.VaccinationStatus),
		MedicalNotes:      r.MedicalNotes,
		PhotoURL:          r.PhotoURL,
		QRCode:            r.QRCode,
		RegisteredAt:      r.RegisteredAt,
	}
}

func (r vaccinationRow) toDomain() vaccinations.Vaccination {
	return vaccinations.Vaccination{
		ID:              r.ID,
		AnimalID:        r.AnimalID,
		VaccineName:     r.VaccineName,
		VaccinationDate: r.VaccinationDate,
		Veterinarian:    r.Veterinarian,
		NextDueDate:     r.NextDueDate,
		Notes:           r.Notes,
	}
}

func (r helplineRow) toDomain() helplines.Helpline {
	return helplines.Helpline{
		ID:          r.ID,
		Name:        r.Name,
		Type:        r.Type,
		Phone:       r.Phone,
		Hours:       r.Hours,
		Coverage:    r.Coverage,
		Description: r.Description,
	}
}
