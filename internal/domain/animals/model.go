package animals

import (
	"strings"
	"time"
)

// Species define las especies soportadas.
// @Enum dog, cat, bird, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesBird  Species = "bird"
	SpeciesOther Species = "other"
)

var AllSpecies = []Species{SpeciesDog, SpeciesCat, SpeciesBird, SpeciesOther}

// Gender define el sexo del animal.
// @Enum male, female, unknown
type Gender string

const (
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
	GenderUnknown Gender = "unknown"
)

// AgeBracket es la edad aproximada.
type AgeBracket string

const (
	AgePuppy  AgeBracket = "puppy"
	AgeYoung  AgeBracket = "young"
	AgeAdult  AgeBracket = "adult"
	AgeSenior AgeBracket = "senior"
)

// SizeBracket es el tamaño aproximado.
type SizeBracket string

const (
	SizeSmall      SizeBracket = "small"
	SizeMedium     SizeBracket = "medium"
	SizeLarge      SizeBracket = "large"
	SizeExtraLarge SizeBracket = "extra-large"
)

type HealthStatus string

const (
	HealthHealthy    HealthStatus = "healthy"
	HealthInjured    HealthStatus = "injured"
	HealthSick       HealthStatus = "sick"
	HealthRecovering HealthStatus = "recovering"
)

type VaccinationStatus string

const (
	VaccinationNone     VaccinationStatus = "not-vaccinated"
	VaccinationPartial  VaccinationStatus = "partial"
	VaccinationComplete VaccinationStatus = "complete"
	VaccinationUnknown  VaccinationStatus = "unknown"
)

// HasProgress indica si el estado cuenta como "vacunado" para estadísticas.
func (s VaccinationStatus) HasProgress() bool {
	return s == VaccinationPartial || s == VaccinationComplete
}

// Animal es el registro de un animal callejero.
// PublicID (SP-<año>-<secuencia>) se asigna al crear y no cambia nunca.
type Animal struct {
	ID       int64
	PublicID string

	Species Species
	Breed   string
	Gender  Gender
	Age     AgeBracket
	Size    SizeBracket

	FoundLocation string
	Area          string

	HealthStatus      HealthStatus
	VaccinationStatus VaccinationStatus
	MedicalNotes      string

	PhotoURL string
	QRCode   string

	RegisteredAt time.Time
}

// Filter son filtros de igualdad independientes; vacío = sin filtro.
type Filter struct {
	Species           Species
	VaccinationStatus VaccinationStatus
	Area              string
	HealthStatus      HealthStatus
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches aplica los filtros de igualdad (los vacíos no filtran).
func (f Filter) Matches(a Animal) bool {
	switch {
	case f.Species != "" && a.Species != f.Species:
		return false
	case f.VaccinationStatus != "" && a.VaccinationStatus != f.VaccinationStatus:
		return false
	case f.Area != "" && a.Area != f.Area:
		return false
	case f.HealthStatus != "" && a.HealthStatus != f.HealthStatus:
		return false
	}
	return true
}

// MatchesText: substring case-insensitive sobre ID público, especie, raza,
// lugar de hallazgo y área.
func (a Animal) MatchesText(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{a.PublicID, string(a.Species), a.Breed, a.FoundLocation, a.Area} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Patch es una actualización parcial: nil = no tocar.
type Patch struct {
	Species           *Species
	Breed             *string
	Gender            *Gender
	Age               *AgeBracket
	Size              *SizeBracket
	FoundLocation     *string
	Area              *string
	HealthStatus      *HealthStatus
	VaccinationStatus *VaccinationStatus
	MedicalNotes      *string
	PhotoURL          *string
}

// Apply devuelve una copia de a con los campos presentes en p.
func (p Patch) Apply(a Animal) Animal {
	if p.Species != nil {
		a.Species = *p.Species
	}
	if p.Breed != nil {
		a.Breed = *p.Breed
	}
	if p.Gender != nil {
		a.Gender = *p.Gender
	}
	if p.Age != nil {
		a.Age = *p.Age
	}
	if p.Size != nil {
		a.Size = *p.Size
	}
	if p.FoundLocation != nil {
		a.FoundLocation = *p.FoundLocation
	}
	if p.Area != nil {
		a.Area = *p.Area
	}
	if p.HealthStatus != nil {
		a.HealthStatus = *p.HealthStatus
	}
	if p.VaccinationStatus != nil {
		a.VaccinationStatus = *p.VaccinationStatus
	}
	if p.MedicalNotes != nil {
		a.MedicalNotes = *p.MedicalNotes
	}
	if p.PhotoURL != nil {
		a.PhotoURL = *p.PhotoURL
	}
	return a
}
