package animals

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"streetpaws/internal/platform/apperr"
)

var (
	speciesRule = validation.In(SpeciesDog, SpeciesCat, SpeciesBird, SpeciesOther).
			Error("must be one of dog, cat, bird, other")
	genderRule = validation.In(GenderMale, GenderFemale, GenderUnknown).
			Error("must be one of male, female, unknown")
	ageRule = validation.In(AgePuppy, AgeYoung, AgeAdult, AgeSenior).
		Error("must be one of puppy, young, adult, senior")
	sizeRule = validation.In(SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge).
			Error("must be one of small, medium, large, extra-large")
	healthRule = validation.In(HealthHealthy, HealthInjured, HealthSick, HealthRecovering).
			Error("must be one of healthy, injured, sick, recovering")
	vaccinationRule = validation.In(VaccinationNone, VaccinationPartial, VaccinationComplete, VaccinationUnknown).
			Error("must be one of not-vaccinated, partial, complete, unknown")
	photoRule = validation.By(func(v any) error {
		s, _ := v.(string)
		if p, ok := v.(*string); ok && p != nil {
			s = *p
		}
		if s != "" && !strings.HasPrefix(s, "/uploads/") {
			return validation.NewError("validation_photo_url", "must start with /uploads/")
		}
		return nil
	})
)

func validateCreate(in CreateInput) error {
	err := validation.ValidateStruct(&in,
		validation.Field(&in.Species, validation.Required.Error("Species is required"), speciesRule),
		validation.Field(&in.Gender, genderRule),
		validation.Field(&in.Age, ageRule),
		validation.Field(&in.Size, sizeRule),
		validation.Field(&in.HealthStatus, healthRule),
		validation.Field(&in.VaccinationStatus, vaccinationRule),
		validation.Field(&in.Breed, validation.Length(0, 120)),
		validation.Field(&in.FoundLocation, validation.Length(0, 255)),
		validation.Field(&in.Area, validation.Length(0, 120)),
		validation.Field(&in.PhotoURL, photoRule),
	)
	return apperr.FromValidation(err)
}

// patchFields replica Patch con tags json para que los errores usen los nombres del API.
type patchFields struct {
	Species           *Species           `json:"species"`
	Gender            *Gender            `json:"gender"`
	Age               *AgeBracket        `json:"age"`
	Size              *SizeBracket       `json:"size"`
	HealthStatus      *HealthStatus      `json:"healthStatus"`
	VaccinationStatus *VaccinationStatus `json:"vaccinationStatus"`
	PhotoURL          *string            `json:"photoUrl"`
}

func validatePatch(p Patch) error {
	f := patchFields{
		Species:           p.Species,
		Gender:            p.Gender,
		Age:               p.Age,
		Size:              p.Size,
		HealthStatus:      p.HealthStatus,
		VaccinationStatus: p.VaccinationStatus,
		PhotoURL:          p.PhotoURL,
	}
	err := validation.ValidateStruct(&f,
		validation.Field(&f.Species, validation.NilOrNotEmpty.Error("Species is required"), speciesRule),
		validation.Field(&f.Gender, genderRule),
		validation.Field(&f.Age, ageRule),
		validation.Field(&f.Size, sizeRule),
		validation.Field(&f.HealthStatus, healthRule),
		validation.Field(&f.VaccinationStatus, vaccinationRule),
		validation.Field(&f.PhotoURL, photoRule),
	)
	return apperr.FromValidation(err)
}

func (in CreateInput) trimmed() CreateInput {
	in.Species = Species(strings.ToLower(strings.TrimSpace(string(in.Species))))
	in.Breed = strings.TrimSpace(in.Breed)
	in.Gender = Gender(strings.TrimSpace(string(in.Gender)))
	in.Age = AgeBracket(strings.TrimSpace(string(in.Age)))
	in.Size = SizeBracket(strings.TrimSpace(string(in.Size)))
	in.FoundLocation = strings.TrimSpace(in.FoundLocation)
	in.Area = strings.TrimSpace(in.Area)
	in.HealthStatus = HealthStatus(strings.TrimSpace(string(in.HealthStatus)))
	in.VaccinationStatus = VaccinationStatus(strings.TrimSpace(string(in.VaccinationStatus)))
	in.MedicalNotes = strings.TrimSpace(in.MedicalNotes)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	return in
}

func (p Patch) trimmed() Patch {
	if p.Species != nil {
		v := Species(strings.ToLower(strings.TrimSpace(string(*p.Species))))
		p.Species = &v
	}
	p.Breed = trimPtr(p.Breed)
	p.FoundLocation = trimPtr(p.FoundLocation)
	p.Area = trimPtr(p.Area)
	p.MedicalNotes = trimPtr(p.MedicalNotes)
	p.PhotoURL = trimPtr(p.PhotoURL)
	return p
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
