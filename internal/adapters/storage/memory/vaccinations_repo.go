package memory

import (
	"context"
	"sort"

	"streetpaws/internal/domain/vaccinations"
)

type vaccinationRepo struct {
	st *state
}

func (r *vaccinationRepo) Create(ctx context.Context, v vaccinations.Vaccination) (vaccinations.Vaccination, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	// FK: el animal tiene que existir
	if _, ok := r.st.animals[v.AnimalID]; !ok {
		return vaccinations.Vaccination{}, vaccinations.ErrAnimalNotFound
	}

	v.ID = r.st.vaccinationSeq.Add(1)
	r.st.vaccinations[v.ID] = v
	return v, nil
}

func (r *vaccinationRepo) ListByAnimal(ctx context.Context, animalID int64) ([]vaccinations.Vaccination, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]vaccinations.Vaccination, 0)
	for _, v := range r.st.vaccinations {
		if v.AnimalID == animalID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
