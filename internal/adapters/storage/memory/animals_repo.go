package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"streetpaws/internal/domain/animals"
)

type animalRepo struct {
	st *state
}

func (r *animalRepo) NextSequence(ctx context.Context) (int64, error) {
	return r.st.publicSeq.Add(1), nil
}

func (r *animalRepo) Create(ctx context.Context, a animals.Animal) (animals.Animal, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if strings.TrimSpace(a.PublicID) == "" {
		return animals.Animal{}, errors.New("animal public id required")
	}
	for _, existing := range r.st.animals {
		if existing.PublicID == a.PublicID {
			return animals.Animal{}, errors.New("animal public id already exists")
		}
	}

	a.ID = r.st.animalSeq.Add(1)
	r.st.animals[a.ID] = a
	return a, nil
}

func (r *animalRepo) Update(ctx context.Context, a animals.Animal) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	current, ok := r.st.animals[a.ID]
	if !ok {
		return animals.ErrNotFound
	}
	// inmutables
	a.PublicID = current.PublicID
	a.RegisteredAt = current.RegisteredAt
	a.QRCode = current.QRCode

	r.st.animals[a.ID] = a
	return nil
}

func (r *animalRepo) Delete(ctx context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()

	if _, ok := r.st.animals[id]; !ok {
		return animals.ErrNotFound
	}
	for vid, v := range r.st.vaccinations {
		if v.AnimalID == id {
			delete(r.st.vaccinations, vid)
		}
	}
	delete(r.st.animals, id)
	return nil
}

func (r *animalRepo) GetByID(ctx context.Context, id int64) (animals.Animal, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	a, ok := r.st.animals[id]
	if !ok {
		return animals.Animal{}, animals.ErrNotFound
	}
	return a, nil
}

func (r *animalRepo) GetByPublicID(ctx context.Context, publicID string) (animals.Animal, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	for _, a := range r.st.animals {
		if a.PublicID == publicID {
			return a, nil
		}
	}
	return animals.Animal{}, animals.ErrNotFound
}

func (r *animalRepo) List(ctx context.Context) ([]animals.Animal, error) {
	return r.Search(ctx, "", animals.Filter{})
}

func (r *animalRepo) Search(ctx context.Context, query string, filter animals.Filter) ([]animals.Animal, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	out := make([]animals.Animal, 0, len(r.st.animals))
	for _, a := range r.st.animals {
		if filter.Matches(a) && a.MatchesText(query) {
			out = append(out, a)
		}
	}

	// Orden estable por id asc, igual que los backends SQL
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *animalRepo) Count(ctx context.Context) (int, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()
	return len(r.st.animals), nil
}

func (r *animalRepo) CountVaccinated(ctx context.Context) (int, error) {
	r.st.mu.RLock()
	defer r.st.mu.RUnlock()

	n := 0
	for _, a := range r.st.animals {
		if a.VaccinationStatus.HasProgress() {
			n++
		}
	}
	return n, nil
}
