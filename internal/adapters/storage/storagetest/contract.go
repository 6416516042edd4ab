// Package storagetest tiene la batería común que todo backend de storage.Store debe pasar.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streetpaws/internal/domain/animals"
	"streetpaws/internal/domain/helplines"
	"streetpaws/internal/domain/vaccinations"
	"streetpaws/internal/ports/storage"
)

// Run ejecuta la batería. newStore debe devolver un store vacío por llamada.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	t.Run("sequence is never reused", func(t *testing.T) { testSequence(t, newStore(t)) })
	t.Run("create and get", func(t *testing.T) { testCreateGet(t, newStore(t)) })
	t.Run("update keeps immutable fields", func(t *testing.T) { testUpdate(t, newStore(t)) })
	t.Run("delete cascades", func(t *testing.T) { testDeleteCascade(t, newStore(t)) })
	t.Run("search", func(t *testing.T) { testSearch(t, newStore(t)) })
	t.Run("counts", func(t *testing.T) { testCounts(t, newStore(t)) })
	t.Run("helplines", func(t *testing.T) { testHelplines(t, newStore(t)) })
}

func newAnimal(t *testing.T, repo animals.Repository, species animals.Species, mutate func(*animals.Animal)) animals.Animal {
	t.Helper()
	ctx := context.Background()

	seq, err := repo.NextSequence(ctx)
	require.NoError(t, err)

	a := animals.Animal{
		PublicID:     animals.FormatPublicID(2025, seq),
		Species:      species,
		RegisteredAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	a.QRCode = "http://localhost:8080/animal/" + a.PublicID
	if mutate != nil {
		mutate(&a)
	}

	created, err := repo.Create(ctx, a)
	require.NoError(t, err)
	require.NotZero(t, created.ID)
	return created
}

func testSequence(t *testing.T, s storage.Store) {
	ctx := context.Background()
	repo := s.Animals()

	a := newAnimal(t, repo, animals.SpeciesDog, nil)
	require.NoError(t, repo.Delete(ctx, a.ID))

	b := newAnimal(t, repo, animals.SpeciesCat, nil)
	assert.NotEqual(t, a.PublicID, b.PublicID)
	assert.NotEqual(t, a.ID, b.ID)

	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		n, err := repo.NextSequence(ctx)
		require.NoError(t, err)
		assert.False(t, seen[n], "sequence %d repeated", n)
		seen[n] = true
	}
}

func testCreateGet(t *testing.T, s storage.Store) {
	ctx := context.Background()
	repo := s.Animals()

	a := newAnimal(t, repo, animals.SpeciesDog, func(a *animals.Animal) {
		a.Breed = "Indie"
		a.Area = "Koramangala"
		a.VaccinationStatus = animals.VaccinationPartial
	})

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.PublicID, got.PublicID)
	assert.Equal(t, "Indie", got.Breed)
	assert.Equal(t, animals.VaccinationPartial, got.VaccinationStatus)
	assert.True(t, a.RegisteredAt.Equal(got.RegisteredAt))

	byPublic, err := repo.GetByPublicID(ctx, a.PublicID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, byPublic.ID)

	_, err = repo.GetByID(ctx, a.ID+1000)
	assert.ErrorIs(t, err, animals.ErrNotFound)
	_, err = repo.GetByPublicID(ctx, "SP-1999-000001")
	assert.ErrorIs(t, err, animals.ErrNotFound)
}

func testUpdate(t *testing.T, s storage.Store) {
	ctx := context.Background()
	repo := s.Animals()

	a := newAnimal(t, repo, animals.SpeciesCat, func(a *animals.Animal) { a.Breed = "Persian" })

	changed := a
	changed.Area = "Indiranagar"
	changed.PublicID = "SP-2000-999999"
	require.NoError(t, repo.Update(ctx, changed))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Indiranagar", got.Area)
	assert.Equal(t, "Persian", got.Breed)
	assert.Equal(t, a.PublicID, got.PublicID)

	missing := a
	missing.ID = a.ID + 1000
	assert.ErrorIs(t, repo.Update(ctx, missing), animals.ErrNotFound)
}

func testDeleteCascade(t *testing.T, s storage.Store) {
	ctx := context.Background()
	repo := s.Animals()
	vrepo := s.Vaccinations()

	keep := newAnimal(t, repo, animals.SpeciesDog, nil)
	gone := newAnimal(t, repo, animals.SpeciesDog, nil)

	for i := 0; i < 2; i++ {
		_, err := vrepo.Create(ctx, vaccinations.Vaccination{
			AnimalID: gone.ID, VaccineName: fmt.Sprintf("Rabies %d", i), VaccinationDate: "2025-01-10",
		})
		require.NoError(t, err)
	}
	_, err := vrepo.Create(ctx, vaccinations.Vaccination{AnimalID: keep.ID, VaccineName: "DHPP", VaccinationDate: "2025-01-11"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, gone.ID))

	_, err = repo.GetByID(ctx, gone.ID)
	assert.ErrorIs(t, err, animals.ErrNotFound)
	_, err = repo.GetByPublicID(ctx, gone.PublicID)
	assert.ErrorIs(t, err, animals.ErrNotFound)

	_, err = vrepo.Create(ctx, vaccinations.Vaccination{AnimalID: gone.ID, VaccineName: "Late", VaccinationDate: "2025-01-12"})
	assert.ErrorIs(t, err, vaccinations.ErrAnimalNotFound)

	left, err := vrepo.ListByAnimal(ctx, gone.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	kept, err := vrepo.ListByAnimal(ctx, keep.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, repo.Delete(ctx, gone.ID), animals.ErrNotFound)
}

func testSearch(t *testing.T, s storage.Store) {
	ctx := context.Background()
	repo := s.Animals()

	dog := newAnimal(t, repo, animals.SpeciesDog, func(a *animals.Animal) {
		a.Breed = "Labrador"
		a.Area = "Koramangala"
		a.HealthStatus = animals.HealthHealthy
	})
	cat := newAnimal(t, repo, animals.SpeciesCat, func(a *animals.Animal) {
		a.FoundLocation = "Near 100% Coffee"
		a.Area = "Jayanagar"
		a.VaccinationStatus = animals.VaccinationComplete
	})
	newAnimal(t, repo, animals.SpeciesBird, nil)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	got, err := repo.Search(ctx, "LABRA", animals.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dog.ID, got[0].ID)

	got, err = repo.Search(ctx, "", animals.Filter{Species: animals.SpeciesCat})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cat.ID, got[0].ID)

	// % y _ son literales, no comodines
	got, err = repo.Search(ctx, "100%", animals.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, cat.ID, got[0].ID)

	got, err = repo.Search(ctx, "%", animals.Filter{})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = repo.Search(ctx, cat.PublicID, animals.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = repo.Search(ctx, "a", animals.Filter{Area: "Koramangala", HealthStatus: animals.HealthHealthy})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, dog.ID, got[0].ID)

	got, err = repo.Search(ctx, "zzz", animals.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testCounts(t *testing.T, s storage.Store) {
	ctx := context.Background()
	repo := s.Animals()

	newAnimal(t, repo, animals.SpeciesDog, func(a *animals.Animal) { a.VaccinationStatus = animals.VaccinationComplete })
	newAnimal(t, repo, animals.SpeciesDog, func(a *animals.Animal) { a.VaccinationStatus = animals.VaccinationPartial })
	newAnimal(t, repo, animals.SpeciesDog, func(a *animals.Animal) { a.VaccinationStatus = animals.VaccinationNone })
	newAnimal(t, repo, animals.SpeciesDog, nil)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	v, err := repo.CountVaccinated(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func testHelplines(t *testing.T, s storage.Store) {
	ctx := context.Background()
	repo := s.Helplines()

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	svc := helplines.NewService(repo)
	inserted, err := svc.Seed(ctx, helplines.DefaultDirectory)
	require.NoError(t, err)
	assert.Equal(t, len(helplines.DefaultDirectory), inserted)

	// segundo seed no duplica
	inserted, err = svc.Seed(ctx, helplines.DefaultDirectory)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(helplines.DefaultDirectory))
	assert.Equal(t, helplines.DefaultDirectory[0].Name, list[0].Name)
}
