package gormdb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streetpaws/internal/adapters/storage/storagetest"
	"streetpaws/internal/domain/animals"
	"streetpaws/internal/ports/storage"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "streetpaws_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_Contract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Store { return openTestStore(t) })
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	require.Error(t, err)
}

func TestUpdate_ClearsField(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Animals()

	seq, err := repo.NextSequence(ctx)
	require.NoError(t, err)
	a, err := repo.Create(ctx, animals.Animal{
		PublicID: animals.FormatPublicID(2025, seq),
		Species:  animals.SpeciesDog,
		Breed:    "Indie",
	})
	require.NoError(t, err)

	a.Breed = ""
	require.NoError(t, repo.Update(ctx, a))

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Breed)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "50!%!_off!!", escapeLike("50%_off!"))
}
