package stats

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnimals struct {
	total, vaccinated int
	err               error
}

func (f fakeAnimals) Count(context.Context) (int, error)           { return f.total, f.err }
func (f fakeAnimals) CountVaccinated(context.Context) (int, error) { return f.vaccinated, f.err }

type fakeHelplines int

func (f fakeHelplines) Count(context.Context) (int, error) { return int(f), nil }

func TestService_Get_QRCodesEqualsAnimals(t *testing.T) {
	svc := NewService(fakeAnimals{total: 7, vaccinated: 3}, fakeHelplines(5))

	st, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{RegisteredAnimals: 7, Vaccinated: 3, QRCodes: 7, Helplines: 5}, st)
}

func TestService_Get_PropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewService(fakeAnimals{err: boom}, fakeHelplines(5))

	_, err := svc.Get(context.Background())
	assert.ErrorIs(t, err, boom)
}
