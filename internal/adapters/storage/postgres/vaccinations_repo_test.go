package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streetpaws/internal/domain/vaccinations"
)

func TestVaccinationsRepo_CreateReturnsID(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO vaccinations`).
		WithArgs(int64(3), "Rabies", "2025-01-10", nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(11)))

	v, err := s.Vaccinations().Create(context.Background(), vaccinations.Vaccination{
		AnimalID: 3, VaccineName: "Rabies", VaccinationDate: "2025-01-10",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), v.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVaccinationsRepo_CreateMissingOwner(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery(`INSERT INTO vaccinations`).
		WillReturnError(&pgconn.PgError{Code: foreignKeyViolation, Message: "violates foreign key constraint"})

	_, err := s.Vaccinations().Create(context.Background(), vaccinations.Vaccination{
		AnimalID: 99, VaccineName: "Rabies", VaccinationDate: "2025-01-10",
	})
	assert.ErrorIs(t, err, vaccinations.ErrAnimalNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVaccinationsRepo_CreateOtherErrorsPassThrough(t *testing.T) {
	s, mock := newMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(`INSERT INTO vaccinations`).WillReturnError(boom)

	_, err := s.Vaccinations().Create(context.Background(), vaccinations.Vaccination{
		AnimalID: 1, VaccineName: "Rabies", VaccinationDate: "2025-01-10",
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, vaccinations.ErrAnimalNotFound)
}
