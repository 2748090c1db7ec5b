package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barter-auth/internal/domain"
)

func TestPgProfileRepository_UpsertReturnsExistingID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery(`INSERT INTO profile_details`).
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "second_name", "created_at"}).
			AddRow("p-existing", "Alice", "Liddell", created))

	repo := NewPgProfileRepository(mock)
	got, err := repo.Upsert(context.Background(), domain.ProfileDetails{
		ID:        "p-new",
		AccountID: "a1",
		FirstName: "Alice",
		Headline:  "Gardener",
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, "p-existing", got.ID)
	assert.Equal(t, "Liddell", got.SecondName)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, "Gardener", got.Headline)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgProfileRepository_UpsertKeepsStoredNamesWhenOmitted(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	created := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery(`(?s)INSERT INTO profile_details.*` +
		`first_name = COALESCE\(NULLIF\(EXCLUDED\.first_name, ''\), profile_details\.first_name\).*` +
		`second_name = COALESCE\(NULLIF\(EXCLUDED\.second_name, ''\), profile_details\.second_name\).*` +
		`headline = EXCLUDED\.headline`).
		WithArgs("p-new", "a1", "", "", "", "Gardener", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id", "first_name", "second_name", "created_at"}).
			AddRow("p-existing", "Alice", "Liddell", created))

	repo := NewPgProfileRepository(mock)
	got, err := repo.Upsert(context.Background(), domain.ProfileDetails{
		ID:        "p-new",
		AccountID: "a1",
		Headline:  "Gardener",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "Liddell", got.SecondName)
	assert.Equal(t, "Gardener", got.Headline)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgProfileRepository_GetByAccountID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM profile_details`).WithArgs("a1").WillReturnError(pgx.ErrNoRows)

		repo := NewPgProfileRepository(mock)
		_, err = repo.GetByAccountID(context.Background(), "a1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("driver error", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`FROM profile_details`).WithArgs("a1").WillReturnError(errors.New("connection refused"))

		repo := NewPgProfileRepository(mock)
		_, err = repo.GetByAccountID(context.Background(), "a1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.Contains(t, err.Error(), "connection refused")
	})
}

func TestPgNotificationRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectExec(`INSERT INTO notifications`).
		WithArgs("n1", "a1", "hello", "/me", false, now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewPgNotificationRepository(mock)
	err = repo.Create(context.Background(), domain.Notification{
		ID:        "n1",
		AccountID: "a1",
		Message:   "hello",
		Link:      "/me",
		CreatedAt: now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
