package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allotrack-backend/internal/repository"
)

func TestAdjustAllotmentCounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrganizationRepository(db)

	mock.ExpectExec(`UPDATE organizations`).
		WithArgs(int32(1), int32(-1), sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.AdjustAllotmentCounts(context.Background(), 3, 1, -1))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdjustAllotmentCountsUnknownOrg(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewOrganizationRepository(db)

	mock.ExpectExec(`UPDATE organizations`).
		WithArgs(int32(1), int32(1), sqlmock.AnyArg(), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = repo.AdjustAllotmentCounts(context.Background(), 99, 1, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxCommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE organizations`).
		WithArgs(int32(1), int32(1), sqlmock.AnyArg(), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.WithinTx(context.Background(), func(r repository.Repositories) error {
		return r.Organizations.AdjustAllotmentCounts(context.Background(), 3, 1, 1)
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTxRollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	err = store.WithinTx(context.Background(), func(repository.Repositories) error {
		return boom
	})
	assert.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}
