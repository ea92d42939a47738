package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allotrack-backend/internal/domain"
)

var allotmentCols = []string{"id", "number", "asset_id", "organization_id", "handover_date", "due_date", "surrender_date", "rent_per_30_days_cents", "current_month_days", "current_month_rent_cents", "status", "return_condition", "notes", "created_on", "updated_on"}

func TestAllotmentNextNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAllotmentRepository(db)

	mock.ExpectQuery(`SELECT nextval\('allotment_number_seq'\)`).
		WillReturnRows(sqlmock.NewRows([]string{"nextval"}).AddRow(int64(42)))

	number, err := repo.NextNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ALT-00042", number)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllotmentListOpenDueBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAllotmentRepository(db)

	cutoff := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	handover := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT (.+) FROM allotments\s+WHERE status IN \('ACTIVE', 'EXTENDED'\) AND due_date < \$1`).
		WithArgs(cutoff).
		WillReturnRows(sqlmock.NewRows(allotmentCols).
			AddRow(int64(1), "ALT-00001", int64(7), int64(3), handover, due, nil, int64(300000), int32(30), int64(300000), "ACTIVE", nil, "", "2026-08-01", "2026-08-01"))

	allotments, err := repo.ListOpenDueBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, allotments, 1)
	assert.Equal(t, "ALT-00001", allotments[0].Number)
	assert.Equal(t, domain.AllotmentStatusActive, allotments[0].Status)
	assert.Nil(t, allotments[0].SurrenderDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAllotmentUpdateNullsEmptyReturnCondition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAllotmentRepository(db)

	a := &domain.Allotment{
		ID:      1,
		DueDate: time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Status:  domain.AllotmentStatusActive,
	}
	mock.ExpectExec(`UPDATE allotments SET`).
		WithArgs(a.DueDate, nil, int64(0), int32(0), int64(0), "ACTIVE", "", "", sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), a))
	require.NoError(t, mock.ExpectationsWereMet())
}
