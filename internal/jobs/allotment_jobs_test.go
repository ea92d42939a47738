package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"allotrack-backend/internal/config"
	"allotrack-backend/internal/domain"
	"allotrack-backend/internal/repository/memory"
	"allotrack-backend/internal/service"
)

func TestMarkOverdueAllotments(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	org := &domain.Organization{Code: "ACME", Name: "Acme Corp"}
	require.NoError(t, store.Organizations.Create(ctx, org))

	allotments := service.NewAllotmentService(store, store.Repositories)

	newAllotment := func(tag string, due time.Time) *domain.Allotment {
		a, err := allotments.Create(ctx, service.CreateAllotmentParams{
			NewAsset:         &domain.Asset{AssetTag: tag, Model: "ThinkPad"},
			OrganizationID:   org.ID,
			HandoverDate:     due.AddDate(0, 0, -30),
			DueDate:          due,
			CurrentMonthDays: 30,
		})
		require.NoError(t, err)
		return a
	}

	past := time.Now().UTC().AddDate(0, 0, -3)
	future := time.Now().UTC().AddDate(0, 0, 10)

	overdue := newAllotment("LPT-1", past)
	current := newAllotment("LPT-2", future)

	runner := NewJobRunner(store.Repositories, allotments, &config.Config{})
	runner.MarkOverdueAllotments()

	got, err := store.Allotments.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AllotmentStatusOverdue, got.Status)

	got, err = store.Allotments.GetByID(ctx, current.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AllotmentStatusActive, got.Status)

	// A second sweep changes nothing.
	runner.MarkOverdueAllotments()
	got, err = store.Allotments.GetByID(ctx, overdue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AllotmentStatusOverdue, got.Status)
}
