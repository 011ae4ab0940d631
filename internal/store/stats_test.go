package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint-backend/internal/model"
)

func TestStatsAggregator_EmptyIsZero(t *testing.T) {
	s := newTestStore(t)

	overview, err := s.Stats.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.StatsOverview{}, overview)
}

func TestStatsAggregator_Overview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fx := seedCatalog(t, s, "Screen")

	for _, q := range []struct {
		status string
		price  float64
	}{
		{"NEW", 10},
		{"NEW", 20},
		{"ASSIGNED", 30},
		{"DONE", 40.5},
		{"CANCELLED", 100},
	} {
		_, err := s.Quotes.Create(ctx, QuoteInput{ModelID: fx.ModelID, RepairIDs: fx.RepairIDs, Price: q.price, Status: q.status})
		require.NoError(t, err)
	}

	overview, err := s.Stats.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.StatsOverview{
		Total:         5,
		NewCount:      2,
		AssignedCount: 1,
		DoneCount:     1,
		TotalAmount:   200.5,
	}, overview)
}

func TestStatsAggregator_StorageError(t *testing.T) {
	gormDB, mock := newMockDB(t)
	s := NewGormStore(gormDB)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS total`).
		WillReturnError(errors.New("connection reset"))

	_, err := s.Stats.Overview(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NoError(t, mock.ExpectationsWereMet())
}
