package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixpoint-backend/internal/model"
)

func TestPriceList_UpsertKeepsOneRowPerPair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fx := seedCatalog(t, s, "Screen")

	first, err := s.PriceList.Upsert(ctx, PriceInput{ModelID: fx.ModelID, RepairID: fx.RepairIDs[0], Price: ptr(50.0)})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.False(t, first.Updated)

	second, err := s.PriceList.Upsert(ctx, PriceInput{ModelID: fx.ModelID, RepairID: fx.RepairIDs[0], Price: ptr(65.5)})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.True(t, second.Updated)
	assert.Equal(t, first.ID, second.ID)

	assert.Equal(t, int64(1), countRows(t, s, &model.PriceListEntry{}, "model_id = ? AND repair_id = ?", fx.ModelID, fx.RepairIDs[0]))

	items, err := s.PriceList.List(ctx, fx.ModelID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 65.5, items[0].Price)
	assert.Equal(t, "Screen", items[0].Repair)
}

func TestPriceList_UpsertValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fx := seedCatalog(t, s, "Screen")
	repairID := fx.RepairIDs[0]

	testCases := []struct {
		name  string
		input PriceInput
	}{
		{"missing model", PriceInput{RepairID: repairID, Price: ptr(1.0)}},
		{"missing repair", PriceInput{ModelID: fx.ModelID, Price: ptr(1.0)}},
		{"missing price", PriceInput{ModelID: fx.ModelID, RepairID: repairID}},
		{"negative price", PriceInput{ModelID: fx.ModelID, RepairID: repairID, Price: ptr(-1.0)}},
		{"unknown model", PriceInput{ModelID: 999, RepairID: repairID, Price: ptr(1.0)}},
		{"unknown repair", PriceInput{ModelID: fx.ModelID, RepairID: 999, Price: ptr(1.0)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.PriceList.Upsert(ctx, tc.input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	res, err := s.PriceList.Upsert(ctx, PriceInput{ModelID: fx.ModelID, RepairID: repairID, Price: ptr(0.0)})
	require.NoError(t, err)
	assert.True(t, res.Created)
}

func TestPriceList_ListOrdersByRepairName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fx := seedCatalog(t, s, "Screen", "Battery")

	for i, repairID := range fx.RepairIDs {
		_, err := s.PriceList.Upsert(ctx, PriceInput{ModelID: fx.ModelID, RepairID: repairID, Price: ptr(float64(10 * (i + 1)))})
		require.NoError(t, err)
	}

	items, err := s.PriceList.List(ctx, fx.ModelID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Battery", items[0].Repair)
	assert.Equal(t, 20.0, items[0].Price)
	assert.Equal(t, "Screen", items[1].Repair)

	empty, err := s.PriceList.List(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestPriceList_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	fx := seedCatalog(t, s, "Screen")

	res, err := s.PriceList.Upsert(ctx, PriceInput{ModelID: fx.ModelID, RepairID: fx.RepairIDs[0], Price: ptr(50.0)})
	require.NoError(t, err)

	require.NoError(t, s.PriceList.Delete(ctx, res.ID))
	assert.ErrorIs(t, s.PriceList.Delete(ctx, res.ID), ErrNotFound)

	// Once unpriced the model can be deleted.
	require.NoError(t, s.Models.Delete(ctx, fx.ModelID))
}

func TestPriceList_UniqueIndexRejectsDuplicatePair(t *testing.T) {
	s := newTestStore(t)
	fx := seedCatalog(t, s, "Screen")

	require.NoError(t, s.DB().Create(&model.PriceListEntry{ModelID: fx.ModelID, RepairID: fx.RepairIDs[0], Price: 50}).Error)
	err := s.DB().Create(&model.PriceListEntry{ModelID: fx.ModelID, RepairID: fx.RepairIDs[0], Price: 60}).Error
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UNIQUE constraint failed")

	assert.Equal(t, int64(1), countRows(t, s, &model.PriceListEntry{}, "model_id = ? AND repair_id = ?", fx.ModelID, fx.RepairIDs[0]))
}
