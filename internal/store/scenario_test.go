package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenario_PhoneScreenQuote(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	phone, err := s.DeviceTypes.Create(ctx, "Phone")
	require.NoError(t, err)
	acme, err := s.Brands.Create(ctx, "Acme")
	require.NoError(t, err)
	x1, err := s.Models.Create(ctx, ModelInput{Name: "X1", DeviceTypeID: phone.ID, BrandID: acme.ID})
	require.NoError(t, err)
	screen, err := s.Repairs.Create(ctx, "Screen")
	require.NoError(t, err)

	priced, err := s.PriceList.Upsert(ctx, PriceInput{ModelID: x1, RepairID: screen.ID, Price: ptr(50.0)})
	require.NoError(t, err)
	assert.True(t, priced.Created)

	id, err := s.Quotes.Create(ctx, QuoteInput{
		ModelID:       x1,
		RepairIDs:     []int64{screen.ID},
		Price:         50,
		City:          "Rome",
		CustomerName:  "A",
		CustomerEmail: "a@x.com",
		Status:        "NEW",
	})
	require.NoError(t, err)
	assert.NotZero(t, id)

	view, err := s.Quotes.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "X1", view.Model)
	assert.Equal(t, "Screen", view.Repair)
	assert.Equal(t, 50.0, view.Price)

	overview, err := s.Stats.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), overview.Total)
	assert.Equal(t, int64(1), overview.NewCount)
	assert.Equal(t, 50.0, overview.TotalAmount)
}
