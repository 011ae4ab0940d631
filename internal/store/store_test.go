package store

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fixpoint-backend/config"
	"fixpoint-backend/internal/db"
)

// newMockDB creates a GORM handle backed by sqlmock.
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: sqlDB,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

// newTestStore opens a private in-memory SQLite database with the full schema.
func newTestStore(t *testing.T, opts ...Option) *Store {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := db.Init(&config.DatabaseConfig{
		DSN:               fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
		BusyTimeoutMillis: 1000,
		MaxOpenConns:      1,
		LogLevel:          "silent",
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	return NewGormStore(gormDB, opts...)
}

// catalogFixture is a priced model with everything it depends on.
type catalogFixture struct {
	DeviceTypeID int64
	BrandID      int64
	ModelID      int64
	RepairIDs    []int64
}

func seedCatalog(t *testing.T, s *Store, repairs ...string) catalogFixture {
	t.Helper()
	ctx := context.Background()

	dt, err := s.DeviceTypes.Create(ctx, "Phone")
	require.NoError(t, err)
	brand, err := s.Brands.Create(ctx, "Acme")
	require.NoError(t, err)
	modelID, err := s.Models.Create(ctx, ModelInput{Name: "X1", DeviceTypeID: dt.ID, BrandID: brand.ID})
	require.NoError(t, err)

	fx := catalogFixture{DeviceTypeID: dt.ID, BrandID: brand.ID, ModelID: modelID}
	for _, name := range repairs {
		r, err := s.Repairs.Create(ctx, name)
		require.NoError(t, err)
		fx.RepairIDs = append(fx.RepairIDs, r.ID)
	}
	return fx
}

func seedFixpoint(t *testing.T, s *Store, name, city string) int64 {
	t.Helper()
	id, err := s.Fixpoints.Create(context.Background(), FixpointInput{Name: name, City: city})
	require.NoError(t, err)
	return id
}

func countRows(t *testing.T, s *Store, row any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Model(row).Where(query, args...).Count(&n).Error)
	return n
}

func ptr[T any](v T) *T { return &v }
