package store

import (
	"context"

	"gorm.io/gorm"

	"fixpoint-backend/internal/model"
)

// Catalog is a soft-deletable named registry (device types, brands, repairs).
type Catalog[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, name string) (CreateResult, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) (DeleteResult, error)
	Reactivate(ctx context.Context, id int64) error
}

// ModelCatalog manages device models.
type ModelCatalog interface {
	List(ctx context.Context, deviceTypeID, brandID int64) ([]model.DeviceModel, error)
	Create(ctx context.Context, in ModelInput) (int64, error)
	Rename(ctx context.Context, id int64, name string) error
	Delete(ctx context.Context, id int64) error
}

// PriceList manages per-model repair prices.
type PriceList interface {
	List(ctx context.Context, modelID int64) ([]model.PriceListItem, error)
	Upsert(ctx context.Context, in PriceInput) (UpsertResult, error)
	Delete(ctx context.Context, id int64) error
}

// FixpointRegistry manages repair-shop locations.
type FixpointRegistry interface {
	List(ctx context.Context) ([]model.Fixpoint, error)
	Get(ctx context.Context, id int64) (model.Fixpoint, error)
	Create(ctx context.Context, in FixpointInput) (int64, error)
	Update(ctx context.Context, id int64, in FixpointInput) error
	Delete(ctx context.Context, id int64) (FixpointDeleteResult, error)
}

// QuoteEngine creates quotes and drives their status.
type QuoteEngine interface {
	Create(ctx context.Context, in QuoteInput) (int64, error)
	List(ctx context.Context) ([]model.QuoteView, error)
	Get(ctx context.Context, id int64) (model.QuoteView, error)
	AssignFixpoint(ctx context.Context, id, fixpointID int64) error
	SetStatus(ctx context.Context, id int64, status string) error
	ListForFixpoint(ctx context.Context, fixpointID int64) ([]model.QuoteView, error)
}

// StatsAggregator rolls quotes up for reporting.
type StatsAggregator interface {
	Overview(ctx context.Context) (model.StatsOverview, error)
}

// UserRegistry manages fixpoint accounts.
type UserRegistry interface {
	Create(ctx context.Context, in UserInput) (int64, error)
	ListForFixpoint(ctx context.Context, fixpointID int64) ([]model.User, error)
}

// SubscriptionStore manages the push subscriptions of fixpoints.
type SubscriptionStore interface {
	Put(ctx context.Context, sub model.PushSubscription) error
	Delete(ctx context.Context, fixpointID int64, endpoint string) error
	ListForFixpoint(ctx context.Context, fixpointID int64) ([]model.PushSubscription, error)
}

// Store groups one repository per component. All of them share the same
// database handle.
type Store struct {
	DeviceTypes   Catalog[model.DeviceType]
	Brands        Catalog[model.Brand]
	Repairs       Catalog[model.Repair]
	Models        ModelCatalog
	PriceList     PriceList
	Fixpoints     FixpointRegistry
	Quotes        QuoteEngine
	Stats         StatsAggregator
	Users         UserRegistry
	Subscriptions SubscriptionStore

	db *gorm.DB
}

type options struct {
	strictTransitions bool
}

// Option configures NewGormStore.
type Option func(*options)

// WithStrictTransitions makes the quote engine reject status changes out of
// DONE or CANCELLED, and back to NEW.
func WithStrictTransitions(strict bool) Option {
	return func(o *options) {
		o.strictTransitions = strict
	}
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB, opts ...Option) *Store {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Store{
		DeviceTypes: newRegistry[model.DeviceType](db, "device type",
			reference{&model.DeviceModel{}, "device_type_id"}),
		Brands: newRegistry[model.Brand](db, "brand",
			reference{&model.DeviceModel{}, "brand_id"}),
		Repairs: newRegistry[model.Repair](db, "repair",
			reference{&model.PriceListEntry{}, "repair_id"},
			reference{&model.QuoteRepairLine{}, "repair_id"}),
		Models:        &modelCatalog{db: db},
		PriceList:     &priceList{db: db},
		Fixpoints:     &fixpointRegistry{db: db},
		Quotes:        &quoteEngine{db: db, strict: o.strictTransitions},
		Stats:         &statsAggregator{db: db},
		Users:         &userRegistry{db: db},
		Subscriptions: &subscriptionStore{db: db},
		db:            db,
	}
}

// DB returns the underlying database handle.
func (s *Store) DB() *gorm.DB {
	return s.db
}
