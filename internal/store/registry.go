package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"fixpoint-backend/internal/model"
)

// CreateResult reports what Create did with a name.
type CreateResult struct {
	ID          int64 `json:"id"`
	Reactivated bool  `json:"reactivated"`
}

// DeleteOutcome tells a hard delete apart from a soft disable.
type DeleteOutcome string

const (
	DeleteRemoved  DeleteOutcome = "removed"
	DeleteDisabled DeleteOutcome = "disabled"
)

// DeleteResult reports what Delete did with a catalog entry.
type DeleteResult struct {
	Outcome  DeleteOutcome `json:"outcome"`
	Disabled bool          `json:"disabled"`
}

type entryPointer[T any] interface {
	*T
	Entry() *model.CatalogEntry
}

// reference is a column of another table that points at a catalog entry.
type reference struct {
	model  any
	column string
}

// Registry is the catalog implementation shared by every named entity kind.
type Registry[T any, PT entryPointer[T]] struct {
	db   *gorm.DB
	kind string
	refs []reference
}

func newRegistry[T any, PT entryPointer[T]](db *gorm.DB, kind string, refs ...reference) *Registry[T, PT] {
	return &Registry[T, PT]{db: db, kind: kind, refs: refs}
}

// List returns active and disabled entries ordered by name.
func (r *Registry[T, PT]) List(ctx context.Context) ([]T, error) {
	rows := []T{}
	if err := r.db.WithContext(ctx).Order("name").Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new active entry. A case-insensitive match on a disabled
// entry reactivates it instead; a match on an active one is a conflict.
func (r *Registry[T, PT]) Create(ctx context.Context, name string) (CreateResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CreateResult{}, fmt.Errorf("%w: %s name is required", ErrValidation, r.kind)
	}

	var res CreateResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing T
		err := tx.Where("LOWER(name) = LOWER(?)", name).Take(&existing).Error
		switch {
		case err == nil:
			entry := PT(&existing).Entry()
			if entry.State() == model.LifecycleActive {
				return fmt.Errorf("%w: %s %q already exists", ErrConflict, r.kind, entry.Name)
			}
			if err := r.setActive(tx, entry.ID, true); err != nil {
				return err
			}
			res = CreateResult{ID: entry.ID, Reactivated: true}
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		var row T
		entry := PT(&row).Entry()
		entry.Name = name
		entry.Active = true
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to create %s: %w", r.kind, err)
		}
		res = CreateResult{ID: entry.ID}
		return nil
	})
	if err != nil {
		return CreateResult{}, err
	}
	return res, nil
}

// Rename overwrites the name of an entry.
func (r *Registry[T, PT]) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: %s name is required", ErrValidation, r.kind)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(PT(new(T))).Where("id = ?", id).Update("name", name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %d", ErrNotFound, r.kind, id)
		}
		return nil
	})
}

// Delete removes an entry nothing refers to. A referenced entry is disabled
// instead and stays in place.
func (r *Registry[T, PT]) Delete(ctx context.Context, id int64) (DeleteResult, error) {
	var res DeleteResult
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var total int64
		for _, ref := range r.refs {
			var n int64
			if err := tx.Model(ref.model).Where(ref.column+" = ?", id).Count(&n).Error; err != nil {
				return fmt.Errorf("failed to count references to %s %d: %w", r.kind, id, err)
			}
			total += n
		}

		if total > 0 {
			if err := r.setActive(tx, id, false); err != nil {
				return err
			}
			res = DeleteResult{Outcome: DeleteDisabled, Disabled: true}
			return nil
		}

		result := tx.Delete(PT(new(T)), id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: %s %d", ErrNotFound, r.kind, id)
		}
		res = DeleteResult{Outcome: DeleteRemoved}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return res, nil
}

// Reactivate moves a disabled entry back to active. Reactivating an active
// entry is a no-op.
func (r *Registry[T, PT]) Reactivate(ctx context.Context, id int64) error {
	return r.setActive(r.db.WithContext(ctx), id, true)
}

func (r *Registry[T, PT]) setActive(tx *gorm.DB, id int64, active bool) error {
	result := tx.Model(PT(new(T))).Where("id = ?", id).Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %d", ErrNotFound, r.kind, id)
	}
	log.Debug().Str("kind", r.kind).Int64("id", id).Bool("active", active).Msg("catalog entry state changed")
	return nil
}
