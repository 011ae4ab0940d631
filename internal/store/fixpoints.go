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

// FixpointInput holds the editable fields of a fixpoint. Name and City are
// required; the rest default to empty.
type FixpointInput struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (in *FixpointInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Address = strings.TrimSpace(in.Address)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.City == "" {
		return fmt.Errorf("%w: name and city are required", ErrValidation)
	}
	return nil
}

// FixpointDeleteResult counts the rows removed along with a fixpoint.
type FixpointDeleteResult struct {
	Quotes        int64 `json:"quotes"`
	Users         int64 `json:"users"`
	Subscriptions int64 `json:"subscriptions"`
}

type fixpointRegistry struct {
	db *gorm.DB
}

// List returns all fixpoints ordered by city, then name.
func (f *fixpointRegistry) List(ctx context.Context) ([]model.Fixpoint, error) {
	fixpoints := []model.Fixpoint{}
	if err := f.db.WithContext(ctx).Order("city").Order("name").Find(&fixpoints).Error; err != nil {
		return nil, err
	}
	return fixpoints, nil
}

// Get returns one fixpoint or ErrNotFound.
func (f *fixpointRegistry) Get(ctx context.Context, id int64) (model.Fixpoint, error) {
	var fp model.Fixpoint
	if err := f.db.WithContext(ctx).Where("id = ?", id).Take(&fp).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Fixpoint{}, fmt.Errorf("%w: fixpoint %d", ErrNotFound, id)
		}
		return model.Fixpoint{}, err
	}
	return fp, nil
}

// Create stores a fixpoint after trimming its fields.
func (f *fixpointRegistry) Create(ctx context.Context, in FixpointInput) (int64, error) {
	if err := in.normalize(); err != nil {
		return 0, err
	}
	fp := model.Fixpoint{
		Name:    in.Name,
		City:    in.City,
		Address: in.Address,
		Phone:   in.Phone,
		Email:   in.Email,
		Active:  true,
	}
	if err := f.db.WithContext(ctx).Create(&fp).Error; err != nil {
		return 0, fmt.Errorf("failed to create fixpoint: %w", err)
	}
	return fp.ID, nil
}

// Update overwrites every field of a fixpoint, empty optional ones included.
func (f *fixpointRegistry) Update(ctx context.Context, id int64, in FixpointInput) error {
	if err := in.normalize(); err != nil {
		return err
	}
	result := f.db.WithContext(ctx).Model(&model.Fixpoint{}).Where("id = ?", id).Updates(map[string]any{
		"name":    in.Name,
		"city":    in.City,
		"address": in.Address,
		"phone":   in.Phone,
		"email":   in.Email,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: fixpoint %d", ErrNotFound, id)
	}
	return nil
}

// Delete removes a fixpoint together with its quotes, their repair lines,
// its push subscriptions and its user accounts. Nothing is removed unless
// everything is.
func (f *fixpointRegistry) Delete(ctx context.Context, id int64) (FixpointDeleteResult, error) {
	var res FixpointDeleteResult
	err := f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var quoteIDs []int64
		if err := tx.Model(&model.Quote{}).Where("fixpoint_id = ?", id).Pluck("id", &quoteIDs).Error; err != nil {
			return fmt.Errorf("failed to list quotes of fixpoint %d: %w", id, err)
		}

		if len(quoteIDs) > 0 {
			if err := tx.Where("quote_id IN ?", quoteIDs).Delete(&model.QuoteRepairLine{}).Error; err != nil {
				return fmt.Errorf("failed to delete quote lines of fixpoint %d: %w", id, err)
			}
			result := tx.Where("id IN ?", quoteIDs).Delete(&model.Quote{})
			if result.Error != nil {
				return fmt.Errorf("failed to delete quotes of fixpoint %d: %w", id, result.Error)
			}
			res.Quotes = result.RowsAffected
		}

		result := tx.Where("fixpoint_id = ?", id).Delete(&model.PushSubscription{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete subscriptions of fixpoint %d: %w", id, result.Error)
		}
		res.Subscriptions = result.RowsAffected

		result = tx.Where("fixpoint_id = ?", id).Delete(&model.User{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete users of fixpoint %d: %w", id, result.Error)
		}
		res.Users = result.RowsAffected

		result = tx.Delete(&model.Fixpoint{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: fixpoint %d", ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return FixpointDeleteResult{}, err
	}
	log.Debug().
		Int64("fixpoint_id", id).
		Int64("quotes", res.Quotes).
		Int64("users", res.Users).
		Int64("subscriptions", res.Subscriptions).
		Msg("fixpoint removed")
	return res, nil
}
