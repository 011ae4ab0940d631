package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fixpoint-backend/internal/model"
)

// ModelInput holds the fields of a new device model.
type ModelInput struct {
	Name         string `json:"name"`
	DeviceTypeID int64  `json:"device_type_id"`
	BrandID      int64  `json:"brand_id"`
}

type modelCatalog struct {
	db *gorm.DB
}

// List returns the models of one device type and brand. Both filters are
// required; a missing one yields an empty list.
func (m *modelCatalog) List(ctx context.Context, deviceTypeID, brandID int64) ([]model.DeviceModel, error) {
	models := []model.DeviceModel{}
	if deviceTypeID <= 0 || brandID <= 0 {
		return models, nil
	}
	err := m.db.WithContext(ctx).
		Where("device_type_id = ? AND brand_id = ?", deviceTypeID, brandID).
		Order("name").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return models, nil
}

// Create adds a model. The name must be unique within its device type and
// brand, ignoring case.
func (m *modelCatalog) Create(ctx context.Context, in ModelInput) (int64, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" || in.DeviceTypeID <= 0 || in.BrandID <= 0 {
		return 0, fmt.Errorf("%w: name, device_type_id and brand_id are required", ErrValidation)
	}

	row := model.DeviceModel{Name: in.Name, DeviceTypeID: in.DeviceTypeID, BrandID: in.BrandID}
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &model.DeviceType{}, in.DeviceTypeID, "device type"); err != nil {
			return err
		}
		if err := requireExists(tx, &model.Brand{}, in.BrandID, "brand"); err != nil {
			return err
		}

		var dup int64
		err := tx.Model(&model.DeviceModel{}).
			Where("LOWER(name) = LOWER(?) AND device_type_id = ? AND brand_id = ?", in.Name, in.DeviceTypeID, in.BrandID).
			Count(&dup).Error
		if err != nil {
			return err
		}
		if dup > 0 {
			return fmt.Errorf("%w: model %q already exists", ErrConflict, in.Name)
		}

		return tx.Create(&row).Error
	})
	if err != nil {
		return 0, err
	}
	return row.ID, nil
}

// Rename trims and stores a new model name.
func (m *modelCatalog) Rename(ctx context.Context, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: model name is required", ErrValidation)
	}

	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.DeviceModel{}).Where("id = ?", id).Update("name", name)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: model %d", ErrNotFound, id)
		}
		return nil
	})
}

// Delete removes a model. Models have no disabled state, so a model that is
// priced or quoted cannot be deleted at all.
func (m *modelCatalog) Delete(ctx context.Context, id int64) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var priced, quoted int64
		if err := tx.Model(&model.PriceListEntry{}).Where("model_id = ?", id).Count(&priced).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Quote{}).Where("model_id = ?", id).Count(&quoted).Error; err != nil {
			return err
		}
		if priced > 0 || quoted > 0 {
			return fmt.Errorf("%w: model %d is used by %d price list entries and %d quotes", ErrConflict, id, priced, quoted)
		}

		result := tx.Delete(&model.DeviceModel{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("%w: model %d", ErrNotFound, id)
		}
		return nil
	})
}

// requireExists fails with a validation error when the referenced row is
// missing.
func requireExists(tx *gorm.DB, row any, id int64, what string) error {
	var n int64
	if err := tx.Model(row).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %d does not exist", ErrValidation, what, id)
	}
	return nil
}
