package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fixpoint-backend/internal/model"
)

// PriceInput is the price of one repair on one model. Price is a pointer so
// that a missing price can be told apart from a free repair.
type PriceInput struct {
	ModelID  int64    `json:"model_id"`
	RepairID int64    `json:"repair_id"`
	Price    *float64 `json:"price"`
}

// UpsertResult reports whether Upsert inserted or updated the entry.
type UpsertResult struct {
	ID      int64 `json:"id"`
	Created bool  `json:"created"`
	Updated bool  `json:"updated"`
}

type priceList struct {
	db *gorm.DB
}

// List returns the priced repairs of a model ordered by repair name. A
// missing model filter yields an empty list.
func (p *priceList) List(ctx context.Context, modelID int64) ([]model.PriceListItem, error) {
	items := []model.PriceListItem{}
	if modelID <= 0 {
		return items, nil
	}
	err := p.db.WithContext(ctx).
		Table("model_repairs AS mr").
		Select("mr.id, mr.model_id, mr.repair_id, r.name AS repair, mr.price").
		Joins("JOIN repairs r ON r.id = mr.repair_id").
		Where("mr.model_id = ?", modelID).
		Order("r.name").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert sets the price of a repair on a model, inserting the entry when the
// pair is not priced yet.
func (p *priceList) Upsert(ctx context.Context, in PriceInput) (UpsertResult, error) {
	if in.ModelID <= 0 || in.RepairID <= 0 || in.Price == nil {
		return UpsertResult{}, fmt.Errorf("%w: model_id, repair_id and price are required", ErrValidation)
	}
	if *in.Price < 0 {
		return UpsertResult{}, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	var res UpsertResult
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &model.DeviceModel{}, in.ModelID, "model"); err != nil {
			return err
		}
		if err := requireExists(tx, &model.Repair{}, in.RepairID, "repair"); err != nil {
			return err
		}

		var existing model.PriceListEntry
		err := tx.Where("model_id = ? AND repair_id = ?", in.ModelID, in.RepairID).Take(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		entry := model.PriceListEntry{ModelID: in.ModelID, RepairID: in.RepairID, Price: *in.Price}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "model_id"}, {Name: "repair_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price"}),
		}).Create(&entry).Error; err != nil {
			return fmt.Errorf("upsert price list entry failed: %w", err)
		}

		if found {
			res = UpsertResult{ID: existing.ID, Updated: true}
		} else {
			res = UpsertResult{ID: entry.ID, Created: true}
		}
		return nil
	})
	if err != nil {
		return UpsertResult{}, err
	}
	return res, nil
}

// Delete removes one price-list entry by id.
func (p *priceList) Delete(ctx context.Context, id int64) error {
	result := p.db.WithContext(ctx).Delete(&model.PriceListEntry{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: price list entry %d", ErrNotFound, id)
	}
	return nil
}
