package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"fixpoint-backend/internal/model"
)

// QuoteInput holds the fields of a new quote. An empty Status means NEW.
type QuoteInput struct {
	ModelID       int64   `json:"model_id"`
	RepairIDs     []int64 `json:"repair_ids"`
	FixpointID    *int64  `json:"fixpoint_id"`
	Price         float64 `json:"price"`
	City          string  `json:"city"`
	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email"`
	Status        string  `json:"status"`
}

type quoteEngine struct {
	db     *gorm.DB
	strict bool
}

// quoteLineRow is a repair line joined with the repair name.
type quoteLineRow struct {
	QuoteID  int64
	RepairID int64
	Name     string
}

// Create stores a quote and one line per distinct repair in a single
// transaction.
func (q *quoteEngine) Create(ctx context.Context, in QuoteInput) (int64, error) {
	if in.ModelID <= 0 {
		return 0, fmt.Errorf("%w: model_id is required", ErrValidation)
	}
	repairIDs, err := uniqueIDs(in.RepairIDs)
	if err != nil {
		return 0, err
	}
	if in.Price < 0 {
		return 0, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	status := model.QuoteStatusNew
	if strings.TrimSpace(in.Status) != "" {
		if status, err = model.ParseQuoteStatus(in.Status); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	quote := model.Quote{
		ModelID:       in.ModelID,
		FixpointID:    in.FixpointID,
		Price:         in.Price,
		City:          strings.TrimSpace(in.City),
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerEmail: strings.TrimSpace(in.CustomerEmail),
		Status:        status,
	}

	err = q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &model.DeviceModel{}, in.ModelID, "model"); err != nil {
			return err
		}
		var found int64
		if err := tx.Model(&model.Repair{}).Where("id IN ?", repairIDs).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(repairIDs)) {
			return fmt.Errorf("%w: unknown repair in %v", ErrValidation, repairIDs)
		}
		if in.FixpointID != nil {
			if err := requireExists(tx, &model.Fixpoint{}, *in.FixpointID, "fixpoint"); err != nil {
				return err
			}
		}

		if err := tx.Create(&quote).Error; err != nil {
			return fmt.Errorf("failed to create quote: %w", err)
		}

		lines := make([]model.QuoteRepairLine, len(repairIDs))
		for i, repairID := range repairIDs {
			lines[i] = model.QuoteRepairLine{QuoteID: quote.ID, RepairID: repairID, Position: i}
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to create quote lines: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return quote.ID, nil
}

// List returns every quote, newest first.
func (q *quoteEngine) List(ctx context.Context) ([]model.QuoteView, error) {
	var quotes []model.Quote
	if err := q.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&quotes).Error; err != nil {
		return nil, err
	}
	return q.views(ctx, quotes)
}

// ListForFixpoint returns the quotes assigned to a fixpoint, newest first. A
// missing fixpoint filter yields an empty list.
func (q *quoteEngine) ListForFixpoint(ctx context.Context, fixpointID int64) ([]model.QuoteView, error) {
	if fixpointID <= 0 {
		return []model.QuoteView{}, nil
	}
	var quotes []model.Quote
	err := q.db.WithContext(ctx).
		Where("fixpoint_id = ?", fixpointID).
		Order("created_at DESC").Order("id DESC").
		Find(&quotes).Error
	if err != nil {
		return nil, err
	}
	return q.views(ctx, quotes)
}

// Get returns one quote with its fixpoint's document header.
func (q *quoteEngine) Get(ctx context.Context, id int64) (model.QuoteView, error) {
	var quote model.Quote
	if err := q.db.WithContext(ctx).Where("id = ?", id).Take(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.QuoteView{}, fmt.Errorf("%w: quote %d", ErrNotFound, id)
		}
		return model.QuoteView{}, err
	}

	views, err := q.views(ctx, []model.Quote{quote})
	if err != nil {
		return model.QuoteView{}, err
	}
	view := views[0]

	if quote.FixpointID != nil {
		var summary model.FixpointSummary
		result := q.db.WithContext(ctx).
			Model(&model.Fixpoint{}).
			Where("id = ?", *quote.FixpointID).
			Limit(1).
			Find(&summary)
		if result.Error != nil {
			return model.QuoteView{}, result.Error
		}
		if result.RowsAffected > 0 {
			view.Fixpoint = &summary
		}
	}
	return view, nil
}

// AssignFixpoint hands a quote to a fixpoint and marks it ASSIGNED.
func (q *quoteEngine) AssignFixpoint(ctx context.Context, id, fixpointID int64) error {
	if fixpointID <= 0 {
		return fmt.Errorf("%w: fixpoint_id is required", ErrValidation)
	}
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := q.currentStatus(tx, id)
		if err != nil {
			return err
		}
		if err := requireExists(tx, &model.Fixpoint{}, fixpointID, "fixpoint"); err != nil {
			return err
		}
		if err := q.checkTransition(id, current, model.QuoteStatusAssigned); err != nil {
			return err
		}
		return tx.Model(&model.Quote{}).Where("id = ?", id).Updates(map[string]any{
			"fixpoint_id": fixpointID,
			"status":      model.QuoteStatusAssigned,
		}).Error
	})
}

// SetStatus parses raw and applies it when the transition is allowed.
func (q *quoteEngine) SetStatus(ctx context.Context, id int64, raw string) error {
	next, err := model.ParseQuoteStatus(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return q.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := q.currentStatus(tx, id)
		if err != nil {
			return err
		}
		if err := q.checkTransition(id, current, next); err != nil {
			return err
		}
		return tx.Model(&model.Quote{}).Where("id = ?", id).Update("status", next).Error
	})
}

// currentStatus reads the status of a quote inside tx.
func (q *quoteEngine) currentStatus(tx *gorm.DB, id int64) (model.QuoteStatus, error) {
	var quote model.Quote
	if err := tx.Select("id", "status").Where("id = ?", id).Take(&quote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: quote %d", ErrNotFound, id)
		}
		return "", err
	}
	return quote.Status, nil
}

func (q *quoteEngine) checkTransition(id int64, from, to model.QuoteStatus) error {
	if !from.CanTransitionTo(to, q.strict) {
		return fmt.Errorf("%w: quote %d cannot move from %s to %s", ErrConflict, id, from, to)
	}
	return nil
}

// views joins quotes with their model name and ordered repair names.
func (q *quoteEngine) views(ctx context.Context, quotes []model.Quote) ([]model.QuoteView, error) {
	views := make([]model.QuoteView, 0, len(quotes))
	if len(quotes) == 0 {
		return views, nil
	}

	quoteIDs := make([]int64, 0, len(quotes))
	modelIDs := make([]int64, 0, len(quotes))
	for _, quote := range quotes {
		quoteIDs = append(quoteIDs, quote.ID)
		modelIDs = append(modelIDs, quote.ModelID)
	}

	var models []model.DeviceModel
	if err := q.db.WithContext(ctx).Where("id IN ?", modelIDs).Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to load quote models: %w", err)
	}
	modelNames := make(map[int64]string, len(models))
	for _, m := range models {
		modelNames[m.ID] = m.Name
	}

	var lines []quoteLineRow
	err := q.db.WithContext(ctx).
		Table("quote_repairs AS qr").
		Select("qr.quote_id, qr.repair_id, r.name").
		Joins("JOIN repairs r ON r.id = qr.repair_id").
		Where("qr.quote_id IN ?", quoteIDs).
		Order("qr.quote_id").Order("qr.position").
		Scan(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load quote lines: %w", err)
	}
	linesByQuote := make(map[int64][]quoteLineRow, len(quotes))
	for _, line := range lines {
		linesByQuote[line.QuoteID] = append(linesByQuote[line.QuoteID], line)
	}

	for _, quote := range quotes {
		view := model.QuoteView{
			ID:            quote.ID,
			ModelID:       quote.ModelID,
			Model:         modelNames[quote.ModelID],
			FixpointID:    quote.FixpointID,
			Price:         quote.Price,
			City:          quote.City,
			CustomerName:  quote.CustomerName,
			CustomerEmail: quote.CustomerEmail,
			Status:        quote.Status,
			CreatedAt:     quote.CreatedAt,
			RepairIDs:     []int64{},
			Repairs:       []string{},
		}
		for _, line := range linesByQuote[quote.ID] {
			view.RepairIDs = append(view.RepairIDs, line.RepairID)
			view.Repairs = append(view.Repairs, line.Name)
		}
		view.Repair = strings.Join(view.Repairs, ", ")
		views = append(views, view)
	}
	return views, nil
}

// uniqueIDs drops repeated ids and keeps the first-seen order.
func uniqueIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: repair_ids must not be empty", ErrValidation)
	}
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: invalid repair id %d", ErrValidation, id)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
