package store

import (
	"context"

	"gorm.io/gorm"

	"fixpoint-backend/internal/model"
)

type statsAggregator struct {
	db *gorm.DB
}

// Overview counts quotes per conventional status and sums their prices. Every
// field is zero, never null, on an empty table. Statuses outside the three
// buckets only count toward the total.
func (s *statsAggregator) Overview(ctx context.Context) (model.StatsOverview, error) {
	var out model.StatsOverview
	err := s.db.WithContext(ctx).
		Model(&model.Quote{}).
		Select(`COUNT(*) AS total,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS new_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS assigned_count,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS done_count,
			COALESCE(SUM(price), 0) AS total_amount`,
			model.QuoteStatusNew, model.QuoteStatusAssigned, model.QuoteStatusDone).
		Scan(&out).Error
	if err != nil {
		return model.StatsOverview{}, err
	}
	return out, nil
}
