package store

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fixpoint-backend/internal/model"
)

type subscriptionStore struct {
	db *gorm.DB
}

// Put creates a subscription or replaces the keys and owner of an existing
// endpoint.
func (s *subscriptionStore) Put(ctx context.Context, sub model.PushSubscription) error {
	sub.Endpoint = strings.TrimSpace(sub.Endpoint)
	if sub.Endpoint == "" || sub.P256DH == "" || sub.Auth == "" {
		return fmt.Errorf("%w: endpoint, p256dh and auth are required", ErrValidation)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.Fixpoint{}).Where("id = ?", sub.FixpointID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: fixpoint %d", ErrNotFound, sub.FixpointID)
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{"p256dh", "auth", "fixpoint_id"}),
		}).Create(&sub).Error
	})
}

// Delete removes an endpoint registered to fixpointID. An endpoint owned by
// another fixpoint is not found.
func (s *subscriptionStore) Delete(ctx context.Context, fixpointID int64, endpoint string) error {
	result := s.db.WithContext(ctx).
		Where("fixpoint_id = ? AND endpoint = ?", fixpointID, endpoint).
		Delete(&model.PushSubscription{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: subscription %q", ErrNotFound, endpoint)
	}
	return nil
}

// ListForFixpoint returns the subscriptions registered to a fixpoint.
func (s *subscriptionStore) ListForFixpoint(ctx context.Context, fixpointID int64) ([]model.PushSubscription, error) {
	subs := []model.PushSubscription{}
	if err := s.db.WithContext(ctx).Where("fixpoint_id = ?", fixpointID).Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}
