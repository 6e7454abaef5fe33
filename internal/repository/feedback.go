package repository

import (
	"context"
	"errors"
	"fmt"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"

	"gorm.io/gorm"
)

func (r *Repository) InsertFeedback(ctx context.Context, fb *models.Feedback) error {
	err := r.db.WithContext(ctx).Create(fb).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: feedback for this interaction was already submitted",
			service.ErrNotEligible)
	}
	return err
}

func (r *Repository) FeedbackFor(ctx context.Context, toUserID string) ([]models.Feedback, error) {
	var entries []models.Feedback
	err := r.db.WithContext(ctx).
		Where("to_user_id = ?", toUserID).
		Order("created_at DESC, id").
		Find(&entries).Error
	return entries, err
}

func (r *Repository) FeedbackExists(ctx context.Context, interactionID, toUserID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("interaction_id = ? AND to_user_id = ?", interactionID, toUserID).
		Count(&count).Error
	return count > 0, err
}
