package repository

import (
	"context"

	"serendip/backend/internal/models"

	"gorm.io/gorm"
)

func (r *Repository) ReplaceMatches(ctx context.Context, opportunityID string, matches []models.Match) error {
	// Delete and insert in one transaction so readers see either the old
	// complete set or the new one, never overlapping ranks.
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("opportunity_id = ?", opportunityID).
			Delete(&models.Match{}).Error; err != nil {
			return err
		}
		if len(matches) == 0 {
			return nil
		}
		return tx.Create(&matches).Error
	})
}

func (r *Repository) MatchesByOpportunity(ctx context.Context, opportunityID string) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ?", opportunityID).
		Order("rank").
		Find(&matches).Error
	return matches, err
}
