package repository

import (
	"context"
	"errors"

	"serendip/backend/internal/models"

	"gorm.io/gorm"
)

func (r *Repository) CreateOpportunity(ctx context.Context, opp *models.Opportunity) error {
	return r.db.WithContext(ctx).Create(opp).Error
}

func (r *Repository) OpportunityByID(ctx context.Context, id string) (*models.Opportunity, error) {
	var opp models.Opportunity
	err := r.db.WithContext(ctx).First(&opp, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &opp, nil
}

func (r *Repository) ListOpportunities(ctx context.Context) ([]models.Opportunity, error) {
	var opps []models.Opportunity
	err := r.db.WithContext(ctx).Order("created_at DESC, id").Find(&opps).Error
	return opps, err
}
