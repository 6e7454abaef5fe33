package repository

import (
	"context"
	"errors"
	"fmt"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"

	"gorm.io/gorm"
)

func (r *Repository) InsertRequest(ctx context.Context, req *models.ConnectionRequest) error {
	err := r.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// The unique index on pending_key is the atomic check-and-insert:
		// two racing creates for one triple cannot both land.
		return fmt.Errorf("%w: a pending request for this user and opportunity already exists",
			service.ErrDuplicateRequest)
	}
	return err
}

func (r *Repository) RequestByID(ctx context.Context, id string) (*models.ConnectionRequest, error) {
	var req models.ConnectionRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *Repository) ResolveRequest(ctx context.Context, id string, status models.RequestStatus) (bool, error) {
	// Compare-and-swap on status: the WHERE clause makes concurrent
	// accept/decline calls resolve to exactly one winner.
	res := r.db.WithContext(ctx).
		Model(&models.ConnectionRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]any{"status": status, "pending_key": nil})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) PendingRequestExists(ctx context.Context, fromID, toID, opportunityID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ConnectionRequest{}).
		Where("pending_key = ?", models.RequestPendingKey(fromID, toID, opportunityID)).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) PendingIncoming(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("to_user_id = ? AND status = ?", userID, models.StatusPending).
		Order("created_at DESC, id").
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) Outgoing(ctx context.Context, userID string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("from_user_id = ?", userID).
		Order("created_at DESC, id").
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) RequestsByOpportunity(ctx context.Context, opportunityID string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ?", opportunityID).
		Order("created_at DESC, id").
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) AcceptedBetween(ctx context.Context, userA, userB string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND ((from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?))",
			models.StatusAccepted, userA, userB, userB, userA).
		Order("created_at, id").
		Find(&reqs).Error
	return reqs, err
}

func (r *Repository) AcceptedForOpportunity(ctx context.Context, opportunityID string) ([]models.ConnectionRequest, error) {
	var reqs []models.ConnectionRequest
	err := r.db.WithContext(ctx).
		Where("opportunity_id = ? AND status = ?", opportunityID, models.StatusAccepted).
		Order("created_at, id").
		Find(&reqs).Error
	return reqs, err
}
