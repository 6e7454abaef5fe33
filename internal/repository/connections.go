package repository

import (
	"context"

	"serendip/backend/internal/models"

	"gorm.io/gorm/clause"
)

func (r *Repository) InsertConnection(ctx context.Context, conn models.Connection) error {
	conn.UserA, conn.UserB = models.NormalizePair(conn.UserA, conn.UserB)
	// The normalized composite key plus DO NOTHING makes the insert
	// idempotent for same- and reverse-direction pairs under concurrency.
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&conn).Error
}

func (r *Repository) ConnectionsFor(ctx context.Context, userID string) ([]models.Connection, error) {
	var conns []models.Connection
	err := r.db.WithContext(ctx).
		Where("user_a = ? OR user_b = ?", userID, userID).
		Order("created_at, user_a, user_b").
		Find(&conns).Error
	return conns, err
}

func (r *Repository) ConnectionsForAll(ctx context.Context, userIDs []string) ([]models.Connection, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var conns []models.Connection
	err := r.db.WithContext(ctx).
		Where("user_a IN ? OR user_b IN ?", userIDs, userIDs).
		Order("created_at, user_a, user_b").
		Find(&conns).Error
	return conns, err
}
