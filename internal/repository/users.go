package repository

import (
	"context"
	"errors"
	"fmt"

	"serendip/backend/internal/models"
	"serendip/backend/internal/service"

	"gorm.io/gorm"
)

func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Two racing registrations for one email can both pass the
		// service-level lookup; the unique index decides, and the loser
		// gets the same error the pre-check would have produced.
		return fmt.Errorf("%w: email already registered", service.ErrValidation)
	}
	return err
}

func (r *Repository) UserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name, id").
		Find(&users).Error
	return users, err
}

func (r *Repository) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at, id").Find(&users).Error
	return users, err
}

func (r *Repository) SearchUsers(ctx context.Context, q string) ([]models.User, error) {
	like := "%" + q + "%"
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR skills ILIKE ? OR interests ILIKE ? OR bio ILIKE ?",
			like, like, like, like).
		Order("name, id").
		Limit(50).
		Find(&users).Error
	return users, err
}
