package service

import (
	"context"
	"fmt"

	"serendip/backend/internal/embedding"
	"serendip/backend/internal/models"

	"go.uber.org/zap"
)

// UserService owns profile lifecycle and keeps the embedding index in sync
// with profile text.
type UserService struct {
	users       UserStore
	connections ConnectionStore
	provider    embedding.Provider
	log         *zap.Logger
}

// NewUserService builds a UserService.
func NewUserService(users UserStore, connections ConnectionStore, provider embedding.Provider, log *zap.Logger) *UserService {
	return &UserService{
		users:       users,
		connections: connections,
		provider:    provider,
		log:         log.Named("user"),
	}
}

// Create registers a user and indexes the profile text.
func (s *UserService) Create(ctx context.Context, user *models.User) error {
	existing, err := s.users.UserByEmail(ctx, user.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: email already registered", ErrValidation)
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return err
	}
	if err := s.provider.UpsertProfile(ctx, user.ID, user.ProfileText()); err != nil {
		// The profile row is canonical; a failed index write only delays
		// this user showing up in matching until the next upsert.
		s.log.Warn("profile index write failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// Get returns one user or ErrNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return user, nil
}

// GetByEmail returns one user by email, or nil when absent.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.users.UserByEmail(ctx, email)
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.ListUsers(ctx)
}

// ConnectionCount returns a user's number of direct connections.
func (s *UserService) ConnectionCount(ctx context.Context, userID string) (int, error) {
	conns, err := s.connections.ConnectionsFor(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(conns), nil
}
