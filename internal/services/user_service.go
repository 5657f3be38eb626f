package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"projectops/internal/models"
	"projectops/internal/utils"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// Profile returns the account of the acting user.
func (s *UserService) Profile(ctx context.Context, actingUserID string) (*models.User, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, user)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	uid, err := utils.ParseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return s.get(ctx, uid)
}

func (s *UserService) get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return nil, storeRead(err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return user, nil
}

// ListUsers backs the manager picker of the framework form.
func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeRead(err)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// UpdateRole changes another user's role. Admins cannot change their own role,
// which keeps at least one admin around.
func (s *UserService) UpdateRole(ctx context.Context, actingUserID, id string, req UpdateRoleRequest) (*models.User, error) {
	acting, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}
	uid, err := utils.ParseUUID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	if uid == acting {
		return nil, fmt.Errorf("%w: cannot change your own role", ErrInvalidState)
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleUser:
	default:
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidation, req.Role)
	}

	user, err := s.users.UpdateRole(ctx, uid, role)
	if err != nil {
		return nil, storeWrite(err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %s", ErrNotFound, id)
	}
	return user, nil
}
