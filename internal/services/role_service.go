package services

import (
	"context"

	"projectops/internal/models"
)

type RoleService struct {
	roles RoleStore
}

func NewRoleService(roles RoleStore) *RoleService {
	return &RoleService{roles: roles}
}

func (s *RoleService) ListRoles(ctx context.Context) ([]models.Role, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, storeRead(err)
	}
	if roles == nil {
		roles = []models.Role{}
	}
	return roles, nil
}
