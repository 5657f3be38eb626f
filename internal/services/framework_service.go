package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"projectops/internal/models"
	"projectops/internal/utils"
)

type FrameworkService struct {
	frameworks FrameworkStore
	projects   ProjectStore
	users      UserStore
	now        func() time.Time
}

func NewFrameworkService(frameworks FrameworkStore, projects ProjectStore, users UserStore) *FrameworkService {
	return &FrameworkService{
		frameworks: frameworks,
		projects:   projects,
		users:      users,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// FrameworkRequest carries the editable fields of an agreement. The code is
// generated on create and cannot be supplied.
type FrameworkRequest struct {
	Name       string  `json:"name" binding:"required"`
	ManagerID  string  `json:"managerId" binding:"required"`
	BizManager *string `json:"bizManager"`
	Group      string  `json:"group"`
	ClientDept *string `json:"clientDept"`
}

func frameworkID(raw string) (uuid.UUID, error) {
	id, err := utils.ParseUUID(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: framework %s", ErrNotFound, raw)
	}
	return id, nil
}

// apply validates req and copies it onto f, resolving the manager's display name.
func (s *FrameworkService) apply(ctx context.Context, f *models.FrameworkAgreement, req FrameworkRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	managerID, err := utils.ParseUUID(req.ManagerID)
	if err != nil {
		return fmt.Errorf("%w: invalid managerId", ErrValidation)
	}
	manager, err := s.users.FindUserByID(ctx, managerID)
	if err != nil {
		return storeRead(err)
	}
	if manager == nil {
		return fmt.Errorf("%w: manager %s does not exist", ErrValidation, managerID)
	}

	f.Name = name
	f.ManagerID = manager.ID
	f.ManagerName = manager.DisplayName()
	f.BizManager = utils.TrimOptional(req.BizManager)
	f.Group = strings.TrimSpace(req.Group)
	f.ClientDept = utils.TrimOptional(req.ClientDept)
	return nil
}

func (s *FrameworkService) Create(ctx context.Context, actingUserID string, req FrameworkRequest) (*models.FrameworkAgreement, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}

	f := &models.FrameworkAgreement{CreatedBy: &user}
	if err := s.apply(ctx, f, req); err != nil {
		return nil, err
	}

	if err := s.frameworks.Create(ctx, f); err != nil {
		return nil, storeWrite(err)
	}
	return f, nil
}

func (s *FrameworkService) Get(ctx context.Context, id string) (*models.FrameworkAgreement, error) {
	fid, err := frameworkID(id)
	if err != nil {
		return nil, err
	}

	f, err := s.frameworks.GetByID(ctx, fid)
	if err != nil {
		return nil, storeRead(err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: framework %s", ErrNotFound, id)
	}
	return f, nil
}

func (s *FrameworkService) List(ctx context.Context) ([]models.FrameworkAgreement, error) {
	frameworks, err := s.frameworks.List(ctx)
	if err != nil {
		return nil, storeRead(err)
	}
	if frameworks == nil {
		frameworks = []models.FrameworkAgreement{}
	}
	return frameworks, nil
}

func (s *FrameworkService) Update(ctx context.Context, actingUserID, id string, req FrameworkRequest) (*models.FrameworkAgreement, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}
	fid, err := frameworkID(id)
	if err != nil {
		return nil, err
	}

	f := &models.FrameworkAgreement{ID: fid, UpdatedAt: s.now(), UpdatedBy: &user}
	if err := s.apply(ctx, f, req); err != nil {
		return nil, err
	}

	updated, err := s.frameworks.Update(ctx, f)
	if err != nil {
		return nil, storeWrite(err)
	}
	if updated == nil {
		return nil, fmt.Errorf("%w: framework %s", ErrNotFound, id)
	}
	return updated, nil
}

// Delete removes an agreement that no project is billed under.
func (s *FrameworkService) Delete(ctx context.Context, actingUserID, id string) error {
	if _, err := actor(actingUserID); err != nil {
		return err
	}
	fid, err := frameworkID(id)
	if err != nil {
		return err
	}

	linked, err := s.projects.ExistsByFrameworkID(ctx, fid)
	if err != nil {
		return storeRead(err)
	}
	if linked {
		return fmt.Errorf("%w: framework still has associated projects", ErrInvalidState)
	}

	deleted, err := s.frameworks.Delete(ctx, fid)
	if err != nil {
		return storeWrite(err)
	}
	if !deleted {
		return fmt.Errorf("%w: framework %s", ErrNotFound, id)
	}
	return nil
}
