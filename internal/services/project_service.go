package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"projectops/internal/models"
	"projectops/internal/utils"
)

type ProjectService struct {
	projects   ProjectStore
	frameworks FrameworkStore
	now        func() time.Time
}

func NewProjectService(projects ProjectStore, frameworks FrameworkStore) *ProjectService {
	return &ProjectService{
		projects:   projects,
		frameworks: frameworks,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type DesignConfirmRequest struct {
	Confirmed   *bool   `json:"confirmed" binding:"required"`
	Description *string `json:"description,omitempty"`
}

type PendingEntryRequest struct {
	ContractAmount *float64 `json:"contractAmount" binding:"required"`
	Description    *string  `json:"description,omitempty"`
}

type LinkFrameworkRequest struct {
	FrameworkID *string `json:"frameworkId"`
}

type ListProjectsQuery struct {
	Archived    *bool  `form:"archived"`
	FrameworkID string `form:"framework_id"`
}

// actor resolves the acting user. It runs before any store access.
func actor(actingUserID string) (uuid.UUID, error) {
	if actingUserID == "" {
		return uuid.Nil, ErrUnauthenticated
	}
	id, err := utils.ParseUUID(actingUserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: malformed user id", ErrUnauthenticated)
	}
	return id, nil
}

// projectID parses a project ID. An ID that cannot name a row is reported as NotFound.
func projectID(raw string) (uuid.UUID, error) {
	id, err := utils.ParseUUID(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: project %s", ErrNotFound, raw)
	}
	return id, nil
}

func (s *ProjectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	pid, err := projectID(id)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.GetByID(ctx, pid)
	if err != nil {
		return nil, storeRead(err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return project, nil
}

func (s *ProjectService) ListProjects(ctx context.Context, query ListProjectsQuery) ([]models.Project, error) {
	filter := models.ProjectFilter{Archived: query.Archived}
	if query.FrameworkID != "" {
		fid, err := utils.ParseUUID(query.FrameworkID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid framework_id", ErrValidation)
		}
		filter.FrameworkID = &fid
	}

	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, storeRead(err)
	}
	if projects == nil {
		projects = []models.Project{}
	}
	return projects, nil
}

// SubmitDesignConfirm records the outcome of the design review. Only status and
// updatedAt change; the description is logged for audit but not stored.
func (s *ProjectService) SubmitDesignConfirm(ctx context.Context, actingUserID, id string, req DesignConfirmRequest) (*models.Project, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}
	if req.Confirmed == nil {
		return nil, fmt.Errorf("%w: confirmed is required", ErrValidation)
	}
	pid, err := projectID(id)
	if err != nil {
		return nil, err
	}

	status := models.ProjectStatusPendingConfirmation
	if *req.Confirmed {
		status = models.ProjectStatusConfirmed
	}

	project, err := s.projects.UpdateStatus(ctx, pid, status, s.now())
	if err != nil {
		return nil, storeWrite(err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}

	auditLog(ctx, "design_confirm", user, pid, req.Description).
		Str("status", string(status)).
		Msg("design confirmation submitted")
	return project, nil
}

// SubmitPendingEntry flags the project as awaiting an amount correction and
// overwrites the contract amount. It never clears the flag.
func (s *ProjectService) SubmitPendingEntry(ctx context.Context, actingUserID, id string, req PendingEntryRequest) (*models.Project, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}
	if req.ContractAmount == nil {
		return nil, fmt.Errorf("%w: contractAmount is required", ErrValidation)
	}
	amount := *req.ContractAmount
	if err := models.CheckContractAmount(amount); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	pid, err := projectID(id)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.MarkPendingEntry(ctx, pid, amount, s.now())
	if err != nil {
		return nil, storeWrite(err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}

	auditLog(ctx, "pending_entry", user, pid, req.Description).
		Float64("contract_amount", amount).
		Msg("pending entry submitted")
	return project, nil
}

// Archive fails with ErrInvalidState when the project is already archived.
func (s *ProjectService) Archive(ctx context.Context, actingUserID, id string) (*models.Project, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}
	pid, err := projectID(id)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Archive(ctx, pid, user, s.now())
	if err != nil {
		return nil, storeWrite(err)
	}
	if project == nil {
		return nil, s.unmatched(ctx, pid, "project is already archived")
	}
	return project, nil
}

// CancelArchive fails with ErrInvalidState when the project is not archived, so
// a repeated call is rejected rather than treated as a no-op.
func (s *ProjectService) CancelArchive(ctx context.Context, actingUserID, id string) (*models.Project, error) {
	user, err := actor(actingUserID)
	if err != nil {
		return nil, err
	}
	pid, err := projectID(id)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.Unarchive(ctx, pid, user, s.now())
	if err != nil {
		return nil, storeWrite(err)
	}
	if project == nil {
		return nil, s.unmatched(ctx, pid, "project is not archived")
	}
	return project, nil
}

// unmatched explains why a guarded update matched no row.
func (s *ProjectService) unmatched(ctx context.Context, id uuid.UUID, stateMsg string) error {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return storeRead(err)
	}
	if project == nil {
		return fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return fmt.Errorf("%w: %s", ErrInvalidState, stateMsg)
}

// HasAssociatedProjects reports whether any project references the framework.
// An unknown or malformed framework ID has no projects.
func (s *ProjectService) HasAssociatedProjects(ctx context.Context, frameworkID string) (bool, error) {
	fid, err := utils.ParseUUID(frameworkID)
	if err != nil {
		return false, nil
	}

	exists, err := s.projects.ExistsByFrameworkID(ctx, fid)
	if err != nil {
		return false, storeRead(err)
	}
	return exists, nil
}

// LinkFramework sets or clears the framework a project is billed under.
func (s *ProjectService) LinkFramework(ctx context.Context, actingUserID, id string, req LinkFrameworkRequest) (*models.Project, error) {
	if _, err := actor(actingUserID); err != nil {
		return nil, err
	}
	pid, err := projectID(id)
	if err != nil {
		return nil, err
	}

	fid, err := utils.ParseOptionalUUID(req.FrameworkID)
	if err != nil {
		return nil, fmt.Errorf("%w: framework %s", ErrNotFound, *req.FrameworkID)
	}
	if fid != nil {
		framework, err := s.frameworks.GetByID(ctx, *fid)
		if err != nil {
			return nil, storeRead(err)
		}
		if framework == nil {
			return nil, fmt.Errorf("%w: framework %s", ErrNotFound, fid)
		}
	}

	project, err := s.projects.SetFramework(ctx, pid, fid, s.now())
	if err != nil {
		return nil, storeWrite(err)
	}
	if project == nil {
		return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
	}
	return project, nil
}

func auditLog(ctx context.Context, action string, user, project uuid.UUID, description *string) *zerolog.Event {
	event := zerolog.Ctx(ctx).Info().
		Str("action", action).
		Str("user_id", user.String()).
		Str("project_id", project.String())
	if description != nil && *description != "" {
		event = event.Str("description", *description)
	}
	return event
}
