package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"projectops/internal/models"
)

// MemoryProjectRepository is an in-memory project store for development and tests.
// It follows the postgres store: lookups that match no row return nil, nil.
type MemoryProjectRepository struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*models.Project

	// writes counts successful updates so tests can assert that nothing was written.
	writes int
}

func NewMemoryProjectRepository() *MemoryProjectRepository {
	return &MemoryProjectRepository{
		projects: make(map[uuid.UUID]*models.Project),
	}
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	if p.FrameworkID != nil {
		id := *p.FrameworkID
		c.FrameworkID = &id
	}
	if p.ArchivedAt != nil {
		t := *p.ArchivedAt
		c.ArchivedAt = &t
	}
	if p.ArchivedBy != nil {
		id := *p.ArchivedBy
		c.ArchivedBy = &id
	}
	if p.UnarchivedBy != nil {
		id := *p.UnarchivedBy
		c.UnarchivedBy = &id
	}
	return &c
}

func (r *MemoryProjectRepository) Create(ctx context.Context, project *models.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	project.Prepare()
	if _, exists := r.projects[project.ID]; exists {
		return ErrDuplicate
	}
	if err := models.CheckContractAmount(project.ContractAmount); err != nil {
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	}

	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = project.CreatedAt
	r.projects[project.ID] = copyProject(project)
	return nil
}

func (r *MemoryProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	return copyProject(p), nil
}

func (r *MemoryProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	projects := make([]models.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if filter.Archived != nil && p.Archived() != *filter.Archived {
			continue
		}
		if filter.FrameworkID != nil && (p.FrameworkID == nil || *p.FrameworkID != *filter.FrameworkID) {
			continue
		}
		projects = append(projects, *copyProject(p))
	}

	sort.Slice(projects, func(i, j int) bool {
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})
	return projects, nil
}

// update applies fn to the stored project under the write lock. fn reports
// whether the row matched; unmatched rows are left untouched.
func (r *MemoryProjectRepository) update(id uuid.UUID, at time.Time, fn func(p *models.Project) bool) *models.Project {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.projects[id]
	if !ok {
		return nil
	}
	next := copyProject(p)
	if !fn(next) {
		return nil
	}
	next.UpdatedAt = at
	r.projects[id] = next
	r.writes++
	return copyProject(next)
}

func (r *MemoryProjectRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.ProjectStatus, at time.Time) (*models.Project, error) {
	if !status.Valid() {
		return nil, ErrConstraint
	}
	return r.update(id, at, func(p *models.Project) bool {
		p.Status = status
		return true
	}), nil
}

func (r *MemoryProjectRepository) MarkPendingEntry(ctx context.Context, id uuid.UUID, amount float64, at time.Time) (*models.Project, error) {
	if err := models.CheckContractAmount(amount); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstraint, err)
	}
	return r.update(id, at, func(p *models.Project) bool {
		p.IsPendingEntry = true
		p.ContractAmount = amount
		return true
	}), nil
}

func (r *MemoryProjectRepository) Archive(ctx context.Context, id, by uuid.UUID, at time.Time) (*models.Project, error) {
	return r.update(id, at, func(p *models.Project) bool {
		if p.Archived() {
			return false
		}
		archivedAt := at
		p.ArchivedAt = &archivedAt
		p.ArchivedBy = &by
		return true
	}), nil
}

func (r *MemoryProjectRepository) Unarchive(ctx context.Context, id, by uuid.UUID, at time.Time) (*models.Project, error) {
	return r.update(id, at, func(p *models.Project) bool {
		if !p.Archived() {
			return false
		}
		p.ArchivedAt = nil
		p.UnarchivedBy = &by
		return true
	}), nil
}

func (r *MemoryProjectRepository) SetFramework(ctx context.Context, id uuid.UUID, frameworkID *uuid.UUID, at time.Time) (*models.Project, error) {
	return r.update(id, at, func(p *models.Project) bool {
		if frameworkID == nil {
			p.FrameworkID = nil
		} else {
			fid := *frameworkID
			p.FrameworkID = &fid
		}
		return true
	}), nil
}

func (r *MemoryProjectRepository) ExistsByFrameworkID(ctx context.Context, frameworkID uuid.UUID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.projects {
		if p.FrameworkID != nil && *p.FrameworkID == frameworkID {
			return true, nil
		}
	}
	return false, nil
}

// Writes returns the number of successful updates.
func (r *MemoryProjectRepository) Writes() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.writes
}
