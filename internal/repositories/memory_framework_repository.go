package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"projectops/internal/models"
	"projectops/internal/utils"
)

// MemoryFrameworkRepository is an in-memory framework store for development and tests.
type MemoryFrameworkRepository struct {
	mu         sync.RWMutex
	frameworks map[uuid.UUID]*models.FrameworkAgreement
	now        func() time.Time

	// references reports whether a project still points at a framework,
	// standing in for the ON DELETE RESTRICT foreign key.
	references func(ctx context.Context, id uuid.UUID) (bool, error)
}

func NewMemoryFrameworkRepository() *MemoryFrameworkRepository {
	return &MemoryFrameworkRepository{
		frameworks: make(map[uuid.UUID]*models.FrameworkAgreement),
		now:        time.Now,
	}
}

// WithProjects makes Delete fail with ErrStillReferenced while projects link to the framework.
func (r *MemoryFrameworkRepository) WithProjects(projects *MemoryProjectRepository) *MemoryFrameworkRepository {
	r.references = projects.ExistsByFrameworkID
	return r
}

// WithClock overrides the clock used for code generation.
func (r *MemoryFrameworkRepository) WithClock(now func() time.Time) *MemoryFrameworkRepository {
	r.now = now
	return r
}

func copyFramework(f *models.FrameworkAgreement) *models.FrameworkAgreement {
	c := *f
	c.BizManager = copyString(f.BizManager)
	c.ClientDept = copyString(f.ClientDept)
	if f.CreatedBy != nil {
		id := *f.CreatedBy
		c.CreatedBy = &id
	}
	if f.UpdatedBy != nil {
		id := *f.UpdatedBy
		c.UpdatedBy = &id
	}
	return &c
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func (r *MemoryFrameworkRepository) Create(ctx context.Context, f *models.FrameworkAgreement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f.Prepare()
	if _, exists := r.frameworks[f.ID]; exists {
		return ErrDuplicate
	}

	now := r.now().UTC()
	prefix := utils.FrameworkCodePrefix(now)
	next := 1
	for _, existing := range r.frameworks {
		if seq, ok := utils.FrameworkCodeSequence(existing.Code, prefix); ok && seq >= next {
			next = seq + 1
		}
	}

	f.Code = utils.FrameworkCode(now, next)
	f.CreatedAt = now
	f.UpdatedAt = now
	f.UpdatedBy = f.CreatedBy
	r.frameworks[f.ID] = copyFramework(f)
	return nil
}

func (r *MemoryFrameworkRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FrameworkAgreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.frameworks[id]
	if !ok {
		return nil, nil
	}
	return copyFramework(f), nil
}

func (r *MemoryFrameworkRepository) List(ctx context.Context) ([]models.FrameworkAgreement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	frameworks := make([]models.FrameworkAgreement, 0, len(r.frameworks))
	for _, f := range r.frameworks {
		frameworks = append(frameworks, *copyFramework(f))
	}
	sort.Slice(frameworks, func(i, j int) bool {
		return frameworks[i].CreatedAt.After(frameworks[j].CreatedAt)
	})
	return frameworks, nil
}

func (r *MemoryFrameworkRepository) Update(ctx context.Context, f *models.FrameworkAgreement) (*models.FrameworkAgreement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.frameworks[f.ID]
	if !ok {
		return nil, nil
	}

	next := copyFramework(current)
	next.Name = f.Name
	next.ManagerID = f.ManagerID
	next.ManagerName = f.ManagerName
	next.BizManager = copyString(f.BizManager)
	next.Group = f.Group
	next.ClientDept = copyString(f.ClientDept)
	next.UpdatedAt = f.UpdatedAt
	if f.UpdatedBy != nil {
		id := *f.UpdatedBy
		next.UpdatedBy = &id
	}

	r.frameworks[f.ID] = next
	return copyFramework(next), nil
}

// Delete checks references while holding the write lock, so no lookup of the
// framework succeeds between the check and the delete. A link whose lookup
// finished before Delete took the lock can still land afterwards; only the
// postgres foreign key closes that window.
func (r *MemoryFrameworkRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.frameworks[id]; !ok {
		return false, nil
	}
	if r.references != nil {
		linked, err := r.references(ctx, id)
		if err != nil {
			return false, err
		}
		if linked {
			return false, ErrStillReferenced
		}
	}
	delete(r.frameworks, id)
	return true, nil
}
