package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"projectops/internal/models"
)

// MemoryUserRepository is an in-memory user store for development and tests.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[uuid.UUID]*models.User),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		c.LastLoginAt = &t
	}
	c.Password = ""
	return &c
}

func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Prepare()
	if _, exists := r.users[user.ID]; exists {
		return ErrDuplicate
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return ErrDuplicate
		}
	}

	if user.Role == "" {
		user.Role = models.RoleUser
		if len(r.users) == 0 {
			user.Role = models.RoleAdmin
		}
	}
	user.CreatedAt = time.Now().UTC()
	r.users[user.ID] = copyUser(user)
	return nil
}

func (r *MemoryUserRepository) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (r *MemoryUserRepository) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepository) List(ctx context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		users = append(users, *copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		if users[i].Name != users[j].Name {
			return users[i].Name < users[j].Name
		}
		return users[i].Email < users[j].Email
	})
	return users, nil
}

func (r *MemoryUserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if u, ok := r.users[id]; ok {
		t := at
		u.LastLoginAt = &t
	}
	return nil
}

func (r *MemoryUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role string) (*models.User, error) {
	switch role {
	case models.RoleAdmin, models.RoleManager, models.RoleUser:
	default:
		return nil, ErrReferenceMissing
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	u.Role = role
	return copyUser(u), nil
}
