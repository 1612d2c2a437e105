package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/moralreport/moralreport/internal/model"
)

// MemoryRepository is a thread-safe in-memory credential store with the same
// uniqueness rules as the PostgreSQL schema. Suitable for tests and local tooling.
type MemoryRepository struct {
	mu sync.RWMutex

	byID       map[string]*model.User
	byUsername map[string]*model.User
	byEmail    map[string]*model.User // key: lower-cased email
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{
		byID:       make(map[string]*model.User),
		byUsername: make(map[string]*model.User),
		byEmail:    make(map[string]*model.User),
	}
}

// CreateUser stores a copy of the user.
func (m *MemoryRepository) CreateUser(ctx context.Context, user *model.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byUsername[user.Username]; exists {
		return ErrUsernameExists
	}
	emailKey := strings.ToLower(user.Email)
	if _, exists := m.byEmail[emailKey]; exists {
		return ErrEmailExists
	}

	cp := *user
	m.byID[cp.ID] = &cp
	m.byUsername[cp.Username] = &cp
	m.byEmail[emailKey] = &cp
	return nil
}

// GetUserByID returns a copy of the user with the given ID.
func (m *MemoryRepository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// GetUserByUsername returns a copy of the user with the given username.
func (m *MemoryRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// UsernameExists reports whether the username is taken.
func (m *MemoryRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byUsername[username]
	return ok, nil
}

// EmailExists reports whether the email is taken, ignoring case.
func (m *MemoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.byEmail[strings.ToLower(email)]
	return ok, nil
}

// Count returns the number of stored users.
func (m *MemoryRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}

// Ping always succeeds.
func (m *MemoryRepository) Ping(ctx context.Context) error {
	return nil
}
