package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shiftwise/stepup/internal/stepup/domain"
	"github.com/shiftwise/stepup/internal/stepup/store"
)

var ErrInvalidUser = errors.New("invalid user")

// UserService maintains the service's projection of platform users. The
// platform pushes rows through the admin API; nothing here is authoritative
// beyond what step-up verification needs.
type UserService struct {
	Store store.Store
}

// Upsert inserts or refreshes a user projection.
func (s *UserService) Upsert(ctx context.Context, u domain.User) (domain.User, error) {
	u.ID = strings.TrimSpace(u.ID)
	u.Username = strings.TrimSpace(u.Username)
	if u.ID == "" || u.Username == "" {
		return domain.User{}, fmt.Errorf("%w: id and username are required", ErrInvalidUser)
	}

	now := time.Now().UTC()
	u.UpdatedAt = now

	existing, err := s.Store.Users().GetUserByID(ctx, u.ID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		u.CreatedAt = now
	case err != nil:
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	default:
		u.CreatedAt = existing.CreatedAt
	}

	if err := s.Store.Users().UpsertUser(ctx, u); err != nil {
		return domain.User{}, fmt.Errorf("failed to upsert user: %w", err)
	}
	return u, nil
}

// Get returns one user projection.
func (s *UserService) Get(ctx context.Context, id string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, err
		}
		return domain.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return u, nil
}

// Delete removes a projection; 2FA state cascades with it.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Store.Users().DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
