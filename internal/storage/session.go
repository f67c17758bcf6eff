package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linemk/ghala/internal/domain/models"
)

var ErrNoSession = errors.New("no active session")

// SessionStorage хранит маркер текущего пользователя.
type SessionStorage interface {
	SetCurrentUser(ctx context.Context, user *models.User) error
	CurrentUser(ctx context.Context) (*models.User, error)
	ClearCurrentUser(ctx context.Context) error
}

var _ SessionStorage = (*Storage)(nil)

func (s *Storage) SetCurrentUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.kv.Set(ctx, KeyCurrentUser, string(data)); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *Storage) CurrentUser(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.kv.Get(ctx, KeyCurrentUser)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if !ok {
		return nil, ErrNoSession
	}
	user := &models.User{}
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedData, KeyCurrentUser, err)
	}
	return user, nil
}

func (s *Storage) ClearCurrentUser(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyCurrentUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
