package storage

import (
	"context"
	"errors"

	"github.com/linemk/ghala/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

type UserStorage interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
}

var _ UserStorage = (*Storage)(nil)

func userID(u *models.User) string { return u.ID }

func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	return loadCollection[models.User](ctx, s.kv, KeyUsers)
}

func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := findRecord(users, func(u *models.User) bool { return u.ID == id })
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetUserByEmail возвращает первого пользователя с таким email.
// Уникальность email хранилище не проверяет.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	user, ok := findRecord(users, func(u *models.User) bool { return u.Email == email })
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return upsertRecords(ctx, s.kv, KeyUsers, userID, *user)
}
