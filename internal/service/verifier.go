package service

import (
	"context"
	"fmt"

	"github.com/linemk/ghala/internal/domain/models"
	"golang.org/x/crypto/bcrypt"
)

// CredentialVerifier проверяет секрет пользователя. Реализацию можно заменить,
// не трогая AuthService.
type CredentialVerifier interface {
	Verify(ctx context.Context, user *models.User, secret string) error
}

// SharedPasswordVerifier принимает один общий демо-пароль для всех учётных записей.
// Это не настоящая аутентификация.
type SharedPasswordVerifier struct {
	hash []byte
}

func NewSharedPasswordVerifier(password string, cost int) (*SharedPasswordVerifier, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash shared password: %w", err)
	}
	return &SharedPasswordVerifier{hash: hash}, nil
}

func (v *SharedPasswordVerifier) Verify(_ context.Context, _ *models.User, secret string) error {
	if err := bcrypt.CompareHashAndPassword(v.hash, []byte(secret)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
