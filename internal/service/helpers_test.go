package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/linemk/ghala/internal/domain/models"
	"github.com/linemk/ghala/internal/storage"
	"github.com/linemk/ghala/internal/storage/kv"
	"github.com/stretchr/testify/assert"
)

var (
	adminPrincipal    = models.Principal{UserID: "admin-1", Role: models.RoleAdmin}
	merchantPrincipal = models.Principal{UserID: "merchant-1", Role: models.RoleMerchant, MerchantID: "merchant-1"}
	strangerPrincipal = models.Principal{UserID: "merchant-2", Role: models.RoleMerchant, MerchantID: "merchant-2"}
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// seededStorage возвращает фасад над памятью с демо-данными.
func seededStorage(t *testing.T) *storage.Storage {
	t.Helper()
	s := storage.New(kv.NewMemory(), nil)
	assert.NoError(t, s.InitializeSampleData(context.Background()))
	return s
}
