package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/linemk/ghala/internal/storage/kv"
)

// ключи в хранилище ключ-значение
const (
	KeyUsers       = "ghala_users"
	KeyMerchants   = "ghala_merchants"
	KeyOrders      = "ghala_orders"
	KeyCurrentUser = "ghala_current_user"
)

// ErrMalformedData возвращается, если ключ есть, но JSON под ним не разбирается.
// Отсутствующий ключ ошибкой не считается.
var ErrMalformedData = errors.New("malformed stored data")

// Storage — фасад над хранилищем ключ-значение: коллекции users, merchants, orders
// и маркер текущей сессии. Каждая запись переписывает коллекцию целиком.
type Storage struct {
	kv  kv.Store
	now func() time.Time

	// сериализует циклы чтение-изменение-запись внутри процесса
	mu sync.Mutex
}

// New создаёт фасад. Если now == nil, используется time.Now.
func New(store kv.Store, now func() time.Time) *Storage {
	if now == nil {
		now = time.Now
	}
	return &Storage{kv: store, now: now}
}

func loadCollection[T any](ctx context.Context, store kv.Store, key string) ([]T, error) {
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedData, key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func saveCollection[T any](ctx context.Context, store kv.Store, key string, items []T) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, string(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// upsertRecords заменяет записи с совпадающим id на месте, остальные добавляет в конец,
// затем одной операцией записывает коллекцию.
func upsertRecords[T any](ctx context.Context, store kv.Store, key string, id func(*T) string, records ...T) error {
	items, err := loadCollection[T](ctx, store, key)
	if err != nil {
		return err
	}

	for _, rec := range records {
		replaced := false
		for i := range items {
			if id(&items[i]) == id(&rec) {
				items[i] = rec
				replaced = true
				break
			}
		}
		if !replaced {
			items = append(items, rec)
		}
	}

	return saveCollection(ctx, store, key, items)
}

func findRecord[T any](items []T, match func(*T) bool) (*T, bool) {
	for i := range items {
		if match(&items[i]) {
			rec := items[i]
			return &rec, true
		}
	}
	return nil, false
}
