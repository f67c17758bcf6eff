package kv

import "context"

// Store — примитив строкового хранилища ключ-значение, поверх которого работает фасад.
// Get возвращает ok=false, если ключа нет.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
