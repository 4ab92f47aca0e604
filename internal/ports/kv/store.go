package kv

import (
	"context"
	"time"
)

// Store guarda valores JSON con TTL. Lo usan los drafts del wizard y las
// sesiones de pairing NFC.
type Store interface {
	// Get decodifica en dest. found=false si no existe o expiró.
	Get(ctx context.Context, key string, dest any) (found bool, err error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
