package kv

import "context"

// Store is the narrow key-value contract the booking ledger and user settings
// persist through. Get reports whether the key existed; absent keys are not
// errors.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
