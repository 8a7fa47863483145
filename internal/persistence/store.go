// Package persistence keeps the workout list in a single string blob under a
// fixed key, the way a browser keeps it in local storage.
package persistence

import "context"

// DefaultKey is the storage key the workout list is written under.
const DefaultKey = "workouts"

// Store is a string keyed blob store. Get reports ok=false when the key is absent.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}
