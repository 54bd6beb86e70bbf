// Package modelcache is the keyed store for trained model blobs shared by
// the forecaster and the anomaly detector. Models are trained lazily on
// first use per key and then reused verbatim; the cache never invalidates
// entries on its own — staleness policy is a caller concern.
package modelcache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"
)

// Store is a key-addressed blob store. Any durable backend satisfying get
// and put by key works: the SQLite repository implements it, and MemoryStore
// serves tests and cache-less deployments.
type Store interface {
	GetModel(ctx context.Context, key string) ([]byte, bool, error)
	PutModel(ctx context.Context, key string, blob []byte) error
}

// FitFunc trains a model and returns its serialized blob.
type FitFunc func() ([]byte, error)

// Cache wraps a Store with an atomic get-or-create: concurrent requests for
// the same key are collapsed onto one load-or-train-and-store sequence, so a
// key is never trained twice or stored partially.
type Cache struct {
	store Store
	group singleflight.Group
}

func New(store Store) *Cache {
	return &Cache{store: store}
}

// GetOrCreate returns the stored blob for key, or trains one via fit, stores
// it and returns it. Store failures and fit failures are hard errors.
func (c *Cache) GetOrCreate(ctx context.Context, key string, fit FitFunc) ([]byte, error) {
	blob, err, _ := c.group.Do(key, func() (any, error) {
		stored, ok, err := c.store.GetModel(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("load model %s: %w", key, err)
		}
		if ok {
			return stored, nil
		}

		trained, err := fit()
		if err != nil {
			return nil, fmt.Errorf("fit model %s: %w", key, err)
		}
		if err := c.store.PutModel(ctx, key, trained); err != nil {
			return nil, fmt.Errorf("store model %s: %w", key, err)
		}
		return trained, nil
	})
	if err != nil {
		return nil, err
	}
	return blob.([]byte), nil
}

// ForecastKey addresses a user's forecast model.
func ForecastKey(userID int64) string {
	return fmt.Sprintf("forecast:%d", userID)
}

// OutlierKey addresses a user's per-category outlier model.
func OutlierKey(userID int64, category string) string {
	return fmt.Sprintf("outlier:%d:%s", userID, category)
}
