package kvstore

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrKeyExists = errors.New("key already exists")
)

// KeyValue is a stored record together with its etcd revisions.
type KeyValue struct {
	Key            string
	CreateRevision int64
	ModRevision    int64
	Version        int64
	Value          string
}

type createConfig struct {
	disableLease bool
	ttl          int64
}

type CreateOption func(c *createConfig)

func newCreateConfig(opts ...CreateOption) *createConfig {
	c := &createConfig{}
	for _, o := range opts {
		o(c)
	}
	return c
}

func WithNoLease() CreateOption {
	return func(c *createConfig) {
		c.disableLease = true
	}
}

// WithTtl sets the lease ttl in seconds.
func WithTtl(ttl int64) CreateOption {
	return func(c *createConfig) {
		c.ttl = ttl
	}
}

// Store holds published values. Keys are written once, a value is never
// overwritten in place.
type Store interface {
	// Create fails with ErrKeyExists when key is already there.
	Create(ctx context.Context, key, value string, opts ...CreateOption) error
	Get(ctx context.Context, key string) (*KeyValue, error)
	// DeletePrefix removes every key under prefix and returns how many went.
	DeletePrefix(ctx context.Context, prefix string) (int64, error)
}
