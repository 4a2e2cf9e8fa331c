package stream

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/BeameryHQ/async-callbacks/kvstore"
	"github.com/cenkalti/backoff"
	"github.com/satori/go.uuid"
)

// Publisher writes values under a path so an EtcdSource watching it picks them up.
type Publisher interface {
	Publish(ctx context.Context, value int) (string, error)
	// Clear drops every value published under the path.
	Clear(ctx context.Context) (int64, error)
}

type publishOption struct {
	ttl        int64
	noLease    bool
	maxElapsed time.Duration
}

type PublishOption func(option *publishOption)

// WithRetention keeps published values for ttl seconds.
func WithRetention(ttl int64) PublishOption {
	return func(option *publishOption) {
		if ttl > 0 {
			option.ttl = ttl
		}
	}
}

func WithoutLease() PublishOption {
	return func(option *publishOption) {
		option.noLease = true
	}
}

func WithMaxRetryElapsed(d time.Duration) PublishOption {
	return func(option *publishOption) {
		option.maxElapsed = d
	}
}

type publisher struct {
	store  kvstore.Store
	path   string
	option *publishOption
}

func NewPublisher(store kvstore.Store, path string, opts ...PublishOption) Publisher {
	option := &publishOption{
		maxElapsed: time.Second * 15,
	}
	for _, o := range opts {
		o(option)
	}

	return &publisher{
		store:  store,
		path:   strings.TrimRight(path, "/"),
		option: option,
	}
}

func (p *publisher) fullPath(id string) string {
	return strings.Join([]string{p.path, id}, "/")
}

func (p *publisher) Publish(ctx context.Context, value int) (string, error) {
	key := p.fullPath(uuid.NewV4().String())
	raw := strconv.Itoa(value)

	var createOpts []kvstore.CreateOption
	if p.option.noLease {
		createOpts = append(createOpts, kvstore.WithNoLease())
	} else if p.option.ttl > 0 {
		createOpts = append(createOpts, kvstore.WithTtl(p.option.ttl))
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = p.option.maxElapsed

	err := backoff.Retry(func() error {
		err := p.store.Create(ctx, key, raw, createOpts...)
		if !errors.Is(err, kvstore.ErrKeyExists) {
			return err
		}

		// an earlier attempt may have landed before its response was lost
		kv, getErr := p.store.Get(ctx, key)
		if getErr == nil && kv.Value == raw {
			return nil
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return "", err
	}

	return key, nil
}

func (p *publisher) Clear(ctx context.Context) (int64, error) {
	return p.store.DeletePrefix(ctx, p.path+"/")
}

// PublishAll publishes values in order and stops at the first failure.
func PublishAll(ctx context.Context, p Publisher, values ...int) ([]string, error) {
	keys := make([]string, 0, len(values))
	for _, v := range values {
		key, err := p.Publish(ctx, v)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}
