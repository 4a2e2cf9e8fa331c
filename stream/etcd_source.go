package stream

import (
	"context"
	"strings"
	"sync"

	"github.com/BeameryHQ/async-callbacks/logging"
	"github.com/BeameryHQ/async-callbacks/metrics"
	"github.com/sirupsen/logrus"
	"go.etcd.io/etcd/clientv3"
)

const (
	defaultWatchBufferSize = 1000
	defaultPageSize        = 30
)

type etcdSourceConfig struct {
	watchBufferSize int
	pageSize        int
	replay          bool
}

func newEtcdSourceConfig() *etcdSourceConfig {
	return &etcdSourceConfig{
		watchBufferSize: defaultWatchBufferSize,
		pageSize:        defaultPageSize,
	}
}

type EtcdSourceOption func(config *etcdSourceConfig)

func WithWatchBufferSize(size int) EtcdSourceOption {
	return func(config *etcdSourceConfig) {
		config.watchBufferSize = size
	}
}

func WithPageSize(size int) EtcdSourceOption {
	return func(config *etcdSourceConfig) {
		config.pageSize = size
	}
}

// WithReplay makes the source hand out the values already stored under the
// path, oldest first, before switching to the watch.
func WithReplay() EtcdSourceOption {
	return func(config *etcdSourceConfig) {
		config.replay = true
	}
}

// EtcdSource yields the integers written under an etcd prefix.
// It connects lazily on the first call to Next.
type EtcdSource struct {
	config *etcdSourceConfig
	logger *logrus.Entry
	cli    *clientv3.Client
	path   string

	ctx    context.Context
	cancel context.CancelFunc

	startMu  sync.Mutex
	started  bool
	startErr error
	pending  []int
	buf      chan int
	done     chan struct{}
}

func NewEtcdSource(cli *clientv3.Client, path string, opts ...EtcdSourceOption) *EtcdSource {
	config := newEtcdSourceConfig()
	for _, o := range opts {
		o(config)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &EtcdSource{
		config: config,
		logger: logging.GetLogger().WithFields(logrus.Fields{
			"component": "etcd-source",
			"path":      path,
		}),
		cli:    cli,
		path:   strings.TrimRight(path, "/") + "/",
		ctx:    ctx,
		cancel: cancel,
		buf:    make(chan int, config.watchBufferSize),
		done:   make(chan struct{}),
	}
}

func (s *EtcdSource) Next(ctx context.Context) (int, error) {
	if err := s.ensureStarted(ctx); err != nil {
		return 0, err
	}

	if len(s.pending) > 0 {
		v := s.pending[0]
		s.pending = s.pending[1:]
		return v, nil
	}

	select {
	case v := <-s.buf:
		return v, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-s.done:
		// drain whatever the watcher pushed before it went away
		select {
		case v := <-s.buf:
			return v, nil
		default:
			return 0, ErrSourceClosed
		}
	}
}

// Close stops the watch. Next returns ErrSourceClosed once the buffer is empty.
func (s *EtcdSource) Close() error {
	s.cancel()
	return nil
}

// ensureStarted runs start once it succeeds or fails on its own. A start cut
// short by the caller's context is tried again on the next call.
func (s *EtcdSource) ensureStarted(ctx context.Context) error {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.started {
		return s.startErr
	}
	err := s.start(ctx)
	if err != nil && ctx.Err() != nil {
		return err
	}
	s.started = true
	s.startErr = err
	return err
}

func (s *EtcdSource) start(ctx context.Context) error {
	rev := int64(0)
	if s.config.replay {
		values, lastRev, err := s.fetchExisting(ctx)
		if err != nil {
			return err
		}
		s.logger.Debugf("replaying %d stored values", len(values))
		s.pending = values
		rev = lastRev
	}

	opts := []clientv3.OpOption{clientv3.WithPrefix()}
	if rev > 0 {
		opts = append(opts, clientv3.WithRev(rev+1))
	}
	wchan := s.cli.Watch(s.ctx, s.path, opts...)
	s.logger.Debugln("created a watch channel on path : ", s.path)

	go s.watch(wchan)
	return nil
}

func (s *EtcdSource) watch(wchan clientv3.WatchChan) {
	defer close(s.done)

	for {
		select {
		case msg, ok := <-wchan:
			if !ok {
				s.logger.Warning("the watch channel is closed")
				return
			}
			if err := msg.Err(); err != nil {
				s.logger.Errorf("watch failed : %v", err)
				return
			}
			for _, ev := range msg.Events {
				if ev.Type == clientv3.EventTypeDelete {
					continue
				}
				v, err := parseValue(string(ev.Kv.Value))
				if err != nil {
					metrics.IncrInputRejected()
					s.logger.Warnf("skipping key %s : %v", ev.Kv.Key, err)
					continue
				}
				select {
				case s.buf <- v:
				case <-s.ctx.Done():
					return
				}
			}
		case <-s.ctx.Done():
			s.logger.Debug("exiting watch on path ", s.path)
			return
		}
	}
}

// fetchExisting lists the path in creation order, one page at a time, against
// a single revision so concurrent writes show up in the watch instead.
func (s *EtcdSource) fetchExisting(ctx context.Context) ([]int, int64, error) {
	opts := []clientv3.OpOption{
		clientv3.WithPrefix(),
		clientv3.WithSort(clientv3.SortByCreateRevision, clientv3.SortAscend),
		clientv3.WithLimit(int64(s.config.pageSize)),
	}

	var (
		values []int
		rev    int64
	)
	for {
		resp, err := s.cli.Get(ctx, s.path, opts...)
		if err != nil {
			return nil, 0, err
		}

		if rev == 0 {
			rev = resp.Header.Revision
			opts = append(opts, clientv3.WithRev(rev))
		}

		for _, kv := range resp.Kvs {
			v, err := parseValue(string(kv.Value))
			if err != nil {
				metrics.IncrInputRejected()
				s.logger.Warnf("skipping stored key %s : %v", kv.Key, err)
				continue
			}
			values = append(values, v)
		}

		if !resp.More || len(resp.Kvs) == 0 {
			break
		}
		lastCreate := resp.Kvs[len(resp.Kvs)-1].CreateRevision
		opts = append(opts, clientv3.WithMinCreateRev(lastCreate+1))
	}

	return values, rev, nil
}
