package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/BeameryHQ/async-callbacks/logging"
	"github.com/BeameryHQ/async-callbacks/metrics"
	"github.com/sirupsen/logrus"
)

const DefaultSentinel = 0

type loopConfig struct {
	sentinel         int
	dispatchSentinel bool
	logger           *logrus.Entry
}

func newLoopConfig() *loopConfig {
	return &loopConfig{
		sentinel:         DefaultSentinel,
		dispatchSentinel: true,
	}
}

type LoopOption func(config *loopConfig)

// WithSentinel changes the value that ends the loop.
func WithSentinel(sentinel int) LoopOption {
	return func(config *loopConfig) {
		config.sentinel = sentinel
	}
}

// WithoutSentinelDispatch stops the loop before the sentinel reaches the handler.
func WithoutSentinelDispatch() LoopOption {
	return func(config *loopConfig) {
		config.dispatchSentinel = false
	}
}

func WithLogger(logger *logrus.Entry) LoopOption {
	return func(config *loopConfig) {
		config.logger = logger
	}
}

// EventLoop reads values from a Source and hands each one to a Handler until
// the sentinel shows up. By default the handler also sees the sentinel.
type EventLoop struct {
	config *loopConfig
	logger *logrus.Entry
	source Source
}

func NewEventLoop(source Source, opts ...LoopOption) *EventLoop {
	config := newLoopConfig()
	for _, o := range opts {
		o(config)
	}

	logger := config.logger
	if logger == nil {
		logger = logging.ForComponent("loop")
	}

	return &EventLoop{
		config: config,
		logger: logger,
		source: source,
	}
}

// Run blocks until the sentinel was read, the source failed or ctx is done.
func (l *EventLoop) Run(ctx context.Context, h Handler) error {
	if h == nil {
		return fmt.Errorf("event loop : nil handler")
	}

	dispatched := 0
	for {
		if err := ctx.Err(); err != nil {
			metrics.IncrLoopsFailed()
			return err
		}

		value, err := l.source.Next(ctx)
		if err != nil {
			metrics.IncrLoopsFailed()
			if errors.Is(err, ErrSourceClosed) {
				l.logger.Warnf("source closed before the sentinel after %d values", dispatched)
				return err
			}
			return fmt.Errorf("reading next value : %w", err)
		}

		last := value == l.config.sentinel
		if last {
			metrics.IncrSentinelsSeen()
		}

		if !last || l.config.dispatchSentinel {
			metrics.ObserveHandlerElapsed(func() {
				h.Handle(value)
			})
			metrics.IncrValuesDispatched()
			dispatched++
		}

		if last {
			l.logger.Debugf("sentinel %d read, %d values dispatched", value, dispatched)
			metrics.IncrLoopsFinished()
			return nil
		}
	}
}

// RunEventLoop is the one shot form of NewEventLoop(source, opts...).Run(ctx, h).
func RunEventLoop(ctx context.Context, source Source, h Handler, opts ...LoopOption) error {
	return NewEventLoop(source, opts...).Run(ctx, h)
}
