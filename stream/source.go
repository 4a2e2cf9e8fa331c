package stream

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// Source produces the next value, blocking until one is available.
type Source interface {
	Next(ctx context.Context) (int, error)
}

type SourceFunc func(ctx context.Context) (int, error)

func (f SourceFunc) Next(ctx context.Context) (int, error) {
	return f(ctx)
}

// SliceSource replays a fixed list of values and then reports ErrSourceClosed.
type SliceSource struct {
	mu     sync.Mutex
	values []int
	pos    int
}

func NewSliceSource(values ...int) *SliceSource {
	return &SliceSource{
		values: values,
	}
}

func (s *SliceSource) Next(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.values) {
		return 0, ErrSourceClosed
	}
	v := s.values[s.pos]
	s.pos++
	return v, nil
}

// Remaining reports how many values haven't been consumed yet.
func (s *SliceSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values) - s.pos
}

func parseValue(token string) (int, error) {
	token = strings.TrimSpace(token)
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, &InputError{
			Token: token,
			Err:   err,
		}
	}
	return n, nil
}
