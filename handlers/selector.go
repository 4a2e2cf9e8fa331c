package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"

	"github.com/BeameryHQ/async-callbacks/stream"
	"github.com/serialx/hashring"
)

var ErrNoHandlers = errors.New("no handlers to select from")

// Selector picks one handler out of a fixed set. Keys are spread over the
// set with a consistent hash ring so a given key always lands on the same one.
type Selector struct {
	names    []string
	handlers map[string]stream.Handler
	ring     *hashring.HashRing
}

func NewSelector(handlers map[string]stream.Handler) (*Selector, error) {
	if len(handlers) == 0 {
		return nil, ErrNoHandlers
	}

	names := make([]string, 0, len(handlers))
	for name, h := range handlers {
		if h == nil {
			return nil, fmt.Errorf("handler %s is nil", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return &Selector{
		names:    names,
		handlers: handlers,
		ring:     hashring.New(names),
	}, nil
}

// SelectKey returns the handler the key maps to.
func (s *Selector) SelectKey(key string) (string, stream.Handler, error) {
	name, ok := s.ring.GetNode(key)
	if !ok {
		return "", nil, fmt.Errorf("not found : %s", key)
	}
	return name, s.handlers[name], nil
}

// Select draws a key from rng. The caller owns the random source.
func (s *Selector) Select(rng *rand.Rand) (string, stream.Handler, error) {
	return s.SelectKey(strconv.Itoa(rng.Int()))
}

func (s *Selector) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
