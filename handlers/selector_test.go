package handlers

import (
	"context"
	"math/rand"
	"testing"

	"github.com/BeameryHQ/async-callbacks/stream"
	"github.com/stretchr/testify/assert"
)

func twoHandlers(trace *[]string) map[string]stream.Handler {
	return map[string]stream.Handler{
		"alert": stream.HandlerFunc(func(v int) { *trace = append(*trace, "alert") }),
		"print": stream.HandlerFunc(func(v int) { *trace = append(*trace, "print") }),
	}
}

func TestSelector_Empty(t *testing.T) {
	_, err := NewSelector(nil)
	assert.Equal(t, ErrNoHandlers, err)

	_, err = NewSelector(map[string]stream.Handler{"nil": nil})
	assert.Error(t, err)
}

func TestSelector_SelectKeyIsStable(t *testing.T) {
	var trace []string
	s, err := NewSelector(twoHandlers(&trace))
	assert.NoError(t, err)
	assert.Equal(t, []string{"alert", "print"}, s.Names())

	for _, key := range []string{"1", "2", "session-a", "session-b"} {
		first, _, err := s.SelectKey(key)
		assert.NoError(t, err)
		second, _, err := s.SelectKey(key)
		assert.NoError(t, err)
		assert.Equal(t, first, second, key)
	}
}

func TestSelector_SelectCoversTheSet(t *testing.T) {
	var trace []string
	s, err := NewSelector(twoHandlers(&trace))
	assert.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	seen := map[string]int{}
	for i := 0; i < 200; i++ {
		name, h, err := s.Select(rng)
		assert.NoError(t, err)
		assert.NotNil(t, h)
		seen[name]++
	}

	assert.Len(t, seen, 2)
	assert.True(t, seen["alert"] > 0)
	assert.True(t, seen["print"] > 0)
}

func TestSelector_SameSeedSameChoice(t *testing.T) {
	var trace []string
	s, err := NewSelector(twoHandlers(&trace))
	assert.NoError(t, err)

	a, _, _ := s.Select(rand.New(rand.NewSource(99)))
	b, _, _ := s.Select(rand.New(rand.NewSource(99)))
	assert.Equal(t, a, b)
}

func TestSelector_SelectedHandlerDrivesLoop(t *testing.T) {
	var trace []string
	s, err := NewSelector(twoHandlers(&trace))
	assert.NoError(t, err)

	name, h, err := s.SelectKey("fixed")
	assert.NoError(t, err)

	err = stream.RunEventLoop(context.Background(), stream.NewSliceSource(1, 2, 0), h)
	assert.NoError(t, err)
	assert.Equal(t, []string{name, name, name}, trace)
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	err := stream.RunEventLoop(context.Background(), stream.NewSliceSource(3, 1, 0), r)
	assert.NoError(t, err)

	values := r.Values()
	assert.Equal(t, []int{3, 1, 0}, values)

	values[0] = 100
	assert.Equal(t, 3, r.Values()[0])
}
