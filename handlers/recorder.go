package handlers

import "sync"

// Recorder keeps every value it is handed.
type Recorder struct {
	mu     sync.Mutex
	values []int
}

func (r *Recorder) Handle(value int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = append(r.values, value)
}

func (r *Recorder) Values() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.values))
	copy(out, r.values)
	return out
}
