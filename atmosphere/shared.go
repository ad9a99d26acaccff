package atmosphere

import "sync"

// NewShared wraps the atmosphere to be used by many goroutines.
func NewShared(a *Atmosphere) *Shared {
	return &Shared{atmos: a}
}

// Shared serializes access to the atmosphere.
type Shared struct {
	mu    sync.Mutex
	atmos *Atmosphere
}

// Do runs the function with exclusive access to the atmosphere.
func (s *Shared) Do(fn func(a *Atmosphere) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.atmos)
}
