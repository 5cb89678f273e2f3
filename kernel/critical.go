package kernel

// Lock runs f with the tick interrupt held off. f must be short and must
// not block; on the board interrupts are masked for its whole duration.
func Lock(f func()) {
	s := enterCritical()
	f()
	exitCritical(s)
}

// Shared is a value read and written by both interrupt levels. Load and
// Store copy under Lock so a reader never sees a torn value.
type Shared[T any] struct {
	v T
}

func (s *Shared[T]) Load() T {
	st := enterCritical()
	v := s.v
	exitCritical(st)
	return v
}

func (s *Shared[T]) Store(v T) {
	st := enterCritical()
	s.v = v
	exitCritical(st)
}
