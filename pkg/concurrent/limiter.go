package concurrent

type Limiter interface {
	// TryAdd enqueue one working credential without blocking.
	TryAdd() bool
	// Done dequeue one working credential.
	Done()
	// Working returns the number of credentials currently held.
	Working() int
}

type limiter struct {
	working chan struct{}
}

// NewLimiter returns a Limiter allowing maxConcurrency holders at once.
// Non-positive values are treated as 1.
func NewLimiter(maxConcurrency int) Limiter {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &limiter{
		working: make(chan struct{}, maxConcurrency),
	}
}

func (in *limiter) TryAdd() bool {
	select {
	case in.working <- struct{}{}:
		return true
	default:
		return false
	}
}

func (in *limiter) Done() {
	<-in.working
}

func (in *limiter) Working() int {
	return len(in.working)
}
