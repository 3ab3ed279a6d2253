package sound

import (
	"context"
	"sync"
)

// Ready is the one-shot readiness signal for a pool. It settles exactly once;
// every observer, before or after settlement, sees the same outcome. There is
// no cancellation: in-flight loads always run to a terminal state.
type Ready struct {
	once sync.Once
	done chan struct{}
	err  error
}

func newReady() *Ready {
	return &Ready{done: make(chan struct{})}
}

// settle records the outcome. Later calls are ignored.
func (r *Ready) settle(err error) bool {
	settled := false
	r.once.Do(func() {
		r.err = err
		close(r.done)
		settled = true
	})
	return settled
}

// Done is closed once the signal settles.
func (r *Ready) Done() <-chan struct{} {
	return r.done
}

// Resolved reports whether the signal has settled.
func (r *Ready) Resolved() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Err returns nil before settlement and after a successful load, or the
// *LoadError the signal rejected with.
func (r *Ready) Err() error {
	select {
	case <-r.done:
		return r.err
	default:
		return nil
	}
}

// Wait blocks until the signal settles or ctx is done. A ctx error only ends
// this wait; loading carries on.
func (r *Ready) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
