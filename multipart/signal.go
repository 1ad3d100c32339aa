package multipart

// signal is a single-slot notifier. Set arms the slot; arming an already
// armed slot is a no-op. Wait consumes an armed slot immediately, or blocks
// until the next Set. At most one waiter is ever outstanding: the producer
// is single-threaded, so the only waiters are the active production cycle
// (resume) and the downstream reader (ready).
//
// A Wait interrupted by done unwinds with ErrProducerClosed instead of
// hanging, which is how cancellation rejects a pending backpressure wait.
type signal struct {
	ch chan struct{}
}

func newSignal() *signal {
	return &signal{ch: make(chan struct{}, 1)}
}

// Set arms the slot, waking the current waiter if one exists.
func (s *signal) Set() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Wait blocks until the slot is armed or done is closed.
func (s *signal) Wait(done <-chan struct{}) error {
	select {
	case <-s.ch:
		return nil
	case <-done:
		return ErrProducerClosed
	}
}
