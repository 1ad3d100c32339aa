// Package multipart implements a lazy, pull-driven RFC 7578
// multipart/form-data body producer.
//
// The Producer is an io.ReadCloser: each downstream Read is a pull
// request. Production is strictly single-cycle: one field entry is framed
// and drained at a time, and a pull arriving mid-cycle is deferred to a
// single slot rather than run concurrently. Output bytes are therefore
// ordered by field iteration order, and a field's framing text is always
// fully flushed before any of its payload bytes.
//
// Backpressure: payload pushes that fill the output buffer to its
// high-water mark suspend the active drain on a single-slot resume signal.
// The reader arms the signal whenever it drains the buffer back below the
// mark. Closing the producer rejects any pending wait, so an in-flight
// drain unwinds instead of hanging.
package multipart

import (
	"bytes"
	"io"
	"sync"

	"github.com/justapithecus/formwire/types"
)

// DefaultHighWater is the default output buffer high-water mark.
const DefaultHighWater = 64 * 1024

// producerState tracks the scheduler state machine.
//
// Transitions:
//
//	idle --pull--> producing --cycle done--> idle
//	producing --pull--> producingDeferred --cycle done--> producing
//	producing --iterator exhausted--> ended
//	any --error/close--> errored
//
// ended and errored are terminal; the producer is never re-entered.
type producerState int

const (
	stateIdle producerState = iota
	stateProducing
	stateProducingDeferred
	stateEnded
	stateErrored
)

// Option customizes a Producer.
type Option func(*Producer)

// WithGenerator replaces the boundary generator. Used by tests that need
// deterministic boundaries.
func WithGenerator(g Generator) Option {
	return func(p *Producer) { p.gen = g }
}

// WithHighWater sets the output buffer high-water mark in bytes.
func WithHighWater(n int) Option {
	return func(p *Producer) {
		if n > 0 {
			p.highWater = n
		}
	}
}

// Producer streams a multipart/form-data body for an ordered field list.
// Construct with NewProducer; read the body bytes with Read; Close to
// cancel early.
type Producer struct {
	gen       Generator
	boundary  string
	highWater int
	fields    []types.Field

	mu    sync.Mutex // guards state, out, err, next
	state producerState
	out   bytes.Buffer
	err   error
	next  int

	// pulls is the single-slot pull request channel: a pull arriving
	// while a cycle is in flight parks here and starts the next cycle
	// immediately on completion.
	pulls  chan struct{}
	ready  *signal // armed when out gains bytes or the stream terminates
	resume *signal // armed when the reader drains out below highWater
	done   chan struct{}

	closeOnce sync.Once
}

// NewProducer creates a producer for fields. No bytes are produced until
// the first Read.
func NewProducer(fields []types.Field, opts ...Option) *Producer {
	p := &Producer{
		gen:       RandomGenerator{},
		highWater: DefaultHighWater,
		fields:    fields,
		pulls:     make(chan struct{}, 1),
		ready:     newSignal(),
		resume:    newSignal(),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.boundary = p.gen.Generate()

	go p.run()
	return p
}

// Boundary returns the top-level boundary token for this body.
func (p *Producer) Boundary() string { return p.boundary }

// ContentType returns the Content-Type header value for this body.
func (p *Producer) ContentType() string {
	return types.ContentTypeMultipartPrefix + p.boundary + "; charset=UTF-8"
}

// Read implements io.Reader. It returns buffered body bytes when
// available; otherwise it registers a pull (deferred if a cycle is in
// flight) and blocks until bytes arrive, the body ends, or the producer
// fails.
func (p *Producer) Read(b []byte) (int, error) {
	for {
		p.mu.Lock()
		if p.out.Len() > 0 {
			n, _ := p.out.Read(b)
			below := p.out.Len() < p.highWater
			p.mu.Unlock()
			if below {
				p.resume.Set()
			}
			return n, nil
		}
		switch p.state {
		case stateEnded:
			p.mu.Unlock()
			return 0, io.EOF
		case stateErrored:
			err := p.err
			p.mu.Unlock()
			return 0, err
		case stateProducing:
			// Defer: the cycle in flight will start the next one on
			// completion instead of this pull starting it now.
			p.state = stateProducingDeferred
		}
		p.mu.Unlock()

		select {
		case p.pulls <- struct{}{}:
		default:
		}

		if err := p.ready.Wait(p.done); err != nil {
			p.mu.Lock()
			if p.err != nil {
				err = p.err
			}
			p.mu.Unlock()
			return 0, err
		}
	}
}

// Close cancels the stream. Any pending backpressure wait inside an
// active drain is rejected so it unwinds, and no further field
// productions start. Close after the body ended normally is a no-op.
// Always returns nil.
func (p *Producer) Close() error {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		if p.state != stateEnded && p.state != stateErrored {
			p.state = stateErrored
			p.err = ErrProducerClosed
		}
		p.mu.Unlock()
		close(p.done)
	})
	return nil
}

// run is the scheduler loop: one production cycle per pull, the closing
// delimiter on iterator exhaustion.
func (p *Producer) run() {
	for {
		select {
		case <-p.done:
			return
		case <-p.pulls:
		}

		p.mu.Lock()
		if p.state == stateErrored {
			p.mu.Unlock()
			return
		}
		p.state = stateProducing

		if p.next >= len(p.fields) {
			p.out.WriteString("--" + p.boundary + "--")
			p.state = stateEnded
			p.mu.Unlock()
			p.ready.Set()
			return
		}
		field := p.fields[p.next]
		p.next++
		p.mu.Unlock()

		w := &frameWriter{sink: p, boundary: p.boundary, gen: p.gen}
		if err := w.writeField(field); err != nil {
			p.fail(err)
			return
		}

		// Cycle complete. A pull deferred mid-cycle is parked in the
		// pulls slot, so the loop starts the next cycle immediately;
		// otherwise go idle and wait for the next pull.
		p.mu.Lock()
		switch p.state {
		case stateProducingDeferred:
			p.state = stateProducing
		case stateProducing:
			p.state = stateIdle
		}
		p.mu.Unlock()
	}
}

// push appends bytes to the output buffer and wakes a waiting reader.
// When the buffer reaches the high-water mark, push blocks until the
// reader drains it below the mark or the producer is closed.
func (p *Producer) push(b []byte) error {
	select {
	case <-p.done:
		return ErrProducerClosed
	default:
	}

	p.mu.Lock()
	p.out.Write(b)
	full := p.out.Len() >= p.highWater
	p.mu.Unlock()
	p.ready.Set()

	if !full {
		return nil
	}
	return p.resume.Wait(p.done)
}

// fail records err, moves to the terminal errored state, and wakes any
// waiting reader. The first failure wins.
func (p *Producer) fail(err error) {
	p.mu.Lock()
	if p.state != stateEnded && p.state != stateErrored {
		p.state = stateErrored
		p.err = err
	}
	p.mu.Unlock()
	p.ready.Set()
}

// Verify Producer implements io.ReadCloser.
var _ io.ReadCloser = (*Producer)(nil)
