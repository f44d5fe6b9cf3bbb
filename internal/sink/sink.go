// Package sink delivers generated events to their destinations: a structured
// JSON log and a human-readable text log per service.
package sink

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gyaneshwarpardhi/banksim/internal/event"
)

// ErrUnavailable matches every *UnavailableError.
var ErrUnavailable = errors.New("sink unavailable")

// UnavailableError wraps a failed write to one or more destinations.
type UnavailableError struct {
	Sink string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("sink %s unavailable: %v", e.Sink, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Sink accepts one event at a time. Writes are not retried.
type Sink interface {
	Emit(ev *event.Event) error
	Close() error
}

// Fanout writes every event to all of its sinks. A failure in one sink does
// not stop delivery to the others.
type Fanout struct {
	sinks []Sink
}

// NewFanout returns a Fanout over sinks.
func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Emit(ev *event.Event) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Emit(ev); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return &UnavailableError{Sink: "fanout", Err: errors.Join(errs...)}
}

func (f *Fanout) Close() error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Memory keeps events in process. Set Fail to make Emit return an error and
// OnEmit to observe each accepted event.
type Memory struct {
	mu     sync.Mutex
	events []*event.Event
	Fail   error
	OnEmit func(ev *event.Event)
}

func (m *Memory) Emit(ev *event.Event) error {
	m.mu.Lock()
	if m.Fail != nil {
		err := m.Fail
		m.mu.Unlock()
		return &UnavailableError{Sink: "memory", Err: err}
	}
	m.events = append(m.events, ev)
	hook := m.OnEmit
	m.mu.Unlock()
	if hook != nil {
		hook(ev)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Events returns a snapshot of what was emitted.
func (m *Memory) Events() []*event.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*event.Event(nil), m.events...)
}

// SetFail changes the failure mode under the lock.
func (m *Memory) SetFail(err error) {
	m.mu.Lock()
	m.Fail = err
	m.mu.Unlock()
}
