package liveness

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrInvalidPID is returned for non-positive process identifiers.
var ErrInvalidPID = errors.New("invalid pid")

// State is a single probe observation.
type State struct {
	Alive  bool
	Detail string
}

// ProbeFunc inspects one process in the OS process table.
type ProbeFunc func(pid int) (State, error)

// Entry is the monitor's view of one process as of its last refresh.
type Entry struct {
	PID        int
	Alive      bool
	Detail     string
	ObservedAt time.Time
}

// Monitor is a process table snapshot shared across request handlers.
type Monitor struct {
	mu      sync.Mutex
	probe   ProbeFunc
	now     func() time.Time
	entries map[int]Entry
}

// Option customizes a Monitor.
type Option func(*Monitor)

// WithProbe replaces the platform probe.
func WithProbe(probe ProbeFunc) Option {
	return func(m *Monitor) {
		if probe != nil {
			m.probe = probe
		}
	}
}

// WithClock replaces the clock used to stamp observations.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		if now != nil {
			m.now = now
		}
	}
}

// New constructs a Monitor using the platform probe unless overridden.
func New(opts ...Option) *Monitor {
	m := &Monitor{
		probe:   platformProbe,
		now:     time.Now,
		entries: make(map[int]Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var shared = sync.OnceValue(func() *Monitor { return New() })

// Shared returns the process-wide monitor, creating it on first use.
func Shared() *Monitor {
	return shared()
}

// Refresh re-probes pid and updates the snapshot. When the probe fails the
// process is recorded as alive so callers never act on a process that may
// still be running.
func (m *Monitor) Refresh(pid int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.refreshLocked(pid)
}

// IsAlive reports the snapshot's knowledge of pid without probing.
func (m *Monitor) IsAlive(pid int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[pid]
	return ok && entry.Alive
}

// Check refreshes pid and reports whether it is alive, holding the lock for
// both steps. A non-nil error means the probe failed and alive is true.
func (m *Monitor) Check(pid int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, err := m.observeLocked(pid)
	return entry.Alive, err
}

// Observe refreshes pid and returns what the probe saw. An exited process
// yields an entry with Alive false and is not kept in the snapshot. A failed
// probe yields an alive entry with Detail "unknown" alongside the error.
func (m *Monitor) Observe(pid int) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.observeLocked(pid)
}

func (m *Monitor) observeLocked(pid int) (Entry, error) {
	if err := m.refreshLocked(pid); err != nil {
		if errors.Is(err, ErrInvalidPID) {
			return Entry{PID: pid}, err
		}
		return m.entries[pid], err
	}
	if entry, ok := m.entries[pid]; ok {
		return entry, nil
	}
	return Entry{PID: pid, Detail: "exited", ObservedAt: m.now()}, nil
}

func (m *Monitor) refreshLocked(pid int) error {
	if pid <= 0 {
		delete(m.entries, pid)
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	state, err := m.probe(pid)
	if err != nil {
		m.entries[pid] = Entry{PID: pid, Alive: true, Detail: "unknown", ObservedAt: m.now()}
		return fmt.Errorf("probe pid %d: %w", pid, err)
	}
	if !state.Alive {
		// Exited processes are dropped so the snapshot only holds live PIDs.
		delete(m.entries, pid)
		return nil
	}
	m.entries[pid] = Entry{PID: pid, Alive: true, Detail: state.Detail, ObservedAt: m.now()}
	return nil
}
