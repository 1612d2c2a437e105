package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// OutcomeCounts holds per-outcome counters for one flow.
type OutcomeCounts struct {
	Success  uint64
	Rejected uint64
	Error    uint64
}

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Registrations       OutcomeCounts
	Logins              OutcomeCounts
	Refreshes           OutcomeCounts
	PasswordHashCount   uint64
	PasswordHashTotalNs int64
	RateLimitedByRoute  map[string]uint64
}

// RateLimitedRoutes returns the routes with rate-limit counters, sorted.
func (s Snapshot) RateLimitedRoutes() []string {
	routes := make([]string, 0, len(s.RateLimitedByRoute))
	for route := range s.RateLimitedByRoute {
		routes = append(routes, route)
	}
	sort.Strings(routes)
	return routes
}

type outcomeCounters struct {
	success  uint64
	rejected uint64
	errors   uint64
}

func (c *outcomeCounters) inc(outcome string) {
	switch outcome {
	case OutcomeSuccess:
		atomic.AddUint64(&c.success, 1)
	case OutcomeRejected:
		atomic.AddUint64(&c.rejected, 1)
	default:
		atomic.AddUint64(&c.errors, 1)
	}
}

func (c *outcomeCounters) load() OutcomeCounts {
	return OutcomeCounts{
		Success:  atomic.LoadUint64(&c.success),
		Rejected: atomic.LoadUint64(&c.rejected),
		Error:    atomic.LoadUint64(&c.errors),
	}
}

// InMemoryRecorder stores metrics in memory for tests and the /metrics endpoint.
type InMemoryRecorder struct {
	registrations       outcomeCounters
	logins              outcomeCounters
	refreshes           outcomeCounters
	passwordHashCount   uint64
	passwordHashTotalNs int64

	mu          sync.Mutex
	rateLimited map[string]uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{rateLimited: make(map[string]uint64)}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	m.mu.Lock()
	limited := make(map[string]uint64, len(m.rateLimited))
	for route, n := range m.rateLimited {
		limited[route] = n
	}
	m.mu.Unlock()

	return Snapshot{
		Registrations:       m.registrations.load(),
		Logins:              m.logins.load(),
		Refreshes:           m.refreshes.load(),
		PasswordHashCount:   atomic.LoadUint64(&m.passwordHashCount),
		PasswordHashTotalNs: atomic.LoadInt64(&m.passwordHashTotalNs),
		RateLimitedByRoute:  limited,
	}
}

// IncRegistration counts a registration attempt by outcome.
func (m *InMemoryRecorder) IncRegistration(outcome string) {
	m.registrations.inc(outcome)
}

// IncLogin counts a login attempt by outcome.
func (m *InMemoryRecorder) IncLogin(outcome string) {
	m.logins.inc(outcome)
}

// IncRefresh counts a refresh attempt by outcome.
func (m *InMemoryRecorder) IncRefresh(outcome string) {
	m.refreshes.inc(outcome)
}

// ObservePasswordHashDuration records the time spent deriving a password hash.
func (m *InMemoryRecorder) ObservePasswordHashDuration(duration time.Duration) {
	atomic.AddUint64(&m.passwordHashCount, 1)
	atomic.AddInt64(&m.passwordHashTotalNs, duration.Nanoseconds())
}

// IncRateLimited counts a request rejected by the rate limiter.
func (m *InMemoryRecorder) IncRateLimited(route string) {
	m.mu.Lock()
	m.rateLimited[route]++
	m.mu.Unlock()
}
