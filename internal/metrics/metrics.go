// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Outcome labels shared by the credential flows.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Credential flow metrics. outcome: "success", "rejected" or "error".
	IncRegistration(outcome string)
	IncLogin(outcome string)
	IncRefresh(outcome string)

	// Password hashing cost
	ObservePasswordHashDuration(duration time.Duration)

	// Requests turned away by the per-IP limiter
	IncRateLimited(route string)
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
