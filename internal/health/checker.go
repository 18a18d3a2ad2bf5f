// Package health runs the diagnostics behind 'shopfront doctor': one
// check per dependency the client needs (configuration, local storage,
// the backend contract, the backend itself and the stored session).
//
// A doctor run builds a Manager, registers its checks in the order they
// should be reported, and folds the results with OverallStatus:
//
//	m := health.NewManager()
//	m.AddChecker(health.NewStorageChecker("file", store))
//	m.AddChecker(health.NewBackendChecker(baseURL, client))
//	m.AddChecker(health.NewSessionChecker(tokens))
//	results := m.Check(ctx)
//	status := health.OverallStatus(results)
package health

import (
	"context"
	"time"
)

// Checker verifies one dependency. Check must honour ctx; the Manager
// gives every check its own deadline.
type Checker interface {
	// Name identifies the check in reports: lowercase, hyphenated
	// ("storage", "backend-api").
	Name() string
	Check(ctx context.Context) *Result
}

// Status is the outcome of a check, ordered from best to worst.
type Status string

const (
	StatusHealthy Status = "healthy"
	// StatusDegraded means the client works but the user will notice: a
	// slow backend, an expired session.
	StatusDegraded Status = "degraded"
	// StatusUnhealthy means commands depending on the component fail.
	StatusUnhealthy Status = "unhealthy"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) severity() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	default:
		return 2
	}
}

// Worse returns whichever of s and other is more severe. Unknown values
// count as unhealthy.
func (s Status) Worse(other Status) Status {
	if other.severity() > s.severity() {
		return other
	}
	return s
}

// Result is what one check reports. It is rendered by doctor as text or
// encoded as JSON/YAML.
type Result struct {
	// Name is filled in by the Manager from the checker.
	Name    string         `json:"name" yaml:"name"`
	Status  Status         `json:"status" yaml:"status"`
	Message string         `json:"message" yaml:"message"`
	Details map[string]any `json:"details,omitempty" yaml:"details,omitempty"`
	Latency time.Duration  `json:"latency" yaml:"latency"`
}

// NewResult returns a result with an empty details map.
func NewResult(status Status, message string) *Result {
	return &Result{
		Status:  status,
		Message: message,
		Details: make(map[string]any),
	}
}

// WithDetail records a value shown under the check, such as the storage
// driver or the number of products.
func (r *Result) WithDetail(key string, value any) *Result {
	if r.Details == nil {
		r.Details = make(map[string]any)
	}
	r.Details[key] = value
	return r
}

func (r *Result) WithLatency(latency time.Duration) *Result {
	r.Latency = latency
	return r
}

// Failed reports whether the check needs the user's attention.
func (r *Result) Failed() bool {
	return r.Status != StatusHealthy
}

func Healthy(message string) *Result   { return NewResult(StatusHealthy, message) }
func Degraded(message string) *Result  { return NewResult(StatusDegraded, message) }
func Unhealthy(message string) *Result { return NewResult(StatusUnhealthy, message) }

// CheckFunc turns a closure into a Checker; doctor uses it for checks that
// only read the loaded configuration.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) *Result
}

func NewCheckFunc(name string, fn func(ctx context.Context) *Result) *CheckFunc {
	return &CheckFunc{name: name, fn: fn}
}

func (c *CheckFunc) Name() string                      { return c.name }
func (c *CheckFunc) Check(ctx context.Context) *Result { return c.fn(ctx) }
