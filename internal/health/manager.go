package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Manager coordinates health checks and aggregates results.
// It runs checks in parallel with a per-check timeout.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
	mu       sync.RWMutex
}

// NewManager creates a new health check manager with default 5-second timeout.
func NewManager() *Manager {
	return &Manager{
		checkers: make([]Checker, 0),
		timeout:  5 * time.Second,
	}
}

// WithTimeout sets a custom timeout for health checks.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeout = timeout
	return m
}

// AddChecker registers a new health checker.
func (m *Manager) AddChecker(checker Checker) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkers = append(m.checkers, checker)
}

// Check runs all registered checks in parallel and returns their results in
// registration order. A checker that panics or returns nil is reported as
// unhealthy instead of taking the report down.
func (m *Manager) Check(ctx context.Context) []*Result {
	m.mu.RLock()
	checkers := make([]Checker, len(m.checkers))
	copy(checkers, m.checkers)
	timeout := m.timeout
	m.mu.RUnlock()

	results := make([]*Result, len(checkers))
	var wg sync.WaitGroup

	for i, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = m.run(ctx, checker, timeout)
		}()
	}

	wg.Wait()
	return results
}

func (m *Manager) run(ctx context.Context, c Checker, timeout time.Duration) (result *Result) {
	checkCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = Unhealthy(fmt.Sprintf("check panicked: %v", r))
		}
		if result == nil {
			result = Unhealthy("check returned no result")
		}
		if result.Latency == 0 {
			result.Latency = time.Since(start)
		}
		result.Name = c.Name()
	}()

	return c.Check(checkCtx)
}

// OverallStatus is the worst status among results, healthy when there are
// none.
func OverallStatus(results []*Result) Status {
	overall := StatusHealthy
	for _, result := range results {
		overall = overall.Worse(result.Status)
	}
	return overall
}

// CheckNames returns the names of all registered checkers.
func (m *Manager) CheckNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, len(m.checkers))
	for i, checker := range m.checkers {
		names[i] = checker.Name()
	}
	return names
}
