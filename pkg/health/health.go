// Package health runs named component probes and aggregates them into one
// status, worst first.
package health

import (
	"time"
)

// NewChecker creates an empty checker.
func NewChecker() *Checker {
	return &Checker{
		checks:      make(map[string]CheckFunc),
		readyChecks: make(map[string]CheckFunc),
		liveChecks:  make(map[string]CheckFunc),
	}
}

// Register adds a general health check.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// RegisterReadiness adds a check that gates traffic.
func (c *Checker) RegisterReadiness(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// RegisterLiveness adds a check that reports whether the process should be
// restarted.
func (c *Checker) RegisterLiveness(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// Check runs the general checks.
func (c *Checker) Check() Response {
	return run(c.snapshot(c.checks))
}

// CheckReadiness runs the readiness checks.
func (c *Checker) CheckReadiness() Response {
	return run(c.snapshot(c.readyChecks))
}

// CheckLiveness runs the liveness checks.
func (c *Checker) CheckLiveness() Response {
	return run(c.snapshot(c.liveChecks))
}

// snapshot copies a check set so probes run without holding the lock.
func (c *Checker) snapshot(checks map[string]CheckFunc) map[string]CheckFunc {
	c.mu.RLock()
	defer c.mu.RUnlock()
	set := make(map[string]CheckFunc, len(checks))
	for name, fn := range checks {
		set[name] = fn
	}
	return set
}

func run(set map[string]CheckFunc) Response {
	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]Check, len(set)),
	}

	for name, fn := range set {
		start := time.Now()
		check := fn()
		check.Duration = time.Since(start)
		check.LastChecked = start
		if check.Name == "" {
			check.Name = name
		}
		response.Checks[name] = check
		response.Status = worse(response.Status, check.Status)
	}

	return response
}

func worse(a, b Status) Status {
	switch {
	case a == StatusUnhealthy || b == StatusUnhealthy:
		return StatusUnhealthy
	case a == StatusDegraded || b == StatusDegraded:
		return StatusDegraded
	default:
		return StatusHealthy
	}
}
