package health

// SessionsCheck reports the number of open sessions. Above limit the service
// is degraded; a limit of zero disables the bound.
func SessionsCheck(count func() int, limit int) CheckFunc {
	return func() Check {
		n := count()
		check := Check{
			Name:    "sessions",
			Status:  StatusHealthy,
			Details: map[string]any{"open": n},
		}
		if limit > 0 {
			check.Details["limit"] = limit
			if n > limit {
				check.Status = StatusDegraded
				check.Message = "Too many open sessions"
			}
		}
		return check
	}
}

// ShutdownCheck fails once the server has started shutting down, so load
// balancers stop routing new sessions to it.
func ShutdownCheck(shuttingDown func() bool) CheckFunc {
	return func() Check {
		if shuttingDown() {
			return Check{Name: "shutdown", Status: StatusUnhealthy, Message: "Shutting down"}
		}
		return Check{Name: "shutdown", Status: StatusHealthy}
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Status:  StatusHealthy,
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()
		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys
		if sys == 0 {
			return check
		}

		usagePercent := float64(alloc) / float64(sys) * 100
		check.Details["usage_percent"] = usagePercent
		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		}
		return check
	}
}
