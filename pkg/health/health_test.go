package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func status(s Status) CheckFunc {
	return func() Check { return Check{Status: s} }
}

func TestNewChecker(t *testing.T) {
	c := NewChecker()
	require.NotNil(t, c)

	resp := c.Check()
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Empty(t, resp.Checks)
}

func TestChecker_SetsAreIndependent(t *testing.T) {
	c := NewChecker()
	var general, ready, live int
	c.Register("g", func() Check { general++; return Check{Status: StatusHealthy} })
	c.RegisterReadiness("r", func() Check { ready++; return Check{Status: StatusHealthy} })
	c.RegisterLiveness("l", func() Check { live++; return Check{Status: StatusHealthy} })

	c.Check()
	assert.Equal(t, []int{1, 0, 0}, []int{general, ready, live})
	c.CheckReadiness()
	assert.Equal(t, []int{1, 1, 0}, []int{general, ready, live})
	c.CheckLiveness()
	assert.Equal(t, []int{1, 1, 1}, []int{general, ready, live})
}

func TestChecker_WorstStatusWins(t *testing.T) {
	tests := []struct {
		name   string
		checks []Status
		want   Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy beats degraded", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for i, s := range tt.checks {
				c.Register(string(rune('a'+i)), status(s))
			}
			assert.Equal(t, tt.want, c.Check().Status)
		})
	}
}

func TestChecker_FillsNameAndTiming(t *testing.T) {
	c := NewChecker()
	c.Register("slow", func() Check {
		time.Sleep(2 * time.Millisecond)
		return Check{Status: StatusHealthy}
	})

	check := c.Check().Checks["slow"]
	assert.Equal(t, "slow", check.Name)
	assert.GreaterOrEqual(t, check.Duration, 2*time.Millisecond)
	assert.False(t, check.LastChecked.IsZero())
}

func TestSessionsCheck(t *testing.T) {
	open := 3
	count := func() int { return open }

	check := SessionsCheck(count, 0)()
	assert.Equal(t, StatusHealthy, check.Status)
	assert.Equal(t, 3, check.Details["open"])
	assert.NotContains(t, check.Details, "limit")

	check = SessionsCheck(count, 3)()
	assert.Equal(t, StatusHealthy, check.Status)

	open = 4
	check = SessionsCheck(count, 3)()
	assert.Equal(t, StatusDegraded, check.Status)
	assert.NotEmpty(t, check.Message)
}

func TestShutdownCheck(t *testing.T) {
	down := false
	fn := ShutdownCheck(func() bool { return down })

	assert.Equal(t, StatusHealthy, fn().Status)
	down = true
	assert.Equal(t, StatusUnhealthy, fn().Status)
}

func TestMemoryCheck(t *testing.T) {
	tests := []struct {
		name       string
		alloc, sys uint64
		want       Status
	}{
		{"normal", 100, 1000, StatusHealthy},
		{"high", 950, 1000, StatusDegraded},
		{"unknown total", 100, 0, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := MemoryCheck(func() (uint64, uint64) { return tt.alloc, tt.sys })()
			assert.Equal(t, tt.want, check.Status)
			assert.Equal(t, "memory", check.Name)
		})
	}
}

func TestHandlers(t *testing.T) {
	c := NewChecker()
	c.Register("sessions", status(StatusDegraded))
	c.RegisterReadiness("shutdown", status(StatusDegraded))
	c.RegisterLiveness("alive", status(StatusHealthy))

	tests := []struct {
		name    string
		handler http.HandlerFunc
		code    int
		status  Status
	}{
		{"general degraded is still 200", c.HTTPHandler(), http.StatusOK, StatusDegraded},
		{"readiness degraded is 503", c.ReadinessHandler(), http.StatusServiceUnavailable, StatusDegraded},
		{"liveness healthy", c.LivenessHandler(), http.StatusOK, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.code, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp Response
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestHTTPHandler_Unhealthy(t *testing.T) {
	c := NewChecker()
	c.Register("broken", status(StatusUnhealthy))

	rr := httptest.NewRecorder()
	c.HTTPHandler()(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
