package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(context.Context) error { return nil }

func down(context.Context) error { return errors.New("connection refused") }

func serve(t *testing.T, hf http.HandlerFunc, path string) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	hf.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec.Code, resp
}

func TestLivenessHandler_ReportsUptime(t *testing.T) {
	now := time.Date(2024, 11, 2, 10, 0, 0, 0, time.UTC)
	h := NewHandler(WithClock(func() time.Time { return now }))
	now = now.Add(90*time.Second + 400*time.Millisecond)

	code, resp := serve(t, h.LivenessHandler(), "/health/live")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, "1m30s", resp.Uptime)
	assert.True(t, now.Equal(resp.Timestamp))
	assert.Empty(t, resp.Checks)
}

func TestLivenessHandler_IgnoresFailingChecks(t *testing.T) {
	h := NewHandler()
	h.Register("session-store", down)

	code, resp := serve(t, h.LivenessHandler(), "/health/live")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name       string
		critical   map[string]Checker
		optional   map[string]Checker
		wantCode   int
		wantStatus Status
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: StatusUp,
		},
		{
			name:       "all healthy",
			critical:   map[string]Checker{"redis": up, "catalog": up},
			optional:   map[string]Checker{"kafka": up},
			wantCode:   http.StatusOK,
			wantStatus: StatusUp,
		},
		{
			name:       "event broker down degrades",
			critical:   map[string]Checker{"redis": up, "catalog": up},
			optional:   map[string]Checker{"kafka": down},
			wantCode:   http.StatusOK,
			wantStatus: StatusDegraded,
		},
		{
			name:       "session store down",
			critical:   map[string]Checker{"redis": down, "catalog": up},
			optional:   map[string]Checker{"kafka": up},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusDown,
		},
		{
			name:       "critical down wins over degraded",
			critical:   map[string]Checker{"redis": down},
			optional:   map[string]Checker{"kafka": down},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: StatusDown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler()
			for name, c := range tt.critical {
				h.Register(name, c)
			}
			for name, c := range tt.optional {
				h.RegisterOptional(name, c)
			}

			code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, len(tt.critical)+len(tt.optional))
			for name := range tt.critical {
				assert.True(t, resp.Checks[name].Critical, name)
			}
			for name := range tt.optional {
				assert.False(t, resp.Checks[name].Critical, name)
			}
		})
	}
}

func TestReadinessHandler_ReportsCheckError(t *testing.T) {
	h := NewHandler()
	h.Register("redis", down)

	_, resp := serve(t, h.ReadinessHandler(), "/health/ready")

	result := resp.Checks["redis"]
	assert.Equal(t, StatusDown, result.Status)
	assert.Equal(t, "connection refused", result.Error)
	assert.GreaterOrEqual(t, result.DurationMS, int64(0))
}

func TestReadinessHandler_TimeoutCancelsSlowCheck(t *testing.T) {
	h := NewHandler(WithTimeout(20 * time.Millisecond))
	h.Register("redis", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	start := time.Now()
	code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, context.DeadlineExceeded.Error(), resp.Checks["redis"].Error)
}

func TestReadinessHandler_RunsChecksConcurrently(t *testing.T) {
	h := NewHandler(WithTimeout(time.Second))
	var running atomic.Int32
	release := make(chan struct{})

	// Each check waits until both are running, which only happens when they
	// run in parallel.
	wait := func(ctx context.Context) error {
		if running.Add(1) == 2 {
			close(release)
		}
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	h.Register("redis", wait)
	h.Register("catalog", wait)

	code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadinessHandler_Draining(t *testing.T) {
	h := NewHandler()
	called := false
	h.Register("redis", func(context.Context) error {
		called = true
		return nil
	})

	h.SetDraining()
	code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, StatusDraining, resp.Status)
	assert.False(t, called)
}

func TestRegister_ReplacesChecker(t *testing.T) {
	h := NewHandler()
	h.Register("redis", down)
	h.RegisterOptional("redis", down)

	code, resp := serve(t, h.ReadinessHandler(), "/health/ready")

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.False(t, resp.Checks["redis"].Critical)
}

func TestWithTimeout_IgnoresNonPositive(t *testing.T) {
	h := NewHandler(WithTimeout(0))

	assert.Equal(t, DefaultTimeout, h.timeout)
}
