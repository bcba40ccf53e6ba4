// Package health reports whether the trainer's frame loop and status
// server are alive. The checks back the /healthz and /readyz endpoints.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status values reported per check and overall
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthCheck is one component check.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check returns an error if the component is unhealthy
	Check(ctx context.Context) error
}

// HealthStatus is the aggregated result of every registered check.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the result of a single check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker runs registered checks on demand.
type HealthChecker struct {
	checks  map[string]HealthCheck
	mu      sync.RWMutex
	timeout time.Duration
}

// NewHealthChecker creates a checker whose readiness endpoint gives all
// checks five seconds to answer.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks:  make(map[string]HealthCheck),
		timeout: 5 * time.Second,
	}
}

// AddCheck registers check, replacing any check with the same name.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// Names returns the registered check names in sorted order.
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckHealth runs every check. The overall status is healthy only if all
// checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth, len(hc.checks)),
	}

	for name, check := range hc.checks {
		if err := check.Check(ctx); err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{
				Status:  StatusUnhealthy,
				Message: err.Error(),
			}
			continue
		}
		status.Checks[name] = ComponentHealth{Status: StatusHealthy}
	}

	return status
}

// LivenessHandler answers 200 as long as the process can serve HTTP.
func (hc *HealthChecker) LivenessHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ReadinessHandler runs all checks and answers 200 when they pass and 503
// otherwise, with the per-check results in the body.
func (hc *HealthChecker) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), hc.timeout)
	defer cancel()

	health := hc.CheckHealth(ctx)

	code := http.StatusOK
	if health.Status != StatusHealthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, health)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// FrameLoopHealthCheck fails when the driver loop has not published a frame
// for longer than maxAge, which means the trainer is hung.
type FrameLoopHealthCheck struct {
	lastFrame func() time.Time
	now       func() time.Time
	maxAge    time.Duration
}

// NewFrameLoopHealthCheck creates a frame loop check. lastFrame returns the
// time of the most recent frame, or the zero time before the first one.
func NewFrameLoopHealthCheck(lastFrame func() time.Time, maxAge time.Duration) *FrameLoopHealthCheck {
	return &FrameLoopHealthCheck{
		lastFrame: lastFrame,
		now:       time.Now,
		maxAge:    maxAge,
	}
}

// Name returns the name of this health check.
func (f *FrameLoopHealthCheck) Name() string {
	return "frame_loop"
}

// Check verifies that a frame was produced recently.
func (f *FrameLoopHealthCheck) Check(ctx context.Context) error {
	last := f.lastFrame()
	if last.IsZero() {
		return fmt.Errorf("no frame has been rendered yet")
	}
	if age := f.now().Sub(last); age > f.maxAge {
		return fmt.Errorf("last frame was %s ago (limit %s)", age.Round(time.Millisecond), f.maxAge)
	}
	return nil
}

// ListenerHealthCheck fails until the status server is bound.
type ListenerHealthCheck struct {
	listenerAddr func() string
}

// NewListenerHealthCheck creates a check over the bound listener address.
func NewListenerHealthCheck(listenerAddr func() string) *ListenerHealthCheck {
	return &ListenerHealthCheck{
		listenerAddr: listenerAddr,
	}
}

// Name returns the name of this health check.
func (l *ListenerHealthCheck) Name() string {
	return "status_server"
}

// Check verifies that the listener is active.
func (l *ListenerHealthCheck) Check(ctx context.Context) error {
	if l.listenerAddr() == "" {
		return fmt.Errorf("status listener is not active")
	}
	return nil
}

// MemoryHealthCheck fails when heap usage exceeds a limit.
type MemoryHealthCheck struct {
	maxMemoryMB    int64
	getMemoryUsage func() int64
}

// NewMemoryHealthCheck creates a health check for memory usage in MB.
func NewMemoryHealthCheck(maxMemoryMB int64, getMemoryUsage func() int64) *MemoryHealthCheck {
	return &MemoryHealthCheck{
		maxMemoryMB:    maxMemoryMB,
		getMemoryUsage: getMemoryUsage,
	}
}

// Name returns the name of this health check.
func (m *MemoryHealthCheck) Name() string {
	return "memory"
}

// Check verifies that memory usage is within the limit.
func (m *MemoryHealthCheck) Check(ctx context.Context) error {
	currentMB := m.getMemoryUsage()
	if currentMB > m.maxMemoryMB {
		return fmt.Errorf("memory usage %dMB exceeds limit %dMB", currentMB, m.maxMemoryMB)
	}
	return nil
}
