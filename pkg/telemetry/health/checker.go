package health

import (
	"context"
	"errors"
	"sync"
	"time"
)

// CheckFunc performs one check. It returns nil when the component is
// usable, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// Check statuses.
const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Overall statuses.
const (
	StatusReady    = "ready"
	StatusDegraded = "degraded"
)

// ErrDisabled is returned by a CheckFunc for a component that is turned
// off in the configuration. It is reported as StatusDisabled, not as a
// failure.
var ErrDisabled = errors.New("disabled")

// CheckResult is the result of a single check.
type CheckResult struct {
	Name     string        `json:"name"`
	Status   string        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Report is the outcome of running every registered check.
type Report struct {
	// Status is StatusReady when no check is unhealthy, StatusDegraded
	// otherwise.
	Status    string        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
}

// Healthy reports whether no check failed.
func (r Report) Healthy() bool {
	return r.Status == StatusReady
}

type namedCheck struct {
	name  string
	check CheckFunc
}

// Checker runs named checks concurrently, each under its own timeout.
// Results are reported in registration order.
type Checker struct {
	mu           sync.RWMutex
	checks       []namedCheck
	checkTimeout time.Duration
}

// New creates a checker with the given per-check timeout. If timeout is 0,
// it defaults to 5 seconds.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 5 * time.Second
	}
	return &Checker{checkTimeout: checkTimeout}
}

// Register adds a check. A check with the same name is replaced in place.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.checks {
		if c.checks[i].name == name {
			c.checks[i].check = check
			return
		}
	}
	c.checks = append(c.checks, namedCheck{name: name, check: check})
}

// Names returns the registered check names in order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.checks))
	for i, nc := range c.checks {
		names[i] = nc.name
	}
	return names
}

// Run performs every registered check and aggregates the results.
func (c *Checker) Run(ctx context.Context) Report {
	c.mu.RLock()
	checks := append([]namedCheck(nil), c.checks...)
	c.mu.RUnlock()

	results := make([]CheckResult, len(checks))
	var wg sync.WaitGroup
	for i, nc := range checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = c.runCheck(ctx, nc)
		}()
	}
	wg.Wait()

	status := StatusReady
	for _, r := range results {
		if r.Status == StatusUnhealthy {
			status = StatusDegraded
		}
	}

	return Report{
		Status:    status,
		Checks:    results,
		Timestamp: time.Now(),
	}
}

// runCheck executes a single check with timeout.
func (c *Checker) runCheck(ctx context.Context, nc namedCheck) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
	defer cancel()

	start := time.Now()

	errChan := make(chan error, 1)
	go func() {
		errChan <- nc.check(checkCtx)
	}()

	select {
	case err := <-errChan:
		result := CheckResult{Name: nc.name, Status: StatusOK, Duration: time.Since(start)}
		switch {
		case errors.Is(err, ErrDisabled):
			result.Status = StatusDisabled
		case err != nil:
			result.Status = StatusUnhealthy
			result.Message = err.Error()
		}
		return result

	case <-checkCtx.Done():
		return CheckResult{
			Name:     nc.name,
			Status:   StatusUnhealthy,
			Message:  "check timed out",
			Duration: time.Since(start),
		}
	}
}
