package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"coverletter-backend/internal/shared/telemetry"
)

const (
	defaultCheckTimeout = 3 * time.Second

	statusOK          = "ok"
	statusUnavailable = "unavailable"
)

// Check reports whether a dependency is usable.
type Check func(ctx context.Context) error

// Service runs registered dependency checks.
type Service struct {
	mu      sync.RWMutex
	checks  map[string]Check
	timeout time.Duration
}

// Report is the health payload. Check failures are reported as
// "unavailable"; the underlying error is only logged.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

// NewService constructs a health service with no checks.
func NewService() *Service {
	return &Service{checks: make(map[string]Check), timeout: defaultCheckTimeout}
}

// Register adds a named check. Registering a name twice replaces the check.
func (s *Service) Register(name string, check Check) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Status runs every check with a bounded timeout.
func (s *Service) Status(ctx context.Context) Report {
	s.mu.RLock()
	checks := make(map[string]Check, len(s.checks))
	names := make([]string, 0, len(s.checks))
	for name, check := range s.checks {
		checks[name] = check
		names = append(names, name)
	}
	s.mu.RUnlock()
	sort.Strings(names)

	report := Report{OK: true}
	if len(names) == 0 {
		return report
	}
	report.Checks = make(map[string]string, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, s.timeout)
		err := checks[name](checkCtx)
		cancel()
		if err != nil {
			report.OK = false
			report.Checks[name] = statusUnavailable
			telemetry.Warn("health.check_failed", map[string]any{"check": name, "error": err.Error()})
			continue
		}
		report.Checks[name] = statusOK
	}
	return report
}
