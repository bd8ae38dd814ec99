package health

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"coverletter-backend/internal/shared/telemetry"
)

func TestStatusWithoutChecksIsOK(t *testing.T) {
	report := NewService().Status(context.Background())
	assert.True(t, report.OK)
	assert.Empty(t, report.Checks)
}

func TestStatusReportsFailingCheck(t *testing.T) {
	svc := NewService()
	svc.Register("database", func(context.Context) error { return nil })
	svc.Register("resume", func(context.Context) error { return errors.New("resume.pdf not found") })

	report := svc.Status(context.Background())
	assert.False(t, report.OK)
	assert.Equal(t, "ok", report.Checks["database"])
	assert.Equal(t, "unavailable", report.Checks["resume"])
}

func TestStatusLogsFailureDetailOnly(t *testing.T) {
	var logs bytes.Buffer
	telemetry.SetOutput(&logs, "info", "json")
	t.Cleanup(func() { telemetry.SetOutput(os.Stdout, "info", "json") })

	svc := NewService()
	svc.Register("resume", func(context.Context) error { return errors.New("open /srv/data/resume.pdf: no such file") })

	report := svc.Status(context.Background())
	assert.NotContains(t, report.Checks["resume"], "/srv/data")
	assert.Contains(t, logs.String(), "health.check_failed")
	assert.Contains(t, logs.String(), "/srv/data/resume.pdf")
}
