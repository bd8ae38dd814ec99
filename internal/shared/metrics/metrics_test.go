package metrics

import (
	"bytes"
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	var buf bytes.Buffer
	writeHistogram(&buf, "d", "duration", h.Snapshot())
	out := buf.String()

	for _, want := range []string{
		`d_bucket{le="10"} 1`,
		`d_bucket{le="100"} 2`,
		`d_bucket{le="+Inf"} 3`,
		`d_sum 555`,
		`d_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestRenderIncludesFailureCodes(t *testing.T) {
	IncFailure("MISSING_INPUT")
	IncFailure("MISSING_INPUT")

	out := Render()
	if !strings.Contains(out, `cover_letter_failed_total{code="MISSING_INPUT"}`) {
		t.Fatalf("missing failure counter in:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE cover_letter_generated_total counter") {
		t.Fatalf("missing generated counter in:\n%s", out)
	}
}
