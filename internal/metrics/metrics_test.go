package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	tuxerrors "github.com/ksyq12/dottux/internal/errors"
)

func TestResultOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "ok"},
		{"taxonomy", tuxerrors.DuplicateDomain("demo.tux", "nginx"), "duplicate_domain"},
		{"wrapped taxonomy", fmt.Errorf("add: %w", tuxerrors.ReservedDomain("dot.tux")), "reserved_domain"},
		{"plain", fmt.Errorf("boom"), "error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResultOf(tt.err); got != tt.want {
				t.Errorf("ResultOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordOperation(t *testing.T) {
	labels := prometheus.Labels{"operation": "add", "backend": "nginx", "result": "ok"}
	before := testutil.ToFloat64(operationsTotal.With(labels))

	RecordOperation("add", "nginx", nil)

	after := testutil.ToFloat64(operationsTotal.With(labels))
	if after != before+1 {
		t.Errorf("expected count to increment by 1, got before=%f, after=%f", before, after)
	}
}

func TestRecordReload(t *testing.T) {
	before := testutil.ToFloat64(reloadsTotal.WithLabelValues("timeout"))

	RecordReload("timeout", 30*time.Second)

	after := testutil.ToFloat64(reloadsTotal.WithLabelValues("timeout"))
	if after != before+1 {
		t.Errorf("expected count to increment by 1, got before=%f, after=%f", before, after)
	}
}

func TestSetManagedDomains(t *testing.T) {
	SetManagedDomains("caddy", 3)
	if got := testutil.ToFloat64(managedDomains.WithLabelValues("caddy")); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
	SetManagedDomains("caddy", 1)
	if got := testutil.ToFloat64(managedDomains.WithLabelValues("caddy")); got != 1 {
		t.Errorf("expected 1, got %f", got)
	}
}

func TestRecordWatchEvent(t *testing.T) {
	before := testutil.ToFloat64(watcherEvents.WithLabelValues("created"))
	RecordWatchEvent("created")
	RecordWatchEvent("created")
	after := testutil.ToFloat64(watcherEvents.WithLabelValues("created"))
	if after != before+2 {
		t.Errorf("expected count to increment by 2, got before=%f, after=%f", before, after)
	}
}

func TestHandler(t *testing.T) {
	RecordOperation("remove", "lighttpd", tuxerrors.DomainNotFound("x.tux", "lighttpd"))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `dottux_operations_total{backend="lighttpd",operation="remove",result="domain_not_found"}`) {
		t.Errorf("operation counter missing from exposition:\n%s", body)
	}
}
