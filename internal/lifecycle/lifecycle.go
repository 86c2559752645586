// Package lifecycle serializes domain changes and the reload that applies them.
//
// Manager is the single entry point used by the CLI, the web panel and the
// watcher. Every mutating operation holds one process-wide mutex from the
// duplicate check through the end of the reload, so a second request never
// observes a half-applied change. A failed reload does not roll back the
// change: the artifact stays on disk and the failure is returned to the
// caller together with the write result.
package lifecycle

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/driver"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/metrics"
	"github.com/ksyq12/dottux/internal/registry"
	"github.com/ksyq12/dottux/internal/reload"
	"github.com/ksyq12/dottux/internal/writer"
)

// Operation names used in logs, metrics and reports
const (
	OpAdd       = "add"
	OpRemove    = "remove"
	OpReconcile = "reconcile"
)

// Report is the outcome of one mutating operation
type Report struct {
	OperationID string          `json:"operation_id"`
	Operation   string          `json:"operation"`
	Result      *writer.Result  `json:"result,omitempty"`
	Reload      *reload.Outcome `json:"reload,omitempty"`
}

// Err returns the reload error, if the reload ran and failed
func (r *Report) Err() error {
	if r == nil || r.Reload == nil {
		return nil
	}
	return r.Reload.Err()
}

// Reloader applies written artifacts to the running server
type Reloader interface {
	Reconcile(ctx context.Context) reload.Outcome
}

// Manager coordinates writer and reloader under one mutex
type Manager struct {
	mu       sync.Mutex
	writer   *writer.Writer
	reloader Reloader
}

// NewManager creates a Manager
func NewManager(w *writer.Writer, r Reloader) *Manager {
	return &Manager{writer: w, reloader: r}
}

// Registry returns the registry behind the writer
func (m *Manager) Registry() *registry.Registry {
	return m.writer.Registry()
}

// List returns the managed domains for backend b
func (m *Manager) List(b driver.Backend) ([]domain.Name, error) {
	domains, err := m.writer.Registry().List(b)
	if err != nil {
		return nil, err
	}
	metrics.SetManagedDomains(string(b), len(domains))
	return domains, nil
}

// Preview renders the artifact an add of prefix would write
func (m *Manager) Preview(prefix string, b driver.Backend) (driver.Artifact, error) {
	d, err := domain.FromPrefix(prefix)
	if err != nil {
		return driver.Artifact{}, err
	}
	return m.writer.Preview(d, b)
}

// Add creates the domain for prefix and reloads.
// The returned error covers validation and write failures; a failed reload is
// reported through Report.Err so the caller still sees what was written.
func (m *Manager) Add(ctx context.Context, prefix string, b driver.Backend) (*Report, error) {
	report := newReport(OpAdd)

	d, err := domain.FromPrefix(prefix)
	if err != nil {
		m.finish(report, string(b), err)
		return report, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := m.writer.Add(d, b)
	report.Result = result
	if err != nil {
		m.finish(report, string(b), err)
		return report, err
	}

	m.reloadLocked(ctx, report)
	m.finish(report, string(b), nil)
	return report, nil
}

// Remove deletes the domain named name and reloads
func (m *Manager) Remove(ctx context.Context, name string, b driver.Backend) (*Report, error) {
	report := newReport(OpRemove)

	d, err := domain.Parse(name)
	if err != nil {
		m.finish(report, string(b), err)
		return report, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	result, err := m.writer.Remove(d, b)
	report.Result = result
	if err != nil {
		m.finish(report, string(b), err)
		return report, err
	}

	m.reloadLocked(ctx, report)
	m.finish(report, string(b), nil)
	return report, nil
}

// Reconcile runs the reload executable without changing any artifact
func (m *Manager) Reconcile(ctx context.Context) *Report {
	report := newReport(OpReconcile)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.reloadLocked(ctx, report)
	m.finish(report, "", nil)
	return report
}

func newReport(op string) *Report {
	return &Report{OperationID: uuid.NewString(), Operation: op}
}

// reloadLocked runs the reloader. Caller holds m.mu.
func (m *Manager) reloadLocked(ctx context.Context, report *Report) {
	outcome := m.reloader.Reconcile(ctx)
	report.Reload = &outcome
	metrics.RecordReload(string(outcome.Classification), outcome.Duration)

	if outcome.Succeeded || report.Result == nil {
		return
	}
	if report.Operation == OpAdd {
		logger.WarnFields("reload failed; artifact left in place", map[string]interface{}{
			"operation_id": report.OperationID,
			"domain":       report.Result.Domain.String(),
			"artifact":     report.Result.ArtifactPath,
		})
	} else {
		logger.WarnFields("reload failed; artifact already removed", map[string]interface{}{
			"operation_id": report.OperationID,
			"domain":       report.Result.Domain.String(),
			"artifact":     report.Result.ArtifactPath,
		})
	}
}

func (m *Manager) finish(report *Report, backend string, err error) {
	if err == nil {
		err = report.Err()
	}
	metrics.RecordOperation(report.Operation, backend, err)

	fields := map[string]interface{}{
		"operation_id": report.OperationID,
		"operation":    report.Operation,
		"result":       metrics.ResultOf(err),
	}
	if backend != "" {
		fields["backend"] = backend
	}
	if report.Result != nil {
		fields["domain"] = report.Result.Domain.String()
		if len(report.Result.Warnings) > 0 {
			fields["warnings"] = len(report.Result.Warnings)
		}
	}
	if report.Reload != nil {
		fields["reload"] = string(report.Reload.Classification)
		fields["reload_ms"] = report.Reload.Duration.Milliseconds()
	}

	if err != nil {
		logger.WarnFields("operation failed", fields)
		return
	}
	logger.InfoFields("operation finished", fields)
}
