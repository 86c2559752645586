package cli

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/lifecycle"
	"github.com/ksyq12/dottux/internal/reload"
)

func TestNewWatcher(t *testing.T) {
	f := newFixture(t, "nginx")
	f.cfg.Watch.Debounce = 0

	env, err := loadEnv()
	if err != nil {
		t.Fatalf("loadEnv() error = %v", err)
	}

	w, err := newWatcher(env)
	if err != nil {
		t.Fatalf("newWatcher() error = %v", err)
	}
	if w.Dir() != f.artifacts {
		t.Errorf("Dir() = %q, want %q", w.Dir(), f.artifacts)
	}
	w.Start(context.Background())
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}

func TestNewWatcher_MissingDirectory(t *testing.T) {
	f := newFixture(t, "nginx")
	f.cfg.Paths.Artifacts = f.root + "/missing"

	env, err := loadEnv()
	if err != nil {
		t.Fatalf("loadEnv() error = %v", err)
	}
	if _, err := newWatcher(env); err == nil {
		t.Error("expected error for a missing directory")
	}
}

func TestPrintWatchReport(t *testing.T) {
	tests := []struct {
		name     string
		outcome  *reload.Outcome
		contains string
	}{
		{
			name:     "success",
			outcome:  &reload.Outcome{Succeeded: true, Classification: reload.Success, Duration: 12 * time.Millisecond},
			contains: "Reloaded after change (12ms)",
		},
		{
			name:     "failure",
			outcome:  &reload.Outcome{Classification: reload.NonZeroExit, ExitCode: 1},
			contains: "Reload after change failed: reload failed with exit code 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, "nginx")

			printWatchReport(&lifecycle.Report{Operation: lifecycle.OpReconcile, Reload: tt.outcome})

			if !strings.Contains(f.out.String(), tt.contains) {
				t.Errorf("output missing %q:\n%s", tt.contains, f.out.String())
			}
		})
	}
}

func TestPrintWatchReport_FailureErr(t *testing.T) {
	report := &lifecycle.Report{Reload: &reload.Outcome{Classification: reload.MissingExecutable, Script: "/x/reload.sh"}}
	if !errors.Is(report.Err(), tuxerrors.ErrReloadMissing) {
		t.Errorf("Err() = %v, want ErrReloadMissing", report.Err())
	}
}
