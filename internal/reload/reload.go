// Package reload runs the operator's reload executable and classifies the result.
//
// The reload executable is the only step that makes written artifacts live.
// It is invoked with no arguments; its exit status is the verdict. A run that
// outlives the timeout is reported as a timeout and the call returns at the
// boundary without killing it: the live server state is then unknown.
// Cancelling the caller's context never interrupts a run.
package reload

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/executor"
	"github.com/ksyq12/dottux/internal/logger"
)

// Classification is the verdict of one reload run
type Classification string

// Reload classifications
const (
	Success           Classification = "success"
	NonZeroExit       Classification = "nonzero_exit"
	Timeout           Classification = "timeout"
	MissingExecutable Classification = "missing_executable"
)

// DefaultTimeout bounds a reload run when none is configured
const DefaultTimeout = 30 * time.Second

// Outcome is the result of one reload run
type Outcome struct {
	Succeeded      bool           `json:"succeeded"`
	Classification Classification `json:"classification"`
	ExitCode       int            `json:"exit_code"`
	Stdout         string         `json:"stdout,omitempty"`
	Stderr         string         `json:"stderr,omitempty"`
	Duration       time.Duration  `json:"duration"`
	Script         string         `json:"script"`

	timeout time.Duration
	cause   error
}

// Output returns stdout followed by stderr, as captured
func (o Outcome) Output() string {
	return strings.TrimRight(o.Stdout+o.Stderr, "\n")
}

// Err converts a failed outcome into the matching taxonomy error
func (o Outcome) Err() error {
	switch o.Classification {
	case Success:
		return nil
	case NonZeroExit:
		return tuxerrors.Reload(tuxerrors.ErrCodeReloadNonZeroExit,
			fmt.Sprintf("reload failed with exit code %d", o.ExitCode), o.Output(), nil)
	case Timeout:
		return tuxerrors.Reload(tuxerrors.ErrCodeReloadTimeout,
			fmt.Sprintf("reload timed out after %s, live server state unknown", o.timeout), o.Output(), o.cause)
	case MissingExecutable:
		return tuxerrors.Reload(tuxerrors.ErrCodeReloadMissing,
			"reload executable not found or not executable: "+o.Script, "", o.cause)
	default:
		return tuxerrors.Reload(tuxerrors.ErrCodeReloadNonZeroExit, "reload outcome unknown", o.Output(), o.cause)
	}
}

// Coordinator runs one reload executable through a Runner
type Coordinator struct {
	runner  executor.Runner
	script  string
	timeout time.Duration
}

// NewCoordinator creates a Coordinator. A non-positive timeout uses DefaultTimeout.
func NewCoordinator(runner executor.Runner, script string, timeout time.Duration) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Coordinator{runner: runner, script: script, timeout: timeout}
}

// Script returns the reload executable path
func (c *Coordinator) Script() string {
	return c.script
}

// Timeout returns the configured run limit
func (c *Coordinator) Timeout() time.Duration {
	return c.timeout
}

type runReply struct {
	result executor.RunResult
	err    error
}

// Reconcile runs the reload executable once and classifies the result.
// The run is never cancelled: cancelling ctx does not stop it, and at the
// timeout Reconcile stops waiting while the executable keeps running.
func (c *Coordinator) Reconcile(ctx context.Context) Outcome {
	start := time.Now()
	outcome := Outcome{Script: c.script, timeout: c.timeout}

	runCtx := context.WithoutCancel(ctx)

	replies := make(chan runReply, 1)
	go func() {
		result, err := c.runner.Run(runCtx, c.script)
		replies <- runReply{result: result, err: err}
	}()

	logger.Debug("Running %s (timeout %s)", c.script, c.timeout)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()

	select {
	case reply := <-replies:
		outcome.Duration = time.Since(start)
		outcome.Stdout = reply.result.Stdout
		outcome.Stderr = reply.result.Stderr
		outcome.ExitCode = reply.result.ExitCode
		outcome.classify(reply.err)
	case <-timer.C:
		outcome.Duration = time.Since(start)
		outcome.Classification = Timeout
		outcome.cause = context.DeadlineExceeded
		logger.Warn("Reload %s still running after %s; no longer waiting", c.script, c.timeout)
	}

	logger.InfoFields("reload finished", map[string]interface{}{
		"script":         c.script,
		"classification": string(outcome.Classification),
		"exit_code":      outcome.ExitCode,
		"duration_ms":    outcome.Duration.Milliseconds(),
	})
	return outcome
}

func (o *Outcome) classify(err error) {
	switch {
	case err == nil && o.ExitCode == 0:
		o.Classification = Success
		o.Succeeded = true
	case err == nil:
		o.Classification = NonZeroExit
	case errors.Is(err, context.DeadlineExceeded):
		// a runner that enforces its own limit
		o.Classification = Timeout
		o.cause = err
	default:
		// ErrNotExecutable and any other start failure
		o.Classification = MissingExecutable
		o.cause = err
	}
}
