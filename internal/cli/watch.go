package cli

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/config"
	"github.com/ksyq12/dottux/internal/lifecycle"
	"github.com/ksyq12/dottux/internal/output"
	"github.com/ksyq12/dottux/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload when artifacts change on disk",
	Long: `Watch the active backend's artifacts directory and run the reload
script after artifacts are created, edited, renamed or deleted by hand.
Bursts of changes are collapsed into one reload (watch.debounce, 2s by
default).

Examples:
  dottux watch
  dottux watch --verbose`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	w, err := newWatcher(env)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	output.Info("Watching %s (%s, Ctrl+C to stop)", w.Dir(), env.backend)
	return w.Run(ctx)
}

// newWatcher builds a watcher on the active artifacts directory that prints each reload
func newWatcher(e *env) (*watcher.Watcher, error) {
	window := e.cfg.Watch.Debounce
	if window <= 0 {
		window = config.DefaultDebounce
	}
	return watcher.New(e.paths.ArtifactsDir, e.backend, window, e.manager,
		watcher.WithReportHandler(printWatchReport))
}

func printWatchReport(report *lifecycle.Report) {
	if jsonOutput {
		_ = output.JSON(report)
		return
	}
	if report.Reload == nil {
		return
	}
	if err := report.Err(); err != nil {
		output.Error("Reload after change failed: %v", err)
		return
	}
	output.Success("Reloaded after change (%s)", report.Reload.Duration.Round(time.Millisecond))
}
