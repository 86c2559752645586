package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/config"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/output"
	"github.com/ksyq12/dottux/internal/panel"
)

var (
	serveListen string
	serveWatch  bool
)

// shutdownTimeout bounds the graceful stop of the panel
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web control panel",
	Long: `Serve the control panel: list domains, add and delete them, and rerun
the reload script from a browser. Requests are serialized with each other
and with the watcher when --watch is given.

Examples:
  dottux serve
  dottux serve --listen 0.0.0.0:5000 --watch`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "Listen address (default panel.listen from config)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Also watch the artifacts directory")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}

	listen := serveListen
	if listen == "" {
		listen = env.cfg.Panel.Listen
	}
	if listen == "" {
		listen = config.DefaultPanelListen
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if serveWatch {
		w, err := newWatcher(env)
		if err != nil {
			return err
		}
		w.Start(ctx)
		defer func() {
			if err := w.Stop(); err != nil {
				logger.LogError(err, "Failed to stop watcher")
			}
		}()
	}

	srv := panel.New(env.manager, panel.Options{
		Listen:        listen,
		Backend:       env.backend,
		ListenPort:    env.cfg.ListenPort,
		RatePerMinute: env.cfg.Panel.RatePerMinute,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	output.Info("Control panel on http://%s (%s, Ctrl+C to stop)", srv.Addr(), env.backend)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("control panel stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop control panel: %w", err)
	}
	return nil
}
