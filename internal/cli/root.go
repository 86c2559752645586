package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/config"
	tuxerrors "github.com/ksyq12/dottux/internal/errors"
	"github.com/ksyq12/dottux/internal/logger"
	"github.com/ksyq12/dottux/internal/output"
)

var (
	jsonOutput bool
	verbose    bool
	configPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "dottux",
	Short: "Local .tux domain manager",
	Long: `dottux manages local .tux domains for nginx, caddy or lighttpd.

Each domain is one configuration file in the backend's artifacts directory
plus a content directory under ~/sites. After every change dottux runs your
reload script (~/Dot-Tux/reload.sh by default) to apply it.

The backend is chosen with the "backend" key of ~/.config/dottux/config.yaml
or with "dottux backend <name>".`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() {
	cobra.OnInitialize(func() {
		logger.Init(verbose)
		config.SetPath(configPath)
	})

	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		reportError(err)
		os.Exit(1)
	}
}

// reportError prints a command error unless the command already did
func reportError(err error) {
	var shown *shownError
	if errors.As(err, &shown) {
		return
	}
	if jsonOutput {
		_ = output.JSON(errorResult{
			Success: false,
			Code:    string(tuxerrors.CodeOf(err)),
			Error:   err.Error(),
		})
		return
	}
	output.Error("%v", err)
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	rootCmd.Version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging for debugging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.config/dottux/config.yaml, or $DOTTUX_CONFIG)")
}
