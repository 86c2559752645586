package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/driver"
	"github.com/ksyq12/dottux/internal/output"
)

var backendCmd = &cobra.Command{
	Use:   "backend [name]",
	Short: "Show or set the active backend",
	Long: `Without an argument, print the active backend. With an argument, select
nginx, caddy or lighttpd and save it to the config file.

Switching backends does not convert existing artifacts: domains written
for the previous backend stay in its artifacts directory.

Examples:
  dottux backend
  dottux backend caddy`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBackend,
}

func init() {
	rootCmd.AddCommand(backendCmd)
}

type backendInfo struct {
	Backend   string   `json:"backend"`
	Supported []string `json:"supported"`
}

func supportedNames() []string {
	backends := driver.Supported()
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.String()
	}
	return names
}

func runBackend(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return showBackend(cfg.Backend)
	}

	b, err := driver.ParseBackend(args[0])
	if err != nil {
		return err
	}

	previous := cfg.Backend
	cfg.Backend = b.String()
	if err := deps.ConfigLoader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if jsonOutput {
		return output.JSON(backendInfo{Backend: b.String(), Supported: supportedNames()})
	}

	output.Success("Backend set to %s", b)
	if previous != "" && previous != b.String() {
		output.Warn("Domains written for %s were not converted", previous)
	}
	return nil
}

func showBackend(current string) error {
	if jsonOutput {
		return output.JSON(backendInfo{Backend: current, Supported: supportedNames()})
	}

	if current == "" {
		output.Warn("No backend configured")
	} else {
		output.Print("%s", current)
	}
	output.Info("Supported: %v", supportedNames())
	return nil
}
