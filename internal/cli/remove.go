package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ksyq12/dottux/internal/domain"
	"github.com/ksyq12/dottux/internal/input"
	"github.com/ksyq12/dottux/internal/output"
)

var (
	forceRemove bool
)

var removeCmd = &cobra.Command{
	Use:     "remove <domain>",
	Aliases: []string{"rm", "delete"},
	Short:   "Remove a .tux domain",
	Long: `Delete the domain's configuration artifact and its content directory,
then run the reload script. The ".tux" suffix may be omitted.

Examples:
  dottux remove blog.tux
  dottux rm blog --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&forceRemove, "force", "f", false, "Remove without confirmation")

	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	name := domainArg(args[0])

	env, err := loadEnv()
	if err != nil {
		return err
	}

	// Only prompt for a domain that exists; the manager reports everything else
	if d, err := domain.Parse(name); err == nil && !forceRemove {
		exists, err := env.manager.Registry().Exists(d, env.backend)
		if err != nil {
			return err
		}
		if exists {
			if jsonOutput {
				return errors.New("refusing to remove without confirmation; use --force with --json")
			}
			prompt := fmt.Sprintf("Remove domain '%s' and its content directory?", d)
			ok, err := input.Confirm(deps.StdinReader, output.Writer(), prompt)
			if err != nil {
				return err
			}
			if !ok {
				output.Info("Removal cancelled")
				return nil
			}
		}
	}

	report, err := env.manager.Remove(commandContext(cmd), name, env.backend)
	if err != nil {
		printWriteFailure(report)
		return err
	}

	if !jsonOutput {
		output.Success("Domain %s removed", report.Result.Domain)
	}
	return printReport(report, env.backend)
}
