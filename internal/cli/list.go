package cli

import (
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List stacks (GET /stacks)",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	env, err := newConsoleEnv(cmd, cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}
	return reportError(env.actions.ListStacks(cmd.Context()))
}
