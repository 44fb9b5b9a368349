package cli

import (
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the stack API (GET /healthz)",
	Args:  cobra.NoArgs,
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	env, err := newConsoleEnv(cmd, cmd.OutOrStdout(), false)
	if err != nil {
		return err
	}
	return reportError(env.actions.Health(cmd.Context()))
}
