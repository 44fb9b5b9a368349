package cli

import (
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status [stack-id]",
	Short: "Show a stack's status (GET /stacks/{stack_id}/status)",
	Long: `Shows the status of one stack. Without an argument the active stack,
set by the last successful create, is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	env, err := newConsoleEnv(cmd, cmd.OutOrStdout(), true)
	if err != nil {
		return err
	}
	return reportError(env.actions.StackStatus(cmd.Context(), stackIDArg(args)))
}
