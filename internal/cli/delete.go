package cli

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [stack-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a stack (DELETE /stacks/{stack_id})",
	Long: `Deletes one stack. Without an argument the active stack, set by the
last successful create, is used. The active stack is remembered even after
it has been deleted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	env, err := newConsoleEnv(cmd, cmd.OutOrStdout(), true)
	if err != nil {
		return err
	}
	return reportError(env.actions.DeleteStack(cmd.Context(), stackIDArg(args)))
}
