package cli

import (
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get [stack-id]",
	Short: "Show a stack (GET /stacks/{stack_id})",
	Long: `Shows one stack. Without an argument the active stack, set by the
last successful create, is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	env, err := newConsoleEnv(cmd, cmd.OutOrStdout(), true)
	if err != nil {
		return err
	}
	return reportError(env.actions.GetStack(cmd.Context(), stackIDArg(args)))
}

// stackIDArg returns the optional stack id argument.
func stackIDArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
