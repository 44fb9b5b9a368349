package cli

import (
	"github.com/spf13/cobra"
	"github.com/thruflo/stackconsole/internal/config"
	"github.com/thruflo/stackconsole/internal/console"
)

var (
	createTargetPort  int
	createPodSpecFile string
	createUserID      int64
	createProblemID   int64
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a stack (POST /stacks)",
	Long: `Creates a stack from a pod document.

The pod document is read from --pod-spec-file ("-" for stdin), then from
create.pod_spec_file in the config, and otherwise a built-in nginx pod is
used. It is sent as-is; the service validates it.

On success the returned stack_id becomes the active stack for later
get, status and delete commands.`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().IntVarP(&createTargetPort, "target-port", "p", 0, "port the stack exposes (default: create.target_port from config)")
	createCmd.Flags().StringVarP(&createPodSpecFile, "pod-spec-file", "f", "", "pod document to submit, or - for stdin")
	createCmd.Flags().Int64Var(&createUserID, "user-id", 0, "optional owning user id")
	createCmd.Flags().Int64Var(&createProblemID, "problem-id", 0, "optional problem id")
	rootCmd.AddCommand(createCmd)
}

func runCreate(cmd *cobra.Command, args []string) error {
	env, err := newConsoleEnv(cmd, cmd.OutOrStdout(), true)
	if err != nil {
		return err
	}

	in, err := createInput(cmd, env)
	if err != nil {
		return err
	}

	return reportError(env.actions.CreateStack(cmd.Context(), in))
}

// createInput merges flags over config defaults.
func createInput(cmd *cobra.Command, env *consoleEnv) (console.CreateInput, error) {
	in := console.CreateInput{
		TargetPort: env.cfg.Create.TargetPort,
		UserID:     createUserID,
		ProblemID:  createProblemID,
	}
	if cmd.Flags().Changed("target-port") {
		in.TargetPort = createTargetPort
	}

	path := createPodSpecFile
	if path == "" {
		path = config.ResolvePath(env.basePath, env.cfg.Create.PodSpecFile)
	}
	podSpec, err := readPodSpec(path, cmd.InOrStdin())
	if err != nil {
		return console.CreateInput{}, err
	}
	in.PodSpec = podSpec

	return in, nil
}
