package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Persistent flags shared by every command. Empty means "use the config".
var (
	flagConfig    string
	flagBaseURL   string
	flagOutput    string
	flagColor     string
	flagStateFile string
	flagLogLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "stackconsole",
	Short: "Operator console for a stack-management API",
	Long: `stackconsole drives a remote stack-management service over HTTP.

Each command performs one call (health, list, stats, create, get, status,
delete) and prints a timestamped report of the result. A successful create
remembers the new stack, so later get/status/delete calls can omit the id.

Use "stackconsole serve" for the browser console and "stackconsole shell"
for an interactive session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("stackconsole version {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagConfig, "config", "", "config file (default: .stackconsole/config.yaml)")
	flags.StringVar(&flagBaseURL, "base-url", "", "stack API base URL")
	flags.StringVarP(&flagOutput, "output", "o", "", "report format: json or yaml")
	flags.StringVar(&flagColor, "color", "", "colorize report headers: auto, always or never")
	flags.StringVar(&flagStateFile, "state-file", "", "file that remembers the active stack")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn or error")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
