package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/thruflo/stackconsole/internal/config"
	"github.com/thruflo/stackconsole/internal/server"
	"github.com/thruflo/stackconsole/web"
)

var (
	servePort   int
	serveAssets string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the browser console",
	Long: `Serves the browser console. The page collects inputs and shows
reports; every action runs in this process, which keeps the active stack in
memory for as long as it runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", config.DefaultServerPort, "console server port")
	serveCmd.Flags().StringVar(&serveAssets, "assets", "", "serve web assets from this directory instead of the embedded copy")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Reports go to the browser, not the terminal.
	env, err := newConsoleEnv(cmd, io.Discard, false, func(cfg *config.Config) {
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}
	})
	if err != nil {
		return err
	}

	podSpec, err := readPodSpec(config.ResolvePath(env.basePath, env.cfg.Create.PodSpecFile), cmd.InOrStdin())
	if err != nil {
		return err
	}

	assets := web.GetAssetsWithBase(env.basePath)
	if serveAssets != "" {
		assets = web.GetAssets(serveAssets)
	}

	srv, err := server.NewServerFromConfig(env.cfg, env.actions, assets, podSpec, env.logger)
	if err != nil {
		return fmt.Errorf("failed to create console server: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Console running at http://localhost:%d (API %s)\n", srv.Port(), env.cfg.API.BaseURL)

	return srv.Start(cmd.Context())
}
