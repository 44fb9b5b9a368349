package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thruflo/stackconsole/internal/api"
	"github.com/thruflo/stackconsole/internal/config"
	"github.com/thruflo/stackconsole/internal/console"
	"golang.org/x/term"
)

const shellPrompt = "stackconsole> "

const shellHelp = `Commands:
  health                         GET /healthz
  list                           GET /stacks
  stats                          GET /stats
  create [port] [pod-spec-file]  POST /stacks
  get [id]                       GET /stacks/{stack_id}
  status [id]                    GET /stacks/{stack_id}/status
  delete [id]                    DELETE /stacks/{stack_id}
  base [url]                     show or change the API base URL
  active                         show the active stack
  help                           show this help
  exit                           leave the shell
Without an id, get/status/delete use the active stack.
`

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive console",
	Long: `Starts an interactive console. The active stack lives for the length
of the session. Type "help" for the list of commands.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// lineReader yields one input line per call and io.EOF at the end.
type lineReader interface {
	ReadLine() (string, error)
}

// scanReader adapts a bufio.Scanner to lineReader.
type scanReader struct {
	scanner *bufio.Scanner
}

func (r *scanReader) ReadLine() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.scanner.Text(), nil
}

func runShell(cmd *cobra.Command, args []string) error {
	in, out := cmd.InOrStdin(), cmd.OutOrStdout()

	var reader lineReader = &scanReader{scanner: bufio.NewScanner(in)}
	if stdin, ok := in.(*os.File); ok && term.IsTerminal(int(stdin.Fd())) {
		oldState, err := term.MakeRaw(int(stdin.Fd()))
		if err != nil {
			return fmt.Errorf("failed to enter raw mode: %w", err)
		}
		defer term.Restore(int(stdin.Fd()), oldState)

		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{stdin, out}, shellPrompt)
		useTerminal(cmd, t)
		reader, out = t, t
	}

	env, err := newConsoleEnv(cmd, out, false)
	if err != nil {
		return err
	}

	sh := &shell{
		actions:     env.actions,
		out:         out,
		in:          in,
		targetPort:  env.cfg.Create.TargetPort,
		podSpecPath: config.ResolvePath(env.basePath, env.cfg.Create.PodSpecFile),
		newClient: func(baseURL string) *api.Client {
			return api.NewClient(baseURL, api.WithLogger(env.logger))
		},
	}

	fmt.Fprintf(out, "Connected to %s. Type \"help\" for commands.\n", env.actions.Client().BaseURL())
	return sh.run(cmd.Context(), reader)
}

// useTerminal sends command output and logs through t. A raw-mode tty does
// not translate newlines; t does.
func useTerminal(cmd *cobra.Command, t *term.Terminal) {
	cmd.SetOut(t)
	cmd.SetErr(t)
}

// shell executes console commands read line by line.
type shell struct {
	actions     *console.Actions
	out         io.Writer
	in          io.Reader
	targetPort  int
	podSpecPath string
	newClient   func(baseURL string) *api.Client
}

// run reads and executes lines until exit, end of input or ctx is done.
func (sh *shell) run(ctx context.Context, reader lineReader) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line, err := reader.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		if quit := sh.exec(ctx, line); quit {
			return nil
		}
	}
}

// exec runs one line and reports whether the shell should exit.
func (sh *shell) exec(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "exit", "quit":
		return true
	case "help", "?":
		fmt.Fprint(sh.out, shellHelp)
	case "active":
		if id, ok := sh.actions.Session().Active(); ok {
			fmt.Fprintln(sh.out, id)
		} else {
			fmt.Fprintln(sh.out, "no active stack")
		}
	case "base":
		sh.base(args)
	case console.ActionCreate:
		sh.create(ctx, args)
	case console.ActionHealth, console.ActionList, console.ActionStats,
		console.ActionGet, console.ActionStatus, console.ActionDelete:
		in := console.Input{}
		if len(args) > 0 {
			in.StackID = args[0]
		}
		// name is always a known action here
		_, _ = sh.actions.Dispatch(ctx, name, in)
	default:
		fmt.Fprintf(sh.out, "unknown command %q, type \"help\" for commands\n", name)
	}
	return false
}

func (sh *shell) base(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(sh.out, sh.actions.Client().BaseURL())
		return
	}
	if err := config.ValidateBaseURL(args[0]); err != nil {
		fmt.Fprintf(sh.out, "invalid base URL %q\n", args[0])
		return
	}
	sh.actions = sh.actions.WithClient(sh.newClient(args[0]))
	fmt.Fprintf(sh.out, "base URL set to %s\n", sh.actions.Client().BaseURL())
}

func (sh *shell) create(ctx context.Context, args []string) {
	in := console.CreateInput{TargetPort: sh.targetPort}

	if len(args) > 0 {
		port, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Fprintf(sh.out, "invalid port %q\n", args[0])
			return
		}
		in.TargetPort = port
	}

	path := sh.podSpecPath
	if len(args) > 1 {
		path = args[1]
	}
	podSpec, err := readPodSpec(path, sh.in)
	if err != nil {
		fmt.Fprintln(sh.out, err)
		return
	}
	in.PodSpec = podSpec

	sh.actions.CreateStack(ctx, in)
}
