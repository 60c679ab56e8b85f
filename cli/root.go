// Package cli implements the envcheck command line tool. `envcheck check`
// validates the current environment against NAME=RULE declarations and
// `envcheck run` does the same before handing the validated environment to
// a child program.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/amp-labs/envcheck/envutil"
	"github.com/amp-labs/envcheck/logger"
	"github.com/spf13/cobra"
)

const appName = "envcheck"

// Exit codes.
const (
	ExitSuccess = 0
	ExitInvalid = 1
	ExitUsage   = 2
	ExitRuntime = 3
)

// exitError ends a command with a specific code after the command has
// already reported what went wrong.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// App holds everything the commands touch outside the process, so tests can
// substitute it.
type App struct {
	Stdin   io.ReadCloser
	Stdout  io.Writer
	Stderr  io.Writer
	Environ func() []string
	Exit    func(code int)
	Prompt  Prompter

	log *slog.Logger
}

// NewApp returns an App wired to the real process.
func NewApp() *App {
	return &App{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Environ: os.Environ,
		Exit:    os.Exit,
		Prompt:  TerminalPrompter(os.Stdin, os.Stderr),
	}
}

// Command builds the root command.
func (a *App) Command() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           appName,
		Short:         "Validate environment variables before a program starts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts := []logger.Option{logger.WithOutput(a.Stderr)}
			if verbose {
				opts = append(opts, logger.WithMinLevel(slog.LevelDebug))
			}

			log, err := logger.ConfigureLogging(appName, envutil.Environ(a.Environ()), opts...)
			if err != nil {
				return fmt.Errorf("configuring logging: %w", err)
			}

			a.log = log

			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every failing variable at debug level")

	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	root.AddCommand(a.checkCommand(), a.runCommand(), a.rulesCommand())

	return root
}

// Execute runs the command line and returns the process exit code.
func (a *App) Execute(args []string) int {
	root := a.Command()
	root.SetArgs(args)

	err := root.Execute()
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	fmt.Fprintln(a.Stderr, "Error:", err)

	return ExitUsage
}

// Run executes envcheck with the process arguments and returns an exit code.
func Run() int {
	return NewApp().Execute(os.Args[1:])
}

func (a *App) rulesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the rules a declaration can use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range RuleNames() {
				fmt.Fprintln(a.Stdout, name)
			}

			fmt.Fprintln(a.Stdout, "optional:<rule>")

			return nil
		},
	}
}
