package cli

import (
	"errors"
	"maps"
	"slices"

	"github.com/amp-labs/envcheck/process"
	"github.com/spf13/cobra"
)

var ErrNoProgram = errors.New("a program to run is required after --")

func (a *App) runCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "run [flags] NAME=RULE... -- PROGRAM [ARGS...]",
		Short: "Validate environment variables, then run a program",
		Long: "Validate environment variables like `envcheck check` and, if they all pass,\n" +
			"run PROGRAM with the same environment. Overrides and prompted values are\n" +
			"exported to the program under their prefixed names. The program's exit\n" +
			"code becomes envcheck's exit code.",
		Example: "  envcheck run PORT=port DATABASE_URL=url -- ./server --listen :8080",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := cmd.ArgsLenAtDash()
			if dash < 0 || dash >= len(args) {
				return ErrNoProgram
			}

			res, err := a.resolve(cmd, &flags, args[:dash])
			if err != nil {
				return err
			}

			program := args[dash:]

			child := process.New(cmd.Context(), program[0], program[1:]...).
				SetEnv(a.Environ()).
				SetStdin(a.Stdin).
				SetStdout(a.Stdout).
				SetStderr(a.Stderr).
				ForwardSignals()

			for _, key := range slices.Sorted(maps.Keys(res.prompted)) {
				child.AppendEnv(key, res.prompted[key])
			}

			for _, name := range slices.Sorted(maps.Keys(res.overrides)) {
				child.AppendEnv(flags.prefix+name, res.overrides[name])
			}

			code, err := child.Run()
			if err != nil {
				a.log.Error("cannot run program", "program", program[0], "error", err)

				return &exitError{code: ExitRuntime}
			}

			if code != ExitSuccess {
				return &exitError{code: code}
			}

			return nil
		},
	}

	flags.bind(cmd)

	return cmd
}
