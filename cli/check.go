package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/amp-labs/envcheck/envutil"
	"github.com/spf13/cobra"
)

var (
	ErrUnknownPolicy = errors.New("unknown policy")
	ErrBadOverride   = errors.New("override must look like NAME=VALUE")
	ErrNoDeclaration = errors.New("at least one NAME=RULE declaration is required")
)

// resolveFlags are shared by check and run.
type resolveFlags struct {
	prefix       string
	policy       string
	format       string
	emptyAsUnset bool
	overrides    []string
	exit         bool
	prompt       bool
}

func (f *resolveFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.StringVar(&f.prefix, "prefix", "", "prefix prepended to every name when reading the environment")
	flags.StringVar(&f.policy, "policy", envutil.PolicySplit.String(), "failure policy: split or merged")
	flags.StringVarP(&f.format, "format", "o", string(formatText), "output format: text, json or yaml")
	flags.BoolVar(&f.emptyAsUnset, "empty-as-unset", true, "treat empty values as unset (default depends on --policy)")
	flags.StringArrayVar(&f.overrides, "override", nil, "NAME=VALUE used as-is instead of the environment, repeatable")
	flags.BoolVar(&f.exit, "exit", false, "log one error line and exit 1 on failure instead of printing a report")
	flags.BoolVar(&f.prompt, "prompt", false, "ask for a value for every failing variable")
}

func parsePolicy(s string) (envutil.Policy, error) {
	switch strings.ToLower(s) {
	case envutil.PolicySplit.String():
		return envutil.PolicySplit, nil
	case envutil.PolicyMerged.String():
		return envutil.PolicyMerged, nil
	default:
		return 0, fmt.Errorf("%w: %q (want split or merged)", ErrUnknownPolicy, s)
	}
}

func parseOverrides(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))

	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q", ErrBadOverride, pair)
		}

		out[strings.TrimSpace(name)] = value
	}

	return out, nil
}

// resolution is the outcome of a successful check.
type resolution struct {
	config    *envutil.Config
	overrides map[string]string
	prompted  envutil.Map
}

// resolve validates the environment for decls. Failures are reported to
// stderr, and come back as an *exitError.
func (a *App) resolve(cmd *cobra.Command, flags *resolveFlags, decls []string) (*resolution, error) {
	if len(decls) == 0 {
		return nil, ErrNoDeclaration
	}

	out, err := parseFormat(flags.format)
	if err != nil {
		return nil, err
	}

	policy, err := parsePolicy(flags.policy)
	if err != nil {
		return nil, err
	}

	overrides, err := parseOverrides(flags.overrides)
	if err != nil {
		return nil, err
	}

	rules, schema, err := ParseRules(decls)
	if err != nil {
		return nil, err
	}

	typed := make(map[string]any, len(overrides))
	for name, value := range overrides {
		typed[name] = value
	}

	opts := []envutil.Option{
		envutil.WithPrefix(flags.prefix),
		envutil.WithPolicy(policy),
		envutil.WithOverrides(typed),
		envutil.WithLogger(a.log),
	}

	if cmd.Flags().Changed("empty-as-unset") {
		opts = append(opts, envutil.WithEmptyAsUnset(flags.emptyAsUnset))
	}

	src := envutil.Source(envutil.Environ(a.Environ()))
	res := &resolution{overrides: overrides}

	if flags.exit && !flags.prompt {
		res.config = envutil.MustResolve(src, schema, envutil.ExitSink{Logger: a.log, Exit: a.Exit}, opts...)
		if res.config == nil {
			return nil, &exitError{code: ExitInvalid}
		}

		return res, nil
	}

	cfg, err := envutil.Resolve(src, schema, opts...)

	var vErr *envutil.ValidationError
	if errors.As(err, &vErr) && flags.prompt {
		res.prompted, err = promptFailures(a.Prompt, vErr, rules, flags.prefix)
		if err != nil {
			return nil, err
		}

		cfg, err = envutil.Resolve(envutil.Layered(res.prompted, src), schema, opts...)
	}

	if errors.As(err, &vErr) {
		if flags.exit {
			envutil.ExitSink{Logger: a.log, Exit: a.Exit}.Fail(vErr)
		} else if werr := writeFailure(a.Stderr, vErr, out); werr != nil {
			return nil, werr
		}

		return nil, &exitError{code: ExitInvalid}
	}

	if err != nil {
		return nil, err
	}

	res.config = cfg

	return res, nil
}

func (a *App) checkCommand() *cobra.Command {
	var flags resolveFlags

	cmd := &cobra.Command{
		Use:   "check [flags] NAME=RULE...",
		Short: "Validate environment variables and print the typed values",
		Long: "Validate environment variables against NAME=RULE declarations.\n\n" +
			"Every declared variable is checked and all failures are reported together.\n" +
			"On success the typed values are printed in declaration order.\n" +
			"Run `envcheck rules` for the list of rules.",
		Example: "  envcheck check PORT=port MODE=oneof:dev|prod DEBUG=optional:boolean\n" +
			"  envcheck check --prefix APP_ --format json DB_URL=url",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.resolve(cmd, &flags, args)
			if err != nil {
				return err
			}

			out, err := parseFormat(flags.format)
			if err != nil {
				return err
			}

			return writeConfig(a.Stdout, res.config, out)
		},
	}

	flags.bind(cmd)

	return cmd
}
