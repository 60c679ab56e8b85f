package cli

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNoTerminal = errors.New("no terminal")

type harness struct {
	app    *App
	stdout bytes.Buffer
	stderr bytes.Buffer
	exits  []int
}

func newHarness(t *testing.T, environ ...string) *harness {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	h := &harness{}
	h.app = &App{
		Stdout:  &h.stdout,
		Stderr:  &h.stderr,
		Environ: func() []string { return environ },
		Exit:    func(code int) { h.exits = append(h.exits, code) },
		Prompt: func(string, func(string) error) (string, error) {
			return "", errNoTerminal
		},
	}

	return h
}

func (h *harness) run(args ...string) int {
	return h.app.Execute(args)
}

func TestCheckSuccess(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "PORT=8080", "MODE=prod")

	code := h.run("check", "PORT=port", "MODE=oneof:dev|prod", "DEBUG=optional:boolean")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "PORT=8080\nMODE=prod\nDEBUG=None\n", h.stdout.String())
	assert.Empty(t, h.stderr.String())
}

func TestCheckJSON(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "APP_PORT=8080", "APP_DEBUG=true")

	code := h.run("check", "--prefix", "APP_", "-o", "json", "PORT=port", "DEBUG=optional:boolean")

	assert.Equal(t, ExitSuccess, code)
	assert.JSONEq(t, `{"PORT":8080,"DEBUG":{"defined":true,"value":true}}`, h.stdout.String())
}

func TestCheckFailureReport(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "BAR=bar")

	code := h.run("check", "FOO=string", "BAR=number", "BAZ=boolean")

	assert.Equal(t, ExitInvalid, code)
	assert.Empty(t, h.stdout.String())
	assert.Equal(t, "Some environment variables cannot be validated: FOO, BAR, BAZ\n"+
		"  missing: FOO\n"+
		"  invalid: BAR\n"+
		"  missing: BAZ\n", h.stderr.String())
	assert.Empty(t, h.exits)
}

func TestCheckMergedPolicy(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "BAR=bar", "EMPTY=")

	code := h.run("check", "--policy", "merged", "-o", "json", "FOO=string", "BAR=number", "EMPTY=string")

	assert.Equal(t, ExitInvalid, code)
	assert.JSONEq(t, `{
		"message": "Some environment variables cannot be validated: FOO, BAR, EMPTY",
		"invalidVariables": ["FOO", "BAR", "EMPTY"],
		"missingVariables": []
	}`, h.stderr.String())
}

func TestCheckEmptyAsUnsetFlag(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "NAME=")

	code := h.run("check", "--empty-as-unset=false", "NAME=optional:string")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "NAME=None\n", h.stdout.String())

	h = newHarness(t, "NAME=")

	code = h.run("check", "--empty-as-unset=false", "-o", "json", "NAME=string")

	assert.Equal(t, ExitInvalid, code)
	assert.Contains(t, h.stderr.String(), `"invalidVariables": [`)
}

func TestCheckOverride(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "PORT=not-a-port")

	code := h.run("check", "--override", "PORT=0", "PORT=port", "MODE=optional:string")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "PORT=0\nMODE=None\n", h.stdout.String())
}

func TestCheckExit(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "BAR=bar")

	code := h.run("check", "--exit", "FOO=string", "BAR=number", "BAZ=boolean")

	assert.Equal(t, ExitInvalid, code)
	assert.Equal(t, []int{1}, h.exits)
	assert.Contains(t, h.stderr.String(), "Some environment variables cannot be validated: FOO, BAR, BAZ")
	assert.Contains(t, h.stderr.String(), "level=ERROR")
	assert.Empty(t, h.stdout.String())
}

func TestCheckExitJSONLogs(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "LOG_JSON=true", "FOO=foo")

	code := h.run("check", "--exit", "FOO=int")

	assert.Equal(t, ExitInvalid, code)
	assert.Equal(t, []int{1}, h.exits)
	assert.Contains(t, h.stderr.String(), `"msg":"Some environment variables cannot be validated: FOO"`)
	assert.Contains(t, h.stderr.String(), `"subsystem":"envcheck"`)
}

func TestCheckPrompt(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "APP_MODE=dev")

	var labels []string

	h.app.Prompt = func(label string, validate func(string) error) (string, error) {
		labels = append(labels, label)

		require.Error(t, validate("http"))
		require.NoError(t, validate("9090"))

		return "9090", nil
	}

	code := h.run("check", "--prompt", "--prefix", "APP_", "PORT=port", "MODE=string")

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, []string{"APP_PORT (port, missing)"}, labels)
	assert.Equal(t, "PORT=9090\nMODE=dev\n", h.stdout.String())
}

func TestCheckPromptFails(t *testing.T) { //nolint:paralleltest
	h := newHarness(t)

	code := h.run("check", "--prompt", "PORT=port")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, h.stderr.String(), "prompting for PORT")
}

func TestCheckUsageErrors(t *testing.T) { //nolint:paralleltest
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no declarations", []string{"check"}, ErrNoDeclaration.Error()},
		{"unknown rule", []string{"check", "A=float"}, "unknown rule"},
		{"bad declaration", []string{"check", "A"}, "NAME=RULE"},
		{"unknown policy", []string{"check", "--policy", "strict", "A=int"}, "unknown policy"},
		{"unknown format", []string{"check", "-o", "xml", "A=int"}, "unknown output format"},
		{"bad override", []string{"check", "--override", "oops", "A=int"}, "NAME=VALUE"},
		{"unknown flag", []string{"check", "--nope", "A=int"}, "unknown flag"},
	}

	for _, tt := range tests { //nolint:paralleltest
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, "A=1")

			code := h.run(tt.args...)

			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, h.stderr.String(), tt.want)
		})
	}
}

func TestInvalidLoggingEnvironment(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "LOG_LEVEL=loud", "A=1")

	code := h.run("check", "A=int")

	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, h.stderr.String(), "configuring logging")
	assert.Contains(t, h.stderr.String(), "LOG_LEVEL")
}

func TestVerboseLogsFailures(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "A=x")

	code := h.run("check", "-v", "A=int")

	assert.Equal(t, ExitInvalid, code)
	assert.Contains(t, h.stderr.String(), "environment variable failed validation")
	assert.NotContains(t, h.stderr.String(), "A=x")
}

func TestRun(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "APP_NAME=world")

	code := h.run("run", "--prefix", "APP_", "--override", "GREETING=hi", "NAME=string",
		"--", "sh", "-c", `printf '%s %s' "$APP_GREETING" "$APP_NAME"`)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "hi world", h.stdout.String())
}

func TestRunPromptedValuesReachChild(t *testing.T) { //nolint:paralleltest
	h := newHarness(t)

	h.app.Prompt = func(string, func(string) error) (string, error) { return "prod", nil }

	code := h.run("run", "--prompt", "MODE=oneof:dev|prod", "--", "sh", "-c", `printf '%s' "$MODE"`)

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, "prod", h.stdout.String())
}

func TestRunPropagatesExitCode(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "A=x")

	code := h.run("run", "A=string", "--", "sh", "-c", "exit 7")

	assert.Equal(t, 7, code)
}

func TestRunValidationFailureSkipsProgram(t *testing.T) { //nolint:paralleltest
	h := newHarness(t)

	code := h.run("run", "A=string", "--", "sh", "-c", "echo ran")

	assert.Equal(t, ExitInvalid, code)
	assert.Empty(t, h.stdout.String())
	assert.Contains(t, h.stderr.String(), "missing: A")
}

func TestRunMissingProgram(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "A=x")

	assert.Equal(t, ExitUsage, h.run("run", "A=string"))
	assert.Contains(t, h.stderr.String(), ErrNoProgram.Error())

	h = newHarness(t, "A=x")

	assert.Equal(t, ExitUsage, h.run("run", "A=string", "--"))
}

func TestRunCannotStart(t *testing.T) { //nolint:paralleltest
	h := newHarness(t, "A=x")

	code := h.run("run", "A=string", "--", "envcheck-definitely-not-a-binary")

	assert.Equal(t, ExitRuntime, code)
	assert.Contains(t, h.stderr.String(), "cannot run program")
}

func TestRulesCommand(t *testing.T) { //nolint:paralleltest
	h := newHarness(t)

	assert.Equal(t, ExitSuccess, h.run("rules"))

	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	assert.Contains(t, lines, "boolean-permissive")
	assert.Equal(t, "optional:<rule>", lines[len(lines)-1])
}
