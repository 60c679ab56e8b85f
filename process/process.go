// Package process launches a child program once its environment has been
// validated. It is the engine behind `envcheck run`.
package process

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"syscall"
)

// Cmd is a thin builder around exec.Cmd. The child starts with an empty
// environment; callers pass the full set with SetEnv and layer extra
// variables with AppendEnv.
type Cmd struct {
	cmd     *exec.Cmd
	forward bool
}

func New(ctx context.Context, name string, args ...string) *Cmd {
	c := exec.CommandContext(ctx, name, args...)
	c.Env = []string{}

	return &Cmd{
		cmd: c,
	}
}

func (c *Cmd) SetDir(dir string) *Cmd {
	c.cmd.Dir = dir

	return c
}

func (c *Cmd) SetStdin(in io.Reader) *Cmd {
	c.cmd.Stdin = in

	return c
}

func (c *Cmd) SetStdout(out io.Writer) *Cmd {
	c.cmd.Stdout = out

	return c
}

func (c *Cmd) SetStderr(out io.Writer) *Cmd {
	c.cmd.Stderr = out

	return c
}

// SetEnv replaces the child's environment with KEY=VALUE pairs.
func (c *Cmd) SetEnv(environ []string) *Cmd {
	c.cmd.Env = append([]string{}, environ...)

	return c
}

// AppendEnv adds one variable. A later entry for the same key wins.
func (c *Cmd) AppendEnv(key, value string) *Cmd {
	c.cmd.Env = append(c.cmd.Env, key+"="+value)

	return c
}

// SetSameProcessGroup puts the child in its own process group so that
// signals sent to the group reach it.
func (c *Cmd) SetSameProcessGroup() *Cmd {
	modSysProcAttr(c.cmd, func(sa *syscall.SysProcAttr) {
		sa.Setpgid = true
	})

	return c
}

// ForwardSignals relays SIGINT, SIGTERM and SIGHUP received by this process
// to the child while it runs, instead of letting them terminate us first.
func (c *Cmd) ForwardSignals() *Cmd {
	c.forward = true

	return c
}

// Env returns the environment the child will be started with.
func (c *Cmd) Env() []string {
	return c.cmd.Env
}

// Run starts the child and waits for it. A child that ran and exited
// non-zero is not an error: its code is returned with a nil error. The
// error is set only when the child could not be started or waited on, in
// which case the code is 1.
func (c *Cmd) Run() (int, error) {
	slog.Debug("run cmd",
		"cmd", strings.Join(c.cmd.Args, " "),
		"env_count", len(c.cmd.Env))

	if !c.forward {
		return status(c.cmd.Run())
	}

	// Registered before Start so nothing sent in between kills us.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, forwardedSignals...)

	defer signal.Stop(sigs)

	if err := c.cmd.Start(); err != nil {
		return status(err)
	}

	done := make(chan struct{})
	defer close(done)

	go relay(c.cmd.Process, sigs, done)

	return status(c.cmd.Wait())
}

func status(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}

	return 1, err
}

func modSysProcAttr(cmd *exec.Cmd, f func(sa *syscall.SysProcAttr)) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}

	f(cmd.SysProcAttr)
}
