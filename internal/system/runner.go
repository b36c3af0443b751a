package system

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Cmd describes one external command invocation.
type Cmd struct {
	Name  string
	Args  []string
	Env   []string
	Dir   string
	Stdin string
}

func (c Cmd) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner executes external commands. Provisioning steps depend on this
// interface so a dry run (or a test) can swap the real executor out.
type Runner interface {
	// Run executes the command, streaming combined output to log.
	Run(ctx context.Context, log io.Writer, cmd Cmd) error
	// Output executes the command and returns its stdout.
	Output(ctx context.Context, cmd Cmd) (string, error)
}

// ExecRunner shells out for real.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, log io.Writer, cmd Cmd) error {
	fmt.Fprintf(log, "[sentinel-setup] $ %s\n", cmd)
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), append(cmd.Env, "DEBIAN_FRONTEND=noninteractive")...)
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	c.Stdout = log
	c.Stderr = log
	if err := c.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd, err)
	}
	return nil
}

func (ExecRunner) Output(ctx context.Context, cmd Cmd) (string, error) {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Env = append(os.Environ(), cmd.Env...)
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	var out, stderr bytes.Buffer
	c.Stdout = &out
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("%s: %w; output: %s", cmd, err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// DryRunner records every command instead of executing it. Output returns
// the canned value registered for the command name, so host-fact probes keep
// working during a dry run.
type DryRunner struct {
	Calls   []Cmd
	Results map[string]string // command name → canned stdout
}

func (d *DryRunner) Run(ctx context.Context, log io.Writer, cmd Cmd) error {
	fmt.Fprintf(log, "[sentinel-setup] (dry-run) $ %s\n", cmd)
	d.Calls = append(d.Calls, cmd)
	return nil
}

func (d *DryRunner) Output(ctx context.Context, cmd Cmd) (string, error) {
	d.Calls = append(d.Calls, cmd)
	if out, ok := d.Results[cmd.Name]; ok {
		return out, nil
	}
	return "", nil
}

// CommandLines renders recorded calls one per line, for assertions and
// dry-run summaries.
func (d *DryRunner) CommandLines() []string {
	lines := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		lines[i] = c.String()
	}
	return lines
}
