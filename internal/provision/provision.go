// Package provision implements the host provisioning sequence as an explicit
// ordered list of steps over an injectable command runner. The first failing
// step halts the run and its name is surfaced in the error; there are no
// retries and no rollback.
package provision

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/byrnedo/sentinel-setup/internal/config"
	"github.com/byrnedo/sentinel-setup/internal/system"
	"github.com/byrnedo/sentinel-setup/internal/ui"
)

// Env carries everything a step needs: configuration, the command runner,
// the log sink and run-scoped results.
type Env struct {
	Cfg    *config.Config
	Runner system.Runner
	Log    io.Writer
	DryRun bool

	// TempPassword is set by the service-user step when it creates the
	// account, and echoed by the summary step. Empty on re-runs.
	TempPassword string
}

func (e *Env) run(ctx context.Context, name string, args ...string) error {
	return e.Runner.Run(ctx, e.Log, system.Cmd{Name: name, Args: args})
}

func (e *Env) printf(format string, a ...any) {
	fmt.Fprintf(e.Log, "[sentinel-setup] "+format+"\n", a...)
}

func (e *Env) warnf(format string, a ...any) {
	ui.Warn(e.Log, fmt.Sprintf(format, a...))
}

// writeFile honors dry-run: the write is logged but not performed.
func (e *Env) writeFile(path string, data []byte, mode os.FileMode) error {
	if e.DryRun {
		e.printf("(dry-run) would write %s (%d bytes, mode %o)", path, len(data), mode)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	e.printf("wrote %s", path)
	return nil
}

func (e *Env) mkdirAll(path string, mode os.FileMode) error {
	if e.DryRun {
		e.printf("(dry-run) would create directory %s", path)
		return nil
	}
	if err := os.MkdirAll(path, mode); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// Step is one unit of the provisioning sequence.
type Step struct {
	Name        string
	Description string
	Apply       func(ctx context.Context, env *Env) error
}

// Sequence returns the full provisioning order. preflight runs first so a
// non-root invocation fails before any mutation.
func Sequence() []Step {
	return []Step{
		{"preflight", "verify the installer runs with root privileges", preflight},
		{"service-user", "create the dedicated service account with a forced password rotation", provisionServiceUser},
		{"system-upgrade", "refresh the package index and upgrade installed packages", upgradeSystem},
		{"base-packages", "install baseline utilities and hardening tools", installBasePackages},
		{"firewall", "reset ufw to deny-by-default and allow SSH plus the service port", configureFirewall},
		{"fail2ban", "enable and start the intrusion prevention daemon", enableFail2ban},
		{"unattended-upgrades", "enable automatic security patching without automatic reboots", configureUnattendedUpgrades},
		{"docker-repo", "register the Docker package repository and signing key", addDockerRepo},
		{"docker-engine", "install the Docker engine, CLI and plugins", installDockerEngine},
		{"docker-daemon", "apply the hardened daemon configuration", configureDockerDaemon},
		{"docker-group", "grant the service account control over the engine", grantDockerGroup},
		{"project-dir", "create the project directory", createProjectDir},
		{"compose-file", "write the orchestration descriptor", writeComposeFile},
		{"env-file", "create the environment file if absent", writeEnvFile},
		{"operator-scripts", "write the start/stop/status/update/logs wrappers", writeOperatorScripts},
		{"ownership", "hand the project directory to the service account", fixOwnership},
		{"summary", "print follow-up instructions", printSummary},
	}
}

// Apply executes steps in order and stops at the first failure, naming the
// failed step in the returned error.
func Apply(ctx context.Context, env *Env, steps []Step) error {
	for i, s := range steps {
		ui.StepStarted(env.Log, i+1, len(steps), s.Name)
		if err := s.Apply(ctx, env); err != nil {
			return fmt.Errorf("step %s: %w", s.Name, err)
		}
		ui.StepDone(env.Log, s.Name)
	}
	return nil
}

// preflight aborts before any mutation when the effective uid is not root.
func preflight(ctx context.Context, env *Env) error {
	if env.DryRun {
		env.printf("(dry-run) skipping privilege check")
		return nil
	}
	if !isRoot() {
		return fmt.Errorf("must run as root (try: sudo sentinelctl install)")
	}
	return nil
}

// Patchable for tests.
var isRoot = system.IsRoot
