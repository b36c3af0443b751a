package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/byrnedo/sentinel-setup/internal/config"
	"github.com/byrnedo/sentinel-setup/internal/provision"
	"github.com/byrnedo/sentinel-setup/internal/system"
)

var (
	installYes    bool
	installDryRun bool
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Run the full provisioning sequence",
	RunE:  runInstall,
}

func init() {
	installCmd.Flags().BoolVarP(&installYes, "yes", "y", false, "skip the confirmation prompt")
	installCmd.Flags().BoolVar(&installDryRun, "dry-run", false, "print every external command instead of executing")
	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	env := &provision.Env{
		Cfg:    cfg,
		Runner: system.ExecRunner{},
		Log:    os.Stdout,
		DryRun: installDryRun,
	}
	if installDryRun {
		env.Runner = newDryRunner(cmd.Context())
	}

	if confirmNeeded(installYes, installDryRun) {
		ok, err := confirmInstall(cfg)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted, nothing was changed.")
			return nil
		}
	}

	return provision.Apply(cmd.Context(), env, provision.Sequence())
}

// Patchable for tests.
var stdinIsTTY = func() bool { return isatty.IsTerminal(os.Stdin.Fd()) }

// confirmNeeded reports whether the interactive confirmation should run.
// --yes, --dry-run and a non-terminal stdin all skip it, so piped and
// scripted invocations proceed instead of failing to open a TTY.
func confirmNeeded(yes, dryRun bool) bool {
	return !yes && !dryRun && stdinIsTTY()
}

// newDryRunner probes the host with read-only commands so the dry-run
// preview is rendered with real facts, falling back to Ubuntu 24.04
// defaults when run off a Debian-family host.
func newDryRunner(ctx context.Context) *system.DryRunner {
	results := map[string]string{
		"dpkg":        "amd64",
		"lsb_release": "noble",
	}
	probe := system.ExecRunner{}
	if arch, err := system.DpkgArch(ctx, probe); err == nil {
		results["dpkg"] = arch
	}
	if codename, err := system.Codename(ctx, probe); err == nil {
		results["lsb_release"] = codename
	}
	return &system.DryRunner{Results: results}
}

func confirmInstall(cfg *config.Config) (bool, error) {
	var ok bool
	err := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Provision this host for Sentinel?").
			Description(fmt.Sprintf(
				"user %s, image %s, port %d, project dir %s\nThis resets the firewall and upgrades system packages.",
				cfg.ServiceUser, cfg.ImageRef(), cfg.ServicePort, cfg.Dir())).
			Value(&ok),
	)).Run()
	if err != nil {
		return false, err
	}
	return ok, nil
}
