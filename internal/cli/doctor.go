package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/byrnedo/sentinel-setup/internal/compose"
	"github.com/byrnedo/sentinel-setup/internal/config"
	"github.com/byrnedo/sentinel-setup/internal/engine"
	"github.com/byrnedo/sentinel-setup/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Verify the installed service: engine, container, descriptor",
	RunE:  runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	failed := false

	eng, err := engine.New()
	if err != nil {
		ui.CheckErr(os.Stdout, "engine", err.Error(), "is the Docker engine installed and running?")
		failed = true
	} else {
		defer eng.Close()

		if version, err := eng.ServerVersion(ctx); err != nil {
			ui.CheckErr(os.Stdout, "engine", err.Error(), "systemctl status docker")
			failed = true
		} else {
			ui.CheckOK(os.Stdout, "engine", "version "+version)

			state, err := eng.Inspect(ctx, cfg.ContainerName)
			switch {
			case err != nil:
				ui.CheckErr(os.Stdout, "container", err.Error(), "")
				failed = true
			case !state.Exists:
				ui.CheckErr(os.Stdout, "container", cfg.ContainerName+" not found", "run ./start.sh from "+cfg.Dir())
				failed = true
			case !state.Running:
				ui.CheckErr(os.Stdout, "container", "status "+state.Status, "docker logs "+cfg.ContainerName)
				failed = true
			case state.Health != "" && state.Health != "healthy":
				ui.CheckErr(os.Stdout, "container", "running but "+state.Health, "")
				failed = true
			default:
				detail := "running"
				if state.Health != "" {
					detail += ", " + state.Health
				}
				ui.CheckOK(os.Stdout, "container", detail)
			}
		}
	}

	composePath := filepath.Join(cfg.Dir(), "compose.yaml")
	if err := compose.Validate(ctx, composePath, cfg.ImageRef()); err != nil {
		ui.CheckErr(os.Stdout, "descriptor", err.Error(), "re-run sentinelctl install to regenerate it")
		failed = true
	} else {
		ui.CheckOK(os.Stdout, "descriptor", composePath)
	}

	if failed {
		return fmt.Errorf("doctor found problems")
	}
	ui.Success(os.Stdout, "All checks passed.")
	return nil
}
