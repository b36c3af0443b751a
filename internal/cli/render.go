package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byrnedo/sentinel-setup/internal/compose"
	"github.com/byrnedo/sentinel-setup/internal/config"
)

var renderEnv bool

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the generated compose descriptor without touching the host",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if renderEnv {
			fmt.Fprint(os.Stdout, compose.EnvTemplate)
			return nil
		}
		data, err := compose.Render(cfg)
		if err != nil {
			return err
		}
		os.Stdout.Write(data)
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderEnv, "env", false, "print the environment file template instead")
	rootCmd.AddCommand(renderCmd)
}
