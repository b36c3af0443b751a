package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/byrnedo/sentinel-setup/internal/provision"
	"github.com/byrnedo/sentinel-setup/internal/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the provisioning steps in execution order",
	Run: func(cmd *cobra.Command, args []string) {
		steps := provision.Sequence()
		for i, s := range steps {
			fmt.Fprintf(os.Stdout, "%2d. %s\n    %s\n", i+1, ui.Bold(s.Name), ui.Dim(s.Description))
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
}
