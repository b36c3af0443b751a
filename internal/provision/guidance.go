package provision

import (
	"context"
	"fmt"

	"github.com/byrnedo/sentinel-setup/internal/system"
	"github.com/byrnedo/sentinel-setup/internal/ui"
)

// Patchable for tests.
var primaryIP = system.PrimaryIP

// printSummary is output only: credentials, service URL, maintenance
// reminders. It changes no host state.
func printSummary(ctx context.Context, env *Env) error {
	ip := primaryIP()
	cfg := env.Cfg

	fmt.Fprintln(env.Log)
	ui.Success(env.Log, "Provisioning complete.")
	fmt.Fprintln(env.Log)

	if env.TempPassword != "" {
		fmt.Fprintf(env.Log, "%s\n", ui.Bold("Service account"))
		fmt.Fprintf(env.Log, "  user:               %s\n", cfg.ServiceUser)
		fmt.Fprintf(env.Log, "  temporary password: %s\n", env.TempPassword)
		fmt.Fprintf(env.Log, "  %s\n", ui.Hint(fmt.Sprintf("ssh %s@%s will force a password change on first login", cfg.ServiceUser, ip)))
	} else {
		fmt.Fprintf(env.Log, "%s\n", ui.Bold("Service account"))
		fmt.Fprintf(env.Log, "  user %s already existed; its password was not touched\n", cfg.ServiceUser)
	}
	fmt.Fprintln(env.Log)

	fmt.Fprintf(env.Log, "%s\n", ui.Bold("Next steps"))
	fmt.Fprintf(env.Log, "  1. su - %s\n", cfg.ServiceUser)
	fmt.Fprintf(env.Log, "  2. cd %s && ./start.sh\n", cfg.Dir())
	fmt.Fprintf(env.Log, "  3. open %s\n", cfg.ServiceURL(ip))
	fmt.Fprintln(env.Log)

	fmt.Fprintf(env.Log, "%s\n", ui.Bold("Maintenance"))
	fmt.Fprintf(env.Log, "  - ./update.sh pulls the pinned image and recreates the container\n")
	fmt.Fprintf(env.Log, "  - edit compose.yaml to move to a newer Sentinel release\n")
	fmt.Fprintf(env.Log, "  - ufw status / fail2ban-client status to review the hardening\n")

	return nil
}
