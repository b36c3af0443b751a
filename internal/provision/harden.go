package provision

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Patchable for tests.
var unattendedUpgradesConf = "/etc/apt/apt.conf.d/50unattended-upgrades"

const autoRebootDirective = `Unattended-Upgrade::Automatic-Reboot "false";`

func upgradeSystem(ctx context.Context, env *Env) error {
	if err := env.run(ctx, "apt-get", "update", "-qq"); err != nil {
		return err
	}
	return env.run(ctx, "apt-get", "upgrade", "-y")
}

func installBasePackages(ctx context.Context, env *Env) error {
	args := append([]string{"install", "-y"}, env.Cfg.BasePackages...)
	return env.run(ctx, "apt-get", args...)
}

// configureFirewall rebuilds the ruleset from scratch on every run:
// deny inbound, allow outbound, allow SSH and the service port.
func configureFirewall(ctx context.Context, env *Env) error {
	rules := [][]string{
		{"--force", "reset"},
		{"default", "deny", "incoming"},
		{"default", "allow", "outgoing"},
		{"allow", fmt.Sprintf("%d/tcp", env.Cfg.SSHPort), "comment", "SSH"},
		{"allow", fmt.Sprintf("%d/tcp", env.Cfg.ServicePort), "comment", "Sentinel"},
		{"--force", "enable"},
	}
	for _, r := range rules {
		if err := env.run(ctx, "ufw", r...); err != nil {
			return err
		}
	}
	return nil
}

func enableFail2ban(ctx context.Context, env *Env) error {
	return env.run(ctx, "systemctl", "enable", "--now", "fail2ban")
}

// configureUnattendedUpgrades disables automatic reboots after kernel
// patches and enables the unattended-upgrades service. The directive is only
// appended when not already present, so re-runs do not duplicate it.
func configureUnattendedUpgrades(ctx context.Context, env *Env) error {
	existing, err := os.ReadFile(unattendedUpgradesConf)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", unattendedUpgradesConf, err)
	}

	if !strings.Contains(string(existing), autoRebootDirective) {
		content := string(existing)
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		content += autoRebootDirective + "\n"
		if err := env.writeFile(unattendedUpgradesConf, []byte(content), 0644); err != nil {
			return err
		}
	} else {
		env.printf("automatic-reboot directive already present in %s", unattendedUpgradesConf)
	}

	return env.run(ctx, "systemctl", "enable", "--now", "unattended-upgrades")
}
