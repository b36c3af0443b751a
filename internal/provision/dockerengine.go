package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/byrnedo/sentinel-setup/internal/system"
)

// Patchable for tests.
var (
	dockerKeyringPath = "/etc/apt/keyrings/docker.asc"
	dockerListPath    = "/etc/apt/sources.list.d/docker.list"
	daemonConfigPath  = "/etc/docker/daemon.json"
)

const dockerKeyURL = "https://download.docker.com/linux/ubuntu/gpg"

var dockerPackages = []string{
	"docker-ce",
	"docker-ce-cli",
	"containerd.io",
	"docker-buildx-plugin",
	"docker-compose-plugin",
}

// daemonConfig is the security-oriented engine configuration: bounded log
// files, live-restore on, userland proxy off.
type daemonConfig struct {
	LogDriver     string            `json:"log-driver"`
	LogOpts       map[string]string `json:"log-opts"`
	LiveRestore   bool              `json:"live-restore"`
	UserlandProxy bool              `json:"userland-proxy"`
}

// addDockerRepo imports Docker's signing key and registers the upstream
// package repository for the host's architecture and distribution codename.
func addDockerRepo(ctx context.Context, env *Env) error {
	if err := env.run(ctx, "install", "-m", "0755", "-d", "/etc/apt/keyrings"); err != nil {
		return err
	}
	if err := env.run(ctx, "curl", "-fsSL", dockerKeyURL, "-o", dockerKeyringPath); err != nil {
		return err
	}
	if err := env.run(ctx, "chmod", "a+r", dockerKeyringPath); err != nil {
		return err
	}

	arch, err := system.DpkgArch(ctx, env.Runner)
	if err != nil {
		return err
	}
	codename, err := system.Codename(ctx, env.Runner)
	if err != nil {
		return err
	}

	entry := fmt.Sprintf("deb [arch=%s signed-by=%s] https://download.docker.com/linux/ubuntu %s stable\n",
		arch, dockerKeyringPath, codename)
	if err := env.writeFile(dockerListPath, []byte(entry), 0644); err != nil {
		return err
	}

	return env.run(ctx, "apt-get", "update", "-qq")
}

func installDockerEngine(ctx context.Context, env *Env) error {
	args := append([]string{"install", "-y"}, dockerPackages...)
	if err := env.run(ctx, "apt-get", args...); err != nil {
		return err
	}
	return env.run(ctx, "systemctl", "enable", "--now", "docker")
}

// configureDockerDaemon writes /etc/docker/daemon.json and restarts the
// engine, but only when the content actually changed.
func configureDockerDaemon(ctx context.Context, env *Env) error {
	cfg := daemonConfig{
		LogDriver:     "json-file",
		LogOpts:       map[string]string{"max-size": "10m", "max-file": "3"},
		LiveRestore:   true,
		UserlandProxy: false,
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling daemon config: %w", err)
	}
	data = append(data, '\n')

	if existing, err := os.ReadFile(daemonConfigPath); err == nil && bytes.Equal(existing, data) {
		env.printf("daemon config unchanged, skipping engine restart")
		return nil
	}

	if err := env.writeFile(daemonConfigPath, data, 0644); err != nil {
		return err
	}
	return env.run(ctx, "systemctl", "restart", "docker")
}

// grantDockerGroup adds the service account to the docker group. Membership
// amounts to passwordless control over the engine, which is the intended
// trust boundary for the operator account.
func grantDockerGroup(ctx context.Context, env *Env) error {
	return env.run(ctx, "usermod", "-aG", "docker", env.Cfg.ServiceUser)
}
