package provision

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/byrnedo/sentinel-setup/internal/compose"
)

func createProjectDir(ctx context.Context, env *Env) error {
	return env.mkdirAll(env.Cfg.Dir(), 0755)
}

// writeComposeFile renders the orchestration descriptor. An unchanged file is
// left alone; a hand-edited one is backed up to compose.yaml.bak before being
// replaced, so operator edits are never silently discarded.
func writeComposeFile(ctx context.Context, env *Env) error {
	data, err := compose.Render(env.Cfg)
	if err != nil {
		return err
	}
	path := filepath.Join(env.Cfg.Dir(), "compose.yaml")

	existing, readErr := os.ReadFile(path)
	if readErr == nil {
		if bytes.Equal(existing, data) {
			env.printf("%s unchanged", path)
			return nil
		}
		if err := env.writeFile(path+".bak", existing, 0644); err != nil {
			return fmt.Errorf("backing up previous descriptor: %w", err)
		}
		env.warnf("previous %s differed, kept a copy at %s.bak", path, path)
	}

	return env.writeFile(path, data, 0644)
}

// writeEnvFile creates the environment template once and never overwrites
// it, so keys the operator added survive re-runs.
func writeEnvFile(ctx context.Context, env *Env) error {
	path := filepath.Join(env.Cfg.Dir(), ".env")
	if _, err := os.Stat(path); err == nil {
		env.printf("%s exists, leaving it untouched", path)
		return nil
	}
	return env.writeFile(path, []byte(compose.EnvTemplate), 0644)
}

func writeOperatorScripts(ctx context.Context, env *Env) error {
	for _, s := range compose.Scripts() {
		if err := env.writeFile(filepath.Join(env.Cfg.Dir(), s.Name), []byte(s.Content), 0755); err != nil {
			return err
		}
	}
	return nil
}

func fixOwnership(ctx context.Context, env *Env) error {
	owner := env.Cfg.ServiceUser + ":" + env.Cfg.ServiceUser
	return env.run(ctx, "chown", "-R", owner, env.Cfg.Dir())
}
