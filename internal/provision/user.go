package provision

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/byrnedo/sentinel-setup/internal/system"
)

// Patchable for tests.
var userExists = system.UserExists

// provisionServiceUser creates the service account if it does not exist and
// forces a password change on the first interactive login. The account is
// never deleted by this tool. Group membership is reapplied on every run.
func provisionServiceUser(ctx context.Context, env *Env) error {
	name := env.Cfg.ServiceUser

	if userExists(name) {
		env.warnf("user %s already exists, keeping it", name)
	} else {
		env.printf("creating user %s", name)
		if err := env.run(ctx, "useradd", "--create-home", "--shell", "/bin/bash", name); err != nil {
			return err
		}

		pw, err := generatePassword()
		if err != nil {
			return fmt.Errorf("generating temporary password: %w", err)
		}
		env.TempPassword = pw
		if err := env.Runner.Run(ctx, env.Log, system.Cmd{
			Name:  "chpasswd",
			Stdin: name + ":" + pw + "\n",
		}); err != nil {
			return err
		}

		// Next interactive login demands a new password.
		if err := env.run(ctx, "passwd", "--expire", name); err != nil {
			return err
		}
	}

	return env.run(ctx, "usermod", "-aG", "sudo", name)
}

// generatePassword returns a random one-time credential. It is only ever
// valid until the forced rotation on first login.
func generatePassword() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
