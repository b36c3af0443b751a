package system

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/user"
	"strings"
)

// Patchable for tests.
var (
	geteuid       = os.Geteuid
	lookupUser    = user.Lookup
	osReleasePath = "/etc/os-release"
)

// IsRoot reports whether the process runs with an effective uid of 0.
func IsRoot() bool {
	return geteuid() == 0
}

// UserExists checks if a system user exists.
func UserExists(name string) bool {
	_, err := lookupUser(name)
	return err == nil
}

// DpkgArch returns the dpkg architecture of the running system (amd64, arm64, ...).
func DpkgArch(ctx context.Context, r Runner) (string, error) {
	out, err := r.Output(ctx, Cmd{Name: "dpkg", Args: []string{"--print-architecture"}})
	if err != nil {
		return "", fmt.Errorf("detecting dpkg architecture: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Codename returns the distribution codename (e.g. "noble") from
// /etc/os-release, falling back to lsb_release when the field is absent.
func Codename(ctx context.Context, r Runner) (string, error) {
	if data, err := os.ReadFile(osReleasePath); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if v, ok := strings.CutPrefix(line, "VERSION_CODENAME="); ok {
				return strings.Trim(v, `"`), nil
			}
		}
	}
	out, err := r.Output(ctx, Cmd{Name: "lsb_release", Args: []string{"-cs"}})
	if err != nil {
		return "", fmt.Errorf("detecting distribution codename: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// PrimaryIP returns the host's primary outbound IPv4 address. No packet is
// sent; the dial only resolves the local routing decision.
func PrimaryIP() string {
	conn, err := net.Dial("udp4", "1.1.1.1:53")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
