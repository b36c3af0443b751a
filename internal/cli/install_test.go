package cli

import (
	"context"
	"testing"
)

func patchStdinIsTTY(t *testing.T, tty bool) {
	t.Helper()
	orig := stdinIsTTY
	stdinIsTTY = func() bool { return tty }
	t.Cleanup(func() { stdinIsTTY = orig })
}

func TestConfirmNeeded_SkipsWithoutTerminal(t *testing.T) {
	patchStdinIsTTY(t, false)
	if confirmNeeded(false, false) {
		t.Error("piped stdin must skip the confirmation prompt")
	}
}

func TestConfirmNeeded_InteractiveDefault(t *testing.T) {
	patchStdinIsTTY(t, true)
	if !confirmNeeded(false, false) {
		t.Error("an interactive install without --yes must confirm")
	}
	if confirmNeeded(true, false) {
		t.Error("--yes must skip the confirmation prompt")
	}
	if confirmNeeded(false, true) {
		t.Error("--dry-run must skip the confirmation prompt")
	}
}

func TestNewDryRunner_SeedsHostFacts(t *testing.T) {
	d := newDryRunner(context.Background())
	for _, name := range []string{"dpkg", "lsb_release"} {
		if d.Results[name] == "" {
			t.Errorf("dry runner should carry a %s result for the preview", name)
		}
	}
}
