package provision

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/byrnedo/sentinel-setup/internal/config"
	"github.com/byrnedo/sentinel-setup/internal/system"
)

// newTestEnv returns an Env backed by a recording runner and a temp project
// directory. File writes are real (into the temp dir); commands are not.
func newTestEnv(t *testing.T) (*Env, *system.DryRunner) {
	t.Helper()
	d := &system.DryRunner{Results: map[string]string{
		"dpkg":        "amd64\n",
		"lsb_release": "noble\n",
	}}
	cfg := config.Default()
	cfg.ProjectDir = t.TempDir()
	return &Env{Cfg: cfg, Runner: d, Log: io.Discard}, d
}

// patchPaths redirects all global config file paths to a temp dir.
func patchPaths(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	origConf := unattendedUpgradesConf
	origList := dockerListPath
	origDaemon := daemonConfigPath
	origKeyring := dockerKeyringPath
	unattendedUpgradesConf = filepath.Join(dir, "50unattended-upgrades")
	dockerListPath = filepath.Join(dir, "docker.list")
	daemonConfigPath = filepath.Join(dir, "daemon.json")
	dockerKeyringPath = filepath.Join(dir, "docker.asc")
	t.Cleanup(func() {
		unattendedUpgradesConf = origConf
		dockerListPath = origList
		daemonConfigPath = origDaemon
		dockerKeyringPath = origKeyring
	})
	return dir
}

func patchUserExists(t *testing.T, exists bool) {
	t.Helper()
	orig := userExists
	userExists = func(string) bool { return exists }
	t.Cleanup(func() { userExists = orig })
}

func TestApply_RunsStepsInOrder(t *testing.T) {
	env, _ := newTestEnv(t)
	var buf bytes.Buffer
	env.Log = &buf
	var order []string
	steps := []Step{
		{Name: "one", Apply: func(ctx context.Context, e *Env) error { order = append(order, "one"); return nil }},
		{Name: "two", Apply: func(ctx context.Context, e *Env) error { order = append(order, "two"); return nil }},
	}
	if err := Apply(context.Background(), env, steps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Join(order, ",") != "one,two" {
		t.Errorf("unexpected order: %v", order)
	}
	for _, name := range []string{"one", "two"} {
		if !strings.Contains(buf.String(), "OK  "+name) {
			t.Errorf("completed step %s should be marked done, got:\n%s", name, buf.String())
		}
	}
}

func TestApply_HaltsAtFirstFailureAndNamesStep(t *testing.T) {
	env, _ := newTestEnv(t)
	var ran []string
	steps := []Step{
		{Name: "ok", Apply: func(ctx context.Context, e *Env) error { ran = append(ran, "ok"); return nil }},
		{Name: "boom", Apply: func(ctx context.Context, e *Env) error { return os.ErrPermission }},
		{Name: "never", Apply: func(ctx context.Context, e *Env) error { ran = append(ran, "never"); return nil }},
	}
	err := Apply(context.Background(), env, steps)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "step boom") {
		t.Errorf("error should name the failed step, got: %v", err)
	}
	if len(ran) != 1 {
		t.Errorf("steps after the failure must not run, ran: %v", ran)
	}
}

func TestSequence_PreflightFirstSummaryLast(t *testing.T) {
	steps := Sequence()
	if steps[0].Name != "preflight" {
		t.Errorf("first step must be preflight, got %s", steps[0].Name)
	}
	if steps[len(steps)-1].Name != "summary" {
		t.Errorf("last step must be summary, got %s", steps[len(steps)-1].Name)
	}
}

func TestPreflight_RejectsNonRoot(t *testing.T) {
	orig := isRoot
	t.Cleanup(func() { isRoot = orig })

	env, _ := newTestEnv(t)

	isRoot = func() bool { return false }
	if err := preflight(context.Background(), env); err == nil {
		t.Error("expected error when not root")
	}

	isRoot = func() bool { return true }
	if err := preflight(context.Background(), env); err != nil {
		t.Errorf("unexpected error as root: %v", err)
	}
}

func TestApply_DryRunWritesNoFiles(t *testing.T) {
	patchPaths(t)
	patchUserExists(t, false)

	env, runner := newTestEnv(t)
	env.DryRun = true

	if err := Apply(context.Background(), env, Sequence()); err != nil {
		t.Fatalf("dry run should succeed without root: %v", err)
	}

	entries, err := os.ReadDir(env.Cfg.Dir())
	if err != nil {
		t.Fatalf("reading project dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("dry run must not create files, found %d", len(entries))
	}
	if len(runner.Calls) == 0 {
		t.Error("dry run should still record the planned commands")
	}
}

func TestPrintSummary_ShowsURLAndPassword(t *testing.T) {
	orig := primaryIP
	primaryIP = func() string { return "192.0.2.1" }
	t.Cleanup(func() { primaryIP = orig })

	env, _ := newTestEnv(t)
	var buf bytes.Buffer
	env.Log = &buf
	env.TempPassword = "deadbeef"

	if err := printSummary(context.Background(), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "http://192.0.2.1:8080") {
		t.Errorf("summary should show the service URL, got:\n%s", out)
	}
	if !strings.Contains(out, "deadbeef") {
		t.Errorf("summary should show the temporary password, got:\n%s", out)
	}
}

func TestPrintSummary_ExistingAccount(t *testing.T) {
	orig := primaryIP
	primaryIP = func() string { return "192.0.2.1" }
	t.Cleanup(func() { primaryIP = orig })

	env, _ := newTestEnv(t)
	var buf bytes.Buffer
	env.Log = &buf

	if err := printSummary(context.Background(), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "already existed") {
		t.Errorf("summary should mention the untouched account, got:\n%s", buf.String())
	}
}
