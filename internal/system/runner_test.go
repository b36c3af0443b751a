package system

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestExecRunner_StreamsOutput(t *testing.T) {
	var log bytes.Buffer
	err := ExecRunner{}.Run(context.Background(), &log, Cmd{Name: "echo", Args: []string{"hello"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(log.String(), "hello") {
		t.Errorf("command output should be streamed to log, got: %q", log.String())
	}
	if !strings.Contains(log.String(), "$ echo hello") {
		t.Errorf("command line should be echoed, got: %q", log.String())
	}
}

func TestExecRunner_ErrorNamesCommand(t *testing.T) {
	var log bytes.Buffer
	err := ExecRunner{}.Run(context.Background(), &log, Cmd{Name: "false"})
	if err == nil {
		t.Fatal("expected error from failing command")
	}
	if !strings.Contains(err.Error(), "false") {
		t.Errorf("error should name the command, got: %v", err)
	}
}

func TestExecRunner_OutputUsesStdin(t *testing.T) {
	out, err := ExecRunner{}.Output(context.Background(), Cmd{Name: "cat", Stdin: "piped"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "piped" {
		t.Errorf("got %q, want piped", out)
	}
}

func TestDryRunner_RecordsWithoutExecuting(t *testing.T) {
	var log bytes.Buffer
	d := &DryRunner{}

	// A command that would be destructive if it actually ran.
	err := d.Run(context.Background(), &log, Cmd{Name: "ufw", Args: []string{"--force", "reset"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(d.Calls) != 1 {
		t.Fatalf("expected 1 recorded call, got %d", len(d.Calls))
	}
	if got := d.CommandLines()[0]; got != "ufw --force reset" {
		t.Errorf("unexpected recorded command: %q", got)
	}
	if !strings.Contains(log.String(), "(dry-run)") {
		t.Errorf("dry-run marker missing from log: %q", log.String())
	}
}

func TestDryRunner_CannedOutput(t *testing.T) {
	d := &DryRunner{Results: map[string]string{"dpkg": "arm64\n"}}
	out, err := d.Output(context.Background(), Cmd{Name: "dpkg", Args: []string{"--print-architecture"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "arm64\n" {
		t.Errorf("got %q", out)
	}
}
