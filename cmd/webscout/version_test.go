package main

import (
	"bytes"
	"strings"
	"testing"
)

// TestResolveBuildDetails tests fallback resolution of build metadata.
func TestResolveBuildDetails(t *testing.T) {
	d := resolveBuildDetails()
	if d.version == "" {
		t.Error("expected non-empty version")
	}
	if d.commit == "" {
		t.Error("expected non-empty commit")
	}
	if d.date == "" {
		t.Error("expected non-empty date")
	}
}

// TestResolveBuildDetailsWithLdflags tests that ldflags take priority.
func TestResolveBuildDetailsWithLdflags(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() { version, commit, date = origVersion, origCommit, origDate }()

	version = "v1.2.3"
	commit = "abc1234"
	date = "2026-09-01"

	d := resolveBuildDetails()
	if d.version != "v1.2.3" {
		t.Errorf("expected 'v1.2.3', got %q", d.version)
	}
	if d.commit != "abc1234" {
		t.Errorf("expected 'abc1234', got %q", d.commit)
	}
	if d.date != "2026-09-01" {
		t.Errorf("expected '2026-09-01', got %q", d.date)
	}
}

// TestShortCommit tests revision hash abbreviation.
func TestShortCommit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rev  string
		want string
	}{
		{"0123456789abcdef", "0123456"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := shortCommit(tt.rev); got != tt.want {
			t.Errorf("shortCommit(%q) = %q, want %q", tt.rev, got, tt.want)
		}
	}
}

// TestNewVersionCmd tests the version command output.
func TestNewVersionCmd(t *testing.T) {
	cmd := NewVersionCmd()

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "webscout version") {
		t.Errorf("expected version output, got: %s", output)
	}
	if !strings.Contains(output, "commit:") {
		t.Errorf("expected commit line, got: %s", output)
	}
	if !strings.Contains(output, "built:") {
		t.Errorf("expected build date line, got: %s", output)
	}
}
