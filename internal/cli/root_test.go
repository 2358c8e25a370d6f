package cli

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommand_Help(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"--help"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	output := buf.String()
	if output == "" {
		t.Error("expected help output, got empty string")
	}
	if !strings.Contains(output, "thirdparty") {
		t.Error("expected help to contain 'thirdparty'")
	}
	for _, group := range []string{"License Reports:", "CLI & Tooling:"} {
		if !strings.Contains(output, group) {
			t.Errorf("expected help to list group %q", group)
		}
	}
}

func TestRootCommand_Version(t *testing.T) {
	resetFlags(t)
	SetVersion("1.2.3")
	// Cobra uses --version flag, not a version subcommand
	rootCmd.SetArgs([]string{"--version"})
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	err := rootCmd.Execute()
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if got := buf.String(); !strings.Contains(got, "1.2.3") {
		t.Errorf("expected version output to contain version, got %q", got)
	}
}

func TestRootCommand_InvalidCommand(t *testing.T) {
	resetFlags(t)
	rootCmd.SetArgs([]string{"invalid-command"})
	var buf bytes.Buffer
	rootCmd.SetErr(&buf)
	defer rootCmd.SetErr(nil)

	err := rootCmd.Execute()
	if err == nil {
		t.Error("expected error for invalid command")
	}
}

func TestSetVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"normal version", "1.2.3", "1.2.3"},
		{"empty version", "", "1.2.3"}, // Should not change if empty
		{"dev version", "dev", "dev"},
	}

	SetVersion("1.2.3")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetVersion(tt.version)
			if rootCmd.Version != tt.want {
				t.Errorf("SetVersion(%q): Version = %q, want %q", tt.version, rootCmd.Version, tt.want)
			}
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	subcommands := []string{"aggregate", "check", "version", "completion"}

	for _, cmd := range subcommands {
		t.Run(cmd, func(t *testing.T) {
			subCmd, _, err := rootCmd.Find([]string{cmd})
			if err != nil {
				t.Errorf("Find(%q) error = %v", cmd, err)
			}
			if subCmd == nil || subCmd.Name() != cmd {
				t.Errorf("Find(%q) returned %v", cmd, subCmd)
			}
		})
	}
}

func TestAggregateFlagsMatchConfigKeys(t *testing.T) {
	for _, cmd := range []string{"aggregate", "check"} {
		sub, _, err := rootCmd.Find([]string{cmd})
		if err != nil {
			t.Fatalf("Find(%q) error = %v", cmd, err)
		}
		for _, name := range []string{
			"manifest", "tool", "selection-file", "missing-file", "encoding",
			"output-dir", "filename", "format", "group-by-license",
			"include-aggregator", "excluded-packagings", "license-merges",
			"included-licenses", "excluded-licenses", "fail-on-missing",
			"fail-on-blacklist", "unknown-license", "force", "skip",
			"verbose", "metrics-file",
		} {
			if sub.Flags().Lookup(name) == nil {
				t.Errorf("%s: missing flag --%s", cmd, name)
			}
		}
	}
}
