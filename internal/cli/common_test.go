package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/danieljhkim/thirdparty/internal/config"
	"github.com/danieljhkim/thirdparty/internal/report"
)

// resetFlags restores every command flag to its default once the test ends.
// Cobra commands are package globals, so parsed values survive between Execute calls.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		reset := func(f *pflag.Flag) {
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				_ = sv.Replace(nil)
			} else {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		}
		for _, cmd := range []*cobra.Command{rootCmd, aggregateCmd, checkCmd} {
			cmd.Flags().VisitAll(reset)
			cmd.PersistentFlags().VisitAll(reset)
		}
		rootCmd.SetArgs(nil)
	})
}

// captureStdout runs fn and returns what it printed.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	oldColorOutput := color.Output
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Pipe() error = %v", err)
	}
	os.Stdout = w
	color.Output = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = oldStdout
	color.Output = oldColorOutput
	return <-done
}

func TestFormatError(t *testing.T) {
	got := FormatError(os.ErrNotExist)
	if !strings.Contains(got, "Error:") {
		t.Errorf("FormatError() = %q, expected to contain 'Error:'", got)
	}
	if !strings.Contains(got, os.ErrNotExist.Error()) {
		t.Errorf("FormatError() = %q, expected to contain the cause", got)
	}
}

func TestOutputJSON(t *testing.T) {
	data := map[string]string{"test": "value"}

	var err error
	output := captureStdout(t, func() {
		err = outputJSON(data)
	})
	if err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var v map[string]string
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		t.Fatalf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["test"] != "value" {
		t.Errorf("outputJSON() = %q", output)
	}
}

func TestPrintFunctions(t *testing.T) {
	output := captureStdout(t, func() {
		PrintSuccess("Success message")
		PrintWarning("Warning message")
		PrintInfo("Info message")
		PrintList([]string{"first", "second"}, 1)
		PrintTable([]string{"NAME", "VALUE"}, [][]string{{"a", "1"}, {"bb", "22"}})
	})

	for _, want := range []string{"Success message", "Warning message", "Info message", "first", "second", "NAME", "bb"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestPrintTable_Empty(t *testing.T) {
	output := captureStdout(t, func() {
		PrintTable([]string{"NAME"}, nil)
	})
	if output != "" {
		t.Errorf("PrintTable() with no rows printed %q", output)
	}
}

func TestPrintCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0 dependencies"},
		{1, "1 dependency"},
		{2, "2 dependencies"},
	}
	for _, tt := range tests {
		if got := PrintCount(tt.count, "dependency", "dependencies"); got != tt.want {
			t.Errorf("PrintCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}

func TestNewAggregateRequest(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.ProjectDir = dir
	cfg.Format = "json"
	cfg.ThirdPartyFilename = "THIRD-PARTY.json"
	cfg.IncludedLicenses = []string{"MIT"}
	cfg.ExcludedLicenses = []string{"GPL-3.0"}
	cfg.MetricsFile = "target/thirdparty.prom"
	cfg.GroupByLicense = true
	cfg.FailOnBlacklist = true

	req := newAggregateRequest(cfg)

	if want := filepath.Join(dir, cfg.Manifest); req.Manifest != want {
		t.Errorf("Manifest = %q, want %q", req.Manifest, want)
	}
	if want := filepath.Join(dir, config.DefaultSelectionFile); req.SelectionFile != want {
		t.Errorf("SelectionFile = %q, want %q", req.SelectionFile, want)
	}
	if req.MissingFile != config.DefaultMissingFile {
		t.Errorf("MissingFile = %q, want it relative to each module", req.MissingFile)
	}
	if want := filepath.Join(dir, config.DefaultOutputDirectory, "THIRD-PARTY.json"); req.ReportPath != want {
		t.Errorf("ReportPath = %q, want %q", req.ReportPath, want)
	}
	if want := filepath.Join(dir, "target/thirdparty.prom"); req.MetricsFile != want {
		t.Errorf("MetricsFile = %q, want %q", req.MetricsFile, want)
	}
	if req.Report.Format != report.FormatJSON || !req.Report.GroupByLicense {
		t.Errorf("Report = %+v", req.Report)
	}
	if req.Policy.UnknownLicense != cfg.UnknownLicenseMessage {
		t.Errorf("Policy.UnknownLicense = %q", req.Policy.UnknownLicense)
	}
	if len(req.Policy.Included) != 1 || len(req.Policy.Excluded) != 1 {
		t.Errorf("Policy = %+v", req.Policy)
	}
	if !req.FailOnBlacklist || req.FailOnMissing {
		t.Errorf("FailOnBlacklist = %v, FailOnMissing = %v", req.FailOnBlacklist, req.FailOnMissing)
	}
	if req.DryRun {
		t.Error("DryRun must be set by the command, not the config")
	}
}

func TestNewAggregateRequest_NoMetricsFile(t *testing.T) {
	cfg := config.Default()
	cfg.ProjectDir = t.TempDir()

	if req := newAggregateRequest(cfg); req.MetricsFile != "" {
		t.Errorf("MetricsFile = %q, want empty", req.MetricsFile)
	}
}
