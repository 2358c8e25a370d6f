package cli

import (
	"encoding/json"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/viant/afs"

	"github.com/danieljhkim/thirdparty/internal/clock"
	"github.com/danieljhkim/thirdparty/internal/compliance"
	"github.com/danieljhkim/thirdparty/internal/config"
	"github.com/danieljhkim/thirdparty/internal/engine"
	"github.com/danieljhkim/thirdparty/internal/fsops"
	"github.com/danieljhkim/thirdparty/internal/hash"
	"github.com/danieljhkim/thirdparty/internal/reactor"
	"github.com/danieljhkim/thirdparty/internal/report"
)

// newLogger creates the process logger. Logs go to stderr so --json output stays clean.
func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "thirdparty",
		Level:  level,
	})
}

// newEngine creates a new engine with real implementations of all dependencies.
func newEngine(logger *log.Logger) *engine.Engine {
	storage := afs.New()
	return engine.New(
		storage,
		reactor.NewFileSource(storage, logger),
		fsops.NewRealFS(),
		hash.NewHighwayHasher(),
		clock.NewRealClock(),
		logger,
	)
}

// loadConfig reads settings for cmd, with its changed flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.LoadOptions{
		ProjectDir: projectDir,
		ConfigFile: configFile,
		Flags:      cmd.Flags(),
	})
}

// newAggregateRequest maps settings onto an engine request.
// Settings are expected to be validated already.
func newAggregateRequest(cfg *config.Config) *engine.AggregateRequest {
	format, _ := report.ParseFormat(cfg.Format)
	return &engine.AggregateRequest{
		Manifest:           cfg.Path(cfg.Manifest),
		ToolName:           cfg.ToolName,
		SelectionFile:      cfg.Path(cfg.SelectionFile),
		MissingFile:        cfg.MissingFile,
		Encoding:           cfg.Encoding,
		IncludeAggregator:  cfg.IncludeAggregator,
		ExcludedPackagings: cfg.ExcludedPackagings,
		LicenseMerges:      cfg.LicenseMerges,
		Policy: compliance.Policy{
			Included:       cfg.IncludedLicenses,
			Excluded:       cfg.ExcludedLicenses,
			UnknownLicense: cfg.UnknownLicenseMessage,
		},
		FailOnMissing:   cfg.FailOnMissing,
		FailOnBlacklist: cfg.FailOnBlacklist,
		ReportPath:      cfg.ReportPath(),
		Report: report.Options{
			Format:         format,
			GroupByLicense: cfg.GroupByLicense,
		},
		Force:       cfg.Force,
		Skip:        cfg.Skip,
		Verbose:     cfg.Verbose,
		MetricsFile: cfg.Path(cfg.MetricsFile),
	}
}

// FormatError formats an error for display.
func FormatError(err error) string {
	initColors()
	return errorColor.Sprintf("Error: %v", err)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
