package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/thirdparty/internal/engine"
	"github.com/danieljhkim/thirdparty/internal/planner"
)

var aggregateCmd = &cobra.Command{
	Use:   "aggregate",
	Short: "Merge module license inventories into one third-party report",
	Long: `Merge the license inventory of every module listed in the build manifest,
resolve dependencies with several licenses using the selection file, and write
the third-party report.

Each module must already carry its own inventory (see the manifest's "inventory"
field; default target/thirdparty/inventory.yaml).

The command fails when a forbidden license is used (--fail-on-blacklist) or
when dependencies without a license remain (--fail-on-missing).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregate(cmd, false)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report license choices still needed, without writing files",
	Long: `Run the aggregation without writing the report or metrics, and list the
dependencies that still need an entry in the selection file.

Fails when any dependency with several licenses has no selection, or when a
selection names a license the dependency does not carry.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAggregate(cmd, true)
	},
}

func init() {
	addAggregateFlags(aggregateCmd)
	addAggregateFlags(checkCmd)
}

// addAggregateFlags registers the flags that override config keys.
// Defaults live in the config package; flags only apply when set.
func addAggregateFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("manifest", "", "Build manifest (default: thirdparty-reactor.yaml)")
	f.String("tool", "", "groupId:artifactId the tool is declared under in the manifest")
	f.String("selection-file", "", "License selection file (default: src/license/override-THIRD-PARTY.properties)")
	f.String("missing-file", "", "Missing-license file, relative to each module (default: src/license/THIRD-PARTY.properties)")
	f.String("encoding", "", "Encoding of the selection and missing-license files (default: UTF-8)")
	f.String("output-dir", "", "Report directory (default: target/generated-sources/license)")
	f.String("filename", "", "Report file name (default: THIRD-PARTY.<ext>)")
	f.String("format", "", "Report format: text, json, yaml or toml (default: text)")
	f.Bool("group-by-license", false, "Group the text report by license")
	f.Bool("include-aggregator", false, "Merge the root module's own inventory")
	f.StringSlice("excluded-packagings", nil, "Module packagings to skip (default: pom)")
	f.StringSlice("license-merges", nil, "License merge rules, \"Main|Alias|Alias\"")
	f.StringSlice("included-licenses", nil, "Only these licenses are allowed")
	f.StringSlice("excluded-licenses", nil, "These licenses are forbidden")
	f.Bool("fail-on-missing", false, "Fail when dependencies without a license remain")
	f.Bool("fail-on-blacklist", false, "Fail when a forbidden license is used")
	f.String("unknown-license", "", "Label of dependencies without license metadata (default: Unknown license)")
	f.Bool("force", false, "Rewrite the report even when it is up to date")
	f.Bool("skip", false, "Skip aggregation")
	f.BoolP("verbose", "v", false, "Log per-module and per-license details")
	f.String("metrics-file", "", "Write Prometheus gauges to this textfile")
}

func runAggregate(cmd *cobra.Command, dryRun bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	for _, note := range cfg.Deprecations {
		logger.Warn(note)
	}
	if cfg.Source != "" {
		logger.Debug("Loaded config", "file", cfg.Source)
	}

	req := newAggregateRequest(cfg)
	req.DryRun = dryRun

	result, err := newEngine(logger).Aggregate(context.Background(), req)
	if result != nil {
		if jsonOutput {
			if jerr := outputJSON(result); jerr != nil {
				return jerr
			}
		} else {
			printAggregateResult(result, dryRun)
		}
	}
	if err != nil {
		return err
	}

	if dryRun && result.Resolution != nil {
		pending := len(result.Resolution.Unresolved()) + len(result.Resolution.Mismatched())
		if pending > 0 {
			return fmt.Errorf("license selection needed for %s", PrintCount(pending, "dependency", "dependencies"))
		}
	}
	return nil
}

func printAggregateResult(result *engine.AggregateResult, dryRun bool) {
	if result.Skipped {
		PrintInfo("Aggregation skipped")
		return
	}

	PrintSection("Modules")
	rows := make([][]string, 0, len(result.Modules))
	for _, m := range result.Modules {
		status := fmt.Sprintf("%d licenses", m.Licenses)
		if !m.Merged {
			status = "skipped: " + m.SkipReason
		}
		rows = append(rows, []string{m.ID.String(), m.Packaging, status})
	}
	if len(rows) == 0 {
		PrintEmptyState("No modules in manifest")
	}
	PrintTable([]string{"MODULE", "PACKAGING", "STATUS"}, rows)

	if result.Resolution != nil && len(result.Resolution.Outcomes) > 0 {
		PrintSection("Dependencies with several licenses")
		rows = rows[:0]
		for _, o := range result.Resolution.Outcomes {
			rows = append(rows, []string{o.ID.String(), o.Kind.String(), outcomeDetail(o)})
		}
		PrintTable([]string{"DEPENDENCY", "OUTCOME", "LICENSES"}, rows)
	}

	fmt.Println()
	PrintLabelValue("Licenses", fmt.Sprintf("%d", len(result.Licenses)))
	PrintLabelValue("Pruned", PrintCount(result.Removed, "association", "associations"))
	if len(result.Remapped) > 0 {
		PrintLabelValue("Mapped from missing-license files", PrintCount(len(result.Remapped), "dependency", "dependencies"))
	}

	if len(result.Unsafe) > 0 {
		PrintWarning(fmt.Sprintf("%s without a known license:", PrintCount(len(result.Unsafe), "dependency", "dependencies")))
		items := make([]string, len(result.Unsafe))
		for i, id := range result.Unsafe {
			items[i] = id.String()
		}
		PrintList(items, 1)
	}
	for _, f := range result.Forbidden {
		PrintWarning(fmt.Sprintf("Forbidden license %s (%s) used by %s", f.License, f.Reason,
			PrintCount(len(f.Dependencies), "dependency", "dependencies")))
	}

	switch {
	case dryRun:
		PrintInfo("Dry run: no files written")
	case result.Report == nil:
	case result.Report.Written:
		PrintSuccess("Wrote " + result.Report.Path)
	default:
		PrintSuccess(result.Report.Path + " is up to date")
	}
}

func outcomeDetail(o planner.Outcome) string {
	licenses := strings.Join(o.Licenses, ", ")
	switch o.Kind {
	case planner.Resolved:
		return o.Chosen + " (from " + licenses + ")"
	case planner.Mismatch:
		return "selected " + o.Chosen + ", carries " + licenses
	default:
		return licenses
	}
}
