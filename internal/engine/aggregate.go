package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/danieljhkim/thirdparty/internal/compliance"
	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/inventory"
	"github.com/danieljhkim/thirdparty/internal/metrics"
	"github.com/danieljhkim/thirdparty/internal/planner"
	"github.com/danieljhkim/thirdparty/internal/reactor"
	"github.com/danieljhkim/thirdparty/internal/report"
	"github.com/danieljhkim/thirdparty/internal/selection"
)

// Aggregate runs one aggregation pass: merge every participating module's
// inventory, resolve multi-license dependencies, prune, check and report.
func (e *Engine) Aggregate(ctx context.Context, req *AggregateRequest) (*AggregateResult, error) {
	started := e.clock.Now()
	result := &AggregateResult{
		Phase:     PhaseEmpty,
		StartedAt: started,
		Modules:   []ModuleResult{},
		Licenses:  map[string][]string{},
	}

	if req.Skip {
		e.logger.Info("Skipping third-party license aggregation")
		result.Skipped = true
		return result, nil
	}

	p := &pass{engine: e, req: req, inv: inventory.New(), result: result}
	err := p.run(ctx)
	if err != nil {
		p.phase = PhaseFailed
	}
	result.Phase = p.phase
	result.Duration = e.clock.Now().Sub(started)

	if req.MetricsFile != "" && !req.DryRun && result.Inventory != nil {
		if merr := p.writeMetrics(); merr != nil {
			if err == nil {
				return result, merr
			}
			e.logger.Warn("Failed to write metrics", "file", req.MetricsFile, "err", merr)
		}
	}

	if err != nil && result.Inventory == nil {
		return nil, err
	}
	return result, err
}

// pass owns the inventory of one aggregation run.
type pass struct {
	engine *Engine
	req    *AggregateRequest
	inv    *inventory.Inventory
	phase  Phase
	result *AggregateResult
}

func (p *pass) run(ctx context.Context) error {
	e := p.engine

	manifest, err := reactor.Load(ctx, e.storage, p.req.Manifest)
	if err != nil {
		return err
	}

	tool, err := p.resolveTool(manifest)
	if err != nil {
		return err
	}
	hint := reactor.NewScanHint(tool)
	p.result.Tool = tool
	p.result.ScanHint = hint.String()
	e.logger.Info("Aggregating third-party licenses", "scan", hint.String(), "modules", len(manifest.Modules))

	p.phase = PhaseMerging
	if err := p.merge(ctx, manifest, hint); err != nil {
		return err
	}

	if err := p.applyMissing(ctx, manifest); err != nil {
		return err
	}

	rules, err := inventory.ParseMergeRules(p.req.LicenseMerges)
	if err != nil {
		return err
	}
	p.result.Consolidated = p.inv.Consolidate(rules)

	p.phase = PhaseInverting
	multi := inventory.Invert(p.inv)

	p.phase = PhaseResolving
	sel, found, err := p.loadSelection(ctx)
	if err != nil {
		return err
	}
	p.result.SelectionFound = found
	resolution := planner.Resolve(multi, sel)
	p.result.Resolution = resolution
	p.detail("Resolved license selections", "resolved", len(resolution.Resolved()),
		"pending", len(resolution.Unresolved())+len(resolution.Mismatched()))

	p.phase = PhasePruning
	p.result.Removed = prune(p.inv, resolution.Plan)
	p.result.Inventory = p.inv
	p.result.Licenses = p.inv.Snapshot()
	p.detail("Pruned inventory", "removed", p.result.Removed, "licenses", p.inv.Size())

	p.diagnose(resolution)

	return p.report()
}

// resolveTool finds the tool's own coordinates in the manifest, then in the
// binary's descriptor.
func (p *pass) resolveTool(manifest *reactor.Manifest) (identity.ID, error) {
	if id, ok := manifest.ResolveTool(p.req.ToolName); ok {
		return id, nil
	}
	if p.engine.descriptor != nil {
		if id, ok := p.engine.descriptor(p.req.ToolName); ok {
			return id, nil
		}
	}
	return identity.ID{}, fmt.Errorf("%w: %s is not declared in %s", ErrUnresolvableSelf, p.req.ToolName, manifest.Location)
}

// merge folds every participating module's inventory into p.inv, in declared order.
func (p *pass) merge(ctx context.Context, manifest *reactor.Manifest, hint reactor.ScanHint) error {
	for _, mod := range manifest.Modules {
		if err := ctx.Err(); err != nil {
			return err
		}

		entry := ModuleResult{ID: mod.ID, Packaging: mod.Packaging}
		// The aggregator's own module is governed by the opt-in alone.
		switch {
		case mod.Root:
			if !p.req.IncludeAggregator {
				entry.SkipReason = "aggregator module"
			}
		case slices.Contains(p.req.ExcludedPackagings, mod.Packaging):
			entry.SkipReason = "excluded packaging " + mod.Packaging
		}
		if entry.SkipReason != "" {
			p.engine.logger.Debug("Skipping module", "module", mod.ID.String(), "reason", entry.SkipReason)
			p.result.Modules = append(p.result.Modules, entry)
			continue
		}

		local, err := p.engine.source.Fetch(ctx, hint, mod)
		if err != nil {
			return fmt.Errorf("%w for module %s: %w", ErrMissingLocalInventory, mod.ID, err)
		}
		p.inv.Merge(local)

		entry.Merged = true
		entry.Licenses = local.Size()
		p.result.Modules = append(p.result.Modules, entry)
		p.detail("Merged module", "module", mod.ID.String(), "licenses", local.Size())
	}

	if p.req.Verbose {
		for _, license := range p.inv.Licenses() {
			p.detail("License", "name", license, "dependencies", p.inv.Len(license))
		}
	}
	return nil
}

// applyMissing reads each module's missing-license file, in declared order,
// until no dependency is left without a license.
func (p *pass) applyMissing(ctx context.Context, manifest *reactor.Manifest) error {
	if p.req.MissingFile == "" {
		return nil
	}

	var locations []string
	if reactor.IsAbsolute(p.req.MissingFile) {
		locations = []string{p.req.MissingFile}
	} else {
		for _, mod := range manifest.Modules {
			locations = append(locations, mod.Resolve(p.req.MissingFile))
		}
	}

	for _, location := range locations {
		if len(compliance.Unsafe(p.inv, p.req.Policy)) == 0 {
			return nil
		}

		exists, err := p.engine.storage.Exists(ctx, location)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", location, err)
		}
		if !exists {
			continue
		}

		data, err := p.engine.storage.DownloadWithURL(ctx, location)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", location, err)
		}
		mapping, err := selection.Parse(data, p.req.Encoding)
		if err != nil {
			return fmt.Errorf("%s: %w", location, err)
		}

		moved := compliance.ApplyMissing(p.inv, p.req.Policy, mapping)
		p.result.Remapped = append(p.result.Remapped, moved...)
		p.detail("Applied missing-license file", "file", location, "dependencies", len(moved))
	}
	return nil
}

// loadSelection reads the selection file through storage so URLs work like
// local paths. A missing file yields an empty selection.
func (p *pass) loadSelection(ctx context.Context) (*selection.Selection, bool, error) {
	location := p.req.SelectionFile
	if location == "" {
		return selection.Empty(), false, nil
	}

	exists, err := p.engine.storage.Exists(ctx, location)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check %s: %w", location, err)
	}
	if !exists {
		p.detail("No license selection file", "file", location)
		return selection.Empty(), false, nil
	}

	data, err := p.engine.storage.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read %s: %w", location, err)
	}
	sel, err := selection.Parse(data, p.req.Encoding)
	if err != nil {
		return nil, true, fmt.Errorf("%s: %w", location, err)
	}
	p.detail("Loaded license selection", "file", location, "entries", sel.Len())
	return sel, true, nil
}

// diagnose logs unresolved and mismatched dependencies.
func (p *pass) diagnose(res *planner.Resolution) {
	logger := p.engine.logger

	unresolved := res.Unresolved()
	if len(unresolved) > 0 {
		logger.Info("Dependencies with multiple licenses found, choose one in the selection file",
			"count", len(unresolved), "file", p.req.SelectionFile)
		for _, o := range unresolved {
			logger.Warnf("%s -> [%s]", o.ID, strings.Join(o.Licenses, ", "))
		}
	}

	for _, o := range res.Mismatched() {
		logger.Warn("Selected license is not among the dependency's licenses",
			"dependency", o.ID.String(), "selected", o.Chosen, "licenses", strings.Join(o.Licenses, ", "))
	}
}

// report runs the downstream checks and writes the report.
func (p *pass) report() error {
	logger := p.engine.logger
	policy := p.req.Policy

	unsafe := compliance.Unsafe(p.inv, policy)
	p.result.Unsafe = unsafe
	if len(unsafe) > 0 {
		logger.Warn("Dependencies without a known license", "count", len(unsafe))
		for _, id := range unsafe {
			logger.Warn(" - " + id.String())
		}
	}

	forbidden := compliance.CheckForbidden(p.inv, policy)
	p.result.Forbidden = forbidden
	for _, f := range forbidden {
		logger.Warn("Forbidden license in use", "license", f.License, "reason", string(f.Reason), "dependencies", len(f.Dependencies))
	}
	if p.req.FailOnBlacklist && len(forbidden) > 0 {
		names := make([]string, len(forbidden))
		for i, f := range forbidden {
			names[i] = f.License
		}
		return fmt.Errorf("%w: %s", ErrForbiddenLicense, strings.Join(names, ", "))
	}

	data, err := report.Render(p.inv, p.req.Report)
	if err != nil {
		return err
	}
	if !p.req.DryRun {
		written, err := report.NewWriter(p.engine.fs, p.engine.hasher).Write(p.req.ReportPath, data, p.req.Force)
		if err != nil {
			return err
		}
		p.result.Report = written
		if written.Written {
			logger.Info("Writing third-party file", "path", written.Path)
		} else {
			logger.Info("Third-party file is up to date", "path", written.Path)
		}
	}
	p.phase = PhaseReported

	if p.req.FailOnMissing && len(unsafe) > 0 {
		return fmt.Errorf("%w: %d dependencies", ErrMissingLicense, len(unsafe))
	}
	return nil
}

func (p *pass) writeMetrics() error {
	licenses := make(map[string]int)
	for name, deps := range p.result.Licenses {
		licenses[name] = len(deps)
	}
	merged := 0
	for _, m := range p.result.Modules {
		if m.Merged {
			merged++
		}
	}

	summary := metrics.Summary{
		Modules:      merged,
		Licenses:     licenses,
		Dependencies: len(p.inv.Dependencies()),
		Removed:      p.result.Removed,
		Unsafe:       len(p.result.Unsafe),
		Forbidden:    len(p.result.Forbidden),
	}
	if res := p.result.Resolution; res != nil {
		summary.Unresolved = len(res.Unresolved())
		summary.Mismatched = len(res.Mismatched())
	}

	recorder := metrics.NewRecorder()
	recorder.Observe(summary)
	return recorder.WriteTextfile(p.engine.fs, p.req.MetricsFile)
}

// detail logs at info level in verbose mode and at debug level otherwise.
func (p *pass) detail(msg string, keyvals ...any) {
	if p.req.Verbose {
		p.engine.logger.Info(msg, keyvals...)
		return
	}
	p.engine.logger.Debug(msg, keyvals...)
}
