package engine

import (
	"time"

	"github.com/danieljhkim/thirdparty/internal/compliance"
	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/inventory"
	"github.com/danieljhkim/thirdparty/internal/planner"
	"github.com/danieljhkim/thirdparty/internal/report"
)

// ModuleResult describes how one manifest module took part in the pass.
type ModuleResult struct {
	// ID is the module identity
	ID identity.ID `json:"id"`

	// Packaging is the module packaging
	Packaging string `json:"packaging"`

	// Merged is true when the module's inventory was merged
	Merged bool `json:"merged"`

	// SkipReason explains why the module was not merged
	SkipReason string `json:"skipReason,omitempty"`

	// Licenses is the number of licenses in the module's inventory
	Licenses int `json:"licenses"`
}

// AggregateResult represents the outcome of one aggregation pass.
// When a policy check fails the result is returned together with the error.
type AggregateResult struct {
	// Skipped is true when the pass was disabled by configuration
	Skipped bool `json:"skipped"`

	// Phase is the last phase the pass reached
	Phase Phase `json:"phase"`

	// Tool is the resolved tool identity
	Tool identity.ID `json:"tool"`

	// ScanHint names the per-module scan whose output was read
	ScanHint string `json:"scanHint"`

	// Modules lists every manifest module in declared order
	Modules []ModuleResult `json:"modules"`

	// Inventory is the pruned inventory
	Inventory *inventory.Inventory `json:"-"`

	// Licenses is a snapshot of the pruned inventory, empty licenses omitted
	Licenses map[string][]string `json:"licenses"`

	// Resolution holds the outcome of every multi-license dependency
	Resolution *planner.Resolution `json:"resolution"`

	// SelectionFound is false when the selection file does not exist
	SelectionFound bool `json:"selectionFound"`

	// Consolidated is the number of license aliases folded into their main name
	Consolidated int `json:"consolidated"`

	// Remapped lists dependencies that the missing-license files gave a license
	Remapped []identity.ID `json:"remapped"`

	// Removed is the number of associations pruned
	Removed int `json:"removed"`

	// Unsafe lists dependencies still without a known license
	Unsafe []identity.ID `json:"unsafe"`

	// Forbidden lists forbidden licenses in use
	Forbidden []compliance.Forbidden `json:"forbidden"`

	// Report describes the report write; nil for dry runs
	Report *report.WriteResult `json:"report,omitempty"`

	// StartedAt is when the pass began
	StartedAt time.Time `json:"startedAt"`

	// Duration is how long the pass took
	Duration time.Duration `json:"duration"`
}
