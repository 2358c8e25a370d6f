package engine

import (
	"github.com/danieljhkim/thirdparty/internal/inventory"
	"github.com/danieljhkim/thirdparty/internal/planner"
)

// prune removes every planned (license, identity) association from inv and
// returns how many were actually present. Licenses missing from inv are skipped.
// Emptied licenses stay in inv; reports omit them.
func prune(inv *inventory.Inventory, plan planner.RemovalPlan) int {
	removed := 0
	for _, license := range plan.Licenses() {
		if !inv.Contains(license) {
			continue
		}
		for _, id := range plan[license] {
			if inv.Remove(license, id) {
				removed++
			}
		}
	}
	return removed
}
