package planner

import (
	"slices"

	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/selection"
)

// Selector looks up the license chosen for a dependency.
// *selection.Selection satisfies it.
type Selector interface {
	Lookup(id identity.ID) (string, bool)
}

var _ Selector = (*selection.Selection)(nil)

// Resolve decides every dependency in multi (identity to its licenses) against sel.
// The result depends only on the contents of multi and sel; outcomes and plan
// entries are emitted in identity order.
func Resolve(multi map[identity.ID][]string, sel Selector) *Resolution {
	ids := make([]identity.ID, 0, len(multi))
	for id := range multi {
		ids = append(ids, id)
	}
	identity.Sort(ids)

	res := &Resolution{
		Outcomes: make([]Outcome, 0, len(ids)),
		Plan:     RemovalPlan{},
	}

	for _, id := range ids {
		licenses := slices.Clone(multi[id])
		outcome := Outcome{ID: id, Licenses: licenses}

		chosen, ok := sel.Lookup(id)
		switch {
		case !ok:
			outcome.Kind = Unresolved
		case !slices.Contains(licenses, chosen):
			// Selection files are hand-written; a typo must not drop real license facts.
			outcome.Kind = Mismatch
			outcome.Chosen = chosen
		default:
			outcome.Kind = Resolved
			outcome.Chosen = chosen
			for _, license := range outcome.Dropped() {
				res.Plan.add(license, id)
			}
		}

		res.Outcomes = append(res.Outcomes, outcome)
	}

	return res
}
