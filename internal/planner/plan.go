package planner

import (
	"sort"

	"github.com/danieljhkim/thirdparty/internal/identity"
)

// OutcomeKind classifies how a multi-license dependency was handled.
type OutcomeKind int

const (
	// Resolved means a selection matched one of the dependency's licenses.
	Resolved OutcomeKind = iota
	// Unresolved means no selection exists for the dependency.
	Unresolved
	// Mismatch means the selection names a license the dependency does not carry.
	Mismatch
)

// String returns the outcome name.
func (k OutcomeKind) String() string {
	switch k {
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	case Mismatch:
		return "mismatch"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler for JSON output.
func (k OutcomeKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Outcome records the decision for one multi-license dependency.
type Outcome struct {
	// ID is the dependency
	ID identity.ID `json:"id"`

	// Kind is the decision
	Kind OutcomeKind `json:"kind"`

	// Licenses are all licenses the dependency carried before pruning
	Licenses []string `json:"licenses"`

	// Chosen is the selected license (empty when Unresolved)
	Chosen string `json:"chosen,omitempty"`
}

// Dropped returns the licenses to remove for a Resolved outcome, nil otherwise.
func (o Outcome) Dropped() []string {
	if o.Kind != Resolved {
		return nil
	}
	var dropped []string
	for _, license := range o.Licenses {
		if license != o.Chosen {
			dropped = append(dropped, license)
		}
	}
	return dropped
}

// RemovalPlan maps a license name to the identities to drop from its bucket.
type RemovalPlan map[string][]identity.ID

// add plans the removal of id from license.
func (p RemovalPlan) add(license string, id identity.ID) {
	p[license] = append(p[license], id)
}

// Licenses returns the planned license names in lexicographic order.
func (p RemovalPlan) Licenses() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of planned (license, identity) removals.
func (p RemovalPlan) Len() int {
	n := 0
	for _, ids := range p {
		n += len(ids)
	}
	return n
}

// Resolution is the result of resolving multi-license dependencies.
type Resolution struct {
	// Outcomes has one entry per multi-license dependency, sorted by identity
	Outcomes []Outcome `json:"outcomes"`

	// Plan is derived from the Resolved outcomes
	Plan RemovalPlan `json:"plan"`
}

// filter returns the outcomes of the given kind, in Outcomes order.
func (r *Resolution) filter(kind OutcomeKind) []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

// Resolved returns the outcomes where a selection applied.
func (r *Resolution) Resolved() []Outcome {
	return r.filter(Resolved)
}

// Unresolved returns dependencies without any selection.
func (r *Resolution) Unresolved() []Outcome {
	return r.filter(Unresolved)
}

// Mismatched returns dependencies whose selection names a license they do not carry.
func (r *Resolution) Mismatched() []Outcome {
	return r.filter(Mismatch)
}
