// Package compliance checks a pruned inventory against license policy.
//
// Two checks exist. Unsafe dependencies are those recorded only under the
// unknown-license label. Forbidden licenses are those outside the included list
// (when one is configured) or inside the excluded list. Whether a finding fails
// the build is decided by the caller.
package compliance

import (
	"slices"

	"github.com/danieljhkim/thirdparty/internal/identity"
	"github.com/danieljhkim/thirdparty/internal/inventory"
)

// DefaultUnknownLicense is the label scans use for dependencies without license metadata.
const DefaultUnknownLicense = "Unknown license"

// Reason explains why a license is forbidden.
type Reason string

const (
	// NotIncluded means an included list is configured and the license is not on it.
	NotIncluded Reason = "not included"
	// Excluded means the license is on the excluded list.
	Excluded Reason = "excluded"
)

// Policy is the license policy of a build.
type Policy struct {
	// Included licenses; when non-empty every other license is forbidden
	Included []string

	// Excluded licenses are always forbidden
	Excluded []string

	// UnknownLicense labels dependencies without license metadata
	UnknownLicense string
}

// unknown returns the configured unknown-license label.
func (p Policy) unknown() string {
	if p.UnknownLicense == "" {
		return DefaultUnknownLicense
	}
	return p.UnknownLicense
}

// Forbidden is one forbidden license and the dependencies using it.
type Forbidden struct {
	License      string        `json:"license"`
	Reason       Reason        `json:"reason"`
	Dependencies []identity.ID `json:"dependencies"`
}

// Unsafe returns the dependencies listed under the unknown-license label, sorted.
func Unsafe(inv *inventory.Inventory, policy Policy) []identity.ID {
	return inv.Get(policy.unknown())
}

// CheckForbidden returns forbidden licenses in license-name order.
// Empty buckets and the unknown-license label are never reported.
func CheckForbidden(inv *inventory.Inventory, policy Policy) []Forbidden {
	var out []Forbidden
	for _, license := range inv.Licenses() {
		if license == policy.unknown() {
			continue
		}
		deps := inv.Get(license)
		if len(deps) == 0 {
			continue
		}

		switch {
		case slices.Contains(policy.Excluded, license):
			out = append(out, Forbidden{License: license, Reason: Excluded, Dependencies: deps})
		case len(policy.Included) > 0 && !slices.Contains(policy.Included, license):
			out = append(out, Forbidden{License: license, Reason: NotIncluded, Dependencies: deps})
		}
	}
	return out
}

// Mapping supplies licenses for dependencies that have none.
// *selection.Selection satisfies it.
type Mapping interface {
	Lookup(id identity.ID) (string, bool)
}

// ApplyMissing moves unsafe dependencies that mapping knows about from the
// unknown-license bucket to the mapped license. It returns the moved identities.
func ApplyMissing(inv *inventory.Inventory, policy Policy, mapping Mapping) []identity.ID {
	var moved []identity.ID
	for _, id := range Unsafe(inv, policy) {
		license, ok := mapping.Lookup(id)
		if !ok || license == "" || license == policy.unknown() {
			continue
		}
		inv.Add(license, id)
		inv.Remove(policy.unknown(), id)
		moved = append(moved, id)
	}
	return moved
}
