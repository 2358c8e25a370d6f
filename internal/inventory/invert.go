package inventory

import "github.com/danieljhkim/thirdparty/internal/identity"

// Invert maps each identity to the licenses it is recorded under, keeping only
// identities with more than one license. License lists follow the sorted order
// of Licenses.
func Invert(inv *Inventory) map[identity.ID][]string {
	byID := make(map[identity.ID][]string)
	for _, license := range inv.Licenses() {
		for id := range inv.buckets[license] {
			byID[id] = append(byID[id], license)
		}
	}

	for id, licenses := range byID {
		if len(licenses) == 1 {
			delete(byID, id)
		}
	}
	return byID
}
